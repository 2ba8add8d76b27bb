package db

import (
	"errors"
	"time"

	"arai/internal/model"

	"gorm.io/gorm"
)

// CreateReport inserts a generated strategy
func (db *DB) CreateReport(report *model.Report) error {
	return db.conn.Create(report).Error
}

// GetReport retrieves a report by its ID
func (db *DB) GetReport(id string) (*model.Report, error) {
	var report model.Report
	result := db.conn.Where("id = ?", id).First(&report)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &report, nil
}

// ListReports returns the most recent reports, newest first
func (db *DB) ListReports(limit int) ([]model.Report, error) {
	var reports []model.Report
	result := db.conn.Order("created_at DESC").Limit(limit).Find(&reports)
	if result.Error != nil {
		return nil, result.Error
	}
	return reports, nil
}

// DeleteReportsBefore removes reports created before the cutoff and
// returns how many rows went away
func (db *DB) DeleteReportsBefore(cutoff time.Time) (int64, error) {
	result := db.conn.Where("created_at < ?", cutoff).Delete(&model.Report{})
	return result.RowsAffected, result.Error
}
