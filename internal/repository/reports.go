package repository

import (
	"errors"
	"strings"
	"time"

	"arai/internal/db"
	"arai/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const defaultRecentLimit = 20

type Reports struct {
	Repository
}

// Save persists a generated strategy under a fresh ID
func (r *Reports) Save(in model.Input, mode model.Mode, content string) (model.Report, error) {
	report := model.Report{
		ID:       uuid.NewString(),
		Brand:    strings.TrimSpace(in.Brand),
		Category: in.Category,
		Market:   in.Market,
		Goal:     in.Goal,
		KPIs:     pq.StringArray(append([]string{}, in.KPIs...)),
		Budget:   in.Budget,
		Mode:     mode,
		Content:  content,
	}

	err := r.DB.CreateReport(&report)
	r.observe("create", err)
	if err != nil {
		return model.Report{}, err
	}

	r.Logger.WithFields(logrus.Fields{"id": report.ID, "brand": report.Brand, "mode": mode}).Debug("Report saved")
	return report, nil
}

func (r *Reports) Get(id string) (model.Report, bool, error) {
	report, err := r.DB.GetReport(id)
	if errors.Is(err, db.ErrNotFound) {
		r.observe("get", nil)
		return model.Report{}, false, nil
	}
	r.observe("get", err)
	if err != nil {
		return model.Report{}, false, err
	}
	return *report, true, nil
}

// Recent lists the latest reports, at most limit of them
func (r *Reports) Recent(limit int) ([]model.Report, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	reports, err := r.DB.ListReports(limit)
	r.observe("list", err)
	return reports, err
}

// Purge deletes reports older than the retention window
func (r *Reports) Purge(retention time.Duration, now time.Time) (int64, error) {
	n, err := r.DB.DeleteReportsBefore(now.Add(-retention))
	r.observe("purge", err)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.Logger.Infof("Purged %d reports older than %s", n, retention)
	}
	return n, nil
}
