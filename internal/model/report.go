package model

import (
	"time"

	"github.com/lib/pq"
)

// Report represents the reports table structure, one generated strategy
type Report struct {
	ID        string         `gorm:"column:id;primaryKey" json:"id"`
	Brand     string         `gorm:"column:brand;not null;index" json:"brand"`
	Category  string         `gorm:"column:category" json:"category"`
	Market    string         `gorm:"column:market" json:"market"`
	Goal      Goal           `gorm:"column:goal;not null" json:"goal"`
	KPIs      pq.StringArray `gorm:"column:kpis;type:text[];not null;default:'{}'" json:"kpis"`
	Budget    float64        `gorm:"column:budget" json:"budget"`
	Mode      Mode           `gorm:"column:mode;not null" json:"mode"`
	Content   string         `gorm:"column:content;type:text" json:"content"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides the table name
func (Report) TableName() string {
	return "reports"
}
