package versions

import (
	"arai/internal/migrations"

	"gorm.io/gorm"
)

func init() {
	migrations.RegisterWithRollback("001", "Create reports table", createReportsTable, dropReportsTable)
}

func createReportsTable(tx *gorm.DB) error {
	return tx.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY,
			brand VARCHAR(255) NOT NULL,
			category VARCHAR(255) NOT NULL DEFAULT '',
			market VARCHAR(255) NOT NULL DEFAULT '',
			goal VARCHAR(64) NOT NULL,
			kpis TEXT[] NOT NULL DEFAULT '{}',
			budget NUMERIC(14, 2) NOT NULL DEFAULT 0,
			mode VARCHAR(16) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at);
		CREATE INDEX IF NOT EXISTS idx_reports_brand ON reports (brand);
	`).Error
}

func dropReportsTable(tx *gorm.DB) error {
	return tx.Exec(`DROP TABLE IF EXISTS reports`).Error
}
