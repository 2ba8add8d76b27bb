package db

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"arai/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	database, err := NewDBFromDialector(postgres.New(postgres.Config{Conn: sqlDB}))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return database, mock
}

func reportColumns() []string {
	return []string{"id", "brand", "category", "market", "goal", "kpis", "budget", "mode", "content", "created_at", "updated_at"}
}

func TestCreateReport(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "reports"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := database.CreateReport(&model.Report{
		ID:      "6f1c2a8e-0000-4000-8000-000000000001",
		Brand:   "Cocoa Co",
		Goal:    model.GoalSalesGrowth,
		Mode:    model.ModeTemplate,
		Content: "# Plan",
	})
	assert.NoError(t, err)
}

func TestGetReport(t *testing.T) {
	database, mock := newMockDB(t)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reports" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(reportColumns()).
			AddRow("r1", "Cocoa Co", "chocolate", "India", "Sales Growth", "{Revenue,\"ROAS (Return on Ad Spend)\"}", 1000.0, "ai", "## Strategy", now, now))

	report, err := database.GetReport("r1")
	require.NoError(t, err)
	assert.Equal(t, "Cocoa Co", report.Brand)
	assert.Equal(t, model.GoalSalesGrowth, report.Goal)
	assert.Equal(t, model.ModeAI, report.Mode)
	assert.Equal(t, 1000.0, report.Budget)
	assert.Equal(t, []string{model.KPIRevenue, model.KPIROAS}, []string(report.KPIs))
}

func TestGetReportNotFound(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reports" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(reportColumns()))

	_, err := database.GetReport("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListReports(t *testing.T) {
	database, mock := newMockDB(t)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reports" ORDER BY created_at DESC LIMIT`)).
		WillReturnRows(sqlmock.NewRows(reportColumns()).
			AddRow("r2", "Tea House", "", "", "Brand Awareness", "{}", 0.0, "template", "# Plan", now, now).
			AddRow("r1", "Cocoa Co", "", "", "Sales Growth", "{}", 10.0, "ai", "## Strategy", now.Add(-time.Hour), now))

	reports, err := database.ListReports(10)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "r2", reports[0].ID)
	assert.Equal(t, model.GoalBrandAwareness, reports[0].Goal)
}

func TestDeleteReportsBefore(t *testing.T) {
	database, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "reports" WHERE created_at < $1`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := database.DeleteReportsBefore(time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestPingAndClose(t *testing.T) {
	database, mock := newMockDB(t)

	assert.NoError(t, database.Ping())

	mock.ExpectClose()
	assert.NoError(t, database.Close())
}
