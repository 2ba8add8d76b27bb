package repository

import (
	"arai/internal/db"
	"arai/internal/metrics"

	"github.com/sirupsen/logrus"
)

type Repository struct {
	DB     *db.DB
	Logger *logrus.Logger
}

// observe counts one store operation under its outcome
func (r Repository) observe(operation string, err error) {
	metrics.DBOperations.WithLabelValues(operation, metrics.Outcome(err)).Inc()
	if err != nil && r.Logger != nil {
		r.Logger.WithField("operation", operation).Errorf("Database operation failed: %v", err)
	}
}
