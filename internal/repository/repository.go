// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or delete employees, abstracting SQL logic away from the service layer.
package repository

import (
	"context"
	"time"

	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/Houeta/employee-api/internal/models"
)

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
// Lookups return a nil employee and a nil error when no record matches.
type EmployeeRepoIface interface {
	SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	FindAllEmployees(ctx context.Context) ([]models.Employee, error)
	FindEmployeeByID(ctx context.Context, identifier int64) (*models.Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	DeleteEmployeeByID(ctx context.Context, identifier int64) (bool, error)
}

func NewEmployeeRepository(db Database, metrics *metrics.Metrics) EmployeeRepoIface {
	return &Repository{db: db, metrics: metrics}
}

func observeQuery(m *metrics.Metrics, queryType string, startTime time.Time) {
	m.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}
