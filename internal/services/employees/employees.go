// Package employees contains the employee business logic.
//
// It sits between the HTTP handlers and the repository: it copies the mutable
// fields of incoming employees onto stored records and keeps emails unique.
package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Houeta/employee-api/internal/lib/logger/sl"
	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/Houeta/employee-api/internal/models"
	"github.com/Houeta/employee-api/internal/repository"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailTaken       = errors.New("email is already used by another employee")
)

type Service struct {
	log     *slog.Logger
	repo    repository.EmployeeRepoIface
	metrics *metrics.Metrics
}

func NewService(log *slog.Logger, repo repository.EmployeeRepoIface, metrics *metrics.Metrics) *Service {
	return &Service{log: log, repo: repo, metrics: metrics}
}

func (s *Service) initLogger(opn string) *slog.Logger {
	return s.log.With(
		sl.Op(opn),
		slog.String("division", "employee"),
	)
}

// SaveEmployee stores a new employee and returns it with its generated identifier.
// Any identifier present in the input is ignored.
func (s *Service) SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	const opn = "Employees.SaveEmployee"
	log := s.initLogger(opn)

	if err := s.ensureEmailAvailable(ctx, employee.Email, 0); err != nil {
		return models.Employee{}, err
	}

	employee.ID = 0
	saved, err := s.repo.SaveEmployee(ctx, employee)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to save new employee: %w", err)
	}

	s.metrics.EmployeeChanges.WithLabelValues("created").Inc()
	log.DebugContext(ctx, "employee created", "id", saved.ID)

	return saved, nil
}

// GetAllEmployees returns every stored employee.
func (s *Service) GetAllEmployees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.FindAllEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}

	return employees, nil
}

// GetEmployeeByID returns the employee with the given identifier, or nil when it does not exist.
func (s *Service) GetEmployeeByID(ctx context.Context, identifier int64) (*models.Employee, error) {
	employee, err := s.repo.FindEmployeeByID(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee %d: %w", identifier, err)
	}

	return employee, nil
}

// UpdateEmployee overwrites the first name, last name and email of the stored employee
// with the values of newData. The stored identifier is kept.
func (s *Service) UpdateEmployee(ctx context.Context, newData models.Employee, identifier int64) (models.Employee, error) {
	const opn = "Employees.UpdateEmployee"
	log := s.initLogger(opn)

	existing, err := s.repo.FindEmployeeByID(ctx, identifier)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee %d: %w", identifier, err)
	}
	if existing == nil {
		return models.Employee{}, fmt.Errorf("%w: id %d", ErrEmployeeNotFound, identifier)
	}

	if err = s.ensureEmailAvailable(ctx, newData.Email, identifier); err != nil {
		return models.Employee{}, err
	}

	existing.FirstName = newData.FirstName
	existing.LastName = newData.LastName
	existing.Email = newData.Email

	updated, err := s.repo.SaveEmployee(ctx, *existing)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee %d: %w", identifier, err)
	}

	s.metrics.EmployeeChanges.WithLabelValues("updated").Inc()
	log.DebugContext(ctx, "employee updated", "id", updated.ID)

	return updated, nil
}

// DeleteEmployee removes the employee with the given identifier. Unknown identifiers are ignored.
func (s *Service) DeleteEmployee(ctx context.Context, identifier int64) error {
	const opn = "Employees.DeleteEmployee"
	log := s.initLogger(opn)

	deleted, err := s.repo.DeleteEmployeeByID(ctx, identifier)
	if err != nil {
		return fmt.Errorf("failed to delete employee %d: %w", identifier, err)
	}

	if !deleted {
		log.DebugContext(ctx, "employee to delete does not exist", "id", identifier)
		return nil
	}

	s.metrics.EmployeeChanges.WithLabelValues("deleted").Inc()
	log.DebugContext(ctx, "employee deleted", "id", identifier)

	return nil
}

// ensureEmailAvailable fails with ErrEmailTaken when email belongs to an employee other than ownerID.
func (s *Service) ensureEmailAvailable(ctx context.Context, email string, ownerID int64) error {
	if email == "" {
		return nil
	}

	holder, err := s.repo.FindEmployeeByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email %q: %w", email, err)
	}
	if holder != nil && holder.ID != ownerID {
		s.initLogger("Employees.ensureEmailAvailable").
			InfoContext(ctx, "email is already taken", "email", email, "holder", holder.ID)
		return fmt.Errorf("%w: %s", ErrEmailTaken, email)
	}

	return nil
}
