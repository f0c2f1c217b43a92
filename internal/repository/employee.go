package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Houeta/employee-api/internal/models"
	"github.com/jackc/pgx/v5"
)

const (
	insertEmployeeQuery = `INSERT INTO employees (first_name, last_name, email) VALUES ($1, $2, $3) RETURNING id;`
	upsertEmployeeQuery = `INSERT INTO employees (id, first_name, last_name, email) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
		email = EXCLUDED.email, updated_at = CURRENT_TIMESTAMP;`
	// An explicit id does not advance the identity sequence, so it is moved past the highest id.
	syncIdentityQuery = `SELECT setval(pg_get_serial_sequence('employees', 'id'),
		GREATEST((SELECT max(id) FROM employees), 1));`

	selectEmployeesQuery       = `SELECT id, first_name, last_name, email FROM employees ORDER BY id`
	selectEmployeeByIDQuery    = `SELECT id, first_name, last_name, email FROM employees WHERE id=$1`
	selectEmployeeByEmailQuery = `SELECT id, first_name, last_name, email FROM employees WHERE email=$1 ORDER BY id LIMIT 1`
	deleteEmployeeQuery        = `DELETE FROM employees WHERE id=$1`
)

// SaveEmployee persists an employee. An employee without an identifier is inserted and receives
// a generated one, otherwise the row with the same identifier is overwritten.
func (r *Repository) SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer observeQuery(r.metrics, "save_employee", time.Now())

	if employee.ID == 0 {
		err := r.db.QueryRow(ctx, insertEmployeeQuery, employee.FirstName, employee.LastName, employee.Email).
			Scan(&employee.ID)
		if err != nil {
			return models.Employee{}, fmt.Errorf("failed to save employee: %w", err)
		}

		return employee, nil
	}

	_, err := r.db.Exec(ctx, upsertEmployeeQuery, employee.ID, employee.FirstName, employee.LastName, employee.Email)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee data: %w", err)
	}

	if _, err = r.db.Exec(ctx, syncIdentityQuery); err != nil {
		return models.Employee{}, fmt.Errorf("failed to sync employee id sequence: %w", err)
	}

	return employee, nil
}

// FindAllEmployees returns every stored employee ordered by identifier.
func (r *Repository) FindAllEmployees(ctx context.Context) ([]models.Employee, error) {
	defer observeQuery(r.metrics, "find_all_employees", time.Now())

	rows, err := r.db.Query(ctx, selectEmployeesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		var employee models.Employee
		if err = rows.Scan(&employee.ID, &employee.FirstName, &employee.LastName, &employee.Email); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// FindEmployeeByID retrieves an employee from the database by their ID.
func (r *Repository) FindEmployeeByID(ctx context.Context, identifier int64) (*models.Employee, error) {
	defer observeQuery(r.metrics, "find_employee_by_id", time.Now())

	employee, err := r.scanEmployee(r.db.QueryRow(ctx, selectEmployeeByIDQuery, identifier))
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return employee, nil
}

// FindEmployeeByEmail retrieves the first employee registered with the given email.
func (r *Repository) FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	defer observeQuery(r.metrics, "find_employee_by_email", time.Now())

	employee, err := r.scanEmployee(r.db.QueryRow(ctx, selectEmployeeByEmailQuery, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by email: %w", err)
	}

	return employee, nil
}

// DeleteEmployeeByID removes an employee and reports whether a row was deleted.
// Deleting an unknown identifier is not an error.
func (r *Repository) DeleteEmployeeByID(ctx context.Context, identifier int64) (bool, error) {
	defer observeQuery(r.metrics, "delete_employee", time.Now())

	tag, err := r.db.Exec(ctx, deleteEmployeeQuery, identifier)
	if err != nil {
		return false, fmt.Errorf("failed to delete employee: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repository) scanEmployee(row pgx.Row) (*models.Employee, error) {
	var employee models.Employee

	err := row.Scan(&employee.ID, &employee.FirstName, &employee.LastName, &employee.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	if err != nil {
		return nil, err
	}

	return &employee, nil
}
