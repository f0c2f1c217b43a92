package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/Houeta/employee-api/internal/models"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS employees (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL DEFAULT '',
	last_name  TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_employees_email ON employees (email);`

// NewSQLiteDatabase opens the SQLite file at path and makes sure the employees table exists.
func NewSQLiteDatabase(ctx context.Context, path string) (*sql.DB, error) {
	ctxTimeout := 5 * time.Second

	dtb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite allows a single writer at a time.
	dtb.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(ctx, ctxTimeout)
	defer cancel()

	if _, err = dtb.ExecContext(ctx, sqliteSchema); err != nil {
		_ = dtb.Close()
		return nil, fmt.Errorf("failed to create SQLite schema: %w", err)
	}

	return dtb, nil
}

// SQLiteRepository stores employees in an embedded SQLite database.
type SQLiteRepository struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

func NewSQLiteEmployeeRepository(db *sql.DB, metrics *metrics.Metrics) EmployeeRepoIface {
	return &SQLiteRepository{db: db, metrics: metrics}
}

func (r *SQLiteRepository) SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer observeQuery(r.metrics, "save_employee", time.Now())

	if employee.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO employees (first_name, last_name, email) VALUES (?, ?, ?)`,
			employee.FirstName, employee.LastName, employee.Email)
		if err != nil {
			return models.Employee{}, fmt.Errorf("failed to save employee: %w", err)
		}

		if employee.ID, err = res.LastInsertId(); err != nil {
			return models.Employee{}, fmt.Errorf("failed to get generated employee id: %w", err)
		}

		return employee, nil
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (id, first_name, last_name, email) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET first_name = excluded.first_name, last_name = excluded.last_name,
		email = excluded.email, updated_at = CURRENT_TIMESTAMP`,
		employee.ID, employee.FirstName, employee.LastName, employee.Email)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee data: %w", err)
	}

	return employee, nil
}

func (r *SQLiteRepository) FindAllEmployees(ctx context.Context) ([]models.Employee, error) {
	defer observeQuery(r.metrics, "find_all_employees", time.Now())

	rows, err := r.db.QueryContext(ctx, `SELECT id, first_name, last_name, email FROM employees ORDER BY id`)
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

func (r *SQLiteRepository) FindEmployeeByID(ctx context.Context, identifier int64) (*models.Employee, error) {
	defer observeQuery(r.metrics, "find_employee_by_id", time.Now())

	row := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email FROM employees WHERE id = ?`, identifier)

	employee, err := scanSQLEmployee(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return employee, nil
}

func (r *SQLiteRepository) FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error) {
	defer observeQuery(r.metrics, "find_employee_by_email", time.Now())

	row := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email FROM employees WHERE email = ? ORDER BY id LIMIT 1`, email)

	employee, err := scanSQLEmployee(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by email: %w", err)
	}

	return employee, nil
}

func (r *SQLiteRepository) DeleteEmployeeByID(ctx context.Context, identifier int64) (bool, error) {
	defer observeQuery(r.metrics, "delete_employee", time.Now())

	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, identifier)
	if err != nil {
		return false, fmt.Errorf("failed to delete employee: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count deleted employees: %w", err)
	}

	return affected > 0, nil
}

func scanSQLEmployee(row *sql.Row) (*models.Employee, error) {
	var employee models.Employee

	err := row.Scan(&employee.ID, &employee.FirstName, &employee.LastName, &employee.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	if err != nil {
		return nil, err
	}

	return &employee, nil
}
