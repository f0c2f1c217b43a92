package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/Houeta/employee-api/internal/models"
	"github.com/Houeta/employee-api/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertEmployeeQuery        = `INSERT INTO employees (first_name, last_name, email) VALUES ($1, $2, $3) RETURNING id;`
	upsertEmployeeQuery        = `INSERT INTO employees (id, first_name, last_name, email) VALUES ($1, $2, $3, $4)`
	syncIdentityQuery          = `SELECT setval(pg_get_serial_sequence('employees', 'id'),`
	selectEmployeesQuery       = `SELECT id, first_name, last_name, email FROM employees ORDER BY id`
	selectEmployeeByIDQuery    = `SELECT id, first_name, last_name, email FROM employees WHERE id=$1`
	selectEmployeeByEmailQuery = `SELECT id, first_name, last_name, email FROM employees WHERE email=$1`
	deleteEmployeeQuery        = `DELETE FROM employees WHERE id=$1`
)

var employeeColumns = []string{"id", "first_name", "last_name", "email"}

func newMockRepository(t *testing.T) (pgxmock.PgxPoolIface, repository.EmployeeRepoIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mock.Close)

	return mock, repository.NewEmployeeRepository(mock, metrics.NewMetrics(prometheus.NewRegistry()))
}

func TestSaveEmployee_Insert(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepository(t)
	input := models.Employee{FirstName: "John", LastName: "Doe", Email: "john@doe.com"}

	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeQuery)).
		WithArgs(input.FirstName, input.LastName, input.Email).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	saved, err := repo.SaveEmployee(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, input.FirstName, saved.FirstName)
	assert.Equal(t, input.LastName, saved.LastName)
	assert.Equal(t, input.Email, saved.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEmployee_InsertQueryError(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepository(t)
	input := models.Employee{FirstName: "John", LastName: "Doe", Email: "john@doe.com"}

	mock.ExpectQuery(regexp.QuoteMeta(insertEmployeeQuery)).
		WithArgs(input.FirstName, input.LastName, input.Email).
		WillReturnError(assert.AnError)

	saved, err := repo.SaveEmployee(context.Background(), input)

	require.EqualError(t, err, "failed to save employee: "+assert.AnError.Error())
	assert.Equal(t, models.Employee{}, saved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEmployee_Overwrite(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepository(t)
	input := models.Employee{ID: 7, FirstName: "Jane", LastName: "Roe", Email: "jane@roe.com"}

	mock.ExpectExec(regexp.QuoteMeta(upsertEmployeeQuery)).
		WithArgs(input.ID, input.FirstName, input.LastName, input.Email).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(syncIdentityQuery)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))

	saved, err := repo.SaveEmployee(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, input, saved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEmployee_OverwriteSequenceError(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepository(t)
	input := models.Employee{ID: 1000, FirstName: "Jane", LastName: "Roe", Email: "jane@roe.com"}

	mock.ExpectExec(regexp.QuoteMeta(upsertEmployeeQuery)).
		WithArgs(input.ID, input.FirstName, input.LastName, input.Email).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta(syncIdentityQuery)).
		WillReturnError(assert.AnError)

	saved, err := repo.SaveEmployee(context.Background(), input)

	require.EqualError(t, err, "failed to sync employee id sequence: "+assert.AnError.Error())
	assert.Equal(t, models.Employee{}, saved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEmployee_OverwriteQueryError(t *testing.T) {
	t.Parallel()

	mock, repo := newMockRepository(t)
	input := models.Employee{ID: 7, FirstName: "Jane", LastName: "Roe", Email: "jane@roe.com"}

	mock.ExpectExec(regexp.QuoteMeta(upsertEmployeeQuery)).
		WithArgs(input.ID, input.FirstName, input.LastName, input.Email).
		WillReturnError(assert.AnError)

	_, err := repo.SaveEmployee(context.Background(), input)

	require.EqualError(t, err, "failed to update employee data: "+assert.AnError.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllEmployees(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		expected := []models.Employee{
			{ID: 1, FirstName: "John", LastName: "Doe", Email: "john@doe.com"},
			{ID: 2, FirstName: "Jane", LastName: "Roe", Email: "jane@roe.com"},
		}
		rows := pgxmock.NewRows(employeeColumns)
		for _, employee := range expected {
			rows.AddRow(employee.ID, employee.FirstName, employee.LastName, employee.Email)
		}

		mock.ExpectQuery(regexp.QuoteMeta(selectEmployeesQuery)).WillReturnRows(rows)

		actual, err := repo.FindAllEmployees(context.Background())

		require.NoError(t, err)
		assert.Equal(t, expected, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table returns empty slice", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(selectEmployeesQuery)).WillReturnRows(pgxmock.NewRows(employeeColumns))

		actual, err := repo.FindAllEmployees(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, actual)
		assert.Empty(t, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(selectEmployeesQuery)).WillReturnError(assert.AnError)

		actual, err := repo.FindAllEmployees(context.Background())

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to query employees")
		assert.Nil(t, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		rows := pgxmock.NewRows(employeeColumns).
			AddRow(int64(1), "John", "Doe", "john@doe.com").
			RowError(0, assert.AnError)
		mock.ExpectQuery(regexp.QuoteMeta(selectEmployeesQuery)).WillReturnRows(rows)

		_, err := repo.FindAllEmployees(context.Background())

		require.ErrorIs(t, err, assert.AnError)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindEmployeeByID(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		expected := models.Employee{ID: 123, FirstName: "John", LastName: "Doe", Email: "john@doe.com"}
		mock.ExpectQuery(regexp.QuoteMeta(selectEmployeeByIDQuery)).
			WithArgs(expected.ID).
			WillReturnRows(pgxmock.NewRows(employeeColumns).
				AddRow(expected.ID, expected.FirstName, expected.LastName, expected.Email))

		actual, err := repo.FindEmployeeByID(context.Background(), expected.ID)

		require.NoError(t, err)
		require.NotNil(t, actual)
		assert.Equal(t, expected, *actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(selectEmployeeByIDQuery)).
			WithArgs(int64(404)).
			WillReturnError(pgx.ErrNoRows)

		actual, err := repo.FindEmployeeByID(context.Background(), 404)

		require.NoError(t, err)
		assert.Nil(t, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(selectEmployeeByIDQuery)).
			WithArgs(int64(123)).
			WillReturnError(assert.AnError)

		actual, err := repo.FindEmployeeByID(context.Background(), 123)

		require.EqualError(t, err, "failed to get employee by id: "+assert.AnError.Error())
		assert.Nil(t, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindEmployeeByEmail(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		expected := models.Employee{ID: 5, FirstName: "John", LastName: "Doe", Email: "john@doe.com"}
		mock.ExpectQuery(regexp.QuoteMeta(selectEmployeeByEmailQuery)).
			WithArgs(expected.Email).
			WillReturnRows(pgxmock.NewRows(employeeColumns).
				AddRow(expected.ID, expected.FirstName, expected.LastName, expected.Email))

		actual, err := repo.FindEmployeeByEmail(context.Background(), expected.Email)

		require.NoError(t, err)
		require.NotNil(t, actual)
		assert.Equal(t, expected, *actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(selectEmployeeByEmailQuery)).
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		actual, err := repo.FindEmployeeByEmail(context.Background(), "nobody@example.com")

		require.NoError(t, err)
		assert.Nil(t, actual)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta(selectEmployeeByEmailQuery)).
			WithArgs("john@doe.com").
			WillReturnError(assert.AnError)

		_, err := repo.FindEmployeeByEmail(context.Background(), "john@doe.com")

		require.EqualError(t, err, "failed to get employee by email: "+assert.AnError.Error())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteEmployeeByID(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		mock.ExpectExec(regexp.QuoteMeta(deleteEmployeeQuery)).
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		deleted, err := repo.DeleteEmployeeByID(context.Background(), 1)

		require.NoError(t, err)
		assert.True(t, deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing id is silent", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		mock.ExpectExec(regexp.QuoteMeta(deleteEmployeeQuery)).
			WithArgs(int64(99)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		deleted, err := repo.DeleteEmployeeByID(context.Background(), 99)

		require.NoError(t, err)
		assert.False(t, deleted)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		mock, repo := newMockRepository(t)

		mock.ExpectExec(regexp.QuoteMeta(deleteEmployeeQuery)).
			WithArgs(int64(1)).
			WillReturnError(assert.AnError)

		_, err := repo.DeleteEmployeeByID(context.Background(), 1)

		require.EqualError(t, err, "failed to delete employee: "+assert.AnError.Error())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
