//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/Houeta/employee-api/internal/metrics"
	"github.com/Houeta/employee-api/internal/models"
	"github.com/Houeta/employee-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamathecxder/randomail"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("employees"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(stdlib.OpenDBFromPool(pool), "../../migrations"))

	return pool
}

func TestEmployeeRepository_Postgres(t *testing.T) {
	pool := setupPostgres(t)
	repo := repository.NewEmployeeRepository(pool, metrics.NewMetrics(prometheus.NewRegistry()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := repo.SaveEmployee(ctx, models.Employee{FirstName: "John", LastName: "Doe", Email: "john@doe.com"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	other, err := repo.SaveEmployee(ctx, models.Employee{FirstName: "Jane", Email: randomail.GenerateRandomEmail()})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)

	all, err := repo.FindAllEmployees(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, created)
	assert.Contains(t, all, other)

	created.Email = "john@doe.com"
	created.FirstName = "Johnny"
	_, err = repo.SaveEmployee(ctx, created)
	require.NoError(t, err)

	found, err := repo.FindEmployeeByEmail(ctx, "john@doe.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created, *found)

	deleted, err := repo.DeleteEmployeeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	found, err = repo.FindEmployeeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestEmployeeRepository_PostgresExplicitIDKeepsSequenceAhead(t *testing.T) {
	pool := setupPostgres(t)
	repo := repository.NewEmployeeRepository(pool, metrics.NewMetrics(prometheus.NewRegistry()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := repo.SaveEmployee(ctx, models.Employee{ID: 5, FirstName: "Fixed", Email: randomail.GenerateRandomEmail()})
	require.NoError(t, err)

	seen := map[int64]bool{5: true}
	for range 10 {
		created, saveErr := repo.SaveEmployee(ctx, models.Employee{FirstName: "Next", Email: randomail.GenerateRandomEmail()})
		require.NoError(t, saveErr)
		assert.Greater(t, created.ID, int64(5))
		assert.False(t, seen[created.ID])
		seen[created.ID] = true
	}
}
