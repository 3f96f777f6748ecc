package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestRunMigrationsAppliesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "002_second.sql", "CREATE TABLE second (id INT)")
	writeMigration(t, dir, "001_first.sql", "CREATE TABLE first (id INT)")
	writeMigration(t, dir, "README.md", "not sql")

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE first (id INT)").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE second (id INT)").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, RunMigrations(context.Background(), mock, dir, zap.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsStopsOnFailure(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_first.sql", "CREATE TABLE first (id INT)")
	writeMigration(t, dir, "002_second.sql", "CREATE TABLE second (id INT)")

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE first (id INT)").WillReturnError(errors.New("syntax error"))

	err = RunMigrations(context.Background(), mock, dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_first.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsMissingDir(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	err = RunMigrations(context.Background(), mock, filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	assert.Error(t, err)
}

func TestRunMigrationsWithoutDatabase(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, "migrations", zap.NewNop()))
}

func TestRepoMigrationsPresent(t *testing.T) {
	entries, err := os.ReadDir(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
