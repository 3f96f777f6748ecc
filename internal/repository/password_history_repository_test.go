package repository

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHistoryRepository_Add(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO password_history`).
		WithArgs(int64(3), "$2a$10$old").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewPasswordHistoryRepository(mock).Add(context.Background(), 3, "$2a$10$old"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordHistoryRepository_ListRecent(t *testing.T) {
	t.Run("newest first", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`SELECT password_hash FROM password_history`).
			WithArgs(int64(3), 5).
			WillReturnRows(pgxmock.NewRows([]string{"password_hash"}).AddRow("h2").AddRow("h1"))

		hashes, err := NewPasswordHistoryRepository(mock).ListRecent(context.Background(), 3, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"h2", "h1"}, hashes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("disabled history skips the query", func(t *testing.T) {
		mock := newMock(t)

		hashes, err := NewPasswordHistoryRepository(mock).ListRecent(context.Background(), 3, 0)
		require.NoError(t, err)
		assert.Empty(t, hashes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
