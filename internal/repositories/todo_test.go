package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoweb/internal/models"
)

func newMockRepository(t *testing.T, dialect Dialect) (*SQLTodoRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLTodoRepository(db, dialect), mock
}

func todoRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "due_date", "resolved", "created_at", "updated_at"})
}

func TestDialect_Rebind(t *testing.T) {
	query := "UPDATE todos SET title = ?, resolved = ? WHERE id = ?"
	assert.Equal(t, query, DialectMySQL.rebind(query))
	assert.Equal(t, "UPDATE todos SET title = $1, resolved = $2 WHERE id = $3", DialectPostgres.rebind(query))
}

func TestSQLCreate_MySQL(t *testing.T) {
	repo, mock := newMockRepository(t, DialectMySQL)

	mock.ExpectExec("INSERT INTO todos (title, description, due_date, resolved, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)").
		WithArgs("Test title", "", nil, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))

	created, err := repo.Create(context.Background(), models.NewTodo("Test title"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.False(t, created.Resolved)
	assert.Empty(t, created.Description)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, 5*time.Second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCreate_PostgresUsesReturning(t *testing.T) {
	repo, mock := newMockRepository(t, DialectPostgres)
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO todos (title, description, due_date, resolved, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id").
		WithArgs("Dated", "desc", due, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	todo := &models.Todo{Title: "Dated", Description: "desc", DueDate: &due}
	created, err := repo.Create(context.Background(), todo)
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLFindAll_OrdersByCreatedAtDesc(t *testing.T) {
	repo, mock := newMockRepository(t, DialectMySQL)
	newer := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	older := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, title, description, due_date, resolved, created_at, updated_at FROM todos ORDER BY created_at DESC, id DESC").
		WillReturnRows(todoRows().
			AddRow(int64(2), "Newer", "", nil, true, newer, newer).
			AddRow(int64(1), "Older", "d", due, false, older, older))

	todos, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, "Newer", todos[0].Title)
	assert.True(t, todos[0].Resolved)
	assert.Nil(t, todos[0].DueDate)
	assert.Equal(t, "Older", todos[1].Title)
	assert.Equal(t, "2025-01-01", todos[1].DueDateString())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLFindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t, DialectMySQL)

	mock.ExpectQuery("SELECT id, title, description, due_date, resolved, created_at, updated_at FROM todos WHERE id = ?").
		WithArgs(int64(99999)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 99999)
	assert.True(t, errors.Is(err, ErrTodoNotFound), "Expected ErrTodoNotFound")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUpdate_Success(t *testing.T) {
	repo, mock := newMockRepository(t, DialectMySQL)
	stamp := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE todos SET title = ?, description = ?, due_date = ?, resolved = ?, updated_at = ? WHERE id = ?").
		WithArgs("Updated title", "New", nil, true, sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, title, description, due_date, resolved, created_at, updated_at FROM todos WHERE id = ?").
		WithArgs(int64(1)).
		WillReturnRows(todoRows().AddRow(int64(1), "Updated title", "New", nil, true, stamp, stamp))

	updated, err := repo.Update(context.Background(), 1, &models.Todo{Title: "Updated title", Description: "New", Resolved: true})
	require.NoError(t, err)
	assert.Equal(t, "Updated title", updated.Title)
	assert.True(t, updated.Resolved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUpdate_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t, DialectMySQL)

	mock.ExpectExec("UPDATE todos SET title = ?, description = ?, due_date = ?, resolved = ?, updated_at = ? WHERE id = ?").
		WithArgs("Missing", "", nil, false, sqlmock.AnyArg(), int64(99999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), 99999, models.NewTodo("Missing"))
	assert.True(t, errors.Is(err, ErrTodoNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDelete(t *testing.T) {
	repo, mock := newMockRepository(t, DialectPostgres)

	mock.ExpectExec("DELETE FROM todos WHERE id = $1").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM todos WHERE id = $1").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 5))
	err := repo.Delete(context.Background(), 5)
	assert.True(t, errors.Is(err, ErrTodoNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDelete_WrapsDriverError(t *testing.T) {
	repo, mock := newMockRepository(t, DialectMySQL)
	boom := errors.New("connection reset")

	mock.ExpectExec("DELETE FROM todos WHERE id = ?").
		WithArgs(int64(1)).
		WillReturnError(boom)

	err := repo.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrTodoNotFound))
}
