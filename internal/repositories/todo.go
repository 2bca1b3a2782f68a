// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"todoweb/internal/models"
)

// ErrTodoNotFound はTODOが見つからない場合のエラーです。
var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository はTodoの永続化を抽象化します。
type TodoRepository interface {
	Create(ctx context.Context, t *models.Todo) (*models.Todo, error)
	FindAll(ctx context.Context) ([]*models.Todo, error)
	FindByID(ctx context.Context, id int64) (*models.Todo, error)
	Update(ctx context.Context, id int64, t *models.Todo) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// Dialect はSQLの方言 (プレースホルダとID採番方法) を表します。
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// rebind は ? プレースホルダを方言に合わせて書き換えます。
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const todoColumns = "id, title, description, due_date, resolved, created_at, updated_at"

// SQLTodoRepository は database/sql 上の TodoRepository 実装です。
type SQLTodoRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

// NewSQLTodoRepository は新しいSQLTodoRepositoryインスタンスを作成します。
func NewSQLTodoRepository(db *sql.DB, dialect Dialect) *SQLTodoRepository {
	return &SQLTodoRepository{DB: db, Dialect: dialect}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func nullDate(d *time.Time) sql.NullTime {
	if d == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *d, Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	var t models.Todo
	var due sql.NullTime
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &due, &t.Resolved, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if due.Valid {
		d := time.Date(due.Time.Year(), due.Time.Month(), due.Time.Day(), 0, 0, 0, 0, time.UTC)
		t.DueDate = &d
	}
	return &t, nil
}

// Create は新しいTodoタスクをデータベースに挿入します。
func (r *SQLTodoRepository) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	stamp := now()
	query := "INSERT INTO todos (title, description, due_date, resolved, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	args := []any{t.Title, t.Description, nullDate(t.DueDate), t.Resolved, stamp, stamp}

	var id int64
	if r.Dialect == DialectPostgres {
		// lib/pq は LastInsertId をサポートしないため RETURNING を使う
		err := r.DB.QueryRowContext(ctx, r.Dialect.rebind(query+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			log.Printf("Failed to insert todo: %v", err)
			return nil, fmt.Errorf("could not insert todo: %w", err)
		}
	} else {
		result, err := r.DB.ExecContext(ctx, query, args...)
		if err != nil {
			log.Printf("Failed to insert todo: %v", err)
			return nil, fmt.Errorf("could not insert todo: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("could not get last insert ID: %w", err)
		}
	}

	t.ID = id
	t.CreatedAt = stamp
	t.UpdatedAt = stamp
	return t, nil
}

// FindAll はすべてのTodoタスクを作成日時の新しい順に取得します。
func (r *SQLTodoRepository) FindAll(ctx context.Context) ([]*models.Todo, error) {
	query := "SELECT " + todoColumns + " FROM todos ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		log.Printf("Failed to query todos: %v", err)
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := []*models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			log.Printf("Failed to scan todo: %v", err)
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// FindByID は指定されたIDのTodoタスクをデータベースから取得します。
func (r *SQLTodoRepository) FindByID(ctx context.Context, id int64) (*models.Todo, error) {
	query := r.Dialect.rebind("SELECT " + todoColumns + " FROM todos WHERE id = ?")

	t, err := scanTodo(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		log.Printf("Failed to query todo by ID: %v", err)
		return nil, fmt.Errorf("could not query todo: %w", err)
	}

	return t, nil
}

// Update は指定されたIDのTodoタスクの全フィールドを書き戻します。
func (r *SQLTodoRepository) Update(ctx context.Context, id int64, t *models.Todo) (*models.Todo, error) {
	query := r.Dialect.rebind("UPDATE todos SET title = ?, description = ?, due_date = ?, resolved = ?, updated_at = ? WHERE id = ?")

	result, err := r.DB.ExecContext(ctx, query, t.Title, t.Description, nullDate(t.DueDate), t.Resolved, now(), id)
	if err != nil {
		log.Printf("Failed to update todo: %v", err)
		return nil, fmt.Errorf("could not update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}

	// MySQL は clientFoundRows=true で接続しているため、値が同じでも一致行数が返る
	if rowsAffected == 0 {
		return nil, ErrTodoNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete は指定されたIDのTodoタスクを削除します。
func (r *SQLTodoRepository) Delete(ctx context.Context, id int64) error {
	query := r.Dialect.rebind("DELETE FROM todos WHERE id = ?")

	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		log.Printf("Failed to delete todo: %v", err)
		return fmt.Errorf("could not delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// Ping はデータベース接続の健全性を確認します。
func (r *SQLTodoRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
