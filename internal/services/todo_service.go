package services

import (
	"context"
	"fmt"

	"todoweb/internal/forms"
	"todoweb/internal/models"
	"todoweb/internal/repositories"
)

// TodoService はTodo関連のビジネスロジックを扱います。
type TodoService struct {
	todoRepo repositories.TodoRepository
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(todoRepo repositories.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

// ListTodos はすべてのTodoを新しい順に取得します。
func (s *TodoService) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	return s.todoRepo.FindAll(ctx)
}

// GetTodoByID は指定IDのTodoを取得します。
func (s *TodoService) GetTodoByID(ctx context.Context, id int64) (*models.Todo, error) {
	return s.todoRepo.FindByID(ctx, id)
}

// CreateTodo は検証済みフォームから新しいTodoを作成します。
func (s *TodoService) CreateTodo(ctx context.Context, form *forms.TodoForm) (*models.Todo, error) {
	todo := &models.Todo{}
	if err := form.Apply(todo); err != nil {
		return nil, err
	}
	return s.todoRepo.Create(ctx, todo)
}

// UpdateTodo は検証済みフォームの値で既存のTodoを更新します。
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, form *forms.TodoForm) (*models.Todo, error) {
	existing, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := form.Apply(existing); err != nil {
		return nil, err
	}
	return s.todoRepo.Update(ctx, id, existing)
}

// DeleteTodo はTodoを完全に削除します。
func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	return s.todoRepo.Delete(ctx, id)
}

// ToggleResolved は resolved を反転し、レコード全体を保存し直します。
func (s *TodoService) ToggleResolved(ctx context.Context, id int64) (*models.Todo, error) {
	existing, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Resolved = !existing.Resolved
	updated, err := s.todoRepo.Update(ctx, id, existing)
	if err != nil {
		return nil, fmt.Errorf("could not toggle todo %d: %w", id, err)
	}
	return updated, nil
}

// Ping はストアの健全性を確認します。
func (s *TodoService) Ping(ctx context.Context) error {
	return s.todoRepo.Ping(ctx)
}
