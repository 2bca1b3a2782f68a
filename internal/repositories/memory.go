package repositories

import (
	"context"
	"sort"
	"sync"

	"todoweb/internal/models"
)

// MemoryTodoRepository はプロセス内に Todo を保持する TodoRepository 実装です。
// DB_DRIVER=memory での起動とハンドラーのテストに使います。
type MemoryTodoRepository struct {
	mu     sync.RWMutex
	todos  map[int64]*models.Todo
	nextID int64
}

// NewMemoryTodoRepository は空のMemoryTodoRepositoryを作成します。
func NewMemoryTodoRepository() *MemoryTodoRepository {
	return &MemoryTodoRepository{todos: make(map[int64]*models.Todo)}
}

func clone(t *models.Todo) *models.Todo {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

func (r *MemoryTodoRepository) Create(_ context.Context, t *models.Todo) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stamp := now()
	t.ID = r.nextID
	t.CreatedAt = stamp
	t.UpdatedAt = stamp
	r.todos[t.ID] = clone(t)
	return t, nil
}

func (r *MemoryTodoRepository) FindAll(_ context.Context) ([]*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]*models.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		todos = append(todos, clone(t))
	}
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return todos[i].ID > todos[j].ID
	})
	return todos, nil
}

func (r *MemoryTodoRepository) FindByID(_ context.Context, id int64) (*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	if !ok {
		return nil, ErrTodoNotFound
	}
	return clone(t), nil
}

func (r *MemoryTodoRepository) Update(_ context.Context, id int64, t *models.Todo) (*models.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.todos[id]
	if !ok {
		return nil, ErrTodoNotFound
	}
	updated := clone(t)
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = now()
	r.todos[id] = updated
	return clone(updated), nil
}

func (r *MemoryTodoRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

func (r *MemoryTodoRepository) Ping(context.Context) error {
	return nil
}
