package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoweb/internal/forms"
	"todoweb/internal/models"
	"todoweb/internal/repositories"
	"todoweb/internal/services"
)

func newService(t *testing.T) (*services.TodoService, *repositories.MemoryTodoRepository) {
	t.Helper()
	repo := repositories.NewMemoryTodoRepository()
	return services.NewTodoService(repo), repo
}

func cleanForm(t *testing.T, form *forms.TodoForm) *forms.TodoForm {
	t.Helper()
	require.Nil(t, form.Clean())
	return form
}

func TestCreateTodo_OnlyTitle(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.CreateTodo(context.Background(), cleanForm(t, &forms.TodoForm{Title: "Only title"}))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.Resolved)
	assert.Empty(t, created.Description)
	assert.Nil(t, created.DueDate)
}

func TestCreateTodo_UncleanedFormIsRejected(t *testing.T) {
	svc, repo := newService(t)

	_, err := svc.CreateTodo(context.Background(), &forms.TodoForm{Title: "skipped clean"})
	assert.Error(t, err)

	todos, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, todos, "nothing may be persisted without validation")
}

func TestUpdateTodo(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	existing, err := repo.Create(ctx, &models.Todo{Title: "Existing", Description: "Desc"})
	require.NoError(t, err)

	form := cleanForm(t, &forms.TodoForm{Title: "Updated title", Description: "New", Resolved: "on"})
	updated, err := svc.UpdateTodo(ctx, existing.ID, form)
	require.NoError(t, err)
	assert.Equal(t, "Updated title", updated.Title)
	assert.True(t, updated.Resolved)

	_, err = svc.UpdateTodo(ctx, 99999, form)
	assert.True(t, errors.Is(err, repositories.ErrTodoNotFound))
}

func TestToggleResolved_TwiceRestoresValue(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	for _, initial := range []bool{false, true} {
		existing, err := repo.Create(ctx, &models.Todo{Title: "Toggle", Resolved: initial})
		require.NoError(t, err)

		once, err := svc.ToggleResolved(ctx, existing.ID)
		require.NoError(t, err)
		assert.Equal(t, !initial, once.Resolved)

		twice, err := svc.ToggleResolved(ctx, existing.ID)
		require.NoError(t, err)
		assert.Equal(t, initial, twice.Resolved)
		assert.Equal(t, "Toggle", twice.Title, "toggle must keep the rest of the record")
	}
}

func TestToggleResolved_NotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ToggleResolved(context.Background(), 99999)
	assert.True(t, errors.Is(err, repositories.ErrTodoNotFound))
}

func TestDeleteTodo(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	existing, err := repo.Create(ctx, models.NewTodo("Todo to Delete"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTodo(ctx, existing.ID))
	_, err = svc.GetTodoByID(ctx, existing.ID)
	assert.True(t, errors.Is(err, repositories.ErrTodoNotFound))
}
