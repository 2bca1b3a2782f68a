package urls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverse(t *testing.T) {
	r := NewResolver("")

	assert.Equal(t, "/todos/", r.MustReverse(TodoList))
	assert.Equal(t, "/todos/create/", r.MustReverse(TodoCreate))
	assert.Equal(t, "/todos/7/edit/", r.MustReverse(TodoEdit, 7))
	assert.Equal(t, "/todos/7/delete/", r.MustReverse(TodoDelete, int64(7)))
	assert.Equal(t, "/todos/7/toggle/", r.MustReverse(TodoToggle, "7"))
}

func TestReverse_WithMount(t *testing.T) {
	r := NewResolver("/app")
	assert.Equal(t, "/app/todos/", r.MustReverse(TodoList))
	assert.Equal(t, "/app/todos/3/edit/", r.MustReverse(TodoEdit, 3))
	assert.Equal(t, "/app/", r.MustReverse(Index))
}

func TestReverse_Errors(t *testing.T) {
	r := NewResolver("")

	_, err := r.Reverse("todos:missing")
	assert.Error(t, err)
	_, err = r.Reverse(TodoEdit)
	assert.Error(t, err, "missing id")
	_, err = r.Reverse(TodoList, 1)
	assert.Error(t, err, "extra argument")
	assert.Panics(t, func() { r.MustReverse(TodoEdit) })
}

func TestResolve(t *testing.T) {
	r := NewResolver("")

	name, _, ok := r.Resolve("/todos/")
	require.True(t, ok)
	assert.Equal(t, TodoList, name)

	name, _, ok = r.Resolve("/todos/create/")
	require.True(t, ok)
	assert.Equal(t, TodoCreate, name)

	name, params, ok := r.Resolve("/todos/12/toggle/")
	require.True(t, ok)
	assert.Equal(t, TodoToggle, name)
	assert.Equal(t, "12", params["id"])

	_, _, ok = r.Resolve("/todos/12/archive/")
	assert.False(t, ok)
	_, _, ok = r.Resolve("/todos//edit/")
	assert.False(t, ok)
}

func TestResolve_WithMount(t *testing.T) {
	r := NewResolver("/app")

	name, params, ok := r.Resolve("/app/todos/5/edit/")
	require.True(t, ok)
	assert.Equal(t, TodoEdit, name)
	assert.Equal(t, "5", params["id"])

	_, _, ok = r.Resolve("/todos/")
	assert.False(t, ok)
}

func TestPattern(t *testing.T) {
	assert.Equal(t, "/todos/:id/edit/", Pattern(TodoEdit))
	assert.Panics(t, func() { Pattern("nope") })
}
