package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"todoweb/internal/forms"
	"todoweb/internal/models"
	"todoweb/internal/repositories"
	"todoweb/internal/services"
	"todoweb/internal/urls"
)

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
	urls        *urls.Resolver
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService, resolver *urls.Resolver) *TodoHandler {
	return &TodoHandler{todoService: todoService, urls: resolver}
}

// ListHandler はTodo一覧を作成日時の新しい順に表示します。
func (h *TodoHandler) ListHandler(c *gin.Context) {
	todos, err := h.todoService.ListTodos(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to fetch todos", err)
		return
	}
	render(c, http.StatusOK, "todo_list.html", gin.H{
		"Title": "Todos",
		"Todos": todos,
	})
}

// CreateFormHandler は空の作成フォームを表示します。
func (h *TodoHandler) CreateFormHandler(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "New todo", h.urls.MustReverse(urls.TodoCreate), &forms.TodoForm{}, nil)
}

// CreateHandler はフォームを検証し、新しいTodoを保存します。
func (h *TodoHandler) CreateHandler(c *gin.Context) {
	action := h.urls.MustReverse(urls.TodoCreate)

	form, errs := bindForm(c)
	if errs != nil {
		h.renderForm(c, http.StatusOK, "New todo", action, form, errs)
		return
	}

	if _, err := h.todoService.CreateTodo(c.Request.Context(), form); err != nil {
		h.serverError(c, "Failed to save todo", err)
		return
	}
	c.Redirect(http.StatusFound, h.urls.MustReverse(urls.TodoList))
}

// EditFormHandler は既存のTodoで埋めた編集フォームを表示します。
func (h *TodoHandler) EditFormHandler(c *gin.Context) {
	todo, ok := h.lookup(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, "Edit todo", h.urls.MustReverse(urls.TodoEdit, todo.ID), forms.FromTodo(todo), nil)
}

// EditHandler はフォームを検証し、Todoを更新します。
func (h *TodoHandler) EditHandler(c *gin.Context) {
	todo, ok := h.lookup(c)
	if !ok {
		return
	}
	action := h.urls.MustReverse(urls.TodoEdit, todo.ID)

	form, errs := bindForm(c)
	if errs != nil {
		h.renderForm(c, http.StatusOK, "Edit todo", action, form, errs)
		return
	}

	if _, err := h.todoService.UpdateTodo(c.Request.Context(), todo.ID, form); err != nil {
		if errors.Is(err, repositories.ErrTodoNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, "Failed to update todo", err)
		return
	}
	c.Redirect(http.StatusFound, h.urls.MustReverse(urls.TodoList))
}

// DeleteConfirmHandler は削除の確認ページを表示します。
func (h *TodoHandler) DeleteConfirmHandler(c *gin.Context) {
	todo, ok := h.lookup(c)
	if !ok {
		return
	}
	render(c, http.StatusOK, "todo_confirm_delete.html", gin.H{
		"Title": "Delete todo",
		"Todo":  todo,
	})
}

// DeleteHandler はTodoを完全に削除します。
func (h *TodoHandler) DeleteHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.todoService.DeleteTodo(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrTodoNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, "Failed to delete todo", err)
		return
	}
	c.Redirect(http.StatusFound, h.urls.MustReverse(urls.TodoList))
}

// ToggleResolvedHandler は resolved を反転し、元のページへリダイレクトします。
func (h *TodoHandler) ToggleResolvedHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if _, err := h.todoService.ToggleResolved(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrTodoNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, "Failed to toggle todo", err)
		return
	}
	c.Redirect(http.StatusFound, h.redirectTarget(c))
}

// redirectTarget は同一ホストの Referer があればそれを、無ければ一覧の URL を返します。
func (h *TodoHandler) redirectTarget(c *gin.Context) string {
	fallback := h.urls.MustReverse(urls.TodoList)
	referer := c.Request.Referer()
	if referer == "" {
		return fallback
	}
	u, err := url.Parse(referer)
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) {
		return fallback
	}
	return referer
}

// IndexHandler は一覧ページへリダイレクトします。
func (h *TodoHandler) IndexHandler(c *gin.Context) {
	c.Redirect(http.StatusFound, h.urls.MustReverse(urls.TodoList))
}

// HealthHandler はストアの健全性を確認します。
func (h *TodoHandler) HealthHandler(c *gin.Context) {
	if err := h.todoService.Ping(c.Request.Context()); err != nil {
		log.Printf("Store ping failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Store connection failed", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NotFoundHandler は一致するルートが無い場合のページを表示します。
func (h *TodoHandler) NotFoundHandler(c *gin.Context) {
	h.notFound(c)
}

// MethodNotAllowedHandler は許可されていないメソッドへの応答です。
func (h *TodoHandler) MethodNotAllowedHandler(c *gin.Context) {
	render(c, http.StatusMethodNotAllowed, "error.html", gin.H{
		"Title":   "Method not allowed",
		"Message": c.Request.Method + " is not allowed here.",
	})
}

func (h *TodoHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.notFound(c)
		return 0, false
	}
	return id, true
}

// lookup はパスの id でTodoを取得します。見つからなければ 404 を返して false です。
func (h *TodoHandler) lookup(c *gin.Context) (*models.Todo, bool) {
	id, ok := h.parseID(c)
	if !ok {
		return nil, false
	}
	todo, err := h.todoService.GetTodoByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrTodoNotFound) {
			h.notFound(c)
			return nil, false
		}
		h.serverError(c, "Failed to fetch todo", err)
		return nil, false
	}
	return todo, true
}

func bindForm(c *gin.Context) (*forms.TodoForm, forms.Errors) {
	form := &forms.TodoForm{}
	if err := c.ShouldBind(form); err != nil {
		errs := forms.Errors{}
		errs.Add(forms.NonFieldErrors, "Invalid form submission.")
		return form, errs
	}
	if errs := form.Clean(); errs != nil {
		return form, errs
	}
	return form, nil
}

func (h *TodoHandler) renderForm(c *gin.Context, status int, title, action string, form *forms.TodoForm, errs forms.Errors) {
	if errs == nil {
		errs = forms.Errors{}
	}
	render(c, status, "todo_form.html", gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"Errors": errs,
	})
}

func (h *TodoHandler) notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not found",
		"Message": "The requested todo does not exist.",
	})
	c.Abort()
}

func (h *TodoHandler) serverError(c *gin.Context, message string, err error) {
	log.Printf("[%s] %s: %v", RequestID(c), message, err)
	render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Server error",
		"Message": message,
	})
	c.Abort()
}
