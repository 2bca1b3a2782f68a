package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"todoweb/internal/config"
	"todoweb/internal/models"
	"todoweb/internal/repositories"
	"todoweb/internal/routes"
)

// TestConfig はテスト用の設定を返します。CSRF はテストクライアント同様に無効です。
func TestConfig() *config.Config {
	return &config.Config{
		Addr:             ":0",
		GinMode:          gin.TestMode,
		DB:               config.DBConfig{Driver: config.DriverMemory},
		CSRFEnabled:      false,
		CSRFSecret:       "test-secret",
		CSRFTTL:          time.Hour,
		CORSAllowOrigins: []string{"http://localhost:3000"},
	}
}

// SetupTestRouter はインメモリストア上のGinルーターをセットアップします。
func SetupTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *repositories.MemoryTodoRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if cfg == nil {
		cfg = TestConfig()
	}
	repo := repositories.NewMemoryTodoRepository()
	return routes.SetupRouter(cfg, repo), repo
}

// CreateTestTodo はテスト用のTODOをストアに直接作成します。
func CreateTestTodo(t *testing.T, repo repositories.TodoRepository, todo *models.Todo) *models.Todo {
	t.Helper()
	created, err := repo.Create(context.Background(), todo)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	return created
}

// Get はGETリクエストを送ります。
func Get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// PostForm はフォームをPOSTします。header は追加のヘッダーです (nil 可)。
func PostForm(router http.Handler, path string, form url.Values, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
