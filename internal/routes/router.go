// Package routesはroutingを行います。
package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"todoweb/internal/config"
	"todoweb/internal/handlers"
	"todoweb/internal/repositories"
	"todoweb/internal/services"
	"todoweb/internal/templates"
	"todoweb/internal/urls"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(cfg *config.Config, todoRepo repositories.TodoRepository) *gin.Engine {
	r := gin.Default()
	// toggle への GET などは 404 ではなく 405 を返す
	r.HandleMethodNotAllowed = true

	resolver := urls.NewResolver(cfg.MountPath)
	r.SetHTMLTemplate(templates.New(resolver))

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", CSRFHeaderName}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))
	r.Use(RequestIDMiddleware())

	// サービス
	todoService := services.NewTodoService(todoRepo)

	// ハンドラー
	todoHandler := handlers.NewTodoHandler(todoService, resolver)
	r.NoRoute(todoHandler.NotFoundHandler)
	r.NoMethod(todoHandler.MethodNotAllowedHandler)

	// ルーティング
	app := r.Group(cfg.MountPath)
	app.GET(urls.Pattern(urls.Health), todoHandler.HealthHandler)

	pages := app.Group("")
	if cfg.CSRFEnabled {
		cookiePath := cfg.MountPath
		if cookiePath == "" {
			cookiePath = "/"
		}
		pages.Use(CSRFMiddleware(services.NewCSRFService(cfg.CSRFSecret, cfg.CSRFTTL), cookiePath))
	}
	{
		pages.GET(urls.Pattern(urls.Index), todoHandler.IndexHandler)
		pages.GET(urls.Pattern(urls.TodoList), todoHandler.ListHandler)
		pages.GET(urls.Pattern(urls.TodoCreate), todoHandler.CreateFormHandler)
		pages.POST(urls.Pattern(urls.TodoCreate), todoHandler.CreateHandler)
		pages.GET(urls.Pattern(urls.TodoEdit), todoHandler.EditFormHandler)
		pages.POST(urls.Pattern(urls.TodoEdit), todoHandler.EditHandler)
		pages.GET(urls.Pattern(urls.TodoDelete), todoHandler.DeleteConfirmHandler)
		pages.POST(urls.Pattern(urls.TodoDelete), todoHandler.DeleteHandler)
		pages.POST(urls.Pattern(urls.TodoToggle), todoHandler.ToggleResolvedHandler)
	}

	return r
}
