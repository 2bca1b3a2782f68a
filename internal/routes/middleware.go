package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todoweb/internal/handlers"
	"todoweb/internal/services"
)

const (
	// CSRFCookieName は nonce を保存する Cookie の名前です。
	CSRFCookieName = "csrftoken"
	// CSRFHeaderName はフォーム以外でトークンを送るためのヘッダーです。
	CSRFHeaderName = "X-CSRF-Token"
	// RequestIDHeader はリクエストIDのヘッダーです。
	RequestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware は各リクエストにIDを割り当て、レスポンスヘッダーとコンテキストに設定します。
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(handlers.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// CSRFMiddleware は POST などの安全でないリクエストでCSRFトークンを検証し、
// 描画用の新しいトークンをコンテキストに設定するミドルウェアです。
func CSRFMiddleware(csrfService *services.CSRFService, cookiePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce, err := c.Cookie(CSRFCookieName)
		if err != nil || nonce == "" {
			nonce = csrfService.NewNonce()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFCookieName, nonce, 0, cookiePath, "", false, true)
		}

		if !isSafeMethod(c.Request.Method) {
			token := c.GetHeader(CSRFHeaderName)
			if token == "" {
				token = c.PostForm(handlers.CSRFTokenKey)
			}
			if err := csrfService.ValidateToken(token, nonce); err != nil {
				log.Printf("[%s] CSRF verification failed: %v", handlers.RequestID(c), err)
				c.HTML(http.StatusForbidden, "error.html", gin.H{
					"Title":   "Forbidden",
					"Message": "CSRF verification failed. Request aborted.",
				})
				c.Abort()
				return
			}
		}

		token, err := csrfService.GenerateToken(nonce)
		if err != nil {
			log.Printf("[%s] Failed to generate CSRF token: %v", handlers.RequestID(c), err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Set(handlers.CSRFTokenKey, token)
		c.Next()
	}
}
