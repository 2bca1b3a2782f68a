// Package handlers はHTTPリクエストを処理し、HTMLページを描画します。
package handlers

import (
	"github.com/gin-gonic/gin"
)

// gin.Context に保存する値のキー
const (
	CSRFTokenKey = "csrf_token"
	RequestIDKey = "request_id"
)

// render はテンプレートを描画します。CSRFトークンがあればページデータに加えます。
func render(c *gin.Context, status int, name string, data gin.H) {
	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = c.GetString(CSRFTokenKey)
	}
	c.HTML(status, name, data)
}

// RequestID はリクエストIDを返します。ミドルウェアが無ければ "-" です。
func RequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return "-"
}
