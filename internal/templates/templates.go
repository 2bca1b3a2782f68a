// Package templates は埋め込みの HTML テンプレートを提供します。
package templates

import (
	"embed"
	"html/template"
	"time"

	"todoweb/internal/models"
	"todoweb/internal/urls"
)

//go:embed html/*.html
var files embed.FS

// New はテンプレートを読み込みます。url 関数は resolver で URL を組み立てます。
func New(resolver *urls.Resolver) *template.Template {
	funcs := template.FuncMap{
		"url":        resolver.Reverse,
		"formatDate": formatDate,
	}
	return template.Must(template.New("todos").Funcs(funcs).ParseFS(files, "html/*.html"))
}

func formatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(models.DateLayout)
}
