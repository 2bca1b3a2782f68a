// Package urls はルート名と URL パターンの対応を管理します。
package urls

import (
	"fmt"
	"strings"
)

// ルート名
const (
	Index      = "index"
	Health     = "health"
	TodoList   = "todos:list"
	TodoCreate = "todos:create"
	TodoEdit   = "todos:edit"
	TodoDelete = "todos:delete"
	TodoToggle = "todos:toggle_resolved"
)

// patterns はマウントポイントからの相対パターンです。:name はパスパラメータです。
var patterns = map[string]string{
	Index:      "/",
	Health:     "/healthz",
	TodoList:   "/todos/",
	TodoCreate: "/todos/create/",
	TodoEdit:   "/todos/:id/edit/",
	TodoDelete: "/todos/:id/delete/",
	TodoToggle: "/todos/:id/toggle/",
}

// Pattern はルート名に対応する gin 用のパターンを返します。
func Pattern(name string) string {
	p, ok := patterns[name]
	if !ok {
		panic(fmt.Sprintf("urls: unknown route %q", name))
	}
	return p
}

// Resolver はマウントポイントを考慮して URL を組み立て・解決します。
type Resolver struct {
	mount string
}

// NewResolver は新しいResolverを作成します。mount は "" か "/app" の形式です。
func NewResolver(mount string) *Resolver {
	return &Resolver{mount: strings.TrimSuffix(mount, "/")}
}

// Mount はマウントポイントを返します。
func (r *Resolver) Mount() string {
	return r.mount
}

// Reverse はルート名と引数から URL を組み立てます。
func (r *Resolver) Reverse(name string, args ...any) (string, error) {
	pattern, ok := patterns[name]
	if !ok {
		return "", fmt.Errorf("no route named %q", name)
	}
	segments := strings.Split(pattern, "/")
	i := 0
	for n, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if i >= len(args) {
			return "", fmt.Errorf("route %q needs argument %s", name, seg)
		}
		segments[n] = fmt.Sprint(args[i])
		i++
	}
	if i != len(args) {
		return "", fmt.Errorf("route %q takes %d arguments, got %d", name, i, len(args))
	}
	return r.mount + strings.Join(segments, "/"), nil
}

// MustReverse は Reverse と同じですが、失敗すると panic します。
func (r *Resolver) MustReverse(name string, args ...any) string {
	u, err := r.Reverse(name, args...)
	if err != nil {
		panic(err)
	}
	return u
}

// Resolve はパスに一致するルート名とパラメータを返します。
func (r *Resolver) Resolve(path string) (string, map[string]string, bool) {
	if r.mount != "" {
		if !strings.HasPrefix(path, r.mount+"/") {
			return "", nil, false
		}
		path = strings.TrimPrefix(path, r.mount)
	}
	want := strings.Split(path, "/")
	for name, pattern := range patterns {
		segments := strings.Split(pattern, "/")
		if len(segments) != len(want) {
			continue
		}
		params := map[string]string{}
		matched := true
		for n, seg := range segments {
			switch {
			case strings.HasPrefix(seg, ":"):
				if want[n] == "" {
					matched = false
				}
				params[seg[1:]] = want[n]
			case seg != want[n]:
				matched = false
			}
			if !matched {
				break
			}
		}
		if matched {
			return name, params, true
		}
	}
	return "", nil, false
}
