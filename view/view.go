package view

import (
	"crypto/sha1"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"sync"
	"time"

	"github.com/diewo77/customer-portal/auth"
	"github.com/diewo77/customer-portal/internal/picker"
)

//go:embed templates static
var files embed.FS

var (
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
	assetHashes sync.Map

	themeResolver = func(_ *http.Request) string { return "light" }
)

// SetThemeResolver allows the host app to provide a custom theme resolver.
func SetThemeResolver(f func(*http.Request) string) {
	if f != nil {
		themeResolver = f
	}
}

// Funcs returns the standard func map. Request-bound helpers are rebound at
// render time; parsing only needs the names.
func Funcs(r *http.Request) template.FuncMap {
	theme := "light"
	if r != nil {
		theme = themeResolver(r)
	}
	return template.FuncMap{
		"theme": func() string { return theme },
		"year":  func() int { return time.Now().Year() },
		"asset": func(p string) string { return resolveAsset(p) },
		// dataURL renders a stored base64 photo as an img src.
		"dataURL": picker.DataURL,
		"noImage": func() string { return picker.NoImage },
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// Static serves the embedded assets; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// resolveAsset returns /static/<name>?v=<hash> for cache busting.
func resolveAsset(rel string) string {
	if v, ok := assetHashes.Load(rel); ok {
		return v.(string)
	}
	b, err := files.ReadFile(path.Join("static", rel))
	if err != nil {
		return "/static/" + rel
	}
	h := sha1.Sum(b)
	u := "/static/" + rel + "?v=" + fmt.Sprintf("%x", h[:8])
	assetHashes.Store(rel, u)
	return u
}

// ResetForTests clears the template cache.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

var partials = []string{
	"templates/partials/notification.html",
	"templates/partials/customer-rows.html",
}

func lookup(name string) (*template.Template, error) {
	devMode := os.Getenv("DEV") == "1"
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}
	patterns := append([]string{"templates/layout.html", "templates/" + name}, partials...)
	t, err := template.New("layout.html").Funcs(Funcs(nil)).ParseFS(files, patterns...)
	if err != nil {
		return nil, err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}

func bind(r *http.Request, name string) (*template.Template, error) {
	t, err := lookup(name)
	if err != nil {
		return nil, err
	}
	c, err := t.Clone()
	if err != nil {
		return nil, err
	}
	return c.Funcs(Funcs(r)), nil
}

func defaults(r *http.Request, data map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		data["IsLoggedIn"] = auth.LoggedIn(r)
	}
	return data
}

// Render executes a page inside the layout. name is the path below
// templates/ (e.g. "customers/index.html").
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	t, err := bind(r, name)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, "layout.html", defaults(r, data))
}

// RenderBlock executes a single named template defined by page, without the layout.
func RenderBlock(w io.Writer, r *http.Request, page, block string, data map[string]any) error {
	t, err := bind(r, page)
	if err != nil {
		return err
	}
	if hw, ok := w.(http.ResponseWriter); ok {
		hw.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	return t.ExecuteTemplate(w, block, defaults(r, data))
}
