package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPrefs(t *testing.T) {
	var got string
	h := Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = ThemeFrom(r) }))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if got != "light" {
		t.Fatalf("default theme should be light, got %q", got)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	h.ServeHTTP(httptest.NewRecorder(), r)
	if got != "dark" {
		t.Fatalf("cookie theme ignored, got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "theme", Value: "neon"})
	h.ServeHTTP(httptest.NewRecorder(), r)
	if got != "light" {
		t.Fatalf("invalid cookie must fall back, got %q", got)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?theme=dark", nil))
	if got != "dark" {
		t.Fatalf("query theme ignored, got %q", got)
	}
	var persisted bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "theme" && c.Value == "dark" && c.MaxAge == 86400*365 {
			persisted = true
		}
	}
	if !persisted {
		t.Fatal("query theme should be persisted for a year")
	}
}

func TestToggled(t *testing.T) {
	if Toggled("light") != "dark" || Toggled("dark") != "light" {
		t.Fatal("toggle broken")
	}
}
