package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const (
	ctxTheme ctxKey = "pref_theme"

	themeCookie  = "theme"
	themeMaxAge  = 86400 * 365
	DefaultTheme = "light"
)

func validTheme(t string) bool { return t == "light" || t == "dark" }

// Prefs extracts the theme preference (query > cookie) and stores it in context.
// A query-provided theme is persisted in the cookie.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		theme := DefaultTheme
		if c, err := r.Cookie(themeCookie); err == nil && validTheme(c.Value) {
			theme = c.Value
		}
		if qt := r.URL.Query().Get("theme"); validTheme(qt) {
			theme = qt
			SetTheme(w, theme)
		}
		ctx := context.WithValue(r.Context(), ctxTheme, theme)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ThemeFrom returns theme preference from context or fallback.
func ThemeFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxTheme).(string); ok && v != "" {
		return v
	}
	return DefaultTheme
}

// SetTheme persists theme for a year.
func SetTheme(w http.ResponseWriter, theme string) {
	http.SetCookie(w, &http.Cookie{Name: themeCookie, Value: theme, Path: "/", MaxAge: themeMaxAge, SameSite: http.SameSiteLaxMode})
}

// Toggled returns the opposite theme.
func Toggled(theme string) string {
	if theme == "dark" {
		return "light"
	}
	return "dark"
}
