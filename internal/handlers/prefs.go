package handlers

import (
	"net/http"
	"net/url"

	"github.com/diewo77/customer-portal/internal/middleware"
)

// ToggleTheme flips the theme cookie and returns to the referring page.
func ToggleTheme(w http.ResponseWriter, r *http.Request) {
	middleware.SetTheme(w, middleware.Toggled(middleware.ThemeFrom(r)))
	target := "/"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" && (ref.Host == "" || ref.Host == r.Host) {
		target = ref.RequestURI()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
