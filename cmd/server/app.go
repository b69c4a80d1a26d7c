package main

import (
	"net/http"
	"strings"

	"github.com/diewo77/customer-portal/auth"
	"github.com/diewo77/customer-portal/httpx"
	"github.com/diewo77/customer-portal/internal/handlers"
	"github.com/diewo77/customer-portal/internal/middleware"
	"github.com/diewo77/customer-portal/internal/services"
	"github.com/diewo77/customer-portal/view"
)

// API is everything the portal needs from the customer backend.
type API interface {
	services.Accounts
	services.Backend
}

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	sessions *auth.Store
	auth     *handlers.AuthHandler
	cust     *handlers.CustomerHandler
}

// NewApp creates a new application with all routes configured.
func NewApp(api API, sessions *auth.Store) *App {
	app := &App{
		mux:      http.NewServeMux(),
		sessions: sessions,
		auth:     handlers.NewAuthHandler(services.NewAuthService(api)),
		cust:     handlers.NewCustomerHandler(services.NewCustomerService(api)),
	}
	view.SetThemeResolver(middleware.ThemeFrom)
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Assets and health checks need no session.
	if strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/healthz" {
		a.mux.ServeHTTP(w, r)
		return
	}
	// Global middleware: preferences (theme) + session context
	handler := middleware.Prefs(a.sessions.Middleware(a.mux))
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// Public routes
	a.mux.HandleFunc("GET /login", a.auth.LoginPage)
	a.mux.HandleFunc("POST /login", a.auth.Login)
	a.mux.HandleFunc("POST /register", a.auth.Register)
	a.mux.HandleFunc("POST /forgot-password", a.auth.ForgotPassword)
	a.mux.HandleFunc("POST /logout", a.auth.Logout)
	a.mux.HandleFunc("POST /theme", handlers.ToggleTheme)
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", view.Static()))

	// Authenticated routes
	ch := a.cust
	a.mux.Handle("GET /{$}", auth.RequireAuth(http.HandlerFunc(ch.List)))
	a.mux.Handle("GET /customers/rows", auth.RequireAuth(http.HandlerFunc(ch.Rows)))
	a.mux.Handle("POST /customers/select", auth.RequireAuth(http.HandlerFunc(ch.Select)))
	a.mux.Handle("POST /customers/add", auth.RequireAuth(http.HandlerFunc(ch.Add)))
	a.mux.Handle("POST /customers/edit", auth.RequireAuth(http.HandlerFunc(ch.Edit)))
	a.mux.Handle("POST /customers/delete", auth.RequireAuth(http.HandlerFunc(ch.DeleteAsk)))
	a.mux.Handle("GET /customers/delete", auth.RequireAuth(http.HandlerFunc(ch.DeleteConfirmPage)))
	a.mux.Handle("POST /customers/delete/confirm", auth.RequireAuth(http.HandlerFunc(ch.DeleteConfirm)))
	a.mux.Handle("GET /customers/geocode", auth.RequireAuth(http.HandlerFunc(ch.Geocode)))
	a.mux.Handle("GET /customers/reverse-geocode", auth.RequireAuth(http.HandlerFunc(ch.ReverseGeocode)))
	a.mux.Handle("GET /customer-form", auth.RequireAuth(http.HandlerFunc(ch.Form)))
	a.mux.Handle("POST /customer-form", auth.RequireAuth(http.HandlerFunc(ch.Submit)))
	a.mux.Handle("GET /customer-form/cancel", auth.RequireAuth(http.HandlerFunc(ch.Cancel)))

	// Anything else goes home, which sends anonymous users on to /login.
	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}
