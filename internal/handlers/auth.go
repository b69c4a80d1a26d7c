package handlers

import (
	"log"
	"net/http"

	"github.com/diewo77/customer-portal/auth"
	"github.com/diewo77/customer-portal/internal/models"
	"github.com/diewo77/customer-portal/internal/services"
	"github.com/diewo77/customer-portal/view"
)

type AuthHandler struct {
	svc *services.AuthService
}

func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// render writes a page or a 500 when the template fails.
func render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if err := view.Render(w, r, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}

func loginData(tab string) map[string]any {
	return map[string]any{"Tab": tab, "Username": "", "Email": "", "ForgotOpen": false, "ForgotEmail": ""}
}

// LoginPage shows the login/register tabs.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if auth.LoggedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := loginData(r.URL.Query().Get("tab"))
	data["ForgotOpen"] = r.URL.Query().Get("dialog") == "forgot"
	render(w, r, "login.html", data)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	if msg := h.svc.Login(r.Context(), username, r.FormValue("password")); msg != nil {
		data := loginData("login")
		data["Username"] = username
		data["Message"] = msg
		render(w, r, "login.html", data)
		return
	}
	auth.FromContext(r.Context()).LogIn()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username, email := r.FormValue("username"), r.FormValue("email")
	msg, ok := h.svc.Register(r.Context(), username, r.FormValue("password"), email)
	if ok {
		data := loginData("login")
		data["Message"] = &msg
		render(w, r, "login.html", data)
		return
	}
	data := loginData("register")
	data["Username"] = username
	data["Email"] = email
	data["Message"] = &msg
	render(w, r, "login.html", data)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	msg, ok := h.svc.ForgotPassword(r.Context(), email)
	data := loginData("login")
	if ok {
		data["Message"] = &msg
	} else {
		data["ForgotOpen"] = true
		data["ForgotEmail"] = email
		data["DialogMessage"] = &msg
	}
	render(w, r, "login.html", data)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := auth.FromContext(r.Context()); sess != nil {
		sess.LogOut()
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// flash stores a one-shot message for the next list view.
func flash(r *http.Request, text string, sev models.Severity) {
	if sess := auth.FromContext(r.Context()); sess != nil {
		sess.SetFlash(models.Message{Text: text, Severity: sev})
	}
}
