package http

import (
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/lanternlabs/gatehouse/internal/service"
	"github.com/lanternlabs/gatehouse/internal/session"
	"github.com/lanternlabs/gatehouse/internal/web"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

type PagesHandler struct {
	Templates       *web.Templates
	Sessions        *session.Manager
	UserService     *service.UserService
	KeycloakEnabled bool
}

type pageData struct {
	CSRFToken       string
	KeycloakEnabled bool
	Authenticated   bool
	Username        string
}

func (h *PagesHandler) data(r *http.Request) pageData {
	d := pageData{
		CSRFToken:       csrf.Token(r),
		KeycloakEnabled: h.KeycloakEnabled,
	}
	if user, ok := resolveUser(r, h.Sessions, h.UserService); ok {
		d.Authenticated = true
		d.Username = user.Username
	}
	return d
}

func (h *PagesHandler) render(w http.ResponseWriter, r *http.Request, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Templates.Render(w, name, h.data(r)); err != nil {
		slogx.FromContext(r.Context()).Error("failed to render page", "page", name, "err", err)
	}
}

// HandleHome serves the landing page. It requires a session; anonymous
// visitors land on the login form instead.
func (h *PagesHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := resolveUser(r, h.Sessions, h.UserService); !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	h.render(w, r, "home.html")
}

// HandleLogin serves the sign-in form. An existing session skips straight home.
func (h *PagesHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := resolveUser(r, h.Sessions, h.UserService); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, "login.html")
}

// HandleRegister serves the registration form.
func (h *PagesHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := resolveUser(r, h.Sessions, h.UserService); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, "register.html")
}
