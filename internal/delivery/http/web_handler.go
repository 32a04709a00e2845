package http

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"tradeledger/internal/domain"
	"tradeledger/internal/middleware"
	"tradeledger/internal/service"
)

// WebHandler serves the public HTML pages and the user dashboard
type WebHandler struct {
	templates      *template.Template
	accountService *service.AccountService
}

// NewWebHandler creates a new WebHandler
func NewWebHandler(templates *template.Template, accountService *service.AccountService) *WebHandler {
	return &WebHandler{
		templates:      templates,
		accountService: accountService,
	}
}

// dashboardPath returns the role-specific dashboard for an account
func dashboardPath(account *domain.Account) string {
	if account.IsAdmin() {
		return "/admin/dashboard"
	}
	return "/user/dashboard"
}

// HandleIndex renders the landing page, or redirects an authenticated
// visitor to their dashboard
// GET /
func (h *WebHandler) HandleIndex(c echo.Context) error {
	if account := middleware.CurrentAccount(c); account != nil {
		return c.Redirect(http.StatusFound, dashboardPath(account))
	}

	return h.templates.ExecuteTemplate(c.Response().Writer, "index", nil)
}

// HandleLoginPage renders the login form
// GET /login
func (h *WebHandler) HandleLoginPage(c echo.Context) error {
	if account := middleware.CurrentAccount(c); account != nil {
		return c.Redirect(http.StatusFound, dashboardPath(account))
	}

	data := map[string]interface{}{
		"Flash": c.QueryParam("flash"),
	}
	return h.templates.ExecuteTemplate(c.Response().Writer, "login", data)
}

// HandleLoginSubmit authenticates credentials and starts a session
// POST /login
func (h *WebHandler) HandleLoginSubmit(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	if username == "" || password == "" {
		return redirectWithFlash(c, "/login", "Username and password are required.")
	}

	account, err := h.accountService.Authenticate(c.Request().Context(), username, password)
	if err != nil {
		return redirectWithFlash(c, "/login", flashMessage(err))
	}

	token, err := middleware.GenerateJWT(account.ID, account.Role)
	if err != nil {
		return redirectWithFlash(c, "/login", "Failed to start session.")
	}
	c.SetCookie(middleware.SessionCookie(token))

	return c.Redirect(http.StatusFound, dashboardPath(account))
}

// HandleRegisterPage renders the invite-gated registration form
// GET /register
func (h *WebHandler) HandleRegisterPage(c echo.Context) error {
	if account := middleware.CurrentAccount(c); account != nil {
		return c.Redirect(http.StatusFound, dashboardPath(account))
	}

	data := map[string]interface{}{
		"Flash": c.QueryParam("flash"),
	}
	return h.templates.ExecuteTemplate(c.Response().Writer, "register", data)
}

// HandleRegisterSubmit redeems an invite code and creates the account
// POST /register
func (h *WebHandler) HandleRegisterSubmit(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	code := c.FormValue("invite_code")

	_, err := h.accountService.Register(c.Request().Context(), username, password, code)
	if err != nil {
		if isNotFound(err) {
			return redirectWithFlash(c, "/register", "This invite code is invalid or expired.")
		}
		return redirectWithFlash(c, "/register", flashMessage(err))
	}

	return redirectWithFlash(c, "/login", "Registration successful! Please log in.")
}

// HandleLogout terminates the session
// GET /logout
func (h *WebHandler) HandleLogout(c echo.Context) error {
	c.SetCookie(middleware.ClearSessionCookie())
	return c.Redirect(http.StatusFound, "/login")
}

// HandleUserDashboard renders an account's equity, open positions, and
// transaction history. Admins are sent to the admin panel instead.
// GET /user/dashboard
func (h *WebHandler) HandleUserDashboard(c echo.Context) error {
	account := middleware.CurrentAccount(c)
	if account.IsAdmin() {
		return c.Redirect(http.StatusFound, "/admin/dashboard")
	}

	overview, err := h.accountService.GetOverview(c.Request().Context(), account.ID)
	if err != nil {
		return redirectWithFlash(c, "/login", flashMessage(err))
	}

	data := map[string]interface{}{
		"Account":      overview.Account,
		"Positions":    overview.Positions,
		"Transactions": overview.Transactions,
		"Equity":       overview.Equity,
		"Flash":        c.QueryParam("flash"),
	}
	return h.templates.ExecuteTemplate(c.Response().Writer, "user_dashboard", data)
}
