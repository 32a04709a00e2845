package http

import (
	"fmt"
	"html/template"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tradeledger/internal/domain"
	"tradeledger/internal/middleware"
	"tradeledger/internal/service"
)

// AdminHandler serves the admin panel and its actions. Every route is
// behind the auth and admin guards; errors surface as flash notices on
// the redirected dashboard rather than error pages.
type AdminHandler struct {
	templates      *template.Template
	accountService *service.AccountService
	ledgerService  *service.LedgerService
	tradingService *service.TradingService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	templates *template.Template,
	accountService *service.AccountService,
	ledgerService *service.LedgerService,
	tradingService *service.TradingService,
) *AdminHandler {
	return &AdminHandler{
		templates:      templates,
		accountService: accountService,
		ledgerService:  ledgerService,
		tradingService: tradingService,
	}
}

const adminDashboard = "/admin/dashboard"

// HandleDashboard lists all non-admin accounts and all invite codes
// GET /admin/dashboard
func (h *AdminHandler) HandleDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.accountService.ListUsers(ctx)
	if err != nil {
		return redirectWithFlash(c, "/login", flashMessage(err))
	}

	codes, err := h.ledgerService.ListCodes(ctx)
	if err != nil {
		return redirectWithFlash(c, "/login", flashMessage(err))
	}

	data := map[string]interface{}{
		"Admin": middleware.CurrentAccount(c),
		"Users": users,
		"Codes": codes,
		"Flash": c.QueryParam("flash"),
	}
	return h.templates.ExecuteTemplate(c.Response().Writer, "admin_dashboard", data)
}

// HandleGenerateCode issues a new invite code for the submitted amount
// POST /admin/generate-code
func (h *AdminHandler) HandleGenerateCode(c echo.Context) error {
	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil {
		return redirectWithFlash(c, adminDashboard, "Amount must be a number.")
	}

	code, err := h.ledgerService.IssueCode(c.Request().Context(), amount)
	if err != nil {
		return redirectWithFlash(c, adminDashboard, flashMessage(err))
	}

	return redirectWithFlash(c, adminDashboard,
		fmt.Sprintf("Code %s created for $%s", code.Code, code.Value.StringFixed(2)))
}

// HandleDeleteCode deletes an invite code in any state
// POST /admin/delete-code/:id
func (h *AdminHandler) HandleDeleteCode(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return redirectWithFlash(c, adminDashboard, "Invalid code id.")
	}

	if err := h.ledgerService.DeleteCode(c.Request().Context(), id); err != nil {
		return redirectWithFlash(c, adminDashboard, flashMessage(err))
	}

	return redirectWithFlash(c, adminDashboard, "Invite code deleted.")
}

// HandleUpdateBalance applies a deposit or withdrawal to a user account
// POST /admin/user/update-balance
func (h *AdminHandler) HandleUpdateBalance(c echo.Context) error {
	accountID, err := uuid.Parse(c.FormValue("user_id"))
	if err != nil {
		return redirectWithFlash(c, adminDashboard, "Invalid user id.")
	}

	amount, err := decimal.NewFromString(c.FormValue("amount"))
	if err != nil {
		return redirectWithFlash(c, adminDashboard, "Amount must be a number.")
	}

	kind := domain.TransactionType(c.FormValue("type"))
	admin := middleware.CurrentAccount(c)

	account, err := h.ledgerService.AdjustBalance(c.Request().Context(), accountID, amount, kind, admin.Username)
	if err != nil {
		return redirectWithFlash(c, adminDashboard, flashMessage(err))
	}

	verb := "Deposited"
	if kind == domain.TransactionWithdrawal {
		verb = "Withdrew"
	}
	return redirectWithFlash(c, adminDashboard,
		fmt.Sprintf("%s $%s. New balance for %s: $%s", verb, amount.StringFixed(2), account.Username, account.CashBalance.StringFixed(2)))
}

// HandleResetPassword replaces a user's password
// POST /admin/user/reset-password
func (h *AdminHandler) HandleResetPassword(c echo.Context) error {
	accountID, err := uuid.Parse(c.FormValue("user_id"))
	if err != nil {
		return redirectWithFlash(c, adminDashboard, "Invalid user id.")
	}

	if err := h.accountService.SetPassword(c.Request().Context(), accountID, c.FormValue("new_password")); err != nil {
		return redirectWithFlash(c, adminDashboard, flashMessage(err))
	}

	return redirectWithFlash(c, adminDashboard, "Password has been reset.")
}

// HandleDeleteUser removes an account and all of its ledger data
// POST /admin/user/delete/:id
func (h *AdminHandler) HandleDeleteUser(c echo.Context) error {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return redirectWithFlash(c, adminDashboard, "Invalid user id.")
	}

	if err := h.accountService.DeleteAccount(c.Request().Context(), accountID); err != nil {
		return redirectWithFlash(c, adminDashboard, flashMessage(err))
	}

	return redirectWithFlash(c, adminDashboard, "Account and all its data deleted.")
}

// HandlePlaceTrade opens a position for a user at the latest market price
// POST /admin/user/place-trade
func (h *AdminHandler) HandlePlaceTrade(c echo.Context) error {
	accountID, err := uuid.Parse(c.FormValue("user_id"))
	if err != nil {
		return redirectWithFlash(c, adminDashboard, "Invalid user id.")
	}

	quantity, err := decimal.NewFromString(c.FormValue("quantity"))
	if err != nil {
		return redirectWithFlash(c, adminDashboard, "Quantity must be a number.")
	}

	admin := middleware.CurrentAccount(c)
	position, err := h.tradingService.PlaceTrade(
		c.Request().Context(),
		accountID,
		c.FormValue("symbol"),
		c.FormValue("direction"),
		quantity,
		admin.Username,
	)
	if err != nil {
		return redirectWithFlash(c, adminDashboard, flashMessage(err))
	}

	return redirectWithFlash(c, adminDashboard,
		fmt.Sprintf("Opened %s %s %s @ $%s", position.Direction, position.Quantity.String(), position.Symbol, position.EntryPrice.String()))
}
