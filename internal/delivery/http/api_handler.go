package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"tradeledger/internal/domain"
	"tradeledger/internal/service"
)

// APIHandler serves the JSON endpoints
type APIHandler struct {
	ledgerService *service.LedgerService
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(ledgerService *service.LedgerService) *APIHandler {
	return &APIHandler{ledgerService: ledgerService}
}

// VerifyCodeRequest represents the verify-code request payload
type VerifyCodeRequest struct {
	Code string `json:"code"`
}

// VerifyCodeResponse reports whether a code is redeemable and for how much
type VerifyCodeResponse struct {
	Valid  bool     `json:"valid"`
	Amount *float64 `json:"amount,omitempty"`
}

// VerifyCode checks an invite code without consuming it. An unknown or
// already-used code is a valid:false result, not an error.
// POST /api/verify-code
func (h *APIHandler) VerifyCode(c echo.Context) error {
	var req VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	if req.Code == "" {
		return BadRequestResponse(c, "Code is required")
	}

	code, err := h.ledgerService.VerifyCode(c.Request().Context(), req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusOK, VerifyCodeResponse{Valid: false})
		}
		return InternalServerErrorResponse(c, "Failed to verify code")
	}

	amount, _ := code.Value.Float64()
	return c.JSON(http.StatusOK, VerifyCodeResponse{Valid: true, Amount: &amount})
}
