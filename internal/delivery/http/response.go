package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"tradeledger/internal/domain"
)

// Response represents a standardized API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Response{
		Status:  "error",
		Message: message,
	})
}

// InternalServerErrorResponse sends a 500 Internal Server Error response
func InternalServerErrorResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, Response{
		Status:  "error",
		Message: message,
	})
}

// redirectWithFlash redirects carrying a transient notice in the query
// string; the target page renders it once
func redirectWithFlash(c echo.Context, path, notice string) error {
	return c.Redirect(http.StatusFound, path+"?flash="+url.QueryEscape(notice))
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// flashMessage translates a domain error into a user-visible notice
func flashMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "Invalid input: " + err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return "Not found."
	case errors.Is(err, domain.ErrConflict):
		return "That name is already taken."
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Insufficient funds for that withdrawal."
	case errors.Is(err, domain.ErrMarketData):
		return "Could not fetch market data for that symbol."
	case errors.Is(err, domain.ErrAuth):
		return "Invalid username or password."
	default:
		return "Something went wrong. Please try again."
	}
}
