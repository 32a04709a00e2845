package domain

import "errors"

// Sentinel errors for the operations layer. Callers match with errors.Is;
// the HTTP boundary maps them to flash notices or typed JSON.
var (
	// ErrValidation indicates malformed or missing input, such as a
	// non-positive amount.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an unknown account, code, or position.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate username.
	ErrConflict = errors.New("already exists")

	// ErrAuth indicates bad credentials. It never reveals whether the
	// username or the password was wrong.
	ErrAuth = errors.New("invalid credentials")

	// ErrInsufficientFunds indicates a withdrawal exceeding the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrMarketData indicates a failed or empty price lookup.
	ErrMarketData = errors.New("market data unavailable")
)
