package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"tradeledger/internal/domain"
)

// JWTClaims represents the session token claims
type JWTClaims struct {
	AccountID uuid.UUID `json:"account_id"`
	Role      string    `json:"role"`
	jwt.RegisteredClaims
}

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "token"

const sessionTTL = 24 * time.Hour

// AccountResolver resolves a token subject to a live account record.
// Every authenticated request goes through it, so a session for a
// deleted account is rejected immediately.
type AccountResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// GetJWTSecret returns the JWT secret from environment
func GetJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "default-secret-change-in-production" // Fallback for development
	}
	return secret
}

// GenerateJWT generates a new session token for an account
func GenerateJWT(accountID uuid.UUID, role string) (string, error) {
	claims := &JWTClaims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(GetJWTSecret()))
}

// SessionCookie builds the HTTP-only session cookie for a token
func SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(sessionTTL.Seconds()),
	}
}

// ClearSessionCookie builds an expired session cookie
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
}

func parseClaims(c echo.Context) (*JWTClaims, error) {
	// Authorization header first, cookie as fallback
	tokenString := ""
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return nil, fmt.Errorf("invalid authorization header format")
		}
		tokenString = parts[1]
	} else {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			return nil, fmt.Errorf("missing session token")
		}
		tokenString = cookie.Value
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(GetJWTSecret()), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

const accountContextKey = "account"

// resolveAccount validates the session and loads the live account record
func resolveAccount(c echo.Context, resolver AccountResolver) (*domain.Account, error) {
	claims, err := parseClaims(c)
	if err != nil {
		return nil, err
	}

	account, err := resolver.GetByID(c.Request().Context(), claims.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account no longer exists: %w", err)
	}

	return account, nil
}

// RequireAuth guards API routes: 401 JSON when the session is missing,
// invalid, or the account was deleted mid-session
func RequireAuth(resolver AccountResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, err := resolveAccount(c, resolver)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			c.Set(accountContextKey, account)
			return next(c)
		}
	}
}

// RequireAuthWeb guards HTML routes: unauthenticated requests are
// redirected to the login page with a notice
func RequireAuthWeb(resolver AccountResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, err := resolveAccount(c, resolver)
			if err != nil {
				c.SetCookie(ClearSessionCookie())
				return c.Redirect(http.StatusFound, "/login?flash="+url.QueryEscape("Please log in to continue."))
			}
			c.Set(accountContextKey, account)
			return next(c)
		}
	}
}

// OptionalAuthWeb resolves the session if one exists but never rejects
// the request. Used on public pages that redirect logged-in visitors.
func OptionalAuthWeb(resolver AccountResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if account, err := resolveAccount(c, resolver); err == nil {
				c.Set(accountContextKey, account)
			}
			return next(c)
		}
	}
}

// RequireAdminWeb guards admin HTML routes. Non-admin access is a
// redirect with a notice rather than a hard 403.
func RequireAdminWeb() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := CurrentAccount(c)
			if account == nil || !account.IsAdmin() {
				return c.Redirect(http.StatusFound, "/login?flash="+url.QueryEscape("Access denied: admins only."))
			}
			return next(c)
		}
	}
}

// CurrentAccount returns the authenticated account set by the auth
// middleware, or nil outside an authenticated request
func CurrentAccount(c echo.Context) *domain.Account {
	account, ok := c.Get(accountContextKey).(*domain.Account)
	if !ok {
		return nil
	}
	return account
}
