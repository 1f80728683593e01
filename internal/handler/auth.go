package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hoanvu/room-rental/internal/auth"
	"github.com/hoanvu/room-rental/internal/model"
	"github.com/hoanvu/room-rental/internal/oauth"
)

const refreshCookieName = "refreshToken"

// AuthHandler bundles dependencies for auth endpoints. All policy lives in
// the auth service; this layer only binds requests, maps the error
// taxonomy to HTTP statuses and manages the refresh-token cookie.
type AuthHandler struct {
	Svc         *auth.Service
	Google      *oauth.GoogleVerifier
	FrontendURL string
	RefreshTTL  time.Duration
	Secure      bool // set the Secure flag on cookies (prod)
}

func NewAuthHandler(svc *auth.Service, google *oauth.GoogleVerifier, frontendURL string, refreshTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Google: google, FrontendURL: frontendURL, RefreshTTL: refreshTTL, Secure: secure}
}

// ----- DTOs -----

type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}
type googleLoginReq struct {
	IDToken string `json:"idToken"`
}

type userPart struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Role        string `json:"role"`
}

func publicUser(u model.User) userPart {
	// The password hash never leaves the service boundary.
	return userPart{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL, Role: u.Role}
}

// Register creates a password-backed account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Svc.Register(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, auth.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
		}
		return serverError(c, "register", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": publicUser(u)})
}

// Login verifies credentials and returns an access token plus a refresh
// token, the latter both in the body and as an HTTP-only cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, u, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			// Same message whether the email is unknown or the password is
			// wrong; anything more specific enables account enumeration.
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, auth.ErrFederatedOnlyAccount):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "this account uses Google login"})
		default:
			return serverError(c, "login", err)
		}
	}

	h.setRefreshCookie(c, pair.Refresh.Token, pair.Refresh.Exp)
	return c.JSON(http.StatusOK, echo.Map{
		"accessToken":  pair.Access.Token,
		"refreshToken": pair.Refresh.Token,
		"expiresAt":    pair.Access.Exp,
		"user":         publicUser(u),
	})
}

// Refresh exchanges a valid, stored refresh token for a new access token.
// The refresh token is not rotated. It is read from the cookie first, then
// from the body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := h.refreshTokenFrom(c)
	if refreshToken == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	access, err := h.Svc.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRefreshExpired):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "refresh token expired"})
		case errors.Is(err, auth.ErrRefreshInvalid):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid refresh token"})
		case errors.Is(err, auth.ErrRefreshNotFound):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "refresh token not found"})
		case errors.Is(err, auth.ErrUserGone):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "user not found"})
		default:
			return serverError(c, "refresh", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": access.Token,
		"expiresAt":   access.Exp,
	})
}

// Logout deletes the refresh token record if one was presented and clears
// the cookie. Always succeeds; logging out twice is harmless.
func (h *AuthHandler) Logout(c echo.Context) error {
	refreshToken := h.refreshTokenFrom(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if refreshToken != "" {
		if err := h.Svc.Logout(ctx, refreshToken); err != nil {
			return serverError(c, "logout", err)
		}
	}
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logout successful"})
}

// GoogleLogin validates a Google ID token, resolves the federated profile
// to a local account and redirects to the front-end callback with the
// access token. Only an access token is issued on this path.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.IDToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "idToken required"})
	}
	if h.Google == nil || h.Google.ClientID == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Google login is not configured"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 8*time.Second)
	defer cancel()

	profile, err := h.Google.Verify(ctx, req.IDToken)
	if err != nil {
		return h.redirectWithError(c, "auth_failed")
	}

	access, u, err := h.Svc.FederatedLogin(ctx, profile)
	if err != nil {
		if errors.Is(err, auth.ErrMissingEmail) {
			return h.redirectWithError(c, "missing_email")
		}
		c.Logger().Errorf("google login failed: %v", err)
		return h.redirectWithError(c, "server_error")
	}

	redirect := fmt.Sprintf("%s/auth/callback?token=%s&userId=%d",
		strings.TrimRight(h.FrontendURL, "/"), url.QueryEscape(access.Token), u.ID)
	return c.Redirect(http.StatusFound, redirect)
}

// Me returns the claims of the authenticated user. Simple protected
// endpoint; JWTAuth has already populated the context.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"userId": c.Get("user_id"),
		"email":  c.Get("email"),
		"role":   c.Get("role"),
	})
}

// refreshTokenFrom prefers the HTTP-only cookie and falls back to the
// request body so API clients without cookie support still work.
func (h *AuthHandler) refreshTokenFrom(c echo.Context) string {
	if ck, err := c.Cookie(refreshCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	var req refreshReq
	_ = c.Bind(&req)
	return strings.TrimSpace(req.RefreshToken)
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(time.Until(exp) / time.Second),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) redirectWithError(c echo.Context, code string) error {
	return c.Redirect(http.StatusFound,
		fmt.Sprintf("%s/login?error=%s", strings.TrimRight(h.FrontendURL, "/"), code))
}

// serverError logs the underlying cause and returns a generic 500 body.
// Internal details (queries, connection strings) must never reach the
// client.
func serverError(c echo.Context, op string, err error) error {
	c.Logger().Errorf("%s failed: %v", op, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error, please try again"})
}
