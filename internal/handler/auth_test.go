package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoanvu/room-rental/internal/auth"
	"github.com/hoanvu/room-rental/internal/middleware"
	"github.com/hoanvu/room-rental/internal/model"
)

// ----- in-memory stores -----

type memUserStore struct {
	users  map[uint64]model.User
	nextID uint64
}

func (s *memUserStore) Create(_ context.Context, u *model.User) error {
	for _, ex := range s.users {
		if (u.Email != "" && ex.Email == u.Email) ||
			(u.FederatedID != "" && ex.FederatedID == u.FederatedID) {
			return auth.ErrDuplicateKey
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = *u
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, auth.ErrNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, auth.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) GetByFederatedID(_ context.Context, fid string) (model.User, error) {
	for _, u := range s.users {
		if u.FederatedID != "" && u.FederatedID == fid {
			return u, nil
		}
	}
	return model.User{}, auth.ErrNotFound
}

func (s *memUserStore) Update(_ context.Context, u *model.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return auth.ErrNotFound
	}
	s.users[u.ID] = *u
	return nil
}

type memTokenStore struct {
	tokens map[string]model.RefreshToken
}

func (s *memTokenStore) Create(_ context.Context, userID uint64, value string, issuedAt, expiresAt time.Time) error {
	if _, ok := s.tokens[value]; ok {
		return auth.ErrDuplicateKey
	}
	s.tokens[value] = model.RefreshToken{UserID: userID, TokenValue: value, IssuedAt: issuedAt, ExpiresAt: expiresAt}
	return nil
}

func (s *memTokenStore) FindByValue(_ context.Context, value string) (model.RefreshToken, error) {
	t, ok := s.tokens[value]
	if !ok || !t.ExpiresAt.After(time.Now().UTC()) {
		return model.RefreshToken{}, auth.ErrNotFound
	}
	return t, nil
}

func (s *memTokenStore) DeleteByValue(_ context.Context, value string) error {
	delete(s.tokens, value)
	return nil
}

// ----- harness -----

func newAuthTestServer() (*echo.Echo, *auth.Service) {
	svc := auth.NewService(auth.Config{
		AccessSecret:  "handler-test-access",
		RefreshSecret: "handler-test-refresh",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		BcryptCost:    4,
	}, &memUserStore{users: map[uint64]model.User{}}, &memTokenStore{tokens: map[string]model.RefreshToken{}})

	h := NewAuthHandler(svc, nil, "http://localhost:3000", 7*24*time.Hour, false)
	e := echo.New()
	g := e.Group("/v1/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)
	g.POST("/google", h.GoogleLogin)

	protected := e.Group("/v1")
	protected.Use(middleware.JWTAuth("handler-test-access"))
	protected.GET("/me", h.Me)
	return e, svc
}

func getJSON(e *echo.Echo, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postJSON(e *echo.Echo, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == refreshCookieName {
			return ck
		}
	}
	return nil
}

// ----- tests -----

func TestAuthSessionLifecycle(t *testing.T) {
	e, svc := newAuthTestServer()

	// Register.
	rec := postJSON(e, "/v1/auth/register", `{"email":"a@x.com","password":"secret123","displayName":"Ann"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "Ann", user["displayName"])
	assert.Equal(t, model.RoleUser, user["role"])
	_, hasHash := user["passwordHash"]
	assert.False(t, hasHash)

	// Registering the same email again conflicts.
	rec = postJSON(e, "/v1/auth/register", `{"email":"a@x.com","password":"other","displayName":"Ann"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Login returns tokens in the body and the refresh token as a cookie.
	rec = postJSON(e, "/v1/auth/login", `{"email":"a@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	accessToken := body["accessToken"].(string)
	refreshToken := body["refreshToken"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)

	ck := refreshCookie(rec)
	require.NotNil(t, ck)
	assert.Equal(t, refreshToken, ck.Value)
	assert.True(t, ck.HttpOnly)

	// The access token verifies and carries the identity claims.
	claims, err := svc.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)

	// The protected identity endpoint echoes the claims with the same key
	// casing as every other response body.
	rec = getJSON(e, "/v1/me", accessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, model.RoleUser, body["role"])
	assert.Contains(t, body, "userId")

	// Refresh via cookie.
	rec = postJSON(e, "/v1/auth/refresh", "", &http.Cookie{Name: refreshCookieName, Value: refreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.NotEmpty(t, body["accessToken"])

	// Refresh via body works too, with the same un-rotated token.
	rec = postJSON(e, "/v1/auth/refresh", `{"refreshToken":"`+refreshToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Logout clears the cookie and revokes the session.
	rec = postJSON(e, "/v1/auth/logout", "", &http.Cookie{Name: refreshCookieName, Value: refreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := refreshCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)

	// The token is gone from the store: refreshing with it is rejected.
	rec = postJSON(e, "/v1/auth/refresh", `{"refreshToken":"`+refreshToken+`"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "refresh token not found", body["error"])
}

func TestLoginRejections(t *testing.T) {
	e, _ := newAuthTestServer()

	rec := postJSON(e, "/v1/auth/register", `{"email":"a@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Wrong password and unknown email produce identical responses.
	recWrong := postJSON(e, "/v1/auth/login", `{"email":"a@x.com","password":"nope"}`)
	recUnknown := postJSON(e, "/v1/auth/login", `{"email":"b@x.com","password":"secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, recWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	assert.Equal(t, recWrong.Body.String(), recUnknown.Body.String())

	// Missing fields are a 400, not a 401.
	rec = postJSON(e, "/v1/auth/login", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshRejections(t *testing.T) {
	e, _ := newAuthTestServer()

	// No token anywhere.
	rec := postJSON(e, "/v1/auth/refresh", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	rec = postJSON(e, "/v1/auth/refresh", `{"refreshToken":"garbage"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "invalid refresh token", body["error"])
}

func TestLogoutWithoutToken(t *testing.T) {
	e, _ := newAuthTestServer()

	// Logout with nothing to revoke still succeeds and clears the cookie.
	rec := postJSON(e, "/v1/auth/logout", `{}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGoogleLoginUnconfigured(t *testing.T) {
	e, _ := newAuthTestServer()

	rec := postJSON(e, "/v1/auth/google", `{"idToken":"some-token"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = postJSON(e, "/v1/auth/google", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
