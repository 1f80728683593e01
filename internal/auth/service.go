package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hoanvu/room-rental/internal/model"
	"github.com/hoanvu/room-rental/internal/utils"
)

// UserStore is the user directory the auth core depends on. Implementations
// must enforce uniqueness of email, phone and federated id, and translate
// their driver's not-found and duplicate-key conditions into ErrNotFound
// and ErrDuplicateKey.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByFederatedID(ctx context.Context, federatedID string) (model.User, error)
	Update(ctx context.Context, u *model.User) error
}

// TokenStore persists issued refresh tokens keyed by their verbatim signed
// value. Lookups must treat rows past their expiry as absent; the periodic
// sweeper removes them for good.
type TokenStore interface {
	Create(ctx context.Context, userID uint64, tokenValue string, issuedAt, expiresAt time.Time) error
	FindByValue(ctx context.Context, tokenValue string) (model.RefreshToken, error)
	DeleteByValue(ctx context.Context, tokenValue string) error
}

// Config carries the secrets and policy knobs for the session lifecycle.
// It is passed in explicitly; the service never reads the environment.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int
}

// Profile is a verified third-party identity as produced by the OAuth
// handshake (which happens outside this package).
type Profile struct {
	ProviderID  string
	Email       string
	DisplayName string
	AvatarURL   string
}

// TokenPair is what a successful password login returns.
type TokenPair struct {
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// Service is the session lifecycle manager. All methods recover store and
// codec failures into the package's sentinel errors; anything else that
// escapes is an unexpected server error.
type Service struct {
	cfg    Config
	users  UserStore
	tokens TokenStore
}

// NewService wires the lifecycle manager with its collaborators.
func NewService(cfg Config, users UserStore, tokens TokenStore) *Service {
	return &Service{cfg: cfg, users: users, tokens: tokens}
}

// Register creates a password-backed account. The password is hashed here,
// explicitly, so the cost of bcrypt is visible at the call site rather
// than hidden behind a generic save.
func (s *Service) Register(ctx context.Context, email, password, displayName string) (model.User, error) {
	email = NormalizeEmail(email)
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return model.User{}, ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login verifies credentials and issues a fresh token pair. The refresh
// token is persisted before anything is returned; a second login from
// another device issues a second, independent refresh token (multi-device
// sessions are intended behavior, not a race).
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, model.User, error) {
	u, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, model.User{}, ErrInvalidCredentials
		}
		return TokenPair{}, model.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if u.PasswordHash == "" {
		return TokenPair{}, model.User{}, ErrFederatedOnlyAccount
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return TokenPair{}, model.User{}, ErrInvalidCredentials
	}
	pair, err := s.issuePair(ctx, u)
	if err != nil {
		return TokenPair{}, model.User{}, err
	}
	return pair, u, nil
}

// RefreshAccessToken exchanges a stored, unexpired refresh token for a new
// access token. The refresh token itself is NOT rotated: it stays valid
// and stored until it expires naturally or is revoked via Logout.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (utils.AccessToken, error) {
	claims, err := utils.ParseRefreshToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			// The value is a token we once signed, so its row is safe to
			// clean up eagerly.
			if derr := s.tokens.DeleteByValue(ctx, refreshToken); derr != nil {
				return utils.AccessToken{}, fmt.Errorf("delete expired refresh token: %w", derr)
			}
			return utils.AccessToken{}, ErrRefreshExpired
		}
		return utils.AccessToken{}, ErrRefreshInvalid
	}

	if _, err := s.tokens.FindByValue(ctx, refreshToken); err != nil {
		if errors.Is(err, ErrNotFound) {
			return utils.AccessToken{}, ErrRefreshNotFound
		}
		return utils.AccessToken{}, fmt.Errorf("lookup refresh token: %w", err)
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if derr := s.tokens.DeleteByValue(ctx, refreshToken); derr != nil {
				return utils.AccessToken{}, fmt.Errorf("delete orphaned refresh token: %w", derr)
			}
			return utils.AccessToken{}, ErrUserGone
		}
		return utils.AccessToken{}, fmt.Errorf("lookup user: %w", err)
	}

	access, err := utils.NewAccessToken(s.cfg.AccessSecret, u.ID, u.Email, u.Role, s.cfg.AccessTTL)
	if err != nil {
		return utils.AccessToken{}, fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// Logout revokes a single session by deleting its refresh token record.
// It is idempotent: logging out an unknown or already-deleted token is not
// an error. Access tokens cannot be revoked server-side; the client is
// expected to discard both tokens locally.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	if err := s.tokens.DeleteByValue(ctx, refreshToken); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

// FederatedLogin resolves a verified provider profile to a local account
// and issues an access token for it. Note the asymmetry with Login: no
// refresh token is issued on this path, so federated users re-authenticate
// with the provider once their access token expires.
func (s *Service) FederatedLogin(ctx context.Context, p Profile) (utils.AccessToken, model.User, error) {
	u, err := s.resolveFederated(ctx, p)
	if err != nil {
		return utils.AccessToken{}, model.User{}, err
	}
	access, err := utils.NewAccessToken(s.cfg.AccessSecret, u.ID, u.Email, u.Role, s.cfg.AccessTTL)
	if err != nil {
		return utils.AccessToken{}, model.User{}, fmt.Errorf("issue access token: %w", err)
	}
	return access, u, nil
}

// resolveFederated finds, links or creates the local account for a
// provider profile:
//
//  1. a user already linked to this provider id wins unchanged: profile
//     fields are never overwritten on repeat logins;
//  2. a user with the same email gets linked, with display name and avatar
//     backfilled only where currently empty;
//  3. otherwise a new federated-only user is created.
//
// Step 2 trusts that the provider verified ownership of the email; a
// provider that does not would let an attacker claim an existing local
// account by registering the same address upstream.
func (s *Service) resolveFederated(ctx context.Context, p Profile) (model.User, error) {
	if strings.TrimSpace(p.Email) == "" {
		return model.User{}, ErrMissingEmail
	}

	u, err := s.users.GetByFederatedID(ctx, p.ProviderID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.User{}, fmt.Errorf("lookup by federated id: %w", err)
	}

	u, err = s.users.GetByEmail(ctx, NormalizeEmail(p.Email))
	if err == nil {
		u.FederatedID = p.ProviderID
		if u.AvatarURL == "" && p.AvatarURL != "" {
			u.AvatarURL = p.AvatarURL
		}
		if strings.TrimSpace(u.DisplayName) == "" {
			u.DisplayName = p.DisplayName
		}
		if err := s.users.Update(ctx, &u); err != nil {
			return model.User{}, fmt.Errorf("link federated account: %w", err)
		}
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.User{}, fmt.Errorf("lookup by email: %w", err)
	}

	name := p.DisplayName
	if strings.TrimSpace(name) == "" {
		name = NormalizeEmail(p.Email)
	}
	u = model.User{
		Email:       NormalizeEmail(p.Email),
		FederatedID: p.ProviderID,
		DisplayName: name,
		AvatarURL:   p.AvatarURL,
		Role:        model.RoleUser,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return model.User{}, fmt.Errorf("create federated user: %w", err)
	}
	return u, nil
}

// VerifyAccessToken checks a bearer token against the access secret and
// returns its claims. Middleware uses this; the distinction between
// utils.ErrTokenExpired and utils.ErrTokenInvalid is preserved so clients
// can tell a stale session from a bad token.
func (s *Service) VerifyAccessToken(raw string) (*utils.AccessClaims, error) {
	return utils.ParseAccessToken(raw, s.cfg.AccessSecret)
}

func (s *Service) issuePair(ctx context.Context, u model.User) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.cfg.AccessSecret, u.ID, u.Email, u.Role, s.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshSecret, u.ID, s.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	issued := refresh.Exp.Add(-s.cfg.RefreshTTL)
	if err := s.tokens.Create(ctx, u.ID, refresh.Token, issued, refresh.Exp); err != nil {
		// A duplicate token value is astronomically unlikely (the issued-at
		// timestamp is part of the signature) but handled rather than
		// assumed impossible.
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// NormalizeEmail lowercases and trims an email the same way the user
// directory stores it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
