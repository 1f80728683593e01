package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"
)

// Sentinel errors returned by the parse functions. Callers branch on these
// with errors.Is: an expired token may warrant cleanup of dependent state,
// while an invalid one indicates tampering or a wrong secret.
var (
	// ErrTokenExpired means the token was well-formed and correctly signed
	// but its expiry timestamp has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid means the token is malformed, carries a bad signature,
	// uses an unexpected algorithm, or is not of the expected type.
	ErrTokenInvalid = errors.New("token invalid")
)

// refreshTokenType is the value of the "type" claim carried by refresh
// tokens. Access tokens carry no type claim; rejecting tokens of the wrong
// kind prevents a refresh token from being replayed as an access token.
const refreshTokenType = "refresh"

// AccessClaims is the payload of a short-lived access token. Possession of
// a validly signed, unexpired access token is sufficient proof of
// authentication; there is no server-side revocation list for these.
type AccessClaims struct {
	UserID uint64 `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a long-lived refresh token. Its signed
// form doubles as the lookup key in the refresh token store: verification
// requires both a valid signature and presence in the store.
type RefreshClaims struct {
	UserID    uint64 `json:"userId"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// AccessToken bundles a signed access JWT with its expiry so handlers can
// report both to the client.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken bundles a signed refresh JWT with its expiry.
type RefreshToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken builds and signs an HS256 access JWT for a user. Access
// and refresh tokens are signed with independent secrets so a compromise
// of one cannot forge the other.
func NewAccessToken(secret string, userID uint64, email, role string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := AccessClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh JWT. The returned
// string is persisted verbatim in the refresh token store; the jti claim
// makes each issuance unique even when the same user logs in twice within
// the one-second resolution of the timestamp claims.
func NewRefreshToken(secret string, userID uint64, ttl time.Duration) (RefreshToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := RefreshClaims{
		UserID:    userID,
		TokenType: refreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of an access token and
// returns its claims. It fails with ErrTokenExpired or ErrTokenInvalid.
func ParseAccessToken(raw, secret string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := parseInto(raw, secret, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// ParseRefreshToken verifies the signature and expiry of a refresh token
// and returns its claims. Tokens lacking the refresh type claim are
// rejected as invalid even when correctly signed.
func ParseRefreshToken(raw, secret string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := parseInto(raw, secret, &claims); err != nil {
		return nil, err
	}
	if claims.TokenType != refreshTokenType {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

func parseInto(raw, secret string, claims jwt.Claims) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC; accepting "none" or
		// an asymmetric method here would bypass the secret entirely.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !tok.Valid {
		return ErrTokenInvalid
	}
	return nil
}

// DecodeUnverified parses the claims of a token WITHOUT checking its
// signature or expiry. It exists for inspection and debugging only and
// must never feed an authorization decision; use ParseAccessToken or
// ParseRefreshToken for anything security-relevant.
func DecodeUnverified(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
