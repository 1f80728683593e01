// Package oauth adapts third-party identity providers to the auth core.
// The OAuth handshake itself happens in the browser; the backend only
// receives an ID token and validates it before trusting any profile field.
package oauth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"

	"github.com/hoanvu/room-rental/internal/auth"
)

// ErrInvalidIDToken is returned when Google rejects the presented token.
var ErrInvalidIDToken = errors.New("invalid google id token")

// GoogleVerifier validates Google ID tokens against a configured OAuth
// client id and extracts the claims the federation resolver needs.
type GoogleVerifier struct {
	ClientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{ClientID: clientID}
}

// Verify checks the token's signature and audience with Google and maps
// its claims to an auth.Profile. A missing email claim is not an error
// here; the federation resolver rejects it with its own failure kind so
// the handler can report it precisely.
func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (auth.Profile, error) {
	payload, err := idtoken.Validate(ctx, rawToken, v.ClientID)
	if err != nil {
		return auth.Profile{}, ErrInvalidIDToken
	}
	p := auth.Profile{ProviderID: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		p.DisplayName = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		p.AvatarURL = picture
	}
	return p, nil
}
