package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoanvu/room-rental/internal/model"
	"github.com/hoanvu/room-rental/internal/utils"
)

// ----- in-memory fakes -----

type fakeUserStore struct {
	users  map[uint64]model.User
	nextID uint64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	for _, ex := range s.users {
		if (u.Email != "" && ex.Email == u.Email) ||
			(u.Phone != "" && ex.Phone == u.Phone) ||
			(u.FederatedID != "" && ex.FederatedID == u.FederatedID) {
			return ErrDuplicateKey
		}
	}
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = *u
	return nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByFederatedID(_ context.Context, fid string) (model.User, error) {
	for _, u := range s.users {
		if u.FederatedID != "" && u.FederatedID == fid {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *fakeUserStore) Update(_ context.Context, u *model.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	s.users[u.ID] = *u
	return nil
}

type fakeTokenStore struct {
	tokens map[string]model.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]model.RefreshToken{}}
}

func (s *fakeTokenStore) Create(_ context.Context, userID uint64, value string, issuedAt, expiresAt time.Time) error {
	if _, ok := s.tokens[value]; ok {
		return ErrDuplicateKey
	}
	s.tokens[value] = model.RefreshToken{
		ID: uint64(len(s.tokens) + 1), UserID: userID,
		TokenValue: value, IssuedAt: issuedAt, ExpiresAt: expiresAt,
	}
	return nil
}

func (s *fakeTokenStore) FindByValue(_ context.Context, value string) (model.RefreshToken, error) {
	t, ok := s.tokens[value]
	if !ok || !t.ExpiresAt.After(time.Now().UTC()) {
		// Expired rows read as absent, matching the SQL repository.
		return model.RefreshToken{}, ErrNotFound
	}
	return t, nil
}

func (s *fakeTokenStore) DeleteByValue(_ context.Context, value string) error {
	delete(s.tokens, value)
	return nil
}

func (s *fakeTokenStore) stored(value string) bool {
	_, ok := s.tokens[value]
	return ok
}

// ----- helpers -----

func testConfig() Config {
	return Config{
		AccessSecret:  "unit-test-access-secret",
		RefreshSecret: "unit-test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		BcryptCost:    4, // min cost keeps bcrypt fast in tests
	}
}

func newTestService() (*Service, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	return NewService(testConfig(), users, tokens), users, tokens
}

// ----- register / login -----

func TestRegisterHashesPassword(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "  A@X.com ", "secret123", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	stored, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(stored.PasswordHash, "secret123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "secret123", "Ann")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "other-pass", "Ann2")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestLoginIssuesVerifiableTokens(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "secret123", "Ann")
	require.NoError(t, err)

	pair, u, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
	assert.NotEmpty(t, pair.Refresh.Token)

	claims, err := svc.VerifyAccessToken(pair.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)

	assert.True(t, tokens.stored(pair.Refresh.Token))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "secret123", "Ann")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email yields the exact same error kind as a wrong password.
	_, _, err = svc.Login(ctx, "nobody@x.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginFederatedOnlyAccount(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &model.User{
		Email: "g@x.com", FederatedID: "g-123", DisplayName: "Gia", Role: model.RoleUser,
	}))

	_, _, err := svc.Login(ctx, "g@x.com", "anything")
	assert.ErrorIs(t, err, ErrFederatedOnlyAccount)
}

func TestLoginTwiceKeepsBothSessions(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "secret123", "Ann")
	require.NoError(t, err)

	p1, _, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	p2, _, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	// Two devices, two independent refresh tokens, both stored.
	assert.NotEqual(t, p1.Refresh.Token, p2.Refresh.Token)
	assert.True(t, tokens.stored(p1.Refresh.Token))
	assert.True(t, tokens.stored(p2.Refresh.Token))
}

// ----- refresh -----

func TestRefreshDoesNotRotate(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "secret123", "Ann")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	// Two sequential refresh calls with the same token both succeed.
	a1, err := svc.RefreshAccessToken(ctx, pair.Refresh.Token)
	require.NoError(t, err)
	a2, err := svc.RefreshAccessToken(ctx, pair.Refresh.Token)
	require.NoError(t, err)

	c1, err := svc.VerifyAccessToken(a1.Token)
	require.NoError(t, err)
	c2, err := svc.VerifyAccessToken(a2.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, c1.UserID)
	assert.Equal(t, reg.ID, c2.UserID)

	assert.True(t, tokens.stored(pair.Refresh.Token))
}

func TestRefreshAfterLogout(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "secret123", "Ann")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.Refresh.Token))

	_, err = svc.RefreshAccessToken(ctx, pair.Refresh.Token)
	assert.ErrorIs(t, err, ErrRefreshNotFound)

	// Logout is idempotent.
	assert.NoError(t, svc.Logout(ctx, pair.Refresh.Token))
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestRefreshExpiredCleansUpStore(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshTTL = -time.Minute // issued already expired
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	svc := NewService(cfg, users, tokens)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "secret123", "Ann")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	require.True(t, tokens.stored(pair.Refresh.Token))

	_, err = svc.RefreshAccessToken(ctx, pair.Refresh.Token)
	assert.ErrorIs(t, err, ErrRefreshExpired)
	// The store record was deleted as part of the failure path.
	assert.False(t, tokens.stored(pair.Refresh.Token))
}

func TestRefreshInvalidToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RefreshAccessToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrRefreshInvalid)

	// A token signed with the wrong secret is invalid, not expired.
	other, err := utils.NewRefreshToken("a-different-secret", 1, time.Hour)
	require.NoError(t, err)
	_, err = svc.RefreshAccessToken(ctx, other.Token)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestRefreshValidButNeverStored(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	// Correctly signed but never persisted by us.
	tok, err := utils.NewRefreshToken(testConfig().RefreshSecret, 1, time.Hour)
	require.NoError(t, err)

	_, err = svc.RefreshAccessToken(ctx, tok.Token)
	assert.ErrorIs(t, err, ErrRefreshNotFound)
}

func TestRefreshUserGone(t *testing.T) {
	svc, users, tokens := newTestService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@x.com", "secret123", "Ann")
	require.NoError(t, err)
	pair, _, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)

	delete(users.users, reg.ID)

	_, err = svc.RefreshAccessToken(ctx, pair.Refresh.Token)
	assert.ErrorIs(t, err, ErrUserGone)
	assert.False(t, tokens.stored(pair.Refresh.Token))
}

// ----- federated login -----

func TestFederatedLoginCreatesUser(t *testing.T) {
	svc, users, tokens := newTestService()
	ctx := context.Background()

	access, u, err := svc.FederatedLogin(ctx, Profile{
		ProviderID: "g1", Email: "a@x.com", DisplayName: "Ann", AvatarURL: "http://img/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "g1", u.FederatedID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "Ann", u.DisplayName)
	assert.Empty(t, u.PasswordHash)

	claims, err := svc.VerifyAccessToken(access.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	// Only an access token is issued on this path.
	assert.Empty(t, tokens.tokens)
	assert.Len(t, users.users, 1)
}

func TestFederatedLoginMissingEmail(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	_, _, err := svc.FederatedLogin(ctx, Profile{ProviderID: "g1", DisplayName: "Ann"})
	assert.ErrorIs(t, err, ErrMissingEmail)
	assert.Empty(t, users.users)
}

func TestFederatedLoginLinksByEmail(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	// Existing password account with a blank display name.
	require.NoError(t, users.Create(ctx, &model.User{
		Email: "a@x.com", PasswordHash: "hash", DisplayName: "", Role: model.RoleUser,
	}))

	_, u, err := svc.FederatedLogin(ctx, Profile{
		ProviderID: "g1", Email: "a@x.com", DisplayName: "Ann", AvatarURL: "http://img/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "g1", u.FederatedID)
	assert.Equal(t, "Ann", u.DisplayName)
	assert.Equal(t, "http://img/a.png", u.AvatarURL)
	assert.Equal(t, "hash", u.PasswordHash) // password path stays usable
	assert.Len(t, users.users, 1)           // linked, not duplicated
}

func TestFederatedLoginDoesNotOverwriteProfile(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, first, err := svc.FederatedLogin(ctx, Profile{
		ProviderID: "g1", Email: "a@x.com", DisplayName: "Ann", AvatarURL: "http://img/a.png",
	})
	require.NoError(t, err)

	// Second login from the same provider id with different profile data.
	_, second, err := svc.FederatedLogin(ctx, Profile{
		ProviderID: "g1", Email: "a@x.com", DisplayName: "Annie", AvatarURL: "http://img/b.png",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ann", second.DisplayName)
	assert.Equal(t, "http://img/a.png", second.AvatarURL)
}

func TestFederatedLoginPlaceholderName(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, u, err := svc.FederatedLogin(ctx, Profile{ProviderID: "g2", Email: "B@X.com", DisplayName: "  "})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", u.DisplayName)
}
