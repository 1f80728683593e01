// Package auth implements the authentication core: credential checks,
// access/refresh token issuance, refresh token persistence and the
// federated-login resolver. Route handlers depend only on the Service type
// and the sentinel errors below; no store or codec error crosses this
// boundary untranslated.
package auth

import "errors"

var (
	// ErrInvalidCredentials covers both "no such email" and "wrong
	// password". Handlers must present the same message for both so the
	// endpoint cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrFederatedOnlyAccount is returned when a password login is
	// attempted against an account that has no password hash. Unlike
	// ErrInvalidCredentials this is safe to surface distinctly.
	ErrFederatedOnlyAccount = errors.New("account uses federated login")

	// ErrAlreadyExists is returned by Register when the email is taken.
	ErrAlreadyExists = errors.New("user already exists")

	// ErrRefreshExpired means the refresh token's own expiry has passed.
	// The store record is deleted before this is returned.
	ErrRefreshExpired = errors.New("refresh token expired")

	// ErrRefreshInvalid means the refresh token failed signature or
	// structural verification. No store cleanup is attempted since the
	// value may not be a token at all.
	ErrRefreshInvalid = errors.New("refresh token invalid")

	// ErrRefreshNotFound means the refresh token verified correctly but
	// has no store record: it was revoked, logged out, or never issued.
	ErrRefreshNotFound = errors.New("refresh token not found")

	// ErrUserGone means the refresh token's owner no longer exists. The
	// orphaned store record is deleted before this is returned.
	ErrUserGone = errors.New("user no longer exists")

	// ErrMissingEmail is returned by FederatedLogin when the provider
	// profile carries no email. Federation needs an email to dedupe
	// against local accounts; this is a hard precondition.
	ErrMissingEmail = errors.New("federated profile has no email")

	// ErrNotFound is the storage-level sentinel for an absent record.
	// Store implementations translate their driver's not-found condition
	// (e.g. sql.ErrNoRows) into this error.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is the storage-level sentinel for a unique-index
	// violation on create.
	ErrDuplicateKey = errors.New("duplicate key")
)
