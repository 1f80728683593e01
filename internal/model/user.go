package model

import "time"

// Role values stored in users.role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table. Email, phone and federated id are all optional but unique when
// present: an account created through Google login may initially carry no
// phone number, and a federated-only account carries no password hash.
// Every account must keep at least one credential path: a password hash
// or a federated id.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – lowercased, trimmed email address (nullable, unique).
//  Phone        – phone number (nullable, unique).
//  PasswordHash – bcrypt hashed password; empty for federated-only accounts.
//  FederatedID  – identifier asserted by the third-party provider (nullable, unique).
//  DisplayName  – profile name shown to other users.
//  AvatarURL    – profile picture URL.
//  Role         – "user" or "admin".
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64
	Email        string
	Phone        string
	PasswordHash string
	FederatedID  string
	DisplayName  string
	AvatarURL    string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken models a row in the `refresh_tokens` table. The token value
// is the signed refresh JWT stored verbatim so it can be looked up by the
// exact string the client presents. Rows past ExpiresAt are treated as
// absent by the repository and removed by the background sweeper.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owner of the token.
//  TokenValue – the signed refresh token, stored verbatim (unique).
//  IssuedAt   – when the token was issued.
//  ExpiresAt  – when the token stops being valid.
type RefreshToken struct {
	ID         uint64
	UserID     uint64
	TokenValue string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}
