package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hoanvu/room-rental/internal/auth"
	"github.com/hoanvu/room-rental/internal/model"
)

// UserRepo is the SQL-backed user directory. Email, phone and federated id
// columns are nullable with unique indexes, so accounts missing one of
// them do not collide with each other.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,phone,password_hash,federated_id,display_name,avatar_url,role,created_at,updated_at"

// Create inserts a user and fills in its generated ID. Empty email, phone,
// password hash and federated id are stored as NULL so the sparse unique
// indexes ignore them.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, phone, password_hash, federated_id, display_name, avatar_url, role) VALUES (?,?,?,?,?,?,?)",
		nullable(u.Email), nullable(u.Phone), nullable(u.PasswordHash), nullable(u.FederatedID),
		u.DisplayName, u.AvatarURL, u.Role)
	if err != nil {
		if isDuplicateKey(err) {
			return auth.ErrDuplicateKey
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetByFederatedID fetches a user by the id asserted by the identity provider.
func (r *UserRepo) GetByFederatedID(ctx context.Context, federatedID string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE federated_id=? LIMIT 1", federatedID)
}

// Update persists the mutable fields of an existing user.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email=?, phone=?, password_hash=?, federated_id=?, display_name=?, avatar_url=?, role=? WHERE id=?",
		nullable(u.Email), nullable(u.Phone), nullable(u.PasswordHash), nullable(u.FederatedID),
		u.DisplayName, u.AvatarURL, u.Role, u.ID)
	if err != nil && isDuplicateKey(err) {
		return auth.ErrDuplicateKey
	}
	return err
}

// List returns all users, newest first. Admin-only surface; password
// hashes are dropped at the handler.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Delete removes a user record. Admin operation; the auth core never
// deletes users itself.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return model.User{}, auth.ErrNotFound
	}
	return u, err
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanUser(row rowScanner) (model.User, error) {
	var (
		u                         model.User
		email, phone, hash, fedID sql.NullString
	)
	err := row.Scan(&u.ID, &email, &phone, &hash, &fedID,
		&u.DisplayName, &u.AvatarURL, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Email = email.String
	u.Phone = phone.String
	u.PasswordHash = hash.String
	u.FederatedID = fedID.String
	return u, nil
}

// nullable maps "" to NULL so sparse unique indexes skip the column.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
