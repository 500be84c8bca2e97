package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials covers both unknown username and wrong password so the
// login response cannot be used to probe for valid usernames.
var ErrBadCredentials = errors.New("invalid credentials")

// Admin is a seeded per-mess staff account. Read-only after seeding.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	MessName     string
	Role         string
	CreatedAt    time.Time
}

// AdminRepository reads and seeds admin accounts in Postgres.
type AdminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a repo.
func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByUsername returns the admin row, or nil when absent.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, mess_name, role, created_at
		FROM admins WHERE username = $1
	`, username)
	var a Admin
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.MessName, &a.Role, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Seed inserts an admin with a freshly hashed password. Plaintext passwords
// are never stored or compared.
func (r *AdminRepository) Seed(ctx context.Context, username, password, messName string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO admins (username, password_hash, mess_name, role)
		VALUES ($1, $2, $3, 'admin')
	`, username, string(hash), messName)
	return err
}

// Login verifies the password against the stored bcrypt hash and returns the
// matching admin.
func (r *AdminRepository) Login(ctx context.Context, username, password string) (*Admin, error) {
	admin, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return admin, nil
}
