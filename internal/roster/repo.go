package roster

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Repository persists roster data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const uniqueViolation = "23505"

// Insert writes a new student. Returns ErrDuplicate when the roll number is
// already on the roster.
func (r *Repository) Insert(ctx context.Context, s Student) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, roll_no, name, email, mess, has_uploaded_photo, photo_url, token_active, token_redeemed, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, s.ID, s.RollNo, s.Name, s.Email, s.Mess, s.HasUploadedPhoto, s.PhotoURL, s.Token.Active, s.Token.Redeemed, s.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// GetByRoll returns the student, or nil when absent.
func (r *Repository) GetByRoll(ctx context.Context, rollNo string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, roll_no, name, email, mess, has_uploaded_photo, photo_url, token_active, token_redeemed, created_at
		FROM students WHERE roll_no = $1
	`, rollNo)
	var s Student
	if err := row.Scan(&s.ID, &s.RollNo, &s.Name, &s.Email, &s.Mess, &s.HasUploadedPhoto, &s.PhotoURL, &s.Token.Active, &s.Token.Redeemed, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Count returns the total roster size across all messes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&n)
	return n, err
}

// DeleteByMess removes every student of one mess and reports how many.
func (r *Repository) DeleteByMess(ctx context.Context, mess string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE mess = $1`, mess)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetPhoto stores the photo reference and marks the student as uploaded.
// Returns false when the roll number is unknown.
func (r *Repository) SetPhoto(ctx context.Context, rollNo, photoURL string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET has_uploaded_photo = TRUE, photo_url = $2 WHERE roll_no = $1
	`, rollNo, photoURL)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ActivateTokens moves every student of the mess to the active token state in
// one statement, so a retry can never leave both flags set. Returns the
// number of students in the mess.
func (r *Repository) ActivateTokens(ctx context.Context, mess string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET token_active = TRUE, token_redeemed = FALSE WHERE mess = $1
	`, mess)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RedeemToken flips active to redeemed. The WHERE clause makes the transition
// conditional: students who are inactive or already redeemed are untouched.
// Returns whether a transition happened.
func (r *Repository) RedeemToken(ctx context.Context, rollNo string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET token_active = FALSE, token_redeemed = TRUE
		WHERE roll_no = $1 AND token_active
	`, rollNo)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
