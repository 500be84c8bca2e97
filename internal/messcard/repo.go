package messcard

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Repository persists mess cards in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the card, or nil when absent.
func (r *Repository) Get(ctx context.Context, rollNo string) (*Card, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT roll_no, name, image, mess_name FROM mess_cards WHERE roll_no = $1
	`, rollNo)
	var c Card
	if err := row.Scan(&c.RollNo, &c.Name, &c.Image, &c.MessName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Insert writes a new card. ErrDuplicate on an existing roll number.
func (r *Repository) Insert(ctx context.Context, card Card) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mess_cards (roll_no, name, image, mess_name)
		VALUES ($1,$2,$3,$4)
	`, card.RollNo, card.Name, card.Image, card.MessName)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
