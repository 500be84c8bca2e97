package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Repository persists menus in Postgres. Meal lists are stored as jsonb so
// an entry round-trips as one row without a join.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) get(ctx context.Context, table, mess, day string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT mess, day_of_week, breakfast, lunch, dinner, updated_at
		FROM %s WHERE mess = $1 AND day_of_week = $2
	`, table), mess, day)
	return scanEntry(row)
}

// GetCanonical returns the default weekly entry, or nil when absent.
func (r *Repository) GetCanonical(ctx context.Context, mess, day string) (*Entry, error) {
	return r.get(ctx, "menus", mess, day)
}

// GetOverride returns the override entry, or nil when absent.
func (r *Repository) GetOverride(ctx context.Context, mess, day string) (*Entry, error) {
	return r.get(ctx, "menu_overrides", mess, day)
}

func (r *Repository) upsert(ctx context.Context, table string, e Entry) error {
	breakfast, lunch, dinner, err := mealsJSON(e)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (mess, day_of_week, breakfast, lunch, dinner, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (mess, day_of_week) DO UPDATE SET
			breakfast = EXCLUDED.breakfast,
			lunch = EXCLUDED.lunch,
			dinner = EXCLUDED.dinner,
			updated_at = EXCLUDED.updated_at
	`, table), e.Mess, e.DayOfWeek, breakfast, lunch, dinner, e.UpdatedAt)
	return err
}

// UpsertCanonical writes the canonical entry, keeping at most one row per
// (mess, day).
func (r *Repository) UpsertCanonical(ctx context.Context, e Entry) error {
	return r.upsert(ctx, "menus", e)
}

// UpsertOverride writes the override entry.
func (r *Repository) UpsertOverride(ctx context.Context, e Entry) error {
	return r.upsert(ctx, "menu_overrides", e)
}

// DeleteOverride removes an override and returns the deleted entry, or nil
// when none existed. Canonical entries are untouched.
func (r *Repository) DeleteOverride(ctx context.Context, mess, day string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		DELETE FROM menu_overrides WHERE mess = $1 AND day_of_week = $2
		RETURNING mess, day_of_week, breakfast, lunch, dinner, updated_at
	`, mess, day)
	return scanEntry(row)
}

// ReplaceWeek clears the mess's canonical menu and writes the new week. The
// two steps are separate statements; a failure between them leaves a partial
// menu the caller can retry over, since every insert is an upsert.
func (r *Repository) ReplaceWeek(ctx context.Context, mess string, entries []Entry) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM menus WHERE mess = $1`, mess); err != nil {
		return err
	}
	for _, e := range entries {
		if err := r.UpsertCanonical(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func mealsJSON(e Entry) ([]byte, []byte, []byte, error) {
	breakfast, err := json.Marshal(e.Breakfast)
	if err != nil {
		return nil, nil, nil, err
	}
	lunch, err := json.Marshal(e.Lunch)
	if err != nil {
		return nil, nil, nil, err
	}
	dinner, err := json.Marshal(e.Dinner)
	if err != nil {
		return nil, nil, nil, err
	}
	return breakfast, lunch, dinner, nil
}

func scanEntry(row *sql.Row) (*Entry, error) {
	var e Entry
	var breakfast, lunch, dinner []byte
	if err := row.Scan(&e.Mess, &e.DayOfWeek, &breakfast, &lunch, &dinner, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	for _, pair := range []struct {
		raw []byte
		out *[]string
	}{{breakfast, &e.Breakfast}, {lunch, &e.Lunch}, {dinner, &e.Dinner}} {
		if err := json.Unmarshal(pair.raw, pair.out); err != nil {
			return nil, err
		}
	}
	return &e, nil
}
