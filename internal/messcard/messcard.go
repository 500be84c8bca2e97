package messcard

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no card exists for the roll number.
	ErrNotFound = errors.New("mess card not found")
	// ErrDuplicate means a card already exists for the roll number.
	ErrDuplicate = errors.New("mess card already exists")
)

// Card is the display-only lookup projection served to the card scanner.
// It is written independently of the roster and carries no sync guarantee;
// stale reads are acceptable by contract.
type Card struct {
	RollNo   string `json:"rollNo" binding:"required"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	MessName string `json:"messName"`
}

// Store persists cards.
type Store interface {
	Get(ctx context.Context, rollNo string) (*Card, error)
	Insert(ctx context.Context, card Card) error
}
