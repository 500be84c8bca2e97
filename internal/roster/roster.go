package roster

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound means the roll number has not been imported.
	ErrNotFound = errors.New("student not found")
	// ErrDuplicate means a student with that roll number already exists.
	ErrDuplicate = errors.New("duplicate roll number")
	// ErrNoStudents means a bulk action matched nobody in the mess.
	ErrNoStudents = errors.New("no students in mess")
)

// TokenState is the special-dinner flag pair. The two flags are never both
// true: inactive is {false,false}, active {true,false}, redeemed {false,true}.
type TokenState struct {
	Active   bool `json:"active"`
	Redeemed bool `json:"redeemed"`
}

// Student is one roster record, keyed by institutional roll number.
type Student struct {
	ID               string     `json:"id"`
	RollNo           string     `json:"rollNo"`
	Name             string     `json:"name"`
	Email            string     `json:"email,omitempty"`
	Mess             string     `json:"mess"`
	HasUploadedPhoto bool       `json:"hasUploadedPhoto"`
	PhotoURL         string     `json:"photoUrl"`
	Token            TokenState `json:"specialToken"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// Row is one decoded bulk-import row.
type Row struct {
	RollNo string
	Name   string
	Email  string
	Mess   string
}

// Store persists roster records. Every mutation is a single-statement
// operation so multi-record flows stay retry-safe without transactions.
type Store interface {
	Insert(ctx context.Context, s Student) error
	GetByRoll(ctx context.Context, rollNo string) (*Student, error)
	Count(ctx context.Context) (int, error)
	DeleteByMess(ctx context.Context, mess string) (int64, error)
	SetPhoto(ctx context.Context, rollNo, photoURL string) (bool, error)
	ActivateTokens(ctx context.Context, mess string) (int64, error)
	RedeemToken(ctx context.Context, rollNo string) (bool, error)
}
