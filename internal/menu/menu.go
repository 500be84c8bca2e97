package menu

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBadDay rejects anything outside the seven canonical weekday names.
	ErrBadDay = errors.New("unknown day of week")
	// ErrBadWeek rejects whole-week payloads that are not one entry per day.
	ErrBadWeek = errors.New("provide 7 days menu")
	// ErrNotFound means no override exists for the requested day.
	ErrNotFound = errors.New("no override found")
)

// Days lists the canonical weekday names, matching time.Weekday strings.
var Days = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ValidDay reports whether day is one of the seven canonical values.
func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Entry is a complete menu record for one (mess, day). Canonical entries and
// overrides share this shape; an override supersedes the canonical record
// wholesale, never field by field.
type Entry struct {
	Mess      string    `json:"messName"`
	DayOfWeek string    `json:"dayOfWeek"`
	Breakfast []string  `json:"breakfast"`
	Lunch     []string  `json:"lunch"`
	Dinner    []string  `json:"dinner"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Update is a partial write: a nil slot means "leave unchanged" (or empty on
// first create).
type Update struct {
	Breakfast *[]string `json:"breakfast"`
	Lunch     *[]string `json:"lunch"`
	Dinner    *[]string `json:"dinner"`
}

// DayUpdate pairs an update with its target day, for whole-week payloads.
type DayUpdate struct {
	DayOfWeek string `json:"dayOfWeek" binding:"required"`
	Update
}

// apply is the pure upsert step: given the existing record (or nil) and a
// partial update, produce the record to store. Omitted slots keep their
// existing values, defaulting to empty lists on create.
func apply(existing *Entry, mess, day string, upd Update, now time.Time) Entry {
	e := Entry{Mess: mess, DayOfWeek: day, Breakfast: []string{}, Lunch: []string{}, Dinner: []string{}}
	if existing != nil {
		e.Breakfast = existing.Breakfast
		e.Lunch = existing.Lunch
		e.Dinner = existing.Dinner
	}
	if upd.Breakfast != nil {
		e.Breakfast = *upd.Breakfast
	}
	if upd.Lunch != nil {
		e.Lunch = *upd.Lunch
	}
	if upd.Dinner != nil {
		e.Dinner = *upd.Dinner
	}
	e.UpdatedAt = now
	return e
}

// placeholder is the empty entry returned when neither an override nor a
// canonical record exists.
func placeholder(mess, day string) Entry {
	return Entry{Mess: mess, DayOfWeek: day, Breakfast: []string{}, Lunch: []string{}, Dinner: []string{}}
}

// Store persists canonical and override entries, both keyed by (mess, day).
type Store interface {
	GetCanonical(ctx context.Context, mess, day string) (*Entry, error)
	GetOverride(ctx context.Context, mess, day string) (*Entry, error)
	UpsertCanonical(ctx context.Context, e Entry) error
	UpsertOverride(ctx context.Context, e Entry) error
	DeleteOverride(ctx context.Context, mess, day string) (*Entry, error)
	ReplaceWeek(ctx context.Context, mess string, entries []Entry) error
}
