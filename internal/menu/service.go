package menu

import (
	"context"
	"time"

	"github.com/csesnitw/MessApp-server/internal/metrics"
)

// Source names which record answered a resolve call.
const (
	SourceOverride    = "override"
	SourceCanonical   = "canonical"
	SourcePlaceholder = "placeholder"
)

// Service coordinates menu reads and writes on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Resolve returns the effective menu for (mess, day): the override when one
// exists, else the canonical entry, else an empty placeholder. Exactly one of
// the three is returned whole; fields are never merged across records.
func (s *Service) Resolve(ctx context.Context, mess, day string) (Entry, string, error) {
	if !ValidDay(day) {
		return Entry{}, "", ErrBadDay
	}
	if ov, err := s.store.GetOverride(ctx, mess, day); err != nil {
		return Entry{}, "", err
	} else if ov != nil {
		metrics.MenuResolutions.WithLabelValues(mess, SourceOverride).Inc()
		return *ov, SourceOverride, nil
	}
	if can, err := s.store.GetCanonical(ctx, mess, day); err != nil {
		return Entry{}, "", err
	} else if can != nil {
		metrics.MenuResolutions.WithLabelValues(mess, SourceCanonical).Inc()
		return *can, SourceCanonical, nil
	}
	metrics.MenuResolutions.WithLabelValues(mess, SourcePlaceholder).Inc()
	return placeholder(mess, day), SourcePlaceholder, nil
}

// UpsertCanonical applies a partial update to the canonical entry.
func (s *Service) UpsertCanonical(ctx context.Context, mess, day string, upd Update) (Entry, error) {
	return s.upsert(ctx, mess, day, upd, s.store.GetCanonical, s.store.UpsertCanonical)
}

// UpsertOverride applies a partial update to the override entry.
func (s *Service) UpsertOverride(ctx context.Context, mess, day string, upd Update) (Entry, error) {
	return s.upsert(ctx, mess, day, upd, s.store.GetOverride, s.store.UpsertOverride)
}

func (s *Service) upsert(
	ctx context.Context,
	mess, day string,
	upd Update,
	get func(context.Context, string, string) (*Entry, error),
	put func(context.Context, Entry) error,
) (Entry, error) {
	if !ValidDay(day) {
		return Entry{}, ErrBadDay
	}
	existing, err := get(ctx, mess, day)
	if err != nil {
		return Entry{}, err
	}
	e := apply(existing, mess, day, upd, s.now().UTC())
	if err := put(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// DeleteOverride removes the override so resolution falls back to the
// canonical entry. ErrNotFound when no override exists; that is reported,
// not fatal.
func (s *Service) DeleteOverride(ctx context.Context, mess, day string) (Entry, error) {
	if !ValidDay(day) {
		return Entry{}, ErrBadDay
	}
	deleted, err := s.store.DeleteOverride(ctx, mess, day)
	if err != nil {
		return Entry{}, err
	}
	if deleted == nil {
		return Entry{}, ErrNotFound
	}
	return *deleted, nil
}

// SetWeek replaces the mess's whole canonical menu. The payload must carry
// exactly one entry per weekday.
func (s *Service) SetWeek(ctx context.Context, mess string, week []DayUpdate) ([]Entry, error) {
	if err := validateWeek(week); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(week))
	for _, du := range week {
		entries = append(entries, apply(nil, mess, du.DayOfWeek, du.Update, s.now().UTC()))
	}
	if err := s.store.ReplaceWeek(ctx, mess, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// OverrideWeek applies per-day override upserts for a whole week.
func (s *Service) OverrideWeek(ctx context.Context, mess string, week []DayUpdate) ([]Entry, error) {
	if err := validateWeek(week); err != nil {
		return nil, err
	}
	updated := make([]Entry, 0, len(week))
	for _, du := range week {
		e, err := s.UpsertOverride(ctx, mess, du.DayOfWeek, du.Update)
		if err != nil {
			return updated, err
		}
		updated = append(updated, e)
	}
	return updated, nil
}

func validateWeek(week []DayUpdate) error {
	if len(week) != len(Days) {
		return ErrBadWeek
	}
	seen := make(map[string]bool, len(week))
	for _, du := range week {
		if !ValidDay(du.DayOfWeek) {
			return ErrBadDay
		}
		if seen[du.DayOfWeek] {
			return ErrBadWeek
		}
		seen[du.DayOfWeek] = true
	}
	return nil
}
