package roster

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csesnitw/MessApp-server/internal/metrics"
)

// ImportResult reports a bulk import: rows committed plus the roll numbers
// that were skipped for violating the uniqueness invariant.
type ImportResult struct {
	Count   int      `json:"count"`
	Skipped []string `json:"skipped,omitempty"`
}

// Service coordinates roster mutations on top of a Store.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Import inserts one student per row with the token state initialized to
// inactive. Duplicate roll numbers and blank rows are skipped per-row, never
// batch-fatal; a storage failure aborts with already-committed rows standing.
func (s *Service) Import(ctx context.Context, rows []Row) (ImportResult, error) {
	var res ImportResult
	for _, row := range rows {
		rollNo := strings.ToUpper(strings.TrimSpace(row.RollNo))
		if rollNo == "" {
			res.Skipped = append(res.Skipped, "(missing roll no)")
			metrics.RosterRows.WithLabelValues("invalid").Inc()
			continue
		}
		st := Student{
			ID:        uuid.NewString(),
			RollNo:    rollNo,
			Name:      strings.TrimSpace(row.Name),
			Email:     strings.TrimSpace(row.Email),
			Mess:      strings.TrimSpace(row.Mess),
			CreatedAt: time.Now().UTC(),
		}
		err := s.store.Insert(ctx, st)
		switch {
		case err == nil:
			res.Count++
			metrics.RosterRows.WithLabelValues("imported").Inc()
		case err == ErrDuplicate:
			res.Skipped = append(res.Skipped, rollNo)
			metrics.RosterRows.WithLabelValues("skipped").Inc()
		default:
			return res, err
		}
	}
	return res, nil
}

// ClearMess deletes every student of one mess. Zero deletions is a valid
// result, not an error.
func (s *Service) ClearMess(ctx context.Context, mess string) (int64, error) {
	return s.store.DeleteByMess(ctx, mess)
}

// Initialized reports whether any roster has been imported yet.
func (s *Service) Initialized(ctx context.Context) (bool, error) {
	n, err := s.store.Count(ctx)
	return n > 0, err
}

// Profile returns the student for a roll number.
func (s *Service) Profile(ctx context.Context, rollNo string) (*Student, error) {
	st, err := s.store.GetByRoll(ctx, rollNo)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrNotFound
	}
	return st, nil
}

// SetPhoto stores the photo reference and returns the updated student.
func (s *Service) SetPhoto(ctx context.Context, rollNo, photoURL string) (*Student, error) {
	ok, err := s.store.SetPhoto(ctx, rollNo, photoURL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.Profile(ctx, rollNo)
}

// RedeemAll moves every student of the mess to the active token state and
// returns the number of students in the mess. Re-running is a no-op on
// already-active students. An empty mess is reported, nothing is mutated.
func (s *Service) RedeemAll(ctx context.Context, mess string) (int64, error) {
	n, err := s.store.ActivateTokens(ctx, mess)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNoStudents
	}
	metrics.TokenTransitions.WithLabelValues("activate").Add(float64(n))
	return n, nil
}

// SyncToken applies the student-side transition: active becomes redeemed,
// any other state is left alone. The resulting state is returned either way.
func (s *Service) SyncToken(ctx context.Context, rollNo string) (TokenState, error) {
	st, err := s.Profile(ctx, rollNo)
	if err != nil {
		return TokenState{}, err
	}
	moved, err := s.store.RedeemToken(ctx, rollNo)
	if err != nil {
		return TokenState{}, err
	}
	if !moved {
		metrics.TokenTransitions.WithLabelValues("noop").Inc()
		return st.Token, nil
	}
	metrics.TokenTransitions.WithLabelValues("redeem").Inc()
	return TokenState{Active: false, Redeemed: true}, nil
}
