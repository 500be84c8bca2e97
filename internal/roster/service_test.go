package roster

import (
	"context"
	"testing"
)

type fakeStore struct {
	students map[string]*Student
}

func newFakeStore() *fakeStore {
	return &fakeStore{students: map[string]*Student{}}
}

func (f *fakeStore) Insert(_ context.Context, s Student) error {
	if _, ok := f.students[s.RollNo]; ok {
		return ErrDuplicate
	}
	cp := s
	f.students[s.RollNo] = &cp
	return nil
}

func (f *fakeStore) GetByRoll(_ context.Context, rollNo string) (*Student, error) {
	s, ok := f.students[rollNo]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) Count(_ context.Context) (int, error) {
	return len(f.students), nil
}

func (f *fakeStore) DeleteByMess(_ context.Context, mess string) (int64, error) {
	var n int64
	for roll, s := range f.students {
		if s.Mess == mess {
			delete(f.students, roll)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) SetPhoto(_ context.Context, rollNo, photoURL string) (bool, error) {
	s, ok := f.students[rollNo]
	if !ok {
		return false, nil
	}
	s.HasUploadedPhoto = true
	s.PhotoURL = photoURL
	return true, nil
}

func (f *fakeStore) ActivateTokens(_ context.Context, mess string) (int64, error) {
	var n int64
	for _, s := range f.students {
		if s.Mess == mess {
			s.Token = TokenState{Active: true, Redeemed: false}
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) RedeemToken(_ context.Context, rollNo string) (bool, error) {
	s, ok := f.students[rollNo]
	if !ok || !s.Token.Active {
		return false, nil
	}
	s.Token = TokenState{Active: false, Redeemed: true}
	return true, nil
}

func (f *fakeStore) checkInvariant(t *testing.T) {
	t.Helper()
	for roll, s := range f.students {
		if s.Token.Active && s.Token.Redeemed {
			t.Fatalf("student %s has both token flags set", roll)
		}
	}
}

func seed(t *testing.T, store *fakeStore, rows ...Row) {
	t.Helper()
	svc := NewService(store)
	res, err := svc.Import(context.Background(), rows)
	if err != nil {
		t.Fatalf("seed import: %v", err)
	}
	if res.Count != len(rows) {
		t.Fatalf("seed committed %d of %d rows", res.Count, len(rows))
	}
}

func TestImportPartialSuccess(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	seed(t, store, Row{RollNo: "CS21B002", Name: "Existing", Mess: "MessA"})

	res, err := svc.Import(ctx, []Row{
		{RollNo: "CS21B001", Name: "Asha", Mess: "MessA"},
		{RollNo: "CS21B002", Name: "Duplicate", Mess: "MessA"},
		{RollNo: "CS21B003", Name: "Binod", Mess: "MessA"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Count != 2 {
		t.Fatalf("count = %d, want 2", res.Count)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "CS21B002" {
		t.Fatalf("skipped = %v, want [CS21B002]", res.Skipped)
	}
	// the pre-existing record is untouched
	st, _ := svc.Profile(ctx, "CS21B002")
	if st.Name != "Existing" {
		t.Fatalf("duplicate overwrote existing record: %+v", st)
	}
}

func TestImportInitializesTokenInactive(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	seed(t, store, Row{RollNo: "cs21b010", Mess: "MessA"})

	st, err := svc.Profile(ctx, "CS21B010")
	if err != nil {
		t.Fatalf("profile (roll should be uppercased on import): %v", err)
	}
	if st.Token.Active || st.Token.Redeemed {
		t.Fatalf("token state = %+v, want inactive", st.Token)
	}
	if st.HasUploadedPhoto || st.PhotoURL != "" {
		t.Fatalf("photo state should be unset: %+v", st)
	}
}

func TestRedeemAllIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	seed(t, store,
		Row{RollNo: "CS21B001", Mess: "MessA"},
		Row{RollNo: "CS21B002", Mess: "MessA"},
	)

	first, err := svc.RedeemAll(ctx, "MessA")
	if err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	second, err := svc.RedeemAll(ctx, "MessA")
	if err != nil {
		t.Fatalf("second redeem: %v", err)
	}
	if first != 2 || second != 2 {
		t.Fatalf("counts = %d, %d, want 2, 2", first, second)
	}
	for _, roll := range []string{"CS21B001", "CS21B002"} {
		st, _ := svc.Profile(ctx, roll)
		if !st.Token.Active || st.Token.Redeemed {
			t.Fatalf("%s token = %+v, want active", roll, st.Token)
		}
	}
	store.checkInvariant(t)
}

func TestRedeemAllScopedAndEmpty(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	seed(t, store, Row{RollNo: "CS21B001", Mess: "MessB"})

	if _, err := svc.RedeemAll(ctx, "MessA"); err != ErrNoStudents {
		t.Fatalf("empty mess err = %v, want ErrNoStudents", err)
	}
	st, _ := svc.Profile(ctx, "CS21B001")
	if st.Token.Active {
		t.Fatalf("other mess mutated: %+v", st.Token)
	}
}

func TestSyncTokenMonotone(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	seed(t, store, Row{RollNo: "CS21B001", Mess: "MessA"})

	// inactive: sync is a no-op that still succeeds
	state, err := svc.SyncToken(ctx, "CS21B001")
	if err != nil {
		t.Fatalf("sync inactive: %v", err)
	}
	if state.Active || state.Redeemed {
		t.Fatalf("state = %+v, want inactive", state)
	}

	if _, err := svc.RedeemAll(ctx, "MessA"); err != nil {
		t.Fatalf("redeem all: %v", err)
	}

	// active -> redeemed
	state, err = svc.SyncToken(ctx, "CS21B001")
	if err != nil {
		t.Fatalf("sync active: %v", err)
	}
	if state.Active || !state.Redeemed {
		t.Fatalf("state = %+v, want redeemed", state)
	}
	store.checkInvariant(t)

	// redeemed is terminal until the next admin cycle
	state, err = svc.SyncToken(ctx, "CS21B001")
	if err != nil {
		t.Fatalf("sync redeemed: %v", err)
	}
	if state.Active || !state.Redeemed {
		t.Fatalf("state = %+v, want still redeemed", state)
	}

	// next admin cycle re-activates
	if _, err := svc.RedeemAll(ctx, "MessA"); err != nil {
		t.Fatalf("re-redeem: %v", err)
	}
	st, _ := svc.Profile(ctx, "CS21B001")
	if !st.Token.Active || st.Token.Redeemed {
		t.Fatalf("token = %+v, want active after new cycle", st.Token)
	}
	store.checkInvariant(t)
}

func TestSyncTokenUnknownStudent(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.SyncToken(context.Background(), "NOPE"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClearMessScoped(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	seed(t, store,
		Row{RollNo: "CS21B001", Mess: "MessA"},
		Row{RollNo: "CS21B002", Mess: "MessA"},
		Row{RollNo: "CS21B003", Mess: "MessB"},
	)

	deleted, err := svc.ClearMess(ctx, "MessA")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}
	if _, err := svc.Profile(ctx, "CS21B003"); err != nil {
		t.Fatalf("MessB student deleted: %v", err)
	}

	// clearing again is a valid zero-count result
	deleted, err = svc.ClearMess(ctx, "MessA")
	if err != nil || deleted != 0 {
		t.Fatalf("second clear = %d, %v, want 0, nil", deleted, err)
	}
}

func TestSetPhoto(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	seed(t, store, Row{RollNo: "CS21B001", Mess: "MessA"})

	st, err := svc.SetPhoto(ctx, "CS21B001", "https://cdn.example/p.jpg")
	if err != nil {
		t.Fatalf("set photo: %v", err)
	}
	if !st.HasUploadedPhoto || st.PhotoURL != "https://cdn.example/p.jpg" {
		t.Fatalf("photo state = %+v", st)
	}

	if _, err := svc.SetPhoto(ctx, "NOPE", "x"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInitialized(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewService(store)

	ok, err := svc.Initialized(ctx)
	if err != nil || ok {
		t.Fatalf("initialized = %v, %v, want false", ok, err)
	}
	seed(t, store, Row{RollNo: "CS21B001", Mess: "MessA"})
	ok, err = svc.Initialized(ctx)
	if err != nil || !ok {
		t.Fatalf("initialized = %v, %v, want true", ok, err)
	}
}
