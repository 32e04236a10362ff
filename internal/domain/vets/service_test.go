package vets

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test doubles (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Veterinarian
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Veterinarian{}}
}

func (r *testRepo) Create(ctx context.Context, v Veterinarian) error {
	if _, ok := r.byID[v.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *testRepo) Update(ctx context.Context, v Veterinarian) error {
	if _, ok := r.byID[v.ID]; !ok {
		return ErrNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Veterinarian, error) {
	v, ok := r.byID[id]
	if !ok {
		return Veterinarian{}, ErrNotFound
	}
	return v, nil
}

func (r *testRepo) ListAll(ctx context.Context) ([]Veterinarian, error) {
	out := make([]Veterinarian, 0)
	for _, v := range r.byID {
		out = append(out, v)
	}
	return out, nil
}

func (r *testRepo) ListAvailable(ctx context.Context) ([]Veterinarian, error) {
	out := make([]Veterinarian, 0)
	for _, v := range r.byID {
		if v.Available {
			out = append(out, v)
		}
	}
	return out, nil
}

type testCounter struct {
	counts map[string]int
}

func (c *testCounter) CountByVet(ctx context.Context, vetID string) (int, error) {
	return c.counts[vetID], nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultsToAvailable(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testCounter{counts: map[string]int{}})

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	v, err := svc.Create(context.Background(), CreateInput{Name: "  Ana  ", Specialization: "surgery"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !v.Available {
		t.Fatalf("expected available by default")
	}
	if v.Name != "Ana" {
		t.Fatalf("expected trimmed name, got %q", v.Name)
	}
	if v.CreatedAt != now || v.UpdatedAt != now {
		t.Fatalf("expected timestamps from injected clock")
	}

	off := false
	v2, err := svc.Create(context.Background(), CreateInput{Name: "Bruno", Available: &off})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if v2.Available {
		t.Fatalf("expected explicit available=false to stick")
	}
}

func TestService_Create_RequiresName(t *testing.T) {
	svc := NewService(newTestRepo(), &testCounter{counts: map[string]int{}})

	if _, err := svc.Create(context.Background(), CreateInput{Name: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Update_PartialPatch(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testCounter{counts: map[string]int{}})

	v, err := svc.Create(context.Background(), CreateInput{Name: "Ana", Specialization: "surgery"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	spec := "dermatology"
	updated, err := svc.Update(context.Background(), v.ID, UpdateInput{Specialization: &spec})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Name != "Ana" {
		t.Fatalf("patch must not touch name, got %q", updated.Name)
	}
	if updated.Specialization != "dermatology" {
		t.Fatalf("expected specialization updated, got %q", updated.Specialization)
	}

	empty := ""
	if _, err := svc.Update(context.Background(), v.ID, UpdateInput{Name: &empty}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput blanking name, got %v", err)
	}
}

func TestService_ToggleAvailability(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, &testCounter{counts: map[string]int{}})

	v, err := svc.Create(context.Background(), CreateInput{Name: "Ana"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	toggled, err := svc.ToggleAvailability(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("Toggle error: %v", err)
	}
	if toggled.Available {
		t.Fatalf("expected available=false after toggle")
	}

	back, err := svc.ToggleAvailability(context.Background(), v.ID)
	if err != nil {
		t.Fatalf("Toggle error: %v", err)
	}
	if !back.Available {
		t.Fatalf("expected available=true after second toggle")
	}
}

func TestService_Delete_BlockedByAppointments(t *testing.T) {
	repo := newTestRepo()
	counter := &testCounter{counts: map[string]int{}}
	svc := NewService(repo, counter)

	busy, err := svc.Create(context.Background(), CreateInput{Name: "Ana"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	idle, err := svc.Create(context.Background(), CreateInput{Name: "Bruno"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// turnos históricos cuentan igual que futuros
	counter.counts[busy.ID] = 3

	if err := svc.Delete(context.Background(), busy.ID); !errors.Is(err, ErrHasAppointments) {
		t.Fatalf("expected ErrHasAppointments, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), busy.ID); err != nil {
		t.Fatalf("blocked delete must not remove the vet: %v", err)
	}

	if err := svc.Delete(context.Background(), idle.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), idle.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected vet gone, got %v", err)
	}
}
