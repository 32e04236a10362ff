package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vet-appointments/internal/domain/vets"
)

type vetRepo struct {
	mu   sync.RWMutex
	byID map[string]vets.Veterinarian
}

func NewVetRepo() vets.Repository {
	return &vetRepo{
		byID: make(map[string]vets.Veterinarian),
	}
}

func (r *vetRepo) Create(ctx context.Context, v vets.Veterinarian) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("vet id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("vet already exists")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *vetRepo) Update(ctx context.Context, v vets.Veterinarian) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[v.ID]; !exists {
		return vets.ErrNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *vetRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return vets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *vetRepo) GetByID(ctx context.Context, id string) (vets.Veterinarian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return vets.Veterinarian{}, vets.ErrNotFound
	}
	return v, nil
}

func (r *vetRepo) ListAll(ctx context.Context) ([]vets.Veterinarian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(vets.Veterinarian) bool { return true }), nil
}

func (r *vetRepo) ListAvailable(ctx context.Context) ([]vets.Veterinarian, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.list(func(v vets.Veterinarian) bool { return v.Available }), nil
}

func (r *vetRepo) list(keep func(vets.Veterinarian) bool) []vets.Veterinarian {
	out := make([]vets.Veterinarian, 0, len(r.byID))
	for _, v := range r.byID {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
