package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name    string
	Species string
	Breed   string
	Sex     string
	Age     *int
	Notes   string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Species) == "" {
		return Pet{}, ErrInvalidInput
	}
	if in.Age != nil && *in.Age < 0 {
		return Pet{}, ErrInvalidInput
	}

	sex := strings.ToLower(strings.TrimSpace(in.Sex))
	if sex == "" {
		sex = SexUnknown
	}
	if sex != SexMale && sex != SexFemale && sex != SexUnknown {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        strings.TrimSpace(in.Name),
		Species:     strings.ToLower(strings.TrimSpace(in.Species)),
		Breed:       strings.TrimSpace(in.Breed),
		Sex:         sex,
		Age:         in.Age,
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name    *string
	Species *string
	Breed   *string
	Sex     *string
	Age     PatchAge
	Notes   *string
}

// PatchAge distingue "age": null (limpiar) de campo ausente (no tocar).
type PatchAge struct {
	Present bool
	Value   *int
}

// Update aplica un PATCH parcial. Sólo el dueño puede editar;
// para cualquier otro usuario la mascota "no existe".
func (s *Service) Update(ctx context.Context, petID, ownerUserID string, in UpdateInput) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(petID))
	if err != nil {
		return Pet{}, ErrNotFound
	}
	if p.OwnerUserID != ownerUserID {
		return Pet{}, ErrNotFound
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Name = name
	}
	if in.Species != nil {
		species := strings.ToLower(strings.TrimSpace(*in.Species))
		if species == "" {
			return Pet{}, ErrInvalidInput
		}
		p.Species = species
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		sex := strings.ToLower(strings.TrimSpace(*in.Sex))
		if sex != SexMale && sex != SexFemale && sex != SexUnknown {
			return Pet{}, ErrInvalidInput
		}
		p.Sex = sex
	}
	if in.Age.Present {
		if in.Age.Value != nil && *in.Age.Value < 0 {
			return Pet{}, ErrInvalidInput
		}
		p.Age = in.Age.Value
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}
