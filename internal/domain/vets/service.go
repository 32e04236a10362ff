package vets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("veterinarian not found")

	// ErrHasAppointments: no se borra un vet con turnos asociados
	// (históricos incluidos); se lo marca unavailable.
	ErrHasAppointments = errors.New("veterinarian has appointments")
)

// AppointmentCounter informa cuántos turnos referencian a un veterinario.
// Interface chica para no acoplar vets -> appointments.
type AppointmentCounter interface {
	CountByVet(ctx context.Context, vetID string) (int, error)
}

type Service struct {
	repo         Repository
	appointments AppointmentCounter
	now          func() time.Time
}

func NewService(repo Repository, appointments AppointmentCounter) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		now:          time.Now,
	}
}

type CreateInput struct {
	Name           string
	Specialization string
	Available      *bool // nil = true por default
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Veterinarian, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Veterinarian{}, ErrInvalidInput
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}

	now := s.now()
	v := Veterinarian{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.Name),
		Specialization: strings.TrimSpace(in.Specialization),
		Available:      available,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return Veterinarian{}, err
	}
	return v, nil
}

type UpdateInput struct {
	// Punteros: nil = no tocar.
	Name           *string
	Specialization *string
	Available      *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Veterinarian, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Veterinarian{}, ErrNotFound
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Veterinarian{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Veterinarian{}, ErrInvalidInput
		}
		v.Name = name
	}
	if in.Specialization != nil {
		v.Specialization = strings.TrimSpace(*in.Specialization)
	}
	if in.Available != nil {
		v.Available = *in.Available
	}
	v.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, v); err != nil {
		return Veterinarian{}, err
	}
	return v, nil
}

// ToggleAvailability invierte el flag y devuelve el estado nuevo.
func (s *Service) ToggleAvailability(ctx context.Context, id string) (Veterinarian, error) {
	v, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Veterinarian{}, err
	}

	v.Available = !v.Available
	v.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, v); err != nil {
		return Veterinarian{}, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	n, err := s.appointments.CountByVet(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrHasAppointments
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id string) (Veterinarian, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListAll(ctx context.Context) ([]Veterinarian, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) ListAvailable(ctx context.Context) ([]Veterinarian, error) {
	return s.repo.ListAvailable(ctx)
}
