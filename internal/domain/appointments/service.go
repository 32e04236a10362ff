package appointments

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"vet-appointments/internal/domain/pets"
	"vet-appointments/internal/domain/vets"
	"vet-appointments/internal/platform/logger"
	"vet-appointments/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPastDate     = errors.New("appointment must be in the future")
	ErrNotFound     = errors.New("appointment not found")

	// ErrNoVetAvailable: capacidad agotada para ese (fecha, slot).
	ErrNoVetAvailable = errors.New("no veterinarians available for this time slot")

	// ErrSlotTaken: perdimos la carrera contra otra reserva concurrente.
	// El constraint de storage rechazó la escritura; el cliente reintenta.
	ErrSlotTaken = errors.New("slot just became unavailable, please retry")

	// ErrBadTransition: transición de estado no permitida
	// (los estados terminales son finales).
	ErrBadTransition = errors.New("status transition not allowed")
)

// VetDirectory es lo único que el scheduling necesita del roster.
type VetDirectory interface {
	ListAvailable(ctx context.Context) ([]vets.Veterinarian, error)
}

// PetFinder resuelve la mascota para el chequeo de pertenencia y el mail.
type PetFinder interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type Service struct {
	repo     Repository
	vets     VetDirectory
	pets     PetFinder
	notifier notify.Notifier
	log      logger.Logger

	now func() time.Time
	// pick elige entre los candidatos libres. Random a propósito:
	// reparte carga y nadie debe depender de qué vet toca.
	pick func(n int) int
}

func NewService(repo Repository, vetDir VetDirectory, petFinder PetFinder, notifier notify.Notifier, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		vets:     vetDir,
		pets:     petFinder,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		pick:     rand.Intn,
	}
}

// DateOnly normaliza a medianoche UTC. La columna de fecha es DATE,
// así que el conteo del día y la fecha reportada usan exactamente el
// mismo valor; no hay ventana [00:00, 24:00) que pueda correrse un día.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// slotTime compone fecha + slot "HH:MM" en un instante UTC.
func slotTime(date time.Time, slot string) time.Time {
	hhmm, err := time.Parse("15:04", slot)
	if err != nil {
		return time.Time{}
	}
	return date.Add(time.Duration(hhmm.Hour())*time.Hour + time.Duration(hhmm.Minute())*time.Minute)
}

// Owner es la identidad autenticada del que reserva, pasada explícita
// (nada de estado ambiental compartido).
type Owner struct {
	UserID string
	Email  string
	Name   string
}

type BookInput struct {
	PetID         string
	Date          time.Time
	TimeSlot      string
	Reason        string
	PaymentMethod PaymentMethod
}

// Book valida, elige un vet libre y persiste el turno.
// Entre el chequeo de disponibilidad y el insert no hay lock: si dos
// requests concurrentes eligen al mismo vet, el constraint único del
// repo hace perder a uno con ErrSlotTaken y el cliente reintenta.
func (s *Service) Book(ctx context.Context, owner Owner, in BookInput) (Appointment, error) {
	if strings.TrimSpace(owner.UserID) == "" {
		return Appointment{}, ErrInvalidInput
	}
	petID := strings.TrimSpace(in.PetID)
	if petID == "" || in.Date.IsZero() {
		return Appointment{}, ErrInvalidInput
	}
	if !IsSlot(in.TimeSlot) {
		return Appointment{}, ErrInvalidInput
	}
	if !in.PaymentMethod.IsValid() {
		return Appointment{}, ErrInvalidInput
	}

	// Pertenencia: una mascota ajena "no existe" para este usuario.
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil || pet.OwnerUserID != owner.UserID {
		return Appointment{}, ErrNotFound
	}

	date := DateOnly(in.Date)
	if !slotTime(date, in.TimeSlot).After(s.now()) {
		return Appointment{}, ErrPastDate
	}

	vet, err := s.AvailableVetFor(ctx, date, in.TimeSlot)
	if err != nil {
		return Appointment{}, err
	}

	now := s.now()
	a := Appointment{
		ID:            uuid.NewString(),
		OwnerUserID:   owner.UserID,
		PetID:         pet.ID,
		VetID:         vet.ID,
		Date:          date,
		TimeSlot:      in.TimeSlot,
		Reason:        strings.TrimSpace(in.Reason),
		PaymentMethod: in.PaymentMethod,
		Status:        StatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}

	s.notifyCreated(ctx, a, owner, pet, vet)
	return a, nil
}

// AvailableVetFor devuelve un vet con el flag prendido y sin turno
// no-cancelado en ese (fecha, slot). Si hay varios, elige uno al azar.
func (s *Service) AvailableVetFor(ctx context.Context, date time.Time, slot string) (vets.Veterinarian, error) {
	if !IsSlot(slot) {
		return vets.Veterinarian{}, ErrInvalidInput
	}
	date = DateOnly(date)

	available, err := s.vets.ListAvailable(ctx)
	if err != nil {
		return vets.Veterinarian{}, err
	}
	if len(available) == 0 {
		return vets.Veterinarian{}, ErrNoVetAvailable
	}

	bookedIDs, err := s.repo.BookedVetIDs(ctx, date, slot)
	if err != nil {
		return vets.Veterinarian{}, err
	}
	booked := make(map[string]struct{}, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = struct{}{}
	}

	candidates := make([]vets.Veterinarian, 0, len(available))
	for _, v := range available {
		if _, taken := booked[v.ID]; !taken {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return vets.Veterinarian{}, ErrNoVetAvailable
	}

	return candidates[s.pick(len(candidates))], nil
}

// SlotsReport es la respuesta de disponibilidad de un día.
type SlotsReport struct {
	Date           time.Time
	AvailableSlots []string
	Count          int
}

// AvailableSlots filtra el catálogo: un slot sigue abierto mientras
// tenga menos turnos no-cancelados que vets disponibles. Con cero vets
// disponibles ningún slot abre.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time) (SlotsReport, error) {
	if date.IsZero() {
		return SlotsReport{}, ErrInvalidInput
	}
	date = DateOnly(date)

	available, err := s.vets.ListAvailable(ctx)
	if err != nil {
		return SlotsReport{}, err
	}
	capacity := len(available)

	counts, err := s.repo.CountBookedBySlot(ctx, date)
	if err != nil {
		return SlotsReport{}, err
	}

	open := make([]string, 0, 24)
	for _, slot := range Slots() {
		if counts[slot] < capacity {
			open = append(open, slot)
		}
	}

	return SlotsReport{
		Date:           date,
		AvailableSlots: open,
		Count:          len(open),
	}, nil
}

func (s *Service) GetOwn(ctx context.Context, ownerUserID, id string) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil || a.OwnerUserID != ownerUserID {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (s *Service) ListOwn(ctx context.Context, ownerUserID string) ([]Appointment, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

type UpdateInput struct {
	// Punteros: nil = no tocar. Sólo fecha/hora/motivo; el vet asignado
	// y el estado no se tocan por acá.
	Date     *time.Time
	TimeSlot *string
	Reason   *string
}

// UpdateOwn deja al dueño reprogramar mientras el turno siga scheduled.
// Mover fecha/hora puede chocar con otro turno del mismo vet: el
// constraint lo rechaza y se informa igual que al reservar.
func (s *Service) UpdateOwn(ctx context.Context, ownerUserID, id string, in UpdateInput) (Appointment, error) {
	a, err := s.GetOwn(ctx, ownerUserID, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status != StatusScheduled {
		return Appointment{}, ErrBadTransition
	}

	if in.Date != nil {
		if in.Date.IsZero() {
			return Appointment{}, ErrInvalidInput
		}
		a.Date = DateOnly(*in.Date)
	}
	if in.TimeSlot != nil {
		if !IsSlot(*in.TimeSlot) {
			return Appointment{}, ErrInvalidInput
		}
		a.TimeSlot = *in.TimeSlot
	}
	if in.Reason != nil {
		a.Reason = strings.TrimSpace(*in.Reason)
	}

	if in.Date != nil || in.TimeSlot != nil {
		if !slotTime(a.Date, a.TimeSlot).After(s.now()) {
			return Appointment{}, ErrPastDate
		}
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Cancel es la baja del dueño: flip de estado, la fila queda.
// Cancelar dos veces es inocuo; cancelar un turno ya completado o
// no-show no está permitido.
func (s *Service) Cancel(ctx context.Context, ownerUserID, id string) error {
	a, err := s.GetOwn(ctx, ownerUserID, id)
	if err != nil {
		return err
	}

	if a.Status == StatusCancelled {
		return nil
	}
	if a.Status.IsTerminal() {
		return ErrBadTransition
	}

	a.Status = StatusCancelled
	a.UpdatedAt = s.now()
	return s.repo.Update(ctx, a)
}

// SetStatus es la transición admin. Desde scheduled se va a cualquier
// estado del set; los terminales no admiten salida (tampoco volver a
// scheduled). scheduled -> scheduled es un no-op válido.
func (s *Service) SetStatus(ctx context.Context, id string, newStatus Status) (Appointment, error) {
	if !newStatus.IsValid() {
		return Appointment{}, ErrInvalidInput
	}

	a, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Appointment{}, ErrNotFound
	}

	if a.Status.IsTerminal() {
		return Appointment{}, ErrBadTransition
	}
	if a.Status == newStatus {
		return a, nil
	}

	a.Status = newStatus
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) AdminList(ctx context.Context, f Filter) ([]Appointment, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, ErrInvalidInput
	}
	if f.Date != nil {
		d := DateOnly(*f.Date)
		f.Date = &d
	}
	return s.repo.List(ctx, f)
}

func (s *Service) AdminStats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx, DateOnly(s.now()))
}

func (s *Service) notifyCreated(ctx context.Context, a Appointment, owner Owner, pet pets.Pet, vet vets.Veterinarian) {
	if s.notifier == nil || strings.TrimSpace(owner.Email) == "" {
		return
	}

	err := s.notifier.AppointmentCreated(ctx, notify.AppointmentNotice{
		ToEmail:       owner.Email,
		ToName:        owner.Name,
		PetName:       pet.Name,
		PetSpecies:    pet.Species,
		VetName:       vet.Name,
		Date:          a.Date,
		TimeSlot:      a.TimeSlot,
		Reason:        a.Reason,
		PaymentMethod: string(a.PaymentMethod),
	})
	if err != nil && s.log != nil {
		// La reserva ya está persistida; el mail es best-effort.
		s.log.Warn("appointment confirmation email failed", map[string]any{
			"appointment_id": a.ID,
			"error":          err.Error(),
		})
	}
}
