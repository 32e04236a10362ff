package appointments

import (
	"context"
	"time"
)

// Filter es el filtro de la vista admin. Campos en cero = sin filtrar.
type Filter struct {
	Status Status
	Date   *time.Time
	VetID  string
}

// Stats es el rollup del dashboard admin.
type Stats struct {
	Today     int
	Scheduled int
	Completed int
	Cancelled int
	NoShows   int
}

// Repository persiste turnos. El invariante duro vive acá:
// como máximo un turno no-cancelado por (vet, fecha, slot).
// Create y Update deben devolver ErrSlotTaken cuando la escritura
// viola ese invariante — es la única serialización entre reservas
// concurrentes, no hay locks de aplicación.
type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Update(ctx context.Context, a Appointment) error
	GetByID(ctx context.Context, id string) (Appointment, error)

	// ListByOwner ordena por fecha desc (lo más próximo/reciente primero).
	ListByOwner(ctx context.Context, ownerUserID string) ([]Appointment, error)
	List(ctx context.Context, f Filter) ([]Appointment, error)

	// BookedVetIDs: vets con turno no-cancelado en ese (fecha, slot) exacto.
	BookedVetIDs(ctx context.Context, date time.Time, slot string) ([]string, error)
	// CountBookedBySlot: turnos no-cancelados del día, agrupados por slot.
	CountBookedBySlot(ctx context.Context, date time.Time) (map[string]int, error)

	CountByVet(ctx context.Context, vetID string) (int, error)
	Stats(ctx context.Context, today time.Time) (Stats, error)
}
