package appointments

import "time"

// Status define el ciclo de vida de un turno.
// @Enum scheduled, completed, cancelled, no-show
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// IsValid acepta sólo los cuatro estados del dominio.
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal: de completed/cancelled/no-show no se sale.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// PaymentMethod define cómo paga el cliente.
// @Enum pay_now, pay_later
type PaymentMethod string

const (
	PayNow   PaymentMethod = "pay_now"
	PayLater PaymentMethod = "pay_later"
)

func (p PaymentMethod) IsValid() bool {
	return p == PayNow || p == PayLater
}

// Appointment es un turno reservado. Nunca se borra: cancelar es un
// cambio de estado, y un turno cancelado libera su slot para el conteo
// de disponibilidad.
type Appointment struct {
	ID          string
	OwnerUserID string
	PetID       string
	VetID       string

	// Date es la fecha calendario normalizada a medianoche UTC
	// (la columna es DATE); TimeSlot es un valor del catálogo.
	Date     time.Time
	TimeSlot string

	Reason        string
	PaymentMethod PaymentMethod
	Status        Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
