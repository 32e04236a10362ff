package notify

import (
	"context"
	"time"
)

// AppointmentNotice lleva todo lo que el mail de confirmación necesita,
// ya resuelto (nombres, no IDs). El core no conoce plantillas ni proveedor.
type AppointmentNotice struct {
	ToEmail string
	ToName  string

	PetName    string
	PetSpecies string
	VetName    string

	Date          time.Time
	TimeSlot      string
	Reason        string
	PaymentMethod string
}

// Notifier es best-effort: un error acá nunca anula la reserva,
// el caller sólo lo loguea.
type Notifier interface {
	AppointmentCreated(ctx context.Context, n AppointmentNotice) error
}
