package vets

import "time"

// Veterinarian es el roster de la clínica. El flag Available lo maneja
// un admin a mano y es independiente de cualquier fecha/horario puntual:
// apagado significa "no acepta reservas nuevas", no borra nada.
type Veterinarian struct {
	ID             string
	Name           string
	Specialization string
	Available      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
