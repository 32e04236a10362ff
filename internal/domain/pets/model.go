package pets

import "time"

// Especies y sexo se guardan como texto normalizado a minúsculas;
// la clínica atiende de todo y un enum cerrado quedaba corto.
const (
	SexMale    = "male"
	SexFemale  = "female"
	SexUnknown = "unknown"
)

// Pet representa una mascota registrada por un dueño.
// Una mascota pertenece a exactamente un usuario; los turnos la
// referencian pero nunca la mutan.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species string
	Breed   string
	Sex     string
	Age     *int // años, opcional

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
