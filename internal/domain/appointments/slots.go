package appointments

import "fmt"

// Catálogo fijo de horarios reservables: 24 medias horas desde las 09:00,
// el último turno arranca 20:30 (21:00 queda afuera). No se persiste;
// lo usan tanto la consulta de disponibilidad como la validación del
// horario pedido al reservar.
func Slots() []string {
	out := make([]string, 0, 24)
	for hour := 9; hour < 21; hour++ {
		out = append(out, fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%02d:30", hour))
	}
	return out
}

// IsSlot valida que s sea exactamente un valor del catálogo.
func IsSlot(s string) bool {
	for _, slot := range Slots() {
		if s == slot {
			return true
		}
	}
	return false
}
