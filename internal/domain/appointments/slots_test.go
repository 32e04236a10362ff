package appointments

import "testing"

func TestSlots_CatalogShape(t *testing.T) {
	slots := Slots()

	if len(slots) != 24 {
		t.Fatalf("expected 24 slots, got %d", len(slots))
	}
	if slots[0] != "09:00" {
		t.Fatalf("expected first slot 09:00, got %s", slots[0])
	}
	if slots[len(slots)-1] != "20:30" {
		t.Fatalf("expected last slot 20:30, got %s", slots[len(slots)-1])
	}

	// pares :00/:30 intercalados
	if slots[1] != "09:30" || slots[2] != "10:00" {
		t.Fatalf("expected 09:30, 10:00 after opening, got %s, %s", slots[1], slots[2])
	}
}

func TestIsSlot(t *testing.T) {
	for _, s := range Slots() {
		if !IsSlot(s) {
			t.Fatalf("catalog slot %s not accepted", s)
		}
	}

	for _, s := range []string{"", "08:30", "21:00", "9:00", "09:15", "20:31", "mediodía"} {
		if IsSlot(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}
