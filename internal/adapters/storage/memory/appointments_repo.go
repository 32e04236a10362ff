package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"vet-appointments/internal/domain/appointments"
)

type appointmentRepo struct {
	mu   sync.Mutex
	byID map[string]appointments.Appointment

	// slotIndex replica el índice único parcial de Postgres:
	// (vet, fecha, slot) -> id del turno no-cancelado que lo ocupa.
	// Así dev y tests ven la misma semántica de conflicto que prod.
	slotIndex map[string]string
}

func NewAppointmentRepo() appointments.Repository {
	return &appointmentRepo{
		byID:      make(map[string]appointments.Appointment),
		slotIndex: make(map[string]string),
	}
}

func slotKey(vetID string, date time.Time, slot string) string {
	return fmt.Sprintf("%s|%s|%s", vetID, date.Format("2006-01-02"), slot)
}

func (r *appointmentRepo) Create(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("appointment id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("appointment already exists")
	}

	if a.Status != appointments.StatusCancelled {
		key := slotKey(a.VetID, a.Date, a.TimeSlot)
		if _, taken := r.slotIndex[key]; taken {
			return appointments.ErrSlotTaken
		}
		r.slotIndex[key] = a.ID
	}

	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) Update(ctx context.Context, a appointments.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.byID[a.ID]
	if !exists {
		return appointments.ErrNotFound
	}

	oldKey := slotKey(prev.VetID, prev.Date, prev.TimeSlot)
	newKey := slotKey(a.VetID, a.Date, a.TimeSlot)

	if a.Status != appointments.StatusCancelled {
		if owner, taken := r.slotIndex[newKey]; taken && owner != a.ID {
			return appointments.ErrSlotTaken
		}
	}

	if r.slotIndex[oldKey] == a.ID {
		delete(r.slotIndex, oldKey)
	}
	if a.Status != appointments.StatusCancelled {
		r.slotIndex[newKey] = a.ID
	}

	r.byID[a.ID] = a
	return nil
}

func (r *appointmentRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, nil
}

func (r *appointmentRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if a.OwnerUserID == ownerUserID {
			out = append(out, a)
		}
	}
	sortByDateDesc(out)
	return out, nil
}

func (r *appointmentRepo) List(ctx context.Context, f appointments.Filter) ([]appointments.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]appointments.Appointment, 0)
	for _, a := range r.byID {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Date != nil && !a.Date.Equal(*f.Date) {
			continue
		}
		if f.VetID != "" && a.VetID != f.VetID {
			continue
		}
		out = append(out, a)
	}
	sortByDateDesc(out)
	return out, nil
}

func (r *appointmentRepo) BookedVetIDs(ctx context.Context, date time.Time, slot string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0)
	for _, a := range r.byID {
		if a.Status == appointments.StatusCancelled {
			continue
		}
		if a.Date.Equal(date) && a.TimeSlot == slot {
			out = append(out, a.VetID)
		}
	}
	return out, nil
}

func (r *appointmentRepo) CountBookedBySlot(ctx context.Context, date time.Time) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int)
	for _, a := range r.byID {
		if a.Status == appointments.StatusCancelled {
			continue
		}
		if a.Date.Equal(date) {
			out[a.TimeSlot]++
		}
	}
	return out, nil
}

func (r *appointmentRepo) CountByVet(ctx context.Context, vetID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, a := range r.byID {
		if a.VetID == vetID {
			n++
		}
	}
	return n, nil
}

func (r *appointmentRepo) Stats(ctx context.Context, today time.Time) (appointments.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var st appointments.Stats
	for _, a := range r.byID {
		switch a.Status {
		case appointments.StatusScheduled:
			st.Scheduled++
			if a.Date.Equal(today) {
				st.Today++
			}
		case appointments.StatusCompleted:
			st.Completed++
		case appointments.StatusCancelled:
			st.Cancelled++
		case appointments.StatusNoShow:
			st.NoShows++
		}
	}
	return st, nil
}

func sortByDateDesc(items []appointments.Appointment) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.After(items[j].Date)
		}
		return items[i].TimeSlot > items[j].TimeSlot
	})
}
