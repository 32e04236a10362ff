package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vet-appointments/internal/domain/appointments"

	"github.com/jackc/pgx/v5/pgconn"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (
			id, owner_user_id, pet_id, vet_id,
			appointment_date, appointment_time,
			reason, payment_method, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		a.ID,
		a.OwnerUserID,
		a.PetID,
		a.VetID,
		a.Date,
		a.TimeSlot,
		a.Reason,
		string(a.PaymentMethod),
		string(a.Status),
		a.CreatedAt,
		a.UpdatedAt,
	)
	return mapSlotConflict(err)
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET
			vet_id = $2,
			appointment_date = $3,
			appointment_time = $4,
			reason = $5,
			status = $6,
			updated_at = $7
		WHERE id = $1
	`,
		a.ID,
		a.VetID,
		a.Date,
		a.TimeSlot,
		a.Reason,
		string(a.Status),
		a.UpdatedAt,
	)
	if err != nil {
		return mapSlotConflict(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id, pet_id, vet_id,
			appointment_date, appointment_time,
			reason, payment_method, status,
			created_at, updated_at
		FROM appointments
		WHERE id = $1
	`, id)

	a, err := scanAppointment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, appointments.ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]appointments.Appointment, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id, pet_id, vet_id,
			appointment_date, appointment_time,
			reason, payment_method, status,
			created_at, updated_at
		FROM appointments
		WHERE owner_user_id = $1
		ORDER BY appointment_date DESC, appointment_time DESC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *AppointmentsRepo) List(ctx context.Context, f appointments.Filter) ([]appointments.Appointment, error) {
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT
			id, owner_user_id, pet_id, vet_id,
			appointment_date, appointment_time,
			reason, payment_method, status,
			created_at, updated_at
		FROM appointments
		WHERE 1=1
	`)

	args := []any{}
	argN := 1

	if f.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(f.Status))
		argN++
	}
	if f.Date != nil {
		sb.WriteString(fmt.Sprintf(" AND appointment_date = $%d", argN))
		args = append(args, *f.Date)
		argN++
	}
	if f.VetID != "" {
		sb.WriteString(fmt.Sprintf(" AND vet_id = $%d", argN))
		args = append(args, f.VetID)
		argN++
	}

	sb.WriteString(" ORDER BY appointment_date DESC, appointment_time DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *AppointmentsRepo) BookedVetIDs(ctx context.Context, date time.Time, slot string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT vet_id
		FROM appointments
		WHERE appointment_date = $1
		  AND appointment_time = $2
		  AND status <> 'cancelled'
	`, date, slot)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}

	return out, rows.Err()
}

func (r *AppointmentsRepo) CountBookedBySlot(ctx context.Context, date time.Time) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT appointment_time, COUNT(*)
		FROM appointments
		WHERE appointment_date = $1
		  AND status <> 'cancelled'
		GROUP BY appointment_time
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var slot string
		var n int
		if err := rows.Scan(&slot, &n); err != nil {
			return nil, err
		}
		out[slot] = n
	}

	return out, rows.Err()
}

func (r *AppointmentsRepo) CountByVet(ctx context.Context, vetID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM appointments
		WHERE vet_id = $1
	`, vetID).Scan(&n)
	return n, err
}

func (r *AppointmentsRepo) Stats(ctx context.Context, today time.Time) (appointments.Stats, error) {
	var st appointments.Stats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'scheduled' AND appointment_date = $1),
			COUNT(*) FILTER (WHERE status = 'scheduled'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE status = 'no-show')
		FROM appointments
	`, today).Scan(
		&st.Today,
		&st.Scheduled,
		&st.Completed,
		&st.Cancelled,
		&st.NoShows,
	)
	return st, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var payment, status string
	if err := row.Scan(
		&a.ID,
		&a.OwnerUserID,
		&a.PetID,
		&a.VetID,
		&a.Date,
		&a.TimeSlot,
		&a.Reason,
		&payment,
		&status,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return appointments.Appointment{}, err
	}

	a.PaymentMethod = appointments.PaymentMethod(payment)
	a.Status = appointments.Status(status)
	// appointment_date es DATE, pgx lo mapea a time.Time midnight UTC
	return a, nil
}

func collectAppointments(rows *sql.Rows) ([]appointments.Appointment, error) {
	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// mapSlotConflict traduce la violación del índice único parcial
// (vet_id, appointment_date, appointment_time) WHERE status <> 'cancelled'
// al error de dominio. Es el punto donde dos reservas concurrentes del
// mismo slot se resuelven: una gana, la otra recibe ErrSlotTaken.
func mapSlotConflict(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return appointments.ErrSlotTaken
	}
	return err
}
