package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pg "vet-appointments/internal/adapters/storage/postgres"
	"vet-appointments/internal/domain/appointments"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, dbMock
}

func sampleAppointment() appointments.Appointment {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	return appointments.Appointment{
		ID:            "appt-1",
		OwnerUserID:   "owner-1",
		PetID:         "pet-1",
		VetID:         "vet-1",
		Date:          time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		TimeSlot:      "09:00",
		Reason:        "checkup",
		PaymentMethod: appointments.PayLater,
		Status:        appointments.StatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestAppointmentsRepo_Create(t *testing.T) {
	db, dbMock := newMock(t)
	repo := pg.NewAppointmentsRepo(db)
	a := sampleAppointment()

	dbMock.ExpectExec("INSERT INTO appointments").
		WithArgs(a.ID, a.OwnerUserID, a.PetID, a.VetID, a.Date, a.TimeSlot,
			a.Reason, "pay_later", "scheduled", a.CreatedAt, a.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), a))
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAppointmentsRepo_Create_UniqueViolationIsSlotTaken(t *testing.T) {
	db, dbMock := newMock(t)
	repo := pg.NewAppointmentsRepo(db)
	a := sampleAppointment()

	dbMock.ExpectExec("INSERT INTO appointments").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_vet_slot"})

	err := repo.Create(context.Background(), a)
	assert.ErrorIs(t, err, appointments.ErrSlotTaken)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAppointmentsRepo_Update_NotFound(t *testing.T) {
	db, dbMock := newMock(t)
	repo := pg.NewAppointmentsRepo(db)
	a := sampleAppointment()

	dbMock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), a)
	assert.ErrorIs(t, err, appointments.ErrNotFound)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAppointmentsRepo_Update_UniqueViolationIsSlotTaken(t *testing.T) {
	db, dbMock := newMock(t)
	repo := pg.NewAppointmentsRepo(db)
	a := sampleAppointment()

	dbMock.ExpectExec("UPDATE appointments").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Update(context.Background(), a)
	assert.ErrorIs(t, err, appointments.ErrSlotTaken)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAppointmentsRepo_GetByID(t *testing.T) {
	db, dbMock := newMock(t)
	repo := pg.NewAppointmentsRepo(db)
	a := sampleAppointment()

	cols := []string{
		"id", "owner_user_id", "pet_id", "vet_id",
		"appointment_date", "appointment_time",
		"reason", "payment_method", "status",
		"created_at", "updated_at",
	}

	dbMock.ExpectQuery(`(?s)SELECT (.+) FROM appointments`).
		WithArgs(a.ID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			a.ID, a.OwnerUserID, a.PetID, a.VetID,
			a.Date, a.TimeSlot,
			a.Reason, "pay_later", "scheduled",
			a.CreatedAt, a.UpdatedAt,
		))

	got, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)
	require.NoError(t, dbMock.ExpectationsWereMet())

	dbMock.ExpectQuery(`(?s)SELECT (.+) FROM appointments`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, appointments.ErrNotFound)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAppointmentsRepo_List_BuildsFilters(t *testing.T) {
	db, dbMock := newMock(t)
	repo := pg.NewAppointmentsRepo(db)
	a := sampleAppointment()

	cols := []string{
		"id", "owner_user_id", "pet_id", "vet_id",
		"appointment_date", "appointment_time",
		"reason", "payment_method", "status",
		"created_at", "updated_at",
	}

	dbMock.ExpectQuery(`(?s)SELECT (.+) FROM appointments.+WHERE 1=1\s+AND status = \$1 AND appointment_date = \$2 AND vet_id = \$3`).
		WithArgs("scheduled", a.Date, "vet-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			a.ID, a.OwnerUserID, a.PetID, a.VetID,
			a.Date, a.TimeSlot,
			a.Reason, "pay_later", "scheduled",
			a.CreatedAt, a.UpdatedAt,
		))

	got, err := repo.List(context.Background(), appointments.Filter{
		Status: appointments.StatusScheduled,
		Date:   &a.Date,
		VetID:  "vet-1",
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAppointmentsRepo_BookedVetIDs_ExcludesCancelled(t *testing.T) {
	db, dbMock := newMock(t)
	repo := pg.NewAppointmentsRepo(db)
	date := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	dbMock.ExpectQuery(`SELECT vet_id\s+FROM appointments\s+WHERE appointment_date = \$1\s+AND appointment_time = \$2\s+AND status <> 'cancelled'`).
		WithArgs(date, "09:00").
		WillReturnRows(sqlmock.NewRows([]string{"vet_id"}).AddRow("vet-1").AddRow("vet-2"))

	ids, err := repo.BookedVetIDs(context.Background(), date, "09:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"vet-1", "vet-2"}, ids)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestAppointmentsRepo_Stats(t *testing.T) {
	db, dbMock := newMock(t)
	repo := pg.NewAppointmentsRepo(db)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	dbMock.ExpectQuery(`(?s)SELECT(.+)FROM appointments`).
		WithArgs(today).
		WillReturnRows(sqlmock.NewRows([]string{"today", "scheduled", "completed", "cancelled", "no_shows"}).
			AddRow(2, 5, 3, 1, 1))

	st, err := repo.Stats(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, appointments.Stats{Today: 2, Scheduled: 5, Completed: 3, Cancelled: 1, NoShows: 1}, st)
	require.NoError(t, dbMock.ExpectationsWereMet())
}
