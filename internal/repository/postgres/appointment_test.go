package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func appointmentRows(appt *model.Appointment) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "doctor_id", "patient_id", "appointment_time", "status",
		"created_at", "updated_at", "patient_name",
	}).AddRow(
		appt.ID, appt.DoctorID, appt.PatientID, appt.AppointmentTime,
		appt.Status, appt.CreatedAt, appt.UpdatedAt, appt.PatientName,
	)
}

func testAppointment() *model.Appointment {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	return &model.Appointment{
		ID:              uuid.New(),
		DoctorID:        uuid.New(),
		PatientID:       uuid.New(),
		PatientName:     "Alice",
		AppointmentTime: time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC),
		Status:          model.AppointmentStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestAppointmentCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	appt := testAppointment()

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(appt.ID, appt.DoctorID, appt.PatientID, appt.AppointmentTime,
			appt.Status, appt.CreatedAt, appt.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), appt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreateTakenSlot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	appt := testAppointment()

	mock.ExpectExec("INSERT INTO appointments").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "appointments_doctor_slot_key"})

	err := repo.Create(context.Background(), appt)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentGet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	appt := testAppointment()

	mock.ExpectQuery("SELECT (.+) FROM appointments a").
		WithArgs(appt.ID).
		WillReturnRows(appointmentRows(appt))

	got, err := repo.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, got.ID)
	assert.Equal(t, "Alice", got.PatientName)
	assert.Equal(t, model.AppointmentStatusScheduled, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM appointments a").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentGetForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	appt := testAppointment()

	mock.ExpectQuery("SELECT (.+) FOR UPDATE OF a").
		WithArgs(appt.ID).
		WillReturnRows(appointmentRows(appt))

	got, err := repo.GetForUpdate(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentUpdateMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	appt := testAppointment()

	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), appt)
	assert.ErrorIs(t, err, repository.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM appointments WHERE id").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentFindByDoctorAndDateRange(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	appt := testAppointment()
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 23, 59, 59, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM appointments a").
		WithArgs(appt.DoctorID, start, end).
		WillReturnRows(appointmentRows(appt))

	appts, err := repo.FindByDoctorAndDateRange(context.Background(), appt.DoctorID, start, end)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, appt.ID, appts[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxCommit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)
	appt := testAppointment()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FOR UPDATE OF a").
		WithArgs(appt.ID).
		WillReturnRows(appointmentRows(appt))
	mock.ExpectExec("UPDATE appointments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.WithTx(context.Background(), func(tx repository.AppointmentRepository) error {
		locked, err := tx.GetForUpdate(context.Background(), appt.ID)
		if err != nil {
			return err
		}
		locked.Status = model.AppointmentStatusCompleted
		return tx.Update(context.Background(), locked)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollback(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("ownership check failed")
	err := repo.WithTx(context.Background(), func(repository.AppointmentRepository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
