package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
)

// appointmentRepository runs against either the pooled connection or a
// transaction handed out by WithTx.
type appointmentRepository struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db, q: db}
}

const appointmentColumns = `
	a.id, a.doctor_id, a.patient_id, a.appointment_time, a.status,
	a.created_at, a.updated_at, p.name AS patient_name
`

func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, appointment_time, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		appt.ID,
		appt.DoctorID,
		appt.PatientID,
		appt.AppointmentTime,
		appt.Status,
		appt.CreatedAt,
		appt.UpdatedAt,
	)
	if err != nil {
		// the partial unique index on (doctor_id, appointment_time)
		// rejects a second scheduled booking for the same slot
		if err := translateErr(err); err == repository.ErrDuplicate {
			return err
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.id = $1
	`
	var appt model.Appointment
	if err := sqlx.GetContext(ctx, r.q, &appt, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &appt, nil
}

func (r *appointmentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	// FOR UPDATE OF a serializes concurrent mutation of the same row;
	// ownership checks then run against committed state
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.id = $1
		FOR UPDATE OF a
	`
	var appt model.Appointment
	if err := sqlx.GetContext(ctx, r.q, &appt, query, id); err != nil {
		return nil, translateErr(err)
	}
	return &appt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_time = $1, status = $2, updated_at = $3
		WHERE id = $4
	`
	appt.UpdatedAt = time.Now()

	result, err := r.q.ExecContext(ctx, query,
		appt.AppointmentTime,
		appt.Status,
		appt.UpdatedAt,
		appt.ID,
	)
	if err != nil {
		if err := translateErr(err); err == repository.ErrDuplicate {
			return err
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNoRows
	}
	return nil
}

func (r *appointmentRepository) DeleteAllForDoctor(ctx context.Context, doctorID uuid.UUID) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM appointments WHERE doctor_id = $1`, doctorID)
	if err != nil {
		return fmt.Errorf("failed to delete doctor appointments: %w", err)
	}
	return nil
}

func (r *appointmentRepository) FindByDoctorAndDateRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.doctor_id = $1
		AND a.appointment_time >= $2
		AND a.appointment_time <= $3
		ORDER BY a.appointment_time ASC
	`
	var appts []*model.Appointment
	if err := sqlx.SelectContext(ctx, r.q, &appts, query, doctorID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appts, nil
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID, start, end time.Time, patientName string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.doctor_id = $1
		AND a.appointment_time >= $2
		AND a.appointment_time <= $3
	`
	args := []interface{}{doctorID, start, end}

	if patientName != "" {
		query += ` AND p.name ILIKE $4`
		args = append(args, "%"+patientName+"%")
	}

	query += ` ORDER BY a.appointment_time ASC`

	var appts []*model.Appointment
	if err := sqlx.SelectContext(ctx, r.q, &appts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appts, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, status *model.AppointmentStatus, doctorName string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN doctors d ON d.id = a.doctor_id
		WHERE a.patient_id = $1
	`
	args := []interface{}{patientID}
	argCount := 2

	if status != nil {
		query += fmt.Sprintf(" AND a.status = $%d", argCount)
		args = append(args, *status)
		argCount++
	}

	if doctorName != "" {
		query += fmt.Sprintf(" AND d.name ILIKE $%d", argCount)
		args = append(args, "%"+doctorName+"%")
	}

	query += ` ORDER BY a.appointment_time ASC`

	var appts []*model.Appointment
	if err := sqlx.SelectContext(ctx, r.q, &appts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appts, nil
}

func (r *appointmentRepository) WithTx(ctx context.Context, fn func(repository.AppointmentRepository) error) error {
	if r.db == nil {
		// already inside a transaction
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&appointmentRepository{q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
