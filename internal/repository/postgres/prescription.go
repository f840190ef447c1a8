package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
)

const prescriptionColumns = `
	id, appointment_id, patient_name, medication, dosage, doctor_notes, created_at
`

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (` + prescriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	p.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.AppointmentID,
		p.PatientName,
		p.Medication,
		p.Dosage,
		p.DoctorNotes,
		p.CreatedAt,
	)
	if err != nil {
		if err := translateErr(err); err == repository.ErrDuplicate {
			return err
		}
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) FindByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*model.Prescription, error) {
	query := `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions
		WHERE appointment_id = $1
		ORDER BY created_at ASC
	`
	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, appointmentID); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}
