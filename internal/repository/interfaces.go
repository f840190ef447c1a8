package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/smartclinic/booking-api/internal/model"
)

// ErrDuplicate is returned by Create methods when a uniqueness
// constraint is violated. Concrete repositories translate their
// driver-level errors into it.
var ErrDuplicate = errors.New("duplicate record")

// ErrNoRows is returned when a single-row lookup matches nothing.
var ErrNoRows = errors.New("no rows found")

type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *model.DoctorFilter) ([]*model.Doctor, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	GetByEmailOrPhone(ctx context.Context, email, phone string) (*model.Patient, error)
}

type AppointmentRepository interface {
	// Create inserts a scheduled appointment. A second scheduled
	// appointment for the same (doctor, time) violates the partial
	// unique index and surfaces as a duplicate error.
	Create(ctx context.Context, appt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// GetForUpdate reads the row under a lock that serializes
	// concurrent mutation of the same appointment.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appt *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForDoctor(ctx context.Context, doctorID uuid.UUID) error
	FindByDoctorAndDateRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, start, end time.Time, patientName string) ([]*model.Appointment, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID, status *model.AppointmentStatus, doctorName string) ([]*model.Appointment, error)
	// WithTx runs fn against a repository bound to a single
	// transaction, committing on nil and rolling back on error.
	WithTx(ctx context.Context, fn func(AppointmentRepository) error) error
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *model.Prescription) error
	FindByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*model.Prescription, error)
}
