package prescription

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/smartclinic/booking-api/pkg/errors"

	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
)

// Service stores and retrieves prescriptions. At most one prescription
// exists per appointment.
type Service struct {
	repo         repository.PrescriptionRepository
	appointments repository.AppointmentRepository
}

func NewService(repo repository.PrescriptionRepository,
	appointments repository.AppointmentRepository) *Service {
	return &Service{repo: repo, appointments: appointments}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if _, err := s.appointments.Get(ctx, req.AppointmentID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperrors.NotFound("appointment", nil)
		}
		return nil, apperrors.Storage(err)
	}

	p := &model.Prescription{
		ID:            uuid.New(),
		AppointmentID: req.AppointmentID,
		PatientName:   req.PatientName,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		DoctorNotes:   req.DoctorNotes,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("a prescription already exists for this appointment")
		}
		return nil, apperrors.Storage(err)
	}
	return p, nil
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.FindByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if len(prescriptions) == 0 {
		return nil, apperrors.NotFound("prescription", nil)
	}
	return prescriptions, nil
}
