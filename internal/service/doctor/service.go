package doctor

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/smartclinic/booking-api/pkg/errors"
	"github.com/smartclinic/booking-api/pkg/logger"
	"github.com/smartclinic/booking-api/pkg/security"

	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
)

// Service manages the doctor directory. Removing a doctor also removes
// every appointment booked with them.
type Service struct {
	repo         repository.DoctorRepository
	appointments repository.AppointmentRepository
	hasher       security.PasswordHasher
	logger       *logger.Logger
}

func NewService(repo repository.DoctorRepository,
	appointments repository.AppointmentRepository,
	hasher security.PasswordHasher, log *logger.Logger) *Service {
	return &Service{repo: repo, appointments: appointments, hasher: hasher, logger: log}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("a doctor with this email already exists")
	} else if !errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.Storage(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	doctor := &model.Doctor{
		ID:             uuid.New(),
		Name:           req.Name,
		Specialty:      req.Specialty,
		Email:          req.Email,
		PasswordHash:   hash,
		Phone:          req.Phone,
		AvailableTimes: req.AvailableTimes,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("a doctor with this email already exists")
		}
		return nil, apperrors.Storage(err)
	}

	s.logger.Info("doctor created", "doctor_id", doctor.ID.String())
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperrors.DoctorNotFound(nil)
		}
		return nil, apperrors.Storage(err)
	}
	return doctor, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Specialty != nil {
		doctor.Specialty = *req.Specialty
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.AvailableTimes != nil {
		doctor.AvailableTimes = req.AvailableTimes
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperrors.DoctorNotFound(nil)
		}
		return nil, apperrors.Storage(err)
	}
	return doctor, nil
}

// Delete removes the doctor and cascades to their appointments.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.appointments.DeleteAllForDoctor(ctx, id); err != nil {
		return apperrors.Storage(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperrors.DoctorNotFound(nil)
		}
		return apperrors.Storage(err)
	}

	s.logger.Info("doctor deleted", "doctor_id", id.String())
	return nil
}

// List returns doctors narrowed by the optional name, specialty and
// AM/PM filters.
func (s *Service) List(ctx context.Context, filter *model.DoctorFilter) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return doctors, nil
}
