package patient

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

type Service struct {
	repo   repository.PatientRepository
	hasher security.PasswordHasher
	logger *logger.Logger
}

func NewService(repo repository.PatientRepository,
	hasher security.PasswordHasher, log *logger.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, logger: log}
}

// Register creates a patient account; email and phone must both be
// unused.
func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	if _, err := s.repo.GetByEmailOrPhone(ctx, req.Email, req.Phone); err == nil {
		return nil, apperrors.Conflict("a patient with this email or phone already exists")
	} else if !errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.Storage(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	patient := &model.Patient{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("a patient with this email or phone already exists")
		}
		return nil, apperrors.Storage(err)
	}

	s.logger.Info("patient registered", "patient_id", patient.ID.String())
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, apperrors.NotFound("patient", nil)
		}
		return nil, apperrors.Storage(err)
	}
	return patient, nil
}
