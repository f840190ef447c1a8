package auth

import (
	"context"
	"errors"

	apperrors "github.com/smartclinic/booking-api/pkg/errors"
	"github.com/smartclinic/booking-api/pkg/security"
	"github.com/smartclinic/booking-api/pkg/token"

	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
)

// Service validates credentials per role and issues bearer tokens
// bound to the role's identifier: username for admins, email for
// doctors and patients.
type Service struct {
	tokens   *token.Service
	admins   repository.AdminRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	hasher   security.PasswordHasher
}

func NewService(tokens *token.Service, admins repository.AdminRepository,
	doctors repository.DoctorRepository, patients repository.PatientRepository,
	hasher security.PasswordHasher) *Service {
	return &Service{
		tokens:   tokens,
		admins:   admins,
		doctors:  doctors,
		patients: patients,
		hasher:   hasher,
	}
}

func (s *Service) Login(ctx context.Context, role model.Role, identifier, password string) (*model.TokenResponse, error) {
	var hash string

	switch role {
	case model.RoleAdmin:
		admin, err := s.admins.GetByUsername(ctx, identifier)
		if err != nil {
			return nil, loginErr(err)
		}
		hash = admin.PasswordHash
	case model.RoleDoctor:
		doctor, err := s.doctors.GetByEmail(ctx, identifier)
		if err != nil {
			return nil, loginErr(err)
		}
		hash = doctor.PasswordHash
	case model.RolePatient:
		patient, err := s.patients.GetByEmail(ctx, identifier)
		if err != nil {
			return nil, loginErr(err)
		}
		hash = patient.PasswordHash
	default:
		return nil, apperrors.Unauthorized(nil)
	}

	if err := s.hasher.Compare(hash, password); err != nil {
		return nil, apperrors.Unauthorized(nil)
	}

	tok, err := s.tokens.Issue(identifier)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{Token: tok}, nil
}

// loginErr collapses a missing identity and a storage failure into the
// right error kinds without leaking which identifiers exist.
func loginErr(err error) error {
	if errors.Is(err, repository.ErrNoRows) {
		return apperrors.Unauthorized(nil)
	}
	return apperrors.Storage(err)
}
