package authz

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	apperrors "github.com/smartclinic/booking-api/pkg/errors"
	"github.com/smartclinic/booking-api/pkg/token"

	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
)

const (
	directoryCacheTTL     = 30 * time.Second
	directoryCacheCleanup = 5 * time.Minute
)

// Service is the authorization gate: it verifies a bearer token and
// resolves the bound identifier against the role-scoped identity
// directory. The check is purely presence-based; a token stays valid
// until its identity is deleted or the token expires.
type Service struct {
	tokens   *token.Service
	admins   repository.AdminRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	cache    *gocache.Cache
}

func NewService(tokens *token.Service, admins repository.AdminRepository,
	doctors repository.DoctorRepository, patients repository.PatientRepository) *Service {
	return &Service{
		tokens:   tokens,
		admins:   admins,
		doctors:  doctors,
		patients: patients,
		cache:    gocache.New(directoryCacheTTL, directoryCacheCleanup),
	}
}

// Authorize admits the caller under the expected role, or returns a
// typed denial: ErrInvalidToken when the token fails verification,
// ErrUnknownIdentity when the identifier no longer exists for the role.
// Directory lookups are cached for directoryCacheTTL, so a deleted
// identity may keep a stale admit for up to that window.
func (s *Service) Authorize(ctx context.Context, rawToken string, role model.Role) (*model.Identity, error) {
	identifier, err := s.tokens.IdentifierOf(rawToken)
	if err != nil {
		return nil, apperrors.InvalidToken(err)
	}

	cacheKey := role.String() + ":" + identifier
	if id, found := s.cache.Get(cacheKey); found {
		return &model.Identity{Role: role, ID: id.(string), Identifier: identifier}, nil
	}

	id, err := s.resolve(ctx, identifier, role)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, id, gocache.DefaultExpiration)
	return &model.Identity{Role: role, ID: id, Identifier: identifier}, nil
}

func (s *Service) resolve(ctx context.Context, identifier string, role model.Role) (string, error) {
	var (
		id  string
		err error
	)

	switch role {
	case model.RoleAdmin:
		var admin *model.Admin
		admin, err = s.admins.GetByUsername(ctx, identifier)
		if err == nil {
			id = admin.ID.String()
		}
	case model.RoleDoctor:
		var doctor *model.Doctor
		doctor, err = s.doctors.GetByEmail(ctx, identifier)
		if err == nil {
			id = doctor.ID.String()
		}
	case model.RolePatient:
		var patient *model.Patient
		patient, err = s.patients.GetByEmail(ctx, identifier)
		if err == nil {
			id = patient.ID.String()
		}
	default:
		return "", apperrors.UnknownIdentity(identifier)
	}

	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return "", apperrors.UnknownIdentity(identifier)
		}
		return "", apperrors.Storage(err)
	}
	return id, nil
}
