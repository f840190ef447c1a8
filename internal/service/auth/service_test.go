package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/smartclinic/booking-api/pkg/errors"
	"github.com/smartclinic/booking-api/pkg/security"
	"github.com/smartclinic/booking-api/pkg/token"

	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
)

type stubAdminRepo struct {
	admin *model.Admin
}

func (r *stubAdminRepo) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	if r.admin != nil && r.admin.Username == username {
		return r.admin, nil
	}
	return nil, repository.ErrNoRows
}

type stubDoctorRepo struct {
	doctor *model.Doctor
}

func (r *stubDoctorRepo) Create(context.Context, *model.Doctor) error { return nil }
func (r *stubDoctorRepo) Update(context.Context, *model.Doctor) error { return nil }
func (r *stubDoctorRepo) Delete(context.Context, uuid.UUID) error     { return nil }

func (r *stubDoctorRepo) Get(context.Context, uuid.UUID) (*model.Doctor, error) {
	return nil, repository.ErrNoRows
}

func (r *stubDoctorRepo) GetByEmail(_ context.Context, email string) (*model.Doctor, error) {
	if r.doctor != nil && r.doctor.Email == email {
		return r.doctor, nil
	}
	return nil, repository.ErrNoRows
}

func (r *stubDoctorRepo) Exists(context.Context, uuid.UUID) (bool, error) { return false, nil }

func (r *stubDoctorRepo) List(context.Context, *model.DoctorFilter) ([]*model.Doctor, error) {
	return nil, nil
}

type stubPatientRepo struct {
	patient *model.Patient
}

func (r *stubPatientRepo) Create(context.Context, *model.Patient) error { return nil }

func (r *stubPatientRepo) Get(context.Context, uuid.UUID) (*model.Patient, error) {
	return nil, repository.ErrNoRows
}

func (r *stubPatientRepo) GetByEmail(_ context.Context, email string) (*model.Patient, error) {
	if r.patient != nil && r.patient.Email == email {
		return r.patient, nil
	}
	return nil, repository.ErrNoRows
}

func (r *stubPatientRepo) GetByEmailOrPhone(ctx context.Context, email, _ string) (*model.Patient, error) {
	return r.GetByEmail(ctx, email)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newLoginService(t *testing.T) *Service {
	t.Helper()

	tokens := token.NewService("test-secret", time.Hour)
	admins := &stubAdminRepo{admin: &model.Admin{
		ID: uuid.New(), Username: "root", PasswordHash: mustHash(t, "admin-pass"),
	}}
	doctors := &stubDoctorRepo{doctor: &model.Doctor{
		ID: uuid.New(), Email: "gregory@example.com", PasswordHash: mustHash(t, "doctor-pass"),
	}}
	patients := &stubPatientRepo{patient: &model.Patient{
		ID: uuid.New(), Email: "alice@example.com", PasswordHash: mustHash(t, "patient-pass"),
	}}
	return NewService(tokens, admins, doctors, patients, security.NewBcryptHasher(bcrypt.MinCost))
}

func TestLogin(t *testing.T) {
	svc := newLoginService(t)

	cases := []struct {
		name       string
		role       model.Role
		identifier string
		password   string
	}{
		{"admin by username", model.RoleAdmin, "root", "admin-pass"},
		{"doctor by email", model.RoleDoctor, "gregory@example.com", "doctor-pass"},
		{"patient by email", model.RolePatient, "alice@example.com", "patient-pass"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), tc.role, tc.identifier, tc.password)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Token)
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newLoginService(t)

	_, err := svc.Login(context.Background(), model.RolePatient, "alice@example.com", "nope")
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
}

func TestLoginUnknownIdentifier(t *testing.T) {
	svc := newLoginService(t)

	_, err := svc.Login(context.Background(), model.RolePatient, "ghost@example.com", "patient-pass")
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
}

func TestLoginRoleScoped(t *testing.T) {
	svc := newLoginService(t)

	// valid patient credentials do not authenticate under the doctor role
	_, err := svc.Login(context.Background(), model.RoleDoctor, "alice@example.com", "patient-pass")
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
}
