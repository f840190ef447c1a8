package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/smartclinic/booking-api/pkg/errors"

	"github.com/smartclinic/booking-api/internal/config"
	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
)

type stubDoctorRepo struct {
	known map[uuid.UUID]bool
}

func (r *stubDoctorRepo) Create(context.Context, *model.Doctor) error { return nil }
func (r *stubDoctorRepo) Update(context.Context, *model.Doctor) error { return nil }
func (r *stubDoctorRepo) Delete(context.Context, uuid.UUID) error     { return nil }

func (r *stubDoctorRepo) Get(context.Context, uuid.UUID) (*model.Doctor, error) {
	return nil, repository.ErrNoRows
}

func (r *stubDoctorRepo) GetByEmail(context.Context, string) (*model.Doctor, error) {
	return nil, repository.ErrNoRows
}

func (r *stubDoctorRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.known[id], nil
}

func (r *stubDoctorRepo) List(context.Context, *model.DoctorFilter) ([]*model.Doctor, error) {
	return nil, nil
}

// stubAppointmentRepo serves a fixed set of appointments to date-range
// queries; every other method is unreachable from the schedule service.
type stubAppointmentRepo struct {
	repository.AppointmentRepository
	appts []*model.Appointment
}

func (r *stubAppointmentRepo) FindByDoctorAndDateRange(_ context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range r.appts {
		if a.DoctorID == doctorID && !a.AppointmentTime.Before(start) && !a.AppointmentTime.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

var defaultGrid = config.ScheduleConfig{DayStartHour: 9, DayEndHour: 17, SlotMinutes: 60}

func TestGrid(t *testing.T) {
	svc := NewService(&stubAppointmentRepo{}, &stubDoctorRepo{}, defaultGrid, nil)

	assert.Equal(t, []model.Slot{
		"09:00", "10:00", "11:00", "12:00", "13:00",
		"14:00", "15:00", "16:00", "17:00",
	}, svc.Grid())
}

func TestAvailableSlots(t *testing.T) {
	doctorID := uuid.New()
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	appts := []*model.Appointment{
		{ID: uuid.New(), DoctorID: doctorID, Status: model.AppointmentStatusScheduled,
			AppointmentTime: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), DoctorID: doctorID, Status: model.AppointmentStatusCompleted,
			AppointmentTime: time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)},
		// different day, must not count
		{ID: uuid.New(), DoctorID: doctorID, Status: model.AppointmentStatusScheduled,
			AppointmentTime: time.Date(2024, 6, 11, 11, 0, 0, 0, time.UTC)},
		// different doctor, must not count
		{ID: uuid.New(), DoctorID: uuid.New(), Status: model.AppointmentStatusScheduled,
			AppointmentTime: time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)},
	}

	svc := NewService(&stubAppointmentRepo{appts: appts},
		&stubDoctorRepo{known: map[uuid.UUID]bool{doctorID: true}}, defaultGrid, nil)

	slots, err := svc.AvailableSlots(context.Background(), doctorID, date)
	require.NoError(t, err)
	assert.Equal(t, []model.Slot{
		"10:00", "11:00", "12:00", "13:00", "15:00", "16:00", "17:00",
	}, slots)

	// recomputing for the same inputs changes nothing
	again, err := svc.AvailableSlots(context.Background(), doctorID, date)
	require.NoError(t, err)
	assert.Equal(t, slots, again)
}

func TestAvailableSlotsEmptyDay(t *testing.T) {
	doctorID := uuid.New()
	svc := NewService(&stubAppointmentRepo{},
		&stubDoctorRepo{known: map[uuid.UUID]bool{doctorID: true}}, defaultGrid, nil)

	slots, err := svc.AvailableSlots(context.Background(), doctorID,
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, svc.Grid(), slots)
}

func TestAvailableSlotsUnknownDoctor(t *testing.T) {
	svc := NewService(&stubAppointmentRepo{}, &stubDoctorRepo{}, defaultGrid, nil)

	_, err := svc.AvailableSlots(context.Background(), uuid.New(), time.Now())
	assert.Equal(t, apperrors.ErrDoctorNotFound, apperrors.CodeOf(err))
}

func TestDayRange(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	start, end := DayRange(time.Date(2024, 6, 10, 15, 42, 7, 0, loc))

	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 6, 10, 23, 59, 59, 0, loc), end)
}
