package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/smartclinic/booking-api/pkg/errors"

	"github.com/smartclinic/booking-api/internal/cache"
	"github.com/smartclinic/booking-api/internal/config"
	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
)

// Service computes a doctor's open slots: the configured daily grid
// minus the time-of-day of every appointment already on the books for
// that date. It never invents slots outside the grid.
type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	grid         []model.Slot
	cache        cache.AvailabilityCache
}

func NewService(appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository, cfg config.ScheduleConfig,
	availCache cache.AvailabilityCache) *Service {
	if availCache == nil {
		availCache = cache.NoopCache{}
	}
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		grid:         cfg.Grid(),
		cache:        availCache,
	}
}

// Grid returns the configured daily slot grid.
func (s *Service) Grid() []model.Slot {
	out := make([]model.Slot, len(s.grid))
	copy(out, s.grid)
	return out
}

// DayRange returns the inclusive [00:00:00, 23:59:59] bounds of the
// calendar day containing t.
func DayRange(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	end := time.Date(year, month, day, 23, 59, 59, 0, t.Location())
	return start, end
}

// AvailableSlots returns the open grid points for the doctor on the
// given date, ascending. An unknown doctor is an error, not a full
// grid.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]model.Slot, error) {
	exists, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if !exists {
		return nil, apperrors.DoctorNotFound(nil)
	}

	start, end := DayRange(date)
	if slots, found := s.cache.Get(ctx, doctorID, start); found {
		return slots, nil
	}

	appts, err := s.appointments.FindByDoctorAndDateRange(ctx, doctorID, start, end)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			appts = nil
		} else {
			return nil, apperrors.Storage(err)
		}
	}

	booked := make(map[model.Slot]struct{}, len(appts))
	for _, appt := range appts {
		booked[model.SlotOf(appt.AppointmentTime)] = struct{}{}
	}

	available := make([]model.Slot, 0, len(s.grid))
	for _, slot := range s.grid {
		if _, taken := booked[slot]; !taken {
			available = append(available, slot)
		}
	}

	s.cache.Set(ctx, doctorID, start, available)
	return available, nil
}

// Invalidate drops any cached availability for the doctor's day
// containing t. Called by the registry after every mutation.
func (s *Service) Invalidate(ctx context.Context, doctorID uuid.UUID, t time.Time) {
	start, _ := DayRange(t)
	s.cache.Invalidate(ctx, doctorID, start)
}
