package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/smartclinic/booking-api/pkg/errors"
	"github.com/smartclinic/booking-api/pkg/logger"
	"github.com/smartclinic/booking-api/pkg/metrics"

	"github.com/smartclinic/booking-api/internal/email"
	"github.com/smartclinic/booking-api/internal/model"
	"github.com/smartclinic/booking-api/internal/repository"
	"github.com/smartclinic/booking-api/internal/service/schedule"
)

// Service owns every appointment state transition: booking, reschedule,
// cancellation and status change. Slot exclusivity is upheld by the
// partial unique index on (doctor_id, appointment_time); the losing
// side of a race observes a slot conflict, never a generic failure.
type Service struct {
	repo      repository.AppointmentRepository
	doctors   repository.DoctorRepository
	patients  repository.PatientRepository
	scheduler *schedule.Service
	notifier  email.Notifier
	metrics   *metrics.Metrics
	logger    *logger.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo repository.AppointmentRepository,
	doctors repository.DoctorRepository, patients repository.PatientRepository,
	scheduler *schedule.Service, notifier email.Notifier,
	m *metrics.Metrics, log *logger.Logger, opts ...Option) *Service {
	if notifier == nil {
		notifier = email.Noop{}
	}
	s := &Service{
		repo:      repo,
		doctors:   doctors,
		patients:  patients,
		scheduler: scheduler,
		notifier:  notifier,
		metrics:   m,
		logger:    log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book validates and commits a new appointment. Precondition order:
// doctor exists, slot open, time strictly in the future. The open-slot
// check and the insert are not a critical section; the unique index
// decides races and the loser gets a slot conflict.
func (s *Service) Book(ctx context.Context, doctorID, patientID uuid.UUID, t time.Time) (*model.Appointment, error) {
	exists, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if !exists {
		s.metrics.BookingFailures.WithLabelValues("doctor_not_found").Inc()
		return nil, apperrors.DoctorNotFound(nil)
	}

	slots, err := s.scheduler.AvailableSlots(ctx, doctorID, t)
	if err != nil {
		return nil, err
	}
	if !slotIn(slots, model.SlotOf(t)) {
		s.metrics.BookingFailures.WithLabelValues("slot_unavailable").Inc()
		return nil, apperrors.SlotUnavailable("requested slot is not available")
	}

	now := s.now()
	if !t.After(now) {
		s.metrics.BookingFailures.WithLabelValues("invalid_time").Inc()
		return nil, apperrors.InvalidTime("appointment time must be in the future")
	}

	appt := &model.Appointment{
		ID:              uuid.New(),
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentTime: t,
		Status:          model.AppointmentStatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.BookingConflicts.Inc()
			return nil, apperrors.SlotUnavailable("slot was booked concurrently")
		}
		return nil, apperrors.Storage(err)
	}

	s.scheduler.Invalidate(ctx, doctorID, t)
	s.metrics.BookingsTotal.Inc()
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID.String(),
		"doctor_id", doctorID.String(),
	)

	s.notify(ctx, appt, func(to string) error {
		return s.notifier.SendBookingConfirmation(ctx, to, appt)
	})
	return appt, nil
}

// Update reschedules an appointment on behalf of the patient that owns
// it. The ownership check and the write run under a row lock so they
// see the latest committed state; the appointment's own slot counts as
// vacated when the new time is validated.
func (s *Service) Update(ctx context.Context, apptID uuid.UUID, newTime time.Time, requestingPatientID uuid.UUID) (*model.Appointment, error) {
	var updated *model.Appointment
	var oldTime time.Time

	err := s.repo.WithTx(ctx, func(tx repository.AppointmentRepository) error {
		appt, err := tx.GetForUpdate(ctx, apptID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return apperrors.NotFound("appointment", nil)
			}
			return apperrors.Storage(err)
		}

		if appt.PatientID != requestingPatientID {
			return apperrors.Forbidden("appointment belongs to a different patient")
		}

		if appt.Status == model.AppointmentStatusCompleted {
			return apperrors.Conflict("completed appointments cannot be rescheduled")
		}

		if err := s.validateNewTime(ctx, tx, appt, newTime); err != nil {
			return err
		}

		oldTime = appt.AppointmentTime
		appt.AppointmentTime = newTime
		if err := tx.Update(ctx, appt); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.SlotUnavailable("slot was booked concurrently")
			}
			return apperrors.Storage(err)
		}
		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.scheduler.Invalidate(ctx, updated.DoctorID, oldTime)
	s.scheduler.Invalidate(ctx, updated.DoctorID, newTime)
	s.metrics.Reschedules.Inc()
	s.logger.Info("appointment rescheduled", "appointment_id", apptID.String())

	s.notify(ctx, updated, func(to string) error {
		return s.notifier.SendReschedule(ctx, to, updated, oldTime)
	})
	return updated, nil
}

// validateNewTime applies the booking availability rule to a
// reschedule, with the appointment's own slot treated as open.
func (s *Service) validateNewTime(ctx context.Context, tx repository.AppointmentRepository, appt *model.Appointment, newTime time.Time) error {
	requested := model.SlotOf(newTime)
	if !slotIn(s.scheduler.Grid(), requested) {
		return apperrors.SlotUnavailable("requested slot is outside working hours")
	}

	start, end := schedule.DayRange(newTime)
	booked, err := tx.FindByDoctorAndDateRange(ctx, appt.DoctorID, start, end)
	if err != nil {
		return apperrors.Storage(err)
	}
	for _, other := range booked {
		if other.ID == appt.ID {
			continue
		}
		if model.SlotOf(other.AppointmentTime) == requested {
			return apperrors.SlotUnavailable("requested slot is not available")
		}
	}

	if !newTime.After(s.now()) {
		return apperrors.InvalidTime("appointment time must be in the future")
	}
	return nil
}

// Cancel permanently removes a scheduled appointment. The requesting
// identifier is resolved to a patient and must match the appointment's
// owner; completed appointments are terminal and cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, apptID uuid.UUID, requestingIdentifier string) error {
	var cancelled *model.Appointment

	err := s.repo.WithTx(ctx, func(tx repository.AppointmentRepository) error {
		appt, err := tx.GetForUpdate(ctx, apptID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return apperrors.NotFound("appointment", nil)
			}
			return apperrors.Storage(err)
		}

		patient, err := s.patients.GetByEmail(ctx, requestingIdentifier)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return apperrors.Forbidden("appointment belongs to a different patient")
			}
			return apperrors.Storage(err)
		}
		if appt.PatientID != patient.ID {
			return apperrors.Forbidden("appointment belongs to a different patient")
		}

		if appt.Status == model.AppointmentStatusCompleted {
			return apperrors.Conflict("completed appointments cannot be cancelled")
		}

		if err := tx.Delete(ctx, apptID); err != nil {
			return apperrors.Storage(err)
		}
		cancelled = appt
		return nil
	})
	if err != nil {
		return err
	}

	s.scheduler.Invalidate(ctx, cancelled.DoctorID, cancelled.AppointmentTime)
	s.metrics.Cancellations.Inc()
	s.logger.Info("appointment cancelled", "appointment_id", apptID.String())

	s.notify(ctx, cancelled, func(to string) error {
		return s.notifier.SendCancellation(ctx, to, cancelled)
	})
	return nil
}

// ChangeStatus moves an appointment to the given status. A missing id
// is a silent no-op; moving a completed appointment back to scheduled
// is rejected.
func (s *Service) ChangeStatus(ctx context.Context, apptID uuid.UUID, status model.AppointmentStatus) error {
	return s.repo.WithTx(ctx, func(tx repository.AppointmentRepository) error {
		appt, err := tx.GetForUpdate(ctx, apptID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return nil
			}
			return apperrors.Storage(err)
		}

		if appt.Status == status {
			return nil
		}
		if appt.Status == model.AppointmentStatusCompleted {
			return apperrors.Conflict("completed appointments cannot change status")
		}

		appt.Status = status
		if err := tx.Update(ctx, appt); err != nil {
			return apperrors.Storage(err)
		}
		return nil
	})
}

// ListForDoctor returns the doctor's appointments for a calendar day,
// optionally narrowed by a case-insensitive patient name fragment.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID, date time.Time, patientName string) ([]*model.Appointment, error) {
	start, end := schedule.DayRange(date)
	appts, err := s.repo.ListForDoctor(ctx, doctorID, start, end, patientName)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return appts, nil
}

// ListForPatient returns a patient's own appointments, optionally
// narrowed to past/future and by doctor name fragment.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, condition model.AppointmentCondition, doctorName string) ([]*model.Appointment, error) {
	var status *model.AppointmentStatus
	switch condition {
	case "":
	case model.ConditionPast:
		st := model.AppointmentStatusCompleted
		status = &st
	case model.ConditionFuture:
		st := model.AppointmentStatusScheduled
		status = &st
	default:
		return nil, apperrors.BadRequest("condition must be 'past' or 'future'", nil)
	}

	appts, err := s.repo.ListForPatient(ctx, patientID, status, doctorName)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return appts, nil
}

func (s *Service) notify(ctx context.Context, appt *model.Appointment, send func(to string) error) {
	patient, err := s.patients.Get(ctx, appt.PatientID)
	if err != nil {
		s.logger.Error(err, "failed to resolve patient for notification")
		return
	}
	if err := send(patient.Email); err != nil {
		s.logger.Error(err, "failed to send appointment notification",
			"appointment_id", appt.ID.String(),
		)
	}
}

func slotIn(slots []model.Slot, want model.Slot) bool {
	for _, s := range slots {
		if s == want {
			return true
		}
	}
	return false
}
