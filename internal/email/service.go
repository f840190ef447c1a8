package email

import (
	"context"
	"time"

	"github.com/smartclinic/booking-api/internal/model"
)

// Notifier sends appointment lifecycle mail to patients. Failures are
// advisory; callers log them and never fail the booking operation.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to string, appt *model.Appointment) error
	SendReschedule(ctx context.Context, to string, appt *model.Appointment, oldTime time.Time) error
	SendCancellation(ctx context.Context, to string, appt *model.Appointment) error
}

// Noop is used when SMTP is not configured.
type Noop struct{}

func (Noop) SendBookingConfirmation(context.Context, string, *model.Appointment) error {
	return nil
}

func (Noop) SendReschedule(context.Context, string, *model.Appointment, time.Time) error {
	return nil
}

func (Noop) SendCancellation(context.Context, string, *model.Appointment) error {
	return nil
}
