package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/smartclinic/booking-api/pkg/circuitbreaker"

	"github.com/smartclinic/booking-api/internal/config"
	"github.com/smartclinic/booking-api/internal/model"
)

type smtpNotifier struct {
	dialer  *gomail.Dialer
	from    string
	breaker *circuitbreaker.CircuitBreaker
}

func NewSMTPNotifier(cfg config.SMTPConfig) Notifier {
	return &smtpNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "smtp",
			MaxFailures: 5,
			Timeout:     time.Minute,
		}),
	}
}

func (n *smtpNotifier) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	// an unreachable mail server must not stall every booking
	return n.breaker.Execute(func() error {
		return n.dialer.DialAndSend(m)
	})
}

func (n *smtpNotifier) SendBookingConfirmation(_ context.Context, to string, appt *model.Appointment) error {
	body := fmt.Sprintf(
		"Your appointment is confirmed for %s.",
		appt.AppointmentTime.Format("Monday, 2 January 2006 at 15:04"),
	)
	return n.send(to, "Appointment confirmed", body)
}

func (n *smtpNotifier) SendReschedule(_ context.Context, to string, appt *model.Appointment, oldTime time.Time) error {
	body := fmt.Sprintf(
		"Your appointment on %s has been moved to %s.",
		oldTime.Format("Monday, 2 January 2006 at 15:04"),
		appt.AppointmentTime.Format("Monday, 2 January 2006 at 15:04"),
	)
	return n.send(to, "Appointment rescheduled", body)
}

func (n *smtpNotifier) SendCancellation(_ context.Context, to string, appt *model.Appointment) error {
	body := fmt.Sprintf(
		"Your appointment on %s has been cancelled.",
		appt.AppointmentTime.Format("Monday, 2 January 2006 at 15:04"),
	)
	return n.send(to, "Appointment cancelled", body)
}
