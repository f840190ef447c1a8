package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	ID              uuid.UUID         `db:"id" json:"id"`
	DoctorID        uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	PatientID       uuid.UUID         `db:"patient_id" json:"patient_id"`
	PatientName     string            `db:"patient_name" json:"patient_name,omitempty"`
	AppointmentTime time.Time         `db:"appointment_time" json:"appointment_time"`
	Status          AppointmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// Slot is a bookable time-of-day point on a doctor's daily grid,
// rendered as "15:04".
type Slot string

// SlotOf projects an instant onto its grid point.
func SlotOf(t time.Time) Slot {
	return Slot(t.Format("15:04"))
}

type BookAppointmentRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" binding:"required"`
	AppointmentTime time.Time `json:"appointment_time" binding:"required"`
}

type UpdateAppointmentRequest struct {
	AppointmentTime time.Time `json:"appointment_time" binding:"required"`
}

type ChangeStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=scheduled completed"`
}
