package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Doctor struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Specialty      string         `db:"specialty" json:"specialty"`
	Email          string         `db:"email" json:"email"`
	PasswordHash   string         `db:"password_hash" json:"-"`
	Phone          string         `db:"phone" json:"phone,omitempty"`
	AvailableTimes pq.StringArray `db:"available_times" json:"available_times"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// AvailableInPeriod reports whether any of the doctor's nominal times
// falls in the requested half of the day ("AM" or "PM").
func (d *Doctor) AvailableInPeriod(amOrPm string) bool {
	for _, slot := range d.AvailableTimes {
		t, err := time.Parse("15:04", string(slot))
		if err != nil {
			continue
		}
		if amOrPm == "AM" && t.Hour() < 12 {
			return true
		}
		if amOrPm == "PM" && t.Hour() >= 12 {
			return true
		}
	}
	return false
}

type CreateDoctorRequest struct {
	Name           string   `json:"name" binding:"required"`
	Specialty      string   `json:"specialty" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=8"`
	Phone          string   `json:"phone"`
	AvailableTimes []string `json:"available_times" binding:"omitempty,dive,timeslot"`
}

type UpdateDoctorRequest struct {
	Name           *string  `json:"name"`
	Specialty      *string  `json:"specialty"`
	Phone          *string  `json:"phone"`
	AvailableTimes []string `json:"available_times" binding:"omitempty,dive,timeslot"`
}

// DoctorFilter narrows doctor listings; zero values mean "no filter".
type DoctorFilter struct {
	Name      string
	Specialty string
	AmOrPm    string
}
