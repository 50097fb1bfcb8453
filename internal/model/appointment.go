package model

import (
	"errors"
	"fmt"
)

// Appointment books a patient for a calendar date.
// Patient is a copy taken when the appointment was created, not a live reference.
type Appointment struct {
	ID      int     `json:"id" xml:"id"`
	Patient Patient `json:"patient" xml:"patient"`
	Date    Date    `json:"date" xml:"date"`
}

// Key returns the appointment id.
func (a Appointment) Key() int { return a.ID }

// ErrMissingDate is returned by Validate for an appointment without a date.
var ErrMissingDate = errors.New("appointment without date")

// Validate reports whether a decoded appointment carries every required field.
func (a Appointment) Validate() error {
	if a.Date.IsZero() {
		return fmt.Errorf("%w: id %d", ErrMissingDate, a.ID)
	}
	return nil
}

// Equal reports whether a and o have the same id, embedded patient and date.
func (a Appointment) Equal(o Appointment) bool {
	return a.ID == o.ID && a.Patient.Equal(o.Patient) && a.Date.Equal(o.Date)
}

// String renders the appointment with its embedded patient.
func (a Appointment) String() string {
	return fmt.Sprintf("Appointment{id=%d, patient=%s, date=%s}", a.ID, a.Patient, a.Date)
}
