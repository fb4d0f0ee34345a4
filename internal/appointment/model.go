package appointment

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "Scheduled"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// Person holds the attributes shared by patients and doctors. Each role
// validates it through its own constructor.
type Person struct {
	Name   string
	Age    int
	Gender string
}

type Patient struct {
	ID string
	Person
	// AppointmentIDs is in booking order.
	AppointmentIDs []string
}

type Doctor struct {
	ID string
	Person
	Speciality string
	// Schedule lists the currently open slots in insertion order.
	Schedule []string
}

type Appointment struct {
	ID        string
	PatientID string
	DoctorID  string
	Date      string
	Time      string
	Status    AppointmentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slot returns the schedule key the appointment occupies.
func (a Appointment) Slot() string {
	return SlotKey(a.Date, a.Time)
}

func (a Appointment) IsScheduled() bool {
	return a.Status == StatusScheduled
}

func (a Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// SlotKey joins a date and a time into the "YYYY-MM-DD HH:MM" form used as
// the schedule key. Both parts are opaque.
func SlotKey(date, clock string) string {
	return date + " " + clock
}

// Confirmation is what a successful booking hands back to the caller for
// rendering.
type Confirmation struct {
	Appointment Appointment
	PatientName string
	DoctorName  string
}

func (c Confirmation) Message() string {
	return fmt.Sprintf("Appointment %s confirmed for %s with Dr. %s on %s at %s.",
		c.Appointment.ID, c.PatientName, c.DoctorName, c.Appointment.Date, c.Appointment.Time)
}

type Cancellation struct {
	Appointment Appointment
	// RestoredSlot is the slot put back into the doctor's schedule.
	RestoredSlot string
}

func (c Cancellation) Message() string {
	return fmt.Sprintf("Appointment %s has been cancelled.", c.Appointment.ID)
}

// AppointmentDetail is an appointment together with the people it links.
type AppointmentDetail struct {
	Appointment
	PatientName string
	DoctorName  string
}

// PatientInput carries raw registration fields for a patient.
type PatientInput struct {
	Name   string `validate:"required,personname"`
	Age    int    `validate:"gte=1,lte=120"`
	Gender string
}

// DoctorInput carries raw registration fields for a doctor. RawSlots is the
// comma separated availability list, e.g. "2025-07-15 14:00, 2025-07-16 09:00".
type DoctorInput struct {
	Name       string `validate:"required,personname"`
	Age        int    `validate:"gte=1,lte=80"`
	Gender     string
	Speciality string
	RawSlots   string
}
