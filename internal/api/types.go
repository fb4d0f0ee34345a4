package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hackgods/hospital-scheduling/internal/appointment"
	"github.com/hackgods/hospital-scheduling/internal/billing"
)

// rawInput accepts either a JSON string or a bare JSON value and keeps its
// text, so "30" and 30 reach the domain parsers the same way.
type rawInput json.RawMessage

func (r *rawInput) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

func (r rawInput) String() string {
	if len(r) == 0 || string(r) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return s
	}
	return string(r)
}

type RegisterPatientRequest struct {
	Name   string   `json:"name"`
	Age    rawInput `json:"age"`
	Gender string   `json:"gender"`
}

type RegisterDoctorRequest struct {
	Name       string   `json:"name"`
	Age        rawInput `json:"age"`
	Gender     string   `json:"gender"`
	Speciality string   `json:"speciality"`
	// Slots and RawSlots are merged; RawSlots is the comma separated form.
	Slots    []string `json:"slots"`
	RawSlots string   `json:"raw_slots"`
}

func (r RegisterDoctorRequest) rawSlots() string {
	parts := make([]string, 0, len(r.Slots)+1)
	if r.RawSlots != "" {
		parts = append(parts, r.RawSlots)
	}
	parts = append(parts, r.Slots...)
	return strings.Join(parts, ",")
}

type BookAppointmentRequest struct {
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

type BillRequest struct {
	AdditionalFee rawInput `json:"additional_fee"`
}

type PatientResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Age            int      `json:"age"`
	Gender         string   `json:"gender"`
	AppointmentIDs []string `json:"appointment_ids"`
}

type DoctorResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Gender     string   `json:"gender"`
	Speciality string   `json:"speciality"`
	Schedule   []string `json:"schedule"`
}

type AppointmentResponse struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	DoctorID    string    `json:"doctor_id"`
	PatientName string    `json:"patient_name,omitempty"`
	DoctorName  string    `json:"doctor_name,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BookingResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	Message     string              `json:"message"`
}

type CancellationResponse struct {
	Appointment  AppointmentResponse `json:"appointment"`
	RestoredSlot string              `json:"restored_slot"`
	Message      string              `json:"message"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type BillResponse struct {
	AppointmentID   string          `json:"appointment_id"`
	PatientName     string          `json:"patient_name"`
	DoctorName      string          `json:"doctor_name"`
	Date            string          `json:"date"`
	Time            string          `json:"time"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	AdditionalFee   decimal.Decimal `json:"additional_fee"`
	Total           decimal.Decimal `json:"total"`
	FeeCoerced      bool            `json:"fee_coerced"`
	Warning         string          `json:"warning,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toPatientResponse(p appointment.Patient) PatientResponse {
	ids := p.AppointmentIDs
	if ids == nil {
		ids = []string{}
	}
	return PatientResponse{ID: p.ID, Name: p.Name, Age: p.Age, Gender: p.Gender, AppointmentIDs: ids}
}

func toDoctorResponse(d appointment.Doctor) DoctorResponse {
	return DoctorResponse{ID: d.ID, Name: d.Name, Age: d.Age, Gender: d.Gender, Speciality: d.Speciality, Schedule: d.Schedule}
}

func toAppointmentResponse(a appointment.Appointment, patientName, doctorName string) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		PatientID:   a.PatientID,
		DoctorID:    a.DoctorID,
		PatientName: patientName,
		DoctorName:  doctorName,
		Date:        a.Date,
		Time:        a.Time,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAppointmentList(details []appointment.AppointmentDetail) AppointmentListResponse {
	out := make([]AppointmentResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toAppointmentResponse(d.Appointment, d.PatientName, d.DoctorName))
	}
	return AppointmentListResponse{Appointments: out, Total: len(out)}
}

func toBillResponse(b billing.Bill) BillResponse {
	return BillResponse{
		AppointmentID:   b.AppointmentID,
		PatientName:     b.PatientName,
		DoctorName:      b.DoctorName,
		Date:            b.Date,
		Time:            b.Time,
		ConsultationFee: b.ConsultationFee,
		AdditionalFee:   b.AdditionalFee,
		Total:           b.Total,
		FeeCoerced:      b.FeeCoerced,
		Warning:         b.Warning,
	}
}
