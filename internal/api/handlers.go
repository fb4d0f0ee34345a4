package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/hospital-scheduling/internal/appointment"
	"github.com/hackgods/hospital-scheduling/internal/billing"
	"github.com/hackgods/hospital-scheduling/internal/logging"
)

func registerPatientHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		age, err := appointment.ParseAge(req.Age.String())
		if err != nil {
			handleDomainError(r.Context(), w, appointment.MergeValidation(err, appointment.CheckName(req.Name)))
			return
		}

		p, err := svc.RegisterPatient(r.Context(), appointment.PatientInput{Name: req.Name, Age: age, Gender: req.Gender})
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

func registerDoctorHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		age, err := appointment.ParseAge(req.Age.String())
		if err != nil {
			handleDomainError(r.Context(), w, appointment.MergeValidation(err, appointment.CheckName(req.Name)))
			return
		}

		d, err := svc.RegisterDoctor(r.Context(), appointment.DoctorInput{
			Name:       req.Name,
			Age:        age,
			Gender:     req.Gender,
			Speciality: req.Speciality,
			RawSlots:   req.rawSlots(),
		})
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toDoctorResponse(d))
	}
}

func getPatientHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.FindPatient(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func getDoctorHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.FindDoctor(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoctorResponse(d))
	}
}

func describePatientHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := svc.DescribePatient(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}
		writeText(w, http.StatusOK, text)
	}
}

func describeDoctorHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := svc.DescribeDoctor(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}
		writeText(w, http.StatusOK, text)
	}
}

func listPatientAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := svc.ListAppointmentsByPatient(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentList(appts))
	}
}

func listDoctorAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := svc.ListAppointmentsByDoctor(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentList(appts))
	}
}

func bookAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.Time) == "" {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "date and time are required")
			return
		}

		conf, err := svc.Book(r.Context(), req.PatientID, req.DoctorID, strings.TrimSpace(req.Date), strings.TrimSpace(req.Time))
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}

		writeJSON(w, http.StatusCreated, BookingResponse{
			Appointment: toAppointmentResponse(conf.Appointment, conf.PatientName, conf.DoctorName),
			Message:     conf.Message(),
		})
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.FindAppointment(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(detail.Appointment, detail.PatientName, detail.DoctorName))
	}
}

func cancelAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Cancel(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}

		writeJSON(w, http.StatusOK, CancellationResponse{
			Appointment:  toAppointmentResponse(c.Appointment, "", ""),
			RestoredSlot: c.RestoredSlot,
			Message:      c.Message(),
		})
	}
}

func computeBillHandler(calc *billing.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BillRequest
		// an empty body is an empty fee, which billing coerces to zero
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
				return
			}
		}

		bill, err := calc.ComputeBill(r.Context(), chi.URLParam(r, "id"), req.AdditionalFee.String())
		if err != nil {
			handleDomainError(r.Context(), w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBillResponse(bill))
	}
}

func handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "invalid_name", err.Error())
	case errors.Is(err, appointment.ErrInvalidAge):
		writeError(w, http.StatusBadRequest, "invalid_age", err.Error())
	case errors.Is(err, appointment.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, appointment.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrDoctorUnavailable):
		writeError(w, http.StatusConflict, "doctor_unavailable", err.Error())
	case errors.Is(err, appointment.ErrSlotAlreadyBooked):
		writeError(w, http.StatusConflict, "slot_already_booked", err.Error())
	case errors.Is(err, appointment.ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, "already_cancelled", err.Error())
	case errors.Is(err, appointment.ErrDoctorBusy):
		writeError(w, http.StatusConflict, "doctor_busy", "doctor schedule is being modified, please retry shortly")
	default:
		logging.Entry(ctx, nil).WithError(err).Error("unhandled error")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
