package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/hospital-scheduling/internal/appointment"
	"github.com/hackgods/hospital-scheduling/internal/billing"
)

type RouterConfig struct {
	Service      *appointment.Service
	Billing      *billing.Calculator
	Logger       *logrus.Logger
	Dependencies []Dependency
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)

	// Health endpoints
	health := NewHealthHandler(cfg.Dependencies, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/patients", func(r chi.Router) {
		r.Post("/", registerPatientHandler(cfg.Service))
		r.Get("/{id}", getPatientHandler(cfg.Service))
		r.Get("/{id}/profile", describePatientHandler(cfg.Service))
		r.Get("/{id}/appointments", listPatientAppointmentsHandler(cfg.Service))
	})

	r.Route("/doctors", func(r chi.Router) {
		r.Post("/", registerDoctorHandler(cfg.Service))
		r.Get("/{id}", getDoctorHandler(cfg.Service))
		r.Get("/{id}/schedule", describeDoctorHandler(cfg.Service))
		r.Get("/{id}/appointments", listDoctorAppointmentsHandler(cfg.Service))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", bookAppointmentHandler(cfg.Service))
		r.Get("/{id}", getAppointmentHandler(cfg.Service))
		r.Post("/{id}/cancel", cancelAppointmentHandler(cfg.Service))
		r.Post("/{id}/bill", computeBillHandler(cfg.Billing))
	})

	return r
}
