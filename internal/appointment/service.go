package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hackgods/hospital-scheduling/internal/idgen"
	"github.com/hackgods/hospital-scheduling/internal/logging"
)

// Service is the scheduling engine. It owns the registry, the availability
// ledger and the appointment store; every mutation goes through it.
type Service struct {
	mu       sync.RWMutex
	registry *registry
	ledger   *ledger
	store    *store

	ids    *idgen.Generator
	locker Locker
	events EventSink
	now    func() time.Time
	log    *logrus.Logger
}

type Option func(*Service)

func WithLocker(l Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

func WithEventSink(sink EventSink) Option {
	return func(s *Service) { s.events = sink }
}

func WithLogger(log *logrus.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithIDGenerator(g *idgen.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.ids = g
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		registry: newRegistry(),
		ledger:   newLedger(),
		store:    newStore(),
		ids:      idgen.New(),
		locker:   NewLocalLocker(),
		now:      time.Now,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterPatient validates the input and stores a new patient.
func (s *Service) RegisterPatient(ctx context.Context, input PatientInput) (Patient, error) {
	log := s.logger(ctx, "register_patient")

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := NewPatient("", input)
	if err != nil {
		log.WithField("error_kind", ErrorKind(err)).Infof("patient registration rejected: %v", err)
		return Patient{}, err
	}
	if p.ID, err = s.ids.Patient(s.registry.hasID); err != nil {
		return Patient{}, fmt.Errorf("issue patient id: %w", err)
	}
	s.registry.addPatient(p)

	log.WithField("patient_id", p.ID).Info("patient registered")
	return copyPatient(p), nil
}

// RegisterDoctor validates the input and stores a new doctor together with
// the doctor's initial open slots.
func (s *Service) RegisterDoctor(ctx context.Context, input DoctorInput) (Doctor, error) {
	log := s.logger(ctx, "register_doctor")

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := NewDoctor("", input)
	if err != nil {
		log.WithField("error_kind", ErrorKind(err)).Infof("doctor registration rejected: %v", err)
		return Doctor{}, err
	}
	if d.ID, err = s.ids.Doctor(s.registry.hasID); err != nil {
		return Doctor{}, fmt.Errorf("issue doctor id: %w", err)
	}
	s.ledger.open(d.ID, d.Schedule)
	// the ledger is the source of truth from here on
	d.Schedule = nil
	s.registry.addDoctor(d)

	log.WithFields(logrus.Fields{"doctor_id": d.ID, "slots": len(s.ledger.openSlots(d.ID))}).Info("doctor registered")
	return s.doctorSnapshot(d), nil
}

func (s *Service) FindPatient(ctx context.Context, id string) (Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.registry.patient(id)
	if err != nil {
		return Patient{}, err
	}
	return copyPatient(p), nil
}

func (s *Service) FindDoctor(ctx context.Context, id string) (Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, err := s.registry.doctor(id)
	if err != nil {
		return Doctor{}, err
	}
	return s.doctorSnapshot(d), nil
}

// Book reserves the doctor's slot at date/time for the patient.
//
// The slot must be open in the doctor's schedule. On success the appointment
// is stored as Scheduled, appended to the patient's list and the slot leaves
// the schedule, all under the doctor's lock and the state mutex.
func (s *Service) Book(ctx context.Context, patientID, doctorID, date, clock string) (Confirmation, error) {
	log := s.logger(ctx, "book", "patient_id", patientID, "doctor_id", doctorID, "slot", SlotKey(date, clock))

	var confirmation Confirmation
	err := s.locker.WithDoctorLock(ctx, doctorID, func(lockCtx context.Context) error {
		c, err := s.book(patientID, doctorID, date, clock)
		if err != nil {
			return err
		}
		confirmation = c
		return nil
	})
	if err != nil {
		log.WithField("error_kind", ErrorKind(err)).Infof("booking rejected: %v", err)
		return Confirmation{}, err
	}

	appt := confirmation.Appointment
	s.emit(ctx, appt.ID, EventAppointmentBooked, map[string]any{
		"patient_id": appt.PatientID,
		"doctor_id":  appt.DoctorID,
		"date":       appt.Date,
		"time":       appt.Time,
	})
	log.WithField("appointment_id", appt.ID).Info("appointment booked")

	return confirmation, nil
}

func (s *Service) book(patientID, doctorID, date, clock string) (Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, err := s.registry.patient(patientID)
	if err != nil {
		return Confirmation{}, err
	}
	doctor, err := s.registry.doctor(doctorID)
	if err != nil {
		return Confirmation{}, err
	}

	slot := SlotKey(date, clock)
	if !s.ledger.isOpen(doctor.ID, slot) {
		return Confirmation{}, ErrDoctorUnavailable
	}

	// Unreachable while the ledger and the store agree; CheckConsistency
	// reports the disagreement if it ever happens.
	if _, taken := s.store.scheduledAt(doctor.ID, date, clock); taken {
		return Confirmation{}, ErrSlotAlreadyBooked
	}

	id, err := s.ids.Appointment(s.store.has)
	if err != nil {
		return Confirmation{}, fmt.Errorf("issue appointment id: %w", err)
	}

	now := s.now()
	appt := &Appointment{
		ID:        id,
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      date,
		Time:      clock,
		Status:    StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.add(appt)
	patient.AppointmentIDs = append(patient.AppointmentIDs, appt.ID)
	s.ledger.take(doctor.ID, slot)

	return Confirmation{
		Appointment: *appt,
		PatientName: patient.Name,
		DoctorName:  doctor.Name,
	}, nil
}

// Cancel flips a scheduled appointment to Cancelled and puts its slot back
// into the doctor's schedule. Cancelling twice fails without side effects.
func (s *Service) Cancel(ctx context.Context, appointmentID string) (Cancellation, error) {
	log := s.logger(ctx, "cancel", "appointment_id", appointmentID)

	s.mu.RLock()
	appt, err := s.store.get(appointmentID)
	var doctorID string
	if err == nil {
		doctorID = appt.DoctorID
	}
	s.mu.RUnlock()
	if err != nil {
		log.WithField("error_kind", ErrorKind(err)).Infof("cancellation rejected: %v", err)
		return Cancellation{}, err
	}

	var cancellation Cancellation
	err = s.locker.WithDoctorLock(ctx, doctorID, func(lockCtx context.Context) error {
		c, err := s.cancel(appointmentID)
		if err != nil {
			return err
		}
		cancellation = c
		return nil
	})
	if err != nil {
		log.WithField("error_kind", ErrorKind(err)).Infof("cancellation rejected: %v", err)
		return Cancellation{}, err
	}

	s.emit(ctx, appointmentID, EventAppointmentCancelled, map[string]any{
		"doctor_id": doctorID,
		"slot":      cancellation.RestoredSlot,
	})
	log.WithField("doctor_id", doctorID).Info("appointment cancelled")

	return cancellation, nil
}

func (s *Service) cancel(appointmentID string) (Cancellation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, err := s.store.get(appointmentID)
	if err != nil {
		return Cancellation{}, err
	}
	if appt.IsCancelled() {
		return Cancellation{}, ErrAlreadyCancelled
	}

	appt.Status = StatusCancelled
	appt.UpdatedAt = s.now()
	slot := appt.Slot()
	s.ledger.release(appt.DoctorID, slot)

	return Cancellation{Appointment: *appt, RestoredSlot: slot}, nil
}

// FindAppointment returns the appointment with the names of the people it links.
func (s *Service) FindAppointment(ctx context.Context, id string) (AppointmentDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, err := s.store.get(id)
	if err != nil {
		return AppointmentDetail{}, err
	}
	return s.detail(appt), nil
}

// ListAppointmentsByPatient returns the patient's appointments in booking order.
func (s *Service) ListAppointmentsByPatient(ctx context.Context, patientID string) ([]AppointmentDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.registry.patient(patientID)
	if err != nil {
		return nil, err
	}
	out := make([]AppointmentDetail, 0, len(p.AppointmentIDs))
	for _, id := range p.AppointmentIDs {
		appt, err := s.store.get(id)
		if err != nil {
			return nil, fmt.Errorf("patient %s references %s: %w", patientID, id, err)
		}
		out = append(out, s.detail(appt))
	}
	return out, nil
}

// ListAppointmentsByDoctor returns every appointment made with the doctor in
// creation order.
func (s *Service) ListAppointmentsByDoctor(ctx context.Context, doctorID string) ([]AppointmentDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.registry.doctor(doctorID); err != nil {
		return nil, err
	}
	appts := s.store.byDoctor(doctorID)
	out := make([]AppointmentDetail, 0, len(appts))
	for _, appt := range appts {
		out = append(out, s.detail(appt))
	}
	return out, nil
}

func (s *Service) detail(appt *Appointment) AppointmentDetail {
	d := AppointmentDetail{Appointment: *appt}
	if p, ok := s.registry.patients[appt.PatientID]; ok {
		d.PatientName = p.Name
	}
	if doc, ok := s.registry.doctors[appt.DoctorID]; ok {
		d.DoctorName = doc.Name
	}
	return d
}

func (s *Service) doctorSnapshot(d *Doctor) Doctor {
	out := *d
	out.Schedule = s.ledger.openSlots(d.ID)
	if out.Schedule == nil {
		out.Schedule = []string{}
	}
	return out
}

func (s *Service) emit(ctx context.Context, appointmentID, eventType string, payload map[string]any) {
	if s.events == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger(ctx, "emit").Warnf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	ev := Event{
		Type:          eventType,
		AppointmentID: appointmentID,
		Payload:       data,
		CreatedAt:     s.now(),
	}
	if err := s.events.Record(ctx, ev); err != nil {
		s.logger(ctx, "emit").Warnf("failed to record event %s for appointment %s: %v", eventType, appointmentID, err)
	}
}

// Emit lets collaborators such as billing publish through the same sink.
func (s *Service) Emit(ctx context.Context, appointmentID, eventType string, payload map[string]any) {
	s.emit(ctx, appointmentID, eventType, payload)
}

func (s *Service) logger(ctx context.Context, operation string, kv ...string) *logrus.Entry {
	fields := logrus.Fields{"service": "appointment", "operation": operation}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return logging.Entry(ctx, s.log).WithFields(fields)
}
