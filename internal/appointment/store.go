package appointment

// store keeps every appointment ever created. Cancellation flips status;
// nothing is removed.
type store struct {
	appointments map[string]*Appointment
	order        []string
}

func newStore() *store {
	return &store{appointments: make(map[string]*Appointment)}
}

func (s *store) has(id string) bool {
	_, ok := s.appointments[id]
	return ok
}

func (s *store) add(a *Appointment) {
	s.appointments[a.ID] = a
	s.order = append(s.order, a.ID)
}

func (s *store) get(id string) (*Appointment, error) {
	a, ok := s.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return a, nil
}

// scheduledAt finds a scheduled appointment holding doctorID at date/time.
func (s *store) scheduledAt(doctorID, date, clock string) (*Appointment, bool) {
	for _, id := range s.order {
		a := s.appointments[id]
		if a.DoctorID == doctorID && a.Date == date && a.Time == clock && a.IsScheduled() {
			return a, true
		}
	}
	return nil, false
}

func (s *store) byDoctor(doctorID string) []*Appointment {
	var out []*Appointment
	for _, id := range s.order {
		if a := s.appointments[id]; a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out
}

func (s *store) all() []*Appointment {
	out := make([]*Appointment, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.appointments[id])
	}
	return out
}
