package appointment

import (
	"context"
	"fmt"
	"strings"
)

// DescribePatient renders the patient's identity and every appointment in
// booking order.
func (s *Service) DescribePatient(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.registry.patient(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Patient ID: %s\n", p.ID)
	writePerson(&b, p.Person)
	if len(p.AppointmentIDs) == 0 {
		b.WriteString("No appointments.\n")
		return b.String(), nil
	}

	b.WriteString("Appointments:\n")
	for _, apptID := range p.AppointmentIDs {
		appt, err := s.store.get(apptID)
		if err != nil {
			return "", fmt.Errorf("patient %s references %s: %w", p.ID, apptID, err)
		}
		d := s.detail(appt)
		fmt.Fprintf(&b, " - %s: Dr. %s on %s at %s (%s)\n", d.ID, d.DoctorName, d.Date, d.Time, d.Status)
	}
	return b.String(), nil
}

// DescribeDoctor renders the doctor's identity, speciality and open slots.
func (s *Service) DescribeDoctor(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, err := s.registry.doctor(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Doctor ID: %s\n", d.ID)
	writePerson(&b, d.Person)
	fmt.Fprintf(&b, "Specialty: %s\n", d.Speciality)
	b.WriteString("Available Slots:\n")
	for _, slot := range s.ledger.openSlots(d.ID) {
		fmt.Fprintf(&b, " - %s\n", slot)
	}
	return b.String(), nil
}

func writePerson(b *strings.Builder, p Person) {
	fmt.Fprintf(b, "Name: %s, Age: %d, Gender: %s\n", p.Name, p.Age, p.Gender)
}
