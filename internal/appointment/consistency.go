package appointment

import "fmt"

// Violation is a disagreement between the availability ledger and the
// appointment statuses.
type Violation struct {
	DoctorID      string
	Slot          string
	AppointmentID string
	Reason        string
}

func (v Violation) String() string {
	return fmt.Sprintf("doctor=%s slot=%q appointment=%s: %s", v.DoctorID, v.Slot, v.AppointmentID, v.Reason)
}

// CheckConsistency verifies that a slot is open iff no scheduled appointment
// holds it. Slots that were never booked cannot drift, so only slots that
// appear on some appointment are inspected.
func (s *Service) CheckConsistency() []Violation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type key struct{ doctor, slot string }
	holders := make(map[key][]string)
	touched := make(map[key]string)

	for _, appt := range s.store.all() {
		k := key{appt.DoctorID, appt.Slot()}
		touched[k] = appt.ID
		if appt.IsScheduled() {
			holders[k] = append(holders[k], appt.ID)
		}
	}

	var out []Violation
	for _, appt := range s.store.all() {
		k := key{appt.DoctorID, appt.Slot()}
		if touched[k] != appt.ID {
			continue
		}
		open := s.ledger.isOpen(k.doctor, k.slot)
		held := holders[k]
		switch {
		case len(held) > 1:
			out = append(out, Violation{DoctorID: k.doctor, Slot: k.slot, AppointmentID: held[1], Reason: "slot held by more than one scheduled appointment"})
		case len(held) == 1 && open:
			out = append(out, Violation{DoctorID: k.doctor, Slot: k.slot, AppointmentID: held[0], Reason: "slot is open while a scheduled appointment holds it"})
		case len(held) == 0 && !open:
			out = append(out, Violation{DoctorID: k.doctor, Slot: k.slot, AppointmentID: appt.ID, Reason: "slot is closed but no scheduled appointment holds it"})
		}
	}
	return out
}
