package appointment

import "strings"

// slotSet is an ordered set of open slots. Order only matters for display.
type slotSet struct {
	order []string
	index map[string]struct{}
}

func newSlotSet(slots []string) *slotSet {
	s := &slotSet{index: make(map[string]struct{}, len(slots))}
	for _, slot := range slots {
		s.add(slot)
	}
	return s
}

func (s *slotSet) contains(slot string) bool {
	_, ok := s.index[slot]
	return ok
}

// add appends slot unless it is already open. It reports whether the set changed.
func (s *slotSet) add(slot string) bool {
	if s.contains(slot) {
		return false
	}
	s.index[slot] = struct{}{}
	s.order = append(s.order, slot)
	return true
}

func (s *slotSet) remove(slot string) bool {
	if !s.contains(slot) {
		return false
	}
	delete(s.index, slot)
	for i, existing := range s.order {
		if existing == slot {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *slotSet) list() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// ledger tracks the open slots of every doctor.
type ledger struct {
	slots map[string]*slotSet
}

func newLedger() *ledger {
	return &ledger{slots: make(map[string]*slotSet)}
}

func (l *ledger) open(doctorID string, slots []string) {
	l.slots[doctorID] = newSlotSet(slots)
}

func (l *ledger) isOpen(doctorID, slot string) bool {
	set, ok := l.slots[doctorID]
	return ok && set.contains(slot)
}

func (l *ledger) take(doctorID, slot string) bool {
	set, ok := l.slots[doctorID]
	return ok && set.remove(slot)
}

func (l *ledger) release(doctorID, slot string) bool {
	set, ok := l.slots[doctorID]
	if !ok {
		set = newSlotSet(nil)
		l.slots[doctorID] = set
	}
	return set.add(slot)
}

func (l *ledger) openSlots(doctorID string) []string {
	set, ok := l.slots[doctorID]
	if !ok {
		return nil
	}
	return set.list()
}

// ParseSlots splits a comma separated availability list. Entries are trimmed;
// blanks are dropped and repeats collapse since a schedule is a set.
func ParseSlots(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		slot := strings.TrimSpace(part)
		if slot == "" {
			continue
		}
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		out = append(out, slot)
	}
	return out
}
