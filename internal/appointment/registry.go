package appointment

import "strings"

// registry stores validated people keyed by their issued ID.
type registry struct {
	patients map[string]*Patient
	doctors  map[string]*Doctor
}

func newRegistry() *registry {
	return &registry{
		patients: make(map[string]*Patient),
		doctors:  make(map[string]*Doctor),
	}
}

// NewPatient validates input and builds a patient with the given ID.
func NewPatient(id string, input PatientInput) (*Patient, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return &Patient{
		ID:     id,
		Person: Person{Name: input.Name, Age: input.Age, Gender: strings.TrimSpace(input.Gender)},
	}, nil
}

// NewDoctor validates input and builds a doctor with the given ID. The
// doctor's open slots are parsed from RawSlots.
func NewDoctor(id string, input DoctorInput) (*Doctor, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return &Doctor{
		ID:         id,
		Person:     Person{Name: input.Name, Age: input.Age, Gender: strings.TrimSpace(input.Gender)},
		Speciality: strings.TrimSpace(input.Speciality),
		Schedule:   ParseSlots(input.RawSlots),
	}, nil
}

func (r *registry) hasID(id string) bool {
	if _, ok := r.patients[id]; ok {
		return true
	}
	_, ok := r.doctors[id]
	return ok
}

func (r *registry) addPatient(p *Patient) {
	r.patients[p.ID] = p
}

func (r *registry) addDoctor(d *Doctor) {
	r.doctors[d.ID] = d
}

func (r *registry) patient(id string) (*Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

func (r *registry) doctor(id string) (*Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return d, nil
}

func copyPatient(p *Patient) Patient {
	out := *p
	out.AppointmentIDs = append([]string(nil), p.AppointmentIDs...)
	return out
}
