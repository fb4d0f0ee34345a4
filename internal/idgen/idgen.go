package idgen

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	PatientPrefix     = "P"
	DoctorPrefix      = "DR"
	AppointmentPrefix = "A"

	suffixLen   = 6
	maxAttempts = 16
)

var ErrExhausted = errors.New("could not issue a unique identifier")

// Generator issues short human readable identifiers such as "P3F9A1C".
// The suffix is taken from a random UUID so collisions are unlikely but
// possible, which is why callers hand in an existence check.
type Generator struct {
	source func() string
}

// New returns a generator backed by random UUIDs.
func New() *Generator {
	return &Generator{source: uuid.NewString}
}

// NewWithSource lets tests control the random part. The source must return
// at least six hex characters.
func NewWithSource(source func() string) *Generator {
	if source == nil {
		source = uuid.NewString
	}
	return &Generator{source: source}
}

func (g *Generator) Patient(exists func(string) bool) (string, error) {
	return g.Next(PatientPrefix, exists)
}

func (g *Generator) Doctor(exists func(string) bool) (string, error) {
	return g.Next(DoctorPrefix, exists)
}

func (g *Generator) Appointment(exists func(string) bool) (string, error) {
	return g.Next(AppointmentPrefix, exists)
}

// Next builds prefix + suffix and regenerates while exists reports a clash.
func (g *Generator) Next(prefix string, exists func(string) bool) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		id := prefix + g.suffix()
		if exists == nil || !exists(id) {
			return id, nil
		}
	}
	return "", ErrExhausted
}

func (g *Generator) suffix() string {
	raw := strings.ReplaceAll(g.source(), "-", "")
	if len(raw) > suffixLen {
		raw = raw[:suffixLen]
	}
	return strings.ToUpper(raw)
}
