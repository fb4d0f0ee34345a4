package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/hospital-scheduling/internal/appointment"
	"github.com/hackgods/hospital-scheduling/internal/logging"
)

// ConsultationFee is charged on every bill.
var ConsultationFee = decimal.NewFromInt(3000)

// AppointmentFinder resolves the appointment a bill is for.
type AppointmentFinder interface {
	FindAppointment(ctx context.Context, id string) (appointment.AppointmentDetail, error)
}

// EventEmitter is satisfied by appointment.Service.
type EventEmitter interface {
	Emit(ctx context.Context, appointmentID, eventType string, payload map[string]any)
}

type Bill struct {
	AppointmentID   string
	PatientName     string
	DoctorName      string
	Date            string
	Time            string
	ConsultationFee decimal.Decimal
	AdditionalFee   decimal.Decimal
	Total           decimal.Decimal
	// FeeCoerced is set when the additional fee input was unusable and zero
	// was charged instead.
	FeeCoerced bool
	Warning    string
}

type Calculator struct {
	appointments AppointmentFinder
	events       EventEmitter
	log          *logrus.Logger
}

func NewCalculator(appointments AppointmentFinder, events EventEmitter, log *logrus.Logger) *Calculator {
	return &Calculator{appointments: appointments, events: events, log: log}
}

// ComputeBill totals the consultation fee and the additional fee for an
// appointment. A malformed or negative additional fee does not fail the bill;
// it is charged as zero and reported through FeeCoerced and Warning.
func (c *Calculator) ComputeBill(ctx context.Context, appointmentID, rawAdditionalFee string) (Bill, error) {
	log := logging.Entry(ctx, c.log).WithFields(logrus.Fields{
		"service":        "billing",
		"operation":      "compute_bill",
		"appointment_id": appointmentID,
	})

	appt, err := c.appointments.FindAppointment(ctx, appointmentID)
	if err != nil {
		return Bill{}, err
	}

	additional, warning := ParseAdditionalFee(rawAdditionalFee)
	bill := Bill{
		AppointmentID:   appt.ID,
		PatientName:     appt.PatientName,
		DoctorName:      appt.DoctorName,
		Date:            appt.Date,
		Time:            appt.Time,
		ConsultationFee: ConsultationFee,
		AdditionalFee:   additional,
		Total:           ConsultationFee.Add(additional),
		FeeCoerced:      warning != "",
		Warning:         warning,
	}

	if bill.FeeCoerced {
		log.WithField("input", rawAdditionalFee).Warn(warning)
	}
	if c.events != nil {
		c.events.Emit(ctx, appt.ID, appointment.EventBillComputed, map[string]any{
			"total":       bill.Total.String(),
			"fee_coerced": bill.FeeCoerced,
		})
	}
	log.WithField("total", bill.Total.String()).Info("bill computed")

	return bill, nil
}

// Fee inputs outside these bounds are treated as unusable and charged as zero.
const (
	maxFeeInputLen = 32
	maxFeeDigits   = 18
	maxFeeExponent = 18
)

// ParseAdditionalFee parses a non-negative decimal. On failure it returns zero
// and a warning describing the coercion.
func ParseAdditionalFee(raw string) (decimal.Decimal, string) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > maxFeeInputLen {
		return decimal.Zero, fmt.Sprintf("additional fee input longer than %d characters, setting to 0", maxFeeInputLen)
	}
	fee, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Sprintf("invalid additional fee %q, setting to 0", raw)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Sprintf("negative additional fee %q, setting to 0", raw)
	}
	// checked before anything renders the value: a huge exponent expands to
	// that many digits
	if exp := fee.Exponent(); exp > maxFeeExponent || exp < -maxFeeExponent || fee.NumDigits() > maxFeeDigits {
		return decimal.Zero, fmt.Sprintf("additional fee %q out of range, setting to 0", raw)
	}
	return fee, ""
}
