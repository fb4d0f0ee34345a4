package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"

	"github.com/hackgods/hospital-scheduling/internal/logging"
)

type SimConfig struct {
	APIBaseURL     string
	Duration       time.Duration
	Workers        int
	Doctors        int
	Patients       int
	SlotsPerDoctor int
	BookingRatio   float64
	CancelRatio    float64
	BillRatio      float64
	ReadRatio      float64
}

type bookable struct {
	DoctorID string
	Date     string
	Time     string
}

// DataPool holds the ids the simulator registered plus the appointments it
// managed to book.
type DataPool struct {
	Patients []string
	Slots    []bookable

	mu           sync.RWMutex
	appointments []string
}

func (dp *DataPool) AddAppointment(id string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) GetRandomAppointment(rng *rand.Rand) (string, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return "", false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type Simulator struct {
	config  SimConfig
	log     *logrus.Logger
	pool    *DataPool
	client  *http.Client
	metrics Metrics
}

func main() {
	log := logging.New(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "text"))
	log.Info("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Infof("config: duration=%s workers=%d booking=%.2f cancel=%.2f bill=%.2f read=%.2f",
		cfg.Duration, cfg.Workers, cfg.BookingRatio, cfg.CancelRatio, cfg.BillRatio, cfg.ReadRatio)

	sim := &Simulator{
		config: cfg,
		log:    log,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := sim.register(ctx, gofakeit.New(uint64(time.Now().UnixNano())))
	if err != nil {
		log.Fatalf("register data: %v", err)
	}
	sim.pool = pool
	log.Infof("registered: %d patients, %d slots", len(pool.Patients), len(pool.Slots))

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:     strings.TrimRight(getEnv("SIM_API_BASE_URL", "http://localhost:8080"), "/"),
		Duration:       getDuration("SIM_DURATION", 30*time.Second),
		Workers:        getInt("SIM_WORKERS", 10),
		Doctors:        getInt("SIM_DOCTORS", 10),
		Patients:       getInt("SIM_PATIENTS", 100),
		SlotsPerDoctor: getInt("SIM_SLOTS_PER_DOCTOR", 8),
		BookingRatio:   getFloat("SIM_BOOKING_RATIO", 0.5),
		CancelRatio:    getFloat("SIM_CANCEL_RATIO", 0.15),
		BillRatio:      getFloat("SIM_BILL_RATIO", 0.1),
		ReadRatio:      getFloat("SIM_READ_RATIO", 0.25),
	}

	// Normalize ratios
	total := cfg.BookingRatio + cfg.CancelRatio + cfg.BillRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.CancelRatio /= total
		cfg.BillRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	if cfg.Doctors <= 0 || cfg.Patients <= 0 {
		return fmt.Errorf("SIM_DOCTORS and SIM_PATIENTS must be > 0")
	}
	// slots are half hours between 08:00 and midnight
	if cfg.SlotsPerDoctor <= 0 || cfg.SlotsPerDoctor > 32 {
		return fmt.Errorf("SIM_SLOTS_PER_DOCTOR must be between 1 and 32")
	}
	return nil
}

// register creates the doctors and patients the workers will use. Slots are
// generated here and kept so workers can aim bookings at real openings.
func (s *Simulator) register(ctx context.Context, faker *gofakeit.Faker) (*DataPool, error) {
	pool := &DataPool{}
	day := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	for i := 0; i < s.config.Doctors; i++ {
		var slots []string
		for j := 0; j < s.config.SlotsPerDoctor; j++ {
			slots = append(slots, fmt.Sprintf("%s %02d:%02d", day, 8+j/2, 30*(j%2)))
		}

		var doc struct {
			ID string `json:"id"`
		}
		body := map[string]any{
			"name":       "Doctor " + lettersOnly(faker.LastName()),
			"age":        faker.Number(30, 75),
			"gender":     faker.Gender(),
			"speciality": "General Practice",
			"slots":      slots,
		}
		if status, err := s.call(ctx, http.MethodPost, "/doctors", body, &doc); err != nil || status != http.StatusCreated {
			return nil, fmt.Errorf("register doctor: status=%d err=%v", status, err)
		}

		for _, slot := range slots {
			date, clock, _ := strings.Cut(slot, " ")
			pool.Slots = append(pool.Slots, bookable{DoctorID: doc.ID, Date: date, Time: clock})
		}
	}

	for i := 0; i < s.config.Patients; i++ {
		var p struct {
			ID string `json:"id"`
		}
		body := map[string]any{
			"name":   "Patient " + lettersOnly(faker.LastName()),
			"age":    faker.Number(1, 100),
			"gender": faker.Gender(),
		}
		if status, err := s.call(ctx, http.MethodPost, "/patients", body, &p); err != nil || status != http.StatusCreated {
			return nil, fmt.Errorf("register patient: status=%d err=%v", status, err)
		}
		pool.Patients = append(pool.Patients, p.ID)
	}

	return pool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.log.Infof("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.BookingRatio:
				s.doBooking(ctx, rng)
			case r < s.config.BookingRatio+s.config.CancelRatio:
				s.doCancel(ctx, rng)
			case r < s.config.BookingRatio+s.config.CancelRatio+s.config.BillRatio:
				s.doBill(ctx, rng)
			default:
				if rng.Intn(2) == 0 {
					s.doReadByID(ctx, rng)
				} else {
					s.doListByPatient(ctx, rng)
				}
			}
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	slot := s.pool.Slots[rng.Intn(len(s.pool.Slots))]
	body := map[string]string{
		"patient_id": s.pool.Patients[rng.Intn(len(s.pool.Patients))],
		"doctor_id":  slot.DoctorID,
		"date":       slot.Date,
		"time":       slot.Time,
	}

	var resp struct {
		Appointment struct {
			ID string `json:"id"`
		} `json:"appointment"`
	}

	start := time.Now()
	status, err := s.call(ctx, http.MethodPost, "/appointments", body, &resp)
	if err == nil && status == http.StatusCreated && resp.Appointment.ID != "" {
		s.pool.AddAppointment(resp.Appointment.ID)
	}
	s.metrics.Booking.Record(time.Since(start), err == nil && status == http.StatusCreated, status == http.StatusConflict)
}

func (s *Simulator) doCancel(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.GetRandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	status, err := s.call(ctx, http.MethodPost, "/appointments/"+id+"/cancel", nil, nil)
	s.metrics.Cancel.Record(time.Since(start), err == nil && status == http.StatusOK, status == http.StatusConflict)
}

func (s *Simulator) doBill(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.GetRandomAppointment(rng)
	if !ok {
		return
	}

	body := map[string]string{"additional_fee": strconv.Itoa(rng.Intn(2000))}
	start := time.Now()
	status, err := s.call(ctx, http.MethodPost, "/appointments/"+id+"/bill", body, nil)
	s.metrics.Bill.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

func (s *Simulator) doReadByID(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.GetRandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	status, err := s.call(ctx, http.MethodGet, "/appointments/"+id, nil, nil)
	s.metrics.ReadByID.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

func (s *Simulator) doListByPatient(ctx context.Context, rng *rand.Rand) {
	id := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	start := time.Now()
	status, err := s.call(ctx, http.MethodGet, "/patients/"+id+"/appointments", nil, nil)
	s.metrics.ListByPatient.Record(time.Since(start), err == nil && status == http.StatusOK, false)
}

// call sends body as JSON and decodes a 2xx response into out when out is
// non-nil. It returns the status code even for non-2xx responses.
func (s *Simulator) call(ctx context.Context, method, path string, body, out any) (int, error) {
	reader := bytes.NewReader(nil)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.APIBaseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// Helper functions

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
