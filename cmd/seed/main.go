package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hackgods/hospital-scheduling/internal/logging"
)

var specialities = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

type seedConfig struct {
	APIBaseURL  string
	Doctors     int
	Patients    int
	SlotsPerDoc int
	Concurrency int
}

func main() {
	log := logging.New(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "text"))
	log.Info("seed starting")

	cfg := seedConfig{
		APIBaseURL:  strings.TrimRight(getEnv("SEED_API_BASE_URL", "http://localhost:8080"), "/"),
		Doctors:     getInt("SEED_DOCTORS", 20),
		Patients:    getInt("SEED_PATIENTS", 200),
		SlotsPerDoc: getInt("SEED_SLOTS_PER_DOCTOR", 12),
		Concurrency: getInt("SEED_CONCURRENCY", 8),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	faker := gofakeit.New(uint64(time.Now().UnixNano()))
	client := &http.Client{Timeout: 10 * time.Second}

	if err := seedDoctors(ctx, log, client, faker, cfg); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedPatients(ctx, log, client, faker, cfg); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Info("seed complete")
}

func seedDoctors(ctx context.Context, log *logrus.Logger, client *http.Client, faker *gofakeit.Faker, cfg seedConfig) error {
	log.Infof("seeding %d doctors", cfg.Doctors)

	// the faker is not safe for concurrent use, so bodies are built up front
	bodies := make([]map[string]any, 0, cfg.Doctors)
	for i := 0; i < cfg.Doctors; i++ {
		bodies = append(bodies, map[string]any{
			"name":       personName(faker),
			"age":        faker.Number(30, 75),
			"gender":     faker.Gender(),
			"speciality": specialities[faker.Number(0, len(specialities)-1)],
			"slots":      slots(faker, cfg.SlotsPerDoc),
		})
	}

	return postAll(ctx, client, cfg, "/doctors", bodies)
}

func seedPatients(ctx context.Context, log *logrus.Logger, client *http.Client, faker *gofakeit.Faker, cfg seedConfig) error {
	log.Infof("seeding %d patients", cfg.Patients)

	bodies := make([]map[string]any, 0, cfg.Patients)
	for i := 0; i < cfg.Patients; i++ {
		bodies = append(bodies, map[string]any{
			"name":   personName(faker),
			"age":    faker.Number(1, 100),
			"gender": faker.Gender(),
		})
	}

	return postAll(ctx, client, cfg, "/patients", bodies)
}

func postAll(ctx context.Context, client *http.Client, cfg seedConfig, path string, bodies []map[string]any) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for _, body := range bodies {
		g.Go(func() error {
			return post(ctx, client, cfg.APIBaseURL+path, body)
		})
	}

	return g.Wait()
}

func post(ctx context.Context, client *http.Client, url string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("POST %s: %d %s %s", url, resp.StatusCode, apiErr.Error, apiErr.Details)
	}
	return nil
}

// personName keeps only letters and spaces so generated names always pass
// registration.
func personName(faker *gofakeit.Faker) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, faker.Name())
	if strings.TrimSpace(clean) == "" {
		return "Alex Morgan"
	}
	return clean
}

// slots returns n distinct half hour slots on weekdays over the coming weeks.
func slots(faker *gofakeit.Faker, n int) []string {
	// 20 weekdays with 16 slots each
	n = min(n, 320)
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	start := time.Now().AddDate(0, 0, 1)

	for len(out) < n {
		day := start.AddDate(0, 0, faker.Number(0, 27))
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		slot := fmt.Sprintf("%s %02d:%02d", day.Format("2006-01-02"), faker.Number(9, 16), 30*faker.Number(0, 1))
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		out = append(out, slot)
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
