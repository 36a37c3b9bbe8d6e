package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/clinicdesk/scheduling-assistant/internal/extract"
	"github.com/clinicdesk/scheduling-assistant/internal/patient"
	"github.com/clinicdesk/scheduling-assistant/internal/schedule"
	"github.com/clinicdesk/scheduling-assistant/pkg/logging"
)

// Seeds the data directory with synthetic patients and a doctor slot grid so
// the assistant can be exercised without real clinic data.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		dataDir  = flag.String("data", "data", "output directory")
		patients = flag.Int("patients", 50, "number of patients to generate")
		doctors  = flag.Int("doctors", 5, "number of doctors to generate")
		days     = flag.Int("days", 30, "number of days of schedule to generate")
		seed     = flag.Uint64("seed", 0, "random seed (0 uses a random one)")
	)
	flag.Parse()

	if *seed != 0 {
		if err := gofakeit.Seed(*seed); err != nil {
			log.Fatalf("seed rng: %v", err)
		}
	}

	logger := logging.New("info")

	log.Printf("seeding %d patients", *patients)
	if err := seedPatients(filepath.Join(*dataDir, "patients.csv"), *patients, logger); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Printf("seeding %d doctors over %d days", *doctors, *days)
	if err := seedSchedules(filepath.Join(*dataDir, "schedules.xlsx"), *doctors, *days, logger); err != nil {
		log.Fatalf("seed schedules: %v", err)
	}

	log.Println("seed complete")
}

func seedPatients(path string, count int, logger *logging.Logger) error {
	store, err := patient.NewStore(path, logger)
	if err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		dob := gofakeit.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC),
		)
		kind := patient.TypeReturning
		if gofakeit.Number(0, 9) < 2 {
			kind = patient.TypeNew
		}
		p := patient.Patient{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			DOB:       dob.Format("01/02/2006"),
			Phone:     extract.FormatPhone(gofakeit.Phone()),
			Email:     gofakeit.Email(),
			Type:      kind,
		}
		if _, err := store.Register(p); err != nil {
			return err
		}
	}
	return nil
}

func seedSchedules(path string, doctorCount, days int, logger *logging.Logger) error {
	store, err := schedule.NewStore(path, logger)
	if err != nil {
		return err
	}

	names := make([]string, 0, doctorCount)
	for i := 0; i < doctorCount; i++ {
		names = append(names, fmt.Sprintf("Dr. %s %s", gofakeit.FirstName(), gofakeit.LastName()))
	}

	// Half-hour grid, weekdays 09:00-16:30, with a slice already booked so
	// conversations hit realistic availability.
	var slots []schedule.Slot
	start := time.Now()
	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for _, doctor := range names {
			for halfHour := 0; halfHour < 16; halfHour++ {
				at := time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, time.UTC).
					Add(time.Duration(halfHour) * 30 * time.Minute)
				slots = append(slots, schedule.Slot{
					Doctor:    doctor,
					Date:      date.Format(schedule.DateLayout),
					Time:      at.Format(schedule.TimeLayout),
					Available: gofakeit.Number(0, 9) < 7,
				})
			}
		}
	}
	store.Replace(slots)
	return nil
}
