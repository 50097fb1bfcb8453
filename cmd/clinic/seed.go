package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"clinic/internal/model"
	"clinic/internal/repository"
)

var samplePatients = []model.Patient{
	{ID: 1, Name: "Alex", Email: "alex123@gmail.com", Disease: "Cold"},
	{ID: 2, Name: "Alice", Email: "alice456@gmail.com", Disease: "Cold"},
	{ID: 3, Name: "Mike", Email: "mike789@gmail.com", Disease: "Flu"},
}

// seed adds the sample patients and one appointment each on 2023-01-01.
// Keys already present in a durable source are left as they are.
func seed(ctx context.Context, patients repository.PatientRepository, appointments repository.AppointmentRepository, log *zap.Logger) error {
	date := model.NewDate(2023, time.January, 1)
	skipped := 0

	for i, p := range samplePatients {
		if err := patients.Add(ctx, p); err != nil {
			if !errors.Is(err, repository.ErrDuplicateKey) {
				return err
			}
			skipped++
		}
		a := model.Appointment{ID: i + 1, Patient: p, Date: date}
		if err := appointments.Add(ctx, a); err != nil {
			if !errors.Is(err, repository.ErrDuplicateKey) {
				return err
			}
			skipped++
		}
	}

	log.Info("sample data seeded", zap.Int("skipped_existing", skipped))
	return nil
}
