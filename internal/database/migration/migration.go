package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// plan creates one table and whatever it depends on. Sentinel is the table whose presence
// means the plan has already been applied.
type plan struct {
	Sentinel string
	Steps    []migrationStep
}

var patientSteps = []migrationStep{
	{
		Name: "create_table_patients",
		SQL: `CREATE TABLE IF NOT EXISTS patients (
  id      INTEGER PRIMARY KEY,
  name    TEXT    NOT NULL,
  email   TEXT    NOT NULL,
  disease TEXT    NOT NULL
);`,
	},
}

var appointmentSteps = []migrationStep{
	{
		Name: "create_table_appointments",
		SQL: `CREATE TABLE IF NOT EXISTS appointments (
  id         INTEGER PRIMARY KEY,
  patient_id INTEGER NOT NULL REFERENCES patients (id),
  date       DATE    NOT NULL
);`,
	},
	{
		Name: "create_index_appointments_patient_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_appointments_patient_id ON appointments (patient_id);`,
	},
	{
		Name: "create_index_appointments_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments (date);`,
	},
}

// EnsurePatients creates the patients table if it does not exist.
func EnsurePatients(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	return ensure(ctx, db, log, plan{Sentinel: "patients", Steps: patientSteps})
}

// EnsureAppointments creates the appointments table, and the patients table it references.
func EnsureAppointments(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	steps := append(append([]migrationStep{}, patientSteps...), appointmentSteps...)
	return ensure(ctx, db, log, plan{Sentinel: "appointments", Steps: steps})
}

func ensure(ctx context.Context, db *sql.DB, log *zap.Logger, p plan) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("table", p.Sentinel))

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	if err := db.QueryRowContext(ctx, query, "public."+p.Sentinel).Scan(&exists); err != nil {
		log.Error("db migration check failed", zap.Error(err))
		return fmt.Errorf("failed to check sentinel table %s: %w", p.Sentinel, err)
	}
	if exists {
		log.Debug("schema already exists, skipping migration", zap.Duration("duration", time.Since(start)))
		return nil
	}

	log.Info("db migration start")
	for _, step := range p.Steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db migration step failed",
				zap.String("migration_step", step.Name),
				zap.Duration("step_duration", time.Since(stepStart)),
				zap.Error(err),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db migration step",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration", time.Since(stepStart)),
		)
	}

	log.Info("db migration success", zap.Duration("duration", time.Since(start)))
	return nil
}
