package factory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"clinic/internal/config"
	"clinic/internal/database"
	"clinic/internal/database/migration"
	"clinic/internal/model"
	"clinic/internal/repository"
	"clinic/internal/repository/file"
	"clinic/internal/repository/instrumented"
	"clinic/internal/repository/memory"
	"clinic/internal/repository/postgres"
	"clinic/internal/storage"
)

const (
	entityPatient     = "patient"
	entityAppointment = "appointment"
)

// openDB is swapped in tests.
var openDB = database.Open

// Repositories is the pair of repositories selected by configuration.
type Repositories struct {
	Patients     repository.PatientRepository
	Appointments repository.AppointmentRepository
	closers      []io.Closer
}

// Close releases every repository that holds resources.
func (r *Repositories) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open builds both repositories for cfg.Repository.Type and wraps them with instrumentation.
// metrics may be nil.
func Open(ctx context.Context, cfg *config.AppConfig, log *zap.Logger, metrics *instrumented.Metrics) (*Repositories, error) {
	if err := cfg.Repository.Validate(); err != nil {
		return nil, err
	}

	var (
		patients     repository.PatientRepository
		appointments repository.AppointmentRepository
		db           *sql.DB
		err          error
	)
	rc := cfg.Repository
	switch rc.Type {
	case config.TypeInMemory:
		patients = memory.New[int, model.Patient]()
		appointments = memory.New[int, model.Appointment]()
	case config.TypeTextFile:
		patients, appointments, err = openFiles(ctx, rc, file.PatientText{}, file.AppointmentText{})
	case config.TypeBinaryFile:
		patients, appointments, err = openFiles(ctx, rc, file.PatientBinary{}, file.AppointmentBinary{})
	case config.TypeJSON:
		patients, appointments, err = openFiles(ctx, rc, file.JSON[model.Patient]{}, file.JSON[model.Appointment]{})
	case config.TypeXML:
		patients, appointments, err = openFiles(ctx, rc, file.PatientXML(), file.AppointmentXML())
	case config.TypeDatabase:
		db, patients, appointments, err = openDatabase(ctx, cfg, log)
	}
	if err != nil {
		return nil, err
	}

	opts := []instrumented.Option{instrumented.WithLogger(log)}
	p := instrumented.Wrap[int, model.Patient](patients, rc.Type, entityPatient, metrics, opts...)
	a := instrumented.Wrap[int, model.Appointment](appointments, rc.Type, entityAppointment, metrics, opts...)

	log.Info("repositories ready",
		zap.String("type", rc.Type),
		zap.String("patients", redact(rc.Type, rc.PatientsLocation)),
		zap.String("appointments", redact(rc.Type, rc.AppointmentsLocation)),
	)
	closers := []io.Closer{p, a}
	if db != nil {
		// Both postgres repositories share db; close the pool once.
		closers = []io.Closer{db}
	}
	return &Repositories{Patients: p, Appointments: a, closers: closers}, nil
}

func openFiles(ctx context.Context, rc config.RepositoryConfig, pc file.Codec[model.Patient], ac file.Codec[model.Appointment]) (repository.PatientRepository, repository.AppointmentRepository, error) {
	store := storage.NewLocal()
	patients, err := file.New[int, model.Patient](ctx, store, rc.PatientsLocation, pc)
	if err != nil {
		return nil, nil, fmt.Errorf("open patients %s: %w", rc.PatientsLocation, err)
	}
	appointments, err := file.New[int, model.Appointment](ctx, store, rc.AppointmentsLocation, ac)
	if err != nil {
		return nil, nil, fmt.Errorf("open appointments %s: %w", rc.AppointmentsLocation, err)
	}
	return patients, appointments, nil
}

// openDatabase opens one pool for both repositories. The appointments table references
// patients by foreign key and reads join them, so both tables live in the same database.
func openDatabase(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*sql.DB, repository.PatientRepository, repository.AppointmentRepository, error) {
	db, err := openDB(ctx, cfg.Repository.PatientsLocation, cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: open database: %w", repository.ErrIO, err)
	}
	if err := migration.EnsurePatients(ctx, db, log); err != nil {
		return nil, nil, nil, closeOnError(fmt.Errorf("%w: %w", repository.ErrIO, err), db)
	}
	if err := migration.EnsureAppointments(ctx, db, log); err != nil {
		return nil, nil, nil, closeOnError(fmt.Errorf("%w: %w", repository.ErrIO, err), db)
	}
	return db, postgres.NewPatientPostgres(db), postgres.NewAppointmentPostgres(db), nil
}

func closeOnError(err error, db *sql.DB) error {
	if cerr := db.Close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// redact keeps connection strings out of logs.
func redact(typ, location string) string {
	if typ == config.TypeDatabase && location != "" {
		return "<dsn>"
	}
	return location
}
