package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"clinic/internal/model"
	"clinic/internal/repository"
)

// AppointmentPostgres stores appointments with a patient_id foreign key. Reads join the
// patients table to rebuild the embedded Patient; writes store only the patient id.
type AppointmentPostgres struct {
	db *sql.DB
}

// NewAppointmentPostgres creates a new AppointmentPostgres repository. db must also hold
// the patients table.
func NewAppointmentPostgres(db *sql.DB) *AppointmentPostgres {
	return &AppointmentPostgres{db: db}
}

var _ repository.AppointmentRepository = (*AppointmentPostgres)(nil)

const selectAppointments = `
	SELECT a.id, a.date, p.id, p.name, p.email, p.disease
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
`

func scanAppointment(s interface{ Scan(dest ...any) error }) (model.Appointment, error) {
	var a model.Appointment
	err := s.Scan(&a.ID, &a.Date, &a.Patient.ID, &a.Patient.Name, &a.Patient.Email, &a.Patient.Disease)
	return a, err
}

// Add inserts a row referencing a.Patient.ID; the patient must already exist in patients.
func (r *AppointmentPostgres) Add(ctx context.Context, a model.Appointment) error {
	const q = `
		INSERT INTO appointments (id, patient_id, date)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, q, a.ID, a.Patient.ID, a.Date)
	if err != nil {
		return ioErr("insert appointment", a.ID, err)
	}
	return insertedOne(res, "insert appointment", a.ID)
}

// Get fetches one appointment joined with its patient.
func (r *AppointmentPostgres) Get(ctx context.Context, id int) (model.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRowContext(ctx, selectAppointments+` WHERE a.id = $1`, id))
	if err != nil {
		return model.Appointment{}, scanErr("get appointment", id, err)
	}
	return a, nil
}

// Remove deletes the appointment row; a missing id yields ErrNotFound.
func (r *AppointmentPostgres) Remove(ctx context.Context, id int) error {
	const q = `DELETE FROM appointments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return ioErr("delete appointment", id, err)
	}
	return affectOne(res, "delete appointment", id)
}

// Update rewrites patient_id and date; a missing id yields ErrNotFound.
func (r *AppointmentPostgres) Update(ctx context.Context, a model.Appointment) error {
	const q = `
		UPDATE appointments
		SET patient_id = $2, date = $3
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, a.ID, a.Patient.ID, a.Date)
	if err != nil {
		return ioErr("update appointment", a.ID, err)
	}
	return affectOne(res, "update appointment", a.ID)
}

// ListAll returns every appointment ordered by id.
func (r *AppointmentPostgres) ListAll(ctx context.Context) ([]model.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, selectAppointments+` ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list appointments: %w", repository.ErrIO, err)
	}
	defer rows.Close()

	items := make([]model.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan appointment: %w", repository.ErrIO, err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list appointments: %w", repository.ErrIO, err)
	}
	return items, nil
}

// Close releases the database connection pool.
func (r *AppointmentPostgres) Close() error {
	return r.db.Close()
}
