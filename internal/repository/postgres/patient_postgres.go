package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"clinic/internal/model"
	"clinic/internal/repository"
)

// PatientPostgres stores patients in the patients table.
// Close closes db, which may be shared with an AppointmentPostgres.
type PatientPostgres struct {
	db *sql.DB
}

// NewPatientPostgres creates a new PatientPostgres repository.
func NewPatientPostgres(db *sql.DB) *PatientPostgres {
	return &PatientPostgres{db: db}
}

var _ repository.PatientRepository = (*PatientPostgres)(nil)

// Add inserts a row; an existing id yields ErrDuplicateKey.
func (r *PatientPostgres) Add(ctx context.Context, p model.Patient) error {
	const q = `
		INSERT INTO patients (id, name, email, disease)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.Email, p.Disease)
	if err != nil {
		return ioErr("insert patient", p.ID, err)
	}
	return insertedOne(res, "insert patient", p.ID)
}

// Get fetches a single patient by id.
func (r *PatientPostgres) Get(ctx context.Context, id int) (model.Patient, error) {
	const q = `
		SELECT id, name, email, disease
		FROM patients
		WHERE id = $1
	`
	var p model.Patient
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.Email, &p.Disease); err != nil {
		return model.Patient{}, scanErr("get patient", id, err)
	}
	return p, nil
}

// Remove deletes the patient row. Patients still referenced by appointments cannot be removed.
func (r *PatientPostgres) Remove(ctx context.Context, id int) error {
	const q = `DELETE FROM patients WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return ioErr("delete patient", id, err)
	}
	return affectOne(res, "delete patient", id)
}

// Update overwrites every column of the patient with p's id.
func (r *PatientPostgres) Update(ctx context.Context, p model.Patient) error {
	const q = `
		UPDATE patients
		SET name = $2, email = $3, disease = $4
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.Email, p.Disease)
	if err != nil {
		return ioErr("update patient", p.ID, err)
	}
	return affectOne(res, "update patient", p.ID)
}

// ListAll returns every patient ordered by id.
func (r *PatientPostgres) ListAll(ctx context.Context) ([]model.Patient, error) {
	const q = `
		SELECT id, name, email, disease
		FROM patients
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: list patients: %w", repository.ErrIO, err)
	}
	defer rows.Close()

	items := make([]model.Patient, 0)
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Disease); err != nil {
			return nil, fmt.Errorf("%w: scan patient: %w", repository.ErrIO, err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list patients: %w", repository.ErrIO, err)
	}
	return items, nil
}

// Close releases the database connection pool.
func (r *PatientPostgres) Close() error {
	return r.db.Close()
}
