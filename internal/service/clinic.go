package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic/internal/model"
	"clinic/internal/repository"
)

// ErrPatientNotFound is the lookup-state error returned by EmailByID and AddAppointment
// when the patient id is unknown. It does not wrap repository.ErrNotFound.
var ErrPatientNotFound = errors.New("no patient with the given id")

// ClinicService exposes patient and appointment management and the report queries.
// Every call reads through to the repositories; nothing is cached here.
type ClinicService interface {
	AddPatient(ctx context.Context, p model.Patient) error
	GetPatient(ctx context.Context, id int) (model.Patient, error)
	UpdatePatient(ctx context.Context, p model.Patient) error
	RemovePatient(ctx context.Context, id int) error
	ListPatients(ctx context.Context) ([]model.Patient, error)

	// AddAppointment books patientID on date, embedding the patient as currently stored.
	AddAppointment(ctx context.Context, id, patientID int, date model.Date) error
	GetAppointment(ctx context.Context, id int) (model.Appointment, error)
	UpdateAppointment(ctx context.Context, a model.Appointment) error
	RemoveAppointment(ctx context.Context, id int) error
	ListAppointments(ctx context.Context) ([]model.Appointment, error)

	// PatientsWithDisease returns patients whose disease equals disease exactly.
	PatientsWithDisease(ctx context.Context, disease string) ([]model.Patient, error)
	// PatientsWithNameSuffix returns patients whose name ends with suffix (case-sensitive).
	PatientsWithNameSuffix(ctx context.Context, suffix string) ([]model.Patient, error)
	// EmailByID returns the patient's email, or ErrPatientNotFound.
	EmailByID(ctx context.Context, id int) (string, error)
	// AppointmentsOfPatient returns appointments whose patient id is patientID.
	AppointmentsOfPatient(ctx context.Context, patientID int) ([]model.Appointment, error)
	// AppointmentsBefore returns appointments dated strictly before date.
	AppointmentsBefore(ctx context.Context, date model.Date) ([]model.Appointment, error)
}

// clinicService is a concrete implementation of ClinicService.
type clinicService struct {
	patients     repository.PatientRepository
	appointments repository.AppointmentRepository
}

// NewClinicService constructs a new ClinicService over the given repositories.
func NewClinicService(patients repository.PatientRepository, appointments repository.AppointmentRepository) ClinicService {
	return &clinicService{patients: patients, appointments: appointments}
}

func (s *clinicService) AddPatient(ctx context.Context, p model.Patient) error {
	return s.patients.Add(ctx, p)
}

func (s *clinicService) GetPatient(ctx context.Context, id int) (model.Patient, error) {
	return s.patients.Get(ctx, id)
}

func (s *clinicService) UpdatePatient(ctx context.Context, p model.Patient) error {
	return s.patients.Update(ctx, p)
}

func (s *clinicService) RemovePatient(ctx context.Context, id int) error {
	return s.patients.Remove(ctx, id)
}

func (s *clinicService) ListPatients(ctx context.Context) ([]model.Patient, error) {
	return s.patients.ListAll(ctx)
}

func (s *clinicService) AddAppointment(ctx context.Context, id, patientID int, date model.Date) error {
	p, err := s.patients.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrPatientNotFound, patientID)
		}
		return err
	}
	return s.appointments.Add(ctx, model.Appointment{ID: id, Patient: p, Date: date})
}

func (s *clinicService) GetAppointment(ctx context.Context, id int) (model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

func (s *clinicService) UpdateAppointment(ctx context.Context, a model.Appointment) error {
	return s.appointments.Update(ctx, a)
}

func (s *clinicService) RemoveAppointment(ctx context.Context, id int) error {
	return s.appointments.Remove(ctx, id)
}

func (s *clinicService) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	return s.appointments.ListAll(ctx)
}

func (s *clinicService) PatientsWithDisease(ctx context.Context, disease string) ([]model.Patient, error) {
	return filter(ctx, s.patients, func(p model.Patient) bool {
		return p.Disease == disease
	})
}

func (s *clinicService) PatientsWithNameSuffix(ctx context.Context, suffix string) ([]model.Patient, error) {
	return filter(ctx, s.patients, func(p model.Patient) bool {
		return strings.HasSuffix(p.Name, suffix)
	})
}

func (s *clinicService) EmailByID(ctx context.Context, id int) (string, error) {
	p, err := s.patients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: %d", ErrPatientNotFound, id)
		}
		return "", err
	}
	return p.Email, nil
}

func (s *clinicService) AppointmentsOfPatient(ctx context.Context, patientID int) ([]model.Appointment, error) {
	return filter(ctx, s.appointments, func(a model.Appointment) bool {
		return a.Patient.ID == patientID
	})
}

func (s *clinicService) AppointmentsBefore(ctx context.Context, date model.Date) ([]model.Appointment, error) {
	return filter(ctx, s.appointments, func(a model.Appointment) bool {
		return a.Date.Before(date)
	})
}

// filter keeps the repository's iteration order.
func filter[ID comparable, T model.Entity[ID]](ctx context.Context, repo repository.Repository[ID, T], keep func(T) bool) ([]T, error) {
	all, err := repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(all))
	for _, e := range all {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}
