package mocks

import (
	"context"

	"clinic/internal/model"
	"clinic/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockClinicService struct {
	mock.Mock
}

var _ service.ClinicService = (*MockClinicService)(nil)

func (m *MockClinicService) AddPatient(ctx context.Context, p model.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockClinicService) GetPatient(ctx context.Context, id int) (model.Patient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return model.Patient{}, args.Error(1)
	}
	return args.Get(0).(model.Patient), args.Error(1)
}

func (m *MockClinicService) UpdatePatient(ctx context.Context, p model.Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockClinicService) RemovePatient(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClinicService) ListPatients(ctx context.Context) ([]model.Patient, error) {
	args := m.Called(ctx)
	return patients(args)
}

func (m *MockClinicService) AddAppointment(ctx context.Context, id, patientID int, date model.Date) error {
	args := m.Called(ctx, id, patientID, date)
	return args.Error(0)
}

func (m *MockClinicService) GetAppointment(ctx context.Context, id int) (model.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return model.Appointment{}, args.Error(1)
	}
	return args.Get(0).(model.Appointment), args.Error(1)
}

func (m *MockClinicService) UpdateAppointment(ctx context.Context, a model.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockClinicService) RemoveAppointment(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClinicService) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	args := m.Called(ctx)
	return appointments(args)
}

func (m *MockClinicService) PatientsWithDisease(ctx context.Context, disease string) ([]model.Patient, error) {
	args := m.Called(ctx, disease)
	return patients(args)
}

func (m *MockClinicService) PatientsWithNameSuffix(ctx context.Context, suffix string) ([]model.Patient, error) {
	args := m.Called(ctx, suffix)
	return patients(args)
}

func (m *MockClinicService) EmailByID(ctx context.Context, id int) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockClinicService) AppointmentsOfPatient(ctx context.Context, patientID int) ([]model.Appointment, error) {
	args := m.Called(ctx, patientID)
	return appointments(args)
}

func (m *MockClinicService) AppointmentsBefore(ctx context.Context, date model.Date) ([]model.Appointment, error) {
	args := m.Called(ctx, date)
	return appointments(args)
}

func patients(args mock.Arguments) ([]model.Patient, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Patient), args.Error(1)
}

func appointments(args mock.Arguments) ([]model.Appointment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Appointment), args.Error(1)
}
