package mocks

import (
	"context"

	"clinic/internal/model"
	"clinic/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockRepository[ID comparable, T model.Entity[ID]] struct {
	mock.Mock
}

type MockPatientRepository = MockRepository[int, model.Patient]

type MockAppointmentRepository = MockRepository[int, model.Appointment]

var (
	_ repository.PatientRepository     = (*MockPatientRepository)(nil)
	_ repository.AppointmentRepository = (*MockAppointmentRepository)(nil)
)

func (m *MockRepository[ID, T]) Add(ctx context.Context, entity T) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockRepository[ID, T]) Get(ctx context.Context, id ID) (T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		var zero T
		return zero, args.Error(1)
	}
	return args.Get(0).(T), args.Error(1)
}

func (m *MockRepository[ID, T]) Remove(ctx context.Context, id ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository[ID, T]) Update(ctx context.Context, entity T) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockRepository[ID, T]) ListAll(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}
