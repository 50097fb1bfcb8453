package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"clinic/internal/model"
	"clinic/internal/repository"
	"clinic/internal/repository/memory"
	repoMocks "clinic/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alex  = model.Patient{ID: 1, Name: "Alex", Email: "alex123@gmail.com", Disease: "Cold"}
	alice = model.Patient{ID: 2, Name: "Alice", Email: "alice456@gmail.com", Disease: "Cold"}
	mike  = model.Patient{ID: 3, Name: "Mike", Email: "mike789@gmail.com", Disease: "Flu"}
)

func seeded(t *testing.T) ClinicService {
	t.Helper()
	ctx := context.Background()
	patients := memory.New[int, model.Patient]()
	appointments := memory.New[int, model.Appointment]()
	for i, p := range []model.Patient{alex, alice, mike} {
		require.NoError(t, patients.Add(ctx, p))
		require.NoError(t, appointments.Add(ctx, model.Appointment{ID: i + 1, Patient: p, Date: model.NewDate(2023, time.January, 1)}))
	}
	return NewClinicService(patients, appointments)
}

func ids[T model.Entity[int]](items []T) []int {
	out := make([]int, 0, len(items))
	for _, e := range items {
		out = append(out, e.Key())
	}
	return out
}

func TestClinicService_PatientsWithDisease(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	got, err := svc.PatientsWithDisease(ctx, "Cold")
	require.NoError(t, err)
	assert.Equal(t, []model.Patient{alex, alice}, got)

	got, err = svc.PatientsWithDisease(ctx, "cold")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClinicService_PatientsWithNameSuffix(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	got, err := svc.PatientsWithNameSuffix(ctx, "e")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, ids(got))

	got, err = svc.PatientsWithNameSuffix(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(got))

	got, err = svc.PatientsWithNameSuffix(ctx, "E")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClinicService_EmailByID(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	email, err := svc.EmailByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alex123@gmail.com", email)

	_, err = svc.EmailByID(ctx, 99)
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestClinicService_AppointmentQueries(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	got, err := svc.AppointmentsOfPatient(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, alice, got[0].Patient)

	got, err = svc.AppointmentsBefore(ctx, model.NewDate(2024, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids(got))

	got, err = svc.AppointmentsBefore(ctx, model.NewDate(2022, time.January, 1))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.AppointmentsBefore(ctx, model.NewDate(2023, time.January, 1))
	require.NoError(t, err)
	assert.Empty(t, got, "before is strict")
}

func TestClinicService_AddAppointment(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()
	date := model.NewDate(2025, time.March, 3)

	require.NoError(t, svc.AddAppointment(ctx, 10, 3, date))
	a, err := svc.GetAppointment(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, mike, a.Patient)
	assert.Equal(t, date, a.Date)

	err = svc.AddAppointment(ctx, 11, 42, date)
	assert.ErrorIs(t, err, ErrPatientNotFound)

	err = svc.AddAppointment(ctx, 10, 1, date)
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestClinicService_CRUDPassThrough(t *testing.T) {
	svc := seeded(t)
	ctx := context.Background()

	updated := alex
	updated.Email = "alex@clinic.org"
	require.NoError(t, svc.UpdatePatient(ctx, updated))
	got, err := svc.GetPatient(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, svc.RemovePatient(ctx, 3))
	assert.ErrorIs(t, svc.RemovePatient(ctx, 3), repository.ErrNotFound)
	all, err := svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids(all))

	// Appointments keep the patient copy taken at booking time.
	a, err := svc.GetAppointment(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alex123@gmail.com", a.Patient.Email)

	require.NoError(t, svc.RemoveAppointment(ctx, 1))
	a.ID = 2
	a.Date = model.NewDate(2030, time.May, 5)
	require.NoError(t, svc.UpdateAppointment(ctx, a))
	appts, err := svc.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, ids(appts))
}

func TestClinicService_RepositoryErrors(t *testing.T) {
	ctx := context.Background()
	ioFail := fmt.Errorf("%w: read patients.txt: permission denied", repository.ErrIO)
	dbFail := errors.New("db fail")

	tests := []struct {
		name       string
		setupMocks func(mPatients *repoMocks.MockPatientRepository, mAppointments *repoMocks.MockAppointmentRepository)
		call       func(svc ClinicService) error
		wantErr    error
	}{
		{
			name: "disease filter propagates list error",
			setupMocks: func(mPatients *repoMocks.MockPatientRepository, _ *repoMocks.MockAppointmentRepository) {
				mPatients.On("ListAll", ctx).Return(nil, ioFail)
			},
			call: func(svc ClinicService) error {
				_, err := svc.PatientsWithDisease(ctx, "Cold")
				return err
			},
			wantErr: repository.ErrIO,
		},
		{
			name: "email lookup keeps i/o errors",
			setupMocks: func(mPatients *repoMocks.MockPatientRepository, _ *repoMocks.MockAppointmentRepository) {
				mPatients.On("Get", ctx, 1).Return(nil, ioFail)
			},
			call: func(svc ClinicService) error {
				_, err := svc.EmailByID(ctx, 1)
				return err
			},
			wantErr: repository.ErrIO,
		},
		{
			name: "appointments before propagates list error",
			setupMocks: func(_ *repoMocks.MockPatientRepository, mAppointments *repoMocks.MockAppointmentRepository) {
				mAppointments.On("ListAll", ctx).Return(nil, dbFail)
			},
			call: func(svc ClinicService) error {
				_, err := svc.AppointmentsBefore(ctx, model.NewDate(2024, 1, 1))
				return err
			},
			wantErr: dbFail,
		},
		{
			name: "add appointment does not write when patient lookup fails",
			setupMocks: func(mPatients *repoMocks.MockPatientRepository, _ *repoMocks.MockAppointmentRepository) {
				mPatients.On("Get", ctx, 5).Return(nil, ioFail)
			},
			call: func(svc ClinicService) error {
				return svc.AddAppointment(ctx, 1, 5, model.NewDate(2024, 1, 1))
			},
			wantErr: repository.ErrIO,
		},
		{
			name: "add appointment embeds fetched patient",
			setupMocks: func(mPatients *repoMocks.MockPatientRepository, mAppointments *repoMocks.MockAppointmentRepository) {
				mPatients.On("Get", ctx, 1).Return(alex, nil)
				mAppointments.On("Add", ctx, model.Appointment{ID: 7, Patient: alex, Date: model.NewDate(2024, 1, 1)}).Return(nil)
			},
			call: func(svc ClinicService) error {
				return svc.AddAppointment(ctx, 7, 1, model.NewDate(2024, 1, 1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mPatients := new(repoMocks.MockPatientRepository)
			mAppointments := new(repoMocks.MockAppointmentRepository)
			tt.setupMocks(mPatients, mAppointments)

			err := tt.call(NewClinicService(mPatients, mAppointments))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			mPatients.AssertExpectations(t)
			mAppointments.AssertExpectations(t)
		})
	}
}
