package file

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clinic/internal/model"
	"clinic/internal/repository"
	"clinic/internal/storage"
	storeMocks "clinic/internal/storage/mocks"
)

func samplePatients() []model.Patient {
	return []model.Patient{
		{ID: 1, Name: "Alex", Email: "alex123@gmail.com", Disease: "Cold"},
		{ID: 2, Name: "Alice", Email: "alice456@gmail.com", Disease: "Cold"},
		{ID: 3, Name: "Mike, Jr.", Email: "mike789@gmail.com", Disease: "Flu \"B\""},
	}
}

func sampleAppointments() []model.Appointment {
	out := make([]model.Appointment, 0, 3)
	for i, p := range samplePatients() {
		out = append(out, model.Appointment{ID: i + 1, Patient: p, Date: model.NewDate(2023, time.January, 1+i)})
	}
	return out
}

func patientCodecs() map[string]Codec[model.Patient] {
	return map[string]Codec[model.Patient]{
		"text":   PatientText{},
		"binary": PatientBinary{},
		"json":   JSON[model.Patient]{},
		"xml":    PatientXML(),
	}
}

func appointmentCodecs() map[string]Codec[model.Appointment] {
	return map[string]Codec[model.Appointment]{
		"text":   AppointmentText{},
		"binary": AppointmentBinary{},
		"json":   JSON[model.Appointment]{},
		"xml":    AppointmentXML(),
	}
}

func TestRepository_PatientRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, codec := range patientCodecs() {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "patients."+name)
			store := storage.NewLocal()

			repo, err := New[int, model.Patient](ctx, store, path, codec)
			require.NoError(t, err)
			for _, p := range samplePatients() {
				require.NoError(t, repo.Add(ctx, p))
			}

			reopened, err := New[int, model.Patient](ctx, store, path, codec)
			require.NoError(t, err)
			all, err := reopened.ListAll(ctx)
			require.NoError(t, err)
			assert.Equal(t, samplePatients(), all)
		})
	}
}

func TestRepository_AppointmentRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, codec := range appointmentCodecs() {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "appointments."+name)
			store := storage.NewLocal()

			repo, err := New[int, model.Appointment](ctx, store, path, codec)
			require.NoError(t, err)
			for _, a := range sampleAppointments() {
				require.NoError(t, repo.Add(ctx, a))
			}
			require.NoError(t, repo.Remove(ctx, 2))
			moved := sampleAppointments()[0]
			moved.Date = model.NewDate(2025, time.June, 30)
			require.NoError(t, repo.Update(ctx, moved))

			reopened, err := New[int, model.Appointment](ctx, store, path, codec)
			require.NoError(t, err)
			all, err := reopened.ListAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.True(t, moved.Equal(all[0]))
			assert.True(t, sampleAppointments()[2].Equal(all[1]))
		})
	}
}

func TestRepository_CRUDErrors(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "patients.json")
	repo, err := New[int, model.Patient](ctx, storage.NewLocal(), path, JSON[model.Patient]{})
	require.NoError(t, err)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	alex := samplePatients()[0]
	require.NoError(t, repo.Add(ctx, alex))
	err = repo.Add(ctx, model.Patient{ID: 1, Name: "Impostor"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, alex, got)

	_, err = repo.Get(ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Remove(ctx, 99), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, model.Patient{ID: 99}), repository.ErrNotFound)
}

func TestRepository_EmptySourceStartsEmpty(t *testing.T) {
	ctx := context.Background()
	for name, codec := range patientCodecs() {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "patients")
			require.NoError(t, os.WriteFile(path, nil, 0o644))

			repo, err := New[int, model.Patient](ctx, storage.NewLocal(), path, codec)
			require.NoError(t, err)
			all, err := repo.ListAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestRepository_MalformedSource(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		codec   Codec[model.Patient]
		content string
	}{
		{name: "text short line", codec: PatientText{}, content: "1,Alex,alex123@gmail.com\n"},
		{name: "text bad id", codec: PatientText{}, content: "one,Alex,alex123@gmail.com,Cold\n"},
		{name: "text duplicate key", codec: PatientText{}, content: "1,Alex,a@x,Cold\n1,Alice,b@x,Cold\n"},
		{name: "binary wrong magic", codec: PatientBinary{}, content: "NOPE\x01"},
		{name: "binary truncated", codec: PatientBinary{}, content: "CLNC\x01\x0a\x20\x08"},
		{name: "binary bad version", codec: PatientBinary{}, content: "CLNC\x09"},
		{name: "json syntax", codec: JSON[model.Patient]{}, content: `[{"id": 1,`},
		{name: "json not array", codec: JSON[model.Patient]{}, content: `{"id": 1}`},
		{name: "xml unclosed", codec: PatientXML(), content: "<patients><patient><id>1</id></patient>"},
		{name: "xml wrong root", codec: PatientXML(), content: "<people></people>"},
		{name: "xml bad id", codec: PatientXML(), content: "<patients><patient><id>x</id></patient></patients>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "patients")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			repo, err := New[int, model.Patient](ctx, storage.NewLocal(), path, tt.codec)
			assert.ErrorIs(t, err, repository.ErrMalformedSource)
			assert.Nil(t, repo)
		})
	}
}

func TestRepository_MalformedAppointmentDate(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "appointments.txt")
	require.NoError(t, os.WriteFile(path, []byte("1,1,Alex,alex123@gmail.com,Cold,2023/01/01\n"), 0o644))

	_, err := New[int, model.Appointment](ctx, storage.NewLocal(), path, AppointmentText{})
	assert.ErrorIs(t, err, repository.ErrMalformedSource)
	assert.Contains(t, err.Error(), "line 1")
}

func TestRepository_AppointmentWithoutDate(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		codec   Codec[model.Appointment]
		content string
	}{
		{
			name:    "json",
			codec:   JSON[model.Appointment]{},
			content: `[{"id":1,"patient":{"id":1,"name":"Alex","email":"alex123@gmail.com","disease":"Cold"}}]`,
		},
		{
			name:    "xml",
			codec:   AppointmentXML(),
			content: "<appointments><appointment><id>1</id><patient><id>1</id><name>Alex</name></patient></appointment></appointments>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "appointments")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			repo, err := New[int, model.Appointment](ctx, storage.NewLocal(), path, tt.codec)
			assert.ErrorIs(t, err, repository.ErrMalformedSource)
			assert.ErrorIs(t, err, model.ErrMissingDate)
			assert.Nil(t, repo)
		})
	}
}

func TestRepository_LoadIOFailure(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mStore.On("Get", ctx, "patients.bin").Return(nil, errors.New("permission denied"))

	repo, err := New[int, model.Patient](ctx, mStore, "patients.bin", PatientBinary{})
	assert.ErrorIs(t, err, repository.ErrIO)
	assert.Nil(t, repo)
	mStore.AssertExpectations(t)
}

func TestRepository_FlushFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	ps := samplePatients()
	seed, err := PatientText{}.Encode(ps[:2])
	require.NoError(t, err)

	mStore := new(storeMocks.MockStorage)
	mStore.On("Get", ctx, "patients.txt").
		Return(io.NopCloser(strings.NewReader(string(seed))), nil)
	mStore.On("Put", ctx, "patients.txt", mock.Anything).Return(errors.New("disk full"))

	repo, err := New[int, model.Patient](ctx, mStore, "patients.txt", PatientText{})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Add(ctx, ps[2]), repository.ErrIO)
	assert.ErrorIs(t, repo.Remove(ctx, 1), repository.ErrIO)
	assert.ErrorIs(t, repo.Update(ctx, model.Patient{ID: 2, Name: "Changed"}), repository.ErrIO)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, ps[:2], all)
	mStore.AssertNumberOfCalls(t, "Put", 3)
}

func TestRepository_LogicalErrorsSkipFlush(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mStore.On("Get", ctx, "p.json").Return(nil, storage.ErrObjectNotFound)
	mStore.On("Put", ctx, "p.json", mock.Anything).Return(nil).Once()

	repo, err := New[int, model.Patient](ctx, mStore, "p.json", JSON[model.Patient]{})
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, samplePatients()[0]))

	assert.ErrorIs(t, repo.Add(ctx, samplePatients()[0]), repository.ErrDuplicateKey)
	assert.ErrorIs(t, repo.Remove(ctx, 42), repository.ErrNotFound)
	mStore.AssertExpectations(t)
	mStore.AssertNumberOfCalls(t, "Put", 1)
}
