package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic/internal/model"
	"clinic/internal/repository"
)

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := New[int, model.Patient]()

	alex := model.Patient{ID: 1, Name: "Alex", Email: "alex123@gmail.com", Disease: "Cold"}
	require.NoError(t, repo.Add(ctx, alex))

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, alex, got)

	err = repo.Add(ctx, model.Patient{ID: 1, Name: "Impostor"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	got, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, alex, got)

	alex.Disease = "Flu"
	require.NoError(t, repo.Update(ctx, alex))
	got, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Flu", got.Disease)

	require.NoError(t, repo.Remove(ctx, 1))
	_, err = repo.Get(ctx, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_MissingKeys(t *testing.T) {
	ctx := context.Background()
	repo := New[int, model.Appointment]()

	_, err := repo.Get(ctx, 5)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Remove(ctx, 5), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, model.Appointment{ID: 5}), repository.ErrNotFound)
}

func TestRepository_ListAll(t *testing.T) {
	ctx := context.Background()
	repo := New[int, model.Patient]()

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, id := range []int{3, 1, 2} {
		require.NoError(t, repo.Add(ctx, model.Patient{ID: id}))
	}
	all, err = repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{all[0].ID, all[1].ID, all[2].ID})
}
