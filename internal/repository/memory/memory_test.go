package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/internal/repository"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Hour)
	s := model.NewIntakeSession(time.Now())

	require.NoError(t, repo.Create(ctx, s))
	assert.ErrorIs(t, repo.Create(ctx, s), repository.ErrAlreadyExists)
	assert.Equal(t, 1, repo.Count())

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Record.PHQ9, got.Record.PHQ9)

	// Mutating the returned copy does not touch the stored one.
	got.Record.PatientName = "Jane Doe"
	again, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Record.PatientName)

	got.Step = 3
	require.NoError(t, repo.Update(ctx, got))
	again, err = repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Step)
	assert.Equal(t, "Jane Doe", again.Record.PatientName)

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, got), repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, s.ID), repository.ErrNotFound)
}

func TestSessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(20 * time.Millisecond)
	s := model.NewIntakeSession(time.Now())
	require.NoError(t, repo.Create(ctx, s))

	assert.Eventually(t, func() bool {
		_, err := repo.Get(ctx, s.ID)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestSessionRepository_SubmitLock(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Hour)
	id := uuid.New()

	ok, err := repo.AcquireSubmit(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AcquireSubmit(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok, "second submit must be rejected while the first is in flight")

	require.NoError(t, repo.ReleaseSubmit(ctx, id))
	ok, err = repo.AcquireSubmit(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDownloadRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDownloadRepository(time.Hour)
	d := &model.Download{Token: "abc", Filename: "x.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}

	require.NoError(t, repo.Save(ctx, d))
	assert.ErrorIs(t, repo.Save(ctx, d), repository.ErrAlreadyExists)

	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, d.Data, got.Data)

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
