package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/internal/repository"
	"github.com/lifebalance/intake-api/pkg/security"
)

func unreachableClient() *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestKeys(t *testing.T) {
	repo := NewSessionRepository(nil, "intake:", time.Hour)
	id := uuid.MustParse("6f1c3f4e-8a51-4c55-9d0a-0a2f7f3b9e11")

	assert.Equal(t, "intake:session:6f1c3f4e-8a51-4c55-9d0a-0a2f7f3b9e11", repo.sessionKey(id))
	assert.Equal(t, "intake:submit:6f1c3f4e-8a51-4c55-9d0a-0a2f7f3b9e11", repo.lockKey(id))
	assert.Equal(t, "intake:download:tok", NewDownloadRepository(nil, "intake:", time.Hour).key("tok"))
}

func TestSessionCodecRoundTrip(t *testing.T) {
	s := model.NewIntakeSession(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	s.Record.PHQ9[0] = 2
	s.Record.MDQItems[3] = true

	b, err := repository.EncodeSession(s)
	require.NoError(t, err)
	got, err := repository.DecodeSession(b)
	require.NoError(t, err)

	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.Record, got.Record)
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt))
}

func TestStoreErrorsAreNotNotFound(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	repo := NewSessionRepository(client, "intake:", time.Hour)

	_, err := repo.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.Error(t, repo.Ping(context.Background()))
}

func TestNewClient_RequiresAddr(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}

func TestSessionSealing(t *testing.T) {
	enc, err := security.NewAESEncryptor(bytes.Repeat([]byte{9}, 32))
	require.NoError(t, err)
	repo := NewSessionRepository(nil, "intake:", time.Hour, WithEncryptor(enc))

	s := model.NewIntakeSession(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	s.Record.PatientName = "Jane Doe"

	sealed, err := repo.encode(s)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "Jane Doe")

	got, err := repo.decode(sealed)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Record.PatientName)

	plain := NewSessionRepository(nil, "intake:", time.Hour)
	_, err = plain.decode(sealed)
	assert.Error(t, err)

	other, err := security.NewAESEncryptor(bytes.Repeat([]byte{8}, 32))
	require.NoError(t, err)
	_, err = NewSessionRepository(nil, "intake:", time.Hour, WithEncryptor(other)).decode(sealed)
	assert.ErrorIs(t, err, security.ErrDecryption)
}
