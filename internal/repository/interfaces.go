package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lifebalance/intake-api/internal/model"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// All repository interfaces in one file
type (
	// SessionRepository holds open intake flows. Entries expire on their own;
	// nothing here outlives the configured session TTL.
	SessionRepository interface {
		Create(ctx context.Context, session *model.IntakeSession) error
		Get(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error)
		Update(ctx context.Context, session *model.IntakeSession) error
		Delete(ctx context.Context, id uuid.UUID) error
		// AcquireSubmit takes the per-session submit lock. It reports false
		// when a submission for the session is already in flight.
		AcquireSubmit(ctx context.Context, id uuid.UUID) (bool, error)
		ReleaseSubmit(ctx context.Context, id uuid.UUID) error
		Ping(ctx context.Context) error
	}

	// DownloadRepository parks generated documents for the fallback download link.
	DownloadRepository interface {
		Save(ctx context.Context, download *model.Download) error
		Get(ctx context.Context, token string) (*model.Download, error)
		Delete(ctx context.Context, token string) error
	}
)

// EncodeSession is the storage encoding shared by every session store.
func EncodeSession(s *model.IntakeSession) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return b, nil
}

func DecodeSession(b []byte) (*model.IntakeSession, error) {
	var s model.IntakeSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

func EncodeDownload(d *model.Download) ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode download: %w", err)
	}
	return b, nil
}

func DecodeDownload(b []byte) (*model.Download, error) {
	var d model.Download
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to decode download: %w", err)
	}
	return &d, nil
}
