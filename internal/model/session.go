package model

import (
	"time"

	"github.com/google/uuid"
)

// IntakeSession is the state of one open intake flow: the record being filled
// in, the step cursor and the in-flight submission flag. It lives only as long
// as the browser flow that opened it.
type IntakeSession struct {
	ID         uuid.UUID    `json:"session_id"`
	Record     IntakeRecord `json:"record"`
	Step       int          `json:"step"`
	Furthest   int          `json:"furthest_step"`
	Submitting bool         `json:"submitting"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// NewIntakeSession opens a session on an empty record at the first step.
func NewIntakeSession(now time.Time) *IntakeSession {
	return &IntakeSession{
		ID:        uuid.New(),
		Record:    NewIntakeRecord(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Download is a generated intake document parked for the fallback download link.
type Download struct {
	Token       string    `json:"token"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"data"`
	CreatedAt   time.Time `json:"created_at"`
}
