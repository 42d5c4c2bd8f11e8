package intake

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lifebalance/intake-api/internal/measure"
	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/internal/repository"
	"github.com/lifebalance/intake-api/internal/service/submission"
	"github.com/lifebalance/intake-api/pkg/metrics"
)

// Renderer produces the intake document for a record snapshot.
type Renderer interface {
	Render(rec model.IntakeRecord) ([]byte, error)
	Filename(rec model.IntakeRecord) string
}

// Submitter delivers a record snapshot to the practice.
type Submitter interface {
	Submit(ctx context.Context, rec model.IntakeRecord) submission.Result
}

type IntakeService interface {
	Open(ctx context.Context) (*model.IntakeSession, error)
	Get(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error)
	Close(ctx context.Context, id uuid.UUID) error
	Patch(ctx context.Context, id uuid.UUID, p model.Patch) (*model.IntakeSession, error)
	AppendMedication(ctx context.Context, id uuid.UUID, list model.MedicationList) (*model.IntakeSession, error)
	RemoveMedication(ctx context.Context, id uuid.UUID, list model.MedicationList, index int) (*model.IntakeSession, error)
	UpdateMedication(ctx context.Context, id uuid.UUID, list model.MedicationList, index int, field, value string) (*model.IntakeSession, error)
	ToggleSelection(ctx context.Context, id uuid.UUID, set model.SelectionSet, tag string) (*model.IntakeSession, error)
	SetAnswer(ctx context.Context, id uuid.UUID, instrument measure.Instrument, index, value int) (*model.IntakeSession, error)
	Next(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error)
	Previous(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error)
	JumpTo(ctx context.Context, id uuid.UUID, step Step) (*model.IntakeSession, error)
	Review(ctx context.Context, id uuid.UUID) (*Review, error)
	Document(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	Submit(ctx context.Context, id uuid.UUID) (*submission.Result, error)
}

const lockStripes = 64

type Service struct {
	sessions  repository.SessionRepository
	renderer  Renderer
	submitter Submitter
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time

	// Striped so two requests on the same session never interleave a
	// read-modify-write.
	locks [lockStripes]sync.Mutex
}

func NewService(sessions repository.SessionRepository, renderer Renderer, submitter Submitter, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		sessions:  sessions,
		renderer:  renderer,
		submitter: submitter,
		metrics:   m,
		logger:    logger.With().Str("component", "intake").Logger(),
		now:       time.Now,
	}
}

func (s *Service) lock(id uuid.UUID) func() {
	h := fnv.New32a()
	_, _ = h.Write(id[:])
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

func (s *Service) Open(ctx context.Context) (*model.IntakeSession, error) {
	session := model.NewIntakeSession(s.now())
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to open intake: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SessionsOpened.Inc()
	}
	s.logger.Info().Str("session_id", session.ID.String()).Msg("intake opened")
	return session, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get intake: %w", err)
	}
	return session, nil
}

// Close discards the flow and every answer in it.
func (s *Service) Close(ctx context.Context, id uuid.UUID) error {
	unlock := s.lock(id)
	defer unlock()

	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to close intake: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SessionsClosed.WithLabelValues("closed").Inc()
	}
	s.logger.Info().Str("session_id", id.String()).Msg("intake closed")
	return nil
}

// mutate runs fn on the session's flow under the session lock and stores the
// result. Nothing is stored when fn fails.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(*Flow) error) (*model.IntakeSession, error) {
	unlock := s.lock(id)
	defer unlock()

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get intake: %w", err)
	}
	flow := NewFlow(session)
	if err := fn(flow); err != nil {
		return nil, err
	}
	session = flow.Session()
	session.UpdatedAt = s.now()
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save intake: %w", err)
	}
	return session, nil
}

func (s *Service) Patch(ctx context.Context, id uuid.UUID, p model.Patch) (*model.IntakeSession, error) {
	return s.mutate(ctx, id, func(f *Flow) error { return f.Apply(p) })
}

func (s *Service) AppendMedication(ctx context.Context, id uuid.UUID, list model.MedicationList) (*model.IntakeSession, error) {
	return s.mutate(ctx, id, func(f *Flow) error { return f.AppendMedication(list) })
}

func (s *Service) RemoveMedication(ctx context.Context, id uuid.UUID, list model.MedicationList, index int) (*model.IntakeSession, error) {
	return s.mutate(ctx, id, func(f *Flow) error { return f.RemoveMedication(list, index) })
}

func (s *Service) UpdateMedication(ctx context.Context, id uuid.UUID, list model.MedicationList, index int, field, value string) (*model.IntakeSession, error) {
	return s.mutate(ctx, id, func(f *Flow) error { return f.UpdateMedication(list, index, field, value) })
}

func (s *Service) ToggleSelection(ctx context.Context, id uuid.UUID, set model.SelectionSet, tag string) (*model.IntakeSession, error) {
	return s.mutate(ctx, id, func(f *Flow) error { return f.ToggleSelection(set, tag) })
}

func (s *Service) SetAnswer(ctx context.Context, id uuid.UUID, instrument measure.Instrument, index, value int) (*model.IntakeSession, error) {
	return s.mutate(ctx, id, func(f *Flow) error { return f.SetAnswer(instrument, index, value) })
}

func (s *Service) Next(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error) {
	return s.mutate(ctx, id, func(f *Flow) error {
		from := f.Step()
		if err := f.Next(); err != nil {
			return err
		}
		if s.metrics != nil && f.Step() != from {
			s.metrics.StepAdvances.WithLabelValues(from.String()).Inc()
		}
		return nil
	})
}

func (s *Service) Previous(ctx context.Context, id uuid.UUID) (*model.IntakeSession, error) {
	return s.mutate(ctx, id, func(f *Flow) error { return f.Previous() })
}

func (s *Service) JumpTo(ctx context.Context, id uuid.UUID, step Step) (*model.IntakeSession, error) {
	return s.mutate(ctx, id, func(f *Flow) error { return f.JumpTo(step) })
}

func (s *Service) Review(ctx context.Context, id uuid.UUID) (*Review, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	review := NewFlow(session).Review()
	return &review, nil
}

// Document renders the current record for preview or download.
func (s *Service) Document(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	rec := session.Record.Clone()
	pdf, err := s.renderer.Render(rec)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render intake document: %w", err)
	}
	return pdf, s.renderer.Filename(rec), nil
}

// Submit delivers the record from the review step. A second call while the
// first is in flight fails with ErrSubmissionInFlight. A delivered intake
// (by relay or fallback) is discarded.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*submission.Result, error) {
	acquired, err := s.sessions.AcquireSubmit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	if !acquired {
		return nil, ErrSubmissionInFlight
	}
	defer func() {
		if err := s.sessions.ReleaseSubmit(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Error().Err(err).Str("session_id", id.String()).Msg("failed to release submit lock")
		}
	}()

	var rec model.IntakeRecord
	if _, err := s.mutate(ctx, id, func(f *Flow) error {
		var err error
		rec, err = f.BeginSubmit()
		return err
	}); err != nil {
		return nil, err
	}

	// The relay call must finish even if the client goes away.
	result := s.submitter.Submit(context.WithoutCancel(ctx), rec)

	log := s.logger.With().
		Str("session_id", id.String()).
		Str("delivery", string(result.Delivery)).
		Int("attempts", result.Attempts).
		Logger()

	if result.Success {
		if err := s.sessions.Delete(context.WithoutCancel(ctx), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
			log.Error().Err(err).Msg("failed to discard delivered intake")
		}
		if s.metrics != nil {
			s.metrics.SessionsClosed.WithLabelValues("submitted").Inc()
		}
		log.Info().Msg("intake submitted")
		return &result, nil
	}

	if _, err := s.mutate(context.WithoutCancel(ctx), id, func(f *Flow) error {
		f.EndSubmit(false)
		return nil
	}); err != nil {
		log.Error().Err(err).Msg("failed to clear in-flight flag")
	}
	log.Warn().Str("reason", result.Error).Msg("intake submission failed")
	return &result, nil
}
