package intake

import (
	stderrors "errors"

	"github.com/lifebalance/intake-api/internal/model"
	"github.com/lifebalance/intake-api/internal/repository"
	intakesvc "github.com/lifebalance/intake-api/internal/service/intake"
	"github.com/lifebalance/intake-api/pkg/errors"
)

// toAppError maps intake failures onto response errors.
func toAppError(err error) error {
	if _, ok := errors.As(err); ok {
		return err
	}

	var incomplete *intakesvc.IncompleteError
	switch {
	case stderrors.As(err, &incomplete):
		return errors.Validation("required fields are missing", incomplete.Fields)
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NotFound("intake session", err)
	case stderrors.Is(err, intakesvc.ErrSubmissionInFlight),
		stderrors.Is(err, intakesvc.ErrNotAtReview),
		stderrors.Is(err, intakesvc.ErrStepLocked):
		return errors.Conflict(err.Error(), err)
	case stderrors.Is(err, intakesvc.ErrInvalidStep),
		stderrors.Is(err, model.ErrInvalidPatch),
		stderrors.Is(err, model.ErrUnknownSelection),
		stderrors.Is(err, model.ErrUnknownTag),
		stderrors.Is(err, model.ErrUnknownList),
		stderrors.Is(err, model.ErrUnknownField),
		stderrors.Is(err, model.ErrRowIndex),
		stderrors.Is(err, model.ErrOutcome):
		return errors.BadRequest(err.Error(), err)
	}
	return errors.Internal(err)
}
