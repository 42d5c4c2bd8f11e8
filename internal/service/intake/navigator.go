package intake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lifebalance/intake-api/internal/model"
	apperrors "github.com/lifebalance/intake-api/pkg/errors"
	"github.com/lifebalance/intake-api/pkg/validator"
)

var (
	ErrStepIncomplete = errors.New("required fields are missing")
	ErrStepLocked     = errors.New("step has not been reached yet")
	ErrInvalidStep    = errors.New("invalid step")
)

// IncompleteError lists the fields that block leaving a step.
type IncompleteError struct {
	Step   Step
	Fields []apperrors.FieldError
}

func (e *IncompleteError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return fmt.Sprintf("%s: %s", e.Step, strings.Join(names, ", "))
}

func (e *IncompleteError) Unwrap() error { return ErrStepIncomplete }

// patientInfoRequired holds the fields that must be filled before leaving
// the first step.
type patientInfoRequired struct {
	PatientName  string `json:"patientName" validate:"required"`
	PrimaryPhone string `json:"primaryPhone" validate:"required"`
	Email        string `json:"email" validate:"required"`
}

var requiredFields = validator.New()

// MissingFields returns the required fields of step that rec leaves empty.
// Only the first step has required fields; whitespace does not count as a
// value.
func MissingFields(rec model.IntakeRecord, step Step) []apperrors.FieldError {
	if step != StepPatientInfo {
		return nil
	}
	return requiredFields.Fields(patientInfoRequired{
		PatientName:  strings.TrimSpace(rec.PatientName),
		PrimaryPhone: strings.TrimSpace(rec.PrimaryPhone),
		Email:        strings.TrimSpace(rec.Email),
	})
}

// CanAdvance reports whether rec allows leaving step. No instrument is
// mandatory, so every step after the first always allows it.
func CanAdvance(rec model.IntakeRecord, step Step) bool {
	return len(MissingFields(rec, step)) == 0
}

// Reachable reports whether rec allows the cursor to stand on s. Every step
// after the first needs the first step's required fields, even when they
// were cleared after it was left.
func Reachable(rec model.IntakeRecord, s Step) error {
	if s <= StepPatientInfo {
		return nil
	}
	if missing := MissingFields(rec, StepPatientInfo); len(missing) > 0 {
		return &IncompleteError{Step: StepPatientInfo, Fields: missing}
	}
	return nil
}

// Navigator is the step cursor. It remembers the furthest step reached so
// that backward jumps are allowed and forward jumps past it are not. It never
// holds the record.
type Navigator struct {
	current  Step
	furthest Step
}

func NewNavigator() *Navigator {
	return &Navigator{}
}

// RestoreNavigator rebuilds a cursor from stored positions, clamping both into
// range.
func RestoreNavigator(current, furthest int) *Navigator {
	n := &Navigator{current: clamp(Step(current)), furthest: clamp(Step(furthest))}
	if n.furthest < n.current {
		n.furthest = n.current
	}
	return n
}

func clamp(s Step) Step {
	if s < FirstStep {
		return FirstStep
	}
	if s > LastStep {
		return LastStep
	}
	return s
}

func (n *Navigator) Current() Step  { return n.current }
func (n *Navigator) Furthest() Step { return n.furthest }

// Next moves forward one step when rec satisfies the current step. At the last
// step it stays put; leaving Review happens only through submission.
func (n *Navigator) Next(rec model.IntakeRecord) error {
	if missing := MissingFields(rec, n.current); len(missing) > 0 {
		return &IncompleteError{Step: n.current, Fields: missing}
	}
	next := clamp(n.current + 1)
	if err := Reachable(rec, next); err != nil {
		return err
	}
	n.current = next
	if n.current > n.furthest {
		n.furthest = n.current
	}
	return nil
}

// Previous moves back one step, stopping at the first.
func (n *Navigator) Previous() {
	n.current = clamp(n.current - 1)
}

// JumpTo moves to any step already reached that rec still allows.
func (n *Navigator) JumpTo(rec model.IntakeRecord, s Step) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStep, int(s))
	}
	if s > n.furthest {
		return fmt.Errorf("%w: %s", ErrStepLocked, s)
	}
	if err := Reachable(rec, s); err != nil {
		return err
	}
	n.current = s
	return nil
}

// Reset returns the cursor to the first step and forgets visited steps.
func (n *Navigator) Reset() {
	n.current, n.furthest = FirstStep, FirstStep
}
