package intake

import (
	"errors"
	"fmt"

	"github.com/lifebalance/intake-api/internal/measure"
	"github.com/lifebalance/intake-api/internal/model"
)

var (
	ErrNotAtReview        = errors.New("submission is only possible from the review step")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
)

// Flow is the controller of one intake session. It owns the record and the
// step cursor; every change to the record goes through a merge that produces a
// new record value.
type Flow struct {
	session *model.IntakeSession
	nav     *Navigator
}

// NewFlow wraps a stored session.
func NewFlow(s *model.IntakeSession) *Flow {
	return &Flow{
		session: s,
		nav:     RestoreNavigator(s.Step, s.Furthest),
	}
}

// Session writes the cursor back and returns the session for storage.
func (f *Flow) Session() *model.IntakeSession {
	f.session.Step = int(f.nav.Current())
	f.session.Furthest = int(f.nav.Furthest())
	return f.session
}

// Record returns a snapshot of the record.
func (f *Flow) Record() model.IntakeRecord {
	return f.session.Record.Clone()
}

func (f *Flow) Step() Step { return f.nav.Current() }

func (f *Flow) Submitting() bool { return f.session.Submitting }

func (f *Flow) checkEditable() error {
	if f.session.Submitting {
		return ErrSubmissionInFlight
	}
	return nil
}

// Apply validates p and merges it into the record.
func (f *Flow) Apply(p model.Patch) error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	f.session.Record = model.Merge(f.session.Record, p)
	return nil
}

func (f *Flow) replace(rec model.IntakeRecord, err error) error {
	if err != nil {
		return err
	}
	f.session.Record = rec
	return nil
}

func (f *Flow) AppendMedication(list model.MedicationList) error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	return f.replace(f.session.Record.AppendMedicationRow(list))
}

func (f *Flow) RemoveMedication(list model.MedicationList, i int) error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	return f.replace(f.session.Record.RemoveMedicationRow(list, i))
}

func (f *Flow) UpdateMedication(list model.MedicationList, i int, field, value string) error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	return f.replace(f.session.Record.UpdateMedicationRow(list, i, field, value))
}

func (f *Flow) ToggleSelection(set model.SelectionSet, tag string) error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	return f.replace(f.session.Record.ToggleSelection(set, tag))
}

func (f *Flow) SetAnswer(id measure.Instrument, i, v int) error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	return f.replace(f.session.Record.SetAnswer(id, i, v))
}

func (f *Flow) Next() error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	return f.nav.Next(f.session.Record)
}

func (f *Flow) Previous() error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	f.nav.Previous()
	return nil
}

func (f *Flow) JumpTo(s Step) error {
	if err := f.checkEditable(); err != nil {
		return err
	}
	return f.nav.JumpTo(f.session.Record, s)
}

// BeginSubmit marks the flow in flight and returns the record snapshot to
// deliver.
func (f *Flow) BeginSubmit() (model.IntakeRecord, error) {
	if f.session.Submitting {
		return model.IntakeRecord{}, ErrSubmissionInFlight
	}
	if f.nav.Current() != StepReview {
		return model.IntakeRecord{}, fmt.Errorf("%w: at %s", ErrNotAtReview, f.nav.Current())
	}
	if err := Reachable(f.session.Record, StepReview); err != nil {
		return model.IntakeRecord{}, err
	}
	f.session.Submitting = true
	return f.Record(), nil
}

// EndSubmit clears the in-flight flag. A delivered intake resets the flow to
// an empty record.
func (f *Flow) EndSubmit(delivered bool) {
	f.session.Submitting = false
	if delivered {
		f.Reset()
	}
}

// Reset discards every answer and returns to the first step.
func (f *Flow) Reset() {
	f.session.Record = model.NewIntakeRecord()
	f.session.Submitting = false
	f.nav.Reset()
}

// Review aggregates the record for the final step.
func (f *Flow) Review() Review {
	return BuildReview(f.session.Record)
}
