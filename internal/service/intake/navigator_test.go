package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebalance/intake-api/internal/model"
)

func TestCanAdvance_PatientInfoRequiresThreeFields(t *testing.T) {
	rec := model.NewIntakeRecord()
	assert.False(t, CanAdvance(rec, StepPatientInfo))

	rec.PatientName = "Jane Doe"
	assert.False(t, CanAdvance(rec, StepPatientInfo))
	rec.PrimaryPhone = "6626404004"
	assert.False(t, CanAdvance(rec, StepPatientInfo))
	rec.Email = "   "
	assert.False(t, CanAdvance(rec, StepPatientInfo), "whitespace is not a value")
	rec.Email = "jane@example.com"
	assert.True(t, CanAdvance(rec, StepPatientInfo))

	for s := StepMedicalHistory; s <= StepReview; s++ {
		assert.True(t, CanAdvance(model.NewIntakeRecord(), s), s.String())
	}
}

func TestMissingFields(t *testing.T) {
	rec := model.NewIntakeRecord()
	rec.PrimaryPhone = "6626404004"

	missing := MissingFields(rec, StepPatientInfo)
	names := make([]string, 0, len(missing))
	for _, f := range missing {
		names = append(names, f.Field)
	}
	assert.ElementsMatch(t, []string{"patientName", "email"}, names)
	assert.Empty(t, MissingFields(rec, StepPHQ9))
}

func complete() model.IntakeRecord {
	rec := model.NewIntakeRecord()
	rec.PatientName = "Jane Doe"
	rec.PrimaryPhone = "6626404004"
	rec.Email = "jane@example.com"
	return rec
}

func TestNavigator_Next(t *testing.T) {
	n := NewNavigator()

	err := n.Next(model.NewIntakeRecord())
	var incomplete *IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.ErrorIs(t, err, ErrStepIncomplete)
	assert.Len(t, incomplete.Fields, 3)
	assert.Equal(t, StepPatientInfo, n.Current())

	for i := 0; i < 20; i++ {
		require.NoError(t, n.Next(complete()))
	}
	assert.Equal(t, StepReview, n.Current(), "clamped at the last step")
	assert.Equal(t, StepReview, n.Furthest())
}

func TestNavigator_PreviousClamps(t *testing.T) {
	n := NewNavigator()
	n.Previous()
	assert.Equal(t, StepPatientInfo, n.Current())

	require.NoError(t, n.Next(complete()))
	require.NoError(t, n.Next(complete()))
	n.Previous()
	assert.Equal(t, StepMedicalHistory, n.Current())
	assert.Equal(t, StepPHQ9, n.Furthest())
}

func TestNavigator_JumpTo(t *testing.T) {
	n := NewNavigator()
	for i := 0; i < 4; i++ {
		require.NoError(t, n.Next(complete()))
	}
	require.Equal(t, StepMDQ, n.Current())

	tests := []struct {
		name string
		to   Step
		err  error
	}{
		{"back to start", StepPatientInfo, nil},
		{"forward to visited", StepMDQ, nil},
		{"forward past visited", StepPCLC, ErrStepLocked},
		{"review not reached", StepReview, ErrStepLocked},
		{"negative", Step(-1), ErrInvalidStep},
		{"out of range", Step(8), ErrInvalidStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := n.Current()
			err := n.JumpTo(complete(), tt.to)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Equal(t, before, n.Current())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, n.Current())
		})
	}
	assert.Equal(t, StepMDQ, n.Furthest(), "jumping never extends the visited range")
}

func TestRestoreNavigator(t *testing.T) {
	n := RestoreNavigator(3, 1)
	assert.Equal(t, StepGAD7, n.Current())
	assert.Equal(t, StepGAD7, n.Furthest())

	n = RestoreNavigator(-4, 42)
	assert.Equal(t, StepPatientInfo, n.Current())
	assert.Equal(t, StepReview, n.Furthest())
}

func TestSteps(t *testing.T) {
	steps := Steps()
	require.Len(t, steps, 8)
	assert.Equal(t, "Patient Info", steps[0].Name)
	assert.Equal(t, "Review", steps[7].Name)

	id, ok := StepASRS.Instrument()
	assert.True(t, ok)
	assert.Equal(t, "asrs", string(id))
	_, ok = StepReview.Instrument()
	assert.False(t, ok)
}

func TestNavigator_ClearedIdentityBlocksLaterSteps(t *testing.T) {
	n := NewNavigator()
	for i := 0; i < 7; i++ {
		require.NoError(t, n.Next(complete()))
	}
	require.NoError(t, n.JumpTo(complete(), StepPatientInfo))

	cleared := complete()
	cleared.PatientName = ""
	cleared.Email = " "

	var incomplete *IncompleteError
	err := n.JumpTo(cleared, StepReview)
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, StepPatientInfo, incomplete.Step)
	assert.Len(t, incomplete.Fields, 2)
	assert.Equal(t, StepPatientInfo, n.Current())

	require.NoError(t, n.JumpTo(complete(), StepGAD7))
	assert.ErrorIs(t, n.Next(cleared), ErrStepIncomplete)
	assert.Equal(t, StepGAD7, n.Current())
	assert.NoError(t, n.JumpTo(cleared, StepPatientInfo), "the first step stays reachable")
}

func TestReachable(t *testing.T) {
	assert.NoError(t, Reachable(model.NewIntakeRecord(), StepPatientInfo))
	assert.ErrorIs(t, Reachable(model.NewIntakeRecord(), StepMedicalHistory), ErrStepIncomplete)
	assert.NoError(t, Reachable(complete(), StepReview))
}
