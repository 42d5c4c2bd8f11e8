package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebalance/intake-api/internal/measure"
)

func ptr[T any](v T) *T { return &v }

func TestNewIntakeRecord_Defaults(t *testing.T) {
	r := NewIntakeRecord()

	assert.Empty(t, r.PatientName)
	assert.Empty(t, r.CurrentSymptoms)
	assert.NotNil(t, r.CurrentSymptoms)
	assert.Len(t, r.CurrentMedications, 1)
	assert.True(t, r.CurrentMedications[0].Empty())
	assert.Len(t, r.PastMedications, 1)
	assert.True(t, r.PastMedications[0].Empty())

	for _, id := range []measure.Instrument{measure.PHQ9, measure.GAD7, measure.PCLC, measure.ASRS} {
		answers, ok := r.Answers(id)
		require.True(t, ok)
		assert.Equal(t, 0, measure.AnsweredCount(answers, measure.Unanswered), id)
	}
	for _, v := range r.MDQItems {
		assert.False(t, v)
	}

	s := r.Scores()
	assert.Equal(t, 0, s.PHQ9.Total)
	assert.Equal(t, measure.SeverityMinimalDepression, s.PHQ9.Severity)
	assert.Equal(t, measure.SeverityMinimalAnxiety, s.GAD7.Severity)
	assert.Equal(t, measure.SeverityBelowThreshold, s.PCLC.Severity)
	assert.False(t, s.MDQ.PositiveScreen)
}

func TestMerge_OnlyTouchesPatchedFields(t *testing.T) {
	base := NewIntakeRecord()
	got := Merge(base, Patch{PatientName: ptr("Jane Doe")})

	assert.Equal(t, "Jane Doe", got.PatientName)
	assert.Empty(t, base.PatientName, "input must not be mutated")

	got.PatientName = ""
	assert.Equal(t, base, got)
}

func TestMerge_DoesNotAliasInput(t *testing.T) {
	base := NewIntakeRecord()
	phq := []int{2, 2, 1, 1, 1, 0, 1, 0, 0}
	got := Merge(base, Patch{PHQ9: phq, CurrentSymptoms: []string{"Avoidance", "Avoidance"}})

	assert.Equal(t, 8, got.Scores().PHQ9.Total)
	assert.Equal(t, measure.Unanswered, base.PHQ9[0])
	assert.Equal(t, []string{"Avoidance"}, got.CurrentSymptoms)

	got.CurrentMedications[0].Medication = "Sertraline 50mg"
	assert.Empty(t, base.CurrentMedications[0].Medication)
}

func TestPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   Patch
		wantErr bool
	}{
		{"empty", Patch{}, false},
		{"text only", Patch{PatientName: ptr("Jane"), ReasonForVisit: ptr("anything")}, false},
		{"short vector", Patch{PHQ9: []int{1, 2}}, true},
		{"out of range", Patch{GAD7: []int{0, 0, 0, 0, 0, 0, 4}}, true},
		{"sentinel allowed", Patch{GAD7: []int{0, -1, 0, 0, 0, 0, 3}}, false},
		{"pclc zero", Patch{PCLC: make([]int, measure.PCLCItems)}, true},
		{"mdq length", Patch{MDQItems: []bool{true}}, true},
		{"unknown symptom", Patch{CurrentSymptoms: []string{"Sneezing"}}, true},
		{"known symptom", Patch{CurrentSymptoms: []string{"Racing thoughts"}}, false},
		{"bad marital", Patch{MaritalStatus: ptr(MaritalStatus("Engaged"))}, true},
		{"bad payment", Patch{PaymentMethod: ptr(PaymentMethod("Bitcoin"))}, true},
		{"empty med list", Patch{CurrentMedications: []Medication{}}, true},
		{"bad outcome", Patch{PastMedications: []PastMedication{{Outcome: "Great"}}}, true},
		{"bad follow-up", Patch{MDQProblemLevel: ptr("Huge problem")}, true},
		{"good follow-up", Patch{MDQSameTime: ptr("Yes"), PHQ9Difficulty: ptr("Very difficult")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPatch_UnknownKeysRejectedByDecoder(t *testing.T) {
	var p Patch
	dec := json.NewDecoder(strings.NewReader(`{"patientName":"Jane","creditCardNumber":"4111"}`))
	dec.DisallowUnknownFields()
	assert.Error(t, dec.Decode(&p))
}

func TestRemoveMedicationAt_NeverEmpty(t *testing.T) {
	list := []Medication{{Medication: "Lithium 300mg", HowOften: "BID"}}

	got, err := RemoveMedicationAt(list, 0)
	require.NoError(t, err)
	assert.Equal(t, []Medication{{}}, got)
	assert.Equal(t, "Lithium 300mg", list[0].Medication)

	_, err = RemoveMedicationAt(list, 1)
	assert.ErrorIs(t, err, ErrRowIndex)
}

func TestMedicationRows(t *testing.T) {
	r := NewIntakeRecord()

	r, err := r.AppendMedicationRow(CurrentMedicationList)
	require.NoError(t, err)
	assert.Len(t, r.CurrentMedications, 2)

	r, err = r.UpdateMedicationRow(CurrentMedicationList, 1, FieldHowOften, "Daily")
	require.NoError(t, err)
	assert.Equal(t, "Daily", r.CurrentMedications[1].HowOften)

	r, err = r.RemoveMedicationRow(CurrentMedicationList, 0)
	require.NoError(t, err)
	assert.Equal(t, []Medication{{HowOften: "Daily"}}, r.CurrentMedications)

	_, err = r.UpdateMedicationRow(PastMedicationList, 0, FieldOutcome, "Amazing")
	assert.ErrorIs(t, err, ErrOutcome)
	_, err = r.UpdateMedicationRow(CurrentMedicationList, 0, FieldOutcome, OutcomeHelpful)
	assert.ErrorIs(t, err, ErrUnknownField)
	_, err = r.AppendMedicationRow("future")
	assert.ErrorIs(t, err, ErrUnknownList)
}

func TestToggle(t *testing.T) {
	tags := Toggle(nil, "Anxiety")
	assert.Equal(t, []string{"Anxiety"}, tags)

	tags = Toggle(tags, "Depression")
	assert.ElementsMatch(t, []string{"Anxiety", "Depression"}, tags)

	tags = Toggle(tags, "Anxiety")
	assert.Equal(t, []string{"Depression"}, tags)
}

func TestToggleSelection(t *testing.T) {
	r := NewIntakeRecord()

	got, err := r.ToggleSelection(SelectionSymptoms, "Crying spells")
	require.NoError(t, err)
	assert.Equal(t, []string{"Crying spells"}, got.CurrentSymptoms)
	assert.Empty(t, r.CurrentSymptoms)

	_, err = r.ToggleSelection(SelectionIllnesses, "Crying spells")
	assert.ErrorIs(t, err, ErrUnknownTag)
	_, err = r.ToggleSelection("hobbies", "Chess")
	assert.ErrorIs(t, err, ErrUnknownSelection)
}

func TestSetAnswer(t *testing.T) {
	r := NewIntakeRecord()

	got, err := r.SetAnswer(measure.PCLC, 16, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got.PCLC[16])
	assert.Equal(t, measure.Unanswered, r.PCLC[16])

	got, err = got.SetAnswer(measure.MDQ, 0, 1)
	require.NoError(t, err)
	assert.True(t, got.MDQItems[0])

	_, err = r.SetAnswer(measure.PCLC, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPatch)
	_, err = r.SetAnswer(measure.GAD7, 7, 1)
	assert.ErrorIs(t, err, ErrInvalidPatch)
	_, err = r.SetAnswer(measure.MDQ, 0, measure.Unanswered)
	assert.ErrorIs(t, err, ErrInvalidPatch)
}
