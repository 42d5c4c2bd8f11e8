package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filled(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestScorePHQ9_Unanswered(t *testing.T) {
	got := ScorePHQ9(filled(PHQ9Items, Unanswered))

	assert.Equal(t, 0, got.Total)
	assert.Equal(t, 0, got.Answered)
	assert.Equal(t, SeverityMinimalDepression, got.Severity)
}

func TestScorePHQ9_SumsValidEntriesOnly(t *testing.T) {
	got := ScorePHQ9([]int{2, 2, 1, 1, 1, 0, 1, 0, 0})
	assert.Equal(t, 8, got.Total)
	assert.Equal(t, 9, got.Answered)
	assert.Equal(t, SeverityMildDepression, got.Severity)

	partial := ScorePHQ9([]int{3, Unanswered, 3, Unanswered, 0, 0, Unanswered, 1, 7})
	assert.Equal(t, 7, partial.Total, "out-of-range 7 must not contribute")
	assert.Equal(t, 5, partial.Answered)
}

func TestScorePHQ9_Monotonic(t *testing.T) {
	answers := filled(PHQ9Items, 0)
	prev := ScorePHQ9(answers).Total
	for i := range answers {
		for v := 1; v <= 3; v++ {
			answers[i] = v
			cur := ScorePHQ9(answers).Total
			assert.GreaterOrEqual(t, cur, prev)
			prev = cur
		}
	}
	assert.Equal(t, 27, prev)
	assert.Equal(t, SeveritySevereDepression, PHQ9Severity(prev))
}

func TestPHQ9Severity_Bands(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{0, SeverityMinimalDepression},
		{4, SeverityMinimalDepression},
		{5, SeverityMildDepression},
		{9, SeverityMildDepression},
		{10, SeverityModerateDepression},
		{14, SeverityModerateDepression},
		{15, SeverityModeratelySevereDepression},
		{19, SeverityModeratelySevereDepression},
		{20, SeveritySevereDepression},
		{27, SeveritySevereDepression},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PHQ9Severity(tt.total), "total %d", tt.total)
	}
}

func TestScoreGAD7(t *testing.T) {
	assert.Equal(t, Score{Total: 0, Answered: 7, Items: 7, Severity: SeverityMinimalAnxiety}, ScoreGAD7(filled(GAD7Items, 0)))
	assert.Equal(t, SeverityMinimalAnxiety, ScoreGAD7(filled(GAD7Items, Unanswered)).Severity)

	tests := []struct {
		total int
		want  string
	}{
		{4, SeverityMinimalAnxiety},
		{5, SeverityMildAnxiety},
		{9, SeverityMildAnxiety},
		{10, SeverityModerateAnxiety},
		{14, SeverityModerateAnxiety},
		{15, SeveritySevereAnxiety},
		{21, SeveritySevereAnxiety},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GAD7Severity(tt.total), "total %d", tt.total)
	}
}

func mdqItems(yes int) []bool {
	items := make([]bool, MDQItems)
	for i := 0; i < yes; i++ {
		items[i] = true
	}
	return items
}

func TestScoreMDQ_ThreeWayAnd(t *testing.T) {
	tests := []struct {
		name         string
		yes          int
		sameTime     string
		problemLevel string
		want         bool
	}{
		{"all conditions met, moderate", 7, "Yes", "Moderate problem", true},
		{"all conditions met, serious", 13, "Yes", "Serious problem", true},
		{"six yes items", 6, "Yes", "Serious problem", false},
		{"not at the same time", 7, "No", "Serious problem", false},
		{"same time unanswered", 7, "", "Serious problem", false},
		{"minor problem", 7, "Yes", "Minor problem", false},
		{"no problem", 13, "Yes", "No problem", false},
		{"problem unanswered", 13, "Yes", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreMDQ(mdqItems(tt.yes), tt.sameTime, tt.problemLevel)
			assert.Equal(t, tt.yes, got.YesCount)
			assert.Equal(t, tt.want, got.PositiveScreen)
		})
	}
}

func TestScoreMDQ_Default(t *testing.T) {
	got := ScoreMDQ(make([]bool, MDQItems), "No", "")
	assert.Equal(t, 0, got.YesCount)
	assert.False(t, got.PositiveScreen)
	assert.Equal(t, MDQItems, AnsweredBoolCount(make([]bool, MDQItems)))
}

func TestPCLCSeverity_Boundaries(t *testing.T) {
	assert.Equal(t, SeverityBelowThreshold, PCLCSeverity(0))
	assert.Equal(t, SeverityBelowThreshold, PCLCSeverity(27))
	assert.Equal(t, SeverityPossiblePTSD, PCLCSeverity(28))
	assert.Equal(t, SeverityPossiblePTSD, PCLCSeverity(43))
	assert.Equal(t, SeverityProbablePTSD, PCLCSeverity(44))
	assert.Equal(t, SeverityProbablePTSD, PCLCSeverity(85))
}

func TestScorePCLC(t *testing.T) {
	assert.Equal(t, 17, ScorePCLC(filled(PCLCItems, 1)).Total)
	assert.Equal(t, 85, ScorePCLC(filled(PCLCItems, 5)).Total)

	empty := ScorePCLC(filled(PCLCItems, Unanswered))
	assert.Equal(t, 0, empty.Total)
	assert.Equal(t, SeverityBelowThreshold, empty.Severity)

	// 0 is not on the PCL-C scale.
	assert.Equal(t, 0, ScorePCLC(filled(PCLCItems, 0)).Answered)
}

func TestScoreASRS_PartAFlags(t *testing.T) {
	answers := filled(ASRSItems, Unanswered)
	assert.Equal(t, 0, ScoreASRS(answers).PartAFlags)

	copy(answers, []int{0, 1, 2, 3, 4, Unanswered})
	// Part B answers never count.
	for i := ASRSPartAItems; i < ASRSItems; i++ {
		answers[i] = 4
	}
	got := ScoreASRS(answers)
	assert.Equal(t, 3, got.PartAFlags)
	assert.Equal(t, 17, got.Answered)
}

func TestAnsweredCount(t *testing.T) {
	assert.Equal(t, 0, AnsweredCount(filled(5, Unanswered), Unanswered))
	assert.Equal(t, 2, AnsweredCount([]int{Unanswered, 0, 3, Unanswered}, Unanswered))
}

func TestDefinitions_QuestionCountsMatchVectors(t *testing.T) {
	counts := map[Instrument]int{
		PHQ9: PHQ9Items,
		GAD7: GAD7Items,
		MDQ:  MDQItems,
		PCLC: PCLCItems,
		ASRS: ASRSItems,
	}
	for _, d := range All() {
		assert.Len(t, d.Questions, counts[d.ID], d.Code)
		assert.False(t, d.Valid(Unanswered), "%s: sentinel must be outside the scale", d.Code)
	}
	assert.Equal(t, "Very Often", MustLookup(ASRS).Label(4))
	assert.Equal(t, "", MustLookup(PHQ9).Label(9))
}

func TestSeverityLabels_AreStable(t *testing.T) {
	assert.Equal(t, "Minimal depression", PHQ9Severity(0))
	assert.Equal(t, "Moderately severe depression", PHQ9Severity(19))
	assert.Equal(t, "Severe anxiety", GAD7Severity(21))
	assert.Equal(t, "Below clinical threshold", PCLCSeverity(27))
	assert.Equal(t, "Possible PTSD", PCLCSeverity(43))
	assert.Equal(t, "Probable PTSD", PCLCSeverity(44))
}
