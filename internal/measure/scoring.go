package measure

// Severity bands.
const (
	SeverityMinimalDepression          = "Minimal depression"
	SeverityMildDepression             = "Mild depression"
	SeverityModerateDepression         = "Moderate depression"
	SeverityModeratelySevereDepression = "Moderately severe depression"
	SeveritySevereDepression           = "Severe depression"

	SeverityMinimalAnxiety  = "Minimal anxiety"
	SeverityMildAnxiety     = "Mild anxiety"
	SeverityModerateAnxiety = "Moderate anxiety"
	SeveritySevereAnxiety   = "Severe anxiety"

	SeverityBelowThreshold = "Below clinical threshold"
	SeverityPossiblePTSD   = "Possible PTSD"
	SeverityProbablePTSD   = "Probable PTSD"
)

// PCL-C cut points.
const (
	PCLCPossibleThreshold = 28
	PCLCProbableThreshold = 44
)

// ASRSFlagThreshold is the lowest Part A answer ("Sometimes") counted as a flag.
const ASRSFlagThreshold = 2

// Score is the result of a summed instrument.
type Score struct {
	Total    int    `json:"total"`
	Answered int    `json:"answered"`
	Items    int    `json:"items"`
	Severity string `json:"severity"`
}

// MDQScore is the result of the Mood Disorder Questionnaire screen.
type MDQScore struct {
	YesCount       int  `json:"yes_count"`
	Items          int  `json:"items"`
	PositiveScreen bool `json:"positive_screen"`
}

// ASRSScore is the Part A screening heuristic of the ASRS. No combined total
// over all 18 items is defined.
type ASRSScore struct {
	PartAFlags int `json:"part_a_flags"`
	Answered   int `json:"answered"`
	Items      int `json:"items"`
}

// Summary bundles every instrument's score for one record.
type Summary struct {
	PHQ9 Score     `json:"phq9"`
	GAD7 Score     `json:"gad7"`
	MDQ  MDQScore  `json:"mdq"`
	PCLC Score     `json:"pclc"`
	ASRS ASRSScore `json:"asrs"`
}

// AnsweredCount counts the entries of answers that differ from sentinel.
func AnsweredCount(answers []int, sentinel int) int {
	n := 0
	for _, v := range answers {
		if v != sentinel {
			n++
		}
	}
	return n
}

// AnsweredBoolCount reports how many boolean items count as answered. Boolean
// items have no neutral state, so every item is answered.
func AnsweredBoolCount(items []bool) int {
	return len(items)
}

func sumValid(d Definition, answers []int) (total, answered int) {
	for _, v := range answers {
		if d.Valid(v) {
			total += v
			answered++
		}
	}
	return total, answered
}

// ScorePHQ9 sums the valid PHQ-9 answers and classifies depression severity.
func ScorePHQ9(answers []int) Score {
	total, answered := sumValid(phq9Definition, answers)
	return Score{
		Total:    total,
		Answered: answered,
		Items:    PHQ9Items,
		Severity: PHQ9Severity(total),
	}
}

// PHQ9Severity maps a PHQ-9 total to its severity band.
func PHQ9Severity(total int) string {
	switch {
	case total <= 4:
		return SeverityMinimalDepression
	case total <= 9:
		return SeverityMildDepression
	case total <= 14:
		return SeverityModerateDepression
	case total <= 19:
		return SeverityModeratelySevereDepression
	default:
		return SeveritySevereDepression
	}
}

// ScoreGAD7 sums the valid GAD-7 answers and classifies anxiety severity.
func ScoreGAD7(answers []int) Score {
	total, answered := sumValid(gad7Definition, answers)
	return Score{
		Total:    total,
		Answered: answered,
		Items:    GAD7Items,
		Severity: GAD7Severity(total),
	}
}

// GAD7Severity maps a GAD-7 total to its severity band.
func GAD7Severity(total int) string {
	switch {
	case total <= 4:
		return SeverityMinimalAnxiety
	case total <= 9:
		return SeverityMildAnxiety
	case total <= 14:
		return SeverityModerateAnxiety
	default:
		return SeveritySevereAnxiety
	}
}

// ScoreMDQ counts YES items. The screen is positive only when at least seven
// items are YES, they happened at the same time, and they caused a moderate
// or serious problem.
func ScoreMDQ(items []bool, sameTime, problemLevel string) MDQScore {
	yes := 0
	for _, v := range items {
		if v {
			yes++
		}
	}
	return MDQScore{
		YesCount: yes,
		Items:    MDQItems,
		PositiveScreen: yes >= MDQPositiveYesThreshold &&
			sameTime == MDQSameTimeYes &&
			(problemLevel == MDQModerateProblem || problemLevel == MDQSeriousProblem),
	}
}

// ScorePCLC sums the valid PCL-C answers and classifies PTSD likelihood.
func ScorePCLC(answers []int) Score {
	total, answered := sumValid(pclcDefinition, answers)
	return Score{
		Total:    total,
		Answered: answered,
		Items:    PCLCItems,
		Severity: PCLCSeverity(total),
	}
}

// PCLCSeverity maps a PCL-C total to its band.
func PCLCSeverity(total int) string {
	switch {
	case total < PCLCPossibleThreshold:
		return SeverityBelowThreshold
	case total < PCLCProbableThreshold:
		return SeverityPossiblePTSD
	default:
		return SeverityProbablePTSD
	}
}

// ScoreASRS counts Part A items answered "Sometimes" or more often.
func ScoreASRS(answers []int) ASRSScore {
	flags := 0
	for i, v := range answers {
		if i >= ASRSPartAItems {
			break
		}
		if asrsDefinition.Valid(v) && v >= ASRSFlagThreshold {
			flags++
		}
	}
	_, answered := sumValid(asrsDefinition, answers)
	return ASRSScore{
		PartAFlags: flags,
		Answered:   answered,
		Items:      ASRSItems,
	}
}
