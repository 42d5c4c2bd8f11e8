package intake

import (
	"fmt"

	"github.com/lifebalance/intake-api/internal/measure"
)

// Step is one screen of the intake flow.
type Step int

const (
	StepPatientInfo Step = iota
	StepMedicalHistory
	StepPHQ9
	StepGAD7
	StepMDQ
	StepPCLC
	StepASRS
	StepReview
)

const (
	FirstStep = StepPatientInfo
	LastStep  = StepReview
)

var stepNames = [...]string{
	StepPatientInfo:    "Patient Info",
	StepMedicalHistory: "Medical History",
	StepPHQ9:           "PHQ-9",
	StepGAD7:           "GAD-7",
	StepMDQ:            "MDQ",
	StepPCLC:           "PCL-C",
	StepASRS:           "ASRS",
	StepReview:         "Review",
}

func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// Instrument returns the questionnaire shown on s, if any.
func (s Step) Instrument() (measure.Instrument, bool) {
	switch s {
	case StepPHQ9:
		return measure.PHQ9, true
	case StepGAD7:
		return measure.GAD7, true
	case StepMDQ:
		return measure.MDQ, true
	case StepPCLC:
		return measure.PCLC, true
	case StepASRS:
		return measure.ASRS, true
	}
	return "", false
}

// StepInfo describes a step for clients rendering a progress bar.
type StepInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Steps lists every step in order.
func Steps() []StepInfo {
	out := make([]StepInfo, 0, len(stepNames))
	for i, name := range stepNames {
		out = append(out, StepInfo{Index: i, Name: name})
	}
	return out
}
