package intake

import (
	"fmt"

	"github.com/lifebalance/intake-api/internal/measure"
	"github.com/lifebalance/intake-api/internal/model"
	apperrors "github.com/lifebalance/intake-api/pkg/errors"
)

// InstrumentProgress is one tile of the review's measures block.
type InstrumentProgress struct {
	ID       measure.Instrument `json:"id"`
	Code     string             `json:"code"`
	Answered int                `json:"answered"`
	Total    int                `json:"total"`
	Progress string             `json:"progress"`
}

// Review is the read-only aggregation shown on the last step.
type Review struct {
	PatientName           string                 `json:"patientName"`
	DOB                   string                 `json:"dob"`
	Address               string                 `json:"address"`
	PrimaryPhone          string                 `json:"primaryPhone"`
	PrimaryPhoneContactOK bool                   `json:"primaryPhoneContactOk"`
	Email                 string                 `json:"email"`
	EmergencyContact      string                 `json:"emergencyContact"`
	InsuranceCompany      string                 `json:"insuranceCompany"`
	ReasonForVisit        string                 `json:"reasonForVisit"`
	CurrentMedications    []string               `json:"currentMedications"`
	SymptomCount          int                    `json:"symptomCount"`
	PhysicalIllnessCount  int                    `json:"physicalIllnessCount"`
	Instruments           []InstrumentProgress   `json:"instruments"`
	Scores                measure.Summary        `json:"scores"`
	CancellationPolicy    bool                   `json:"cancellationPolicyAcknowledged"`
	ConsentSignature      string                 `json:"consentSignature,omitempty"`
	Missing               []apperrors.FieldError `json:"missing,omitempty"`
}

// BuildReview summarizes rec. Progress strings read "answered/total", except
// MDQ which reads "yes/13 Yes".
func BuildReview(rec model.IntakeRecord) Review {
	scores := rec.Scores()
	r := Review{
		PatientName:           rec.PatientName,
		DOB:                   rec.DOB,
		Address:               rec.PatientAddress(),
		PrimaryPhone:          rec.PrimaryPhone,
		PrimaryPhoneContactOK: rec.PrimaryPhoneMayContact,
		Email:                 rec.Email,
		InsuranceCompany:      rec.InsuranceCompany,
		ReasonForVisit:        rec.ReasonForVisit,
		CurrentMedications:    []string{},
		SymptomCount:          len(rec.CurrentSymptoms),
		PhysicalIllnessCount:  len(rec.PhysicalIllnesses),
		Scores:                scores,
		CancellationPolicy:    rec.CancellationPolicyAcknowledged,
		ConsentSignature:      rec.EmergencyConsentSignature,
		Missing:               MissingFields(rec, StepPatientInfo),
	}
	if rec.EmergencyName != "" {
		r.EmergencyContact = rec.EmergencyName
		if rec.EmergencyRelationship != "" {
			r.EmergencyContact += " (" + rec.EmergencyRelationship + ")"
		}
	}
	for _, m := range rec.CurrentMedications {
		if m.Medication == "" {
			continue
		}
		line := m.Medication
		if m.HowOften != "" {
			line += " (" + m.HowOften + ")"
		}
		r.CurrentMedications = append(r.CurrentMedications, line)
	}

	for _, def := range measure.All() {
		p := InstrumentProgress{ID: def.ID, Code: def.Code, Total: len(def.Questions)}
		if def.Boolean {
			p.Answered = measure.AnsweredBoolCount(rec.MDQItems[:])
			p.Progress = fmt.Sprintf("%d/%d Yes", scores.MDQ.YesCount, p.Total)
		} else {
			answers, _ := rec.Answers(def.ID)
			p.Answered = measure.AnsweredCount(answers, measure.Unanswered)
			p.Progress = fmt.Sprintf("%d/%d", p.Answered, p.Total)
		}
		r.Instruments = append(r.Instruments, p)
	}
	return r
}
