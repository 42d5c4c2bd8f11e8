package model

import (
	"github.com/lifebalance/intake-api/internal/measure"
)

// IntakeRecord holds every answer of one new-patient intake. JSON keys are the
// contract with the front-end form.
type IntakeRecord struct {
	// Patient identity and contact
	PatientName              string        `json:"patientName"`
	DOB                      string        `json:"dob"`
	Address                  string        `json:"address"`
	City                     string        `json:"city"`
	State                    string        `json:"state"`
	Zip                      string        `json:"zip"`
	PrimaryPhone             string        `json:"primaryPhone"`
	PrimaryPhoneMayContact   bool          `json:"primaryPhoneMayContact"`
	SecondaryPhone           string        `json:"secondaryPhone"`
	SecondaryPhoneMayContact bool          `json:"secondaryPhoneMayContact"`
	Email                    string        `json:"email"`
	MaritalStatus            MaritalStatus `json:"maritalStatus"`

	// Parent or guardian, minors only
	GuardianName            string `json:"guardianName"`
	GuardianDOB             string `json:"guardianDob"`
	GuardianAddress         string `json:"guardianAddress"`
	GuardianCity            string `json:"guardianCity"`
	GuardianState           string `json:"guardianState"`
	GuardianZip             string `json:"guardianZip"`
	GuardianPhone           string `json:"guardianPhone"`
	GuardianPhoneMayContact bool   `json:"guardianPhoneMayContact"`

	// Emergency contact
	EmergencyName             string `json:"emergencyName"`
	EmergencyRelationship     string `json:"emergencyRelationship"`
	EmergencyAddress          string `json:"emergencyAddress"`
	EmergencyCity             string `json:"emergencyCity"`
	EmergencyState            string `json:"emergencyState"`
	EmergencyZip              string `json:"emergencyZip"`
	EmergencyPhone            string `json:"emergencyPhone"`
	EmergencyPhoneMayContact  bool   `json:"emergencyPhoneMayContact"`
	EmergencyConsentSignature string `json:"emergencyConsentSignature"`

	// Insurance
	InsuranceCompany         string `json:"insuranceCompany"`
	MemberID                 string `json:"memberId"`
	GroupNumber              string `json:"groupNumber"`
	PolicyholderName         string `json:"policyholderName"`
	PolicyholderDOB          string `json:"policyholderDob"`
	PolicyholderRelationship string `json:"policyholderRelationship"`
	PolicyholderEmployer     string `json:"policyholderEmployer"`

	// Payment. Card numbers are never collected.
	PaymentMethod                  PaymentMethod `json:"paymentMethod"`
	CancellationPolicyAcknowledged bool          `json:"cancellationPolicyAcknowledged"`

	// Care coordination
	PCPName                string `json:"pcpName"`
	PCPPhone               string `json:"pcpPhone"`
	PCPPermissionToContact bool   `json:"pcpPermissionToContact"`
	PharmacyName           string `json:"pharmacyName"`
	PharmacyCityState      string `json:"pharmacyCityState"`

	// Medical history
	ReasonForVisit          string           `json:"reasonForVisit"`
	CurrentSymptoms         []string         `json:"currentSymptoms"`
	SuicidalThoughts        bool             `json:"suicidalThoughts"`
	SuicidalThoughtsDetail  string           `json:"suicidalThoughtsDetail"`
	CurrentMedications      []Medication     `json:"currentMedications"`
	PhysicalIllnesses       []string         `json:"physicalIllnesses"`
	PhysicalIllnessOther    string           `json:"physicalIllnessOther"`
	OutpatientHistory       bool             `json:"outpatientHistory"`
	OutpatientHistoryDetail string           `json:"outpatientHistoryDetail"`
	InpatientHistory        bool             `json:"inpatientHistory"`
	InpatientHistoryDetail  string           `json:"inpatientHistoryDetail"`
	PastMedications         []PastMedication `json:"pastMedications"`
	FamilyHistory           []string         `json:"familyHistory"`
	FamilyHistoryOther      string           `json:"familyHistoryOther"`
	AdditionalInfo          string           `json:"additionalInfo"`

	// Screening instruments
	PHQ9                     [measure.PHQ9Items]int `json:"phq9"`
	PHQ9Difficulty           string                 `json:"phq9Difficulty"`
	GAD7                     [measure.GAD7Items]int `json:"gad7"`
	MDQItems                 [measure.MDQItems]bool `json:"mdqItems"`
	MDQSameTime              string                 `json:"mdqSameTime"`
	MDQProblemLevel          string                 `json:"mdqProblemLevel"`
	MDQFamilyHistory         string                 `json:"mdqFamilyHistory"`
	MDQProfessionalDiagnosis string                 `json:"mdqProfessionalDiagnosis"`
	PCLC                     [measure.PCLCItems]int `json:"pclc"`
	ASRS                     [measure.ASRSItems]int `json:"asrs"`
}

// NewIntakeRecord returns the empty record a new intake starts from: empty
// text, empty selections, every numeric answer unanswered, every MDQ item NO
// and one blank row in each medication list.
func NewIntakeRecord() IntakeRecord {
	r := IntakeRecord{
		CurrentSymptoms:    []string{},
		PhysicalIllnesses:  []string{},
		FamilyHistory:      []string{},
		CurrentMedications: []Medication{{}},
		PastMedications:    []PastMedication{{}},
	}
	fillUnanswered(r.PHQ9[:])
	fillUnanswered(r.GAD7[:])
	fillUnanswered(r.PCLC[:])
	fillUnanswered(r.ASRS[:])
	return r
}

func fillUnanswered(v []int) {
	for i := range v {
		v[i] = measure.Unanswered
	}
}

// Clone returns a deep copy, so the copy can be handed to the renderer or the
// submission pipeline as a snapshot.
func (r IntakeRecord) Clone() IntakeRecord {
	out := r
	out.CurrentSymptoms = cloneStrings(r.CurrentSymptoms)
	out.PhysicalIllnesses = cloneStrings(r.PhysicalIllnesses)
	out.FamilyHistory = cloneStrings(r.FamilyHistory)
	out.CurrentMedications = append([]Medication(nil), r.CurrentMedications...)
	out.PastMedications = append([]PastMedication(nil), r.PastMedications...)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append(make([]string, 0, len(in)), in...)
}

// HasGuardian reports whether the guardian block was filled in.
func (r IntakeRecord) HasGuardian() bool {
	return r.GuardianName != ""
}

// Scores runs every instrument's scoring rule over the record.
func (r IntakeRecord) Scores() measure.Summary {
	return measure.Summary{
		PHQ9: measure.ScorePHQ9(r.PHQ9[:]),
		GAD7: measure.ScoreGAD7(r.GAD7[:]),
		MDQ:  measure.ScoreMDQ(r.MDQItems[:], r.MDQSameTime, r.MDQProblemLevel),
		PCLC: measure.ScorePCLC(r.PCLC[:]),
		ASRS: measure.ScoreASRS(r.ASRS[:]),
	}
}

// Answers returns the numeric answer vector of a summed instrument. MDQ has no
// numeric vector and returns false.
func (r *IntakeRecord) Answers(id measure.Instrument) ([]int, bool) {
	switch id {
	case measure.PHQ9:
		return r.PHQ9[:], true
	case measure.GAD7:
		return r.GAD7[:], true
	case measure.PCLC:
		return r.PCLC[:], true
	case measure.ASRS:
		return r.ASRS[:], true
	}
	return nil, false
}

// FollowUpAnswer returns the stored answer to an instrument follow-up by its
// key, or "" for an unknown key.
func (r IntakeRecord) FollowUpAnswer(key string) string {
	switch key {
	case "phq9Difficulty":
		return r.PHQ9Difficulty
	case "mdqSameTime":
		return r.MDQSameTime
	case "mdqProblemLevel":
		return r.MDQProblemLevel
	case "mdqFamilyHistory":
		return r.MDQFamilyHistory
	case "mdqProfessionalDiagnosis":
		return r.MDQProfessionalDiagnosis
	}
	return ""
}
