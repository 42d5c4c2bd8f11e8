package model

import (
	"errors"
	"fmt"

	"github.com/lifebalance/intake-api/internal/measure"
)

// ErrInvalidPatch is wrapped by every error Patch.Validate returns.
var ErrInvalidPatch = errors.New("invalid patch")

// Patch is a typed partial update of an IntakeRecord. A nil field leaves the
// record untouched. Instrument vectors are replaced whole and must have the
// instrument's length.
type Patch struct {
	PatientName              *string        `json:"patientName,omitempty"`
	DOB                      *string        `json:"dob,omitempty"`
	Address                  *string        `json:"address,omitempty"`
	City                     *string        `json:"city,omitempty"`
	State                    *string        `json:"state,omitempty"`
	Zip                      *string        `json:"zip,omitempty"`
	PrimaryPhone             *string        `json:"primaryPhone,omitempty"`
	PrimaryPhoneMayContact   *bool          `json:"primaryPhoneMayContact,omitempty"`
	SecondaryPhone           *string        `json:"secondaryPhone,omitempty"`
	SecondaryPhoneMayContact *bool          `json:"secondaryPhoneMayContact,omitempty"`
	Email                    *string        `json:"email,omitempty"`
	MaritalStatus            *MaritalStatus `json:"maritalStatus,omitempty"`

	GuardianName            *string `json:"guardianName,omitempty"`
	GuardianDOB             *string `json:"guardianDob,omitempty"`
	GuardianAddress         *string `json:"guardianAddress,omitempty"`
	GuardianCity            *string `json:"guardianCity,omitempty"`
	GuardianState           *string `json:"guardianState,omitempty"`
	GuardianZip             *string `json:"guardianZip,omitempty"`
	GuardianPhone           *string `json:"guardianPhone,omitempty"`
	GuardianPhoneMayContact *bool   `json:"guardianPhoneMayContact,omitempty"`

	EmergencyName             *string `json:"emergencyName,omitempty"`
	EmergencyRelationship     *string `json:"emergencyRelationship,omitempty"`
	EmergencyAddress          *string `json:"emergencyAddress,omitempty"`
	EmergencyCity             *string `json:"emergencyCity,omitempty"`
	EmergencyState            *string `json:"emergencyState,omitempty"`
	EmergencyZip              *string `json:"emergencyZip,omitempty"`
	EmergencyPhone            *string `json:"emergencyPhone,omitempty"`
	EmergencyPhoneMayContact  *bool   `json:"emergencyPhoneMayContact,omitempty"`
	EmergencyConsentSignature *string `json:"emergencyConsentSignature,omitempty"`

	InsuranceCompany         *string `json:"insuranceCompany,omitempty"`
	MemberID                 *string `json:"memberId,omitempty"`
	GroupNumber              *string `json:"groupNumber,omitempty"`
	PolicyholderName         *string `json:"policyholderName,omitempty"`
	PolicyholderDOB          *string `json:"policyholderDob,omitempty"`
	PolicyholderRelationship *string `json:"policyholderRelationship,omitempty"`
	PolicyholderEmployer     *string `json:"policyholderEmployer,omitempty"`

	PaymentMethod                  *PaymentMethod `json:"paymentMethod,omitempty"`
	CancellationPolicyAcknowledged *bool          `json:"cancellationPolicyAcknowledged,omitempty"`

	PCPName                *string `json:"pcpName,omitempty"`
	PCPPhone               *string `json:"pcpPhone,omitempty"`
	PCPPermissionToContact *bool   `json:"pcpPermissionToContact,omitempty"`
	PharmacyName           *string `json:"pharmacyName,omitempty"`
	PharmacyCityState      *string `json:"pharmacyCityState,omitempty"`

	ReasonForVisit          *string          `json:"reasonForVisit,omitempty"`
	CurrentSymptoms         []string         `json:"currentSymptoms,omitempty"`
	SuicidalThoughts        *bool            `json:"suicidalThoughts,omitempty"`
	SuicidalThoughtsDetail  *string          `json:"suicidalThoughtsDetail,omitempty"`
	CurrentMedications      []Medication     `json:"currentMedications,omitempty"`
	PhysicalIllnesses       []string         `json:"physicalIllnesses,omitempty"`
	PhysicalIllnessOther    *string          `json:"physicalIllnessOther,omitempty"`
	OutpatientHistory       *bool            `json:"outpatientHistory,omitempty"`
	OutpatientHistoryDetail *string          `json:"outpatientHistoryDetail,omitempty"`
	InpatientHistory        *bool            `json:"inpatientHistory,omitempty"`
	InpatientHistoryDetail  *string          `json:"inpatientHistoryDetail,omitempty"`
	PastMedications         []PastMedication `json:"pastMedications,omitempty"`
	FamilyHistory           []string         `json:"familyHistory,omitempty"`
	FamilyHistoryOther      *string          `json:"familyHistoryOther,omitempty"`
	AdditionalInfo          *string          `json:"additionalInfo,omitempty"`

	PHQ9                     []int   `json:"phq9,omitempty"`
	PHQ9Difficulty           *string `json:"phq9Difficulty,omitempty"`
	GAD7                     []int   `json:"gad7,omitempty"`
	MDQItems                 []bool  `json:"mdqItems,omitempty"`
	MDQSameTime              *string `json:"mdqSameTime,omitempty"`
	MDQProblemLevel          *string `json:"mdqProblemLevel,omitempty"`
	MDQFamilyHistory         *string `json:"mdqFamilyHistory,omitempty"`
	MDQProfessionalDiagnosis *string `json:"mdqProfessionalDiagnosis,omitempty"`
	PCLC                     []int   `json:"pclc,omitempty"`
	ASRS                     []int   `json:"asrs,omitempty"`
}

// Validate checks the parts of a patch that cannot be merged blindly: vector
// lengths and ranges, enumerations, vocabularies and non-empty medication
// lists. Free text is not validated.
func (p Patch) Validate() error {
	if p.MaritalStatus != nil && !p.MaritalStatus.Valid() {
		return fmt.Errorf("%w: maritalStatus %q", ErrInvalidPatch, *p.MaritalStatus)
	}
	if p.PaymentMethod != nil && !p.PaymentMethod.Valid() {
		return fmt.Errorf("%w: paymentMethod %q", ErrInvalidPatch, *p.PaymentMethod)
	}
	tags := []struct {
		key   string
		got   []string
		vocab []string
	}{
		{"currentSymptoms", p.CurrentSymptoms, Symptoms},
		{"physicalIllnesses", p.PhysicalIllnesses, PhysicalIllnesses},
		{"familyHistory", p.FamilyHistory, FamilyHistoryOptions},
	}
	for _, t := range tags {
		for _, tag := range t.got {
			if !contains(t.vocab, tag) {
				return fmt.Errorf("%w: %s tag %q", ErrInvalidPatch, t.key, tag)
			}
		}
	}
	if p.CurrentMedications != nil && len(p.CurrentMedications) == 0 {
		return fmt.Errorf("%w: currentMedications must hold at least one row", ErrInvalidPatch)
	}
	if p.PastMedications != nil && len(p.PastMedications) == 0 {
		return fmt.Errorf("%w: pastMedications must hold at least one row", ErrInvalidPatch)
	}
	for i, m := range p.PastMedications {
		if m.Outcome != "" && !contains(Outcomes, m.Outcome) {
			return fmt.Errorf("%w: pastMedications[%d] outcome %q", ErrInvalidPatch, i, m.Outcome)
		}
	}

	vectors := []struct {
		id  measure.Instrument
		got []int
	}{
		{measure.PHQ9, p.PHQ9},
		{measure.GAD7, p.GAD7},
		{measure.PCLC, p.PCLC},
		{measure.ASRS, p.ASRS},
	}
	for _, v := range vectors {
		if v.got == nil {
			continue
		}
		def := measure.MustLookup(v.id)
		if len(v.got) != len(def.Questions) {
			return fmt.Errorf("%w: %s needs %d answers, got %d", ErrInvalidPatch, v.id, len(def.Questions), len(v.got))
		}
		for i, a := range v.got {
			if a != measure.Unanswered && !def.Valid(a) {
				return fmt.Errorf("%w: %s[%d] = %d is outside %d..%d", ErrInvalidPatch, v.id, i, a, def.Min(), def.Max())
			}
		}
	}
	if p.MDQItems != nil && len(p.MDQItems) != measure.MDQItems {
		return fmt.Errorf("%w: mdq needs %d items, got %d", ErrInvalidPatch, measure.MDQItems, len(p.MDQItems))
	}

	followUps := []struct {
		id  measure.Instrument
		key string
		got *string
	}{
		{measure.PHQ9, "phq9Difficulty", p.PHQ9Difficulty},
		{measure.MDQ, "mdqSameTime", p.MDQSameTime},
		{measure.MDQ, "mdqProblemLevel", p.MDQProblemLevel},
		{measure.MDQ, "mdqFamilyHistory", p.MDQFamilyHistory},
		{measure.MDQ, "mdqProfessionalDiagnosis", p.MDQProfessionalDiagnosis},
	}
	for _, f := range followUps {
		if f.got == nil || *f.got == "" {
			continue
		}
		if !followUpChoice(f.id, f.key, *f.got) {
			return fmt.Errorf("%w: %s %q", ErrInvalidPatch, f.key, *f.got)
		}
	}
	return nil
}

func followUpChoice(id measure.Instrument, key, value string) bool {
	for _, f := range measure.MustLookup(id).FollowUps {
		if f.Key == key {
			return contains(f.Choices, value)
		}
	}
	return false
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Merge returns a copy of r with every non-nil field of p applied. r is not
// modified. Merge does not validate; callers run p.Validate first.
func Merge(r IntakeRecord, p Patch) IntakeRecord {
	out := r.Clone()

	set(&out.PatientName, p.PatientName)
	set(&out.DOB, p.DOB)
	set(&out.Address, p.Address)
	set(&out.City, p.City)
	set(&out.State, p.State)
	set(&out.Zip, p.Zip)
	set(&out.PrimaryPhone, p.PrimaryPhone)
	set(&out.PrimaryPhoneMayContact, p.PrimaryPhoneMayContact)
	set(&out.SecondaryPhone, p.SecondaryPhone)
	set(&out.SecondaryPhoneMayContact, p.SecondaryPhoneMayContact)
	set(&out.Email, p.Email)
	set(&out.MaritalStatus, p.MaritalStatus)

	set(&out.GuardianName, p.GuardianName)
	set(&out.GuardianDOB, p.GuardianDOB)
	set(&out.GuardianAddress, p.GuardianAddress)
	set(&out.GuardianCity, p.GuardianCity)
	set(&out.GuardianState, p.GuardianState)
	set(&out.GuardianZip, p.GuardianZip)
	set(&out.GuardianPhone, p.GuardianPhone)
	set(&out.GuardianPhoneMayContact, p.GuardianPhoneMayContact)

	set(&out.EmergencyName, p.EmergencyName)
	set(&out.EmergencyRelationship, p.EmergencyRelationship)
	set(&out.EmergencyAddress, p.EmergencyAddress)
	set(&out.EmergencyCity, p.EmergencyCity)
	set(&out.EmergencyState, p.EmergencyState)
	set(&out.EmergencyZip, p.EmergencyZip)
	set(&out.EmergencyPhone, p.EmergencyPhone)
	set(&out.EmergencyPhoneMayContact, p.EmergencyPhoneMayContact)
	set(&out.EmergencyConsentSignature, p.EmergencyConsentSignature)

	set(&out.InsuranceCompany, p.InsuranceCompany)
	set(&out.MemberID, p.MemberID)
	set(&out.GroupNumber, p.GroupNumber)
	set(&out.PolicyholderName, p.PolicyholderName)
	set(&out.PolicyholderDOB, p.PolicyholderDOB)
	set(&out.PolicyholderRelationship, p.PolicyholderRelationship)
	set(&out.PolicyholderEmployer, p.PolicyholderEmployer)

	set(&out.PaymentMethod, p.PaymentMethod)
	set(&out.CancellationPolicyAcknowledged, p.CancellationPolicyAcknowledged)

	set(&out.PCPName, p.PCPName)
	set(&out.PCPPhone, p.PCPPhone)
	set(&out.PCPPermissionToContact, p.PCPPermissionToContact)
	set(&out.PharmacyName, p.PharmacyName)
	set(&out.PharmacyCityState, p.PharmacyCityState)

	set(&out.ReasonForVisit, p.ReasonForVisit)
	set(&out.SuicidalThoughts, p.SuicidalThoughts)
	set(&out.SuicidalThoughtsDetail, p.SuicidalThoughtsDetail)
	set(&out.PhysicalIllnessOther, p.PhysicalIllnessOther)
	set(&out.OutpatientHistory, p.OutpatientHistory)
	set(&out.OutpatientHistoryDetail, p.OutpatientHistoryDetail)
	set(&out.InpatientHistory, p.InpatientHistory)
	set(&out.InpatientHistoryDetail, p.InpatientHistoryDetail)
	set(&out.FamilyHistoryOther, p.FamilyHistoryOther)
	set(&out.AdditionalInfo, p.AdditionalInfo)

	if p.CurrentSymptoms != nil {
		out.CurrentSymptoms = dedupe(p.CurrentSymptoms)
	}
	if p.PhysicalIllnesses != nil {
		out.PhysicalIllnesses = dedupe(p.PhysicalIllnesses)
	}
	if p.FamilyHistory != nil {
		out.FamilyHistory = dedupe(p.FamilyHistory)
	}
	if len(p.CurrentMedications) > 0 {
		out.CurrentMedications = append([]Medication(nil), p.CurrentMedications...)
	}
	if len(p.PastMedications) > 0 {
		out.PastMedications = append([]PastMedication(nil), p.PastMedications...)
	}

	copyVector(out.PHQ9[:], p.PHQ9)
	copyVector(out.GAD7[:], p.GAD7)
	copyVector(out.PCLC[:], p.PCLC)
	copyVector(out.ASRS[:], p.ASRS)
	if len(p.MDQItems) == measure.MDQItems {
		copy(out.MDQItems[:], p.MDQItems)
	}
	set(&out.PHQ9Difficulty, p.PHQ9Difficulty)
	set(&out.MDQSameTime, p.MDQSameTime)
	set(&out.MDQProblemLevel, p.MDQProblemLevel)
	set(&out.MDQFamilyHistory, p.MDQFamilyHistory)
	set(&out.MDQProfessionalDiagnosis, p.MDQProfessionalDiagnosis)

	return out
}

func copyVector(dst, src []int) {
	if len(src) == len(dst) {
		copy(dst, src)
	}
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// SetAnswer returns a copy of r with item i of instrument id set to v. v may be
// measure.Unanswered to clear a numeric item; MDQ items take 0 (No) or 1 (Yes).
func (r IntakeRecord) SetAnswer(id measure.Instrument, i, v int) (IntakeRecord, error) {
	def, ok := measure.Lookup(id)
	if !ok {
		return r, fmt.Errorf("%w: unknown instrument %q", ErrInvalidPatch, id)
	}
	if i < 0 || i >= len(def.Questions) {
		return r, fmt.Errorf("%w: %s has no item %d", ErrInvalidPatch, id, i)
	}
	out := r.Clone()
	if def.Boolean {
		if !def.Valid(v) {
			return r, fmt.Errorf("%w: %s[%d] = %d is not 0 or 1", ErrInvalidPatch, id, i, v)
		}
		out.MDQItems[i] = v == 1
		return out, nil
	}
	if v != measure.Unanswered && !def.Valid(v) {
		return r, fmt.Errorf("%w: %s[%d] = %d is outside %d..%d", ErrInvalidPatch, id, i, v, def.Min(), def.Max())
	}
	answers, _ := out.Answers(id)
	answers[i] = v
	return out, nil
}
