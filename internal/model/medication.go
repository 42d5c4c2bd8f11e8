package model

import (
	"errors"
	"fmt"
)

var (
	ErrRowIndex     = errors.New("medication row index out of range")
	ErrUnknownField = errors.New("unknown medication field")
	ErrUnknownList  = errors.New("unknown medication list")
	ErrOutcome      = errors.New("unknown medication outcome")
)

// Medication is one row of the current medications list.
type Medication struct {
	Medication  string `json:"medication"`
	HowOften    string `json:"howOften"`
	DateStarted string `json:"dateStarted"`
}

// Empty reports whether every column is blank.
func (m Medication) Empty() bool {
	return m.Medication == "" && m.HowOften == "" && m.DateStarted == ""
}

// PastMedication is one row of the past medications list.
type PastMedication struct {
	Medication  string `json:"medication"`
	HowOften    string `json:"howOften"`
	DateStarted string `json:"dateStarted"`
	Outcome     string `json:"outcome"`
}

// Empty reports whether every column is blank.
func (m PastMedication) Empty() bool {
	return m.Medication == "" && m.HowOften == "" && m.DateStarted == "" && m.Outcome == ""
}

// MedicationList names one of the two medication lists.
type MedicationList string

const (
	CurrentMedicationList MedicationList = "current"
	PastMedicationList    MedicationList = "past"
)

// Valid reports whether l names a known list.
func (l MedicationList) Valid() bool {
	return l == CurrentMedicationList || l == PastMedicationList
}

// Medication field names accepted by the update operations. They match the
// JSON keys of the rows.
const (
	FieldMedication  = "medication"
	FieldHowOften    = "howOften"
	FieldDateStarted = "dateStarted"
	FieldOutcome     = "outcome"
)

// AppendMedication returns a copy of list with row appended.
func AppendMedication(list []Medication, row Medication) []Medication {
	out := make([]Medication, 0, len(list)+1)
	out = append(out, list...)
	return append(out, row)
}

// RemoveMedicationAt returns a copy of list without row i. The result always
// holds at least one row: removing the last row leaves a single empty row.
func RemoveMedicationAt(list []Medication, i int) ([]Medication, error) {
	if i < 0 || i >= len(list) {
		return nil, fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	out := make([]Medication, 0, len(list))
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	if len(out) == 0 {
		out = append(out, Medication{})
	}
	return out, nil
}

// UpdateMedicationField returns a copy of list with one column of row i set.
func UpdateMedicationField(list []Medication, i int, field, value string) ([]Medication, error) {
	if i < 0 || i >= len(list) {
		return nil, fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	out := append([]Medication(nil), list...)
	row := &out[i]
	switch field {
	case FieldMedication:
		row.Medication = value
	case FieldHowOften:
		row.HowOften = value
	case FieldDateStarted:
		row.DateStarted = value
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return out, nil
}

// AppendPastMedication returns a copy of list with row appended.
func AppendPastMedication(list []PastMedication, row PastMedication) []PastMedication {
	out := make([]PastMedication, 0, len(list)+1)
	out = append(out, list...)
	return append(out, row)
}

// RemovePastMedicationAt is RemoveMedicationAt for the past medications list.
func RemovePastMedicationAt(list []PastMedication, i int) ([]PastMedication, error) {
	if i < 0 || i >= len(list) {
		return nil, fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	out := make([]PastMedication, 0, len(list))
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	if len(out) == 0 {
		out = append(out, PastMedication{})
	}
	return out, nil
}

// UpdatePastMedicationField returns a copy of list with one column of row i
// set. Outcome must be empty or one of Outcomes.
func UpdatePastMedicationField(list []PastMedication, i int, field, value string) ([]PastMedication, error) {
	if i < 0 || i >= len(list) {
		return nil, fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	out := append([]PastMedication(nil), list...)
	row := &out[i]
	switch field {
	case FieldMedication:
		row.Medication = value
	case FieldHowOften:
		row.HowOften = value
	case FieldDateStarted:
		row.DateStarted = value
	case FieldOutcome:
		if value != "" && !contains(Outcomes, value) {
			return nil, fmt.Errorf("%w: %q", ErrOutcome, value)
		}
		row.Outcome = value
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return out, nil
}

// AppendMedicationRow returns a copy of r with an empty row appended to list.
func (r IntakeRecord) AppendMedicationRow(list MedicationList) (IntakeRecord, error) {
	out := r.Clone()
	switch list {
	case CurrentMedicationList:
		out.CurrentMedications = AppendMedication(r.CurrentMedications, Medication{})
	case PastMedicationList:
		out.PastMedications = AppendPastMedication(r.PastMedications, PastMedication{})
	default:
		return r, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	return out, nil
}

// RemoveMedicationRow returns a copy of r without row i of list.
func (r IntakeRecord) RemoveMedicationRow(list MedicationList, i int) (IntakeRecord, error) {
	out := r.Clone()
	var err error
	switch list {
	case CurrentMedicationList:
		out.CurrentMedications, err = RemoveMedicationAt(r.CurrentMedications, i)
	case PastMedicationList:
		out.PastMedications, err = RemovePastMedicationAt(r.PastMedications, i)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	if err != nil {
		return r, err
	}
	return out, nil
}

// UpdateMedicationRow returns a copy of r with one column of row i of list set.
func (r IntakeRecord) UpdateMedicationRow(list MedicationList, i int, field, value string) (IntakeRecord, error) {
	out := r.Clone()
	var err error
	switch list {
	case CurrentMedicationList:
		out.CurrentMedications, err = UpdateMedicationField(r.CurrentMedications, i, field, value)
	case PastMedicationList:
		out.PastMedications, err = UpdatePastMedicationField(r.PastMedications, i, field, value)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	if err != nil {
		return r, err
	}
	return out, nil
}
