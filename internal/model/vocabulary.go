package model

// MaritalStatus is the patient's marital status. The zero value means not selected.
type MaritalStatus string

const (
	MaritalStatusSingle    MaritalStatus = "Single"
	MaritalStatusMarried   MaritalStatus = "Married"
	MaritalStatusPartnered MaritalStatus = "Partnered"
	MaritalStatusDivorced  MaritalStatus = "Divorced"
	MaritalStatusWidowed   MaritalStatus = "Widowed"
)

// Valid reports whether s is empty or one of the known statuses.
func (s MaritalStatus) Valid() bool {
	switch s {
	case "", MaritalStatusSingle, MaritalStatusMarried, MaritalStatusPartnered,
		MaritalStatusDivorced, MaritalStatusWidowed:
		return true
	}
	return false
}

// PaymentMethod is the preferred way to pay. Only the category is kept.
type PaymentMethod string

const (
	PaymentVisa       PaymentMethod = "Visa"
	PaymentMastercard PaymentMethod = "Mastercard"
	PaymentAmex       PaymentMethod = "Amex"
	PaymentDiscover   PaymentMethod = "Discover"
	PaymentHSAFSA     PaymentMethod = "HSA/FSA"
	PaymentOther      PaymentMethod = "Other"
)

// Valid reports whether m is empty or one of the known methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case "", PaymentVisa, PaymentMastercard, PaymentAmex, PaymentDiscover,
		PaymentHSAFSA, PaymentOther:
		return true
	}
	return false
}

// DisplayName is the label printed on the intake document.
func (m PaymentMethod) DisplayName() string {
	switch m {
	case PaymentAmex:
		return "American Express"
	case PaymentHSAFSA:
		return "HSA / FSA Card"
	case PaymentOther:
		return "Other / Cash"
	}
	return string(m)
}

// Past medication outcomes.
const (
	OutcomeHelpful         = "Helpful"
	OutcomeSomewhatHelpful = "Somewhat helpful"
	OutcomeNotHelpful      = "Not helpful"
	OutcomeSideEffects     = "Side effects"
)

// Outcomes lists the allowed past-medication outcomes.
var Outcomes = []string{OutcomeHelpful, OutcomeSomewhatHelpful, OutcomeNotHelpful, OutcomeSideEffects}

// Symptoms is the fixed vocabulary of the current-symptoms checklist.
var Symptoms = []string{
	"Depressed mood", "Avoidance", "Excessive energy", "Racing thoughts",
	"Impulsivity", "Excessive guilt", "Excessive worry", "Loss of interests",
	"Tiredness/Fatigue", "Unable to enjoy usual activities", "Hallucinations",
	"Crying spells", "Forgetfulness", "Trouble concentrating",
	"Anxiety/Panic Attacks", "Increased anger/irritability", "Libido/drive changes",
	"Trouble falling/staying asleep", "Substance use", "Weight changes", "Appetite changes",
}

// PhysicalIllnesses is the fixed vocabulary of the physical-illness checklist.
var PhysicalIllnesses = []string{
	"Anemia", "Thyroid problems/diseases", "Liver problems/diseases",
	"Chronic fatigue", "Kidney disease", "Diabetes",
	"Asthma/respiratory problems", "Heart disease", "Stomach/GI tract problems",
	"Epilepsy/seizures", "Fibromyalgia", "Chronic pain",
	"High blood pressure", "High cholesterol", "Brain/head trauma",
}

// FamilyHistoryOptions is the fixed vocabulary of the family-history checklist.
var FamilyHistoryOptions = []string{
	"Anxiety", "Depression", "Post-traumatic stress", "Drug/Alcohol abuse",
	"Anger issues", "Bipolar disorder", "Schizophrenia", "Self harm/attempted suicide",
}

// SelectionSet names one of the record's tag sets.
type SelectionSet string

const (
	SelectionSymptoms      SelectionSet = "symptoms"
	SelectionIllnesses     SelectionSet = "illnesses"
	SelectionFamilyHistory SelectionSet = "family-history"
)

// Vocabulary returns the allowed tags for set.
func (s SelectionSet) Vocabulary() ([]string, bool) {
	switch s {
	case SelectionSymptoms:
		return Symptoms, true
	case SelectionIllnesses:
		return PhysicalIllnesses, true
	case SelectionFamilyHistory:
		return FamilyHistoryOptions, true
	}
	return nil, false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
