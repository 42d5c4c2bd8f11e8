package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSelection = errors.New("unknown selection set")
	ErrUnknownTag       = errors.New("tag is not in the vocabulary")
)

// Toggle returns a copy of set with item added when absent or removed when
// present. The result never holds duplicates.
func Toggle(set []string, item string) []string {
	out := make([]string, 0, len(set)+1)
	found := false
	for _, s := range set {
		if s == item {
			found = true
			continue
		}
		if !contains(out, s) {
			out = append(out, s)
		}
	}
	if !found {
		out = append(out, item)
	}
	return out
}

// ToggleSelection toggles tag in the named set of r. The tag must belong to the
// set's vocabulary.
func (r IntakeRecord) ToggleSelection(set SelectionSet, tag string) (IntakeRecord, error) {
	vocab, ok := set.Vocabulary()
	if !ok {
		return r, fmt.Errorf("%w: %q", ErrUnknownSelection, set)
	}
	if !contains(vocab, tag) {
		return r, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	out := r.Clone()
	switch set {
	case SelectionSymptoms:
		out.CurrentSymptoms = Toggle(r.CurrentSymptoms, tag)
	case SelectionIllnesses:
		out.PhysicalIllnesses = Toggle(r.PhysicalIllnesses, tag)
	case SelectionFamilyHistory:
		out.FamilyHistory = Toggle(r.FamilyHistory, tag)
	}
	return out, nil
}
