package compare

import (
	"fmt"
	"sort"
)

// Kind classifies a finding.
type Kind int

const (
	MissingKey Kind = iota
	ExtraKey
	VariableMismatch
)

// String returns the upper-case name used in reports.
func (k Kind) String() string {
	switch k {
	case MissingKey:
		return "MISSING_KEY"
	case ExtraKey:
		return "EXTRA_KEY"
	case VariableMismatch:
		return "VARIABLE_MISMATCH"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Finding is one inconsistency, always reported on Language.
//
//	MissingKey:       Language lacks Key; ReferenceLanguage/ReferenceFile show where it is defined.
//	ExtraKey:         Language defines Key in File but the baseline language does not.
//	VariableMismatch: Variables in Language (File) differ from ReferenceVariables
//	                  in ReferenceLanguage (ReferenceFile).
type Finding struct {
	Kind               Kind     `json:"kind"`
	Key                string   `json:"key"`
	Language           string   `json:"language"`
	File               string   `json:"file,omitempty"`
	Variables          []string `json:"variables,omitempty"`
	ReferenceLanguage  string   `json:"reference_language,omitempty"`
	ReferenceFile      string   `json:"reference_file,omitempty"`
	ReferenceVariables []string `json:"reference_variables,omitempty"`
}

// Sort orders findings by language, then kind, then key.
func Sort(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Language != b.Language {
			return a.Language < b.Language
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Key < b.Key
	})
}
