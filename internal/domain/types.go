// Package domain contains the core entities for dementia risk estimation:
// the closed input enumerations (gender, age bracket, MMSE result), the
// calculation result, and the error and configuration types shared by every
// caller surface.
//
// Reference: post-test probability is derived from age and sex specific
// dementia prevalence and the likelihood ratio of the Mini-Mental State
// Examination at a 24/25 cut-off.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Gender is the biological sex used to select a prevalence row.
type Gender int

const (
	GenderUnspecified Gender = iota
	Male
	Female
)

// AgeBracket is one of the seven five-year age groups covered by the
// prevalence table. The last bracket is open-ended.
type AgeBracket int

const (
	AgeUnspecified AgeBracket = iota
	Age60To64
	Age65To69
	Age70To74
	Age75To79
	Age80To84
	Age85To89
	Age90Plus
)

// MMSEResult is the dichotomised Mini-Mental State Examination score.
type MMSEResult int

const (
	MMSEUnspecified MMSEResult = iota
	// MMSELow is a score of 0-24.
	MMSELow
	// MMSEHigh is a score of 25-30.
	MMSEHigh
)

// Parsing errors for the closed enumerations
var (
	ErrInvalidGender     = errors.New("invalid gender")
	ErrInvalidAgeBracket = errors.New("invalid age bracket")
	ErrInvalidMMSEResult = errors.New("invalid MMSE result")
)

var genderLabels = map[Gender]string{
	Male:   "Male",
	Female: "Female",
}

var ageBracketLabels = map[AgeBracket]string{
	Age60To64: "60-64",
	Age65To69: "65-69",
	Age70To74: "70-74",
	Age75To79: "75-79",
	Age80To84: "80-84",
	Age85To89: "85-89",
	Age90Plus: "90+",
}

var mmseLabels = map[MMSEResult]string{
	MMSELow:  "MMSE 0-24",
	MMSEHigh: "MMSE 25-30",
}

// Genders lists every valid gender in display order.
func Genders() []Gender {
	return []Gender{Male, Female}
}

// AgeBrackets lists every valid age bracket in ascending order.
func AgeBrackets() []AgeBracket {
	return []AgeBracket{Age60To64, Age65To69, Age70To74, Age75To79, Age80To84, Age85To89, Age90Plus}
}

// MMSEResults lists every valid MMSE result, low range first.
func MMSEResults() []MMSEResult {
	return []MMSEResult{MMSELow, MMSEHigh}
}

// Valid reports whether g is one of the declared genders.
func (g Gender) Valid() bool {
	_, ok := genderLabels[g]
	return ok
}

func (g Gender) String() string {
	if label, ok := genderLabels[g]; ok {
		return label
	}
	return fmt.Sprintf("Gender(%d)", int(g))
}

// MarshalText encodes the canonical label.
func (g Gender) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGender, int(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText accepts anything ParseGender accepts.
func (g *Gender) UnmarshalText(text []byte) error {
	parsed, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// ParseGender parses "male"/"m" or "female"/"f", case-insensitively.
func ParseGender(s string) (Gender, error) {
	switch normalize(s) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	default:
		return GenderUnspecified, fmt.Errorf("%w: %q", ErrInvalidGender, s)
	}
}

// Valid reports whether a is one of the seven declared brackets.
func (a AgeBracket) Valid() bool {
	_, ok := ageBracketLabels[a]
	return ok
}

func (a AgeBracket) String() string {
	if label, ok := ageBracketLabels[a]; ok {
		return label
	}
	return fmt.Sprintf("AgeBracket(%d)", int(a))
}

// MarshalText encodes the canonical label, e.g. "70-74".
func (a AgeBracket) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAgeBracket, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText accepts anything ParseAgeBracket accepts.
func (a *AgeBracket) UnmarshalText(text []byte) error {
	parsed, err := ParseAgeBracket(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAgeBracket parses a bracket label. Both "70-74" and "70_74" are
// accepted, and the open bracket may be written "90+", "90plus" or "90-".
func ParseAgeBracket(s string) (AgeBracket, error) {
	key := strings.ReplaceAll(normalize(s), "_", "-")
	key = strings.ReplaceAll(key, " ", "")
	switch key {
	case "90plus", "90-", "90+years":
		key = "90+"
	}
	for bracket, label := range ageBracketLabels {
		if key == label {
			return bracket, nil
		}
	}
	return AgeUnspecified, fmt.Errorf("%w: %q", ErrInvalidAgeBracket, s)
}

// Valid reports whether m is one of the two declared MMSE ranges.
func (m MMSEResult) Valid() bool {
	_, ok := mmseLabels[m]
	return ok
}

func (m MMSEResult) String() string {
	if label, ok := mmseLabels[m]; ok {
		return label
	}
	return fmt.Sprintf("MMSEResult(%d)", int(m))
}

// MarshalText encodes the canonical label, e.g. "MMSE 0-24".
func (m MMSEResult) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMMSEResult, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts anything ParseMMSEResult accepts.
func (m *MMSEResult) UnmarshalText(text []byte) error {
	parsed, err := ParseMMSEResult(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMMSEResult parses "low", "0-24" or "MMSE 0-24" as MMSELow and
// "high", "25-30" or "MMSE 25-30" as MMSEHigh.
func ParseMMSEResult(s string) (MMSEResult, error) {
	key := strings.TrimSpace(strings.TrimPrefix(normalize(s), "mmse"))
	switch key {
	case "low", "0-24":
		return MMSELow, nil
	case "high", "25-30":
		return MMSEHigh, nil
	default:
		return MMSEUnspecified, fmt.Errorf("%w: %q", ErrInvalidMMSEResult, s)
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
