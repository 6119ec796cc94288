package domain

// DementiaStats is the result of one post-test probability calculation.
// Probability, Prevalence and LikelihoodRatio are the three values shown to
// the user; the odds are kept so the Bayesian update can be audited.
type DementiaStats struct {
	Probability     float64 `json:"probability"`
	Prevalence      float64 `json:"prevalence"`
	LikelihoodRatio float64 `json:"likelihood_ratio"`
	PreTestOdds     float64 `json:"pre_test_odds"`
	PostTestOdds    float64 `json:"post_test_odds"`
}

// Selection is the caller-side input record: one choice from each of the
// three enumerations. The zero value has nothing selected.
type Selection struct {
	Gender     Gender     `json:"gender"`
	AgeBracket AgeBracket `json:"age_bracket"`
	MMSEResult MMSEResult `json:"mmse_result"`
}

// Selection field names, as used in error reports and request payloads
const (
	FieldGender     = "gender"
	FieldAgeBracket = "age_bracket"
	FieldMMSEResult = "mmse_result"
)

// Validate returns an *IncompleteSelectionError naming the first missing
// selection, checked in the order gender, age bracket, MMSE result.
func (s Selection) Validate() error {
	switch {
	case !s.Gender.Valid():
		return NewIncompleteSelectionError(FieldGender)
	case !s.AgeBracket.Valid():
		return NewIncompleteSelectionError(FieldAgeBracket)
	case !s.MMSEResult.Valid():
		return NewIncompleteSelectionError(FieldMMSEResult)
	}
	return nil
}

// RawSelection carries the three selections as free text, the way they
// arrive from tool arguments, query strings and CLI flags.
type RawSelection struct {
	Gender     string `json:"gender" form:"gender"`
	AgeBracket string `json:"age_bracket" form:"age_bracket"`
	MMSEResult string `json:"mmse_result" form:"mmse_result"`
}

// Parse converts the raw text into a Selection. Blank fields produce an
// *IncompleteSelectionError; unrecognised values a *ValidationError.
func (r RawSelection) Parse() (Selection, error) {
	var sel Selection

	if normalize(r.Gender) == "" {
		return sel, NewIncompleteSelectionError(FieldGender)
	}
	gender, err := ParseGender(r.Gender)
	if err != nil {
		return sel, NewValidationError(FieldGender, "must be Male or Female", r.Gender)
	}
	sel.Gender = gender

	if normalize(r.AgeBracket) == "" {
		return sel, NewIncompleteSelectionError(FieldAgeBracket)
	}
	age, err := ParseAgeBracket(r.AgeBracket)
	if err != nil {
		return sel, NewValidationError(FieldAgeBracket, "must be one of 60-64, 65-69, 70-74, 75-79, 80-84, 85-89, 90+", r.AgeBracket)
	}
	sel.AgeBracket = age

	if normalize(r.MMSEResult) == "" {
		return sel, NewIncompleteSelectionError(FieldMMSEResult)
	}
	mmse, err := ParseMMSEResult(r.MMSEResult)
	if err != nil {
		return sel, NewValidationError(FieldMMSEResult, "must be low (0-24) or high (25-30)", r.MMSEResult)
	}
	sel.MMSEResult = mmse

	return sel, nil
}
