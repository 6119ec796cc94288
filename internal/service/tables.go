package service

import (
	"github.com/dementia-probability-mcp/internal/domain"
)

type prevalenceKey struct {
	gender domain.Gender
	age    domain.AgeBracket
}

// prevalenceTable holds the baseline dementia prevalence by sex and age
// group. Read-only after package initialisation.
var prevalenceTable = map[prevalenceKey]float64{
	{domain.Male, domain.Age60To64}: 0.014,
	{domain.Male, domain.Age65To69}: 0.023,
	{domain.Male, domain.Age70To74}: 0.037,
	{domain.Male, domain.Age75To79}: 0.063,
	{domain.Male, domain.Age80To84}: 0.106,
	{domain.Male, domain.Age85To89}: 0.174,
	{domain.Male, domain.Age90Plus}: 0.334,

	{domain.Female, domain.Age60To64}: 0.019,
	{domain.Female, domain.Age65To69}: 0.030,
	{domain.Female, domain.Age70To74}: 0.050,
	{domain.Female, domain.Age75To79}: 0.086,
	{domain.Female, domain.Age80To84}: 0.148,
	{domain.Female, domain.Age85To89}: 0.274,
	{domain.Female, domain.Age90Plus}: 0.480,
}

// likelihoodRatios holds the MMSE likelihood ratio at the 24/25 cut-off.
var likelihoodRatios = map[domain.MMSEResult]float64{
	domain.MMSELow:  6.30,
	domain.MMSEHigh: 0.19,
}

// LookupPrevalence returns the tabulated prevalence for a sex and age group.
func LookupPrevalence(gender domain.Gender, age domain.AgeBracket) (float64, bool) {
	p, ok := prevalenceTable[prevalenceKey{gender, age}]
	return p, ok
}

// LookupLikelihoodRatio returns the likelihood ratio for an MMSE result.
func LookupLikelihoodRatio(mmse domain.MMSEResult) (float64, bool) {
	lr, ok := likelihoodRatios[mmse]
	return lr, ok
}

// PrevalenceRow is one age group of the prevalence table.
type PrevalenceRow struct {
	AgeBracket domain.AgeBracket `json:"age_bracket"`
	Male       float64           `json:"male"`
	Female     float64           `json:"female"`
}

// LikelihoodRatioRow is one entry of the likelihood ratio table.
type LikelihoodRatioRow struct {
	MMSEResult      domain.MMSEResult `json:"mmse_result"`
	LikelihoodRatio float64           `json:"likelihood_ratio"`
}

// ReferenceTables is the auditable view of every constant the calculator
// uses, plus the accepted input values.
type ReferenceTables struct {
	Prevalence       []PrevalenceRow      `json:"prevalence"`
	LikelihoodRatios []LikelihoodRatioRow `json:"likelihood_ratios"`
	Genders          []domain.Gender      `json:"genders"`
	AgeBrackets      []domain.AgeBracket  `json:"age_brackets"`
	MMSEResults      []domain.MMSEResult  `json:"mmse_results"`
}

// GetReferenceTables returns the tables in display order.
func GetReferenceTables() ReferenceTables {
	ref := ReferenceTables{
		Genders:     domain.Genders(),
		AgeBrackets: domain.AgeBrackets(),
		MMSEResults: domain.MMSEResults(),
	}

	for _, age := range domain.AgeBrackets() {
		male, _ := LookupPrevalence(domain.Male, age)
		female, _ := LookupPrevalence(domain.Female, age)
		ref.Prevalence = append(ref.Prevalence, PrevalenceRow{
			AgeBracket: age,
			Male:       male,
			Female:     female,
		})
	}

	for _, mmse := range domain.MMSEResults() {
		lr, _ := LookupLikelihoodRatio(mmse)
		ref.LikelihoodRatios = append(ref.LikelihoodRatios, LikelihoodRatioRow{
			MMSEResult:      mmse,
			LikelihoodRatio: lr,
		})
	}

	return ref
}
