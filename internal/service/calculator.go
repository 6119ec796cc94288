package service

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dementia-probability-mcp/internal/domain"
)

// Calculation errors for inputs outside the closed enumerations
var (
	ErrUnknownCombination = errors.New("no prevalence for gender and age bracket")
	ErrUnknownMMSEResult  = errors.New("no likelihood ratio for MMSE result")
)

// Calculate returns the post-test probability of dementia for a sex, age
// group and MMSE result. It is a pure function of the constant tables.
//
// The odds update runs in a fixed order: pre-test odds from prevalence,
// multiplied by the likelihood ratio, converted back to a probability.
func Calculate(gender domain.Gender, age domain.AgeBracket, mmse domain.MMSEResult) (domain.DementiaStats, error) {
	prevalence, ok := LookupPrevalence(gender, age)
	if !ok {
		return domain.DementiaStats{}, fmt.Errorf("%w: %s, %s", ErrUnknownCombination, gender, age)
	}

	lr, ok := LookupLikelihoodRatio(mmse)
	if !ok {
		return domain.DementiaStats{}, fmt.Errorf("%w: %s", ErrUnknownMMSEResult, mmse)
	}

	return bayesUpdate(prevalence, lr), nil
}

// bayesUpdate applies Bayes' theorem on odds. A prevalence of 1 or more
// has no finite odds and is treated as zero pre-test odds.
func bayesUpdate(prevalence, lr float64) domain.DementiaStats {
	preTestOdds := 0.0
	if prevalence < 1 {
		preTestOdds = prevalence / (1 - prevalence)
	}
	postTestOdds := preTestOdds * lr
	probability := postTestOdds / (1 + postTestOdds)

	return domain.DementiaStats{
		Probability:     probability,
		Prevalence:      prevalence,
		LikelihoodRatio: lr,
		PreTestOdds:     preTestOdds,
		PostTestOdds:    postTestOdds,
	}
}

// CalculatorService wraps Calculate with selection validation and logging
// for the MCP tools, the REST API and the CLI.
type CalculatorService struct {
	logger *logrus.Logger
}

var _ domain.Calculator = (*CalculatorService)(nil)

// NewCalculatorService creates a new calculator service
func NewCalculatorService(logger *logrus.Logger) *CalculatorService {
	return &CalculatorService{logger: logger}
}

// Calculate implements domain.Calculator
func (s *CalculatorService) Calculate(gender domain.Gender, age domain.AgeBracket, mmse domain.MMSEResult) (domain.DementiaStats, error) {
	stats, err := Calculate(gender, age, mmse)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"gender":      int(gender),
			"age_bracket": int(age),
			"mmse_result": int(mmse),
		}).Error("Calculation rejected out-of-domain input")
		return domain.DementiaStats{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"gender":      gender.String(),
		"age_bracket": age.String(),
		"mmse_result": mmse.String(),
		"prevalence":  stats.Prevalence,
		"probability": stats.Probability,
	}).Debug("Calculated post-test probability")

	return stats, nil
}

// CalculateSelection validates that all three selections were made, then
// calculates. A missing selection returns *domain.IncompleteSelectionError.
func (s *CalculatorService) CalculateSelection(sel domain.Selection) (domain.DementiaStats, error) {
	if err := sel.Validate(); err != nil {
		s.logger.WithField("reason", err.Error()).Debug("Incomplete selection")
		return domain.DementiaStats{}, err
	}
	return s.Calculate(sel.Gender, sel.AgeBracket, sel.MMSEResult)
}

// CalculateRaw parses free-text selections and calculates.
func (s *CalculatorService) CalculateRaw(raw domain.RawSelection) (domain.Selection, domain.DementiaStats, error) {
	sel, err := raw.Parse()
	if err != nil {
		return sel, domain.DementiaStats{}, err
	}
	stats, err := s.CalculateSelection(sel)
	return sel, stats, err
}
