package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dementia-probability-mcp/internal/domain"
)

// FormattedStats holds the display strings for one result.
type FormattedStats struct {
	Prevalence      string `json:"prevalence"`
	LikelihoodRatio string `json:"likelihood_ratio"`
	Probability     string `json:"probability"`
}

// FormatPercent renders a probability as a percentage with two decimals.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

// FormatRatio renders a likelihood ratio in its shortest decimal form (6.3, 0.19).
func FormatRatio(lr float64) string {
	s := strconv.FormatFloat(lr, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Format returns the display strings for stats.
func Format(stats domain.DementiaStats) FormattedStats {
	return FormattedStats{
		Prevalence:      FormatPercent(stats.Prevalence),
		LikelihoodRatio: FormatRatio(stats.LikelihoodRatio),
		Probability:     FormatPercent(stats.Probability),
	}
}

// FormatReport renders the three-line result text.
func FormatReport(stats domain.DementiaStats) string {
	f := Format(stats)
	return fmt.Sprintf("Prevalence for dementia: %s\nLikelihood Ratio for MMSE: %s\nPost-test Probability: %s",
		f.Prevalence, f.LikelihoodRatio, f.Probability)
}

// FormatReferenceTables renders the prevalence and likelihood ratio tables
// as aligned plain text.
func FormatReferenceTables(ref ReferenceTables) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-8s %8s %8s\n", "Age", "Male", "Female")
	for _, row := range ref.Prevalence {
		fmt.Fprintf(&b, "%-8s %8s %8s\n", row.AgeBracket, FormatPercent(row.Male), FormatPercent(row.Female))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%-12s %s\n", "MMSE", "Likelihood ratio")
	for _, row := range ref.LikelihoodRatios {
		fmt.Fprintf(&b, "%-12s %s\n", row.MMSEResult, FormatRatio(row.LikelihoodRatio))
	}

	return b.String()
}
