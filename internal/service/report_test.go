package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dementia-probability-mcp/internal/domain"
)

func TestFormatReport(t *testing.T) {
	stats, err := Calculate(domain.Male, domain.Age70To74, domain.MMSEHigh)
	require.NoError(t, err)

	expected := "Prevalence for dementia: 3.70%\n" +
		"Likelihood Ratio for MMSE: 0.19\n" +
		"Post-test Probability: 0.72%"
	assert.Equal(t, expected, FormatReport(stats))

	stats, err = Calculate(domain.Female, domain.Age90Plus, domain.MMSELow)
	require.NoError(t, err)

	f := Format(stats)
	assert.Equal(t, "48.00%", f.Prevalence)
	assert.Equal(t, "6.3", f.LikelihoodRatio)
	assert.Equal(t, "85.33%", f.Probability)
}

func TestFormatRatio(t *testing.T) {
	assert.Equal(t, "6.3", FormatRatio(6.30))
	assert.Equal(t, "0.19", FormatRatio(0.19))
	assert.Equal(t, "2.0", FormatRatio(2))
}

func TestGetReferenceTables(t *testing.T) {
	ref := GetReferenceTables()

	require.Len(t, ref.Prevalence, 7)
	assert.Equal(t, domain.Age60To64, ref.Prevalence[0].AgeBracket)
	assert.Equal(t, 0.014, ref.Prevalence[0].Male)
	assert.Equal(t, 0.019, ref.Prevalence[0].Female)
	assert.Equal(t, domain.Age90Plus, ref.Prevalence[6].AgeBracket)
	assert.Equal(t, 0.480, ref.Prevalence[6].Female)

	require.Len(t, ref.LikelihoodRatios, 2)
	assert.Equal(t, 6.30, ref.LikelihoodRatios[0].LikelihoodRatio)
	assert.Equal(t, 0.19, ref.LikelihoodRatios[1].LikelihoodRatio)

	text := FormatReferenceTables(ref)
	assert.True(t, strings.Contains(text, "90+"))
	assert.True(t, strings.Contains(text, "48.00%"))
	assert.True(t, strings.Contains(text, "MMSE 25-30"))
}
