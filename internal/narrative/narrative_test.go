package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/contentrun/internal/hashtags"
	"github.com/sawpanic/contentrun/internal/performance"
	"github.com/sawpanic/contentrun/internal/suggest"
)

func TestFallback_Shape(t *testing.T) {
	n := Fallback()

	assert.Equal(t, 50, n.OverallScore)
	assert.Equal(t, ViralLow, n.ViralPotential)
	require.Len(t, n.KeyInsights, 1)
	assert.Contains(t, n.KeyInsights[0], "temporarily unavailable")

	for name, list := range map[string][]string{
		"strengths":     n.ContentStrategy.Strengths,
		"weaknesses":    n.ContentStrategy.Weaknesses,
		"opportunities": n.ContentStrategy.Opportunities,
		"immediate":     n.Recommendations.Immediate,
		"short term":    n.Recommendations.ShortTerm,
		"long term":     n.Recommendations.LongTerm,
	} {
		assert.Len(t, list, 1, name)
	}

	assert.NotEmpty(t, n.CompetitorAnalysis.Summary)
	assert.NotEmpty(t, n.Optimization.Summary)
	assert.NotEmpty(t, n.Trends.Summary)
}

func TestFallback_ReturnsIndependentCopies(t *testing.T) {
	first := Fallback()
	first.KeyInsights[0] = "mutated"
	first.ContentStrategy.Strengths[0] = "mutated"
	first.Trends.Points[0] = "mutated"

	assert.Equal(t, fallback, Fallback())
	assert.NotEqual(t, "mutated", Fallback().KeyInsights[0])
}

func TestNoData_Guidance(t *testing.T) {
	n := NoData()

	assert.Equal(t, 0, n.OverallScore)
	assert.Contains(t, n.KeyInsights[0], performance.NoDataGuidance)
	assert.Equal(t, []string{performance.NoDataGuidance}, n.Recommendations.Immediate)
}

func TestFallbackInputs_WorkWithRankerAndEvaluator(t *testing.T) {
	ranked := suggest.Rank(FallbackSuggestions(), 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, 60.0, ranked[0].ExpectedEngagement)
	assert.Equal(t, []suggest.Theme{suggest.ThemeCautionaryAdvice, suggest.ThemeCuriosityDriven, suggest.ThemeEducational},
		suggest.ExtractContentThemes(FallbackSuggestions()))

	eval := hashtags.Evaluate(FallbackHashtagStrategy(), []string{"#fyp"})
	assert.Equal(t, 6, eval.TotalTags)
	assert.Equal(t, 1, eval.CompetitorOverlap)
	assert.Equal(t, hashtags.ReachLow, eval.Reach)

	mutated := FallbackSuggestions()
	mutated[0].Hashtags[0] = "#changed"
	assert.Equal(t, "#contenttips", FallbackSuggestions()[0].Hashtags[0])
}
