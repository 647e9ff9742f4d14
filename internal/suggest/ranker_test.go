package suggest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidates(scores ...float64) []Candidate {
	out := make([]Candidate, len(scores))
	for i, s := range scores {
		out[i] = Candidate{Hook: fmt.Sprintf("idea %d", i), ExpectedEngagement: s}
	}
	return out
}

func engagements(cs []Candidate) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.ExpectedEngagement
	}
	return out
}

func TestRank_TopThree(t *testing.T) {
	input := candidates(10, 90, 50, 30, 70)

	ranked := Rank(input, 3)

	assert.Equal(t, []float64{90, 70, 50}, engagements(ranked))
	assert.Equal(t, []float64{10, 90, 50, 30, 70}, engagements(input), "input must keep its order")
}

func TestRank_StableTies(t *testing.T) {
	input := candidates(50, 80, 50, 80)

	ranked := Rank(input, 4)

	require.Len(t, ranked, 4)
	assert.Equal(t, []string{"idea 1", "idea 3", "idea 0", "idea 2"},
		[]string{ranked[0].Hook, ranked[1].Hook, ranked[2].Hook, ranked[3].Hook})
}

func TestRank_Bounds(t *testing.T) {
	testCases := []struct {
		name     string
		input    []Candidate
		count    int
		expected int
	}{
		{"count larger than input is not padded", candidates(1, 2), 5, 2},
		{"zero count", candidates(1, 2), 0, 0},
		{"negative count", candidates(1, 2), -1, 0},
		{"empty input", nil, 3, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ranked := Rank(tc.input, tc.count)
			require.NotNil(t, ranked)
			assert.Len(t, ranked, tc.expected)
		})
	}
}

func TestClassifyHook(t *testing.T) {
	testCases := []struct {
		hook     string
		expected Theme
	}{
		{"The secret nobody tells you", ThemeInsiderKnowledge},
		{"One HACK for better lighting", ThemeInsiderKnowledge},
		{"3 mistakes beginners make", ThemeCautionaryAdvice},
		{"Avoid this editing trap", ThemeCautionaryAdvice},
		{"How I transformed my feed", ThemeTransformation},
		{"What would you change?", ThemeTransformation},
		{"Why do reels flop?", ThemeCuriosityDriven},
		{"A guide to color grading", ThemeEducational},
		{"The secret mistake?", ThemeInsiderKnowledge},
	}

	for _, tc := range testCases {
		t.Run(tc.hook, func(t *testing.T) {
			assert.Equal(t, tc.expected, ClassifyHook(tc.hook))
		})
	}
}

func TestExtractContentThemes_Deduplicated(t *testing.T) {
	themes := ExtractContentThemes([]Candidate{
		{Hook: "Why does this work?"},
		{Hook: "The secret to retention"},
		{Hook: "Is this the best camera?"},
		{Hook: "Lighting basics"},
		{Hook: "Another hack"},
	})

	assert.Equal(t, []Theme{ThemeCuriosityDriven, ThemeInsiderKnowledge, ThemeEducational}, themes)
	assert.Empty(t, ExtractContentThemes(nil))
}
