package suggest

import (
	"sort"
	"strings"
)

// Candidate is a content idea produced by the text-generation collaborator
type Candidate struct {
	Hook               string   `json:"hook" yaml:"hook"`
	FullContent        string   `json:"full_content" yaml:"full_content"`
	Hashtags           []string `json:"hashtags" yaml:"hashtags"`
	ExpectedEngagement float64  `json:"expected_engagement" yaml:"expected_engagement"` // 0-100
	Reasoning          string   `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
}

// Theme is a coarse classification of a suggestion's hook
type Theme string

const (
	ThemeInsiderKnowledge Theme = "insider knowledge"
	ThemeCautionaryAdvice Theme = "cautionary advice"
	ThemeTransformation   Theme = "transformation"
	ThemeCuriosityDriven  Theme = "curiosity-driven"
	ThemeEducational      Theme = "educational"
)

// themeRules are checked in order; the first rule with a matching keyword wins
var themeRules = []struct {
	theme    Theme
	keywords []string
}{
	{ThemeInsiderKnowledge, []string{"secret", "hack"}},
	{ThemeCautionaryAdvice, []string{"mistake", "avoid"}},
	{ThemeTransformation, []string{"transform", "change"}},
	{ThemeCuriosityDriven, []string{"?"}},
}

// Rank orders candidates by expected engagement, highest first, and keeps at
// most count of them. Equal scores keep their input order. The input slice is
// not modified and the result is never padded.
func Rank(candidates []Candidate, count int) []Candidate {
	if count <= 0 || len(candidates) == 0 {
		return []Candidate{}
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ExpectedEngagement > ranked[j].ExpectedEngagement
	})

	if count < len(ranked) {
		ranked = ranked[:count]
	}
	return ranked
}

// ClassifyHook returns the theme of a single hook
func ClassifyHook(hook string) Theme {
	lower := strings.ToLower(hook)
	for _, rule := range themeRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.theme
			}
		}
	}
	return ThemeEducational
}

// ExtractContentThemes returns the distinct themes present across the
// candidates, in order of first occurrence
func ExtractContentThemes(candidates []Candidate) []Theme {
	themes := make([]Theme, 0, len(themeRules)+1)
	seen := make(map[Theme]bool, len(themeRules)+1)
	for _, c := range candidates {
		theme := ClassifyHook(c.Hook)
		if seen[theme] {
			continue
		}
		seen[theme] = true
		themes = append(themes, theme)
	}
	return themes
}
