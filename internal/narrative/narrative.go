package narrative

import (
	"github.com/sawpanic/contentrun/internal/hashtags"
	"github.com/sawpanic/contentrun/internal/performance"
	"github.com/sawpanic/contentrun/internal/suggest"
)

// ViralPotential is the collaborator's qualitative virality estimate
type ViralPotential string

const (
	ViralLow    ViralPotential = "Low"
	ViralMedium ViralPotential = "Medium"
	ViralHigh   ViralPotential = "High"
)

// ContentStrategy groups the strategic observations of a narrative
type ContentStrategy struct {
	Strengths     []string `json:"strengths" yaml:"strengths"`
	Weaknesses    []string `json:"weaknesses" yaml:"weaknesses"`
	Opportunities []string `json:"opportunities" yaml:"opportunities"`
}

// Recommendations groups advice by horizon
type Recommendations struct {
	Immediate []string `json:"immediate" yaml:"immediate"`
	ShortTerm []string `json:"short_term" yaml:"short_term"`
	LongTerm  []string `json:"long_term" yaml:"long_term"`
}

// Section is a free-text block with supporting bullet points
type Section struct {
	Summary string   `json:"summary" yaml:"summary"`
	Points  []string `json:"points" yaml:"points"`
}

// Narrative is the text-generation collaborator's analysis payload
type Narrative struct {
	OverallScore       int             `json:"overall_score" yaml:"overall_score"`
	ViralPotential     ViralPotential  `json:"viral_potential" yaml:"viral_potential"`
	KeyInsights        []string        `json:"key_insights" yaml:"key_insights"`
	ContentStrategy    ContentStrategy `json:"content_strategy" yaml:"content_strategy"`
	Recommendations    Recommendations `json:"recommendations" yaml:"recommendations"`
	CompetitorAnalysis Section         `json:"competitor_analysis" yaml:"competitor_analysis"`
	Optimization       Section         `json:"optimization" yaml:"optimization"`
	Trends             Section         `json:"trends" yaml:"trends"`
}

// fallback is the single source of truth for the narrative used when the
// text-generation collaborator fails. Callers get copies through Fallback.
var fallback = Narrative{
	OverallScore:   50,
	ViralPotential: ViralLow,
	KeyInsights:    []string{"AI analysis is temporarily unavailable. Showing baseline metrics only."},
	ContentStrategy: ContentStrategy{
		Strengths:     []string{"Consistent posting activity"},
		Weaknesses:    []string{"Detailed analysis unavailable"},
		Opportunities: []string{"Retry analysis later for tailored opportunities"},
	},
	Recommendations: Recommendations{
		Immediate: []string{"Keep posting on your current schedule"},
		ShortTerm: []string{"Experiment with different hooks"},
		LongTerm:  []string{"Build a recognizable content format"},
	},
	CompetitorAnalysis: Section{
		Summary: "Competitor analysis is temporarily unavailable",
		Points:  []string{"Retry later for a competitor breakdown"},
	},
	Optimization: Section{
		Summary: "Optimization tips are temporarily unavailable",
		Points:  []string{"Review your top performing post for repeatable patterns"},
	},
	Trends: Section{
		Summary: "Trend analysis is temporarily unavailable",
		Points:  []string{"Monitor your view counts over the next week"},
	},
}

var noData = Narrative{
	OverallScore:   0,
	ViralPotential: ViralLow,
	KeyInsights:    []string{"No posts found for this account. " + performance.NoDataGuidance + "."},
	ContentStrategy: ContentStrategy{
		Strengths:     []string{"Not enough data yet"},
		Weaknesses:    []string{"No posts available"},
		Opportunities: []string{performance.NoDataGuidance},
	},
	Recommendations: Recommendations{
		Immediate: []string{performance.NoDataGuidance},
		ShortTerm: []string{"Post at least three videos to unlock trend analysis"},
		LongTerm:  []string{"Build a consistent posting history"},
	},
	CompetitorAnalysis: Section{Summary: "Competitor comparison requires your own posts", Points: []string{}},
	Optimization:       Section{Summary: performance.NoDataGuidance, Points: []string{}},
	Trends:             Section{Summary: "No trend data yet", Points: []string{}},
}

var fallbackSuggestions = []suggest.Candidate{
	{
		Hook:               "3 mistakes that keep your videos from growing",
		FullContent:        "Walk through three common posting mistakes and show the fix for each.",
		Hashtags:           []string{"#contenttips", "#creatorgrowth"},
		ExpectedEngagement: 60,
		Reasoning:          "Cautionary list formats are reliable baseline performers",
	},
	{
		Hook:               "What nobody tells you about the first 3 seconds?",
		FullContent:        "Break down the opening of a high performing post and why it holds attention.",
		Hashtags:           []string{"#hooks", "#contenttips"},
		ExpectedEngagement: 55,
		Reasoning:          "Curiosity hooks drive watch time",
	},
	{
		Hook:               "A simple routine for planning a week of posts",
		FullContent:        "Share a repeatable planning routine with a template viewers can copy.",
		Hashtags:           []string{"#contentplanning"},
		ExpectedEngagement: 45,
		Reasoning:          "Educational content builds saves and follows",
	},
}

var fallbackStrategy = hashtags.Strategy{
	Primary:        []string{"#contentcreator", "#creatortips"},
	Secondary:      []string{"#socialmediatips", "#contentstrategy"},
	Trending:       []string{"#fyp"},
	NicheCommunity: []string{"#smallcreators"},
}

// Fallback returns a fresh copy of the fixed fallback narrative
func Fallback() Narrative {
	return fallback.Clone()
}

// NoData returns a fresh copy of the narrative for accounts without posts
func NoData() Narrative {
	return noData.Clone()
}

// FallbackSuggestions returns the fixed candidates used when generation fails
func FallbackSuggestions() []suggest.Candidate {
	out := make([]suggest.Candidate, len(fallbackSuggestions))
	for i, c := range fallbackSuggestions {
		c.Hashtags = cloneStrings(c.Hashtags)
		out[i] = c
	}
	return out
}

// FallbackHashtagStrategy returns the fixed strategy used when generation fails
func FallbackHashtagStrategy() hashtags.Strategy {
	return hashtags.Strategy{
		Primary:        cloneStrings(fallbackStrategy.Primary),
		Secondary:      cloneStrings(fallbackStrategy.Secondary),
		Trending:       cloneStrings(fallbackStrategy.Trending),
		NicheCommunity: cloneStrings(fallbackStrategy.NicheCommunity),
	}
}

// Clone deep-copies the narrative so shared templates are never mutated
func (n Narrative) Clone() Narrative {
	out := n
	out.KeyInsights = cloneStrings(n.KeyInsights)
	out.ContentStrategy = ContentStrategy{
		Strengths:     cloneStrings(n.ContentStrategy.Strengths),
		Weaknesses:    cloneStrings(n.ContentStrategy.Weaknesses),
		Opportunities: cloneStrings(n.ContentStrategy.Opportunities),
	}
	out.Recommendations = Recommendations{
		Immediate: cloneStrings(n.Recommendations.Immediate),
		ShortTerm: cloneStrings(n.Recommendations.ShortTerm),
		LongTerm:  cloneStrings(n.Recommendations.LongTerm),
	}
	out.CompetitorAnalysis.Points = cloneStrings(n.CompetitorAnalysis.Points)
	out.Optimization.Points = cloneStrings(n.Optimization.Points)
	out.Trends.Points = cloneStrings(n.Trends.Points)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
