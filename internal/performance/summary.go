package performance

import "fmt"

// NoDataGuidance is shown whenever an account has no posts to analyze
const NoDataGuidance = "Upload recent videos to enable analysis"

// Summary is the deterministic, template-based description of Metrics.
// It is independent of any text-generation service.
type Summary struct {
	Headline    string `json:"headline"`
	Consistency string `json:"consistency"`
	Trend       string `json:"trend"`
	TopVideo    string `json:"top_video,omitempty"`
	Guidance    string `json:"guidance,omitempty"`
}

// Summarize renders Metrics into fixed sentence templates
func Summarize(m Metrics) Summary {
	if m.PostCount == 0 {
		return Summary{
			Headline:    "No posts available for analysis",
			Consistency: "Consistency cannot be measured without posts",
			Trend:       "No trend data yet",
			Guidance:    NoDataGuidance,
		}
	}

	s := Summary{
		Headline: fmt.Sprintf("%d posts averaging %d views, %d likes and %.2f%% engagement",
			m.PostCount, m.AvgViews, m.AvgLikes, m.AvgEngagement),
		Consistency: fmt.Sprintf("%s (%d/100)", consistencyBand(m.Consistency), m.Consistency),
		Trend:       trendSentence(m.TrendDirection),
	}
	if m.TopVideo != nil {
		s.TopVideo = fmt.Sprintf("Top post %q reached %d views at %.2f%% engagement",
			m.TopVideo.Hook, m.TopVideo.Views, m.TopVideo.EngagementRate)
	}
	return s
}

// Lines returns the non-empty summary sentences in display order
func (s Summary) Lines() []string {
	lines := make([]string, 0, 5)
	for _, line := range []string{s.Headline, s.Consistency, s.Trend, s.TopVideo, s.Guidance} {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func consistencyBand(score int) string {
	switch {
	case score >= 80:
		return "Highly consistent views"
	case score >= 50:
		return "Moderately consistent views"
	default:
		return "Volatile views"
	}
}

func trendSentence(direction TrendDirection) string {
	switch direction {
	case TrendUpward:
		return "Views are trending upward"
	case TrendDownward:
		return "Views are trending downward"
	default:
		return "Views are holding steady"
	}
}
