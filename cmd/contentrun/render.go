package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sawpanic/contentrun/internal/analysis"
	"github.com/sawpanic/contentrun/internal/competitive"
	"github.com/sawpanic/contentrun/internal/hashtags"
	"github.com/sawpanic/contentrun/internal/narrative"
	"github.com/sawpanic/contentrun/internal/suggest"
)

func renderReport(w io.Writer, r *analysis.Report) {
	fmt.Fprintf(w, "%s analysis for @%s (%s)\n", appName, r.Username, r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	m := r.Metrics
	fmt.Fprintf(w, "Posts:        %d\n", m.PostCount)
	fmt.Fprintf(w, "Avg views:    %d\n", m.AvgViews)
	fmt.Fprintf(w, "Avg likes:    %d\n", m.AvgLikes)
	fmt.Fprintf(w, "Engagement:   %.2f%%\n", m.AvgEngagement)
	fmt.Fprintf(w, "Consistency:  %d/100\n", m.Consistency)
	fmt.Fprintf(w, "Trend:        %s\n", m.TrendDirection)
	if m.TopVideo != nil {
		fmt.Fprintf(w, "Top video:    %s (%d views, %.2f%%)\n", m.TopVideo.Hook, m.TopVideo.Views, m.TopVideo.EngagementRate)
	}
	fmt.Fprintln(w)
	for _, line := range r.Summary.Lines() {
		fmt.Fprintf(w, "  %s\n", line)
	}

	if r.Competitive != nil {
		fmt.Fprintln(w)
		renderCompetitive(w, r.Competitive)
	}

	fmt.Fprintln(w)
	renderNarrative(w, r.Narrative, r.Sources.Narrative)

	fmt.Fprintln(w)
	renderSuggestions(w, r.Suggestions, r.Themes)

	fmt.Fprintln(w)
	renderHashtags(w, fmt.Sprintf("Hashtag strategy [%s]", r.Sources.Hashtags), r.Hashtags)
	if r.TopSuggestionTags != nil {
		fmt.Fprintln(w)
		renderHashtags(w, "Top suggestion hashtags", *r.TopSuggestionTags)
	}
}

func renderNarrative(w io.Writer, n narrative.Narrative, source analysis.Source) {
	fmt.Fprintf(w, "Narrative [%s]: score %d/100, viral potential %s\n", source, n.OverallScore, n.ViralPotential)
	renderList(w, "Key insights", n.KeyInsights)
	renderList(w, "Do now", n.Recommendations.Immediate)
	renderList(w, "Next weeks", n.Recommendations.ShortTerm)
	renderList(w, "Long term", n.Recommendations.LongTerm)
}

func renderCompetitive(w io.Writer, c *competitive.Report) {
	fmt.Fprintf(w, "Market position: %s\n", c.Position)
	if c.MarketAverages != nil {
		fmt.Fprintf(w, "  Market (%d accounts): %.0f views, %.0f likes, %.2f%% engagement\n",
			c.MarketAverages.Accounts, c.MarketAverages.AvgViews, c.MarketAverages.AvgLikes, c.MarketAverages.AvgEngagement)
	}
	if c.Yours != nil {
		fmt.Fprintf(w, "  You:                 %.0f views, %.0f likes, %.2f%% engagement\n",
			c.Yours.AvgViews, c.Yours.AvgLikes, c.Yours.AvgEngagement)
	}
	for _, cm := range c.Competitors {
		if !cm.HasData() {
			fmt.Fprintf(w, "  @%s: no posts\n", cm.Username)
			continue
		}
		fmt.Fprintf(w, "  @%s: %d posts, %.2f%% engagement\n", cm.Username, cm.PostCount, cm.AvgEngagement)
	}
	renderList(w, "Strengths", c.Strengths)
	renderList(w, "Improve", c.Improvements)
}

func renderSuggestions(w io.Writer, candidates []suggest.Candidate, themes []suggest.Theme) {
	fmt.Fprintf(w, "Suggestions (%d)\n", len(candidates))
	for i, c := range candidates {
		fmt.Fprintf(w, "  %d. [%.0f] %s\n", i+1, c.ExpectedEngagement, c.Hook)
		if len(c.Hashtags) > 0 {
			fmt.Fprintf(w, "     %s\n", strings.Join(c.Hashtags, " "))
		}
	}
	if len(themes) > 0 {
		names := make([]string, len(themes))
		for i, t := range themes {
			names[i] = string(t)
		}
		fmt.Fprintf(w, "  Themes: %s\n", strings.Join(names, ", "))
	}
}

func renderHashtags(w io.Writer, title string, e hashtags.Evaluation) {
	fmt.Fprintln(w, title)
	fmt.Fprintf(w, "  Tags:     %d total, %d unique (primary %d, secondary %d, trending %d, niche %d)\n",
		e.TotalTags, e.UniqueTags, e.Tiers.Primary, e.Tiers.Secondary, e.Tiers.Trending, e.Tiers.NicheCommunity)
	fmt.Fprintf(w, "  Reach:    %s\n", e.Reach)
	fmt.Fprintf(w, "  Overlap:  %d (%.1f%%) %s\n", e.CompetitorOverlap, e.OverlapPercent, e.Similarity)
}

func renderList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "    - %s\n", item)
	}
}
