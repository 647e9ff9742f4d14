package competitive

import (
	"github.com/sawpanic/contentrun/internal/content"
)

// Position is the qualitative market position of an account
type Position string

const (
	PositionMarketLeader      Position = "Market Leader"
	PositionStrongPerformer   Position = "Strong Performer"
	PositionMarketAverage     Position = "Market Average"
	PositionGrowthOpportunity Position = "Growth Opportunity"
	PositionInsufficientData  Position = "Insufficient Data"
)

// Engagement ratio breakpoints, evaluated from the top down
const (
	leaderRatio  = 1.5
	strongRatio  = 1.2
	averageRatio = 0.8
)

const (
	StrengthEngagement = "Above-market engagement rate"
	StrengthViews      = "Higher average reach per post"
	StrengthLikes      = "Stronger like volume per post"
	StrengthFallback   = "Build foundational strengths"

	ImprovementEngagement = "Increase audience engagement rate"
	ImprovementViews      = "Expand reach to lift average views"
	ImprovementLikes      = "Drive more likes per post"
	ImprovementFallback   = "Maintain current performance"
)

// Account is a username with its already-fetched posts
type Account struct {
	Username string         `json:"username" yaml:"username"`
	Posts    []content.Post `json:"posts" yaml:"posts"`
}

// CompetitorMetrics holds per-account averages. AvgEngagement is the mean of
// per-post engagement rates, not the ratio of mean likes to mean views.
type CompetitorMetrics struct {
	Username      string  `json:"username"`
	PostCount     int     `json:"post_count"`
	AvgViews      float64 `json:"avg_views"`
	AvgLikes      float64 `json:"avg_likes"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// HasData reports whether the metrics were computed from at least one post
func (m CompetitorMetrics) HasData() bool {
	return m.PostCount > 0
}

// MarketAverages is the elementwise mean across competitors with data
type MarketAverages struct {
	Accounts      int     `json:"accounts"`
	AvgViews      float64 `json:"avg_views"`
	AvgLikes      float64 `json:"avg_likes"`
	AvgEngagement float64 `json:"avg_engagement"`
}

// AccountMetrics computes the averages of a single account
func AccountMetrics(account Account) CompetitorMetrics {
	metrics := CompetitorMetrics{
		Username:  account.Username,
		PostCount: len(account.Posts),
	}
	if metrics.PostCount == 0 {
		return metrics
	}

	var views, likes, engagement float64
	for _, p := range content.Normalize(account.Posts) {
		views += float64(p.Views)
		likes += float64(p.Likes)
		engagement += p.EngagementRate
	}

	n := float64(metrics.PostCount)
	metrics.AvgViews = views / n
	metrics.AvgLikes = likes / n
	metrics.AvgEngagement = engagement / n
	return metrics
}

// ComputeCompetitorMetrics returns one CompetitorMetrics per account, in order
func ComputeCompetitorMetrics(accounts []Account) []CompetitorMetrics {
	metrics := make([]CompetitorMetrics, 0, len(accounts))
	for _, account := range accounts {
		metrics = append(metrics, AccountMetrics(account))
	}
	return metrics
}

// ComputeMarketAverages averages competitors that have data. The boolean is
// false when no competitor has any posts.
func ComputeMarketAverages(metrics []CompetitorMetrics) (MarketAverages, bool) {
	var market MarketAverages
	for _, m := range metrics {
		if !m.HasData() {
			continue
		}
		market.Accounts++
		market.AvgViews += m.AvgViews
		market.AvgLikes += m.AvgLikes
		market.AvgEngagement += m.AvgEngagement
	}
	if market.Accounts == 0 {
		return MarketAverages{}, false
	}

	n := float64(market.Accounts)
	market.AvgViews /= n
	market.AvgLikes /= n
	market.AvgEngagement /= n
	return market, true
}

// ClassifyMarketPosition compares your engagement with the market's.
// A nil or empty yours yields PositionInsufficientData.
func ClassifyMarketPosition(yours *CompetitorMetrics, market MarketAverages) Position {
	if yours == nil || !yours.HasData() {
		return PositionInsufficientData
	}

	// zero market engagement cannot be used as a denominator
	if market.AvgEngagement <= 0 {
		if yours.AvgEngagement > 0 {
			return PositionMarketLeader
		}
		return PositionMarketAverage
	}

	ratio := yours.AvgEngagement / market.AvgEngagement
	switch {
	case ratio > leaderRatio:
		return PositionMarketLeader
	case ratio > strongRatio:
		return PositionStrongPerformer
	case ratio > averageRatio:
		return PositionMarketAverage
	default:
		return PositionGrowthOpportunity
	}
}

// comparison labels each average where matches(yours, market) holds
type comparison struct {
	matches    func(mine, theirs float64) bool
	engagement string
	views      string
	likes      string
}

var (
	strengthRule = comparison{
		matches:    func(mine, theirs float64) bool { return mine > theirs },
		engagement: StrengthEngagement,
		views:      StrengthViews,
		likes:      StrengthLikes,
	}
	improvementRule = comparison{
		matches:    func(mine, theirs float64) bool { return mine < theirs },
		engagement: ImprovementEngagement,
		views:      ImprovementViews,
		likes:      ImprovementLikes,
	}
)

// IdentifyStrengths lists the averages where you beat the market
func IdentifyStrengths(yours *CompetitorMetrics, market *MarketAverages) []string {
	strengths := strengthRule.apply(yours, market)
	if len(strengths) == 0 {
		return []string{StrengthFallback}
	}
	return strengths
}

// IdentifyImprovementAreas lists the averages where the market beats you
func IdentifyImprovementAreas(yours *CompetitorMetrics, market *MarketAverages) []string {
	areas := improvementRule.apply(yours, market)
	if len(areas) == 0 {
		return []string{ImprovementFallback}
	}
	return areas
}

func (c comparison) apply(yours *CompetitorMetrics, market *MarketAverages) []string {
	if yours == nil || !yours.HasData() || market == nil || market.Accounts == 0 {
		return nil
	}

	var labels []string
	if c.matches(yours.AvgEngagement, market.AvgEngagement) {
		labels = append(labels, c.engagement)
	}
	if c.matches(yours.AvgViews, market.AvgViews) {
		labels = append(labels, c.views)
	}
	if c.matches(yours.AvgLikes, market.AvgLikes) {
		labels = append(labels, c.likes)
	}
	return labels
}
