package competitive

import "github.com/sawpanic/contentrun/internal/content"

// Report bundles a full competitive comparison for one account
type Report struct {
	Yours          *CompetitorMetrics  `json:"yours"`
	Competitors    []CompetitorMetrics `json:"competitors"`
	MarketAverages *MarketAverages     `json:"market_averages"`
	Position       Position            `json:"position"`
	Strengths      []string            `json:"strengths"`
	Improvements   []string            `json:"improvements"`
}

// Analyze compares your posts against each competitor's. Missing data on
// either side is reported through nil fields, never as zero averages.
func Analyze(username string, yours []content.Post, competitors []Account) Report {
	report := Report{
		Competitors: ComputeCompetitorMetrics(competitors),
		Position:    PositionInsufficientData,
	}

	if len(yours) > 0 {
		mine := AccountMetrics(Account{Username: username, Posts: yours})
		report.Yours = &mine
	}

	if market, ok := ComputeMarketAverages(report.Competitors); ok {
		report.MarketAverages = &market
		report.Position = ClassifyMarketPosition(report.Yours, market)
	}

	report.Strengths = IdentifyStrengths(report.Yours, report.MarketAverages)
	report.Improvements = IdentifyImprovementAreas(report.Yours, report.MarketAverages)
	return report
}
