package hashtags

import "strings"

// Strategy is a tiered hashtag bundle. Tags may repeat across tiers.
type Strategy struct {
	Primary        []string `json:"primary_hashtags" yaml:"primary_hashtags"`
	Secondary      []string `json:"secondary_hashtags" yaml:"secondary_hashtags"`
	Trending       []string `json:"trending_hashtags" yaml:"trending_hashtags"`
	NicheCommunity []string `json:"niche_community_tags" yaml:"niche_community_tags"`
}

// Reach is the estimated audience reach of a bundle
type Reach string

const (
	ReachVeryHigh Reach = "Very High"
	ReachHigh     Reach = "High"
	ReachMedium   Reach = "Medium"
	ReachLow      Reach = "Low"
)

const (
	SimilarityHigh     = "High similarity — consider differentiation"
	SimilarityModerate = "Moderate similarity — good market alignment"
	SimilarityLow      = "Low similarity — unique positioning"
)

// TierCounts holds the number of tags in each tier, duplicates included
type TierCounts struct {
	Primary        int `json:"primary"`
	Secondary      int `json:"secondary"`
	Trending       int `json:"trending"`
	NicheCommunity int `json:"niche_community"`
}

// Evaluation is the scored view of a Strategy
type Evaluation struct {
	Tiers             TierCounts `json:"tiers"`
	TotalTags         int        `json:"total_tags"`
	UniqueTags        int        `json:"unique_tags"`
	CompetitorOverlap int        `json:"competitor_overlap"`
	OverlapPercent    float64    `json:"overlap_percent"`
	Reach             Reach      `json:"reach"`
	Similarity        string     `json:"similarity"`
}

// All returns every tag of the strategy in tier order, duplicates included
func (s Strategy) All() []string {
	all := make([]string, 0, len(s.Primary)+len(s.Secondary)+len(s.Trending)+len(s.NicheCommunity))
	all = append(all, s.Primary...)
	all = append(all, s.Secondary...)
	all = append(all, s.Trending...)
	all = append(all, s.NicheCommunity...)
	return all
}

// Evaluate scores a strategy against the tags competitors already use
func Evaluate(s Strategy, competitorTags []string) Evaluation {
	eval := Evaluation{
		Tiers: TierCounts{
			Primary:        len(s.Primary),
			Secondary:      len(s.Secondary),
			Trending:       len(s.Trending),
			NicheCommunity: len(s.NicheCommunity),
		},
	}

	competitors := make(map[string]struct{}, len(competitorTags))
	for _, tag := range competitorTags {
		competitors[Canonical(tag)] = struct{}{}
	}

	unique := make(map[string]struct{})
	for _, tag := range s.All() {
		key := Canonical(tag)
		eval.TotalTags++
		unique[key] = struct{}{}
		if _, ok := competitors[key]; ok {
			eval.CompetitorOverlap++
		}
	}
	eval.UniqueTags = len(unique)

	if eval.TotalTags > 0 {
		eval.OverlapPercent = float64(eval.CompetitorOverlap) / float64(eval.TotalTags) * 100
	}
	eval.Reach = EstimateReach(eval.TotalTags)
	eval.Similarity = ClassifySimilarity(eval.OverlapPercent)
	return eval
}

// EstimateReach maps a total tag count to a reach tier
func EstimateReach(totalTags int) Reach {
	switch {
	case totalTags > 20:
		return ReachVeryHigh
	case totalTags > 15:
		return ReachHigh
	case totalTags > 10:
		return ReachMedium
	default:
		return ReachLow
	}
}

// ClassifySimilarity turns an overlap percentage into a verdict
func ClassifySimilarity(overlapPercent float64) string {
	switch {
	case overlapPercent > 70:
		return SimilarityHigh
	case overlapPercent > 40:
		return SimilarityModerate
	default:
		return SimilarityLow
	}
}

// Canonical lowercases a tag and strips surrounding space and a leading '#'
func Canonical(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}
