package content

// EngagementRate returns likes as a percentage of views. Zero views yields 0.
func EngagementRate(views, likes uint64) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes) / float64(views) * 100
}

// Normalize derives per-post engagement rates. The returned slice is freshly
// allocated and never aliases the input.
func Normalize(posts []Post) []NormalizedPost {
	normalized := make([]NormalizedPost, 0, len(posts))
	for _, p := range posts {
		normalized = append(normalized, NormalizedPost{
			Post:           p,
			EngagementRate: EngagementRate(p.Views, p.Likes),
		})
	}
	return normalized
}

// Views extracts the view counts in input order
func Views(posts []NormalizedPost) []float64 {
	values := make([]float64, len(posts))
	for i, p := range posts {
		values[i] = float64(p.Views)
	}
	return values
}

// EngagementRates extracts the per-post engagement rates in input order
func EngagementRates(posts []NormalizedPost) []float64 {
	values := make([]float64, len(posts))
	for i, p := range posts {
		values[i] = p.EngagementRate
	}
	return values
}
