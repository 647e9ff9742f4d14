package performance

import (
	"math"
	"sort"

	"github.com/sawpanic/contentrun/internal/content"
)

// TrendDirection is the coarse movement of views across a post history
type TrendDirection string

const (
	TrendUpward   TrendDirection = "upward"
	TrendDownward TrendDirection = "downward"
	TrendStable   TrendDirection = "stable"
)

const (
	// trendThresholdPct is the half-over-half change needed to leave "stable"
	trendThresholdPct = 15.0
	minTrendPosts     = 3
	minSpreadPosts    = 2
)

// TopVideo describes the best performing post by views
type TopVideo struct {
	Hook           string  `json:"hook"`
	Views          uint64  `json:"views"`
	Likes          uint64  `json:"likes"`
	EngagementRate float64 `json:"engagement_rate"`
}

// Metrics is the aggregate performance of one account's post set
type Metrics struct {
	PostCount      int            `json:"post_count"`
	TotalViews     uint64         `json:"total_views"`
	TotalLikes     uint64         `json:"total_likes"`
	AvgViews       int64          `json:"avg_views"`       // rounded to integer
	AvgLikes       int64          `json:"avg_likes"`       // rounded to integer
	AvgEngagement  float64        `json:"avg_engagement"`  // mean of per-post rates, 2 dp
	TopVideo       *TopVideo      `json:"top_video"`       // nil when there are no posts
	Consistency    int            `json:"consistency"`     // 0-100
	TrendDirection TrendDirection `json:"trend_direction"` // upward|downward|stable
}

// Aggregate computes the performance metrics of a normalized post set.
// An empty set yields zeroed metrics with a stable trend and no top video.
func Aggregate(posts []content.NormalizedPost) Metrics {
	if len(posts) == 0 {
		return Metrics{TrendDirection: TrendStable}
	}

	metrics := Metrics{
		PostCount:      len(posts),
		Consistency:    Consistency(posts),
		TrendDirection: Trend(posts),
	}

	for _, p := range posts {
		metrics.TotalViews += p.Views
		metrics.TotalLikes += p.Likes
	}

	n := float64(len(posts))
	metrics.AvgViews = int64(math.Round(float64(metrics.TotalViews) / n))
	metrics.AvgLikes = int64(math.Round(float64(metrics.TotalLikes) / n))
	metrics.AvgEngagement = RoundTo(mean(content.EngagementRates(posts)), 2)

	if top, ok := TopPerformer(posts); ok {
		metrics.TopVideo = &TopVideo{
			Hook:           top.Hook,
			Views:          top.Views,
			Likes:          top.Likes,
			EngagementRate: RoundTo(top.EngagementRate, 2),
		}
	}

	return metrics
}

// Consistency scores view stability from the coefficient of variation:
// 100 - stdDev/mean*100, floored at 0 and rounded. No posts scores 0, a
// single post 100.
func Consistency(posts []content.NormalizedPost) int {
	if len(posts) == 0 {
		return 0
	}
	if len(posts) < minSpreadPosts {
		return 100
	}

	views := content.Views(posts)
	avg := mean(views)
	stdDev := math.Sqrt(populationVariance(views, avg))

	if avg == 0 {
		if stdDev > 0 {
			return 0
		}
		return 100
	}

	score := 100 - (stdDev/avg)*100
	return int(math.Round(math.Max(0, score)))
}

// Trend compares mean views of the chronologically first and second halves.
// The second half takes the middle post when the count is odd.
func Trend(posts []content.NormalizedPost) TrendDirection {
	if len(posts) < minTrendPosts {
		return TrendStable
	}

	sorted := make([]content.NormalizedPost, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UploadDate.Before(sorted[j].UploadDate)
	})

	mid := len(sorted) / 2
	firstAvg := mean(content.Views(sorted[:mid]))
	secondAvg := mean(content.Views(sorted[mid:]))

	if firstAvg == 0 {
		return TrendStable
	}

	changePct := (secondAvg - firstAvg) / firstAvg * 100
	switch {
	case changePct > trendThresholdPct:
		return TrendUpward
	case changePct < -trendThresholdPct:
		return TrendDownward
	default:
		return TrendStable
	}
}

// TopPerformer returns the post with the most views. Ties keep the earliest
// post in input order.
func TopPerformer(posts []content.NormalizedPost) (content.NormalizedPost, bool) {
	if len(posts) == 0 {
		return content.NormalizedPost{}, false
	}

	best := posts[0]
	for _, p := range posts[1:] {
		if p.Views > best.Views {
			best = p
		}
	}
	return best, true
}

// RoundTo rounds value to the given number of decimal places
func RoundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationVariance(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - avg
		sum += d * d
	}
	return sum / float64(len(values))
}
