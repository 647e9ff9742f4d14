package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/contentrun/internal/content"
)

var day0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seriesPosts(views ...uint64) []content.NormalizedPost {
	posts := make([]content.Post, len(views))
	for i, v := range views {
		posts[i] = content.Post{
			ID:         string(rune('a' + i)),
			Hook:       "hook " + string(rune('a'+i)),
			Views:      v,
			Likes:      v / 10,
			UploadDate: day0.AddDate(0, 0, i),
		}
	}
	return content.Normalize(posts)
}

func TestAggregate_Empty(t *testing.T) {
	for _, posts := range [][]content.NormalizedPost{nil, {}} {
		metrics := Aggregate(posts)

		assert.Equal(t, 0, metrics.PostCount)
		assert.Zero(t, metrics.TotalViews)
		assert.Zero(t, metrics.TotalLikes)
		assert.Zero(t, metrics.AvgViews)
		assert.Zero(t, metrics.AvgLikes)
		assert.Zero(t, metrics.AvgEngagement)
		assert.Nil(t, metrics.TopVideo)
		assert.Equal(t, TrendStable, metrics.TrendDirection)
		assert.Zero(t, metrics.Consistency)
		assert.Equal(t, Metrics{TrendDirection: TrendStable}, metrics)
	}
}

func TestAggregate_EndToEnd(t *testing.T) {
	posts := content.Normalize([]content.Post{
		{ID: "1", Hook: "first", Views: 1000, Likes: 100, UploadDate: day0},
		{ID: "2", Hook: "second", Views: 2000, Likes: 400, UploadDate: day0.AddDate(0, 0, 1)},
		{ID: "3", Hook: "third", Views: 0, Likes: 0, UploadDate: day0.AddDate(0, 0, 2)},
	})

	metrics := Aggregate(posts)

	assert.Equal(t, 3, metrics.PostCount)
	assert.Equal(t, uint64(3000), metrics.TotalViews)
	assert.Equal(t, uint64(500), metrics.TotalLikes)
	assert.Equal(t, int64(1000), metrics.AvgViews)
	assert.Equal(t, int64(167), metrics.AvgLikes, "166.67 rounds to 167")
	assert.InDelta(t, 10.0, metrics.AvgEngagement, 1e-9, "mean of [10, 20, 0]")

	require.NotNil(t, metrics.TopVideo)
	assert.Equal(t, "second", metrics.TopVideo.Hook)
	assert.Equal(t, uint64(2000), metrics.TopVideo.Views)
	assert.InDelta(t, 20.0, metrics.TopVideo.EngagementRate, 1e-9)

	// stdDev over [1000, 2000, 0] is 816.5, so 100 - 81.65 rounds to 18
	assert.Equal(t, 18, metrics.Consistency)
	assert.Equal(t, TrendStable, metrics.TrendDirection)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	posts := seriesPosts(120, 900, 450, 300, 75)
	shuffled := []content.NormalizedPost{posts[3], posts[0], posts[4], posts[2], posts[1]}

	a := Aggregate(posts)
	b := Aggregate(shuffled)

	assert.Equal(t, a.AvgViews, b.AvgViews)
	assert.Equal(t, a.AvgLikes, b.AvgLikes)
	assert.Equal(t, a.AvgEngagement, b.AvgEngagement)
	assert.Equal(t, a.Consistency, b.Consistency)
	assert.Equal(t, a.TrendDirection, b.TrendDirection)
	assert.Equal(t, a.TopVideo, b.TopVideo)
}

func TestAggregate_AverageEngagementIsMeanOfRates(t *testing.T) {
	posts := content.Normalize([]content.Post{
		{Views: 100, Likes: 50},     // 50%
		{Views: 100000, Likes: 100}, // 0.1%
	})

	metrics := Aggregate(posts)

	// ratio of means would give 0.15%
	assert.InDelta(t, 25.05, metrics.AvgEngagement, 1e-9)
}

func TestConsistency(t *testing.T) {
	testCases := []struct {
		name     string
		posts    []content.NormalizedPost
		expected int
	}{
		{"no posts", nil, 0},
		{"single post", seriesPosts(5000), 100},
		{"identical views", seriesPosts(300, 300, 300), 100},
		{"all zero views", seriesPosts(0, 0, 0), 100},
		{"end to end spread", seriesPosts(1000, 2000, 0), 18},
		{"spread beyond mean floors at zero", seriesPosts(0, 0, 0, 1000), 0},
		{"two posts", seriesPosts(100, 300), 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Consistency(tc.posts))
		})
	}
}

func TestTrend(t *testing.T) {
	testCases := []struct {
		name     string
		views    []uint64
		expected TrendDirection
	}{
		{"fewer than three posts", []uint64{100, 1000}, TrendStable},
		{"doubling", []uint64{100, 100, 200, 200}, TrendUpward},
		{"halving", []uint64{200, 200, 100, 100}, TrendDownward},
		{"flat", []uint64{500, 500, 500, 500}, TrendStable},
		{"exactly fifteen percent stays stable", []uint64{100, 100, 130}, TrendStable},
		{"odd count puts middle in second half", []uint64{100, 200, 200}, TrendUpward},
		{"zero first half", []uint64{0, 100, 100}, TrendStable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Trend(seriesPosts(tc.views...)))
		})
	}
}

func TestTrend_SortsByUploadDate(t *testing.T) {
	chronological := seriesPosts(100, 100, 200, 200)
	reversed := []content.NormalizedPost{chronological[3], chronological[2], chronological[1], chronological[0]}

	assert.Equal(t, TrendUpward, Trend(reversed))
	assert.Equal(t, uint64(200), reversed[0].Views, "input must not be reordered")
}

func TestTopPerformer_TiesKeepFirst(t *testing.T) {
	posts := seriesPosts(500, 500, 100)

	top, ok := TopPerformer(posts)
	require.True(t, ok)
	assert.Equal(t, "a", top.ID)

	top, ok = TopPerformer([]content.NormalizedPost{posts[1], posts[0]})
	require.True(t, ok)
	assert.Equal(t, "b", top.ID)

	_, ok = TopPerformer(nil)
	assert.False(t, ok)
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 10.13, RoundTo(10.125000001, 2))
	assert.Equal(t, 3.0, RoundTo(2.5, 0))
	assert.Equal(t, 0.0, RoundTo(0, 2))
}
