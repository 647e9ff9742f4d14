package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/contentrun/internal/analysis"
	"github.com/sawpanic/contentrun/internal/cache"
	"github.com/sawpanic/contentrun/internal/competitive"
	"github.com/sawpanic/contentrun/internal/hashtags"
	"github.com/sawpanic/contentrun/internal/metrics"
)

const testDataset = `username: creator
niche: fitness
posts:
  - id: "1"
    hook: Leg day secret
    views: 1000
    likes: 100
    upload_date: 2024-05-01T00:00:00Z
  - id: "2"
    hook: Avoid this mistake
    views: 2000
    likes: 400
    upload_date: 2024-05-02T00:00:00Z
  - id: "3"
    hook: Rest day
    views: 0
    likes: 0
    upload_date: 2024-05-03T00:00:00Z
competitors:
  - username: rival
    posts:
      - id: r1
        views: 1000
        likes: 50
competitor_hashtags: ["#fitness", "#gym"]
suggestions:
  - hook: Low effort
    expected_engagement: 10
  - hook: The secret warmup
    expected_engagement: 90
    hashtags: ["#fitness"]
  - hook: Why does this work?
    expected_engagement: 50
hashtag_strategy:
  primary_hashtags: ["#fitness", "#legday"]
  secondary_hashtags: ["#gym"]
`

const testDatasetJSON = `{
  "username": "creator",
  "posts": [
    {"id": "1", "hook": "first", "views": 1000, "likes": 100, "upload_date": "2024-05-01T00:00:00Z"},
    {"id": "2", "hook": "second", "views": 2000, "likes": 400, "upload_date": "2024-05-02T00:00:00Z"}
  ]
}`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDataset), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.Bytes()
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	out := runCLI(t, "analyze", "--data", writeDataset(t), "--count", "2", "--log-level", "error")

	var report analysis.Report
	require.NoError(t, json.Unmarshal(out, &report))

	assert.Equal(t, "creator", report.Username)
	assert.Equal(t, int64(1000), report.Metrics.AvgViews)
	assert.Equal(t, 18, report.Metrics.Consistency)
	assert.Equal(t, analysis.SourceFallback, report.Sources.Narrative, "dataset carries no narrative")
	assert.Equal(t, analysis.SourceGenerated, report.Sources.Suggestions)
	require.Len(t, report.Suggestions, 2)
	assert.Equal(t, "The secret warmup", report.Suggestions[0].Hook)
	assert.Equal(t, competitive.PositionMarketLeader, report.Competitive.Position)
}

func TestRankCommand(t *testing.T) {
	out := runCLI(t, "rank", "--data", writeDataset(t), "--count", "5", "--log-level", "error")

	var ranked rankOutput
	require.NoError(t, json.Unmarshal(out, &ranked))
	require.Len(t, ranked.Suggestions, 3, "never padded")
	assert.Equal(t, []float64{90, 50, 10}, []float64{
		ranked.Suggestions[0].ExpectedEngagement,
		ranked.Suggestions[1].ExpectedEngagement,
		ranked.Suggestions[2].ExpectedEngagement,
	})
	assert.Len(t, ranked.Themes, 3)
}

func TestHashtagsCommand(t *testing.T) {
	out := runCLI(t, "hashtags", "--data", writeDataset(t), "--log-level", "error")

	var eval hashtags.Evaluation
	require.NoError(t, json.Unmarshal(out, &eval))
	assert.Equal(t, 3, eval.TotalTags)
	assert.Equal(t, 2, eval.CompetitorOverlap)
	assert.Equal(t, hashtags.ReachLow, eval.Reach)
}

func TestCompeteCommand(t *testing.T) {
	out := runCLI(t, "compete", "--data", writeDataset(t), "--log-level", "error")

	var report competitive.Report
	require.NoError(t, json.Unmarshal(out, &report))
	assert.Equal(t, competitive.PositionMarketLeader, report.Position)
	require.Len(t, report.Competitors, 1)
	assert.Equal(t, "rival", report.Competitors[0].Username)
}

func TestMissingDataFlag(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"rank"})
	assert.Error(t, root.Execute())
}

func TestRenderReport(t *testing.T) {
	path := writeDataset(t)
	out := runCLI(t, "analyze", "--data", path, "--log-level", "error")

	var report analysis.Report
	require.NoError(t, json.Unmarshal(out, &report))

	var buf bytes.Buffer
	renderReport(&buf, &report)
	text := buf.String()

	for _, want := range []string{
		"analysis for @creator",
		"Consistency:  18/100",
		"Market position: Market Leader",
		"Narrative [fallback]: score 50/100",
		"1. [90] The secret warmup",
		"Themes: insider knowledge",
	} {
		assert.Contains(t, text, want)
	}
}

func TestMonitorRouter(t *testing.T) {
	router := newRouter(newServerOrchestrator(metrics.NewRegistry(), cache.NewMemoryCache()), time.Now())

	testCases := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK, `"status":"ok"`},
		{"analyze", http.MethodPost, "/analyze?count=2", testDatasetJSON, http.StatusOK, `"username":"creator"`},
		{"analyze bad json", http.MethodPost, "/analyze", "{", http.StatusBadRequest, `"error"`},
		{"analyze bad count", http.MethodPost, "/analyze?count=x", testDatasetJSON, http.StatusBadRequest, "invalid count"},
		{"analyze no username", http.MethodPost, "/analyze", `{"posts": []}`, http.StatusUnprocessableEntity, "username is required"},
		{"analyze wrong method", http.MethodGet, "/analyze", "", http.StatusMethodNotAllowed, ""},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK, "contentrun_analyses_total"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestMonitorRouter_BreakerPersistsAcrossRequests(t *testing.T) {
	reg := metrics.NewRegistry()
	router := newRouter(newServerOrchestrator(reg, cache.NewMemoryCache()), time.Now())

	post := func(body string) analysis.Report {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var report analysis.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		return report
	}

	malformed := strings.Replace(testDatasetJSON, `"posts"`, `"narrative": {"overall_score": 150, "viral_potential": "High", "key_insights": ["x"]},
  "suggestions": [{"hook": "", "expected_engagement": 80}],
  "hashtag_strategy": {"primary_hashtags": []},
  "posts"`, 1)
	valid := strings.Replace(testDatasetJSON, `"posts"`, `"narrative": {"overall_score": 70, "viral_potential": "Medium", "key_insights": ["ok"]},
  "suggestions": [{"hook": "Fine", "expected_engagement": 40}],
  "hashtag_strategy": {"primary_hashtags": ["#ok"]},
  "posts"`, 1)

	first := post(malformed)
	assert.Equal(t, analysis.SourceFallback, first.Sources.Narrative)
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.BreakerState.WithLabelValues(appConfig.Breaker.Name)))

	second := post(valid)
	assert.Equal(t, analysis.SourceFallback, second.Sources.Narrative, "open breaker short-circuits the next request")
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.BreakerState.WithLabelValues(appConfig.Breaker.Name)))
	assert.Zero(t, testutil.ToFloat64(reg.GeneratorCalls.WithLabelValues("narrative", "ok")))
}
