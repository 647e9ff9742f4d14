package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/sawpanic/contentrun/internal/cache"
	"github.com/sawpanic/contentrun/internal/competitive"
	"github.com/sawpanic/contentrun/internal/config"
	"github.com/sawpanic/contentrun/internal/content"
	"github.com/sawpanic/contentrun/internal/hashtags"
	"github.com/sawpanic/contentrun/internal/metrics"
	"github.com/sawpanic/contentrun/internal/narrative"
	"github.com/sawpanic/contentrun/internal/performance"
	"github.com/sawpanic/contentrun/internal/suggest"
)

// Source records where a report payload came from
type Source string

const (
	SourceGenerated Source = "generated"
	SourceCached    Source = "cached"
	SourceFallback  Source = "fallback"
	SourceNoData    Source = "no_data"
)

// Generator operation names used in logs and metrics
const (
	opNarrative   = "narrative"
	opSuggestions = "suggestions"
	opHashtags    = "hashtags"
)

// Sources tells the caller which payloads were generated and which were fixed
type Sources struct {
	Narrative   Source `json:"narrative"`
	Suggestions Source `json:"suggestions"`
	Hashtags    Source `json:"hashtags"`
}

// Report is the complete result of one account analysis
type Report struct {
	RequestID   string              `json:"request_id"`
	Username    string              `json:"username"`
	GeneratedAt time.Time           `json:"generated_at"`
	Metrics     performance.Metrics `json:"metrics"`
	Summary     performance.Summary `json:"summary"`
	Competitive *competitive.Report `json:"competitive,omitempty"`
	Narrative   narrative.Narrative `json:"narrative"`

	Suggestions []suggest.Candidate `json:"suggestions"`
	Themes      []suggest.Theme     `json:"themes"`

	HashtagStrategy   hashtags.Strategy    `json:"hashtag_strategy"`
	Hashtags          hashtags.Evaluation  `json:"hashtags"`
	TopSuggestionTags *hashtags.Evaluation `json:"top_suggestion_hashtags,omitempty"`
	Sources           Sources              `json:"sources"`
}

// Options wires the orchestrator's collaborators
type Options struct {
	Analysis  config.AnalysisConfig
	Breaker   config.BreakerConfig
	RateLimit config.RateLimitConfig
	Cache     cache.Cache       // nil disables narrative caching
	Metrics   *metrics.Registry // nil creates a private registry
}

// OptionsFromConfig maps a loaded config onto Options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Analysis:  cfg.Analysis,
		Breaker:   cfg.Breaker,
		RateLimit: cfg.RateLimit,
	}
}

// Orchestrator runs the deterministic engine and decides, per payload,
// between generated output and the fixed fallback. It is safe for
// concurrent use.
type Orchestrator struct {
	gen     Generator
	opts    Options
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	cache   cache.Cache
	metrics *metrics.Registry
	now     func() time.Time
}

// NewOrchestrator creates an orchestrator. A nil generator always falls back.
func NewOrchestrator(gen Generator, opts Options) *Orchestrator {
	defaults := config.Default()
	if opts.Analysis.SuggestionCount <= 0 {
		opts.Analysis.SuggestionCount = defaults.Analysis.SuggestionCount
	}
	if opts.Analysis.GeneratorTimeout <= 0 {
		opts.Analysis.GeneratorTimeout = defaults.Analysis.GeneratorTimeout
	}
	if opts.Breaker.Name == "" {
		opts.Breaker = defaults.Breaker
	}
	if opts.RateLimit.RPS <= 0 || opts.RateLimit.Burst < 1 {
		opts.RateLimit = defaults.RateLimit
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}

	return &Orchestrator{
		gen:     gen,
		opts:    opts,
		breaker: newBreaker(opts.Breaker, opts.Metrics),
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimit.RPS), opts.RateLimit.Burst),
		cache:   opts.Cache,
		metrics: opts.Metrics,
		now:     time.Now,
	}
}

// WithGenerator returns an orchestrator that calls gen but shares this one's
// breaker, limiter, cache and metrics
func (o *Orchestrator) WithGenerator(gen Generator) *Orchestrator {
	clone := *o
	clone.gen = gen
	return &clone
}

// Metrics returns the registry the orchestrator reports into
func (o *Orchestrator) Metrics() *metrics.Registry {
	return o.metrics
}

// Analyze produces a full report. It only fails on an invalid request;
// generator failures are absorbed by the fixed fallbacks.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*Report, error) {
	start := o.now()
	if err := req.Validate(); err != nil {
		o.metrics.ObserveAnalysis(metrics.OutcomeInvalid, o.now().Sub(start))
		return nil, err
	}

	requestID := uuid.NewString()
	logger := log.With().Str("request_id", requestID).Str("username", req.Username).Logger()

	normalized := content.Normalize(req.Posts)
	m := performance.Aggregate(normalized)

	report := &Report{
		RequestID:   requestID,
		Username:    req.Username,
		GeneratedAt: start.UTC(),
		Metrics:     m,
		Summary:     performance.Summarize(m),
	}
	if len(req.Competitors) > 0 {
		cr := competitive.Analyze(req.Username, req.Posts, req.Competitors)
		report.Competitive = &cr
	}

	brief := Brief{
		RequestID:          requestID,
		Username:           req.Username,
		Niche:              req.Niche,
		Posts:              normalized,
		Metrics:            m,
		Summary:            report.Summary,
		Competitive:        report.Competitive,
		CompetitorHashtags: req.CompetitorHashtags,
	}

	count := req.SuggestionCount
	if count == 0 {
		count = o.opts.Analysis.SuggestionCount
	}

	var candidates []suggest.Candidate
	var strategy hashtags.Strategy

	if m.PostCount == 0 {
		logger.Debug().Msg("No posts, skipping text generator")
		report.Narrative = narrative.NoData()
		report.Sources.Narrative = SourceNoData
		candidates, report.Sources.Suggestions = narrative.FallbackSuggestions(), SourceFallback
		strategy, report.Sources.Hashtags = narrative.FallbackHashtagStrategy(), SourceFallback
	} else {
		report.Narrative, report.Sources.Narrative = o.narrative(ctx, logger, brief)
		candidates, report.Sources.Suggestions = o.suggestions(ctx, logger, brief, count)
		strategy, report.Sources.Hashtags = o.hashtagStrategy(ctx, logger, brief)
	}

	report.Suggestions = suggest.Rank(candidates, count)
	report.Themes = suggest.ExtractContentThemes(report.Suggestions)
	report.HashtagStrategy = strategy
	report.Hashtags = hashtags.Evaluate(strategy, req.CompetitorHashtags)
	if len(report.Suggestions) > 0 && len(report.Suggestions[0].Hashtags) > 0 {
		top := hashtags.Evaluate(hashtags.Strategy{Primary: report.Suggestions[0].Hashtags}, req.CompetitorHashtags)
		report.TopSuggestionTags = &top
	}

	elapsed := o.now().Sub(start)
	o.metrics.ObserveAnalysis(string(report.Sources.Narrative), elapsed)
	logger.Info().
		Int("posts", m.PostCount).
		Str("narrative", string(report.Sources.Narrative)).
		Str("suggestions", string(report.Sources.Suggestions)).
		Str("hashtags", string(report.Sources.Hashtags)).
		Dur("elapsed", elapsed).
		Msg("Analysis complete")

	return report, nil
}

func (o *Orchestrator) narrative(ctx context.Context, logger zerolog.Logger, brief Brief) (narrative.Narrative, Source) {
	key := narrativeCacheKey(brief)
	if cached, ok := o.cachedNarrative(ctx, logger, key); ok {
		return cached, SourceCached
	}

	res, err := o.call(ctx, opNarrative, func(callCtx context.Context) (interface{}, error) {
		n, err := o.gen.GenerateNarrative(callCtx, brief)
		if err != nil {
			return nil, err
		}
		if err := checkNarrative(n); err != nil {
			return nil, err
		}
		return n, nil
	})
	if err != nil {
		o.fallback(logger, opNarrative, err)
		return narrative.Fallback(), SourceFallback
	}

	n := res.(*narrative.Narrative)
	o.storeNarrative(ctx, logger, key, n)
	return *n, SourceGenerated
}

func (o *Orchestrator) suggestions(ctx context.Context, logger zerolog.Logger, brief Brief, count int) ([]suggest.Candidate, Source) {
	res, err := o.call(ctx, opSuggestions, func(callCtx context.Context) (interface{}, error) {
		candidates, err := o.gen.GenerateSuggestions(callCtx, brief, count)
		if err != nil {
			return nil, err
		}
		return usableCandidates(candidates)
	})
	if err != nil {
		o.fallback(logger, opSuggestions, err)
		return narrative.FallbackSuggestions(), SourceFallback
	}
	return res.([]suggest.Candidate), SourceGenerated
}

func (o *Orchestrator) hashtagStrategy(ctx context.Context, logger zerolog.Logger, brief Brief) (hashtags.Strategy, Source) {
	res, err := o.call(ctx, opHashtags, func(callCtx context.Context) (interface{}, error) {
		s, err := o.gen.GenerateHashtagStrategy(callCtx, brief)
		if err != nil {
			return nil, err
		}
		if err := checkStrategy(s); err != nil {
			return nil, err
		}
		return s, nil
	})
	if err != nil {
		o.fallback(logger, opHashtags, err)
		return narrative.FallbackHashtagStrategy(), SourceFallback
	}
	return *res.(*hashtags.Strategy), SourceGenerated
}

// call runs one generator operation behind the limiter, a timeout and the
// circuit breaker
func (o *Orchestrator) call(ctx context.Context, op string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	if o.gen == nil {
		return nil, ErrGeneratorUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, o.opts.Analysis.GeneratorTimeout)
	defer cancel()

	if err := o.limiter.Wait(callCtx); err != nil {
		return nil, fmt.Errorf("%s rate limit: %w", op, err)
	}

	res, err := o.breaker.Execute(func() (interface{}, error) {
		return fn(callCtx)
	})
	o.metrics.RecordGeneratorCall(op, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (o *Orchestrator) fallback(logger zerolog.Logger, op string, err error) {
	o.metrics.RecordFallback(op)
	level := zerolog.WarnLevel
	if errors.Is(err, ErrGeneratorUnavailable) {
		level = zerolog.DebugLevel
	}
	logger.WithLevel(level).Err(err).Str("op", op).Msg("Text generator failed, using fixed fallback")
}

func (o *Orchestrator) cachedNarrative(ctx context.Context, logger zerolog.Logger, key string) (narrative.Narrative, bool) {
	if o.cache == nil {
		return narrative.Narrative{}, false
	}

	data, err := o.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.Warn().Err(err).Msg("Narrative cache read failed")
		}
		o.metrics.RecordCache(false)
		return narrative.Narrative{}, false
	}

	var n narrative.Narrative
	if err := json.Unmarshal(data, &n); err != nil {
		logger.Warn().Err(err).Msg("Discarding undecodable cached narrative")
		o.metrics.RecordCache(false)
		return narrative.Narrative{}, false
	}
	o.metrics.RecordCache(true)
	return n, true
}

// storeNarrative caches generated narratives only; fallbacks are never stored
func (o *Orchestrator) storeNarrative(ctx context.Context, logger zerolog.Logger, key string, n *narrative.Narrative) {
	if o.cache == nil || o.opts.Analysis.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to encode narrative for cache")
		return
	}
	if err := o.cache.Set(ctx, key, data, o.opts.Analysis.CacheTTL); err != nil {
		logger.Warn().Err(err).Msg("Narrative cache write failed")
	}
}

// narrativeCacheKey digests everything the narrative depends on
func narrativeCacheKey(brief Brief) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|", brief.Username, brief.Niche)
	for _, p := range brief.Posts {
		fmt.Fprintf(h, "%s:%d:%d:%d;", p.ID, p.Views, p.Likes, p.UploadDate.Unix())
	}
	if brief.Competitive != nil {
		for _, c := range brief.Competitive.Competitors {
			fmt.Fprintf(h, "|%s:%d:%g:%g:%g", c.Username, c.PostCount, c.AvgViews, c.AvgLikes, c.AvgEngagement)
		}
	}
	fmt.Fprintf(h, "|%s", strings.Join(brief.CompetitorHashtags, ","))
	return "narrative:" + hex.EncodeToString(h.Sum(nil))
}
