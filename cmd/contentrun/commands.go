package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/contentrun/internal/analysis"
	"github.com/sawpanic/contentrun/internal/cache"
	"github.com/sawpanic/contentrun/internal/competitive"
	"github.com/sawpanic/contentrun/internal/config"
	"github.com/sawpanic/contentrun/internal/dataset"
	"github.com/sawpanic/contentrun/internal/hashtags"
	"github.com/sawpanic/contentrun/internal/metrics"
	"github.com/sawpanic/contentrun/internal/narrative"
	"github.com/sawpanic/contentrun/internal/suggest"
)

const cachePrefix = "contentrun:"

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	count, _ := cmd.Flags().GetInt("count")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	nc, closeCache, err := openCache(ctx, appConfig.Redis)
	if err != nil {
		return err
	}
	defer closeCache()

	opts := analysis.OptionsFromConfig(appConfig)
	opts.Cache = nc
	orch := analysis.NewOrchestrator(analysis.GeneratorFromDataset(ds), opts)

	report, err := orch.Analyze(ctx, analysis.RequestFromDataset(ds, count))
	if err != nil {
		return err
	}
	return writeOutput(cmd, report, func(w io.Writer) { renderReport(w, report) })
}

func runRank(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}
	count, _ := cmd.Flags().GetInt("count")

	candidates := ds.Suggestions
	if len(candidates) == 0 {
		log.Warn().Msg("Dataset has no suggestions, ranking the fixed fallback set")
		candidates = narrative.FallbackSuggestions()
	}

	ranked := suggest.Rank(candidates, count)
	out := rankOutput{Suggestions: ranked, Themes: suggest.ExtractContentThemes(ranked)}
	return writeOutput(cmd, out, func(w io.Writer) { renderSuggestions(w, out.Suggestions, out.Themes) })
}

func runHashtags(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}

	strategy := narrative.FallbackHashtagStrategy()
	if ds.HashtagStrategy != nil {
		strategy = *ds.HashtagStrategy
	} else {
		log.Warn().Msg("Dataset has no hashtag strategy, evaluating the fixed fallback")
	}

	eval := hashtags.Evaluate(strategy, ds.CompetitorHashtags)
	return writeOutput(cmd, eval, func(w io.Writer) { renderHashtags(w, "Hashtag strategy", eval) })
}

func runCompete(cmd *cobra.Command, _ []string) error {
	ds, err := loadDataset(cmd)
	if err != nil {
		return err
	}

	report := competitive.Analyze(ds.Username, ds.Posts, ds.Competitors)
	return writeOutput(cmd, report, func(w io.Writer) { renderCompetitive(w, &report) })
}

type rankOutput struct {
	Suggestions []suggest.Candidate `json:"suggestions"`
	Themes      []suggest.Theme     `json:"themes"`
}

func loadDataset(cmd *cobra.Command) (*dataset.Dataset, error) {
	path, _ := cmd.Flags().GetString("data")
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Str("username", ds.Username).Int("posts", len(ds.Posts)).Msg("Dataset loaded")
	return ds, nil
}

// openCache returns the shared Redis cache when enabled, otherwise an
// in-process cache
func openCache(ctx context.Context, cfg config.RedisConfig) (cache.Cache, func(), error) {
	if !cfg.Enabled {
		return cache.NewMemoryCache(), func() {}, nil
	}

	rc, err := cache.NewRedisCache(ctx, cfg.Addr, cfg.Password, cfg.DB, cachePrefix)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis cache")
		}
	}
	return rc, closeFn, nil
}

// writeOutput prints text to a terminal and JSON to anything else
func writeOutput(cmd *cobra.Command, v interface{}, text func(io.Writer)) error {
	out := cmd.OutOrStdout()
	forceJSON, _ := cmd.Flags().GetBool("json")

	if forceJSON || !isTerminal(out) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return nil
	}

	text(out)
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newServerOrchestrator builds the orchestrator behind POST /analyze. It has
// no generator of its own; each request binds its dataset's payloads with
// WithGenerator so the breaker and limiter persist across requests.
func newServerOrchestrator(reg *metrics.Registry, nc cache.Cache) *analysis.Orchestrator {
	opts := analysis.OptionsFromConfig(appConfig)
	opts.Cache = nc
	opts.Metrics = reg
	return analysis.NewOrchestrator(nil, opts)
}
