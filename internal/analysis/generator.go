package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/sawpanic/contentrun/internal/competitive"
	"github.com/sawpanic/contentrun/internal/content"
	"github.com/sawpanic/contentrun/internal/hashtags"
	"github.com/sawpanic/contentrun/internal/narrative"
	"github.com/sawpanic/contentrun/internal/performance"
	"github.com/sawpanic/contentrun/internal/suggest"
)

// ErrGeneratorUnavailable means no text generator can serve the request
var ErrGeneratorUnavailable = errors.New("text generator unavailable")

// ErrMalformedOutput means the generator answered with unusable data
var ErrMalformedOutput = errors.New("malformed generator output")

// Brief is the deterministic context handed to the text generator
type Brief struct {
	RequestID          string
	Username           string
	Niche              string
	Posts              []content.NormalizedPost
	Metrics            performance.Metrics
	Summary            performance.Summary
	Competitive        *competitive.Report
	CompetitorHashtags []string
}

// Generator is the external text-generation collaborator. Any call may fail
// with a timeout, quota or malformed response.
type Generator interface {
	GenerateNarrative(ctx context.Context, brief Brief) (*narrative.Narrative, error)
	GenerateSuggestions(ctx context.Context, brief Brief, count int) ([]suggest.Candidate, error)
	GenerateHashtagStrategy(ctx context.Context, brief Brief) (*hashtags.Strategy, error)
}

// StaticGenerator replays pre-generated payloads, e.g. from a dataset file.
// Missing payloads fail with ErrGeneratorUnavailable.
type StaticGenerator struct {
	Narrative   *narrative.Narrative
	Suggestions []suggest.Candidate
	Strategy    *hashtags.Strategy
}

func (g *StaticGenerator) GenerateNarrative(ctx context.Context, _ Brief) (*narrative.Narrative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.Narrative == nil {
		return nil, fmt.Errorf("narrative: %w", ErrGeneratorUnavailable)
	}
	n := g.Narrative.Clone()
	return &n, nil
}

func (g *StaticGenerator) GenerateSuggestions(ctx context.Context, _ Brief, count int) ([]suggest.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(g.Suggestions) == 0 {
		return nil, fmt.Errorf("suggestions: %w", ErrGeneratorUnavailable)
	}
	out := make([]suggest.Candidate, len(g.Suggestions))
	copy(out, g.Suggestions)
	return out, nil
}

func (g *StaticGenerator) GenerateHashtagStrategy(ctx context.Context, _ Brief) (*hashtags.Strategy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.Strategy == nil {
		return nil, fmt.Errorf("hashtag strategy: %w", ErrGeneratorUnavailable)
	}
	s := *g.Strategy
	return &s, nil
}

// checkNarrative rejects generated narratives that cannot be shown as-is
func checkNarrative(n *narrative.Narrative) error {
	switch {
	case n == nil:
		return fmt.Errorf("%w: empty narrative", ErrMalformedOutput)
	case n.OverallScore < 0 || n.OverallScore > 100:
		return fmt.Errorf("%w: overall score %d outside [0, 100]", ErrMalformedOutput, n.OverallScore)
	case n.ViralPotential == "":
		return fmt.Errorf("%w: missing viral potential", ErrMalformedOutput)
	case len(n.KeyInsights) == 0:
		return fmt.Errorf("%w: no key insights", ErrMalformedOutput)
	}
	return nil
}

// usableCandidates drops candidates without a hook or with an out-of-range
// engagement estimate
func usableCandidates(candidates []suggest.Candidate) ([]suggest.Candidate, error) {
	usable := make([]suggest.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Hook == "" || c.ExpectedEngagement < 0 || c.ExpectedEngagement > 100 {
			continue
		}
		usable = append(usable, c)
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("%w: no usable suggestions out of %d", ErrMalformedOutput, len(candidates))
	}
	return usable, nil
}

func checkStrategy(s *hashtags.Strategy) error {
	if s == nil || len(s.All()) == 0 {
		return fmt.Errorf("%w: empty hashtag strategy", ErrMalformedOutput)
	}
	return nil
}
