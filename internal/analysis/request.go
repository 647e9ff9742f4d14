package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sawpanic/contentrun/internal/competitive"
	"github.com/sawpanic/contentrun/internal/content"
	"github.com/sawpanic/contentrun/internal/dataset"
)

// ErrInvalidRequest wraps every request validation failure
var ErrInvalidRequest = errors.New("invalid analysis request")

const maxSuggestionCount = 20

// Request is one account analysis. SuggestionCount 0 uses the configured default.
type Request struct {
	Username           string
	Niche              string
	Posts              []content.Post
	Competitors        []competitive.Account
	CompetitorHashtags []string
	SuggestionCount    int
}

// RequestFromDataset builds a request from a loaded dataset
func RequestFromDataset(ds *dataset.Dataset, suggestionCount int) Request {
	return Request{
		Username:           ds.Username,
		Niche:              ds.Niche,
		Posts:              ds.Posts,
		Competitors:        ds.Competitors,
		CompetitorHashtags: ds.CompetitorHashtags,
		SuggestionCount:    suggestionCount,
	}
}

// GeneratorFromDataset replays the dataset's pre-generated payloads
func GeneratorFromDataset(ds *dataset.Dataset) *StaticGenerator {
	return &StaticGenerator{
		Narrative:   ds.Narrative,
		Suggestions: ds.Suggestions,
		Strategy:    ds.HashtagStrategy,
	}
}

// Validate checks the fields the engine relies on
func (r Request) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidRequest)
	}
	if r.SuggestionCount < 0 || r.SuggestionCount > maxSuggestionCount {
		return fmt.Errorf("%w: suggestion count %d outside [0, %d]", ErrInvalidRequest, r.SuggestionCount, maxSuggestionCount)
	}
	for i, c := range r.Competitors {
		if strings.TrimSpace(c.Username) == "" {
			return fmt.Errorf("%w: competitor %d has no username", ErrInvalidRequest, i)
		}
	}
	return nil
}
