package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/contentrun/internal/competitive"
	"github.com/sawpanic/contentrun/internal/content"
	"github.com/sawpanic/contentrun/internal/hashtags"
	"github.com/sawpanic/contentrun/internal/narrative"
	"github.com/sawpanic/contentrun/internal/suggest"
)

// Dataset is everything one analysis needs, already fetched by the caller.
// Narrative, Suggestions and HashtagStrategy are optional pre-generated
// collaborator output.
type Dataset struct {
	Username           string                `json:"username" yaml:"username"`
	Niche              string                `json:"niche,omitempty" yaml:"niche,omitempty"`
	Posts              []content.Post        `json:"posts" yaml:"posts"`
	Competitors        []competitive.Account `json:"competitors,omitempty" yaml:"competitors,omitempty"`
	CompetitorHashtags []string              `json:"competitor_hashtags,omitempty" yaml:"competitor_hashtags,omitempty"`

	Narrative       *narrative.Narrative `json:"narrative,omitempty" yaml:"narrative,omitempty"`
	Suggestions     []suggest.Candidate  `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	HashtagStrategy *hashtags.Strategy   `json:"hashtag_strategy,omitempty" yaml:"hashtag_strategy,omitempty"`
}

// Load reads a dataset from a .json, .yaml or .yml file
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	ds, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a dataset; ext selects the format and defaults to YAML
func Parse(data []byte, ext string) (*Dataset, error) {
	var ds Dataset

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	ds.fillUsernames()
	return &ds, nil
}

// fillUsernames stamps the owning account onto posts that omit it
func (ds *Dataset) fillUsernames() {
	for i := range ds.Posts {
		if ds.Posts[i].Username == "" {
			ds.Posts[i].Username = ds.Username
		}
	}
	for c := range ds.Competitors {
		for i := range ds.Competitors[c].Posts {
			if ds.Competitors[c].Posts[i].Username == "" {
				ds.Competitors[c].Posts[i].Username = ds.Competitors[c].Username
			}
		}
	}
}
