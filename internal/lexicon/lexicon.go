// Package lexicon loads the stopword lists and persona weight tables the scoring engine runs with.
// The defaults ship embedded; a YAML file can override them.
package lexicon

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/spf13/viper"

	"coffee_persona/internal/domain"
	"coffee_persona/internal/persona"
)

//go:embed default.yaml
var defaultYAML []byte

// Lexicon is the configuration data of one analysis run.
type Lexicon struct {
	Stopwords        StopwordsConfig `mapstructure:"stopwords"`
	Weights          WeightsConfig   `mapstructure:"weights"`
	WordCloudExclude []string        `mapstructure:"wordcloud_exclude"`
}

// StopwordsConfig holds the general list and the domain slang list; both are applied.
type StopwordsConfig struct {
	General []string `mapstructure:"general"`
	Slang   []string `mapstructure:"slang"`
}

// WeightsConfig holds one token->weight table per persona.
type WeightsConfig struct {
	Productivity map[string]int `mapstructure:"productivity"`
	Social       map[string]int `mapstructure:"social"`
}

// Load reads the embedded defaults and merges path over them when path is not empty.
func Load(path string) (*Lexicon, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultYAML)); err != nil {
		return nil, fmt.Errorf("failed to read default lexicon: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read lexicon file %s: %w", path, err)
		}
	}

	var lx Lexicon
	if err := v.Unmarshal(&lx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lexicon: %w", err)
	}
	if err := lx.Validate(); err != nil {
		return nil, err
	}
	return &lx, nil
}

// Validate checks the lexicon can build both weight tables and a non-empty stopword set.
func (l *Lexicon) Validate() error {
	if len(l.Stopwords.General)+len(l.Stopwords.Slang) == 0 {
		return &domain.MissingInputError{What: "stopwords"}
	}
	if _, _, err := l.Tables(); err != nil {
		return err
	}
	return nil
}

// StopwordSet unions the general and slang lists.
func (l *Lexicon) StopwordSet() persona.Stopwords {
	return persona.NewStopwords(l.Stopwords.General, l.Stopwords.Slang)
}

// Tables builds the productivity and social weight tables.
func (l *Lexicon) Tables() (persona.WeightTable, persona.WeightTable, error) {
	prod, err := persona.NewWeightTable(domain.PersonaProductivity, l.Weights.Productivity)
	if err != nil {
		return persona.WeightTable{}, persona.WeightTable{}, fmt.Errorf("weights.productivity: %w", err)
	}
	soc, err := persona.NewWeightTable(domain.PersonaSocial, l.Weights.Social)
	if err != nil {
		return persona.WeightTable{}, persona.WeightTable{}, fmt.Errorf("weights.social: %w", err)
	}
	return prod, soc, nil
}

// Exclusions returns the word cloud exclusion list as a set.
func (l *Lexicon) Exclusions() persona.Stopwords {
	return persona.NewStopwords(l.WordCloudExclude)
}

// Scorer wires the stopwords and weight tables with stemmer into a persona.Scorer.
func (l *Lexicon) Scorer(stemmer persona.Stemmer) (*persona.Scorer, error) {
	prod, soc, err := l.Tables()
	if err != nil {
		return nil, err
	}
	return persona.NewScorer(persona.NewTextNormalizer(stemmer, l.StopwordSet()), prod, soc)
}
