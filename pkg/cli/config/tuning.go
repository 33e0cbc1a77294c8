package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/butler/pkg/service/butler"
	"github.com/urfave/cli/v3"
)

// Tuning is the retrieval tuning configuration file. All fields are
// optional; unset fields fall back to the service defaults.
type Tuning struct {
	GatherTimeout       string  `toml:"gather_timeout"` // Go duration string, e.g. "10s"
	CacheTTL            string  `toml:"cache_ttl"`      // Go duration string, e.g. "30m"
	SourceLimit         int     `toml:"source_limit"`
	VectorLimit         int     `toml:"vector_limit"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// Validate checks if the Tuning is valid
func (t *Tuning) Validate() error {
	if t.GatherTimeout != "" {
		d, err := time.ParseDuration(t.GatherTimeout)
		if err != nil {
			return goerr.Wrap(err, "invalid gather_timeout", goerr.V("value", t.GatherTimeout))
		}
		if d <= 0 {
			return goerr.New("gather_timeout must be positive", goerr.V("value", t.GatherTimeout))
		}
	}
	if t.CacheTTL != "" {
		d, err := time.ParseDuration(t.CacheTTL)
		if err != nil {
			return goerr.Wrap(err, "invalid cache_ttl", goerr.V("value", t.CacheTTL))
		}
		if d <= 0 {
			return goerr.New("cache_ttl must be positive", goerr.V("value", t.CacheTTL))
		}
	}
	if t.SourceLimit < 0 {
		return goerr.New("source_limit must not be negative", goerr.V("value", t.SourceLimit))
	}
	if t.VectorLimit < 0 {
		return goerr.New("vector_limit must not be negative", goerr.V("value", t.VectorLimit))
	}
	if t.SimilarityThreshold < 0 || t.SimilarityThreshold > 1 {
		return goerr.New("similarity_threshold must be between 0 and 1", goerr.V("value", t.SimilarityThreshold))
	}
	return nil
}

// ToConfig converts the Tuning into a butler service configuration. Unset
// fields stay zero and pick up the service defaults.
func (t *Tuning) ToConfig() butler.Config {
	var cfg butler.Config
	if t.GatherTimeout != "" {
		cfg.GatherTimeout, _ = time.ParseDuration(t.GatherTimeout)
	}
	if t.CacheTTL != "" {
		cfg.CacheTTL, _ = time.ParseDuration(t.CacheTTL)
	}
	cfg.SourceLimit = t.SourceLimit
	cfg.VectorLimit = t.VectorLimit
	cfg.SimilarityThreshold = t.SimilarityThreshold
	return cfg
}

// LoadTuning loads retrieval tuning from a TOML file
func LoadTuning(path string) (*Tuning, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "tuning file", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read tuning file", goerr.V("path", path))
	}

	var tuning Tuning
	if err := toml.Unmarshal(data, &tuning); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML tuning file", goerr.V("path", path))
	}

	if err := tuning.Validate(); err != nil {
		return nil, goerr.Wrap(err, "tuning validation failed", goerr.V("path", path))
	}

	return &tuning, nil
}

// Butler holds CLI flags for retrieval tuning
type Butler struct {
	tuningPath string
}

// Flags returns CLI flags for retrieval tuning
func (b *Butler) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tuning",
			Usage:       "Retrieval tuning TOML file (defaults apply when omitted)",
			Sources:     cli.EnvVars("BUTLER_TUNING"),
			Destination: &b.tuningPath,
		},
	}
}

// Configure returns the butler service configuration, loading the tuning
// file when one is given.
func (b *Butler) Configure() (butler.Config, error) {
	if b.tuningPath == "" {
		return butler.Config{}, nil
	}

	tuning, err := LoadTuning(b.tuningPath)
	if err != nil {
		return butler.Config{}, err
	}

	return tuning.ToConfig(), nil
}
