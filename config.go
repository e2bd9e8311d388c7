package collide

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	IndexHash = "hash"
	IndexTree = "tree"
)

type Config struct {
	Index   IndexConfig   `yaml:"index" toml:"index"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

type IndexConfig struct {
	Kind     string  `yaml:"kind" toml:"kind"`           // "hash" or "tree"
	CellSize float64 `yaml:"cell_size" toml:"cell_size"` // side of a grid cell, world units
	NumCells int     `yaml:"num_cells" toml:"num_cells"` // hash buckets, rounded up to a prime
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // "json" or "console"
}

func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Kind:     IndexHash,
			CellSize: 64,
			NumCells: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file over the
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	cfg := DefaultConfig()
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = errors.Errorf("unknown config format %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	if err = cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	switch cfg.Index.Kind {
	case IndexHash, IndexTree:
	default:
		return errors.Errorf("index kind %q: want %q or %q", cfg.Index.Kind, IndexHash, IndexTree)
	}
	if !(cfg.Index.CellSize > 0) {
		return errors.Errorf("index cell_size %v must be positive", cfg.Index.CellSize)
	}
	if cfg.Index.Kind == IndexHash && cfg.Index.NumCells <= 0 {
		return errors.Errorf("index num_cells %d must be positive", cfg.Index.NumCells)
	}
	if _, err := parseLevel(cfg.Logging.Level); err != nil {
		return err
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return errors.Errorf("logging format %q: want \"json\" or \"console\"", cfg.Logging.Format)
	}
	return nil
}

// New builds the spatial index described by the config.
func (cfg IndexConfig) New() SpatialIndexer {
	if cfg.Kind == IndexTree {
		return NewBBTree(cfg.CellSize)
	}
	return NewSpaceHash(cfg.CellSize, cfg.NumCells)
}
