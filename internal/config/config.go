package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the docchunk server. Values are read
// from the environment, optionally seeded from a .env file.
type Config struct {
	DBPath  string `env:"DOCCHUNK_DB_PATH"`
	Workers int    `env:"DOCCHUNK_WORKERS" envDefault:"0"` // 0 means runtime.NumCPU()

	// Default chunking parameters, overridable per tool call
	MaxCharacters          int    `env:"DOCCHUNK_MAX_CHARACTERS" envDefault:"500"`
	NewAfterNChars         int    `env:"DOCCHUNK_NEW_AFTER_N_CHARS" envDefault:"-1"` // -1 means max_characters
	Overlap                int    `env:"DOCCHUNK_OVERLAP" envDefault:"0"`
	OverlapAll             bool   `env:"DOCCHUNK_OVERLAP_ALL" envDefault:"false"`
	CombineTextUnderNChars int    `env:"DOCCHUNK_COMBINE_UNDER_N_CHARS" envDefault:"-1"` // -1 means max_characters
	MultipageSections      bool   `env:"DOCCHUNK_MULTIPAGE_SECTIONS" envDefault:"true"`
	IncludeOrigSegments    bool   `env:"DOCCHUNK_INCLUDE_ORIG_SEGMENTS" envDefault:"true"`
	Policy                 string `env:"DOCCHUNK_POLICY" envDefault:"basic"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DBPath == "" {
		path, err := defaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = path
	}

	return cfg, nil
}

// defaultDBPath places the corpus database under the user's home directory.
func defaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".docchunk")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return filepath.Join(dir, "corpus.db"), nil
}
