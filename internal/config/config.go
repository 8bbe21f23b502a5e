package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/terms"
)

// Config is the top-level libster configuration.
type Config struct {
	Engine    Engine        `mapstructure:"engine"`
	TermsFile string        `mapstructure:"terms_file"`
	Terms     []terms.Entry `mapstructure:"terms"`
	DBPath    string        `mapstructure:"db_path"`
	Output    Output        `mapstructure:"output"`
	Batch     Batch         `mapstructure:"batch"`
}

// Engine holds the analyzer thresholds.
type Engine struct {
	NoSeatMaxMinutes float64 `mapstructure:"no_seat_max_minutes"`
	MergeGapMinutes  float64 `mapstructure:"merge_gap_minutes"`
	Debug            bool    `mapstructure:"debug"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Batch defines settings for the batch command.
type Batch struct {
	Jobs int `mapstructure:"jobs"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Environment variables
// prefixed LIBSTER_ override file values.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("engine.no_seat_max_minutes", DefaultEngine.NoSeatMaxMinutes)
	v.SetDefault("engine.merge_gap_minutes", DefaultEngine.MergeGapMinutes)
	v.SetDefault("engine.debug", DefaultEngine.Debug)
	v.SetDefault("terms_file", "")
	v.SetDefault("db_path", "")
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("batch.jobs", DefaultBatch.Jobs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only return error for problems other than file not found.
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.TermsFile != "" {
		cfg.TermsFile = expandPath(cfg.TermsFile)
	} else if len(cfg.Terms) == 0 {
		cfg.Terms = DefaultTerms
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DBPath()
	}
	cfg.DBPath = expandPath(cfg.DBPath)
	if cfg.Batch.Jobs < 1 {
		cfg.Batch.Jobs = 1
	}

	if err := cfg.EngineConfig().Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

// EngineConfig converts the engine section to analyzer.Config.
func (c *Config) EngineConfig() analyzer.Config {
	return analyzer.Config{
		NoSeatMaxMinutes: c.Engine.NoSeatMaxMinutes,
		MergeGapMinutes:  c.Engine.MergeGapMinutes,
		Debug:            c.Engine.Debug,
	}
}

// LoadTerms resolves the term calendar: terms_file when set, otherwise the
// inline terms list. Overlapping terms are allowed but logged.
func (c *Config) LoadTerms() ([]analyzer.Term, error) {
	var (
		out []analyzer.Term
		err error
	)
	if c.TermsFile != "" {
		out, err = terms.LoadFile(c.TermsFile)
	} else {
		out, err = terms.Parse(c.Terms)
	}
	if err != nil {
		return nil, err
	}
	for _, o := range terms.Overlaps(out) {
		log.Printf("Warning: terms %q and %q overlap; shared days count toward %q", o.First, o.Second, o.First)
	}
	return out, nil
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
