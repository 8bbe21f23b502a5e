// Package config provides configuration loading and defaults for libster.
package config

import (
	"github.com/libster-app/libster/internal/analyzer"
	"github.com/libster-app/libster/internal/terms"
)

// DefaultConfigDir is the default location for libster configuration.
const DefaultConfigDir = "~/.config/libster"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "libster.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix is prepended to every environment override, e.g.
// LIBSTER_ENGINE_MERGE_GAP_MINUTES.
const EnvPrefix = "LIBSTER"

// DefaultEngine holds the stock engine thresholds.
var DefaultEngine = Engine{
	NoSeatMaxMinutes: analyzer.DefaultNoSeatMaxMinutes,
	MergeGapMinutes:  analyzer.DefaultMergeGapMinutes,
	Debug:            false,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultBatch holds the default batch settings.
var DefaultBatch = Batch{
	Jobs: 4,
}

// DefaultTerms is the stock academic calendar used when neither terms nor
// terms_file is configured.
var DefaultTerms = terms.DefaultEntries
