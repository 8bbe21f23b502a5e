// Package terms loads academic term calendars and derives the date-range
// presets offered by the CLI.
package terms

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/libster-app/libster/internal/analyzer"
)

// ErrInvalidTerm is returned for a term with a missing name, an unparseable
// date, or an end before its start.
var ErrInvalidTerm = errors.New("invalid term")

// Entry is a term as written in a calendar file or the config. Dates are
// YYYY-MM-DD.
type Entry struct {
	Name  string `yaml:"name" toml:"name" mapstructure:"name"`
	Start string `yaml:"start" toml:"start" mapstructure:"start"`
	End   string `yaml:"end" toml:"end" mapstructure:"end"`
}

// File is the top-level shape of a calendar file.
type File struct {
	Terms []Entry `yaml:"terms" toml:"terms"`
}

// DefaultEntries is the stock three-term 2025 calendar.
var DefaultEntries = []Entry{
	{Name: "Spring 2025", Start: "2025-01-04", End: "2025-03-21"},
	{Name: "Summer 2025", Start: "2025-04-26", End: "2025-06-27"},
	{Name: "Autumn 2025", Start: "2025-09-27", End: "2025-12-12"},
}

// DefaultTerms returns DefaultEntries as analyzer terms.
func DefaultTerms() []analyzer.Term {
	out, err := Parse(DefaultEntries)
	if err != nil {
		panic(fmt.Sprintf("terms: bad default calendar: %v", err))
	}
	return out
}

// Parse validates entries and converts them in order.
func Parse(entries []Entry) ([]analyzer.Term, error) {
	out := make([]analyzer.Term, 0, len(entries))
	for i, e := range entries {
		t, err := e.Term()
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", i+1, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Term converts a single entry.
func (e Entry) Term() (analyzer.Term, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return analyzer.Term{}, fmt.Errorf("%w: name is empty", ErrInvalidTerm)
	}
	start, err := time.Parse(analyzer.DateLayout, strings.TrimSpace(e.Start))
	if err != nil {
		return analyzer.Term{}, fmt.Errorf("%w: %s start %q", ErrInvalidTerm, name, e.Start)
	}
	end, err := time.Parse(analyzer.DateLayout, strings.TrimSpace(e.End))
	if err != nil {
		return analyzer.Term{}, fmt.Errorf("%w: %s end %q", ErrInvalidTerm, name, e.End)
	}
	if end.Before(start) {
		return analyzer.Term{}, fmt.Errorf("%w: %s ends before it starts", ErrInvalidTerm, name)
	}
	return analyzer.Term{Name: name, Start: start, End: end}, nil
}

// LoadFile reads a YAML (.yaml, .yml) or TOML (.toml) calendar file.
func LoadFile(path string) ([]analyzer.Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading terms file: %w", err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported terms file extension %q", ext)
	}

	out, err := Parse(f.Terms)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Overlap is a pair of terms sharing at least one day. Days in the overlap
// are attributed to First.
type Overlap struct {
	First  string
	Second string
}

// Overlaps lists every overlapping pair in calendar order.
func Overlaps(terms []analyzer.Term) []Overlap {
	var out []Overlap
	for i := range terms {
		for j := i + 1; j < len(terms); j++ {
			a, b := terms[i], terms[j]
			if !a.End.Before(b.Start) && !b.End.Before(a.Start) {
				out = append(out, Overlap{First: a.Name, Second: b.Name})
			}
		}
	}
	return out
}
