// Package swipes reads raw access-control exports into analyzer records.
// Readers only split files into fields; validation is left to the engine,
// which drops anything it cannot parse.
package swipes

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/libster-app/libster/internal/analyzer"
)

// Format names an input encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// ErrUnknownFormat is returned when no reader matches a file or format name.
var ErrUnknownFormat = errors.New("unknown swipe format")

// ParseFormat maps a --format value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat picks a Format from a file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// ReadFile opens path and decodes it. An empty format means detect from the
// extension.
func ReadFile(path string, format Format) ([]analyzer.RawSwipe, error) {
	if format == "" {
		f, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening swipes: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// Read decodes records from r in the given format.
func Read(r io.Reader, format Format) ([]analyzer.RawSwipe, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	case FormatJSONL:
		return ReadJSONL(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ReadCSV reads a CSV export with a header row. Header names are matched
// case-insensitively and extra columns are ignored. Rows too short to hold
// every column are skipped.
func ReadCSV(r io.Reader) ([]analyzer.RawSwipe, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := map[string]int{"date": -1, "time": -1, "direction": -1}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, ok := cols[key]; ok && cols[key] < 0 {
			cols[key] = i
		}
	}
	for _, name := range []string{"date", "time", "direction"} {
		if cols[name] < 0 {
			return nil, fmt.Errorf("missing %q column", name)
		}
	}
	width := max(cols["date"], cols["time"], cols["direction"]) + 1

	var records []analyzer.RawSwipe
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if len(row) < width {
			continue
		}
		records = append(records, analyzer.RawSwipe{
			Date:      row[cols["date"]],
			Time:      row[cols["time"]],
			Direction: row[cols["direction"]],
		})
	}
	return records, nil
}

// ReadJSON reads a JSON array of {date, time, direction} objects.
func ReadJSON(r io.Reader) ([]analyzer.RawSwipe, error) {
	var records []analyzer.RawSwipe
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return records, nil
}

// ReadJSONL reads one JSON object per line. Blank and malformed lines are
// skipped.
func ReadJSONL(r io.Reader) ([]analyzer.RawSwipe, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []analyzer.RawSwipe
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec analyzer.RawSwipe
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}
