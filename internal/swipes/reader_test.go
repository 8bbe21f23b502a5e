package swipes

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/libster-app/libster/internal/analyzer"
)

func TestReadCSV_HeaderOrderAndExtraColumns(t *testing.T) {
	data := `Card,Direction,DATE,Time
123,In,06/01/2025,09:00
123,Out,06/01/2025,11:30
123,In
`
	records, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	want := analyzer.RawSwipe{Date: "06/01/2025", Time: "11:30", Direction: "Out"}
	if records[1] != want {
		t.Errorf("records[1] = %+v, want %+v", records[1], want)
	}
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("date,time\n06/01/2025,09:00\n"))
	if err == nil || !strings.Contains(err.Error(), `"direction"`) {
		t.Errorf("expected missing direction column error, got %v", err)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records != nil {
		t.Errorf("expected nil records, got %v", records)
	}
}

func TestReadJSON(t *testing.T) {
	data := `[{"date":"06/01/2025","time":"09:00","direction":"in"},{"date":"06/01/2025","time":"10:00","direction":"out"}]`
	records, err := ReadJSON(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 || records[0].Direction != "in" {
		t.Errorf("got %+v", records)
	}
}

func TestReadJSON_Malformed(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader(`{"date":`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestReadJSONL_SkipsMalformedLines(t *testing.T) {
	data := `{"date":"06/01/2025","time":"09:00","direction":"in"}

not json at all
{"date":"06/01/2025","time":"10:00","direction":"out"}
`
	records, err := ReadJSONL(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestReadFile_DetectsFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swipes.jsonl")
	if err := os.WriteFile(path, []byte(`{"date":"06/01/2025","time":"09:00","direction":"in"}`+"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	records, err := ReadFile(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestReadFile_UnknownExtension(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "swipes.xlsx"), "")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{" JSON ", FormatJSON, false},
		{"ndjson", FormatJSONL, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
