package report

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLocateStationRowSingleLine(t *testing.T) {
	text := Normalize("Cabecera\nP63 Huelma 1,0 2,0 3,0 4,0 5,0 6,0 7,0\nP64 Cazorla 9,9")
	row, err := LocateStationRow(text, "Huelma", 7)
	if err != nil {
		t.Fatalf("LocateStationRow: %v", err)
	}
	if row.Block != "Huelma 1,0 2,0 3,0 4,0 5,0 6,0 7,0" {
		t.Errorf("Block = %q", row.Block)
	}
	if row.Line != 1 {
		t.Errorf("Line = %d, want 1", row.Line)
	}
}

func TestLocateStationRowMergesWrappedLines(t *testing.T) {
	text := Normalize("P63 Huelma\n1,0 2,0 3,0\n4,0 5,0 6,0 7,0\nP64 Cazorla 9,9")
	row, err := LocateStationRow(text, "Huelma", 7)
	if err != nil {
		t.Fatalf("LocateStationRow: %v", err)
	}
	vals, err := ExtractValues(row.Block, "Huelma", 7)
	if err != nil {
		t.Fatalf("ExtractValues: %v", err)
	}
	want := []float64{1, 2, 3, 4, 5, 6, 7}
	if diff := cmp.Diff(want, vals); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}
}

func TestLocateStationRowStopsAtNextStation(t *testing.T) {
	text := Normalize("P10 Alcala 1,0 2,0\nP20 Beas 3,0 4,0 5,0 6,0 7,0 8,0 9,0")
	row, err := LocateStationRow(text, "Alcala", 7)
	if err != nil {
		t.Fatalf("LocateStationRow: %v", err)
	}
	if strings.Contains(row.Block, "3,0") {
		t.Errorf("row bled into the next station: %q", row.Block)
	}

	_, err = ExtractValues(row.Block, "Alcala", 7)
	var insufficient *InsufficientValuesError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want *InsufficientValuesError", err)
	}
	if insufficient.Found != 2 || insufficient.Want != 7 {
		t.Errorf("Found = %d, Want = %d", insufficient.Found, insufficient.Want)
	}
}

func TestLocateStationRowLeadingCodeNeverBecomesValue(t *testing.T) {
	text := "P63 Huelma 19,1 5,2 29,3 7,5 5,2 0,0 0,0"
	row, err := LocateStationRow(text, "Huelma", 7)
	if err != nil {
		t.Fatalf("LocateStationRow: %v", err)
	}
	vals, err := ExtractValues(row.Block, "Huelma", 7)
	if err != nil {
		t.Fatalf("ExtractValues: %v", err)
	}
	if vals[0] != 19.1 {
		t.Errorf("first value = %v, the station code leaked in", vals[0])
	}
}

func TestLocateStationRowAccentAndCaseInsensitive(t *testing.T) {
	text := "E05 Huéscar 1,0 2,0 3,0 4,0 5,0 6,0 7,0"
	for _, query := range []string{"Huescar", "HUÉSCAR", "huéscar", "huescar"} {
		if _, err := LocateStationRow(text, query, 7); err != nil {
			t.Errorf("query %q: %v", query, err)
		}
	}
}

func TestLocateStationRowWordBoundary(t *testing.T) {
	text := "P10 Huelmazo 1,0 2,0 3,0 4,0 5,0 6,0 7,0"
	_, err := LocateStationRow(text, "Huelma", 7)
	var notFound *StationNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want *StationNotFoundError", err)
	}
	if notFound.Station != "Huelma" {
		t.Errorf("Station = %q, want %q", notFound.Station, "Huelma")
	}
}

func TestLocateStationRowPunctuationBoundary(t *testing.T) {
	text := "P63 (Huelma) 1,0 2,0 3,0 4,0 5,0 6,0 7,0"
	if _, err := LocateStationRow(text, "Huelma", 7); err != nil {
		t.Errorf("LocateStationRow: %v", err)
	}
}

func TestStripLeadingStationCodes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"P63 Huelma 1,0", "Huelma 1,0"},
		{"P63 E01 Huelma", "Huelma"},
		{"Huelma P63 1,0", "Huelma P63 1,0"},
		{"Huelma 1,0", "Huelma 1,0"},
	}
	for _, tt := range tests {
		got := stripLeadingStationCodes(tt.in)
		if got != tt.want {
			t.Errorf("stripLeadingStationCodes(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := stripLeadingStationCodes(got); again != got {
			t.Errorf("not idempotent: %q -> %q", got, again)
		}
	}
}
