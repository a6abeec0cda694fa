package report

import "testing"

func TestFoldForMatch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Huéscar", "huescar"},
		{"Huéscar", "huescar"}, // decomposed accent
		{"HUELMA", "huelma"},
		{"Cazorla", "cazorla"},
	}
	for _, tt := range tests {
		if got := foldForMatch(tt.in); got != tt.want {
			t.Errorf("foldForMatch(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		line string
		word string
		want bool
	}{
		{"p63 huelma 1,0", "huelma", true},
		{"huelma", "huelma", true},
		{"(huelma)", "huelma", true},
		{"huelmazo 1,0", "huelma", false},
		{"lahuelma", "huelma", false},
		{"", "huelma", false},
		{"huelma", "", false},
	}
	for _, tt := range tests {
		if got := containsWord(tt.line, tt.word); got != tt.want {
			t.Errorf("containsWord(%q, %q) = %v, want %v", tt.line, tt.word, got, tt.want)
		}
	}
}

func TestMonthName(t *testing.T) {
	tests := []struct {
		month int
		want  string
	}{
		{1, "enero"},
		{6, "junio"},
		{12, "diciembre"},
		{0, "0"},
		{13, "13"},
	}
	for _, tt := range tests {
		if got := monthName(tt.month); got != tt.want {
			t.Errorf("monthName(%d) = %q, want %q", tt.month, got, tt.want)
		}
	}
}
