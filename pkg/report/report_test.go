package report

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"daily", KindDaily},
		{"diaria", KindDaily},
		{"hoy", KindDaily},
		{"weekly", KindWeekly},
		{"semanal", KindWeekly},
		{"Semanal", KindWeekly},
		{" daily ", KindDaily},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseKind("mensual"); err == nil {
		t.Error("ParseKind(\"mensual\") succeeded, want error")
	}
}
