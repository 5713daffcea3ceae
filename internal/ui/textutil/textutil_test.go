package textutil

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Japan", 10, "Japan"},
		{"Japan", 5, "Japan"},
		{"Deutschland", 6, "Deuts…"},
		{"日本語のタブ", 5, "日本…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if Width(Truncate(tt.in, tt.max)) > tt.max {
			t.Errorf("Truncate(%q, %d) wider than max", tt.in, tt.max)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("日本", 5); Width(got) != 5 {
		t.Errorf("PadRight width = %d, want 5", Width(got))
	}
	if got := PadRight("abcdef", 4); got != "abc…" {
		t.Errorf("PadRight = %q", got)
	}
}
