package fuzzy

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		min  int
		max  int
	}{
		{"john", "john", 100, 100},
		{"John", "john", 100, 100},
		{" john ", "john", 100, 100},
		{"jon", "john", 75, 99},
		{"john", "sarah", 0, 40},
		{"", "", 100, 100},
		{"a", "", 0, 0},
	}
	for _, tt := range tests {
		got := Ratio(tt.a, tt.b)
		if got < tt.min || got > tt.max {
			t.Errorf("Ratio(%q, %q) = %d, want within [%d,%d]", tt.a, tt.b, got, tt.min, tt.max)
		}
	}
}
