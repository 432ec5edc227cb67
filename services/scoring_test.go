package services

import "testing"

func TestMatchPoints(t *testing.T) {
	cases := []struct {
		name       string
		base       int
		multiplier int
		comboIndex int
		bonus      float64
		want       int
	}{
		{"first match", 5, 2, 1, 1.5, 8},
		{"second match", 5, 2, 2, 1.5, 10},
		{"third match", 5, 2, 3, 1.5, 11},
		{"no bonus", 10, 3, 1, 0, 13},
		{"fractional bonus floors", 5, 2, 3, 0.4, 8},
	}

	for _, tc := range cases {
		got := MatchPoints(tc.base, tc.multiplier, tc.comboIndex, tc.bonus)
		if got != tc.want {
			t.Fatalf("%s: got=%d want=%d", tc.name, got, tc.want)
		}
	}
}

func TestTotalScore_ThreeMatchStreak(t *testing.T) {
	// base 5, multiplier 2, bonus 1.5 over 3 matches: 8 + 10 + 11 = 29
	got := TotalScore(3, 5, 2, 1.5)
	if got != 29 {
		t.Fatalf("unexpected total: got=%d want=29", got)
	}
}

func TestTotalScore_PerfectPreviewRun(t *testing.T) {
	// The admin preview assumes 8 matches with default knobs.
	got := TotalScore(8, 5, 2, 1.5)
	if got != 108 {
		t.Fatalf("unexpected total: got=%d want=108", got)
	}
}

func TestTotalScore_ZeroMatches(t *testing.T) {
	if got := TotalScore(0, 5, 2, 1.5); got != 0 {
		t.Fatalf("zero matches must score zero, got %d", got)
	}
}
