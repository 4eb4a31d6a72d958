package scores_test

import (
	"testing"

	"questlog/internal/scores"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"", 0, false},
		{"   ", 0, false},
		{"tbd", 0, false},
		{"TBD", 0, false},
		{" tbd ", 0, false},
		{"8.5", 8, true},
		{" 87 ", 87, true},
		{"100", 100, true},
		{"100.9", 100, true},
		{"-0.5", 0, true},
		{"-3.9", 0, false},
		{"101", 0, false},
		{"1e20", 0, false},
		{"n/a", 0, false},
		{"NaN", 0, false},
	}
	for _, tt := range tests {
		got, ok := scores.Parse(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Parse(%q) = %d,%v want %d,%v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParsePtr(t *testing.T) {
	if scores.ParsePtr(nil) != nil {
		t.Fatal("expected nil for nil input")
	}
	raw := "91"
	got := scores.ParsePtr(&raw)
	if got == nil || *got != 91 {
		t.Fatalf("ParsePtr = %v", got)
	}
	blank := "TBD"
	if scores.ParsePtr(&blank) != nil {
		t.Fatal("expected nil for tbd")
	}
}

func TestRescaleUserScore(t *testing.T) {
	tests := map[int]int{8: 80, 10: 100, 0: 0, 11: 11, 85: 85}
	for in, want := range tests {
		if got := scores.RescaleUserScore(in); got != want {
			t.Errorf("RescaleUserScore(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestParseUser(t *testing.T) {
	if got, ok := scores.ParseUser("7.9"); !ok || got != 70 {
		t.Fatalf("ParseUser(7.9) = %d,%v", got, ok)
	}
	if _, ok := scores.ParseUser("tbd"); ok {
		t.Fatal("expected no user score for tbd")
	}
}

func TestScrapeResultEmpty(t *testing.T) {
	if !(scores.ScrapeResult{}).Empty() {
		t.Fatal("expected zero result to be empty")
	}
	press := 80
	if (scores.ScrapeResult{Press: &press}).Empty() {
		t.Fatal("expected result with press score to be non-empty")
	}
}
