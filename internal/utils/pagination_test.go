package utils

import (
	"math"
	"testing"
)

func TestParsePage(t *testing.T) {
	tests := map[string]int{
		"":    1,
		"1":   1,
		"3":   3,
		"0":   1,
		"-2":  1,
		"abc": 1,
		" 4 ": 4,

		"1000000000000000000":   MaxPage,
		"99999999999999999999":  MaxPage,
		"-99999999999999999999": 1,
	}

	for raw, want := range tests {
		if got := ParsePage(raw); got != want {
			t.Errorf("ParsePage(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestPageOffset(t *testing.T) {
	if got := PageOffset(1, 10); got != 0 {
		t.Fatalf("page 1 offset = %d", got)
	}
	if got := PageOffset(3, 10); got != 20 {
		t.Fatalf("page 3 offset = %d", got)
	}
	if got := PageOffset(math.MaxInt, 10); got != math.MaxInt {
		t.Fatalf("huge page offset = %d, want saturation", got)
	}
	if got := PageOffset(MaxPage, 10); got <= 0 {
		t.Fatalf("max page offset = %d", got)
	}
}

func TestBuildOrganizingCacheKey(t *testing.T) {
	if got := BuildOrganizingCacheKey(42, "abc"); got != "meetups:organizing:v2:user=42:gen=abc" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := BuildOrganizingGenKey(42); got != "meetups:organizing:v2:gen:user=42" {
		t.Fatalf("unexpected gen key %q", got)
	}
}
