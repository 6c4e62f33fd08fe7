package app

import (
	"math"
	"testing"

	"github.com/danmuck/handlectl/internal/testutil/testlog"
)

func TestParseIndex(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		in   string
		want uint64
	}{
		{"", 0},
		{"   ", 0},
		{"10", 10},
		{"  42", 42},
		{"0xA", 10},
		{"0X1f", 31},
		{"A", 10},
		{"1a", 26},
		{"ff", 255},
		{"12z4", 12},
		{"abc", 0xABC},
		{"0x", 0},
		{"x10", 0},
		{"-3", 0},
		{"99999999999999999999999", math.MaxUint64},
	}
	for _, tc := range cases {
		if got := ParseIndex(tc.in); got != tc.want {
			t.Fatalf("ParseIndex(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestOrdinalNarrowing(t *testing.T) {
	testlog.Start(t)
	if ordinal(5) != 5 {
		t.Fatalf("small values must pass through")
	}
	if ordinal(math.MaxUint64) != -1 {
		t.Fatalf("oversized values must map to -1")
	}
}
