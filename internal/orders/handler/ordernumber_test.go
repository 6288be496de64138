package handler

import (
	"testing"
	"time"
)

func TestFormatOrderNumber(t *testing.T) {
	day := time.Date(2026, time.September, 1, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		seq  int64
		want string
	}{
		{1, "PE2609010001"},
		{42, "PE2609010042"},
		{9999, "PE2609019999"},
		{10000, "PE26090110000"},
	}
	for _, tc := range cases {
		if got := formatOrderNumber(day, tc.seq); got != tc.want {
			t.Errorf("seq %d: got %q, want %q", tc.seq, got, tc.want)
		}
	}
}
