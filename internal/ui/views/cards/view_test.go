package cards

import (
	"strings"
	"testing"
)

func TestStarsFollowCardCeiling(t *testing.T) {
	t.Parallel()
	cases := []struct {
		count, limit, filled, empty int
	}{
		{count: 3, limit: 5, filled: 3, empty: 2},
		{count: 3, limit: 3, filled: 3, empty: 0},
		{count: 9, limit: 4, filled: 4, empty: 0},
		{count: -1, limit: 5, filled: 0, empty: 5},
	}
	for _, tc := range cases {
		got := Stars(tc.count, tc.limit)
		if n := strings.Count(got, "★"); n != tc.filled {
			t.Fatalf("Stars(%d, %d): expected %d filled, got %d", tc.count, tc.limit, tc.filled, n)
		}
		if n := strings.Count(got, "☆"); n != tc.empty {
			t.Fatalf("Stars(%d, %d): expected %d empty, got %d", tc.count, tc.limit, tc.empty, n)
		}
	}
}
