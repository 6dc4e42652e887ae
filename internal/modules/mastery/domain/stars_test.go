package domain

import "testing"

func TestIncrementAndDecrementStayInRange(t *testing.T) {
	t.Parallel()
	stars := Map{}
	for i := 0; i < Max; i++ {
		if _, changed := stars.Increment("w1"); !changed {
			t.Fatalf("increment %d should change", i)
		}
	}
	if got, changed := stars.Increment("w1"); changed || got != Max {
		t.Fatalf("increment at max must be a no-op, got %d changed=%v", got, changed)
	}
	for i := 0; i < Max; i++ {
		stars.Decrement("w1")
	}
	if got, changed := stars.Decrement("w1"); changed || got != 0 {
		t.Fatalf("decrement at zero must be a no-op, got %d changed=%v", got, changed)
	}
	if got, changed := (Map{}).Decrement("unknown"); changed || got != 0 {
		t.Fatalf("decrement of an unknown id must be a no-op")
	}
}

func TestPercentRoundsHalfUp(t *testing.T) {
	t.Parallel()
	cases := []struct {
		mastered, total, want int
	}{
		{0, 0, 0},
		{3, 3, 100},
		{2, 3, 67},
		{1, 3, 33},
		{1, 8, 13},
		{1, 200, 1},
		{0, 5, 0},
	}
	for _, tc := range cases {
		if got := Percent(tc.mastered, tc.total); got != tc.want {
			t.Fatalf("Percent(%d,%d)=%d want %d", tc.mastered, tc.total, got, tc.want)
		}
	}
}

func TestSummaryAndLabels(t *testing.T) {
	t.Parallel()
	stars := Map{"a": 5, "b": 2, "c": 5, "other": 5}
	summary := stars.Summary([]string{"a", "b", "c"})
	if summary != (Summary{Total: 3, Mastered: 2, Review: 1, Percent: 67}) {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	labels := map[int]string{0: LabelStart, 1: LabelKeepGoing, 2: LabelKeepGoing, 3: LabelConfident, 4: LabelConfident, 5: LabelMastered}
	for count, want := range labels {
		if got := Label(count); got != want {
			t.Fatalf("Label(%d)=%s want %s", count, got, want)
		}
	}
}

func TestEnsureResetAndNormalize(t *testing.T) {
	t.Parallel()
	stars := Map{"keep": 4, "a": 3}
	if !stars.Ensure([]string{"a", "b"}) {
		t.Fatalf("ensure should add b")
	}
	if stars.Ensure([]string{"a", "b"}) {
		t.Fatalf("second ensure must be a no-op")
	}
	if stars["a"] != 3 || stars["b"] != 0 {
		t.Fatalf("ensure must not touch existing entries: %v", stars)
	}
	if !stars.Reset([]string{"a", "b"}) || stars["a"] != 0 || stars["keep"] != 4 {
		t.Fatalf("reset must zero exactly the given ids: %v", stars)
	}
	odd := Map{"hi": 9, "lo": -2}
	odd.Normalize()
	if odd["hi"] != Max || odd["lo"] != 0 {
		t.Fatalf("normalize must clamp: %v", odd)
	}
}
