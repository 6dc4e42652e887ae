package domain

import "math"

// Max is the star count of a mastered item.
const Max = 5

// Catalog keys for the label shown next to a star count.
const (
	LabelStart     = "stars.start"
	LabelKeepGoing = "stars.keep_going"
	LabelConfident = "stars.confident"
	LabelMastered  = "stars.mastered"
)

// Map holds the star count of every item id ever seen, across all units.
type Map map[string]int

func (m Map) Get(id string) int {
	return m[id]
}

// Increment adds a star unless the item is already mastered.
func (m Map) Increment(id string) (int, bool) {
	current := m[id]
	if current >= Max {
		return current, false
	}
	m[id] = current + 1
	return current + 1, true
}

// Decrement removes a star unless the item has none.
func (m Map) Decrement(id string) (int, bool) {
	current := m[id]
	if current <= 0 {
		return current, false
	}
	m[id] = current - 1
	return current - 1, true
}

// Ensure gives every id without an entry a zero count.
func (m Map) Ensure(ids []string) bool {
	changed := false
	for _, id := range ids {
		if _, ok := m[id]; !ok {
			m[id] = 0
			changed = true
		}
	}
	return changed
}

// Reset zeroes exactly the given ids.
func (m Map) Reset(ids []string) bool {
	changed := false
	for _, id := range ids {
		if current, ok := m[id]; !ok || current != 0 {
			m[id] = 0
			changed = true
		}
	}
	return changed
}

// Normalize clamps every count into [0, Max].
func (m Map) Normalize() {
	for id, stars := range m {
		m[id] = clamp(stars)
	}
}

func (m Map) Clone() Map {
	out := make(Map, len(m))
	for id, stars := range m {
		out[id] = stars
	}
	return out
}

type Summary struct {
	Total    int
	Mastered int
	Review   int
	Percent  int
}

func (m Map) Summary(ids []string) Summary {
	summary := Summary{Total: len(ids)}
	for _, id := range ids {
		if m[id] >= Max {
			summary.Mastered++
		}
	}
	summary.Review = summary.Total - summary.Mastered
	summary.Percent = Percent(summary.Mastered, summary.Total)
	return summary
}

// Percent rounds mastered/total half up; an empty set is 0%.
func Percent(mastered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(mastered)*100/float64(total) + 0.5))
}

func Label(stars int) string {
	switch {
	case stars <= 0:
		return LabelStart
	case stars < 3:
		return LabelKeepGoing
	case stars < Max:
		return LabelConfident
	default:
		return LabelMastered
	}
}

func clamp(stars int) int {
	if stars < 0 {
		return 0
	}
	if stars > Max {
		return Max
	}
	return stars
}
