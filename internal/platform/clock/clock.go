package clock

import "time"

// Clock abstracts time so trackers and exports stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Day formats t as YYYY-MM-DD, the form used in upload metadata and backup file names.
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
