package utils

import (
	"time"
)

const layoutDateTime = "2006-01-02 15:04"

// NowUTC returns current time in UTC. Tests may swap it.
var NowUTC = func() time.Time {
	return time.Now().UTC()
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM" in UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(layoutDateTime)
}
