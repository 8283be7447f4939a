package workflow

import "time"

// now returns the current time truncated to microseconds, matching
// Postgres timestamp precision.
func now() time.Time {
	return time.Now().Truncate(time.Microsecond)
}
