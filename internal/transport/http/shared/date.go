package shared

import "time"

const dayFormat = "2006-01-02"

// ParseDate reads the two timestamp shapes the API accepts: full RFC3339, or
// a bare day which parses as midnight UTC. Empty input yields the zero time
// with no error so optional date fields pass through untouched.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(dayFormat, value)
}
