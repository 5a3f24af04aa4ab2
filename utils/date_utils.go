package utils

import "time"

// ParseDate parses a date string in any of the formats the front end is
// known to send.
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// ParseDateRange parses optional start/end query values, defaulting to the
// last 30 days when either is missing.
func ParseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, -1, 0)

	if startStr != "" {
		t, err := ParseDate(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	if endStr != "" {
		t, err := ParseDate(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	}
	return start, end, nil
}
