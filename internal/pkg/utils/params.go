package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidDate = errors.New("invalid date")
)

const DateLayout = "2006-01-02"

// ParseID accepts a positive decimal identifier only.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidID
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, ErrInvalidID
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// ParseDate reads a calendar date as YYYY-MM-DD, or the date part of an RFC3339 instant.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.ParseInLocation(DateLayout, raw, time.UTC); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ParseTime reads an RFC3339 instant. A bare date means midnight UTC.
func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.ParseInLocation(DateLayout, raw, time.UTC); err == nil {
		return d, nil
	}
	return time.Time{}, ErrInvalidDate
}

// OptionalDate parses raw when it is non-empty. ok is false on a malformed value.
func OptionalDate(raw string) (t *time.Time, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	d, err := ParseDate(raw)
	if err != nil {
		return nil, false
	}
	return &d, true
}

// OptionalTime is OptionalDate for instants.
func OptionalTime(raw string) (t *time.Time, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	v, err := ParseTime(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}
