package validation

import (
	"errors"
	"strconv"
	"strings"
)

// ErrRegionIDEmpty is returned when the region id path segment is empty or whitespace.
var ErrRegionIDEmpty = errors.New("region id is required")

// ErrRegionIDInvalid is returned when the region id is not a positive integer.
var ErrRegionIDInvalid = errors.New("region id must be a positive integer")

// ErrLimitInvalid is returned when a limit query parameter is not a positive integer.
var ErrLimitInvalid = errors.New("limit must be a positive integer")

// ErrLimitTooLarge is returned when a limit query parameter exceeds the maximum.
var ErrLimitTooLarge = errors.New("limit too large")

// MaxPredictionLimit caps how many prediction rows a single request may ask for.
const MaxPredictionLimit = 500

// ParseRegionID parses a region id from a URL path segment. Returns an error
// suitable for 400 INVALID_REGION_ID responses.
func ParseRegionID(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrRegionIDEmpty
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrRegionIDInvalid
	}
	return id, nil
}

// ParseLimit parses an optional limit query parameter. An empty input yields
// defaultLimit. Values above MaxPredictionLimit are rejected rather than
// silently truncated.
func ParseLimit(input string, defaultLimit int) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, ErrLimitInvalid
	}
	if n > MaxPredictionLimit {
		return 0, ErrLimitTooLarge
	}
	return n, nil
}
