package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	compactDurationRegex = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)
	wordDurationRegex    = regexp.MustCompile(`^(\d+)\s*(minutes?|mins?|hours?|hrs?)$`)
)

// ParseDuration parses a task length into minutes.
// Supported formats:
// - plain minutes (e.g., "45")
// - compact (e.g., "45m", "2h", "1h30m")
// - words (e.g., "45 minutes", "2 hours")
func ParseDuration(input string) (int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if n, err := strconv.Atoi(input); err == nil {
		return checkMinutes(n)
	}

	if m := compactDurationRegex.FindStringSubmatch(input); m != nil && (m[1] != "" || m[2] != "") {
		hours, _ := strconv.Atoi(orZero(m[1]))
		minutes, _ := strconv.Atoi(orZero(m[2]))
		return checkMinutes(hours*60 + minutes)
	}

	if m := wordDurationRegex.FindStringSubmatch(input); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid number")
		}
		if strings.HasPrefix(m[2], "h") {
			n *= 60
		}
		return checkMinutes(n)
	}

	return 0, fmt.Errorf("invalid duration format. Use: 45, 45m, 1h30m, or 2 hours")
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func checkMinutes(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	if n > 24*60 {
		return 0, fmt.Errorf("duration must fit in a day")
	}
	return n, nil
}
