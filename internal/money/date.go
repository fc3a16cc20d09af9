package money

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts DD/MM/YYYY (day and month may have one digit) or
// YYYY-MM-DD and returns the calendar date at midnight UTC. Dates that do not
// exist, like 31/02/2024, are rejected.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 || len(parts[2]) != 4 {
		return time.Time{}, ErrInvalidDate
	}

	day, dErr := atoiDigits(parts[0], 2)
	month, mErr := atoiDigits(parts[1], 2)
	year, yErr := atoiDigits(parts[2], 4)

	if dErr != nil || mErr != nil || yErr != nil {
		return time.Time{}, ErrInvalidDate
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, ErrInvalidDate
	}

	return t, nil
}

func atoiDigits(s string, maxLen int) (int, error) {
	if s == "" || len(s) > maxLen {
		return 0, ErrInvalidDate
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidDate
		}
	}

	return strconv.Atoi(s)
}

// DaysIn returns the number of days in the given month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
