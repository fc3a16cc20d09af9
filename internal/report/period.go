package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/lobofinance/lobo/internal/money"
)

var ErrInvalidPeriod = errors.New("invalid period")

type Preset string

const (
	PresetThisMonth  Preset = "this_month"
	PresetLastMonth  Preset = "last_month"
	PresetThisYear   Preset = "this_year"
	PresetLast90Days Preset = "last_90_days"
	PresetCustom     Preset = "custom"
)

// Period resolves a preset relative to now into an inclusive date range.
// Custom periods take their bounds from from and to, either of which may be
// empty.
func Period(preset Preset, now time.Time, from, to string) (start, end *time.Time, err error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch preset {
	case PresetThisMonth, "":
		return new(firstOfMonth), new(firstOfMonth.AddDate(0, 1, -1)), nil
	case PresetLastMonth:
		return new(firstOfMonth.AddDate(0, -1, 0)), new(firstOfMonth.AddDate(0, 0, -1)), nil
	case PresetThisYear:
		return new(time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)),
			new(time.Date(today.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)), nil
	case PresetLast90Days:
		return new(today.AddDate(0, 0, -89)), new(today), nil
	case PresetCustom:
		if start, err = optionalDate(from); err != nil {
			return nil, nil, err
		}

		if end, err = optionalDate(to); err != nil {
			return nil, nil, err
		}

		if start != nil && end != nil && end.Before(*start) {
			return nil, nil, fmt.Errorf("%w: end before start", ErrInvalidPeriod)
		}

		return start, end, nil
	}

	return nil, nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidPeriod, preset)
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	d, err := money.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPeriod, err)
	}

	return &d, nil
}
