// Package lifecycle derives the state of a simulated investment cycle from
// its creation time and a reference date. Nothing here mutates or stores
// state: two reads on different days may legitimately disagree.
package lifecycle

import (
	"errors"
	"time"

	"cyclesim/internal/models"
)

type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusMature     Status = "MATURE"
)

// AlertTier is the coarse countdown classification for orders nearing
// maturity. Tiers only apply to orders still in progress.
type AlertTier string

const (
	AlertNone  AlertTier = "NONE"
	AlertJ3    AlertTier = "J-3"
	AlertJ1    AlertTier = "J-1"
	AlertToday AlertTier = "TODAY"
)

// ErrInvalidOrderConfiguration is returned for a non-positive cycle length.
// Callers must fix the input; retrying yields the same error.
var ErrInvalidOrderConfiguration = errors.New("invalid order configuration: cycle_length_days must be positive")

// maturityInstant is the exact moment the cycle completes.
func maturityInstant(createdAt time.Time, cycleLengthDays int) time.Time {
	return createdAt.AddDate(0, 0, cycleLengthDays)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysRemaining returns the number of calendar days between today and the
// cycle end date. It is negative once past maturity, and clamped at the full
// cycle length when today precedes the creation date (a freshly opened order,
// not an error).
func DaysRemaining(order models.Order, today time.Time) (int, error) {
	if order.CycleLengthDays <= 0 {
		return 0, ErrInvalidOrderConfiguration
	}
	end := dateOf(maturityInstant(order.CreatedAt, order.CycleLengthDays))
	remaining := int(end.Sub(dateOf(today)).Hours() / 24)
	if remaining > order.CycleLengthDays {
		remaining = order.CycleLengthDays
	}
	return remaining, nil
}

// ComputeStatus reports whether the order is still running or has matured,
// relative to today. Pure and deterministic for fixed inputs.
func ComputeStatus(order models.Order, today time.Time) (Status, error) {
	if order.CycleLengthDays <= 0 {
		return "", ErrInvalidOrderConfiguration
	}
	if today.Before(maturityInstant(order.CreatedAt, order.CycleLengthDays)) {
		return StatusInProgress, nil
	}
	return StatusMature, nil
}

// ComputeAlertTier classifies how close an in-progress order is to maturity.
// Mature orders always get AlertNone regardless of day arithmetic.
func ComputeAlertTier(order models.Order, today time.Time) (AlertTier, error) {
	status, err := ComputeStatus(order, today)
	if err != nil {
		return "", err
	}
	if status != StatusInProgress {
		return AlertNone, nil
	}
	remaining, err := DaysRemaining(order, today)
	if err != nil {
		return "", err
	}
	switch {
	case remaining <= 0:
		return AlertToday, nil
	case remaining == 1:
		return AlertJ1, nil
	case remaining <= 3:
		return AlertJ3, nil
	default:
		return AlertNone, nil
	}
}
