package lifecycle

import (
	"errors"
	"testing"
	"time"

	"cyclesim/internal/models"
)

func mkOrder(createdAt time.Time, cycleDays int) models.Order {
	return models.Order{CreatedAt: createdAt, CycleLengthDays: cycleDays}
}

func TestComputeStatus_Deterministic(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	order := mkOrder(created, 28)
	today := created.Add(10 * 24 * time.Hour)
	for i := 0; i < 3; i++ {
		got, err := ComputeStatus(order, today)
		if err != nil {
			t.Fatalf("err=%v", err)
		}
		if got != StatusInProgress {
			t.Fatalf("status=%s want=%s", got, StatusInProgress)
		}
	}
}

func TestComputeStatus_MatureAtBoundary(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	order := mkOrder(created, 28)

	beforeEnd := created.AddDate(0, 0, 28).Add(-time.Second)
	got, err := ComputeStatus(order, beforeEnd)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != StatusInProgress {
		t.Fatalf("status=%s want=%s", got, StatusInProgress)
	}

	atEnd := created.AddDate(0, 0, 28)
	got, err = ComputeStatus(order, atEnd)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != StatusMature {
		t.Fatalf("status=%s want=%s", got, StatusMature)
	}
}

func TestComputeStatus_InvalidCycleLength(t *testing.T) {
	order := mkOrder(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0)
	if _, err := ComputeStatus(order, time.Now()); !errors.Is(err, ErrInvalidOrderConfiguration) {
		t.Fatalf("err=%v want ErrInvalidOrderConfiguration", err)
	}
	if _, err := DaysRemaining(order, time.Now()); !errors.Is(err, ErrInvalidOrderConfiguration) {
		t.Fatalf("err=%v want ErrInvalidOrderConfiguration", err)
	}
}

func TestDaysRemaining_ClampedBeforeCreation(t *testing.T) {
	created := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	order := mkOrder(created, 14)
	got, err := DaysRemaining(order, created.AddDate(0, 0, -5))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != 14 {
		t.Fatalf("remaining=%d want=14", got)
	}
}

func TestDaysRemaining_NegativePastMaturity(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	order := mkOrder(created, 7)
	got, err := DaysRemaining(order, created.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != -3 {
		t.Fatalf("remaining=%d want=-3", got)
	}
}

func TestDaysRemaining_Monotonic(t *testing.T) {
	created := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	order := mkOrder(created, 28)
	prev := order.CycleLengthDays + 1
	for d := -2; d <= 35; d++ {
		today := created.AddDate(0, 0, d)
		got, err := DaysRemaining(order, today)
		if err != nil {
			t.Fatalf("day %d: err=%v", d, err)
		}
		if got > prev {
			t.Fatalf("day %d: remaining=%d increased from %d", d, got, prev)
		}
		prev = got
	}
}

func TestComputeAlertTier_Table(t *testing.T) {
	created := time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC)
	order := mkOrder(created, 28)
	tests := []struct {
		daysBeforeEnd int
		want          AlertTier
	}{
		{0, AlertToday},
		{1, AlertJ1},
		{2, AlertJ3},
		{3, AlertJ3},
		{4, AlertNone},
		{10, AlertNone},
	}
	for _, tt := range tests {
		// Morning of the target day, before the 23:00 maturity instant.
		today := time.Date(2026, 1, 29-tt.daysBeforeEnd, 8, 0, 0, 0, time.UTC)
		got, err := ComputeAlertTier(order, today)
		if err != nil {
			t.Fatalf("daysBeforeEnd=%d: err=%v", tt.daysBeforeEnd, err)
		}
		if got != tt.want {
			t.Fatalf("daysBeforeEnd=%d: tier=%s want=%s", tt.daysBeforeEnd, got, tt.want)
		}
	}
}

func TestComputeAlertTier_NoneOnceMature(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	order := mkOrder(created, 7)
	got, err := ComputeAlertTier(order, created.AddDate(0, 0, 7).Add(time.Minute))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != AlertNone {
		t.Fatalf("tier=%s want=%s", got, AlertNone)
	}
}
