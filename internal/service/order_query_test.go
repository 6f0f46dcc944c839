package service

import (
	"testing"
	"time"

	"cyclesim/internal/lifecycle"
	"cyclesim/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, 6, d, 12, 0, 0, 0, time.UTC)
}

func TestSortViews_PinnedFirstThenRecent(t *testing.T) {
	views := []OrderView{
		{Order: models.Order{ID: 1, CreatedAt: day(1)}},
		{Order: models.Order{ID: 2, CreatedAt: day(5), Pinned: true}},
		{Order: models.Order{ID: 3, CreatedAt: day(9)}},
		{Order: models.Order{ID: 4, CreatedAt: day(7), Pinned: true}},
		{Order: models.Order{ID: 5, CreatedAt: day(3)}},
	}
	sortViews(views)
	want := []uint64{4, 2, 3, 5, 1}
	for i, id := range want {
		if views[i].Order.ID != id {
			t.Fatalf("position %d: id=%d want=%d", i, views[i].Order.ID, id)
		}
	}
}

func TestDecorateOrders(t *testing.T) {
	today := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: 1, CreatedAt: day(1), CycleLengthDays: 7},   // matured June 8
		{ID: 2, CreatedAt: day(10), CycleLengthDays: 28}, // 23 days left
		{ID: 3, CreatedAt: day(14), CycleLengthDays: 2},  // ends tomorrow
	}
	views, err := decorateOrders(orders, today)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if views[0].Status != lifecycle.StatusMature || views[0].AlertTier != lifecycle.AlertNone {
		t.Fatalf("order 1: status=%s tier=%s", views[0].Status, views[0].AlertTier)
	}
	if views[1].Status != lifecycle.StatusInProgress || views[1].DaysRemaining != 23 {
		t.Fatalf("order 2: status=%s remaining=%d", views[1].Status, views[1].DaysRemaining)
	}
	if views[2].AlertTier != lifecycle.AlertJ1 {
		t.Fatalf("order 3: tier=%s want=%s", views[2].AlertTier, lifecycle.AlertJ1)
	}
}

func TestDecorateOrders_InvalidCycleLength(t *testing.T) {
	orders := []models.Order{{ID: 1, CreatedAt: day(1), CycleLengthDays: 0}}
	if _, err := decorateOrders(orders, day(2)); err == nil {
		t.Fatalf("expected error for zero cycle length")
	}
}

func TestFilterByStatus(t *testing.T) {
	views := []OrderView{
		{Order: models.Order{ID: 1}, Status: lifecycle.StatusMature},
		{Order: models.Order{ID: 2}, Status: lifecycle.StatusInProgress},
		{Order: models.Order{ID: 3}, Status: lifecycle.StatusInProgress},
	}
	open := filterByStatus(append([]OrderView(nil), views...), StatusFilterOpen)
	if len(open) != 2 || open[0].Order.ID != 2 || open[1].Order.ID != 3 {
		t.Fatalf("open=%v", open)
	}
	paid := filterByStatus(append([]OrderView(nil), views...), StatusFilterPaid)
	if len(paid) != 1 || paid[0].Order.ID != 1 {
		t.Fatalf("paid=%v", paid)
	}
	all := filterByStatus(append([]OrderView(nil), views...), StatusFilterAll)
	if len(all) != 3 {
		t.Fatalf("all=%d want=3", len(all))
	}
}
