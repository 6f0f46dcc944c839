package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"cyclesim/internal/lifecycle"
	"cyclesim/internal/models"
	"cyclesim/internal/repository"
)

// StatusFilter narrows a listing to open or paid orders; status being derived,
// the filter is applied after decoration rather than in SQL.
type StatusFilter string

const (
	StatusFilterAll  StatusFilter = "all"
	StatusFilterOpen StatusFilter = "open"
	StatusFilterPaid StatusFilter = "paid"
)

// OrderView is one listing row: the stored order plus everything derived from
// the reference date.
type OrderView struct {
	Order         models.Order
	Status        lifecycle.Status
	AlertTier     lifecycle.AlertTier
	DaysRemaining int
}

type OrderQueryService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// List returns a user's orders decorated with status, alert tier and days
// remaining, pinned orders first, each partition most-recent-first.
func (s *OrderQueryService) List(ctx context.Context, params repository.ListOrdersParams, status StatusFilter, today time.Time) ([]OrderView, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	if today.IsZero() {
		today = time.Now().UTC()
	}
	orders, err := s.Repo.ListOrders(ctx, params)
	if err != nil {
		return nil, err
	}
	views, err := decorateOrders(orders, today)
	if err != nil {
		return nil, err
	}
	views = filterByStatus(views, status)
	sortViews(views)
	return views, nil
}

func (s *OrderQueryService) TogglePinned(ctx context.Context, username string, id uint64) (bool, error) {
	if s == nil || s.Repo == nil {
		return false, nil
	}
	item, err := s.Repo.GetOrder(ctx, username, id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, fmt.Errorf("order %d not found for %s", id, username)
	}
	next := !item.Pinned
	if err := s.Repo.SetOrderPinned(ctx, username, id, next); err != nil {
		return false, err
	}
	if s.Logger != nil {
		s.Logger.Info("order pin toggled",
			zap.String("username", username),
			zap.Uint64("order_id", id),
			zap.Bool("pinned", next),
		)
	}
	return next, nil
}

func decorateOrders(orders []models.Order, today time.Time) ([]OrderView, error) {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		status, err := lifecycle.ComputeStatus(o, today)
		if err != nil {
			return nil, err
		}
		tier, err := lifecycle.ComputeAlertTier(o, today)
		if err != nil {
			return nil, err
		}
		remaining, err := lifecycle.DaysRemaining(o, today)
		if err != nil {
			return nil, err
		}
		views = append(views, OrderView{
			Order:         o,
			Status:        status,
			AlertTier:     tier,
			DaysRemaining: remaining,
		})
	}
	return views, nil
}

func filterByStatus(views []OrderView, status StatusFilter) []OrderView {
	switch status {
	case StatusFilterOpen:
		out := views[:0]
		for _, v := range views {
			if v.Status == lifecycle.StatusInProgress {
				out = append(out, v)
			}
		}
		return out
	case StatusFilterPaid:
		out := views[:0]
		for _, v := range views {
			if v.Status == lifecycle.StatusMature {
				out = append(out, v)
			}
		}
		return out
	default:
		return views
	}
}

// sortViews orders pinned before non-pinned, then by creation time descending
// within each partition. Stable so equal keys keep repository order.
func sortViews(views []OrderView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Order.Pinned != views[j].Order.Pinned {
			return views[i].Order.Pinned
		}
		return views[i].Order.CreatedAt.After(views[j].Order.CreatedAt)
	})
}
