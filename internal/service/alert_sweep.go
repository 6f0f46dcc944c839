package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"cyclesim/internal/lifecycle"
	"cyclesim/internal/models"
	"cyclesim/internal/repository"
)

// AlertSweepService periodically classifies every user's open orders into
// countdown tiers and logs the hits. It never mutates orders: status stays a
// pure function of the clock.
type AlertSweepService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (s *AlertSweepService) RunOnce(ctx context.Context, today time.Time) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	if today.IsZero() {
		today = time.Now().UTC()
	}

	usernames, err := s.Repo.ListUsernames(ctx)
	if err != nil {
		return err
	}

	scanned := 0
	alerted := 0
	for _, username := range usernames {
		open, err := s.Repo.ListOpenOrders(ctx, username, today)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("alert sweep: list open orders failed",
					zap.String("username", username),
					zap.Error(err),
				)
			}
			continue
		}
		scanned += len(open)
		for _, hit := range tierHits(open, today) {
			alerted++
			if s.Logger != nil {
				s.Logger.Info("cycle ending soon",
					zap.String("username", username),
					zap.Uint64("order_id", hit.Order.ID),
					zap.String("tier", string(hit.Tier)),
					zap.Int("days_remaining", hit.DaysRemaining),
					zap.String("maturity_value", hit.Order.MaturityValue.StringFixed(2)),
				)
			}
		}
	}

	if s.Logger != nil {
		s.Logger.Info("alert sweep done",
			zap.Int("users", len(usernames)),
			zap.Int("open_orders", scanned),
			zap.Int("alerts", alerted),
		)
	}
	return nil
}

type tierHit struct {
	Order         models.Order
	Tier          lifecycle.AlertTier
	DaysRemaining int
}

// tierHits keeps only orders in an actionable tier. Orders with a broken
// cycle length are skipped rather than failing the whole sweep.
func tierHits(orders []models.Order, today time.Time) []tierHit {
	out := make([]tierHit, 0, len(orders))
	for _, o := range orders {
		tier, err := lifecycle.ComputeAlertTier(o, today)
		if err != nil || tier == lifecycle.AlertNone {
			continue
		}
		remaining, err := lifecycle.DaysRemaining(o, today)
		if err != nil {
			continue
		}
		out = append(out, tierHit{Order: o, Tier: tier, DaysRemaining: remaining})
	}
	return out
}
