package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cyclesim/internal/config"
	"cyclesim/internal/lifecycle"
	"cyclesim/internal/models"
	"cyclesim/internal/repository"
)

// SimulationService opens simulated investment cycles. The yield rate and
// maturity value are resolved once, at creation, from the configured rate
// schedule and never recomputed afterwards.
type SimulationService struct {
	Repo   repository.Repository
	Config config.SimulationConfig
	Logger *zap.Logger
}

func (s *SimulationService) OpenOrder(ctx context.Context, username string, principal decimal.Decimal, cycleLengthDays int) (*models.Order, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if cycleLengthDays == 0 {
		cycleLengthDays = s.Config.DefaultCycleDays
	}
	if cycleLengthDays <= 0 {
		return nil, lifecycle.ErrInvalidOrderConfiguration
	}
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("principal must be positive")
	}

	rateF, ok := s.Config.RateFor(cycleLengthDays)
	if !ok {
		return nil, fmt.Errorf("no yield rate configured for %d-day cycle", cycleLengthDays)
	}
	rate := decimal.NewFromFloat(rateF)
	if rate.IsNegative() {
		return nil, fmt.Errorf("configured yield rate for %d-day cycle is negative", cycleLengthDays)
	}

	maturity := maturityValue(principal, rate)
	breakdown, _ := json.Marshal(map[string]any{
		"cycle_length_days": cycleLengthDays,
		"yield_rate":        rate,
		"yield_amount":      maturity.Sub(principal),
	})

	item := &models.Order{
		Username:        username,
		CycleLengthDays: cycleLengthDays,
		Principal:       principal,
		YieldRate:       rate,
		MaturityValue:   maturity,
		Breakdown:       breakdown,
	}
	if err := s.Repo.CreateOrder(ctx, item); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("order opened",
			zap.String("username", username),
			zap.Uint64("order_id", item.ID),
			zap.Int("cycle_length_days", cycleLengthDays),
			zap.String("principal", principal.StringFixed(2)),
			zap.String("maturity_value", maturity.StringFixed(2)),
		)
	}
	return item, nil
}

// maturityValue freezes the amount payable at cycle end: principal grown by
// one cycle of yield, settled to cents. Never below principal for a
// non-negative rate.
func maturityValue(principal, rate decimal.Decimal) decimal.Decimal {
	return principal.Mul(decimal.NewFromInt(1).Add(rate)).Round(2)
}
