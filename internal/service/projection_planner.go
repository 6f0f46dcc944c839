package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cyclesim/internal/config"
	"cyclesim/internal/models"
	"cyclesim/internal/projection"
	"cyclesim/internal/repository"
)

// ProjectionPlanner answers goal projections for one user: it collects the
// principal still working in open cycles, hands the arithmetic to the
// projection engine, and records an audit row with the growth schedule.
type ProjectionPlanner struct {
	Repo   repository.Repository
	Config config.SimulationConfig
	Logger *zap.Logger
}

type PlanInput struct {
	TargetAmount    decimal.Decimal
	CycleYieldRate  decimal.Decimal
	RemainingCycles int
}

type PlanResult struct {
	AlreadyCommitted       decimal.Decimal
	FutureValueOfCommitted decimal.Decimal
	RequiredAmount         decimal.Decimal
	// SuggestedDeposit is RequiredAmount rounded to the configured deposit
	// step, the granularity deposits are actually accepted in.
	SuggestedDeposit decimal.Decimal
	Schedule         []projection.GrowthRow
}

func (s *ProjectionPlanner) Plan(ctx context.Context, username string, in PlanInput, today time.Time) (*PlanResult, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	if today.IsZero() {
		today = time.Now().UTC()
	}

	open, err := s.Repo.ListOpenOrders(ctx, username, today)
	if err != nil {
		return nil, err
	}
	committed := sumPrincipal(open)

	res, err := projection.RequiredInvestment(in.TargetAmount, in.CycleYieldRate, in.RemainingCycles, committed)
	if err != nil {
		return nil, err
	}

	// Schedule starts from the full working balance after the suggested
	// deposit; nothing to chart when both are zero.
	var schedule []projection.GrowthRow
	start := committed.Add(res.Required)
	if start.GreaterThan(decimal.Zero) {
		schedule, err = projection.GrowthSchedule(start, in.CycleYieldRate, in.RemainingCycles)
		if err != nil {
			return nil, err
		}
	}

	scheduleRaw, _ := json.Marshal(schedule)
	record := &models.ProjectionRecord{
		Username:               username,
		TargetAmount:           in.TargetAmount,
		CycleYieldRate:         in.CycleYieldRate,
		RemainingCycles:        in.RemainingCycles,
		AlreadyCommitted:       committed,
		FutureValueOfCommitted: res.FutureValueOfCommitted,
		RequiredAmount:         res.Required,
		Schedule:               scheduleRaw,
	}
	if err := s.Repo.InsertProjectionRecord(ctx, record); err != nil {
		if s.Logger != nil {
			s.Logger.Warn("projection audit insert failed", zap.Error(err))
		}
	}

	if s.Logger != nil {
		s.Logger.Info("projection computed",
			zap.String("username", username),
			zap.String("target", in.TargetAmount.StringFixed(2)),
			zap.Int("remaining_cycles", in.RemainingCycles),
			zap.String("already_committed", committed.StringFixed(2)),
			zap.String("required", res.Required.StringFixed(2)),
		)
	}
	return &PlanResult{
		AlreadyCommitted:       committed,
		FutureValueOfCommitted: res.FutureValueOfCommitted,
		RequiredAmount:         res.Required,
		SuggestedDeposit:       projection.RoundToStep(res.Required, s.Config.DepositStep),
		Schedule:               schedule,
	}, nil
}

func sumPrincipal(orders []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Principal)
	}
	return total
}
