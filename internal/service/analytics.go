package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cyclesim/internal/models"
	"cyclesim/internal/repository"
)

// AnalyticsService aggregates a user's order history into monthly buckets and
// reports the expected return of cycles still running.
type AnalyticsService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

type MonthlyPoint struct {
	Month         string
	OrdersOpened  int
	Principal     decimal.Decimal
	MaturityValue decimal.Decimal
}

type AnalyticsReport struct {
	Months         []MonthlyPoint
	OpenCycles     int
	ExpectedReturn decimal.Decimal
}

func (s *AnalyticsService) Monthly(ctx context.Context, username string, monthsBack int, now time.Time) (*AnalyticsReport, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if monthsBack <= 0 {
		monthsBack = 12
	}

	from := monthStart(now).AddDate(0, -(monthsBack - 1), 0)
	orders, err := s.Repo.ListOrders(ctx, repository.ListOrdersParams{
		Username:    username,
		CreatedFrom: &from,
		Limit:       1000,
		OrderBy:     "created_at",
	})
	if err != nil {
		return nil, err
	}

	report := aggregateMonthly(orders, monthsBack, now)

	// Expected return spans the whole history, not just the window.
	open, err := s.Repo.ListOpenOrders(ctx, username, now)
	if err != nil {
		return nil, err
	}
	report.OpenCycles = len(open)
	report.ExpectedReturn = sumMaturity(open)

	if s.Logger != nil {
		s.Logger.Debug("analytics computed",
			zap.String("username", username),
			zap.Int("months", monthsBack),
			zap.Int("open_cycles", report.OpenCycles),
		)
	}
	return report, nil
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// monthLabels returns YYYY-MM labels for the trailing window ending at now,
// oldest first.
func monthLabels(now time.Time, monthsBack int) []string {
	labels := make([]string, 0, monthsBack)
	cur := monthStart(now).AddDate(0, -(monthsBack - 1), 0)
	for i := 0; i < monthsBack; i++ {
		labels = append(labels, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return labels
}

func aggregateMonthly(orders []models.Order, monthsBack int, now time.Time) *AnalyticsReport {
	labels := monthLabels(now, monthsBack)
	byMonth := make(map[string]*MonthlyPoint, len(labels))
	points := make([]MonthlyPoint, len(labels))
	for i, label := range labels {
		points[i] = MonthlyPoint{
			Month:         label,
			Principal:     decimal.Zero,
			MaturityValue: decimal.Zero,
		}
		byMonth[label] = &points[i]
	}

	for _, o := range orders {
		key := o.CreatedAt.UTC().Format("2006-01")
		point, ok := byMonth[key]
		if !ok {
			continue
		}
		point.OrdersOpened++
		point.Principal = point.Principal.Add(o.Principal)
		point.MaturityValue = point.MaturityValue.Add(o.MaturityValue)
	}

	return &AnalyticsReport{Months: points, ExpectedReturn: decimal.Zero}
}

func sumMaturity(orders []models.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.MaturityValue)
	}
	return total
}
