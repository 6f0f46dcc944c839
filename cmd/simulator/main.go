package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cyclesim/internal/auth"
	"cyclesim/internal/config"
	cronrunner "cyclesim/internal/cron"
	"cyclesim/internal/db"
	"cyclesim/internal/lifecycle"
	"cyclesim/internal/logger"
	"cyclesim/internal/repository"
	gormrepository "cyclesim/internal/repository/gorm"
	"cyclesim/internal/service"
)

type app struct {
	cfg    config.Config
	logger *zap.Logger
	db     *db.DB
	store  *gormrepository.Store
}

func main() {
	cfgPath := os.Getenv("CS_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("CS_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer zlog.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		zlog.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.Ping(dbConn); err != nil {
		zlog.Fatal("db ping failed", zap.Error(err))
	}
	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		zlog.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		zlog.Fatal("auto-migrate failed", zap.Error(err))
	}

	a := &app{
		cfg:    cfg,
		logger: zlog,
		db:     dbConn,
		store:  gormrepository.New(dbConn.Gorm),
	}

	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "run":
		err = a.runDaemon(ctx)
	case "open":
		err = a.openOrder(ctx, args)
	case "list":
		err = a.listOrders(ctx, args)
	case "pin":
		err = a.togglePin(ctx, args)
	case "project":
		err = a.project(ctx, args)
	case "history":
		err = a.history(ctx, args)
	case "analytics":
		err = a.analytics(ctx, args)
	default:
		err = fmt.Errorf("unknown command %q (expected run|open|list|pin|project|history|analytics)", cmd)
	}
	if err != nil {
		zlog.Fatal("command failed", zap.String("command", cmd), zap.Error(err))
	}
}

// runDaemon keeps the alert sweep on schedule until interrupted.
func (a *app) runDaemon(ctx context.Context) error {
	verifier := auth.NewStaticVerifier(a.cfg.Auth.Users)
	a.logger.Info("credential verifier ready", zap.Int("accounts", len(verifier.Usernames())))

	alertSvc := &service.AlertSweepService{Repo: a.store, Logger: a.logger}

	runner := cronrunner.New(a.logger, ctx)
	if a.cfg.Cron.Enabled && a.cfg.Alerts.Enabled {
		if _, err := runner.Add(a.cfg.Cron.AlertSweep, func(jobCtx context.Context) {
			if err := alertSvc.RunOnce(jobCtx, time.Now().UTC()); err != nil {
				a.logger.Warn("alert sweep failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}
	runner.Start()
	defer runner.Stop()

	if a.cfg.Alerts.Enabled {
		if err := alertSvc.RunOnce(ctx, time.Now().UTC()); err != nil {
			a.logger.Warn("initial alert sweep failed", zap.Error(err))
		}
	}

	a.logger.Info("simulator started", zap.String("env", a.cfg.App.Env))
	<-ctx.Done()
	a.logger.Info("shutting down")
	return nil
}

func (a *app) openOrder(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: open <username> <principal> [cycle_days]")
	}
	principal, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid principal %q: %w", args[1], err)
	}
	cycleDays := 0
	if len(args) > 2 {
		cycleDays, err = strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid cycle_days %q: %w", args[2], err)
		}
	}
	svc := &service.SimulationService{Repo: a.store, Config: a.cfg.Simulation, Logger: a.logger}
	item, err := svc.OpenOrder(ctx, args[0], principal, cycleDays)
	if err != nil {
		return err
	}
	fmt.Printf("order %d opened: principal %s, pays %s after %d days\n",
		item.ID, item.Principal.StringFixed(2), item.MaturityValue.StringFixed(2), item.CycleLengthDays)
	return nil
}

func (a *app) listOrders(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: list <username> [all|open|paid]")
	}
	status := service.StatusFilterAll
	if len(args) > 1 {
		status = service.StatusFilter(args[1])
	}
	svc := &service.OrderQueryService{Repo: a.store, Logger: a.logger}
	params := repository.ListOrdersParams{Username: args[0]}
	views, err := svc.List(ctx, params, status, time.Now().UTC())
	if err != nil {
		return err
	}
	for _, v := range views {
		pin := " "
		if v.Order.Pinned {
			pin = "*"
		}
		badge := ""
		if v.AlertTier != lifecycle.AlertNone {
			badge = "  [" + string(v.AlertTier) + "]"
		}
		fmt.Printf("%s #%d  %s  %s -> %s  %s  %dd left%s\n",
			pin, v.Order.ID, v.Order.CreatedAt.Format("2006-01-02"),
			v.Order.Principal.StringFixed(2), v.Order.MaturityValue.StringFixed(2),
			v.Status, v.DaysRemaining, badge)
	}
	total, err := a.store.CountOrders(ctx, params)
	if err != nil {
		return err
	}
	fmt.Printf("%d shown, %d total\n", len(views), total)
	return nil
}

func (a *app) togglePin(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: pin <username> <order_id>")
	}
	id, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q: %w", args[1], err)
	}
	svc := &service.OrderQueryService{Repo: a.store, Logger: a.logger}
	pinned, err := svc.TogglePinned(ctx, args[0], id)
	if err != nil {
		return err
	}
	fmt.Printf("order %d pinned=%v\n", id, pinned)
	return nil
}

func (a *app) project(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: project <username> <target> <cycle_yield_rate> <remaining_cycles>")
	}
	target, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid target %q: %w", args[1], err)
	}
	rate, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("invalid rate %q: %w", args[2], err)
	}
	cycles, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("invalid cycles %q: %w", args[3], err)
	}
	planner := &service.ProjectionPlanner{Repo: a.store, Config: a.cfg.Simulation, Logger: a.logger}
	res, err := planner.Plan(ctx, args[0], service.PlanInput{
		TargetAmount:    target,
		CycleYieldRate:  rate,
		RemainingCycles: cycles,
	}, time.Now().UTC())
	if err != nil {
		return err
	}
	fmt.Printf("already committed: %s (worth %s after %d cycles)\n",
		res.AlreadyCommitted.StringFixed(2), res.FutureValueOfCommitted.StringFixed(2), cycles)
	fmt.Printf("required today:    %s (suggested deposit %s)\n",
		res.RequiredAmount.StringFixed(2), res.SuggestedDeposit.StringFixed(2))
	for _, row := range res.Schedule {
		fmt.Printf("  cycle %2d: %s + %s = %s\n",
			row.Cycle, row.Opening.StringFixed(2), row.Yield.StringFixed(2), row.Closing.StringFixed(2))
	}
	return nil
}

func (a *app) history(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: history <username> [limit]")
	}
	limit := 20
	if len(args) > 1 {
		var err error
		limit, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid limit %q: %w", args[1], err)
		}
	}
	records, err := a.store.ListProjectionRecords(ctx, args[0], limit)
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Printf("%s  target=%s rate=%s cycles=%d committed=%s required=%s\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.TargetAmount.StringFixed(2), r.CycleYieldRate.String(), r.RemainingCycles,
			r.AlreadyCommitted.StringFixed(2), r.RequiredAmount.StringFixed(2))
	}
	return nil
}

func (a *app) analytics(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: analytics <username> [months_back]")
	}
	monthsBack := a.cfg.Analytics.MonthsBack
	if len(args) > 1 {
		var err error
		monthsBack, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid months_back %q: %w", args[1], err)
		}
	}
	svc := &service.AnalyticsService{Repo: a.store, Logger: a.logger}
	report, err := svc.Monthly(ctx, args[0], monthsBack, time.Now().UTC())
	if err != nil {
		return err
	}
	for _, p := range report.Months {
		fmt.Printf("%s  orders=%d  principal=%s  maturity=%s\n",
			p.Month, p.OrdersOpened, p.Principal.StringFixed(2), p.MaturityValue.StringFixed(2))
	}
	fmt.Printf("open cycles: %d, expected return: %s\n",
		report.OpenCycles, report.ExpectedReturn.StringFixed(2))
	return nil
}
