// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/wonyeong0810/studyBot/internal/app/bot"
	"github.com/wonyeong0810/studyBot/internal/app/features/accountability"
	ledgerstore "github.com/wonyeong0810/studyBot/internal/app/store/ledger"
	"github.com/wonyeong0810/studyBot/internal/app/system/dayclock"
	"github.com/wonyeong0810/studyBot/internal/app/system/scheduler"
	"go.uber.org/zap"
)

// App bundles everything Startup builds, in the order Shutdown needs it.
type App struct {
	Backend   string // "mongo" or "file", for the health endpoint
	Ledger    ledgerstore.Store
	Clock     *dayclock.Clock
	Service   *accountability.Service
	Bot       *bot.Bot
	Scheduler *scheduler.Scheduler

	deps DBDeps
	log  *zap.Logger
}

// Startup runs one-time application initialization after DB connections
// are established. It selects the ledger backend, builds the day clock
// and facade, wires the Discord bot, and arms the daily triggers. The
// bot and scheduler are built but not started; call Start.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (*App, error) {
	ledger, backend, err := buildLedger(appCfg, deps, logger)
	if err != nil {
		return nil, err
	}

	sched, err := appCfg.schedule()
	if err != nil {
		return nil, err
	}
	clock, err := dayclock.New(appCfg.TimeZone, sched.Cutoff)
	if err != nil {
		return nil, err
	}

	svc := accountability.NewService(ledger, clock, logger)

	b, err := bot.New(appCfg.DiscordToken, svc, logger)
	if err != nil {
		return nil, err
	}

	// Three reminders before the cutoff, then settlement at the cutoff.
	remind := func(ctx context.Context) {
		svc.RemindAll(ctx, b.SendReminder)
	}
	daily := scheduler.New(clock, logger,
		scheduler.Trigger{Name: "remind-long", At: sched.RemindLong, Run: remind},
		scheduler.Trigger{Name: "remind-mid", At: sched.RemindMid, Run: remind},
		scheduler.Trigger{Name: "remind-short", At: sched.RemindShort, Run: remind},
		scheduler.Trigger{Name: "settle", At: sched.Cutoff, Run: func(ctx context.Context) {
			svc.SettleAll(ctx, b.SendSettlement)
		}},
	)

	logger.Info("application initialized",
		zap.String("backend", backend),
		zap.String("time_zone", appCfg.TimeZone),
		zap.String("cutoff", appCfg.Cutoff))

	return &App{
		Backend:   backend,
		Ledger:    ledger,
		Clock:     clock,
		Service:   svc,
		Bot:       b,
		Scheduler: daily,
		deps:      deps,
		log:       logger,
	}, nil
}

// buildLedger selects the ledger backend from configuration: MongoDB
// when a URI is configured, the JSON file otherwise.
func buildLedger(appCfg AppConfig, deps DBDeps, logger *zap.Logger) (ledgerstore.Store, string, error) {
	if appCfg.MongoURI != "" {
		if deps.MongoDatabase == nil {
			return nil, "", fmt.Errorf("mongo backend selected but no database connection")
		}
		return ledgerstore.NewMongoStore(deps.MongoDatabase), "mongo", nil
	}

	fs, err := ledgerstore.NewFileStore(appCfg.DataFile, logger)
	if err != nil {
		return nil, "", fmt.Errorf("open ledger file %s: %w", appCfg.DataFile, err)
	}
	return fs, "file", nil
}

// Start opens the Discord gateway and arms the daily triggers.
func (a *App) Start() error {
	if err := a.Bot.Start(); err != nil {
		return err
	}
	a.Scheduler.Start()
	return nil
}
