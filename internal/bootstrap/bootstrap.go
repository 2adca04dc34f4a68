package bootstrap

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	journeyinadapter "inkstone/internal/modules/journey/adapter/in"
	journeyoutadapter "inkstone/internal/modules/journey/adapter/out"
	journeyservice "inkstone/internal/modules/journey/service"
	journeyusecase "inkstone/internal/modules/journey/usecase"
	ledgerinadapter "inkstone/internal/modules/ledger/adapter/in"
	ledgeroutadapter "inkstone/internal/modules/ledger/adapter/out"
	ledgerservice "inkstone/internal/modules/ledger/service"
	ledgerusecase "inkstone/internal/modules/ledger/usecase"
	promptinadapter "inkstone/internal/modules/prompt/adapter/in"
	promptoutadapter "inkstone/internal/modules/prompt/adapter/out"
	promptservice "inkstone/internal/modules/prompt/service"
	promptusecase "inkstone/internal/modules/prompt/usecase"
	"inkstone/internal/platform/blob"
	"inkstone/internal/platform/clock"
	"inkstone/internal/platform/config"
	"inkstone/internal/platform/id"
	"inkstone/internal/platform/logger"
	"inkstone/internal/runner"
	uiapp "inkstone/internal/ui/app"
)

type App struct {
	Config     config.Config
	Log        *logger.Logger
	JourneyCLI journeyinadapter.CLIHandler
	LedgerCLI  ledgerinadapter.CLIHandler
	PromptCLI  promptinadapter.CLIHandler

	store   blob.Store
	clock   clock.Clock
	ticker  runner.PhaseTicker
	checker runner.PromptChecker
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	log, err := logger.New(logMode(cfg.Log.Mode), cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("store opened", "driver", cfg.Store.Driver)

	clk := clock.SystemClock{}
	ids := id.UUID{}

	journeySvc := journeyservice.NewJourneyService(clk, journeyoutadapter.NewBlobStateStore(store), log, cfg.Coach.DailyStoneGoal)
	if err := journeySvc.Load(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	journeyUC := journeyusecase.NewInteractor(journeySvc)

	catalog, err := promptoutadapter.NewYAMLCatalog(cfg.PromptsFile).Load(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	seed := uint64(time.Now().UnixNano())
	promptSvc := promptservice.NewPromptService(clk, rand.New(rand.NewPCG(seed, seed>>1)), catalog,
		promptoutadapter.NewBlobStateStore(store), log, cfg.Coach.MinPromptDisplay)
	if err := promptSvc.Load(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	promptUC := promptusecase.NewInteractor(promptSvc, journeyUC)

	ledgerSvc := ledgerservice.NewLedgerService(clk, ids, ledgeroutadapter.NewBlobLedgerStore(store),
		ledgeroutadapter.NewVaultJournal(cfg.VaultPath), log)
	if err := ledgerSvc.Load(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	ledgerUC := ledgerusecase.NewInteractor(ledgerSvc, journeyUC, promptUC, ledgeroutadapter.NewBlobActiveSessionStore(store))

	return &App{
		Config:     cfg,
		Log:        log,
		JourneyCLI: journeyinadapter.NewCLIHandler(journeyUC),
		LedgerCLI:  ledgerinadapter.NewCLIHandler(ledgerUC),
		PromptCLI:  promptinadapter.NewCLIHandler(promptUC),
		store:      store,
		clock:      clk,
		ticker:     journeyUC,
		checker:    promptUC,
	}, nil
}

func openStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreFile:
		return blob.NewFileStore(filepath.Join(cfg.DataDir, "state")), nil
	case config.StoreRedis:
		store, err := blob.NewRedisStore(ctx, cfg.Store.RedisAddr, cfg.Store.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return store, nil
	default:
		store, err := blob.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	}
}

func logMode(mode string) string {
	if mode != config.LogAuto {
		return mode
	}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return "dev"
	}
	return "prod"
}

// NewRunner returns a runner over the app's journey and prompt usecases.
func (a *App) NewRunner() *runner.Runner {
	return runner.New(a.ticker, a.checker, a.clock, a.Log, runner.Config{
		PhaseEvery:  a.Config.Coach.PhaseCheckEvery,
		PromptEvery: a.Config.Coach.PromptCheckEvery,
	})
}

func (a *App) Close() error {
	a.Log.Sync()
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.JourneyCLI, app.LedgerCLI, app.PromptCLI, uiapp.Options{
		PhaseEvery:  app.Config.Coach.PhaseCheckEvery,
		PromptEvery: app.Config.Coach.PromptCheckEvery,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
