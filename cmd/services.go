package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/xvierd/focus-cli/internal/adapters/git"
	"github.com/xvierd/focus-cli/internal/adapters/notification"
	"github.com/xvierd/focus-cli/internal/adapters/storage"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/logging"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	store    *config.Store
	config   *config.Config
	logger   *slog.Logger
	closeLog func() error
	storage  ports.Storage
	git      ports.GitDetector
	notifier *notification.Notifier
	timer    *services.TimerController
	tasks    *services.TaskService
	history  *services.HistoryService
	settings *services.SettingsService
	state    *services.StateService
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.store, err = config.Open(configPath)
	if err != nil {
		return err
	}
	app.config, err = app.store.Config()
	if err != nil {
		return err
	}

	app.logger, app.closeLog, err = logging.Open(config.GetLogPath(app.config), app.config.Logging.Level)
	if err != nil {
		// Logging is best effort.
		app.logger, app.closeLog = logging.Discard(), nil
	}
	slog.SetDefault(app.logger)

	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.logger.Debug("storage opened", "path", dbPath)

	app.git = git.NewDetector()
	app.notifier = notification.New(app.config.Notifications)

	settings, err := app.store.LoadTimerSettings()
	if err != nil {
		app.logger.Warn("invalid timer settings, using defaults", "error", err)
		settings = domain.DefaultTimerSettings()
	}
	app.timer, err = services.NewTimerController(settings,
		services.WithNotifier(app.notifier),
		services.WithLogger(app.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create timer: %w", err)
	}

	app.tasks = services.NewTaskService(app.storage)

	app.history = services.NewHistoryService(app.storage, app.git, app.logger)
	if wd, err := os.Getwd(); err == nil {
		app.history.SetWorkingDir(wd)
	}
	app.history.Attach(app.timer)

	app.settings = services.NewSettingsService(app.store, app.timer)

	app.state = services.NewStateService(app.tasks, app.history, app.timer)
	app.state.SetSettingsService(app.settings)

	return nil
}

// cleanupServices closes all resources. It is safe to call more than once.
func cleanupServices() error {
	if app.timer != nil {
		app.timer.Close()
	}

	var err error
	if app.storage != nil {
		err = app.storage.Close()
	}
	if app.closeLog != nil {
		_ = app.closeLog()
	}
	app = appDeps{}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
