package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nodegraph/internal/codec"
	"nodegraph/internal/config"
	"nodegraph/internal/domain"
	"nodegraph/internal/handler"
	"nodegraph/internal/hub"
	"nodegraph/internal/metrics"
	"nodegraph/internal/repository"
	"nodegraph/internal/repository/filestore"
	"nodegraph/internal/repository/sqlite"
	"nodegraph/internal/service"
	"nodegraph/internal/watcher"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	writeConfig := flag.Bool("write-config", false, "write the effective config to -config or the default location, then exit")
	flag.Parse()

	if *writeConfig {
		path, err := writeEffectiveConfig(*configPath, *addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "nodegraph: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("config written to %s\n", path)
		return
	}

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "nodegraph: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr string) error {
	cfg, path, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if path == "" {
		logger.Info("no config file found, using defaults")
	} else {
		logger.Info("config loaded", zap.String("path", path))
	}
	logger.Info(cfg.Summary())

	gateway, watchPaths, err := openGateway(cfg.Store)
	if err != nil {
		return err
	}
	defer gateway.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event bus feeds the SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New(logger)
	go sseHub.Run(ctx)

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go hub.Forward(ctx, sseHub, eventChan)

	m := metrics.New()
	ctrl := service.NewGraphController(gateway, eventBus, service.ControllerConfig{
		NodeSize:       domain.Vector2{X: cfg.Editor.NodeWidth, Y: cfg.Editor.NodeHeight},
		NodesKey:       cfg.Store.NodesKey,
		ConnectionsKey: cfg.Store.ConnectionsKey,
		Logger:         logger.Named("graph"),
		Metrics:        m,
	})

	if cfg.Store.LoadOnStart {
		switch err := ctrl.Load(ctx); {
		case err == nil:
		case errors.Is(err, repository.ErrStoreNotFound):
			logger.Info("no saved graph yet, starting empty")
		default:
			return fmt.Errorf("initial load: %w", err)
		}
	}

	if cfg.Store.Watch && len(watchPaths) > 0 {
		debounce := cfg.Store.WatchDebounce.Duration()
		w := watcher.New(watchPaths, func(changed string) {
			reloadOnChange(ctx, ctrl, logger, changed, debounce)
		}, logger).WithDebounce(debounce)

		go func() {
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("store watcher stopped", zap.Error(err))
			}
		}()
	}

	router := handler.NewRouter(handler.NewGraphHandler(ctrl, logger.Named("http")), handler.RouterConfig{
		Events:   sseHub,
		Registry: m.Registry(),
		Logger:   logger.Named("http"),
	})

	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
		// no WriteTimeout: /api/events is a long-lived stream
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	}

	// stop the hub first so open event streams end and Shutdown can drain
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
	return nil
}

// writeEffectiveConfig saves the config that run would use. Without an
// explicit path it goes to the user config directory.
func writeEffectiveConfig(configPath, addr string) (string, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		if loaded, _, err := config.LoadFromPath(configPath); err == nil {
			cfg = loaded
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := cfg.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// openGateway builds the configured store. The returned paths are the files
// worth watching, empty for backends that are not file based.
func openGateway(cfg config.StoreConfig) (repository.Gateway, []string, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		repo, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return repo, nil, nil

	default:
		c, err := codec.ForFormat(cfg.Format)
		if err != nil {
			return nil, nil, err
		}
		store, err := filestore.New(cfg.Dir, c)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return store, []string{store.Path(cfg.NodesKey), store.Path(cfg.ConnectionsKey)}, nil
	}
}

// reloadOnChange loads the graph after an external edit of the store. Changes
// that follow our own save are ignored.
func reloadOnChange(ctx context.Context, ctrl *service.GraphController, logger *zap.Logger, path string, debounce time.Duration) {
	if since := time.Since(ctrl.LastSave()); since < 2*debounce+time.Second {
		logger.Debug("ignoring change written by save", zap.String("path", path))
		return
	}

	err := ctrl.Load(ctx)
	switch {
	case err == nil:
		logger.Info("graph reloaded after external change", zap.String("path", path))
	case errors.Is(err, domain.ErrBusy):
		logger.Debug("skipping reload, store busy", zap.String("path", path))
	case errors.Is(err, repository.ErrStoreNotFound):
		// one of the two documents is still missing
	default:
		logger.Warn("reload failed, keeping current graph", zap.String("path", path), zap.Error(err))
	}
}
