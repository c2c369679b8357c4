package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/httpapi"
	"StockLens/internal/labels"
	"StockLens/internal/loader"
	"StockLens/internal/presenter"
	"StockLens/internal/recorder"
	"StockLens/internal/scheduler"
	"StockLens/internal/view"
	"StockLens/internal/watchlist"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockLens starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.Source {
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.Backend.Proxy, cfg.Backend.Timeout)
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewBackendFetcher(cfg.Backend.BaseURL, cfg.Backend.Proxy, cfg.Backend.Timeout)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Recorder.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init watchlist storage
	store, closeStore := openStore(cfg)
	defer closeStore()

	// Init labels
	var lookup labels.Lookup = labels.Default()
	if cfg.Labels.File != "" {
		t, err := labels.LoadFile(cfg.Labels.File)
		if err != nil {
			log.Printf("[WARN] load labels %s: %v, using built-in labels", cfg.Labels.File, err)
		} else {
			lookup = t
		}
	}

	deps := view.Deps{
		Loader:    loader.New(fetcher, rec),
		Presenter: presenter.New(lookup),
		Labels:    lookup,
		Watchlist: watchlist.New(store),
	}
	dash := view.NewDashboard(deps, view.DashboardOptions{
		PreviewSymbol: cfg.Dashboard.PreviewSymbol,
		Horizon:       cfg.Dashboard.Horizon,
		CardCount:     cfg.Dashboard.CardCount,
	})
	defer dash.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, dash, rec, cfg.Recorder.Retention)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	go sched.RunNow()

	// Start HTTP server
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.NewServer(deps, dash, rec, cfg.Dashboard.Horizon).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()
	log.Printf("[INFO] StockLens is listening on %s. Press Ctrl+C to stop.", cfg.Server.Addr)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] StockLens stopped")
}

// openStore picks the watchlist backend. Unreachable databases fall back to
// the file store so the watchlist keeps working.
func openStore(cfg *config.Config) (watchlist.Store, func()) {
	fileStore := func() (watchlist.Store, func()) {
		return watchlist.NewFileStore(cfg.Storage.Dir), func() {}
	}
	switch cfg.Storage.Driver {
	case "sqlite":
		s, err := watchlist.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using file store: %v", err)
			return fileStore()
		}
		return s, func() { s.Close() }
	case "redis":
		r := cfg.Storage.Redis
		s, err := watchlist.NewRedisStore(r.Host, r.Port, r.Password, r.DB)
		if err != nil {
			log.Printf("[WARN] init redis store failed, using file store: %v", err)
			return fileStore()
		}
		return s, func() { s.Close() }
	default:
		return fileStore()
	}
}
