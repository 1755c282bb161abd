package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"numwatch/internal/bus"
	"numwatch/internal/config"
	"numwatch/internal/detector"
	"numwatch/internal/domain"
	"numwatch/internal/logging"
	"numwatch/internal/persistence"
	"numwatch/internal/transport"
)

// Runtime wires the shared state provider: it owns the bus, the feed store,
// persistence, and the lifecycle of the current feed session.
type Runtime struct {
	mu sync.RWMutex

	Ctx    context.Context
	cancel context.CancelFunc

	Paths  Paths
	Config config.AppConfig

	LogManager *logging.Manager
	Bus        *bus.PubSubBus
	DB         *sql.DB

	ReadingRepo *persistence.ReadingRepo
	WriterQueue *persistence.WriterQueue

	FeedStore *domain.FeedStore

	feedMu      sync.Mutex
	feedCancel  context.CancelFunc
	feedService *detector.Service
}

func Initialize(parent context.Context) (*Runtime, error) {
	paths, err := ResolvePaths()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	rt := &Runtime{
		Ctx:    ctx,
		cancel: cancel,
		Paths:  paths,
		Config: cfg,
	}

	logMgr := logging.NewManager()
	if err := logMgr.Configure(cfg.Logging, paths.LogFile); err != nil {
		_ = logMgr.Close()
		cancel()

		return nil, fmt.Errorf("configure logging: %w", err)
	}
	rt.LogManager = logMgr
	slog.Info("starting numwatch runtime", "version", BuildVersion(), "build_date", BuildDateYMD())

	db, err := persistence.Open(ctx, paths.DBFile)
	if err != nil {
		_ = rt.Close()

		return nil, err
	}
	rt.DB = db
	rt.ReadingRepo = persistence.NewReadingRepo(db)

	if pruned, err := rt.ReadingRepo.PruneOlderThan(ctx, time.Now().Add(-ReadingRetention)); err != nil {
		slog.Warn("prune old readings", "error", err)
	} else if pruned > 0 {
		slog.Info("pruned old readings", "count", pruned)
	}

	store := domain.NewFeedStore()
	if err := domain.LoadStoreFromRepository(ctx, store, rt.ReadingRepo, RecentReadingsLoad); err != nil {
		_ = rt.Close()

		return nil, err
	}
	rt.FeedStore = store

	b := bus.New(logMgr.Logger("bus"))
	rt.Bus = b
	store.Start(ctx, b)

	writerQueue := persistence.NewWriterQueue(logMgr.Logger("persistence"), 256)
	writerQueue.Start(ctx)
	rt.WriterQueue = writerQueue
	domain.StartPersistenceProjection(ctx, b, writerQueue, rt.ReadingRepo)

	rt.StartFeedSession()

	return rt, nil
}

// StartFeedSession opens a fresh connection to the configured server. Any
// previous session is torn down first: sessions never overlap, and a session
// that ends is never revived.
func (r *Runtime) StartFeedSession() {
	r.stopFeedSessionLocked(true)

	r.mu.RLock()
	endpoint := r.Config.Connection.ServerURL
	r.mu.RUnlock()

	r.feedMu.Lock()
	defer r.feedMu.Unlock()

	sessionCtx, cancel := context.WithCancel(r.Ctx)
	tr := transport.NewWSTransport(endpoint)
	svc := detector.NewService(r.LogManager.Logger("detector"), r.Bus, tr, detector.NewCodec())
	svc.Start(sessionCtx)

	r.feedCancel = cancel
	r.feedService = svc
}

// StopFeedSession closes the current connection synchronously. Safe to call
// repeatedly and with no session running.
func (r *Runtime) StopFeedSession() {
	r.stopFeedSessionLocked(false)
}

func (r *Runtime) stopFeedSessionLocked(restarting bool) {
	r.feedMu.Lock()
	cancel := r.feedCancel
	svc := r.feedService
	r.feedCancel = nil
	r.feedService = nil
	r.feedMu.Unlock()

	if svc == nil {
		return
	}
	if cancel != nil {
		cancel()
	}
	svc.Shutdown()
	if restarting {
		// Let the old session publish its terminal status before the new one
		// starts connecting, keeping bus ordering sane for consumers.
		select {
		case <-svc.Done():
		case <-time.After(2 * time.Second):
		}
	}
}

func (r *Runtime) CurrentConfig() config.AppConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Config
}

// SaveAndApplyConfig persists the config and applies it to the running app.
// A changed server URL restarts the feed session against the new endpoint.
func (r *Runtime) SaveAndApplyConfig(cfg config.AppConfig) error {
	cfg.FillMissingDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	previousURL := r.Config.Connection.ServerURL
	if err := config.Save(r.Paths.ConfigFile, cfg); err != nil {
		r.mu.Unlock()

		return err
	}
	r.Config = cfg
	r.mu.Unlock()

	if err := r.LogManager.Configure(cfg.Logging, r.Paths.LogFile); err != nil {
		return err
	}

	if cfg.Connection.ServerURL != previousURL {
		r.StartFeedSession()
	}

	return nil
}

func (r *Runtime) Close() error {
	r.StopFeedSession()
	if r.cancel != nil {
		r.cancel()
	}
	if r.Bus != nil {
		r.Bus.Close()
	}
	if r.DB != nil {
		_ = r.DB.Close()
	}
	if r.LogManager != nil {
		_ = r.LogManager.Close()
	}

	return nil
}
