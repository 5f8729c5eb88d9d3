package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"ludex/internal/catalog"
	"ludex/internal/config"
	"ludex/internal/logging"
	"ludex/internal/reconcile"
)

// Daemon coordinates periodic catalog scans and the HTTP API, and enforces
// single-instance execution through a lock file.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *catalog.Store
	engine *reconcile.Engine
	api    *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}

	mu         sync.Mutex
	lastReport *reconcile.Report
	lastScan   time.Time
	lastErr    string
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool                    `json:"running"`
	PID           int                     `json:"pid"`
	CatalogDBPath string                  `json:"catalog_db_path"`
	LockFilePath  string                  `json:"lock_file_path"`
	ScanInterval  string                  `json:"scan_interval"`
	LastScanAt    *time.Time              `json:"last_scan_at,omitempty"`
	LastScanError string                  `json:"last_scan_error,omitempty"`
	LastReport    *reconcile.Report       `json:"last_report,omitempty"`
	Catalog       catalog.Stats           `json:"catalog"`
	Database      *catalog.DatabaseHealth `json:"database,omitempty"`
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, engine *reconcile.Engine, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || engine == nil {
		return nil, errors.New("daemon requires config, store, and engine")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "ludexd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "daemon")),
		store:    store,
		engine:   engine,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the instance lock and launches the scan loop and HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another ludex daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})

	if d.api != nil {
		if err := d.api.start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	go d.scanLoop(d.ctx)
	d.logger.Info("daemon started",
		slog.String("lock", d.lockPath),
		slog.Duration("interval", d.cfg.ScanInterval()),
	)
	return nil
}

// Stop halts background scanning and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if d.api != nil {
		d.api.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.Any("error", err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and releases held resources.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

func (d *Daemon) scanLoop(ctx context.Context) {
	defer close(d.done)

	d.runScan(ctx)

	ticker := time.NewTicker(d.cfg.ScanInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runScan(ctx)
		}
	}
}

func (d *Daemon) runScan(ctx context.Context) {
	report, err := d.engine.Scan(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastScan = time.Now().UTC()
	if report != nil {
		d.lastReport = report
	}
	if err != nil {
		d.lastErr = err.Error()
		if !errors.Is(err, context.Canceled) {
			d.logger.Error("scan cycle failed", slog.Any("error", err))
		}
		return
	}
	d.lastErr = ""
}

// ScanNow runs one reconciliation cycle immediately and returns its report.
func (d *Daemon) ScanNow(ctx context.Context) (*reconcile.Report, error) {
	report, err := d.engine.Scan(ctx)

	d.mu.Lock()
	d.lastScan = time.Now().UTC()
	if report != nil {
		d.lastReport = report
	}
	if err != nil {
		d.lastErr = err.Error()
	} else {
		d.lastErr = ""
	}
	d.mu.Unlock()

	return report, err
}

// LastReport returns the most recent scan report, or nil before the first scan.
func (d *Daemon) LastReport() *reconcile.Report {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastReport
}

// Status returns the current daemon status including catalog aggregates.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		CatalogDBPath: d.cfg.DatabasePath(),
		LockFilePath:  d.lockPath,
		ScanInterval:  d.cfg.ScanInterval().String(),
	}

	d.mu.Lock()
	if !d.lastScan.IsZero() {
		at := d.lastScan
		status.LastScanAt = &at
	}
	status.LastScanError = d.lastErr
	status.LastReport = d.lastReport
	d.mu.Unlock()

	if stats, err := d.store.Stats(ctx); err == nil {
		status.Catalog = stats
	}
	if health, err := d.store.CheckHealth(ctx); err == nil {
		status.Database = &health
	}
	return status
}

// APIAddr reports the bound HTTP API address, or "" when the API is disabled
// or not yet listening.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}
