package daemon

import (
	"context"
	"testing"

	"ludex/internal/config"
	"ludex/internal/reconcile"
	"ludex/internal/scanner"
	"ludex/internal/testsupport"
)

func newTestDaemon(t *testing.T, opts ...testsupport.ConfigOption) (*Daemon, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	store := testsupport.MustOpenStore(t, cfg)
	engine := reconcile.NewEngine(cfg, store, scanner.NewFromConfig(cfg), nil)

	d, err := New(cfg, store, engine, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d, cfg
}

func TestDaemonStartAndStop(t *testing.T) {
	d, _ := newTestDaemon(t, testsupport.WithMockFiles())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !d.Status(ctx).Running {
		t.Fatal("expected running status")
	}
	if d.APIAddr() == "" {
		t.Fatal("expected api server to be listening")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected stopped status")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	first, cfg := newTestDaemon(t, testsupport.WithMockFiles())
	ctx := context.Background()

	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop()

	store := testsupport.MustOpenStore(t, cfg)
	engine := reconcile.NewEngine(cfg, store, scanner.NewFromConfig(cfg), nil)
	second, err := New(cfg, store, engine, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be rejected")
	}
}

func TestDaemonScanNowRecordsReport(t *testing.T) {
	d, _ := newTestDaemon(t, testsupport.WithMockFiles())
	ctx := context.Background()

	report, err := d.ScanNow(ctx)
	if err != nil {
		t.Fatalf("ScanNow failed: %v", err)
	}
	if report.Created == 0 {
		t.Fatalf("expected created entries, got: %s", report.Summary())
	}

	status := d.Status(ctx)
	if status.LastScanAt == nil {
		t.Fatal("expected last scan timestamp")
	}
	if status.LastReport == nil || status.LastReport.ScanID != report.ScanID {
		t.Fatal("expected status to carry the last report")
	}
	if status.Catalog.Active == 0 {
		t.Fatalf("expected active catalog entries, got %+v", status.Catalog)
	}
}

func TestDaemonStatusBeforeFirstScan(t *testing.T) {
	d, cfg := newTestDaemon(t)
	status := d.Status(context.Background())

	if status.Running {
		t.Fatal("expected stopped status")
	}
	if status.LastScanAt != nil || status.LastReport != nil {
		t.Fatal("expected no scan history")
	}
	if status.CatalogDBPath != cfg.DatabasePath() {
		t.Fatalf("unexpected db path %q", status.CatalogDBPath)
	}
}
