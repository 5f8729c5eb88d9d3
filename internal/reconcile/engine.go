package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"

	"ludex/internal/catalog"
	"ludex/internal/config"
	"ludex/internal/identify"
	"ludex/internal/logging"
	"ludex/internal/scanner"
)

// scanLockRetryInterval is how often a blocked scan re-attempts the lock.
const scanLockRetryInterval = 250 * time.Millisecond

// Engine reconciles the catalog with the current filesystem listing. Each
// scan cycle runs the index pass and then the integrity pass; per-file
// failures are contained and reported, never escalated to abort the batch.
type Engine struct {
	cfg    *config.Config
	store  *catalog.Store
	lister scanner.Lister
	logger *slog.Logger
}

// NewEngine constructs a reconciliation engine. Logging and configuration are
// injected explicitly; there is no ambient global state.
func NewEngine(cfg *config.Config, store *catalog.Store, lister scanner.Lister, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{
		cfg:    cfg,
		store:  store,
		lister: lister,
		logger: logger.With(slog.String("component", "reconcile")),
	}
}

// Scan runs one full reconciliation cycle: list the library root, index every
// discovered file, then soft-delete active entries absent from the listing.
// Concurrent scans are serialized through a file lock shared with other
// processes; a failed listing aborts the cycle before any mutation.
func (e *Engine) Scan(ctx context.Context) (*Report, error) {
	if err := e.cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(e.cfg.ScanLockPath())
	locked, err := lock.TryLockContext(ctx, scanLockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquire scan lock: %w", err)
	}
	if !locked {
		return nil, errors.New("scan lock unavailable")
	}
	defer func() {
		_ = lock.Unlock()
	}()

	descriptors, err := e.lister.List(e.cfg.Paths.LibraryDir)
	if err != nil {
		return nil, err
	}

	report := newReport()
	logger := e.logger.With(slog.String("scan_id", report.ScanID))
	logger.Info("scan started",
		slog.String("root", e.cfg.Paths.LibraryDir),
		slog.Int("files", len(descriptors)),
	)

	e.indexInto(ctx, logger, descriptors, report)

	active, err := e.store.ListActive(ctx)
	if err != nil {
		report.finish()
		return report, fmt.Errorf("list active entries: %w", err)
	}
	e.integrityInto(ctx, logger, descriptors, active, report)

	report.finish()
	logger.Info("scan finished", slog.String("summary", report.Summary()))
	return report, nil
}

// IndexFiles classifies every descriptor against the store and applies the
// state-appropriate mutation. Files are processed independently: a parse
// failure or store write failure affects only its own file.
func (e *Engine) IndexFiles(ctx context.Context, descriptors []scanner.FileDescriptor) *Report {
	report := newReport()
	e.indexInto(ctx, e.logger.With(slog.String("scan_id", report.ScanID)), descriptors, report)
	return report.finish()
}

// IntegrityCheck soft-deletes every active entry whose path has no descriptor
// in the current listing. Rows are never hard-deleted; a later index pass
// restores an entry whose file reappears at the same path.
func (e *Engine) IntegrityCheck(ctx context.Context, descriptors []scanner.FileDescriptor, active []*catalog.Entry) *Report {
	report := newReport()
	e.integrityInto(ctx, e.logger.With(slog.String("scan_id", report.ScanID)), descriptors, active, report)
	return report.finish()
}

func (e *Engine) indexInto(ctx context.Context, logger *slog.Logger, descriptors []scanner.FileDescriptor, report *Report) {
	for _, desc := range descriptors {
		if err := e.indexOne(ctx, logger, desc, report); err != nil {
			report.addFailure(desc.Name, err)
			logger.Warn("file skipped",
				slog.String("path", desc.Name),
				slog.Any("error", err),
			)
		}
	}
}

func (e *Engine) indexOne(ctx context.Context, logger *slog.Logger, desc scanner.FileDescriptor, report *Report) error {
	meta, err := identify.Parse(desc.Name)
	if err != nil {
		return err
	}

	existing, err := e.store.FindByPath(ctx, desc.Name)
	if err != nil {
		return err
	}

	verdict := Classify(existing, desc.Size)
	switch verdict {
	case VerdictNew:
		entry := newEntry(meta, desc)
		created, err := e.store.Create(ctx, &entry)
		if err != nil {
			return err
		}
		report.Created++
		logger.Info("entry created",
			slog.String("path", desc.Name),
			slog.String("title", meta.Title),
			slog.Int64("id", created.ID),
		)

	case VerdictUnchanged:
		report.Unchanged++

	case VerdictRestorable:
		restored, err := e.store.Restore(ctx, existing.ID)
		if err != nil {
			return err
		}
		merged := mergeEntry(*restored, meta, desc)
		if err := e.store.Update(ctx, &merged); err != nil {
			return err
		}
		report.Restored++
		logger.Info("entry restored",
			slog.String("path", desc.Name),
			slog.Int64("id", restored.ID),
		)

	case VerdictAltered:
		merged := mergeEntry(*existing, meta, desc)
		if err := e.store.Update(ctx, &merged); err != nil {
			return err
		}
		report.Updated++
		logger.Info("entry updated",
			slog.String("path", desc.Name),
			slog.Int64("id", existing.ID),
			slog.Int64("old_size", existing.Size),
			slog.Int64("new_size", desc.Size),
		)

	default:
		return fmt.Errorf("unhandled verdict %v", verdict)
	}
	return nil
}

func (e *Engine) integrityInto(ctx context.Context, logger *slog.Logger, descriptors []scanner.FileDescriptor, active []*catalog.Entry, report *Report) {
	present := make(map[string]struct{}, len(descriptors))
	for _, desc := range descriptors {
		present[desc.Name] = struct{}{}
	}

	for _, entry := range active {
		if _, ok := present[entry.FilePath]; ok {
			continue
		}
		if err := e.store.SoftDelete(ctx, entry.ID); err != nil {
			report.addFailure(entry.FilePath, err)
			logger.Warn("soft delete failed",
				slog.String("path", entry.FilePath),
				slog.Any("error", err),
			)
			continue
		}
		report.Removed++
		logger.Info("entry soft-deleted",
			slog.String("path", entry.FilePath),
			slog.Int64("id", entry.ID),
		)
	}
}

// newEntry builds a fresh catalog entry from parsed metadata.
func newEntry(meta identify.Metadata, desc scanner.FileDescriptor) catalog.Entry {
	return catalog.Entry{
		FilePath:    desc.Name,
		Title:       meta.Title,
		Version:     meta.Version,
		ReleaseDate: meta.ReleaseDate,
		Size:        desc.Size,
		EarlyAccess: meta.EarlyAccess,
	}
}

// mergeEntry returns a copy of existing with every mutable field overwritten
// from the candidate and the soft-delete marker cleared. Returning a new
// value keeps per-file processing free of shared mutable state.
func mergeEntry(existing catalog.Entry, meta identify.Metadata, desc scanner.FileDescriptor) catalog.Entry {
	merged := existing
	merged.Title = meta.Title
	merged.Version = meta.Version
	merged.ReleaseDate = meta.ReleaseDate
	merged.Size = desc.Size
	merged.EarlyAccess = meta.EarlyAccess
	merged.DeletedAt = nil
	return merged
}
