package reftable

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ifgsrl/gestionale/internal/quotemetrics"
	"github.com/ifgsrl/gestionale/internal/reftable/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

// Holder publishes the current reference snapshot. Reload builds a new
// Store and swaps it in; readers keep the snapshot they already hold.
type Holder struct {
	log      *zap.Logger
	source   Source
	schema   Schema
	recorder quotemetrics.Recorder
	debounce time.Duration

	current atomic.Pointer[Store]
	mu      sync.Mutex
}

func NewHolder(source Source, schema Schema, recorder quotemetrics.Recorder, log *zap.Logger) *Holder {
	if log == nil {
		log = zap.NewNop()
	}
	if recorder == nil {
		recorder = quotemetrics.Noop()
	}
	h := &Holder{
		log:      log.Named("reftable.holder"),
		source:   source,
		schema:   schema,
		recorder: recorder,
		debounce: defaultDebounce,
	}
	h.current.Store(Empty())
	return h
}

// Store returns the current snapshot.
func (h *Holder) Store() *Store {
	return h.current.Load()
}

// Reload reads the source and replaces the snapshot. When the source cannot
// be read the previous snapshot stays in place.
func (h *Holder) Reload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx, span := otel.Tracer("gestionale/reftable").Start(ctx, "reftable.Reload")
	defer span.End()
	span.SetAttributes(attribute.String("reftable.source", h.source.Name()))

	raws, warnings, err := h.source.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.recorder.ReferenceReload("failed")
		h.log.Warn("reference tables not reloaded",
			zap.String("source", h.source.Name()),
			zap.Error(err),
		)
		return fmt.Errorf("reload reference tables: %w", err)
	}

	store, buildWarnings := NewStore(h.schema, raws...)
	warnings = append(warnings, buildWarnings...)
	for _, w := range warnings {
		h.log.Warn("reference table gap",
			zap.String("table", string(w.Table)),
			zap.String("field", w.Field),
			zap.String("reason", w.Reason),
		)
	}

	h.current.Store(store)
	h.recorder.ReferenceReload("ok")

	counts := store.Counts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, string(name))
	}
	sort.Strings(names)
	fields := make([]zap.Field, 0, len(names)+1)
	fields = append(fields, zap.String("source", h.source.Name()))
	for _, name := range names {
		n := counts[domain.Table(name)]
		h.recorder.ReferenceRows(name, n)
		span.SetAttributes(attribute.Int("reftable.rows."+name, n))
		fields = append(fields, zap.Int(name, n))
	}
	h.log.Info("reference tables loaded", fields...)
	return nil
}

// Watch reloads whenever path changes, until ctx is done. Bursts of events
// are coalesced. The parent directory is watched so that editors replacing
// the file are noticed.
func (h *Holder) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		fire := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.AfterFunc(h.debounce, func() {
						select {
						case fire <- struct{}{}:
						default:
						}
					})
				} else {
					timer.Reset(h.debounce)
				}
			case <-fire:
				if err := h.Reload(ctx); err == nil {
					h.log.Info("reference workbook changed", zap.String("path", target))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				h.log.Warn("reference watch error", zap.Error(err))
			}
		}
	}()
	return nil
}
