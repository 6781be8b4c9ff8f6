package jsonfile

import (
	"context"
	"fmt"

	domevent "ibook/internal/domain/event"
	"ibook/internal/domain/inventory"
	"ibook/internal/observability"
	"ibook/internal/observability/logctx"
)

// Worker autosaves the catalog: it subscribes to every catalog change
// event and writes a fresh snapshot after each one. The snapshot is taken
// from the repository at handling time, so coalesced or reordered events
// still produce a current file.
type Worker struct {
	repo  inventory.Repository
	store *Store

	log         observability.Logger
	saveCounter observability.Counter
}

func NewWorker(repo inventory.Repository, store *Store, tel observability.Observability) *Worker {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Worker{
		repo:        repo,
		store:       store,
		log:         tel.Logger().With(observability.F("component", "persistence_worker")),
		saveCounter: tel.Metrics().Counter(observability.MSnapshotSaves),
	}
}

// Register subscribes the worker to all catalog change events.
func (w *Worker) Register(subscriber domevent.Subscriber) {
	for _, name := range inventory.EventNames() {
		subscriber.Subscribe(name, w.handle)
	}
}

func (w *Worker) handle(ctx context.Context, e domevent.Event) error {
	logger := logctx.FromOr(ctx, w.log)

	products, err := w.repo.Snapshot(ctx)
	if err != nil {
		w.saveCounter.Add(1, observability.L("outcome", "error"))
		return fmt.Errorf("jsonfile: snapshot for autosave: %w", err)
	}
	if err := w.store.Save(products); err != nil {
		w.saveCounter.Add(1, observability.L("outcome", "error"))
		return err
	}

	w.saveCounter.Add(1, observability.L("outcome", "success"))
	logger.Debug("snapshot_saved",
		observability.F("event", e.EventName()),
		observability.F("path", w.store.Path()),
		observability.F("products", len(products)),
	)
	return nil
}
