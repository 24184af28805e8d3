// Package worldsync is the glue between the live entity runtime and the
// document engine. Each tick the runtime reports which component values were
// added, changed, or removed; the syncer serializes them into flat records,
// feeds them to the history, fans the resulting frame diff out to registered
// receivers, and forwards committed diffs to the durable store.
package worldsync

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/glyphdraw/docstate/component"
	"github.com/glyphdraw/docstate/docstate"
	"github.com/glyphdraw/docstate/docstore"
	doclog "github.com/glyphdraw/docstate/log"
	"github.com/glyphdraw/docstate/statsd"
	"github.com/glyphdraw/docstate/types"
)

// Receiver consumes replayed diffs, typically to push reverted or redone
// values back onto live entities and into rendering state.
type Receiver interface {
	PutComponent(id types.EntityID, comp types.ComponentName, rec types.Record)
	DeleteComponent(id types.EntityID, comp types.ComponentName)
}

// Syncer owns the component registry and the history for one document.
// It is single-threaded, like the engine it drives.
type Syncer struct {
	registry  *component.Registry
	history   *docstate.History
	store     *docstore.Store
	receivers []Receiver
	logger    zerolog.Logger
	tick      uint64
}

// Option configures a Syncer at construction time.
type Option func(*Syncer)

// WithStore attaches a durable store; committed diffs are flushed to it.
func WithStore(store *docstore.Store) Option {
	return func(s *Syncer) { s.store = store }
}

// WithReceiver registers a consumer for replayed diffs.
func WithReceiver(r Receiver) Option {
	return func(s *Syncer) { s.receivers = append(s.receivers, r) }
}

// WithLogger sets the logger for the syncer and the underlying history.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Syncer) { s.logger = *logger }
}

// New returns a syncer over the given registry and history.
func New(registry *component.Registry, history *docstate.History, opts ...Option) *Syncer {
	s := &Syncer{
		registry: registry,
		history:  history,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	history.InjectLogger(&s.logger)
	return s
}

// StartTick begins a tick. A tick counter that wraps back to 1 marks a
// session-start boundary; accumulated history is reset so stale diffs are
// never replayed across a fresh load.
func (s *Syncer) StartTick(tick uint64) {
	if tick == 1 {
		s.history.Reset()
	}
	s.tick = tick
}

// AddComponents reports freshly added live component values for one kind.
func (s *Syncer) AddComponents(comp types.ComponentMetadata, values map[types.EntityID]any) error {
	batch, err := s.serializeBatch(comp, values)
	if err != nil {
		return err
	}
	s.history.AddComponents(types.ComponentName(comp.Name()), batch)
	return nil
}

// UpdateComponents reports changed live component values for one kind.
// Values that serialize to the already-stored record are skipped by the
// engine, so reporting unchanged components is harmless.
func (s *Syncer) UpdateComponents(comp types.ComponentMetadata, values map[types.EntityID]any) error {
	batch, err := s.serializeBatch(comp, values)
	if err != nil {
		return err
	}
	s.history.UpdateComponents(types.ComponentName(comp.Name()), batch)
	return nil
}

// RemoveComponents reports removed components for one kind.
func (s *Syncer) RemoveComponents(comp types.ComponentMetadata, ids []types.EntityID) {
	batch := make([]docstate.EntityRecord, len(ids))
	for i, id := range ids {
		batch[i] = docstate.EntityRecord{ID: id}
	}
	s.history.RemoveComponents(types.ComponentName(comp.Name()), batch)
}

// EndTick closes out the current tick: the frame diff is fanned out to all
// receivers and then discarded.
func (s *Syncer) EndTick() {
	frame := s.history.FrameDiff()
	if !frame.IsEmpty() {
		s.replay(frame)
	}
	s.history.EndFrame()
}

// CreateCheckpoint closes the pending diff into one undo step and flushes it
// to the durable store. It returns nil when nothing has changed since the
// last checkpoint.
func (s *Syncer) CreateCheckpoint(ctx context.Context) (*docstate.Diff, error) {
	start := time.Now()
	committed := s.history.CreateCheckpoint()
	if committed == nil {
		return nil, nil
	}
	if err := s.persist(ctx, committed); err != nil {
		return nil, err
	}
	statsd.EmitCheckpointStat(start, "commit")
	return committed, nil
}

// Undo reverts the most recent checkpoint and persists the reverted values.
// The reverted fields reach receivers through the frame diff at EndTick.
// It returns nil when undo is blocked or the undo stack is empty.
func (s *Syncer) Undo(ctx context.Context) (*docstate.Diff, error) {
	reversed := s.history.Undo()
	if reversed == nil {
		return nil, nil
	}
	if err := s.persist(ctx, reversed); err != nil {
		return nil, err
	}
	return reversed, nil
}

// Redo re-applies the most recently undone checkpoint and persists it.
func (s *Syncer) Redo(ctx context.Context) (*docstate.Diff, error) {
	committed := s.history.Redo()
	if committed == nil {
		return nil, nil
	}
	if err := s.persist(ctx, committed); err != nil {
		return nil, err
	}
	return committed, nil
}

// Load rebuilds the persisted snapshot from the store and returns it together
// with the reconciliation diff: applied to the loaded snapshot, the diff
// yields the current live state. A fresh runtime replays the loaded snapshot
// onto its entities; a runtime with live edits inspects the diff instead.
func (s *Syncer) Load(ctx context.Context) (types.Snapshot, *docstate.Diff, error) {
	if s.store == nil {
		return types.NewSnapshot(), docstate.NewDiff(), nil
	}
	snapshot, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	doclog.Snapshot(&s.logger, zerolog.DebugLevel, "load", snapshot)
	return snapshot, s.history.ComputeDiff(snapshot), nil
}

// Save reconciles the durable store with the current live state: everything
// the store is missing or holds stale is flushed in one transaction.
func (s *Syncer) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	stored, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	diff := s.history.ComputeDiff(stored)
	if diff.IsEmpty() {
		return nil
	}
	return s.store.ApplyDiff(ctx, diff)
}

// History exposes the underlying history for read-only queries
// (Snapshot, Entities, depths).
func (s *Syncer) History() *docstate.History {
	return s.history
}

// Registry exposes the component table handed in at construction.
func (s *Syncer) Registry() *component.Registry {
	return s.registry
}

func (s *Syncer) persist(ctx context.Context, diff *docstate.Diff) error {
	if s.store == nil {
		return nil
	}
	return s.store.ApplyDiff(ctx, diff)
}

func (s *Syncer) replay(diff *docstate.Diff) {
	puts := diff.Added()
	for id, comps := range diff.ChangedTo() {
		for comp, rec := range comps {
			puts.Set(id, comp, rec)
		}
	}
	removed := diff.Removed()
	for _, receiver := range s.receivers {
		for id, comps := range puts {
			for comp, rec := range comps {
				receiver.PutComponent(id, comp, rec.Copy())
			}
		}
		for id, comps := range removed {
			for comp := range comps {
				receiver.DeleteComponent(id, comp)
			}
		}
	}
}

func (s *Syncer) serializeBatch(
	comp types.ComponentMetadata, values map[types.EntityID]any,
) ([]docstate.EntityRecord, error) {
	ids := make([]types.EntityID, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	batch := make([]docstate.EntityRecord, 0, len(values))
	for _, id := range ids {
		rec, err := comp.ToRecord(values[id])
		if err != nil {
			return nil, err
		}
		batch = append(batch, docstate.EntityRecord{ID: id, Record: rec})
	}
	return batch, nil
}
