package docstate

import (
	"github.com/rs/zerolog"

	doclog "github.com/glyphdraw/docstate/log"
	"github.com/glyphdraw/docstate/types"
)

// EntityRecord is one entity's serialized component value inside a per-tick
// batch. The surrounding runtime detects what changed and serializes the live
// component value; the engine only decides whether the record is actually
// different from the one it holds.
type EntityRecord struct {
	ID     types.EntityID
	Record types.Record
}

// History orchestrates per-tick diff accumulation, checkpoint boundaries, and
// the undo/redo stacks. It owns one SnapshotBuilder and delegates all state
// mutation to it.
//
// Three diffs are live at any time: the frame diff (reset every tick, read by
// downstream sync), the diff accumulated since the last checkpoint, and the
// diffs frozen on the undo/redo stacks.
//
// History is single-threaded and fully synchronous. The surrounding scheduler
// guarantees single-writer access; there is no internal locking.
type History struct {
	builder *SnapshotBuilder

	frameDiff       *Diff
	sinceCheckpoint *Diff

	undoStack []*Diff
	redoStack []*Diff

	logger zerolog.Logger
}

// NewHistory returns a history over an empty document.
func NewHistory() *History {
	return &History{
		builder:         NewSnapshotBuilder(),
		frameDiff:       NewDiff(),
		sinceCheckpoint: NewDiff(),
		logger:          zerolog.Nop(),
	}
}

// InjectLogger sets the logger used for history events.
func (h *History) InjectLogger(logger *zerolog.Logger) {
	h.logger = *logger
}

// AddComponents records a batch of freshly added component values for the
// given component kind. Records identical to the stored state are skipped;
// this skip is what keeps diffs minimal.
func (h *History) AddComponents(comp types.ComponentName, batch []EntityRecord) {
	h.upsert(comp, batch)
}

// UpdateComponents records a batch of changed component values for the given
// component kind. A record identical to the stored state is a no-op.
func (h *History) UpdateComponents(comp types.ComponentName, batch []EntityRecord) {
	h.upsert(comp, batch)
}

// upsert is shared by AddComponents and UpdateComponents. The engine is total
// over its inputs: an "update" for a component it has never seen is recorded
// as an addition, and an "add" for an existing component as a change.
func (h *History) upsert(comp types.ComponentName, batch []EntityRecord) {
	for _, entity := range batch {
		if h.builder.RecordIsTheSame(entity.ID, comp, entity.Record) {
			continue
		}
		current, exists := h.builder.Record(entity.ID, comp)
		if exists {
			h.frameDiff.ChangeComponent(entity.ID, comp, current, entity.Record)
			h.sinceCheckpoint.ChangeComponent(entity.ID, comp, current, entity.Record)
		} else {
			h.frameDiff.AddComponent(entity.ID, comp, entity.Record)
			h.sinceCheckpoint.AddComponent(entity.ID, comp, entity.Record)
		}
		h.builder.PutComponent(entity.ID, comp, entity.Record)
	}
}

// RemoveComponents records a batch of component removals for the given
// component kind. Removing a component that is not in the snapshot is a
// silent no-op.
func (h *History) RemoveComponents(comp types.ComponentName, batch []EntityRecord) {
	for _, entity := range batch {
		current, exists := h.builder.Record(entity.ID, comp)
		if !exists {
			continue
		}
		h.frameDiff.RemoveComponent(entity.ID, comp, current)
		h.sinceCheckpoint.RemoveComponent(entity.ID, comp, current)
		h.builder.RemoveComponent(entity.ID, comp)
	}
}

// CreateCheckpoint closes the diff accumulated since the last checkpoint into
// a single undo step. It returns nil when nothing has changed. Committing new
// work invalidates any pending redo.
//
// The returned diff is the one frozen on the undo stack and must be treated as
// read-only by the caller.
func (h *History) CreateCheckpoint() *Diff {
	if h.sinceCheckpoint.IsEmpty() {
		return nil
	}
	committed := h.sinceCheckpoint
	h.undoStack = append(h.undoStack, committed)
	h.sinceCheckpoint = NewDiff()
	h.redoStack = nil

	added, changed, removed := committed.EventCounts()
	doclog.HistoryOp(&h.logger, zerolog.DebugLevel, "checkpoint", added, changed, removed)
	return committed
}

// Undo reverts the most recent checkpoint. It returns nil when there is
// nothing to undo, or when there are uncommitted edits since the last
// checkpoint; in-flight work blocks undo rather than being committed or
// discarded implicitly.
//
// The reversed diff is applied to the snapshot and merged into the frame diff
// so that this tick's sync pass sees the reverted fields as changed.
func (h *History) Undo() *Diff {
	if !h.sinceCheckpoint.IsEmpty() {
		return nil
	}
	if len(h.undoStack) == 0 {
		return nil
	}
	last := len(h.undoStack) - 1
	committed := h.undoStack[last]
	h.undoStack = h.undoStack[:last]
	h.redoStack = append(h.redoStack, committed)

	reversed := committed.Reverse()
	h.builder.ApplyDiff(reversed)
	h.frameDiff.Merge(reversed)

	added, changed, removed := reversed.EventCounts()
	doclog.HistoryOp(&h.logger, zerolog.DebugLevel, "undo", added, changed, removed)
	return reversed
}

// Redo re-applies the most recently undone checkpoint. Uncommitted edits
// forfeit redo availability entirely: the redo stack is cleared and nil is
// returned.
func (h *History) Redo() *Diff {
	if !h.sinceCheckpoint.IsEmpty() {
		h.redoStack = nil
		return nil
	}
	if len(h.redoStack) == 0 {
		return nil
	}
	last := len(h.redoStack) - 1
	committed := h.redoStack[last]
	h.redoStack = h.redoStack[:last]
	h.undoStack = append(h.undoStack, committed)

	h.builder.ApplyDiff(committed)
	h.frameDiff.Merge(committed)

	added, changed, removed := committed.EventCounts()
	doclog.HistoryOp(&h.logger, zerolog.DebugLevel, "redo", added, changed, removed)
	return committed
}

// Reset clears the frame diff, the pending checkpoint diff, and both stacks.
// The runtime calls this at session-start boundaries so stale history is never
// replayed across a fresh load. The snapshot itself is untouched.
func (h *History) Reset() {
	h.frameDiff = NewDiff()
	h.sinceCheckpoint = NewDiff()
	h.undoStack = nil
	h.redoStack = nil
	doclog.HistoryOp(&h.logger, zerolog.DebugLevel, "reset", 0, 0, 0)
}

// FrameDiff returns the diff of everything that changed during the current
// tick. The returned diff is read-only inspected by downstream systems; use
// EndFrame to close out the tick.
func (h *History) FrameDiff() *Diff {
	return h.frameDiff
}

// EndFrame discards the current frame diff and starts a fresh one. Called by
// the sync layer once the frame diff has been pushed downstream.
func (h *History) EndFrame() {
	h.frameDiff = NewDiff()
}

// Snapshot returns a deep copy of the authoritative snapshot.
func (h *History) Snapshot() types.Snapshot {
	return h.builder.Snapshot()
}

// Entities returns a deep copy of the snapshot restricted to the given IDs.
func (h *History) Entities(ids []types.EntityID) types.Snapshot {
	return h.builder.Entities(ids)
}

// ComputeDiff compares the authoritative snapshot against a foreign snapshot,
// typically one loaded from the durable store. The returned diff maps the
// foreign snapshot onto the current one.
func (h *History) ComputeDiff(from types.Snapshot) *Diff {
	return h.builder.ComputeDiff(from)
}

// UndoDepth returns the number of checkpoints available to undo.
func (h *History) UndoDepth() int {
	return len(h.undoStack)
}

// RedoDepth returns the number of checkpoints available to redo.
func (h *History) RedoDepth() int {
	return len(h.redoStack)
}
