package docstate_test

import (
	"testing"

	"github.com/glyphdraw/docstate/assert"
	"github.com/glyphdraw/docstate/docstate"
	"github.com/glyphdraw/docstate/types"
)

func batch(id types.EntityID, rec types.Record) []docstate.EntityRecord {
	return []docstate.EntityRecord{{ID: id, Record: rec}}
}

func TestCheckpointUndoRedoRoundTrip(t *testing.T) {
	h := docstate.NewHistory()

	h.AddComponents("Block", batch("e1", types.Record{"left": float64(0)}))
	assert.NotNil(t, h.CreateCheckpoint())

	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(5)}))
	assert.NotNil(t, h.CreateCheckpoint())
	afterEdit := h.Snapshot()

	assert.NotNil(t, h.Undo())
	rec, ok := h.Snapshot().Record("e1", "Block")
	assert.True(t, ok)
	assert.Equal(t, rec["left"], float64(0))

	assert.NotNil(t, h.Redo())
	rec, ok = h.Snapshot().Record("e1", "Block")
	assert.True(t, ok)
	assert.Equal(t, rec["left"], float64(5))

	assert.DeepEqual(t, afterEdit, h.Snapshot())
}

func TestCheckpointWithNoChangesReturnsNil(t *testing.T) {
	h := docstate.NewHistory()
	assert.Nil(t, h.CreateCheckpoint())

	h.AddComponents("Block", batch("e1", types.Record{"left": float64(0)}))
	assert.NotNil(t, h.CreateCheckpoint())
	assert.Nil(t, h.CreateCheckpoint())
}

func TestUncommittedEditsBlockUndo(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": float64(0)}))
	assert.NotNil(t, h.CreateCheckpoint())

	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(5)}))

	assert.Nil(t, h.Undo())
	assert.Equal(t, h.UndoDepth(), 1)

	// Committing the in-flight edit unblocks undo.
	assert.NotNil(t, h.CreateCheckpoint())
	assert.NotNil(t, h.Undo())
}

func TestNewCheckpointInvalidatesRedo(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": float64(0)}))
	assert.NotNil(t, h.CreateCheckpoint())

	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(5)}))
	assert.NotNil(t, h.CreateCheckpoint())

	assert.NotNil(t, h.Undo())
	assert.Equal(t, h.RedoDepth(), 1)

	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(7)}))
	assert.NotNil(t, h.CreateCheckpoint())

	assert.Equal(t, h.RedoDepth(), 0)
	assert.Nil(t, h.Redo())
}

func TestUncommittedEditsForfeitRedo(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": float64(0)}))
	assert.NotNil(t, h.CreateCheckpoint())
	assert.NotNil(t, h.Undo())
	assert.Equal(t, h.RedoDepth(), 1)

	h.AddComponents("Block", batch("e2", types.Record{"left": float64(1)}))

	assert.Nil(t, h.Redo())
	assert.Equal(t, h.RedoDepth(), 0)
}

func TestIdenticalUpdateIsSkipped(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": float64(3)}))
	assert.NotNil(t, h.CreateCheckpoint())
	h.EndFrame()

	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(3)}))
	assert.Nil(t, h.CreateCheckpoint())
	assert.True(t, h.FrameDiff().IsEmpty())
}

func TestTinyFloatDifferenceRegistersAsChange(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": 10.0000000001}))
	assert.NotNil(t, h.CreateCheckpoint())

	h.UpdateComponents("Block", batch("e1", types.Record{"left": 10.0000000002}))
	assert.NotNil(t, h.CreateCheckpoint())
}

func TestUndoMergesRevertedFieldsIntoFrameDiff(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": float64(0)}))
	assert.NotNil(t, h.CreateCheckpoint())

	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(5)}))
	assert.NotNil(t, h.CreateCheckpoint())
	h.EndFrame()

	assert.NotNil(t, h.Undo())
	to, ok := h.FrameDiff().ChangedTo().Record("e1", "Block")
	assert.True(t, ok, "the sync layer must see reverted fields as changed this tick")
	assert.Equal(t, to["left"], float64(0))
}

func TestAddUpdateRemoveWithinOneCheckpointLeavesNoTrace(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": float64(0)}))
	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(4)}))
	h.RemoveComponents("Block", batch("e1", nil))

	assert.Nil(t, h.CreateCheckpoint())
	assert.True(t, h.Snapshot().IsEmpty())
}

func TestRemovingUnknownComponentIsANoOp(t *testing.T) {
	h := docstate.NewHistory()
	h.RemoveComponents("Block", batch("ghost", nil))
	assert.True(t, h.FrameDiff().IsEmpty())
	assert.Nil(t, h.CreateCheckpoint())
}

func TestUndoRestoresRemovedComponents(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": float64(7)}))
	assert.NotNil(t, h.CreateCheckpoint())

	h.RemoveComponents("Block", batch("e1", nil))
	assert.NotNil(t, h.CreateCheckpoint())
	assert.True(t, h.Snapshot().IsEmpty())

	assert.NotNil(t, h.Undo())
	rec, ok := h.Snapshot().Record("e1", "Block")
	assert.True(t, ok)
	assert.Equal(t, rec["left"], float64(7))
}

func TestUndoOfChangeThenRemoveRestoresPreCheckpointValue(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": float64(0)}))
	assert.NotNil(t, h.CreateCheckpoint())

	// The component is changed and then removed within one checkpoint
	// window; undo must bring back the pre-checkpoint value, not the
	// short-lived changed one.
	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(5)}))
	h.RemoveComponents("Block", batch("e1", nil))
	assert.NotNil(t, h.CreateCheckpoint())
	assert.True(t, h.Snapshot().IsEmpty())

	assert.NotNil(t, h.Undo())
	rec, ok := h.Snapshot().Record("e1", "Block")
	assert.True(t, ok)
	assert.Equal(t, rec["left"], float64(0))
}

func TestResetClearsDiffsAndStacksButKeepsSnapshot(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": float64(1)}))
	assert.NotNil(t, h.CreateCheckpoint())
	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(2)}))

	h.Reset()

	assert.Equal(t, h.UndoDepth(), 0)
	assert.Equal(t, h.RedoDepth(), 0)
	assert.True(t, h.FrameDiff().IsEmpty())
	assert.Nil(t, h.Undo())
	rec, ok := h.Snapshot().Record("e1", "Block")
	assert.True(t, ok)
	assert.Equal(t, rec["left"], float64(2))
}

func TestCheckpointGroupsMultipleTicksIntoOneUndoStep(t *testing.T) {
	h := docstate.NewHistory()
	h.AddComponents("Block", batch("e1", types.Record{"left": float64(0)}))
	h.EndFrame()
	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(1)}))
	h.EndFrame()
	h.UpdateComponents("Block", batch("e1", types.Record{"left": float64(2)}))
	h.EndFrame()

	assert.NotNil(t, h.CreateCheckpoint())
	assert.Equal(t, h.UndoDepth(), 1)

	assert.NotNil(t, h.Undo())
	assert.True(t, h.Snapshot().IsEmpty())
}
