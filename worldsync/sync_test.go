package worldsync_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/glyphdraw/docstate/assert"
	"github.com/glyphdraw/docstate/component"
	"github.com/glyphdraw/docstate/docstate"
	"github.com/glyphdraw/docstate/docstore"
	"github.com/glyphdraw/docstate/types"
	"github.com/glyphdraw/docstate/worldsync"
)

type Block struct {
	Left float64
	Top  float64
}

func (Block) Name() string {
	return "Block"
}

// fakeWorld records replayed diffs the way the live entity runtime would.
type fakeWorld struct {
	state types.Snapshot
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{state: types.NewSnapshot()}
}

func (w *fakeWorld) PutComponent(id types.EntityID, comp types.ComponentName, rec types.Record) {
	w.state.Set(id, comp, rec)
}

func (w *fakeWorld) DeleteComponent(id types.EntityID, comp types.ComponentName) {
	w.state.Delete(id, comp)
}

type fixture struct {
	syncer    *worldsync.Syncer
	store     *docstore.Store
	world     *fakeWorld
	blockComp types.ComponentMetadata
}

func newFixture(t *testing.T) *fixture {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
		DB:   0, // use default DB
	})
	store := docstore.NewStore(client)

	registry := component.NewRegistry(component.WithSchemaStorage(&store.Schemas))
	blockComp, err := component.NewComponentMetadata[Block]()
	assert.NilError(t, err)
	assert.NilError(t, registry.Register(blockComp))

	world := newFakeWorld()
	syncer := worldsync.New(
		registry,
		docstate.NewHistory(),
		worldsync.WithStore(store),
		worldsync.WithReceiver(world),
	)
	return &fixture{
		syncer:    syncer,
		store:     store,
		world:     world,
		blockComp: blockComp,
	}
}

func TestFrameDiffIsFannedOutToReceivers(t *testing.T) {
	f := newFixture(t)

	f.syncer.StartTick(1)
	err := f.syncer.AddComponents(f.blockComp, map[types.EntityID]any{
		"e1": Block{Left: 10, Top: 20},
	})
	assert.NilError(t, err)
	f.syncer.EndTick()

	rec, ok := f.world.state.Record("e1", "Block")
	assert.True(t, ok)
	assert.True(t, rec.Equal(types.Record{"Left": float64(10), "Top": float64(20)}))
}

func TestCheckpointFlushesToStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.syncer.StartTick(1)
	err := f.syncer.AddComponents(f.blockComp, map[types.EntityID]any{
		"e1": Block{Left: 1},
	})
	assert.NilError(t, err)
	f.syncer.EndTick()

	committed, err := f.syncer.CreateCheckpoint(ctx)
	assert.NilError(t, err)
	assert.NotNil(t, committed)

	loaded, err := f.store.LoadSnapshot(ctx)
	assert.NilError(t, err)
	rec, ok := loaded.Record("e1", "Block")
	assert.True(t, ok)
	assert.True(t, rec.Equal(types.Record{"Left": float64(1), "Top": float64(0)}))
}

func TestCheckpointWithoutChangesIsANoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	committed, err := f.syncer.CreateCheckpoint(ctx)
	assert.NilError(t, err)
	assert.Nil(t, committed)

	tick, err := f.store.CommittedTick(ctx)
	assert.NilError(t, err)
	assert.Equal(t, tick, uint64(0))
}

func TestUndoRevertsStoreAndReceivers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.syncer.StartTick(1)
	assert.NilError(t, f.syncer.AddComponents(f.blockComp, map[types.EntityID]any{
		"e1": Block{Left: 0},
	}))
	f.syncer.EndTick()
	_, err := f.syncer.CreateCheckpoint(ctx)
	assert.NilError(t, err)

	f.syncer.StartTick(2)
	assert.NilError(t, f.syncer.UpdateComponents(f.blockComp, map[types.EntityID]any{
		"e1": Block{Left: 5},
	}))
	f.syncer.EndTick()
	_, err = f.syncer.CreateCheckpoint(ctx)
	assert.NilError(t, err)

	f.syncer.StartTick(3)
	reversed, err := f.syncer.Undo(ctx)
	assert.NilError(t, err)
	assert.NotNil(t, reversed)
	f.syncer.EndTick()

	// Live entities saw the reverted value through the frame diff.
	rec, ok := f.world.state.Record("e1", "Block")
	assert.True(t, ok)
	assert.Equal(t, rec["Left"], float64(0))

	// The store was rolled back too.
	loaded, err := f.store.LoadSnapshot(ctx)
	assert.NilError(t, err)
	rec, ok = loaded.Record("e1", "Block")
	assert.True(t, ok)
	assert.Equal(t, rec["Left"], float64(0))

	// And redo brings the edit back everywhere.
	f.syncer.StartTick(4)
	committed, err := f.syncer.Redo(ctx)
	assert.NilError(t, err)
	assert.NotNil(t, committed)
	f.syncer.EndTick()

	rec, ok = f.world.state.Record("e1", "Block")
	assert.True(t, ok)
	assert.Equal(t, rec["Left"], float64(5))
}

func TestRemovalsReachReceiversAndStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.syncer.StartTick(1)
	assert.NilError(t, f.syncer.AddComponents(f.blockComp, map[types.EntityID]any{
		"e1": Block{Left: 1},
	}))
	f.syncer.EndTick()
	_, err := f.syncer.CreateCheckpoint(ctx)
	assert.NilError(t, err)

	f.syncer.StartTick(2)
	f.syncer.RemoveComponents(f.blockComp, []types.EntityID{"e1"})
	f.syncer.EndTick()
	_, err = f.syncer.CreateCheckpoint(ctx)
	assert.NilError(t, err)

	assert.True(t, f.world.state.IsEmpty())
	loaded, err := f.store.LoadSnapshot(ctx)
	assert.NilError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.syncer.StartTick(1)
	assert.NilError(t, f.syncer.AddComponents(f.blockComp, map[types.EntityID]any{
		"e1": Block{Left: 3, Top: 4},
		"e2": Block{Left: 7},
	}))
	f.syncer.EndTick()

	// Save persists uncommitted live state by reconciliation, without going
	// through a checkpoint.
	assert.NilError(t, f.syncer.Save(ctx))

	snapshot, reconcile, err := f.syncer.Load(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, snapshot, f.syncer.History().Snapshot())
	assert.True(t, reconcile.IsEmpty())
}

func TestTickWrapResetsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.syncer.StartTick(1)
	assert.NilError(t, f.syncer.AddComponents(f.blockComp, map[types.EntityID]any{
		"e1": Block{Left: 1},
	}))
	f.syncer.EndTick()
	_, err := f.syncer.CreateCheckpoint(ctx)
	assert.NilError(t, err)
	assert.Equal(t, f.syncer.History().UndoDepth(), 1)

	// A tick counter wrapping back to 1 is a session-start boundary.
	f.syncer.StartTick(1)
	assert.Equal(t, f.syncer.History().UndoDepth(), 0)
}
