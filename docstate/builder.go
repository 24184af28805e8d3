package docstate

import (
	"github.com/glyphdraw/docstate/types"
)

// SnapshotBuilder holds the single authoritative materialized snapshot of a
// document. It is exclusively owned by a History; all mutation goes through
// PutComponent, RemoveComponent, and ApplyDiff, which maintain the snapshot
// invariant that an entity entry always has at least one component.
type SnapshotBuilder struct {
	snapshot types.Snapshot
}

// NewSnapshotBuilder returns a builder over an empty snapshot.
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{
		snapshot: types.NewSnapshot(),
	}
}

// PutComponent writes the given record into the snapshot. The builder stores
// its own copy; the caller keeps ownership of rec.
func (b *SnapshotBuilder) PutComponent(id types.EntityID, comp types.ComponentName, rec types.Record) {
	b.snapshot.Set(id, comp, rec.Copy())
}

// RemoveComponent removes the record for the given entity and component kind.
// Removing a component that is not in the snapshot is a silent no-op.
func (b *SnapshotBuilder) RemoveComponent(id types.EntityID, comp types.ComponentName) {
	b.snapshot.Delete(id, comp)
}

// RecordIsTheSame compares a candidate record field-by-field against the
// record currently in the snapshot. Numeric arrays compare element-wise,
// everything else by strict equality; there is no floating point tolerance.
// A candidate for a component that is not in the snapshot is never the same.
func (b *SnapshotBuilder) RecordIsTheSame(id types.EntityID, comp types.ComponentName, rec types.Record) bool {
	current, ok := b.snapshot.Record(id, comp)
	if !ok {
		return false
	}
	return current.Equal(rec)
}

// Record returns a copy of the record currently stored for the given entity
// and component kind.
func (b *SnapshotBuilder) Record(id types.EntityID, comp types.ComponentName) (types.Record, bool) {
	rec, ok := b.snapshot.Record(id, comp)
	if !ok {
		return nil, false
	}
	return rec.Copy(), true
}

// ApplyDiff applies a diff to the snapshot: added records are put, changed-to
// records are put, removed records are deleted. The diff invariant guarantees
// a key appears in at most one of the three, so ordering between them does not
// matter.
func (b *SnapshotBuilder) ApplyDiff(d *Diff) {
	for id, comps := range d.added {
		for comp, rec := range comps {
			b.PutComponent(id, comp, rec)
		}
	}
	for id, comps := range d.changedTo {
		for comp, rec := range comps {
			b.PutComponent(id, comp, rec)
		}
	}
	for id, comps := range d.removed {
		for comp := range comps {
			b.RemoveComponent(id, comp)
		}
	}
}

// ComputeDiff compares the current snapshot against an arbitrary foreign
// snapshot and returns a diff that, applied to the foreign snapshot, yields
// the current one. Malformed foreign snapshots are tolerated structurally:
// missing entities or components are simply treated as fully added or removed.
func (b *SnapshotBuilder) ComputeDiff(from types.Snapshot) *Diff {
	d := NewDiff()
	for id, comps := range b.snapshot {
		for comp, rec := range comps {
			fromRec, ok := from.Record(id, comp)
			if !ok {
				d.AddComponent(id, comp, rec)
				continue
			}
			if !rec.Equal(fromRec) {
				d.ChangeComponent(id, comp, fromRec, rec)
			}
		}
	}
	for id, comps := range from {
		for comp, rec := range comps {
			if _, ok := b.snapshot.Record(id, comp); !ok {
				d.RemoveComponent(id, comp, rec)
			}
		}
	}
	return d
}

// Snapshot returns a deep copy of the authoritative snapshot. The returned
// value is safe for the caller to hold and mutate.
func (b *SnapshotBuilder) Snapshot() types.Snapshot {
	return b.snapshot.Copy()
}

// Entities returns a deep copy of the snapshot restricted to the given entity
// IDs. Unknown IDs are skipped.
func (b *SnapshotBuilder) Entities(ids []types.EntityID) types.Snapshot {
	out := types.NewSnapshot()
	for _, id := range ids {
		comps, ok := b.snapshot[id]
		if !ok {
			continue
		}
		for comp, rec := range comps {
			out.Set(id, comp, rec.Copy())
		}
	}
	return out
}
