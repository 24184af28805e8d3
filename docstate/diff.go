package docstate

import (
	"github.com/glyphdraw/docstate/types"
)

// Diff is a structural delta between two snapshots, partitioned into four
// snapshot-shaped maps: added, changed-from, changed-to, and removed.
//
// Two invariants hold at all times:
//   - a (entity, component) pair appears in at most one of added, changed, or
//     removed; the collapsing rules in AddComponent/ChangeComponent/
//     RemoveComponent enforce this.
//   - changedFrom and changedTo always hold the same set of keys; every
//     recorded change has both endpoints.
type Diff struct {
	added       types.Snapshot
	changedFrom types.Snapshot
	changedTo   types.Snapshot
	removed     types.Snapshot
}

// NewDiff returns an empty diff.
func NewDiff() *Diff {
	return &Diff{
		added:       types.NewSnapshot(),
		changedFrom: types.NewSnapshot(),
		changedTo:   types.NewSnapshot(),
		removed:     types.NewSnapshot(),
	}
}

// AddComponent records a freshly created component. Adding a component that
// was removed earlier in the same diff window is an invalid call sequence;
// the engine assumes one canonical lifecycle per window and does not reconcile
// it.
func (d *Diff) AddComponent(id types.EntityID, comp types.ComponentName, rec types.Record) {
	d.added.Set(id, comp, rec.Copy())
}

// ChangeComponent records a value change. If the component was added within
// this diff the change collapses into the pending addition. Otherwise the
// first-seen "from" value is kept and the "to" value always tracks the latest
// call.
func (d *Diff) ChangeComponent(id types.EntityID, comp types.ComponentName, from, to types.Record) {
	if _, ok := d.added.Record(id, comp); ok {
		d.added.Set(id, comp, to.Copy())
		return
	}
	if _, ok := d.changedFrom.Record(id, comp); !ok {
		d.changedFrom.Set(id, comp, from.Copy())
	}
	d.changedTo.Set(id, comp, to.Copy())
}

// RemoveComponent records a component removal. A removal cancels an addition
// made within the same diff window ("added then removed never happened"). A
// pending change collapses into a plain removal holding the change's original
// "from" record, not the passed-in one; the net effect of change-then-remove
// within one window is removing the record the window started with, and
// Reverse must restore exactly that record.
func (d *Diff) RemoveComponent(id types.EntityID, comp types.ComponentName, rec types.Record) {
	if _, ok := d.added.Record(id, comp); ok {
		d.added.Delete(id, comp)
		return
	}
	if from, ok := d.changedFrom.Record(id, comp); ok {
		d.removed.Set(id, comp, from.Copy())
		d.changedFrom.Delete(id, comp)
		d.changedTo.Delete(id, comp)
		return
	}
	d.removed.Set(id, comp, rec.Copy())
}

// Reverse returns a new diff with added and removed swapped and the two change
// endpoints swapped. Applying the reverse of a diff to a snapshot that has the
// diff applied recovers the original snapshot exactly.
func (d *Diff) Reverse() *Diff {
	return &Diff{
		added:       d.removed.Copy(),
		changedFrom: d.changedTo.Copy(),
		changedTo:   d.changedFrom.Copy(),
		removed:     d.added.Copy(),
	}
}

// Merge folds another diff's events into this one, applying the same
// collapsing rules as the primitive operations. Merging a diff is equivalent
// to replaying its events one at a time.
func (d *Diff) Merge(other *Diff) {
	for id, comps := range other.added {
		for comp, rec := range comps {
			d.AddComponent(id, comp, rec)
		}
	}
	for id, comps := range other.changedFrom {
		for comp, from := range comps {
			to, _ := other.changedTo.Record(id, comp)
			d.ChangeComponent(id, comp, from, to)
		}
	}
	for id, comps := range other.removed {
		for comp, rec := range comps {
			d.RemoveComponent(id, comp, rec)
		}
	}
}

// Clone returns an independent deep copy of the diff.
func (d *Diff) Clone() *Diff {
	return &Diff{
		added:       d.added.Copy(),
		changedFrom: d.changedFrom.Copy(),
		changedTo:   d.changedTo.Copy(),
		removed:     d.removed.Copy(),
	}
}

// IsEmpty reports whether the diff records no events at all.
func (d *Diff) IsEmpty() bool {
	return d.added.IsEmpty() && d.changedFrom.IsEmpty() && d.changedTo.IsEmpty() && d.removed.IsEmpty()
}

// Added returns a deep copy of the added map.
func (d *Diff) Added() types.Snapshot { return d.added.Copy() }

// ChangedFrom returns a deep copy of the changed-from map.
func (d *Diff) ChangedFrom() types.Snapshot { return d.changedFrom.Copy() }

// ChangedTo returns a deep copy of the changed-to map.
func (d *Diff) ChangedTo() types.Snapshot { return d.changedTo.Copy() }

// Removed returns a deep copy of the removed map.
func (d *Diff) Removed() types.Snapshot { return d.removed.Copy() }

// EventCounts returns the number of added, changed, and removed components
// recorded in the diff.
func (d *Diff) EventCounts() (added, changed, removed int) {
	for _, comps := range d.added {
		added += len(comps)
	}
	for _, comps := range d.changedTo {
		changed += len(comps)
	}
	for _, comps := range d.removed {
		removed += len(comps)
	}
	return added, changed, removed
}
