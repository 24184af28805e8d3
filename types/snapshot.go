package types

// Snapshot is the full materialized entity/component state at a point in time:
// EntityID -> ComponentName -> Record. A snapshot never holds an entity entry
// with zero components; the last component removal drops the entity entirely.
//
// A Snapshot marshals to a plain nested JSON object. This is the persisted and
// clipboard wire format, so the shape must stay stable.
type Snapshot map[EntityID]map[ComponentName]Record

// NewSnapshot returns an empty snapshot.
func NewSnapshot() Snapshot {
	return Snapshot{}
}

// Record returns the record stored for the given entity and component kind.
func (s Snapshot) Record(id EntityID, comp ComponentName) (Record, bool) {
	comps, ok := s[id]
	if !ok {
		return nil, false
	}
	rec, ok := comps[comp]
	return rec, ok
}

// Set stores the given record. The record is stored as-is; callers that need
// aliasing protection must copy before calling.
func (s Snapshot) Set(id EntityID, comp ComponentName, rec Record) {
	comps, ok := s[id]
	if !ok {
		comps = make(map[ComponentName]Record)
		s[id] = comps
	}
	comps[comp] = rec
}

// Delete removes the record for the given entity and component kind. Deleting
// a missing record is a no-op. The entity entry is dropped together with its
// last component.
func (s Snapshot) Delete(id EntityID, comp ComponentName) {
	comps, ok := s[id]
	if !ok {
		return
	}
	delete(comps, comp)
	if len(comps) == 0 {
		delete(s, id)
	}
}

// Copy returns an independent deep copy of the snapshot.
func (s Snapshot) Copy() Snapshot {
	out := make(Snapshot, len(s))
	for id, comps := range s {
		outComps := make(map[ComponentName]Record, len(comps))
		for comp, rec := range comps {
			outComps[comp] = rec.Copy()
		}
		out[id] = outComps
	}
	return out
}

// IsEmpty reports whether the snapshot holds no entities.
func (s Snapshot) IsEmpty() bool {
	return len(s) == 0
}
