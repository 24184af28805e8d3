package types

// EntityID is an opaque, stable identifier for a single entity in a document.
// IDs are unique within a document and are never reused while the entity is
// still reachable through history.
type EntityID string

// ComponentID is the numeric identifier assigned to a component kind when it is
// registered. It is only valid within the process that assigned it; the stable
// cross-session identifier is the ComponentName.
type ComponentID int

// ComponentName is the stable string tag for a component kind. It is the
// second-level key of every Snapshot and of the persisted wire format, so
// renaming a component breaks history and persistence compatibility.
type ComponentName string
