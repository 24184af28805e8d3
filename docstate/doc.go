/*
Package docstate is the snapshot-diffing and checkpointed undo/redo engine
underlying the document model. Every mutation to every entity's components
passes through this engine before it becomes committed history.

# Data model

A Snapshot is a plain nested value: entity ID -> component name -> record,
where a record is a flat map of field name to scalar or numeric-array value.
A Diff is a four-part delta over that shape (added / changed-from /
changed-to / removed) with merge, reverse, and clone operations.

The SnapshotBuilder holds the one authoritative mutable snapshot and knows how
to apply a diff to it, compare a candidate record against the current one, and
compute a structural diff against an arbitrary foreign snapshot.

# Control flow

The sync layer calls History.AddComponents / UpdateComponents /
RemoveComponents once per affected component kind each tick. History delegates
comparison and writes to the SnapshotBuilder and records each change into both
the tick-local frame diff and the pending checkpoint diff.

Commands later call CreateCheckpoint (closes the pending diff into one undo
step), Undo, or Redo. The returned diff is replayed onto live entities by the
sync layer and handed to the durable store for persistence.

# Error model

The engine raises no errors in normal operation; it is total over its inputs.
Popping an empty stack, undoing or redoing while uncommitted edits exist, and
removing a component that does not exist all yield nil or a silent no-op.
All failure is modeled as "no state change occurred".

The engine is single-threaded and fully synchronous. Exactly one tick's worth
of component calls is expected to complete before CreateCheckpoint, Undo, or
Redo runs; the surrounding scheduler guarantees single-writer access.
*/
package docstate
