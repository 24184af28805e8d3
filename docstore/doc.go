/*
Package docstore is the durable half of the document engine. Committed diffs
(checkpoints, undos, redos) are flushed here in a single atomic redis
multi/exec transaction, and a full snapshot can be rebuilt from storage when a
session loads. Storage is never left in an intermediate state: reading the
database during a flush returns either the pre-flush or post-flush document.

# Storage model

All keys are prefixed with "DOC".

key:	fmt.Sprintf("DOC:COMPONENT-VALUE:COMPONENT-%s:ENTITY-%s", componentName, entityID)
value:	JSON serialized record bytes for the matching component on the matching
entity. These keys, taken together, are the persisted snapshot.

key:	"DOC:COMMITTED-TICK"
value:	An integer counting the diffs committed over the lifetime of the
document database.

key:	"DOC:SESSION-ID"
value:	A UUID assigned to the database the first time it is written.

key:	"DOC:SCHEMAS"
value:	A hash mapping component names to their JSON schemas. Registration
validates a component against its stored schema so that a silently changed
component struct is caught before it corrupts stored records.
*/
package docstore
