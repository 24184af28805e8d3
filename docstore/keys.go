package docstore

import (
	"fmt"
	"strings"

	"github.com/glyphdraw/docstate/types"
)

const (
	componentKeyPrefix = "DOC:COMPONENT-VALUE:COMPONENT-"
	componentKeyInfix  = ":ENTITY-"
)

// componentValueKey is the key that stores the serialized record for a single
// entity and component kind. Component names must not contain ":ENTITY-";
// names are stable registered tags, not free-form strings.
func componentValueKey(comp types.ComponentName, id types.EntityID) string {
	return fmt.Sprintf("%s%s%s%s", componentKeyPrefix, comp, componentKeyInfix, id)
}

// parseComponentValueKey recovers the component name and entity ID from a
// component value key. Keys with a different shape report ok == false.
func parseComponentValueKey(key string) (comp types.ComponentName, id types.EntityID, ok bool) {
	rest, found := strings.CutPrefix(key, componentKeyPrefix)
	if !found {
		return "", "", false
	}
	compPart, idPart, found := strings.Cut(rest, componentKeyInfix)
	if !found || compPart == "" || idPart == "" {
		return "", "", false
	}
	return types.ComponentName(compPart), types.EntityID(idPart), true
}

// committedTickKey is the key that stores the number of diffs committed to
// storage over the lifetime of the document.
func committedTickKey() string {
	return "DOC:COMMITTED-TICK"
}

// sessionIDKey is the key that stores the identifier assigned to this
// document database when it was first written to.
func sessionIDKey() string {
	return "DOC:SESSION-ID"
}

// schemaStorageKey is the key of the hash that maps component names to their
// JSON schemas.
func schemaStorageKey() string {
	return "DOC:SCHEMAS"
}
