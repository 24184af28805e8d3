// Package log contains helpers for loading document state information into
// zerolog events.
package log

import (
	"github.com/rs/zerolog"

	"github.com/glyphdraw/docstate/types"
)

func loadEventCountsIntoEvent(event *zerolog.Event, added, changed, removed int) *zerolog.Event {
	event.Int("added", added)
	event.Int("changed", changed)
	return event.Int("removed", removed)
}

// HistoryOp emits a structured event describing a history operation
// (checkpoint, undo, redo, reset) and the size of the diff involved.
func HistoryOp(logger *zerolog.Logger, level zerolog.Level, op string, added, changed, removed int) {
	event := logger.WithLevel(level).Str("operation", op)
	loadEventCountsIntoEvent(event, added, changed, removed).Msg("history")
}

// Snapshot emits a structured event describing the size of a snapshot.
func Snapshot(logger *zerolog.Logger, level zerolog.Level, op string, snapshot types.Snapshot) {
	total := 0
	for _, comps := range snapshot {
		total += len(comps)
	}
	logger.WithLevel(level).
		Str("operation", op).
		Int("total_entities", len(snapshot)).
		Int("total_components", total).
		Msg("snapshot")
}
