package docstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/glyphdraw/docstate/codec"
	"github.com/glyphdraw/docstate/docstate"
	"github.com/glyphdraw/docstate/statsd"
	"github.com/glyphdraw/docstate/types"
)

// Store persists committed diffs and serves full snapshots on load. It is the
// durable half of the engine: every diff returned by CreateCheckpoint, Undo,
// or Redo is handed here, and a fresh session starts by reconciling against
// LoadSnapshot.
type Store struct {
	db      PrimitiveStorage[string]
	Schemas SchemaStorage
}

// NewStore returns a store over the given redis client.
func NewStore(client redis.Cmdable) *Store {
	return &Store{
		db:      NewRedisPrimitiveStorage(client),
		Schemas: NewSchemaStorage(client),
	}
}

// ApplyDiff flushes one committed diff to storage in a single multi/exec
// transaction: added and changed-to records are written, removed records are
// deleted, and the committed-tick counter is incremented. Storage is never
// left in an intermediate state.
func (s *Store) ApplyDiff(ctx context.Context, d *docstate.Diff) error {
	if d == nil || d.IsEmpty() {
		return nil
	}
	start := time.Now()
	tx, err := s.db.StartTransaction(ctx)
	if err != nil {
		return err
	}
	if err := s.queuePuts(ctx, tx, d.Added()); err != nil {
		return err
	}
	if err := s.queuePuts(ctx, tx, d.ChangedTo()); err != nil {
		return err
	}
	for id, comps := range d.Removed() {
		for comp := range comps {
			if err := tx.Delete(ctx, componentValueKey(comp, id)); err != nil {
				return err
			}
		}
	}
	if err := tx.Incr(ctx, committedTickKey()); err != nil {
		return err
	}
	err = tx.EndTransaction(ctx)
	statsd.EmitStoreStat(start, "apply_diff")
	return err
}

func (s *Store) queuePuts(ctx context.Context, tx Transaction[string], snapshot types.Snapshot) error {
	for id, comps := range snapshot {
		for comp, rec := range comps {
			bz, err := codec.Encode(rec)
			if err != nil {
				return err
			}
			if err := tx.Set(ctx, componentValueKey(comp, id), bz); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadSnapshot rebuilds the full snapshot from storage. An empty database
// yields an empty snapshot.
func (s *Store) LoadSnapshot(ctx context.Context) (types.Snapshot, error) {
	keys, err := s.db.Keys(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := types.NewSnapshot()
	for _, key := range keys {
		comp, id, ok := parseComponentValueKey(key)
		if !ok {
			continue
		}
		bz, err := s.db.GetBytes(ctx, key)
		if err != nil {
			return nil, err
		}
		rec, err := codec.DecodeRecord(bz)
		if err != nil {
			return nil, eris.Wrapf(err, "stored record at %q is malformed", key)
		}
		snapshot.Set(id, comp, rec)
	}
	return snapshot, nil
}

// CommittedTick returns the number of diffs that have been committed to this
// document database. A fresh database reports zero.
func (s *Store) CommittedTick(ctx context.Context) (uint64, error) {
	tick, err := s.db.GetUInt64(ctx, committedTickKey())
	if eris.Is(eris.Cause(err), redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return tick, nil
}

// SessionID returns the identifier assigned to this document database,
// generating and persisting one on first use.
func (s *Store) SessionID(ctx context.Context) (string, error) {
	id, err := s.db.GetString(ctx, sessionIDKey())
	if err == nil {
		return id, nil
	}
	if !eris.Is(eris.Cause(err), redis.Nil) {
		return "", err
	}
	id = uuid.New().String()
	if err := s.db.Set(ctx, sessionIDKey(), id); err != nil {
		return "", err
	}
	return id, nil
}

// Close closes the underlying storage connection.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}
