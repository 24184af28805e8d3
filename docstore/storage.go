package docstore

import (
	"context"
)

// PrimitiveStorage is the interface to the underlying durable key-value store.
type PrimitiveStorage[K comparable] interface {
	GetString(ctx context.Context, key K) (string, error)
	GetBytes(ctx context.Context, key K) ([]byte, error)
	GetUInt64(ctx context.Context, key K) (uint64, error)
	Set(ctx context.Context, key K, value any) error
	Incr(ctx context.Context, key K) error
	Delete(ctx context.Context, key K) error
	Keys(ctx context.Context) ([]K, error)
	StartTransaction(ctx context.Context) (Transaction[K], error)
	EndTransaction(ctx context.Context) error
	Close(ctx context.Context) error
}

type Transaction[K comparable] interface {
	PrimitiveStorage[K]
}
