package docstore

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

var _ PrimitiveStorage[string] = &RedisStorage{}

type RedisStorage struct {
	currentClient redis.Cmdable
}

func NewRedisPrimitiveStorage(client redis.Cmdable) PrimitiveStorage[string] {
	return &RedisStorage{
		currentClient: client,
	}
}

func (r *RedisStorage) GetString(ctx context.Context, key string) (string, error) {
	res, err := r.currentClient.Get(ctx, key).Result()
	if err != nil {
		return "", eris.Wrap(err, "")
	}
	return res, nil
}

func (r *RedisStorage) GetBytes(ctx context.Context, key string) ([]byte, error) {
	bz, err := r.currentClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return bz, nil
}

func (r *RedisStorage) GetUInt64(ctx context.Context, key string) (uint64, error) {
	res, err := r.currentClient.Get(ctx, key).Uint64()
	if err != nil {
		return 0, eris.Wrap(err, "")
	}
	return res, nil
}

func (r *RedisStorage) Set(ctx context.Context, key string, value any) error {
	return eris.Wrap(r.currentClient.Set(ctx, key, value, 0).Err(), "")
}

func (r *RedisStorage) Incr(ctx context.Context, key string) error {
	return eris.Wrap(r.currentClient.Incr(ctx, key).Err(), "")
}

func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	return eris.Wrap(r.currentClient.Del(ctx, key).Err(), "")
}

func (r *RedisStorage) Keys(ctx context.Context) ([]string, error) {
	res, err := r.currentClient.Keys(ctx, "*").Result()
	return res, eris.Wrap(err, "")
}

func (r *RedisStorage) StartTransaction(_ context.Context) (Transaction[string], error) {
	pipeline := r.currentClient.TxPipeline()
	return NewRedisPrimitiveStorage(pipeline), nil
}

func (r *RedisStorage) EndTransaction(ctx context.Context) error {
	pipeline, ok := r.currentClient.(redis.Pipeliner)
	if !ok {
		return eris.New("current redis storage is not a pipeline/transaction")
	}
	_, err := pipeline.Exec(ctx)
	return eris.Wrap(err, "")
}

func (r *RedisStorage) Close(_ context.Context) error {
	client, ok := r.currentClient.(*redis.Client)
	if !ok {
		// Pipelines and transactions have nothing to close.
		return nil
	}
	return eris.Wrap(client.Close(), "")
}
