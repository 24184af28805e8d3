package docstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

var ErrNoSchemaFound = errors.New("no schema found")

// SchemaStorage persists the JSON schema of each registered component kind so
// that a schema change between sessions is detected at registration time
// instead of corrupting stored records silently.
type SchemaStorage struct {
	Client redis.Cmdable
}

func NewSchemaStorage(client redis.Cmdable) SchemaStorage {
	return SchemaStorage{
		Client: client,
	}
}

func (r *SchemaStorage) GetSchema(componentName string) ([]byte, error) {
	ctx := context.Background()
	schemaBytes, err := r.Client.HGet(ctx, schemaStorageKey(), componentName).Bytes()
	if eris.Is(err, redis.Nil) {
		return nil, eris.Wrap(ErrNoSchemaFound, componentName)
	} else if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return schemaBytes, nil
}

func (r *SchemaStorage) SetSchema(componentName string, schemaData []byte) error {
	ctx := context.Background()
	return eris.Wrap(r.Client.HSet(ctx, schemaStorageKey(), componentName, schemaData).Err(), "")
}
