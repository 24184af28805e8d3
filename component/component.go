package component

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/glyphdraw/docstate/codec"
	"github.com/glyphdraw/docstate/types"
)

// NewComponentMetadata creates the metadata for a user-defined component
// struct. The component's stable name comes from its Name() method and its
// JSON schema is captured once, at creation time.
func NewComponentMetadata[T types.Component]() (types.ComponentMetadata, error) {
	var t T
	if t.Name() == "" {
		return nil, eris.Errorf("component %T must have a non-empty name", t)
	}
	schema, err := types.SerializeComponentSchema(t)
	if err != nil {
		return nil, err
	}
	return &componentMetadata[T]{
		typ:    reflect.TypeOf(t),
		name:   t.Name(),
		schema: schema,
	}, nil
}

// componentMetadata represents a kind of component. It is used to identify a
// component when getting or setting the component of an entity.
type componentMetadata[T any] struct {
	isIDSet bool
	id      types.ComponentID
	typ     reflect.Type
	name    string
	schema  []byte
}

// SetID sets this component's ID. It must be unique across the registry.
func (c *componentMetadata[T]) SetID(id types.ComponentID) error {
	if c.isIDSet {
		// Components are registered once per document on startup. In tests
		// it's useful to reuse the same component across documents, so
		// re-initialization is allowed as long as the ID doesn't change.
		if id == c.id {
			return nil
		}
		return eris.Errorf("id for component %v is already set to %v, cannot change to %v", c, c.id, id)
	}
	c.id = id
	c.isIDSet = true
	return nil
}

// String returns the component name.
func (c *componentMetadata[T]) String() string {
	return c.name
}

// Name returns the component name.
func (c *componentMetadata[T]) Name() string {
	return c.name
}

// ID returns the component ID assigned at registration.
func (c *componentMetadata[T]) ID() types.ComponentID {
	return c.id
}

func (c *componentMetadata[T]) Encode(v any) ([]byte, error) {
	return codec.Encode(v)
}

func (c *componentMetadata[T]) Decode(bz []byte) (any, error) {
	return codec.Decode[T](bz)
}

func (c *componentMetadata[T]) ToRecord(v any) (types.Record, error) {
	return codec.ToRecord(v)
}

func (c *componentMetadata[T]) GetSchema() []byte {
	return c.schema
}

func (c *componentMetadata[T]) ValidateAgainstSchema(storedSchema []byte) error {
	valid, err := types.IsSchemaValid(c.schema, storedSchema)
	if err != nil {
		return err
	}
	if !valid {
		return eris.Wrap(types.ErrComponentSchemaMismatch, c.name)
	}
	return nil
}
