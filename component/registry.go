package component

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/glyphdraw/docstate/docstore"
	"github.com/glyphdraw/docstate/types"
)

// SchemaStorage is the slice of the durable store the registry needs to
// persist and validate component schemas across sessions.
type SchemaStorage interface {
	GetSchema(componentName string) ([]byte, error)
	SetSchema(componentName string, schemaData []byte) error
}

// Registry is the explicit table mapping component names to their registered
// metadata. It is constructed once and handed to the sync layer; there is no
// process-wide component registry.
type Registry struct {
	nameToComponent map[types.ComponentName]types.ComponentMetadata
	schemas         SchemaStorage
	nextID          types.ComponentID
}

// RegistryOption configures a Registry at construction time.
type RegistryOption func(*Registry)

// WithSchemaStorage makes the registry validate each component against the
// schema stored for its name, and persist schemas for components seen for the
// first time.
func WithSchemaStorage(schemas SchemaStorage) RegistryOption {
	return func(r *Registry) {
		r.schemas = schemas
	}
}

// NewRegistry returns an empty component registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		nameToComponent: make(map[types.ComponentName]types.ComponentMetadata),
		nextID:          1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register assigns the component its ID and adds it to the registry. There can
// only be one component with a given name. When schema storage is configured,
// a component whose schema no longer matches the stored one is rejected;
// stored records would otherwise decode into the wrong shape.
func (r *Registry) Register(compMetadata types.ComponentMetadata) error {
	name := types.ComponentName(compMetadata.Name())
	if _, exists := r.nameToComponent[name]; exists {
		return eris.Errorf("component %q is already registered", name)
	}

	if r.schemas != nil {
		storedSchema, err := r.schemas.GetSchema(compMetadata.Name())
		if err != nil && !eris.Is(eris.Cause(err), docstore.ErrNoSchemaFound) {
			return err
		}
		if storedSchema != nil {
			if err := compMetadata.ValidateAgainstSchema(storedSchema); err != nil {
				return eris.Wrapf(err, "component %q does not match the schema stored in storage", name)
			}
		} else {
			if err := r.schemas.SetSchema(compMetadata.Name(), compMetadata.GetSchema()); err != nil {
				return err
			}
		}
	}

	// The ID is assigned only after schema validation and storage succeed.
	if err := compMetadata.SetID(r.nextID); err != nil {
		return err
	}
	r.nameToComponent[name] = compMetadata
	r.nextID++
	return nil
}

// Lookup returns the metadata registered under the given name.
func (r *Registry) Lookup(name types.ComponentName) (types.ComponentMetadata, bool) {
	meta, ok := r.nameToComponent[name]
	return meta, ok
}

// Components returns all registered components ordered by ID.
func (r *Registry) Components() []types.ComponentMetadata {
	comps := make([]types.ComponentMetadata, 0, len(r.nameToComponent))
	for _, comp := range r.nameToComponent {
		comps = append(comps, comp)
	}
	sort.Slice(comps, func(i, j int) bool {
		return comps[i].ID() < comps[j].ID()
	})
	return comps
}
