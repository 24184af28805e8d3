package types

import (
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"
)

var ErrComponentSchemaMismatch = eris.New("component schema does not match the stored schema")

// Component is the interface a user-defined component struct implements to
// participate in the document model.
type Component interface {
	// Name returns the stable name of the component kind.
	Name() string
}

// ComponentMetadata wraps a user-defined Component struct with the
// functionality the engine needs: a registration-time ID, codec methods, and
// the component's JSON schema.
type ComponentMetadata interface { //revive:disable-line:exported
	// SetID sets the ComponentID of this component. It must only be set once.
	SetID(ComponentID) error
	// ID returns the ComponentID assigned at registration.
	ID() ComponentID

	Encode(any) ([]byte, error)
	Decode([]byte) (any, error)
	// ToRecord converts a live component value into its flat Record form.
	ToRecord(any) (Record, error)
	GetSchema() []byte
	// ValidateAgainstSchema checks this component's schema against a schema
	// loaded from storage. ErrComponentSchemaMismatch is returned when the two
	// differ.
	ValidateAgainstSchema([]byte) error

	Component
}

// SerializeComponentSchema returns the JSON schema of the given component.
func SerializeComponentSchema(component Component) ([]byte, error) {
	componentSchema := jsonschema.Reflect(component)
	schema, err := componentSchema.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "component must be json serializable")
	}
	return schema, nil
}

// IsSchemaValid reports whether two JSON schemas are equivalent.
func IsSchemaValid(jsonSchemaBytes1 []byte, jsonSchemaBytes2 []byte) (bool, error) {
	patch, err := jsondiff.CompareJSON(jsonSchemaBytes1, jsonSchemaBytes2)
	if err != nil {
		return false, eris.Wrap(err, "")
	}
	return patch.String() == "", nil
}
