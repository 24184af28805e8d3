package codec

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/glyphdraw/docstate/types"
)

func Decode[T any](bz []byte) (T, error) {
	comp := new(T)
	err := json.Unmarshal(bz, comp)
	if err != nil {
		return *comp, eris.Wrap(err, "")
	}
	return *comp, nil
}

func Encode(comp any) ([]byte, error) {
	bz, err := json.Marshal(comp)
	if err != nil {
		return nil, eris.Wrap(err, "")
	}
	return bz, nil
}

// ToRecord converts a live component value into its flat Record form by
// serializing it and reading the fields back. Nested objects and non-numeric
// arrays are rejected; records must stay flat so that equality and the
// persisted wire format stay simple.
func ToRecord(comp any) (types.Record, error) {
	bz, err := Encode(comp)
	if err != nil {
		return nil, err
	}
	return DecodeRecord(bz)
}

// DecodeRecord decodes serialized record bytes into a Record. Numeric arrays
// are normalized to []float64 so that records decoded from storage compare
// equal to records produced by ToRecord.
func DecodeRecord(bz []byte) (types.Record, error) {
	rec, err := Decode[types.Record](bz)
	if err != nil {
		return nil, err
	}
	for field, value := range rec {
		normalized, err := normalizeField(field, value)
		if err != nil {
			return nil, err
		}
		rec[field] = normalized
	}
	return rec, nil
}

// FromRecord converts a flat Record back into a live component value.
func FromRecord[T any](rec types.Record) (T, error) {
	bz, err := Encode(rec)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](bz)
}

func normalizeField(field string, value any) (any, error) {
	switch vv := value.(type) {
	case map[string]any:
		return nil, eris.Errorf("field %q is a nested object; records must be flat", field)
	case []any:
		nums := make([]float64, len(vv))
		for i, elem := range vv {
			num, ok := elem.(float64)
			if !ok {
				return nil, eris.Errorf("field %q is a non-numeric array; records only hold scalars and numeric arrays", field)
			}
			nums[i] = num
		}
		return nums, nil
	default:
		return value, nil
	}
}
