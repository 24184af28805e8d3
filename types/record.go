package types

// Record is the flat field map for a single component on a single entity.
// Values are restricted to scalars and numeric arrays; there are no nested
// objects. This flatness is what keeps equality and serialization simple.
type Record map[string]any

// Copy returns an independent deep copy of the record.
func (r Record) Copy() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for field, value := range r {
		out[field] = copyValue(value)
	}
	return out
}

// Equal reports whether two records hold bit-identical values for the same set
// of fields. Numeric arrays are compared element-wise. There is no epsilon
// tolerance on floats; values that differ by 1e-9 are different values.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for field, value := range r {
		otherValue, ok := other[field]
		if !ok {
			return false
		}
		if !valueEqual(value, otherValue) {
			return false
		}
	}
	return true
}

func copyValue(v any) any {
	switch vv := v.(type) {
	case []float64:
		out := make([]float64, len(vv))
		copy(out, vv)
		return out
	case []any:
		out := make([]any, len(vv))
		for i, elem := range vv {
			out[i] = copyValue(elem)
		}
		return out
	default:
		// Scalars are immutable.
		return v
	}
}

func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case []float64:
		bv, ok := b.([]float64)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
