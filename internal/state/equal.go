package state

import "reflect"

// Shallow reports whether a and b are shallowly equal: two State or
// map[string]any values with the same keys whose values are identical, or
// otherwise two identical values. Identity means == for comparable values
// and the same backing storage for maps, slices, pointers, channels and
// funcs.
func Shallow(a, b any) bool {
	ma, okA := asMap(a)
	mb, okB := asMap(b)
	if okA && okB {
		if len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !identical(va, vb) {
				return false
			}
		}
		return true
	}
	return identical(a, b)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case State:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}

func identical(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if !va.Type().Comparable() {
		return false
	}
	// Structs and arrays holding interfaces can still panic on ==.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
