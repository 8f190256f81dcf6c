// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import (
	"reflect"
	"time"

	"github.com/pkg/errors"
)

// Map is a convenience host document type: an unordered string-keyed
// mapping (rule 4.4.10). Go's map iteration order is randomized, so
// encoding a Map does not preserve any particular key order; use
// Slice when order matters.
type Map map[string]interface{}

// Slice is a convenience ordered host document type (rule 4.4.10),
// for callers who need encode order to match a specific sequence.
type Slice []Pair

// Pair is one element of a Slice.
type Pair struct {
	Key string
	Val interface{}
}

// ToEncodableFunc produces a BSON-compatible value from a host object
// that otherwise has no mapping. The default calls a conventional
// ToBSON() method on the object.
type ToEncodableFunc func(o interface{}) (interface{}, error)

// ReviverFunc transforms a value while lowering a decoded document to
// host values. key is a string key inside a document, an int index
// inside an array, or nil for the fully lowered root.
type ReviverFunc func(key interface{}, value interface{}) interface{}

// Encodable is the capability the default to_encodable hook looks
// for: an object able to describe itself as BSON.
type Encodable interface {
	ToBSON() (interface{}, error)
}

func defaultToEncodable(o interface{}) (interface{}, error) {
	if e, ok := o.(Encodable); ok {
		return e.ToBSON()
	}
	return nil, errors.Errorf("%T has no ToBSON method", o)
}

// identityStack detects reference cycles in the host graph being
// encoded. Push on enter, pop on successful exit. Comparison is by
// reference identity (pointer value), never by value equality — two
// distinct, value-equal maps must not collide.
type identityStack struct {
	ptrs []uintptr
}

func pointerOf(rv reflect.Value) (uintptr, bool) {
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Ptr:
		if rv.IsNil() {
			return 0, false
		}
		return rv.Pointer(), true
	}
	return 0, false
}

func (s *identityStack) push(path string, rv reflect.Value) (func(), error) {
	ptr, ok := pointerOf(rv)
	if !ok {
		return func() {}, nil
	}
	for _, p := range s.ptrs {
		if p == ptr {
			return nil, errCyclic(path, safeInterface(rv))
		}
	}
	s.ptrs = append(s.ptrs, ptr)
	return func() {
		s.ptrs = s.ptrs[:len(s.ptrs)-1]
	}, nil
}

func safeInterface(rv reflect.Value) interface{} {
	if rv.CanInterface() {
		return rv.Interface()
	}
	return nil
}

// ToBSON converts an arbitrary host value to the Type Model tree
// (§4.4). The top level must map to a Document; anything else is a
// fatal unsupported-object error.
func ToBSON(o interface{}, toEncodable ToEncodableFunc) (Document, error) {
	if toEncodable == nil {
		toEncodable = defaultToEncodable
	}
	stack := &identityStack{}
	v, err := encodeHostValue("", o, stack, toEncodable)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(Document)
	if !ok {
		return nil, errUnsupported("", o, errors.Errorf("top-level value must encode to a document, got %T", v))
	}
	return doc, nil
}

func encodeHostValue(path string, o interface{}, stack *identityStack, toEncodable ToEncodableFunc) (Value, error) {
	if o == nil {
		return Null{}, nil
	}

	// Rule 1: already a typed BSON value.
	if v, ok := o.(Value); ok {
		return v, nil
	}

	switch x := o.(type) {
	case Map:
		return encodeHostMap(path, x, stack, toEncodable)
	case Slice:
		return encodeHostSlice(path, x, stack, toEncodable)
	case bool:
		return Boolean(x), nil
	case int:
		return encodeHostInt(int64(x))
	case int8:
		return encodeHostInt(int64(x))
	case int16:
		return encodeHostInt(int64(x))
	case int32:
		return encodeHostInt(int64(x))
	case int64:
		return encodeHostInt(x)
	case uint:
		return encodeHostUint(path, uint64(x))
	case uint8:
		return encodeHostUint(path, uint64(x))
	case uint16:
		return encodeHostUint(path, uint64(x))
	case uint32:
		return encodeHostUint(path, uint64(x))
	case uint64:
		return encodeHostUint(path, x)
	case float32:
		return Double(float64(x)), nil
	case float64:
		return Double(x), nil
	case string:
		return String(x), nil
	case time.Time:
		return DateTime(x.UnixNano() / int64(time.Millisecond)), nil
	case []byte:
		return Binary{Subtype: BinaryGeneric, Data: x}, nil
	}

	rv := reflect.ValueOf(o)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return Null{}, nil
		}
		pop, err := stack.push(path, rv)
		if err != nil {
			return nil, err
		}
		defer pop()
		return encodeHostValue(path, rv.Elem().Interface(), stack, toEncodable)
	case reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return encodeHostValue(path, rv.Elem().Interface(), stack, toEncodable)
	case reflect.Bool:
		return Boolean(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return encodeHostInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return encodeHostUint(path, rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Double(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			data := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(data), rv)
			return Binary{Subtype: BinaryGeneric, Data: data}, nil
		}
		return encodeHostSequence(path, rv, stack, toEncodable)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return encodeHostHook(path, o, stack, toEncodable)
		}
		return encodeHostReflectMap(path, rv, stack, toEncodable)
	}

	// Rule 11: fall back to the to_encodable hook for anything else
	// (structs, channels, funcs, user types).
	return encodeHostHook(path, o, stack, toEncodable)
}

// encodeHostInt chooses Int32 or Int64 by minimum signed width. A
// plain Go int64 always fits one of the two, so this branch can never
// overflow; overflow is only reachable from an unsigned host value
// (see encodeHostUint).
func encodeHostInt(v int64) (Value, error) {
	if v >= minInt32 && v <= maxInt32 {
		return Int32(int32(v)), nil
	}
	return Int64(v), nil
}

const (
	minInt32 = -1 << 31
	maxInt32 = 1<<31 - 1
	maxInt64 = 1<<63 - 1
)

func encodeHostUint(path string, v uint64) (Value, error) {
	if v <= maxInt32 {
		return Int32(int32(v)), nil
	}
	if v <= maxInt64 {
		return Int64(int64(v)), nil
	}
	return nil, errOverflow(path, v)
}

func encodeHostMap(path string, m Map, stack *identityStack, toEncodable ToEncodableFunc) (Value, error) {
	pop, err := stack.push(path, reflect.ValueOf(m))
	if err != nil {
		return nil, err
	}
	defer pop()
	doc := make(Document, 0, len(m))
	for k, v := range m {
		ev, err := encodeHostValue(catpath(path, k), v, stack, toEncodable)
		if err != nil {
			return nil, err
		}
		doc = append(doc, Element{Key: k, Value: ev})
	}
	return doc, nil
}

func encodeHostSlice(path string, s Slice, stack *identityStack, toEncodable ToEncodableFunc) (Value, error) {
	pop, err := stack.push(path, reflect.ValueOf(s))
	if err != nil {
		return nil, err
	}
	defer pop()
	doc := make(Document, 0, len(s))
	for _, p := range s {
		ev, err := encodeHostValue(catpath(path, p.Key), p.Val, stack, toEncodable)
		if err != nil {
			return nil, err
		}
		doc = append(doc, Element{Key: p.Key, Value: ev})
	}
	return doc, nil
}

func encodeHostSequence(path string, rv reflect.Value, stack *identityStack, toEncodable ToEncodableFunc) (Value, error) {
	if rv.Kind() == reflect.Slice {
		pop, err := stack.push(path, rv)
		if err != nil {
			return nil, err
		}
		defer pop()
	}
	arr := make(Array, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := encodeHostValue(catpath(path, itoa(i)), rv.Index(i).Interface(), stack, toEncodable)
		if err != nil {
			return nil, err
		}
		arr[i] = v
	}
	return arr, nil
}

func encodeHostReflectMap(path string, rv reflect.Value, stack *identityStack, toEncodable ToEncodableFunc) (Value, error) {
	pop, err := stack.push(path, rv)
	if err != nil {
		return nil, err
	}
	defer pop()
	doc := make(Document, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		ev, err := encodeHostValue(catpath(path, key), iter.Value().Interface(), stack, toEncodable)
		if err != nil {
			return nil, err
		}
		doc = append(doc, Element{Key: key, Value: ev})
	}
	return doc, nil
}

// encodeHostHook implements rule 4.4.11: invoke to_encodable, then
// recurse on its result. Bounded-depth re-entry into the hook is
// permitted (§6.2); the identity stack still catches any cycle the
// re-entry introduces.
func encodeHostHook(path string, o interface{}, stack *identityStack, toEncodable ToEncodableFunc) (Value, error) {
	rv := reflect.ValueOf(o)
	pop, err := stack.push(path, rv)
	if err != nil {
		return nil, err
	}
	defer pop()

	encodable, hookErr := toEncodable(o)
	if hookErr != nil {
		return nil, errUnsupported(path, o, errors.Wrap(hookErr, "to_encodable hook failed"))
	}
	v, err := encodeHostValue(path, encodable, stack, toEncodable)
	if err != nil {
		return nil, errUnsupported(path, o, errors.Wrap(err, "to_encodable result could not be encoded"))
	}
	return v, nil
}

// FromBSON lowers a decoded Document to host-native values (§4.5). If
// reviver is non-nil it is called for every node during the lowering,
// then once more with key nil against the fully lowered root.
func FromBSON(doc Document, reviver ReviverFunc) interface{} {
	root := lowerDocument(doc, reviver)
	if reviver != nil {
		root = reviver(nil, root)
	}
	return root
}

func lowerDocument(doc Document, reviver ReviverFunc) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for _, e := range doc {
		v := lowerValue(e.Value, reviver)
		if reviver != nil {
			v = reviver(e.Key, v)
		}
		out[e.Key] = v
	}
	return out
}

func lowerArray(a Array, reviver ReviverFunc) []interface{} {
	out := make([]interface{}, len(a))
	for i, elem := range a {
		v := lowerValue(elem, reviver)
		if reviver != nil {
			v = reviver(i, v)
		}
		out[i] = v
	}
	return out
}

func lowerValue(v Value, reviver ReviverFunc) interface{} {
	switch vt := v.(type) {
	case Document:
		return lowerDocument(vt, reviver)
	case Array:
		return lowerArray(vt, reviver)
	case Double:
		return float64(vt)
	case String:
		return string(vt)
	case Boolean:
		return bool(vt)
	case Int32:
		return int32(vt)
	case Int64:
		return int64(vt)
	case DateTime:
		return time.UnixMilli(int64(vt)).UTC()
	case ObjectID:
		return vt
	default:
		// MinKey, MaxKey, Undefined, Binary, Regexp, JavaScript,
		// Timestamp, DBPointer (and Symbol, unreachable from decode)
		// have no natural host equivalent and pass through unchanged.
		return vt
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
