// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// StructFields is a ToEncodableFunc that turns a struct into a Map
// using "bson" field tags, in the style of:
//
//	type Person struct {
//	    Name string `bson:"name"`
//	    Age  int    `bson:"age,omitempty"`
//	    secret string
//	}
//
// A tag of "-" skips the field. An empty tag name keeps the Go field
// name. "omitempty" skips the field when it is nil or empty (see
// isEmptyValue).
// Unexported fields are always skipped. Pass StructFields as the
// to_encodable hook to opt a whole tree of structs into this instead
// of implementing ToBSON on each one.
func StructFields(o interface{}) (interface{}, error) {
	rv := indirect(reflect.ValueOf(o))
	if rv.Kind() != reflect.Struct {
		return nil, errors.Errorf("bson: StructFields expects a struct, got %T", o)
	}
	m := Map{}
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Type().Field(i)
		if field.PkgPath != "" {
			continue
		}
		name := field.Name
		fv := indirect(rv.Field(i))
		if tag := field.Tag.Get("bson"); tag != "" {
			tok := strings.Split(tag, ",")
			if tok[0] == "-" {
				continue
			}
			if tok[0] != "" {
				name = tok[0]
			}
			if len(tok) == 2 && tok[1] == "omitempty" && (!fv.IsValid() || isEmptyValue(fv)) {
				continue
			}
		}
		if !fv.IsValid() {
			m[name] = nil
			continue
		}
		m[name] = fv.Interface()
	}
	return m, nil
}

// isEmptyValue reports whether v is false, zero, a nil pointer or
// interface, or an array, map, slice or string of length zero. A
// struct value is never reported empty, even when it is the zero value.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}
