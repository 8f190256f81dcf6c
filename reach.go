// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import (
	"reflect"
	"time"

	"github.com/pkg/errors"
)

// Reach digs into a value produced by FromBSON/Decode along a dotted
// path and assigns whatever it finds into dst, coercing where the
// wire type and dst's Go type naturally correspond. dst must be a
// non-nil pointer.
//
// Supported coercions out of the decoded tree:
//
//	float64            -> float64
//	string             -> string
//	bool               -> bool
//	int32              -> int32, int64
//	int64              -> int64
//	time.Time          -> time.Time
//	Binary             -> []byte (Data field)
//	ObjectID           -> ObjectID
//
// Reach returns false, nil if any step of the path is absent. It
// returns an error when dst is not a non-nil pointer, or when the path
// resolves but the found value's type cannot be coerced into dst.
func Reach(root interface{}, dst interface{}, dot ...string) (bool, error) {
	if dst == nil {
		return false, errors.New("bson: Reach dst must not be nil")
	}
	src, ok := reach(root, dot...)
	if !ok {
		return false, nil
	}
	return assignReached(dst, src)
}

func reach(cur interface{}, dot ...string) (interface{}, bool) {
	for _, name := range dot {
		switch curt := cur.(type) {
		case map[string]interface{}:
			v, ok := curt[name]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			idx, err := parseIndex(name)
			if err != nil || idx < 0 || idx >= len(curt) {
				return nil, false
			}
			cur = curt[idx]
		case Regexp:
			switch name {
			case "Pattern":
				cur = curt.Pattern
			case "Options":
				cur = curt.Options
			default:
				return nil, false
			}
		case DBPointer:
			switch name {
			case "Name":
				cur = curt.Name
			case "ID":
				cur = curt.ID
			default:
				return nil, false
			}
		case Binary:
			switch name {
			case "Data":
				cur = curt.Data
			case "Subtype":
				cur = curt.Subtype
			default:
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return cur, true
}

func parseIndex(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty index")
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errors.Errorf("not a decimal index: %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func assignError(dst reflect.Value, src interface{}) error {
	return errors.Errorf("bson: cannot coerce %T into %s", src, dst.Type())
}

// assignReached assigns src into *dst, coercing where sensible.
func assignReached(dst, src interface{}) (bool, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return false, errors.New("bson: Reach dst must be a non-nil pointer")
	}
	elem := indirectAlloc(rv.Elem())

	switch srct := src.(type) {
	case float64:
		if elem.Kind() != reflect.Float64 {
			return false, assignError(elem, src)
		}
		elem.SetFloat(srct)
	case string:
		if elem.Kind() != reflect.String {
			return false, assignError(elem, src)
		}
		elem.SetString(srct)
	case bool:
		if elem.Kind() != reflect.Bool {
			return false, assignError(elem, src)
		}
		elem.SetBool(srct)
	case int32:
		if elem.Kind() != reflect.Int32 && elem.Kind() != reflect.Int64 {
			return false, assignError(elem, src)
		}
		elem.SetInt(int64(srct))
	case int64:
		if elem.Kind() != reflect.Int64 {
			return false, assignError(elem, src)
		}
		elem.SetInt(srct)
	case time.Time:
		if _, ok := elem.Interface().(time.Time); !ok {
			return false, assignError(elem, src)
		}
		elem.Set(reflect.ValueOf(srct))
	case []byte:
		if elem.Kind() != reflect.Slice || elem.Type().Elem().Kind() != reflect.Uint8 {
			return false, assignError(elem, src)
		}
		elem.SetBytes(srct)
	case ObjectID:
		if _, ok := elem.Interface().(ObjectID); !ok {
			return false, assignError(elem, src)
		}
		elem.Set(reflect.ValueOf(srct))
	default:
		elemType := elem.Type()
		srcVal := reflect.ValueOf(src)
		if !srcVal.IsValid() || !srcVal.Type().AssignableTo(elemType) {
			return false, assignError(elem, src)
		}
		elem.Set(srcVal)
	}
	return true, nil
}
