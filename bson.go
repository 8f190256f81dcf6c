// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import "encoding/json"

// Codec bundles the two optional hooks that customize host <-> BSON
// conversion: ToEncodable for values with no direct mapping, and
// Reviver for transforming decoded values on the way out.
type Codec struct {
	ToEncodable ToEncodableFunc
	Reviver     ReviverFunc
}

// DefaultCodec has no hooks: to_encodable falls back to a ToBSON()
// method and decode performs no revival.
var DefaultCodec = &Codec{}

// Encoder returns a function bound to this codec's ToEncodable hook.
func (c *Codec) Encoder() func(interface{}) ([]byte, error) {
	return func(v interface{}) ([]byte, error) {
		return Encode(v, c.ToEncodable)
	}
}

// Decoder returns a function bound to this codec's Reviver hook.
func (c *Codec) Decoder() func([]byte) (interface{}, error) {
	return func(b []byte) (interface{}, error) {
		return Decode(b, c.Reviver)
	}
}

// Encode marshals v to its BSON wire representation. An optional
// to_encodable hook is consulted for any value with no built-in
// mapping; without one, the default falls back to a conventional
// ToBSON() method.
func Encode(v interface{}, toEncodable ...ToEncodableFunc) ([]byte, error) {
	var hook ToEncodableFunc
	if len(toEncodable) > 0 {
		hook = toEncodable[0]
	}
	doc, err := ToBSON(v, hook)
	if err != nil {
		return nil, err
	}
	return encodeTopLevel(doc)
}

// MustEncode is Encode but panics on error.
func MustEncode(v interface{}, toEncodable ...ToEncodableFunc) []byte {
	b, err := Encode(v, toEncodable...)
	if err != nil {
		panic(err)
	}
	return b
}

// Decode unmarshals a single BSON document from b into host-native
// Go values (map[string]interface{}, []interface{}, and scalars). An
// optional reviver is applied to every node, innermost first, and
// once more to the fully lowered root.
func Decode(b []byte, reviver ...ReviverFunc) (interface{}, error) {
	var rev ReviverFunc
	if len(reviver) > 0 {
		rev = reviver[0]
	}
	doc, err := decodeTopLevel(b)
	if err != nil {
		return nil, err
	}
	return FromBSON(doc, rev), nil
}

// BSON is a raw, pre-encoded wire document. It is a convenience for
// callers holding bytes off the wire who want host-value access
// without re-encoding.
type BSON []byte

// Map decodes the document to a map[string]interface{}.
func (b BSON) Map() (map[string]interface{}, error) {
	v, err := Decode([]byte(b))
	if err != nil {
		return nil, err
	}
	m, _ := v.(map[string]interface{})
	return m, nil
}

// JSON renders the document as a JSON string via encoding/json. BSON
// values with no JSON analogue (Binary, Regexp, ObjectID, Timestamp,
// and the rest) marshal using encoding/json's struct/array defaults,
// since this method exists for human inspection, not round-tripping.
func (b BSON) JSON() (string, error) {
	m, err := b.Map()
	if err != nil {
		return "", err
	}
	j, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(j), nil
}
