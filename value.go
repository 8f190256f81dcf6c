// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import (
	"fmt"
	"strings"
)

// Tag is a BSON element type byte. It is the sole key used to select
// a codec; the Value tree is a closed sum over these tags, not a
// class hierarchy with dynamic dispatch.
type Tag byte

// Wire type tags. Values come from the BSON specification; the grammar
// embedded in doc.go lists all of them except Decimal128 (0x13).
const (
	TagDouble          Tag = 0x01
	TagString          Tag = 0x02
	TagDocument        Tag = 0x03
	TagArray           Tag = 0x04
	TagBinary          Tag = 0x05
	TagUndefined       Tag = 0x06 // Deprecated.
	TagObjectID        Tag = 0x07
	TagBoolean         Tag = 0x08
	TagDateTime        Tag = 0x09
	TagNull            Tag = 0x0A
	TagRegexp          Tag = 0x0B
	TagDBPointer       Tag = 0x0C // Deprecated.
	TagJavaScript      Tag = 0x0D
	TagSymbol          Tag = 0x0E
	TagJavaScriptScope Tag = 0x0F // Reserved, unimplemented.
	TagInt32           Tag = 0x10
	TagTimestamp       Tag = 0x11
	TagInt64           Tag = 0x12
	TagDecimal128      Tag = 0x13 // Reserved, unimplemented.
	TagMaxKey          Tag = 0x7F
	TagMinKey          Tag = 0xFF
)

// Value is any BSON-typed value in the Type Model. Every concrete
// type is immutable once constructed and reports its own wire tag.
type Value interface {
	Tag() Tag
}

// Double is the BSON floating point type.
type Double float64

func (Double) Tag() Tag { return TagDouble }

// String is the BSON UTF-8 string type.
type String string

func (String) Tag() Tag { return TagString }

// Element is one (key, value) pair of a Document.
type Element struct {
	Key   string
	Value Value
}

// Document is an ordered mapping from key to Value. Order is
// insertion order and is preserved on encode and reconstructed in
// traversal order on decode.
type Document []Element

func (Document) Tag() Tag { return TagDocument }

// String renders a compact debug form; not used by the codec itself.
func (d Document) String() string {
	var sb strings.Builder
	sb.WriteString("Document[")
	for i, e := range d {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%v", e.Key, e.Value)
	}
	sb.WriteString("]")
	return sb.String()
}

// Array is an ordered sequence of values. On the wire it is a
// Document whose keys are "0","1",... in order; decode discards the
// keys and preserves only position.
type Array []Value

func (Array) Tag() Tag { return TagArray }

func (a Array) String() string {
	var sb strings.Builder
	sb.WriteString("Array[")
	for i, v := range a {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%v", v)
	}
	sb.WriteString("]")
	return sb.String()
}

// BinarySubtype discriminates the semantic kind of a Binary payload.
type BinarySubtype byte

const (
	BinaryGeneric     BinarySubtype = 0x00
	BinaryFunction    BinarySubtype = 0x01
	BinaryOld         BinarySubtype = 0x02 // Carries a redundant inner length.
	BinaryUUIDOld     BinarySubtype = 0x03
	BinaryUUID        BinarySubtype = 0x04
	BinaryMD5         BinarySubtype = 0x05
	BinaryUserDefined BinarySubtype = 0x80
)

// Binary is an opaque byte payload tagged with a subtype.
type Binary struct {
	Subtype BinarySubtype
	Data    []byte
}

func (Binary) Tag() Tag { return TagBinary }

// Undefined is the deprecated BSON undefined singleton.
type Undefined struct{}

func (Undefined) Tag() Tag { return TagUndefined }

// Boolean is the BSON boolean type.
type Boolean bool

func (Boolean) Tag() Tag { return TagBoolean }

// DateTime is milliseconds since the Unix epoch, always UTC.
type DateTime int64

func (DateTime) Tag() Tag { return TagDateTime }

// Null is the BSON null singleton.
type Null struct{}

func (Null) Tag() Tag { return TagNull }

// Regexp is a BSON regular expression: a cstring pattern and a
// cstring options string.
type Regexp struct {
	Pattern string
	Options string
}

func (Regexp) Tag() Tag { return TagRegexp }

// DBPointer is the deprecated BSON DBPointer type: a collection name
// plus an ObjectID.
type DBPointer struct {
	Name string
	ID   ObjectID
}

func (DBPointer) Tag() Tag { return TagDBPointer }

// JavaScript is BSON code without scope.
type JavaScript string

func (JavaScript) Tag() Tag { return TagJavaScript }

// Symbol only ever appears as an explicit encode-time value: the
// codec always decodes wire tag 0x0E to a plain String (see
// codec.go), so there is no loss-free round trip through Symbol.
type Symbol string

func (Symbol) Tag() Tag { return TagSymbol }

// JavaScriptScope is BSON code with scope (tag 0x0F). Reserved in the
// type registry; encode and decode both fail on it (§1 Non-goals).
type JavaScriptScope struct {
	Code  string
	Scope Document
}

func (JavaScriptScope) Tag() Tag { return TagJavaScriptScope }

// Int32 is a 4-byte little-endian signed integer.
type Int32 int32

func (Int32) Tag() Tag { return TagInt32 }

// Int64 is an 8-byte little-endian signed integer.
type Int64 int64

func (Int64) Tag() Tag { return TagInt64 }

// Decimal128 is BSON's 128-bit decimal type (tag 0x13). Reserved in
// the type registry; encode and decode both fail on it (§1 Non-goals).
type Decimal128 struct {
	Hi, Lo uint64
}

func (Decimal128) Tag() Tag { return TagDecimal128 }

// MaxKey compares greater than all other BSON values.
type MaxKey struct{}

func (MaxKey) Tag() Tag { return TagMaxKey }

// MinKey compares less than all other BSON values.
type MinKey struct{}

func (MinKey) Tag() Tag { return TagMinKey }
