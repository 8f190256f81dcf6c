// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import "strconv"

// maxDocLen bounds how large a single declared document length may be
// before decode refuses to even attempt it.
const maxDocLen = 64 * 1024 * 1024

// byteLength returns the number of bytes encode will write for v's
// payload alone (no type byte, no key). Document and Array framing is
// included since their payload *is* a whole nested document.
func byteLength(v Value) (int, error) {
	switch vt := v.(type) {
	case Double:
		return 8, nil
	case String:
		return 4 + len(string(vt)) + 1, nil
	case Document:
		return documentByteLength(vt)
	case Array:
		return arrayByteLength(vt)
	case Binary:
		l := 4 + 1 + len(vt.Data)
		if vt.Subtype == BinaryOld {
			l += 4
		}
		return l, nil
	case Undefined:
		return 0, nil
	case ObjectID:
		return 12, nil
	case Boolean:
		return 1, nil
	case DateTime:
		return 8, nil
	case Null:
		return 0, nil
	case Regexp:
		return len(vt.Pattern) + 1 + len(vt.Options) + 1, nil
	case DBPointer:
		return 4 + len(vt.Name) + 1 + 12, nil
	case JavaScript:
		return 4 + len(string(vt)) + 1, nil
	case Symbol:
		return 4 + len(string(vt)) + 1, nil
	case JavaScriptScope:
		return 0, errUnimplementedTag(TagJavaScriptScope)
	case Int32:
		return 4, nil
	case Timestamp:
		return 8, nil
	case Int64:
		return 8, nil
	case Decimal128:
		return 0, errUnimplementedTag(TagDecimal128)
	case MaxKey, MinKey:
		return 0, nil
	}
	return 0, errFormatf(-1, "unknown value type %T", v)
}

// elementSize is the full on-wire size of one (type byte, cstring
// key, payload) element.
func elementSize(key string, v Value) (int, error) {
	vl, err := byteLength(v)
	if err != nil {
		return 0, err
	}
	return 1 + len(key) + 1 + vl, nil
}

func documentByteLength(doc Document) (int, error) {
	total := 4 + 1
	for _, e := range doc {
		sz, err := elementSize(e.Key, e.Value)
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}

func arrayByteLength(a Array) (int, error) {
	total := 4 + 1
	for i, v := range a {
		sz, err := elementSize(strconv.Itoa(i), v)
		if err != nil {
			return 0, err
		}
		total += sz
	}
	return total, nil
}

// encodeTopLevel computes doc's exact byte length, allocates a
// pre-sized Writer, and encodes into it. No partial bytes ever escape
// a failed encode: the writer isn't even allocated until the length
// is known to be computable.
func encodeTopLevel(doc Document) ([]byte, error) {
	l, err := documentByteLength(doc)
	if err != nil {
		return nil, err
	}
	w := newByteWriter(l)
	if err := encodeDocument(w, doc); err != nil {
		return nil, err
	}
	return w.bytes(), nil
}

func encodeDocument(w *byteWriter, doc Document) error {
	l, err := documentByteLength(doc)
	if err != nil {
		return err
	}
	w.writeInt32(int32(l))
	for _, e := range doc {
		if err := encodeElement(w, e.Key, e.Value); err != nil {
			return err
		}
	}
	w.writeByte(0x00)
	return nil
}

func encodeArray(w *byteWriter, a Array) error {
	l, err := arrayByteLength(a)
	if err != nil {
		return err
	}
	w.writeInt32(int32(l))
	for i, v := range a {
		if err := encodeElement(w, strconv.Itoa(i), v); err != nil {
			return err
		}
	}
	w.writeByte(0x00)
	return nil
}

func encodeElement(w *byteWriter, key string, v Value) error {
	w.writeByte(byte(v.Tag()))
	w.writeCString(key)
	return encodeValue(w, v)
}

func encodeValue(w *byteWriter, v Value) error {
	switch vt := v.(type) {
	case Double:
		w.writeDouble(float64(vt))
		return nil
	case String:
		w.writeString(string(vt))
		return nil
	case Document:
		return encodeDocument(w, vt)
	case Array:
		return encodeArray(w, vt)
	case Binary:
		return encodeBinary(w, vt)
	case Undefined:
		return nil
	case ObjectID:
		w.writeObjectID(vt)
		return nil
	case Boolean:
		if vt {
			w.writeByte(0x01)
		} else {
			w.writeByte(0x00)
		}
		return nil
	case DateTime:
		w.writeInt64(int64(vt))
		return nil
	case Null:
		return nil
	case Regexp:
		w.writeCString(vt.Pattern)
		w.writeCString(vt.Options)
		return nil
	case DBPointer:
		w.writeString(vt.Name)
		w.writeObjectID(vt.ID)
		return nil
	case JavaScript:
		w.writeString(string(vt))
		return nil
	case Symbol:
		w.writeString(string(vt))
		return nil
	case JavaScriptScope:
		return errUnimplementedTag(TagJavaScriptScope)
	case Int32:
		w.writeInt32(int32(vt))
		return nil
	case Timestamp:
		// Wire order is increment then seconds, despite the logical
		// (seconds, increment) field order.
		w.writeUint32(vt.Increment)
		w.writeUint32(vt.Seconds)
		return nil
	case Int64:
		w.writeInt64(int64(vt))
		return nil
	case Decimal128:
		return errUnimplementedTag(TagDecimal128)
	case MaxKey, MinKey:
		return nil
	}
	return errFormatf(-1, "unknown value type %T", v)
}

func encodeBinary(w *byteWriter, b Binary) error {
	tot := len(b.Data)
	if b.Subtype == BinaryOld {
		tot += 4
	}
	w.writeInt32(int32(tot))
	w.writeByte(byte(b.Subtype))
	if b.Subtype == BinaryOld {
		w.writeInt32(int32(tot - 4))
	}
	w.writeBytes(b.Data)
	return nil
}

// decodeTopLevel decodes exactly one document from b, failing if any
// bytes remain afterward.
func decodeTopLevel(b []byte) (Document, error) {
	r := newByteReader(b)
	doc, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}
	if r.offset() != len(b) {
		return nil, errFormatf(r.offset(), "trailing bytes after document: %d unread", len(b)-r.offset())
	}
	return doc, nil
}

func decodeDocument(r *byteReader) (Document, error) {
	start := r.offset()
	l, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	if l < 5 {
		return nil, errFormatf(start, "document length %d below minimum 5", l)
	}
	if int(l) > maxDocLen {
		return nil, errFormatf(start, "document length %d exceeds maximum %d", l, maxDocLen)
	}
	var doc Document
	for {
		t, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if t == 0x00 {
			break
		}
		key, err := r.readCString()
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(r, Tag(t))
		if err != nil {
			return nil, err
		}
		doc = append(doc, Element{Key: key, Value: val})
	}
	if r.offset()-start != int(l) {
		return nil, errFormatf(start, "document length mismatch: declared %d, actual %d", l, r.offset()-start)
	}
	return doc, nil
}

// decodeArray has identical framing to decodeDocument; it discards
// keys and appends values in the order encountered. It does not
// verify that keys are sequential decimal strings (§4.3, §9).
func decodeArray(r *byteReader) (Array, error) {
	start := r.offset()
	l, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	if l < 5 {
		return nil, errFormatf(start, "array length %d below minimum 5", l)
	}
	if int(l) > maxDocLen {
		return nil, errFormatf(start, "array length %d exceeds maximum %d", l, maxDocLen)
	}
	var arr Array
	for {
		t, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if t == 0x00 {
			break
		}
		if _, err := r.readCString(); err != nil {
			return nil, err
		}
		val, err := decodeValue(r, Tag(t))
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if r.offset()-start != int(l) {
		return nil, errFormatf(start, "array length mismatch: declared %d, actual %d", l, r.offset()-start)
	}
	return arr, nil
}

func decodeValue(r *byteReader, t Tag) (Value, error) {
	switch t {
	case TagDouble:
		f, err := r.readDouble()
		if err != nil {
			return nil, err
		}
		return Double(f), nil
	case TagString:
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case TagDocument:
		return decodeDocument(r)
	case TagArray:
		return decodeArray(r)
	case TagBinary:
		return decodeBinary(r)
	case TagUndefined:
		return Undefined{}, nil
	case TagObjectID:
		return r.readObjectID()
	case TagBoolean:
		b, err := r.readByte()
		if err != nil {
			return nil, err
		}
		return Boolean(b == 0x01), nil
	case TagDateTime:
		v, err := r.readInt64()
		if err != nil {
			return nil, err
		}
		return DateTime(v), nil
	case TagNull:
		return Null{}, nil
	case TagRegexp:
		p, err := r.readCString()
		if err != nil {
			return nil, err
		}
		o, err := r.readCString()
		if err != nil {
			return nil, err
		}
		return Regexp{Pattern: p, Options: o}, nil
	case TagDBPointer:
		name, err := r.readString()
		if err != nil {
			return nil, err
		}
		id, err := r.readObjectID()
		if err != nil {
			return nil, err
		}
		return DBPointer{Name: name, ID: id}, nil
	case TagJavaScript:
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		return JavaScript(s), nil
	case TagSymbol:
		// Symbol decodes to a plain String value; there is no
		// loss-free round trip of a Symbol-tagged input.
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case TagJavaScriptScope:
		return nil, errUnimplementedTag(TagJavaScriptScope)
	case TagInt32:
		v, err := r.readInt32()
		if err != nil {
			return nil, err
		}
		return Int32(v), nil
	case TagTimestamp:
		inc, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		sec, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		return Timestamp{Seconds: sec, Increment: inc}, nil
	case TagInt64:
		v, err := r.readInt64()
		if err != nil {
			return nil, err
		}
		return Int64(v), nil
	case TagDecimal128:
		return nil, errUnimplementedTag(TagDecimal128)
	case TagMaxKey:
		return MaxKey{}, nil
	case TagMinKey:
		return MinKey{}, nil
	}
	return nil, errUnknownTag(byte(t))
}

func decodeBinary(r *byteReader) (Value, error) {
	lenOffset := r.offset()
	outer, err := r.readInt32()
	if err != nil {
		return nil, err
	}
	if outer < 0 {
		return nil, errFormatf(lenOffset, "negative binary length %d", outer)
	}
	sub, err := r.readByte()
	if err != nil {
		return nil, err
	}
	subtype := BinarySubtype(sub)
	tot := int(outer)
	if subtype == BinaryOld {
		innerOffset := r.offset()
		inner, err := r.readInt32()
		if err != nil {
			return nil, err
		}
		if int(inner) != tot-4 {
			return nil, errFormatf(innerOffset, "old binary inner length %d does not match outer-4 %d", inner, tot-4)
		}
		tot -= 4
	}
	data, err := r.readInto(tot)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return Binary{Subtype: subtype, Data: buf}, nil
}
