// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import (
	"encoding/binary"
	"math"
)

// byteWriter is a pre-sized output buffer with a write cursor. It
// mirrors byteReader's primitives. The buffer is allocated exactly to
// the final document size computed ahead of time by the codec, so a
// write never reallocates and a failed encode never lets partial
// bytes escape.
type byteWriter struct {
	buf []byte
	pos int
}

func newByteWriter(size int) *byteWriter {
	return &byteWriter{buf: make([]byte, size)}
}

// bytes returns the fully written buffer.
func (w *byteWriter) bytes() []byte { return w.buf }

func (w *byteWriter) writeByte(b byte) {
	w.buf[w.pos] = b
	w.pos++
}

func (w *byteWriter) writeBytes(b []byte) {
	w.pos += copy(w.buf[w.pos:], b)
}

func (w *byteWriter) writeInt32(v int32) {
	binary.LittleEndian.PutUint32(w.buf[w.pos:], uint32(v))
	w.pos += 4
}

func (w *byteWriter) writeUint32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
}

func (w *byteWriter) writeInt64(v int64) {
	binary.LittleEndian.PutUint64(w.buf[w.pos:], uint64(v))
	w.pos += 8
}

func (w *byteWriter) writeDouble(v float64) {
	binary.LittleEndian.PutUint64(w.buf[w.pos:], math.Float64bits(v))
	w.pos += 8
}

// writeCString writes the UTF-8 bytes of s then a 0x00. The caller
// guarantees s has no interior NUL.
func (w *byteWriter) writeCString(s string) {
	w.writeBytes([]byte(s))
	w.writeByte(0x00)
}

// writeString writes int32(len(utf8(s))+1), the UTF-8 bytes, then 0x00.
func (w *byteWriter) writeString(s string) {
	w.writeInt32(int32(len(s) + 1))
	w.writeBytes([]byte(s))
	w.writeByte(0x00)
}

func (w *byteWriter) writeObjectID(id ObjectID) {
	w.writeBytes(id[:])
}
