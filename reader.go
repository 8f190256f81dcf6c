// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// byteReader is a positioned cursor over a borrowed byte buffer. It
// does not copy or own the bytes it reads and must not outlive the
// caller's buffer.
type byteReader struct {
	buf []byte
	pos int
}

func newByteReader(buf []byte) *byteReader {
	return &byteReader{buf: buf}
}

// offset returns the current cursor position.
func (r *byteReader) offset() int { return r.pos }

func (r *byteReader) readByte() (byte, error) {
	if r.pos+1 > len(r.buf) {
		return 0, errTruncated(r.pos, 1, len(r.buf))
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// readInto returns the next n bytes and advances the cursor past them.
// The returned slice aliases the reader's buffer.
func (r *byteReader) readInto(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, errTruncated(r.pos, n, len(r.buf))
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) readInt32() (int32, error) {
	b, err := r.readInto(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (r *byteReader) readUint32() (uint32, error) {
	b, err := r.readInto(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) readInt64() (int64, error) {
	b, err := r.readInto(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (r *byteReader) readDouble() (float64, error) {
	b, err := r.readInto(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// readCString reads bytes up to but not including the next 0x00, then
// consumes the 0x00.
func (r *byteReader) readCString() (string, error) {
	start := r.pos
	for i := r.pos; i < len(r.buf); i++ {
		if r.buf[i] == 0x00 {
			b := r.buf[start:i]
			if !utf8.Valid(b) {
				return "", errFormatf(start, "invalid UTF-8 in cstring")
			}
			r.pos = i + 1
			return string(b), nil
		}
	}
	return "", errTruncated(r.pos, 1, len(r.buf))
}

// readString reads a length-prefixed BSON string: int32 length L,
// L-1 payload bytes, then a mandatory 0x00 terminator.
func (r *byteReader) readString() (string, error) {
	l, err := r.readInt32()
	if err != nil {
		return "", err
	}
	if l < 1 {
		return "", errFormatf(r.pos-4, "invalid string length %d", l)
	}
	b, err := r.readInto(int(l) - 1)
	if err != nil {
		return "", err
	}
	term, err := r.readByte()
	if err != nil {
		return "", err
	}
	if term != 0x00 {
		return "", errFormatf(r.pos-1, "string missing NUL terminator")
	}
	if !utf8.Valid(b) {
		return "", errFormatf(r.pos, "invalid UTF-8 in string")
	}
	return string(b), nil
}

// readObjectID reads the 12 raw bytes of a BSON ObjectId.
func (r *byteReader) readObjectID() (ObjectID, error) {
	b, err := r.readInto(12)
	if err != nil {
		return ObjectID{}, err
	}
	var id ObjectID
	copy(id[:], b)
	return id, nil
}
