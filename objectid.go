// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"os"
	"sync/atomic"
	"time"
)

// ObjectID is an opaque 12-byte BSON identifier. Parsing and
// formatting it as the conventional 24-character hex string is
// outside this package's scope (§1); ObjectID here is only the raw
// 12-byte primitive the codec and adapter move around.
type ObjectID [12]byte

func (ObjectID) Tag() Tag { return TagObjectID }

// lastObjectIDCount is the incrementing counter baked into the low
// bytes of a generated ObjectID. Use NewObjectID to get the next one.
var lastObjectIDCount int32

// NewObjectID creates a unique, roughly time-ordered ObjectID using
// the same byte layout MongoDB uses:
//
//	+---+---+---+---+---+---+---+---+---+---+---+---+
//	|       A       |     B     |   C   |     D     |
//	+---+---+---+---+---+---+---+---+---+---+---+---+
//	  0   1   2   3   4   5   6   7   8   9  10  11
//
// A = unix time (big endian), B = first 3 bytes of the md5 of the
// hostname, C = pid, D = incrementing counter (big endian).
func NewObjectID() (ObjectID, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 12))
	if err := binary.Write(buf, binary.BigEndian, int32(time.Now().Unix())); err != nil {
		return ObjectID{}, err
	}
	name, err := os.Hostname()
	if err != nil {
		return ObjectID{}, err
	}
	hash := md5.New()
	if _, err := hash.Write([]byte(name)); err != nil {
		return ObjectID{}, err
	}
	if _, err := buf.Write(hash.Sum(nil)[:3]); err != nil {
		return ObjectID{}, err
	}
	if err := binary.Write(buf, binary.BigEndian, int16(os.Getpid())); err != nil {
		return ObjectID{}, err
	}
	// Wrap at 2^24 because only 3 bytes are used.
	cnt := atomic.AddInt32(&lastObjectIDCount, 1) % (1 << 24)
	cntbuf := make([]byte, 4)
	binary.BigEndian.PutUint32(cntbuf, uint32(cnt))
	if _, err := buf.Write(cntbuf[1:]); err != nil {
		return ObjectID{}, err
	}
	var id ObjectID
	copy(id[:], buf.Bytes())
	return id, nil
}
