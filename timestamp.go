package bson

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"
)

// Timestamp is the BSON internal timestamp type: a seconds component
// and an increment used to order events within the same second. On
// the wire the increment is written before the seconds (see
// codec.go); logically the two are independent uint32 fields.
type Timestamp struct {
	Seconds   uint32
	Increment uint32
}

func (Timestamp) Tag() Tag { return TagTimestamp }

var (
	timestampCounter  uint32
	timestampSeedOnce sync.Once
)

// seedTimestampCounter seeds the process-wide increment counter from a
// cryptographically secure random 32-bit value, once.
func seedTimestampCounter() {
	var b [4]byte
	if _, err := rand.Read(b[:]); err == nil {
		atomic.StoreUint32(&timestampCounter, binary.LittleEndian.Uint32(b[:]))
	}
}

// NewTimestamp allocates a Timestamp with the current wall-clock
// second and the next increment from the process-wide monotonic
// counter. The counter wraps modulo 2^32.
func NewTimestamp() Timestamp {
	timestampSeedOnce.Do(seedTimestampCounter)
	inc := atomic.AddUint32(&timestampCounter, 1)
	return Timestamp{Seconds: uint32(time.Now().Unix()), Increment: inc}
}
