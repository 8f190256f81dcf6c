package bson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteReaderPrimitives(t *testing.T) {
	buf := []byte{
		0x7b, 0x00, 0x00, 0x00, // int32 123
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f, // double 1.0
		'h', 'i', 0x00, // cstring "hi"
	}
	r := newByteReader(buf)

	i, err := r.readInt32()
	require.NoError(t, err)
	assert.EqualValues(t, 123, i)

	f, err := r.readDouble()
	require.NoError(t, err)
	assert.Equal(t, 1.0, f)

	s, err := r.readCString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	assert.Equal(t, len(buf), r.offset())
}

func TestByteReaderTruncated(t *testing.T) {
	r := newByteReader([]byte{0x01, 0x02})
	_, err := r.readInt32()
	assert.Error(t, err)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestByteReaderCStringMissingTerminator(t *testing.T) {
	r := newByteReader([]byte{'a', 'b', 'c'})
	_, err := r.readCString()
	assert.Error(t, err)
}

func TestByteReaderStringRejectsMissingNUL(t *testing.T) {
	buf := []byte{0x02, 0x00, 0x00, 0x00, 'x', 'y'}
	r := newByteReader(buf)
	_, err := r.readString()
	assert.Error(t, err)
}

func TestByteReaderStringRejectsZeroLength(t *testing.T) {
	buf := []byte{0x00, 0x00, 0x00, 0x00}
	r := newByteReader(buf)
	_, err := r.readString()
	assert.Error(t, err)
}

func TestByteReaderObjectID(t *testing.T) {
	buf := make([]byte, 12)
	for i := range buf {
		buf[i] = byte(i)
	}
	r := newByteReader(buf)
	id, err := r.readObjectID()
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		assert.Equal(t, byte(i), id[i])
	}
}
