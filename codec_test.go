package bson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTopLevelHelloWorld(t *testing.T) {
	doc := Document{{Key: "hello", Value: String("world")}}
	got, err := encodeTopLevel(doc)
	require.NoError(t, err)
	want := []byte{
		0x16, 0x00, 0x00, 0x00,
		0x02, 'h', 'e', 'l', 'l', 'o', 0x00,
		0x06, 0x00, 0x00, 0x00, 'w', 'o', 'r', 'l', 'd', 0x00,
		0x00,
	}
	assert.Equal(t, want, got)
}

func TestDecodeTopLevelHelloWorld(t *testing.T) {
	buf := []byte{
		0x16, 0x00, 0x00, 0x00,
		0x02, 'h', 'e', 'l', 'l', 'o', 0x00,
		0x06, 0x00, 0x00, 0x00, 'w', 'o', 'r', 'l', 'd', 0x00,
		0x00,
	}
	doc, err := decodeTopLevel(buf)
	require.NoError(t, err)
	require.Len(t, doc, 1)
	assert.Equal(t, "hello", doc[0].Key)
	assert.Equal(t, String("world"), doc[0].Value)
}

func TestRoundTripAllTags(t *testing.T) {
	oid := ObjectID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	doc := Document{
		{Key: "double", Value: Double(5.05)},
		{Key: "string", Value: String("awesome")},
		{Key: "doc", Value: Document{{Key: "inner", Value: Int32(1)}}},
		{Key: "array", Value: Array{String("a"), String("b")}},
		{Key: "bin", Value: Binary{Subtype: BinaryGeneric, Data: []byte{1, 2, 3}}},
		{Key: "undef", Value: Undefined{}},
		{Key: "oid", Value: oid},
		{Key: "true", Value: Boolean(true)},
		{Key: "false", Value: Boolean(false)},
		{Key: "date", Value: DateTime(1986)},
		{Key: "null", Value: Null{}},
		{Key: "re", Value: Regexp{Pattern: "^a", Options: "i"}},
		{Key: "dbp", Value: DBPointer{Name: "coll", ID: oid}},
		{Key: "js", Value: JavaScript("function(){}")},
		{Key: "int32", Value: Int32(123)},
		{Key: "ts", Value: Timestamp{Seconds: 7, Increment: 9}},
		{Key: "int64", Value: Int64(1 << 40)},
		{Key: "max", Value: MaxKey{}},
		{Key: "min", Value: MinKey{}},
	}

	b, err := encodeTopLevel(doc)
	require.NoError(t, err)

	got, err := decodeTopLevel(b)
	require.NoError(t, err)
	require.Len(t, got, len(doc))
	for i, e := range doc {
		assert.Equal(t, e.Key, got[i].Key, "key at index %d", i)
		assert.Equal(t, e.Value, got[i].Value, "value at index %d", i)
	}
}

func TestEncodeSymbolDecodesToString(t *testing.T) {
	doc := Document{{Key: "sym", Value: Symbol("foo")}}
	b, err := encodeTopLevel(doc)
	require.NoError(t, err)
	got, err := decodeTopLevel(b)
	require.NoError(t, err)
	assert.Equal(t, String("foo"), got[0].Value)
}

func TestEncodeOldBinaryDoubleLengthPrefix(t *testing.T) {
	doc := Document{{Key: "b", Value: Binary{Subtype: BinaryOld, Data: []byte{0x01, 0x02, 0x03}}}}
	b, err := encodeTopLevel(doc)
	require.NoError(t, err)

	// doc len(int32), type byte, "b\x00", outer len(int32), subtype, inner len(int32), payload, doc-terminator
	outerLenOffset := 4 + 1 + len("b") + 1
	outerLen := int32(b[outerLenOffset]) | int32(b[outerLenOffset+1])<<8 |
		int32(b[outerLenOffset+2])<<16 | int32(b[outerLenOffset+3])<<24
	innerLenOffset := outerLenOffset + 4 + 1
	innerLen := int32(b[innerLenOffset]) | int32(b[innerLenOffset+1])<<8 |
		int32(b[innerLenOffset+2])<<16 | int32(b[innerLenOffset+3])<<24
	assert.Equal(t, outerLen-4, innerLen)

	got, err := decodeTopLevel(b)
	require.NoError(t, err)
	assert.Equal(t, Binary{Subtype: BinaryOld, Data: []byte{0x01, 0x02, 0x03}}, got[0].Value)
}

func TestDecodeOldBinaryInnerLengthMismatch(t *testing.T) {
	doc := Document{{Key: "b", Value: Binary{Subtype: BinaryOld, Data: []byte{0x01, 0x02, 0x03}}}}
	b, err := encodeTopLevel(doc)
	require.NoError(t, err)

	innerLenOffset := 4 + 1 + len("b") + 1 + 4 + 1
	b[innerLenOffset]++ // corrupt inner length

	_, err = decodeTopLevel(b)
	assert.Error(t, err)
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	buf := []byte{
		0x0c, 0x00, 0x00, 0x00,
		0xEE, 'x', 0x00, // unknown tag 0xEE
		0x00,
		0x00,
	}
	_, err := decodeTopLevel(buf)
	assert.Error(t, err)
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	doc := Document{{Key: "x", Value: Int32(1)}}
	b, err := encodeTopLevel(doc)
	require.NoError(t, err)
	b = append(b, 0xff)
	_, err = decodeTopLevel(b)
	assert.Error(t, err)
}

func TestDecodeRejectsShortDocumentLength(t *testing.T) {
	buf := []byte{0x04, 0x00, 0x00, 0x00, 0x00}
	_, err := decodeTopLevel(buf)
	assert.Error(t, err)
}

func TestDecodeRejectsLengthMismatch(t *testing.T) {
	buf := []byte{
		0x10, 0x00, 0x00, 0x00, // claims 16 bytes
		0x02, 'x', 0x00,
		0x02, 0x00, 0x00, 0x00, 0x00,
		0x00,
	}
	_, err := decodeTopLevel(buf)
	assert.Error(t, err)
}

func TestEncodeJavaScriptScopeUnimplemented(t *testing.T) {
	doc := Document{{Key: "x", Value: JavaScriptScope{Code: "f()", Scope: Document{}}}}
	_, err := encodeTopLevel(doc)
	assert.Error(t, err)
}

func TestEncodeDecimal128Unimplemented(t *testing.T) {
	doc := Document{{Key: "x", Value: Decimal128{}}}
	_, err := encodeTopLevel(doc)
	assert.Error(t, err)
}

func TestDecodeArrayDiscardsKeys(t *testing.T) {
	doc := Document{{Key: "a", Value: Array{Int32(1), Int32(2), Int32(3)}}}
	b, err := encodeTopLevel(doc)
	require.NoError(t, err)
	got, err := decodeTopLevel(b)
	require.NoError(t, err)
	arr, ok := got[0].Value.(Array)
	require.True(t, ok)
	assert.Equal(t, Array{Int32(1), Int32(2), Int32(3)}, arr)
}
