// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCoercion(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	src := Map{
		"null":    nil,
		"bool":    true,
		"int":     int(123),
		"int8":    int8(123),
		"int16":   int16(123),
		"int32":   int32(123),
		"int64":   int64(123),
		"float64": float64(123.123),
		"string":  "foo",
		"gotime":  now,
	}
	want := map[string]interface{}{
		"null":    Null{},
		"bool":    true,
		"int":     int32(123),
		"int8":    int32(123),
		"int16":   int32(123),
		"int32":   int32(123),
		"int64":   int32(123),
		"float64": 123.123,
		"string":  "foo",
		"gotime":  now,
	}

	b, err := Encode(src)
	require.NoError(t, err)
	got, err := Decode(b)
	require.NoError(t, err)

	gotMap := got.(map[string]interface{})
	gotTime := gotMap["gotime"].(time.Time)
	assert.True(t, want["gotime"].(time.Time).Equal(gotTime))
	delete(gotMap, "gotime")
	delete(want, "gotime")
	assert.Equal(t, want, gotMap)
}

func TestReachCoerce(t *testing.T) {
	oid := ObjectID{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	src := Map{
		"foo": Map{
			"Float":     123.123,
			"String":    "foo",
			"Binary":    Binary{Subtype: BinaryGeneric, Data: []byte{0x00, 0x01}},
			"ObjectID":  oid,
			"Bool":      true,
			"DateTime":  time.Unix(0, 123*int64(time.Millisecond)).UTC(),
			"Int32":     int32(123),
			"Int64":     Int64(123),
		},
	}
	b, err := Encode(src)
	require.NoError(t, err)
	root, err := Decode(b)
	require.NoError(t, err)

	var floatTest float64
	ok, err := Reach(root, &floatTest, "foo", "Float")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 123.123, floatTest)

	var stringTest string
	ok, err = Reach(root, &stringTest, "foo", "String")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "foo", stringTest)

	var binaryTest []byte
	ok, err = Reach(root, &binaryTest, "foo", "Binary", "Data")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x01}, binaryTest)

	var oidTest ObjectID
	ok, err = Reach(root, &oidTest, "foo", "ObjectID")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, oid, oidTest)

	var boolTest bool
	ok, err = Reach(root, &boolTest, "foo", "Bool")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, boolTest)

	var timeTest time.Time
	ok, err = Reach(root, &timeTest, "foo", "DateTime")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 123, timeTest.UnixNano()/int64(time.Millisecond))

	var int32Test0 int32
	ok, err = Reach(root, &int32Test0, "foo", "Int32")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 123, int32Test0)

	var int32Test1 int64
	ok, err = Reach(root, &int32Test1, "foo", "Int32")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 123, int32Test1)

	var int64Test int64
	ok, err = Reach(root, &int64Test, "foo", "Int64")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 123, int64Test)

	ok, err = Reach(root, &stringTest, "foo", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
