package lsf

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAttributesV3(t *testing.T) {
	var buf bytes.Buffer
	w := func(v interface{}) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }

	typeAndLength := func(typeID uint8, length uint32) uint32 {
		return uint32(typeID) | (length << 6)
	}

	w(nameHash(0, 0))
	w(typeAndLength(uint8(DTInt), 4))
	w(int32(-1)) // next attribute
	w(uint32(0)) // data offset

	attrs, err := readAttributesV3(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	assert.Equal(t, uint8(DTInt), attrs[0].typeID)
	assert.Equal(t, uint32(4), attrs[0].length)
	assert.Nil(t, attrs[0].nextAttributeIndex)
}

// TestReadAttributesV2ChainReconstruction mirrors a node with three
// attributes of lengths 4, 2, and 8: the linking pass must chain them via
// nextAttributeIndex and accumulate dataOffset from each preceding length.
func TestReadAttributesV2ChainReconstruction(t *testing.T) {
	var buf bytes.Buffer
	w := func(v interface{}) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }

	typeAndLength := func(typeID uint8, length uint32) uint32 {
		return uint32(typeID) | (length << 6)
	}

	nodeIndex := int32(0)
	w(nameHash(0, 0))
	w(typeAndLength(uint8(DTInt), 4))
	w(nodeIndex)

	w(nameHash(0, 1))
	w(typeAndLength(uint8(DTShort), 2))
	w(nodeIndex)

	w(nameHash(0, 2))
	w(typeAndLength(uint8(DTDouble), 8))
	w(nodeIndex)

	attrs, err := readAttributesV2(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, attrs, 3)

	assert.Equal(t, uint32(0), attrs[0].dataOffset)
	require.NotNil(t, attrs[0].nextAttributeIndex)
	assert.Equal(t, 1, *attrs[0].nextAttributeIndex)

	assert.Equal(t, uint32(4), attrs[1].dataOffset)
	require.NotNil(t, attrs[1].nextAttributeIndex)
	assert.Equal(t, 2, *attrs[1].nextAttributeIndex)

	assert.Equal(t, uint32(6), attrs[2].dataOffset)
	assert.Nil(t, attrs[2].nextAttributeIndex)
}

func TestReadAttributesDialectSelection(t *testing.T) {
	v3, err := readAttributes(make([]byte, attributeEntryV3Size), true)
	require.NoError(t, err)
	assert.Len(t, v3, 1)

	v2, err := readAttributes(make([]byte, attributeEntryV2Size), false)
	require.NoError(t, err)
	assert.Len(t, v2, 1)
}
