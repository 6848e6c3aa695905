package lsf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clemarescx/bg3d/internal/binreader"
)

func TestBuildAssemblesRegionsAndChildren(t *testing.T) {
	names := namePool{{"save"}, {"origin"}}

	a := assembler{
		names: names,
		nodeInfos: []nodeInfo{
			{nameBucket: 0, nameSlot: 0, parentIndex: nil, firstAttributeIndex: nil},
			{nameBucket: 1, nameSlot: 0, parentIndex: intPtr(0), firstAttributeIndex: nil},
		},
		decoder: valueDecoder{},
	}

	res, err := a.build(binreader.New(nil))
	require.NoError(t, err)

	require.Contains(t, res.Regions, "save")
	rootIdx := res.Regions["save"]
	assert.Equal(t, NodeKindRegion, res.Nodes[rootIdx].Kind)
	assert.Equal(t, []int{1}, res.Nodes[rootIdx].Children["origin"])
	assert.Equal(t, NodeKindNode, res.Nodes[1].Kind)
}

func TestBuildRejectsOutOfRangeParent(t *testing.T) {
	a := assembler{
		names: namePool{{"orphan"}},
		nodeInfos: []nodeInfo{
			{nameBucket: 0, nameSlot: 0, parentIndex: intPtr(5)},
		},
	}

	_, err := a.build(binreader.New(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadParentRef)
}

func TestBuildRejectsBadNameReference(t *testing.T) {
	a := assembler{
		names: namePool{},
		nodeInfos: []nodeInfo{
			{nameBucket: 9, nameSlot: 9},
		},
	}

	_, err := a.build(binreader.New(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadNameRef)
}

func TestCollectAttributesDetectsCycle(t *testing.T) {
	// Two attributes pointing at each other; enough reader bytes that the
	// cycle guard, not data exhaustion, is what ends the walk.
	a := assembler{
		names: namePool{{"a"}, {"b"}},
		attributes: []attributeInfo{
			{nameBucket: 0, nameSlot: 0, typeID: uint8(DTByte), nextAttributeIndex: intPtr(1)},
			{nameBucket: 1, nameSlot: 0, typeID: uint8(DTByte), nextAttributeIndex: intPtr(0)},
		},
	}

	_, err := a.collectAttributes(intPtr(0), binreader.New([]byte{0, 0, 0, 0, 0}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadAttributeRef)
}
