package lsf

import "github.com/clemarescx/bg3d/internal/binreader"

// attributeInfo is the normalized shape both the V2 and V3 on-disk
// attribute-entry dialects are promoted to. After this normalization the
// tree assembler only ever walks a next_attribute_index chain with
// explicit data offsets, regardless of which dialect produced it.
type attributeInfo struct {
	nameBucket         uint16
	nameSlot           uint16
	typeID             uint8
	length             uint32
	dataOffset         uint32
	nextAttributeIndex *int
}

const (
	attributeEntryV3Size = 16
	attributeEntryV2Size = 12
)

func readAttributes(data []byte, long bool) ([]attributeInfo, error) {
	if long {
		return readAttributesV3(data)
	}
	return readAttributesV2(data)
}

func readAttributesV3(data []byte) ([]attributeInfo, error) {
	count := len(data) / attributeEntryV3Size
	r := binreader.New(data)
	out := make([]attributeInfo, 0, count)
	for i := 0; i < count; i++ {
		nameHash, err := r.ReadU32()
		if err != nil {
			return nil, wrapf(err, "failed reading attribute entry %d (v3)", i)
		}
		typeAndLength, err := r.ReadU32()
		if err != nil {
			return nil, wrapf(err, "failed reading attribute entry %d (v3)", i)
		}
		nextAttributeIndex, err := r.ReadI32()
		if err != nil {
			return nil, wrapf(err, "failed reading attribute entry %d (v3)", i)
		}
		offset, err := r.ReadU32()
		if err != nil {
			return nil, wrapf(err, "failed reading attribute entry %d (v3)", i)
		}
		out = append(out, attributeInfo{
			nameBucket:         uint16(nameHash >> 16),
			nameSlot:           uint16(nameHash & 0xffff),
			typeID:             uint8(typeAndLength & 0x3f),
			length:             typeAndLength >> 6,
			dataOffset:         offset,
			nextAttributeIndex: optionalIndex(nextAttributeIndex),
		})
	}
	return out, nil
}

// readAttributesV2 parses the V2 attribute dialect, which carries neither
// next_attribute_index nor an explicit data offset, and reconstructs both:
// a prev-attribute-per-node table is used to patch forward links as each
// node's attributes stream by, and data offsets accumulate from the
// previous attribute's offset + length.
func readAttributesV2(data []byte) ([]attributeInfo, error) {
	count := len(data) / attributeEntryV2Size
	r := binreader.New(data)

	out := make([]attributeInfo, 0, count)
	// prevByNode[nodeIndex+1] is the index of the last attribute seen for
	// that node, offset by one so node index -1 has its own sentinel slot.
	var prevByNode []*int
	var dataOffset uint32

	for i := 0; i < count; i++ {
		nameHash, err := r.ReadU32()
		if err != nil {
			return nil, wrapf(err, "failed reading attribute entry %d (v2)", i)
		}
		typeAndLength, err := r.ReadU32()
		if err != nil {
			return nil, wrapf(err, "failed reading attribute entry %d (v2)", i)
		}
		nodeIndex, err := r.ReadI32()
		if err != nil {
			return nil, wrapf(err, "failed reading attribute entry %d (v2)", i)
		}

		resolved := attributeInfo{
			nameBucket: uint16(nameHash >> 16),
			nameSlot:   uint16(nameHash & 0xffff),
			typeID:     uint8(typeAndLength & 0x3f),
			length:     typeAndLength >> 6,
			dataOffset: dataOffset,
		}

		slot := int(nodeIndex) + 1
		if slot < 0 {
			// Any node index below -1 shares the sentinel slot of -1.
			slot = 0
		}
		for len(prevByNode) <= slot {
			prevByNode = append(prevByNode, nil)
		}
		if prevByNode[slot] != nil {
			out[*prevByNode[slot]].nextAttributeIndex = intPtr(i)
		}
		idx := i
		prevByNode[slot] = &idx

		dataOffset += resolved.length
		out = append(out, resolved)
	}

	return out, nil
}

func intPtr(v int) *int { return &v }
