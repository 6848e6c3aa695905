package lsf

import "github.com/clemarescx/bg3d/internal/binreader"

// nodeInfo is the normalized shape both the V2 and V3 on-disk node-entry
// dialects are promoted to before the tree assembler ever sees them.
type nodeInfo struct {
	nameBucket          uint16
	nameSlot            uint16
	parentIndex         *int
	firstAttributeIndex *int
}

const (
	nodeEntryV3Size = 16
	nodeEntryV2Size = 12
)

// readNodes parses the nodes section into normalized nodeInfo records.
// long selects the V3 (extended, sibling-aware) dialect over V2.
func readNodes(data []byte, long bool) ([]nodeInfo, error) {
	if long {
		return readNodesV3(data)
	}
	return readNodesV2(data)
}

func readNodesV3(data []byte) ([]nodeInfo, error) {
	count := len(data) / nodeEntryV3Size
	r := binreader.New(data)
	out := make([]nodeInfo, 0, count)
	for i := 0; i < count; i++ {
		nameHash, err := r.ReadU32()
		if err != nil {
			return nil, wrapf(err, "failed reading node entry %d (v3)", i)
		}
		parentIndex, err := r.ReadI32()
		if err != nil {
			return nil, wrapf(err, "failed reading node entry %d (v3)", i)
		}
		// next_sibling_index is read to advance the cursor but discarded:
		// the tree assembler rebuilds child lists from parent links.
		if _, err := r.ReadI32(); err != nil {
			return nil, wrapf(err, "failed reading node entry %d (v3)", i)
		}
		firstAttributeIndex, err := r.ReadI32()
		if err != nil {
			return nil, wrapf(err, "failed reading node entry %d (v3)", i)
		}
		out = append(out, nodeInfo{
			nameBucket:          uint16(nameHash >> 16),
			nameSlot:            uint16(nameHash & 0xffff),
			parentIndex:         optionalIndex(parentIndex),
			firstAttributeIndex: optionalIndex(firstAttributeIndex),
		})
	}
	return out, nil
}

func readNodesV2(data []byte) ([]nodeInfo, error) {
	count := len(data) / nodeEntryV2Size
	r := binreader.New(data)
	out := make([]nodeInfo, 0, count)
	for i := 0; i < count; i++ {
		nameHash, err := r.ReadU32()
		if err != nil {
			return nil, wrapf(err, "failed reading node entry %d (v2)", i)
		}
		firstAttributeIndex, err := r.ReadI32()
		if err != nil {
			return nil, wrapf(err, "failed reading node entry %d (v2)", i)
		}
		parentIndex, err := r.ReadI32()
		if err != nil {
			return nil, wrapf(err, "failed reading node entry %d (v2)", i)
		}
		out = append(out, nodeInfo{
			nameBucket:          uint16(nameHash >> 16),
			nameSlot:            uint16(nameHash & 0xffff),
			parentIndex:         optionalIndex(parentIndex),
			firstAttributeIndex: optionalIndex(firstAttributeIndex),
		})
	}
	return out, nil
}

// optionalIndex converts a signed on-disk index, where -1 (or any
// negative value) means "absent", to an *int.
func optionalIndex(v int32) *int {
	if v < 0 {
		return nil
	}
	i := int(v)
	return &i
}
