package lsf

import (
	"io"

	"github.com/clemarescx/bg3d/internal/binreader"
)

// assembler composes node infos, attribute infos, and the names pool into
// the final Resource. It owns no state beyond its inputs and
// is invoked exactly once per resource read.
type assembler struct {
	names      namePool
	nodeInfos  []nodeInfo
	attributes []attributeInfo
	decoder    valueDecoder
}

func (a assembler) build(valuesReader *binreader.Reader) (*Resource, error) {
	nodes := make([]Node, 0, len(a.nodeInfos))
	regions := make(map[string]int)

	for i, ni := range a.nodeInfos {
		name, err := a.resolveName(ni.nameBucket, ni.nameSlot)
		if err != nil {
			return nil, wrapf(err, "node %d", i)
		}

		attrs, err := a.collectAttributes(ni.firstAttributeIndex, valuesReader)
		if err != nil {
			return nil, wrapf(err, "node %d (%q)", i, name)
		}

		if ni.parentIndex == nil {
			idx := len(nodes)
			nodes = append(nodes, newNode(NodeKindRegion, name, nil, attrs))
			regions[name] = idx
			continue
		}

		parentIdx := *ni.parentIndex
		if parentIdx < 0 || parentIdx >= len(nodes) {
			return nil, wrapf(ErrBadParentRef, "node %d (%q) references parent %d", i, name, parentIdx)
		}

		idx := len(nodes)
		nodes = append(nodes, newNode(NodeKindNode, name, &parentIdx, attrs))
		nodes[parentIdx].appendChild(name, idx)
	}

	return &Resource{
		Regions: regions,
		Nodes:   nodes,
	}, nil
}

func (a assembler) resolveName(bucket, slot uint16) (string, error) {
	name, ok := a.names.lookup(bucket, slot)
	if !ok {
		return "", wrapf(ErrBadNameRef, "bucket %d slot %d", bucket, slot)
	}
	return name, nil
}

// collectAttributes walks the attribute chain starting at firstIndex,
// decoding each value and accumulating name -> NodeAttribute. Duplicate
// attribute names overwrite, matching the source's map insertion
// semantics; insertion order is not preserved or exposed.
func (a assembler) collectAttributes(firstIndex *int, valuesReader *binreader.Reader) (map[string]NodeAttribute, error) {
	if firstIndex == nil {
		return nil, nil
	}

	attrs := make(map[string]NodeAttribute)
	idx := *firstIndex
	seen := 0
	total := len(a.attributes)

	for {
		if seen > total {
			return nil, wrapf(ErrBadAttributeRef, "attribute chain exceeds %d entries (cycle?)", total)
		}
		if idx < 0 || idx >= total {
			return nil, wrapf(ErrBadAttributeRef, "attribute index %d out of range", idx)
		}
		ai := a.attributes[idx]

		name, err := a.resolveName(ai.nameBucket, ai.nameSlot)
		if err != nil {
			return nil, wrapf(err, "attribute %d", idx)
		}

		if _, err := valuesReader.Seek(int64(ai.dataOffset), io.SeekStart); err != nil {
			return nil, wrapf(err, "failed seeking attribute %d data at offset %d", idx, ai.dataOffset)
		}
		value, err := a.decoder.decode(valuesReader, ai.typeID, ai.length)
		if err != nil {
			return nil, wrapf(err, "attribute %d (%q)", idx, name)
		}
		attrs[name] = value

		if ai.nextAttributeIndex == nil {
			break
		}
		idx = *ai.nextAttributeIndex
		seen++
	}

	return attrs, nil
}
