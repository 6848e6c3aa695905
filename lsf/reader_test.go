package lsf_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clemarescx/bg3d/lsf"
	"github.com/clemarescx/bg3d/lspk"
)

// buildLSFBytes constructs a minimal, uncompressed-section LSF resource: one
// region node carrying a single int attribute, using the V3 (long) node and
// attribute dialect.
func buildLSFBytes(t *testing.T) []byte {
	t.Helper()
	w := func(buf *bytes.Buffer, v interface{}) { require.NoError(t, binary.Write(buf, binary.LittleEndian, v)) }

	// Names section: one bucket, two slots.
	var names bytes.Buffer
	w(&names, uint32(1))  // numBuckets
	w(&names, uint16(2))  // numSlots in bucket 0
	w(&names, uint16(len("GlobalVar")))
	names.WriteString("GlobalVar")
	w(&names, uint16(len("IntAttr")))
	names.WriteString("IntAttr")

	// Nodes section (V3): one root node, no parent, first attribute 0.
	var nodes bytes.Buffer
	w(&nodes, uint32(0)) // name hash: bucket 0, slot 0
	w(&nodes, int32(-1)) // parent
	w(&nodes, int32(-1)) // next sibling
	w(&nodes, int32(0))  // first attribute

	// Attributes section (V3): one DTInt attribute, bucket 0 slot 1.
	var attrs bytes.Buffer
	w(&attrs, uint32(1))                                       // name hash: bucket 0, slot 1
	w(&attrs, uint32(uint8(lsf.DTInt))|uint32(4)<<6)            // type | length<<6
	w(&attrs, int32(-1))                                       // next attribute
	w(&attrs, uint32(0))                                       // data offset

	// Values section: one int32.
	var values bytes.Buffer
	w(&values, int32(42))

	var buf bytes.Buffer
	buf.WriteString("LSOF")
	w(&buf, uint32(4)) // version: VerBG3
	w(&buf, int32(0))  // engine_version (pre-V5, i32), major=0

	// metadata (V5 shape: no extra V6 blob, version < VerBG3AdditionalBlob)
	w(&buf, uint32(names.Len()))  // stringsUncompressedSize
	w(&buf, uint32(names.Len()))  // stringsSizeOnDisk
	w(&buf, uint32(nodes.Len()))  // nodesUncompressedSize
	w(&buf, uint32(nodes.Len()))  // nodesSizeOnDisk
	w(&buf, uint32(attrs.Len()))  // attributesUncompressedSize
	w(&buf, uint32(attrs.Len()))  // attributesSizeOnDisk
	w(&buf, uint32(values.Len())) // valuesUncompressedSize
	w(&buf, uint32(values.Len())) // valuesSizeOnDisk
	buf.WriteByte(0)              // compressionFlags: none
	buf.WriteByte(0)              // pad
	w(&buf, uint16(0))            // pad
	w(&buf, uint32(1))            // hasSiblingData: selects the V3 dialect

	buf.Write(names.Bytes())
	buf.Write(nodes.Bytes())
	buf.Write(attrs.Bytes())
	buf.Write(values.Bytes())

	return buf.Bytes()
}

// buildLSPKFixture wraps payload as the sole entry of a minimal, valid LSPK
// v18 archive and writes it to a temp file, returning its path.
func buildLSPKFixture(t *testing.T, entryName string, payload []byte) string {
	t.Helper()
	w := func(buf *bytes.Buffer, v interface{}) { require.NoError(t, binary.Write(buf, binary.LittleEndian, v)) }

	const headerSize = 4 + (4 + 8 + 4 + 1 + 1 + 16 + 2)
	const recordSize = 296
	const nameLen = 256

	buildRecord := func(offset uint64) []byte {
		var rec bytes.Buffer
		nameBytes := make([]byte, nameLen)
		copy(nameBytes, entryName)
		rec.Write(nameBytes)
		w(&rec, uint32(offset))
		w(&rec, uint16(offset>>32))
		rec.WriteByte(0) // archive part
		rec.WriteByte(0) // flags: method none
		w(&rec, uint32(len(payload)))
		w(&rec, uint32(len(payload)))
		rec.Write(make([]byte, recordSize-rec.Len()))
		return rec.Bytes()
	}

	compressRecord := func(rec []byte) []byte {
		out := make([]byte, lz4.CompressBlockBound(len(rec)))
		var c lz4.Compressor
		n, err := c.CompressBlock(rec, out)
		require.NoError(t, err)
		return out[:n]
	}

	// The file entry's offset field is itself part of the compressed table,
	// so converge on a stable (offset, compressed length) pair rather than
	// assuming one compression pass settles it.
	fileListOffset := uint64(headerSize)
	compressedTable := compressRecord(buildRecord(0))
	for i := 0; i < 4; i++ {
		fileListLen := 4 + 4 + len(compressedTable)
		candidateOffset := fileListOffset + uint64(fileListLen)
		candidateTable := compressRecord(buildRecord(candidateOffset))
		if len(candidateTable) == len(compressedTable) {
			compressedTable = candidateTable
			break
		}
		compressedTable = candidateTable
	}

	fileListLen := 4 + 4 + len(compressedTable)

	var out bytes.Buffer
	out.WriteString("LSPK")
	w(&out, uint32(18))           // version
	w(&out, fileListOffset)       // fileListOffset
	w(&out, uint32(fileListLen))  // fileListSize
	out.WriteByte(0)              // flags
	out.WriteByte(0)              // priority
	out.Write(make([]byte, 16))   // md5
	w(&out, uint16(1))            // numParts

	w(&out, uint32(1)) // numFiles
	w(&out, uint32(len(compressedTable)))
	out.Write(compressedTable)
	out.Write(payload)

	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.lsv")
	require.NoError(t, os.WriteFile(path, out.Bytes(), 0644))
	return path
}

func TestReadDecodesMinimalResource(t *testing.T) {
	path := buildLSPKFixture(t, "globals.lsf", buildLSFBytes(t))

	pr, err := lspk.Open(path)
	require.NoError(t, err)
	pkg, err := pr.Read()
	require.NoError(t, err)

	resource, err := lsf.LoadGlobals(pr, pkg)
	require.NoError(t, err)

	require.Contains(t, resource.Regions, "GlobalVar")
	root := resource.Nodes[resource.Regions["GlobalVar"]]
	require.Contains(t, root.Attributes, "IntAttr")
	assert.Equal(t, int32(42), root.Attributes["IntAttr"].Value)
}

func TestLoadGlobalsMissingEntry(t *testing.T) {
	path := buildLSPKFixture(t, "other.lsf", buildLSFBytes(t))

	pr, err := lspk.Open(path)
	require.NoError(t, err)
	pkg, err := pr.Read()
	require.NoError(t, err)

	_, err = lsf.LoadGlobals(pr, pkg)
	require.Error(t, err)
}
