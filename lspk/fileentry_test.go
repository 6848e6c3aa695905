package lspk

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clemarescx/bg3d/internal/binreader"
)

func buildFileEntry18(t *testing.T, name string, offset uint64, archivePart, flags uint8, sizeOnDisk, uncompressedSize uint32) []byte {
	t.Helper()
	buf := make([]byte, fileEntry18RecordSize)
	copy(buf, name)
	off := fileEntry18NameLen
	binary.LittleEndian.PutUint32(buf[off:], uint32(offset))
	off += 4
	binary.LittleEndian.PutUint16(buf[off:], uint16(offset>>32))
	off += 2
	buf[off] = archivePart
	off++
	buf[off] = flags
	off++
	binary.LittleEndian.PutUint32(buf[off:], sizeOnDisk)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], uncompressedSize)
	return buf
}

func TestParseFileEntry18(t *testing.T) {
	raw := buildFileEntry18(t, "Globals.lsf", 0x1_0000_1234, 2, byte(1), 111, 222)
	entry, err := parseFileEntry18(binreader.New(raw))
	require.NoError(t, err)

	assert.Equal(t, "Globals.lsf", entry.Name)
	assert.Equal(t, uint64(0x1_0000_1234), entry.Offset)
	assert.Equal(t, uint8(2), entry.ArchivePart)
	assert.Equal(t, uint8(1), entry.Flags)
	assert.Equal(t, uint32(111), entry.SizeOnDisk)
	assert.Equal(t, uint32(222), entry.UncompressedSize)
}

func TestParseFileEntry18RejectsUnsupportedFlags(t *testing.T) {
	raw := buildFileEntry18(t, "bad.lsf", 0, 0, 0x88, 1, 1)
	_, err := parseFileEntry18(binreader.New(raw))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedEntryFlags)
}

func TestDecodeNameTrimsAtFirstNUL(t *testing.T) {
	nameBytes := make([]byte, fileEntry18NameLen)
	copy(nameBytes, "meta.lsf")
	assert.Equal(t, "meta.lsf", decodeName(nameBytes))
}
