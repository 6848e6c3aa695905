package lspk

import (
	"github.com/clemarescx/bg3d/internal/binreader"
	"github.com/clemarescx/bg3d/internal/codec"
	"github.com/clemarescx/bg3d/internal/strutil"
)

// fileEntry18RecordSize is the on-disk size of one FileEntry18 record,
// per the container's own file-list length accounting (num_files * 296).
// The named fields below account for 272 of those bytes; the remaining 24
// are reserved and discarded, exactly as the file table's own size
// accounting requires.
const fileEntry18RecordSize = 296

const fileEntry18NameLen = 256

// fileEntryFlagsMask is the set of bits the format is allowed to use in a
// FileEntry18.flags byte: bits 0-6, which cover the low nibble (compression
// method) and bit 6 (the chunked hint); only bit 7 is rejected.
const fileEntryFlagsMask = 0x7F

func parseFileEntry18(r *binreader.Reader) (PackagedFileInfo, error) {
	nameBytes, err := r.ReadBytes(fileEntry18NameLen)
	if err != nil {
		return PackagedFileInfo{}, err
	}
	offsetLo, err := r.ReadU32()
	if err != nil {
		return PackagedFileInfo{}, err
	}
	offsetHi, err := r.ReadU16()
	if err != nil {
		return PackagedFileInfo{}, err
	}
	archivePart, err := r.ReadU8()
	if err != nil {
		return PackagedFileInfo{}, err
	}
	flags, err := r.ReadU8()
	if err != nil {
		return PackagedFileInfo{}, err
	}
	sizeOnDisk, err := r.ReadU32()
	if err != nil {
		return PackagedFileInfo{}, err
	}
	uncompressedSize, err := r.ReadU32()
	if err != nil {
		return PackagedFileInfo{}, err
	}
	consumed := fileEntry18NameLen + 4 + 2 + 1 + 1 + 4 + 4
	if _, err := r.ReadBytes(fileEntry18RecordSize - consumed); err != nil {
		return PackagedFileInfo{}, err
	}

	if method := uint32(flags) & codec.MethodMask; method > 3 || (uint32(flags) & ^uint32(fileEntryFlagsMask)) != 0 {
		return PackagedFileInfo{}, errUnsupportedEntryFlags(flags)
	}

	return PackagedFileInfo{
		Name:             decodeName(nameBytes),
		Offset:           uint64(offsetLo) | (uint64(offsetHi) << 32),
		SizeOnDisk:       sizeOnDisk,
		UncompressedSize: uncompressedSize,
		ArchivePart:      archivePart,
		Flags:            flags,
		CRC:              0,
	}, nil
}

func decodeName(nameBytes []byte) string {
	end := len(nameBytes)
	for i, b := range nameBytes {
		if b == 0 {
			end = i
			break
		}
	}
	return strutil.Lossy(nameBytes[:end])
}
