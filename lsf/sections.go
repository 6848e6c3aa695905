package lsf

import (
	"github.com/clemarescx/bg3d/internal/binreader"
	"github.com/clemarescx/bg3d/internal/codec"
)

// sections holds the four raw, decompressed LSF payload blobs in the
// order they are laid out on disk.
type sections struct {
	strings    []byte
	nodes      []byte
	attributes []byte
	values     []byte
}

func readSections(r *binreader.Reader, h header) (sections, error) {
	var s sections
	var err error

	if s.strings, err = readSection(r, h, h.metadata.stringsSizeOnDisk, h.metadata.stringsUncompressedSize, false); err != nil {
		return s, wrap(err, "failed to read strings section")
	}
	if s.nodes, err = readSection(r, h, h.metadata.nodesSizeOnDisk, h.metadata.nodesUncompressedSize, true); err != nil {
		return s, wrap(err, "failed to read nodes section")
	}
	if s.attributes, err = readSection(r, h, h.metadata.attributesSizeOnDisk, h.metadata.attributesUncompressedSize, true); err != nil {
		return s, wrap(err, "failed to read attributes section")
	}
	if s.values, err = readSection(r, h, h.metadata.valuesSizeOnDisk, h.metadata.valuesUncompressedSize, true); err != nil {
		return s, wrap(err, "failed to read values section")
	}

	return s, nil
}

// readSection implements the per-section decompression contract shared by
// all four LSF sections: inline-uncompressed, empty, or
// compressed-via-codec-facade.
func readSection(r *binreader.Reader, h header, sizeOnDisk, uncompressedSize uint32, allowChunked bool) ([]byte, error) {
	if sizeOnDisk == 0 && uncompressedSize != 0 {
		buf, err := r.ReadBytes(int(uncompressedSize))
		if err != nil {
			return nil, wrapf(err, "could not read %d inline bytes", uncompressedSize)
		}
		return buf, nil
	}
	if sizeOnDisk == 0 && uncompressedSize == 0 {
		return nil, nil
	}

	isCompressed := codec.MethodOf(h.metadata.compressionFlags) != codec.MethodNone
	compressedSize := uncompressedSize
	if isCompressed {
		compressedSize = sizeOnDisk
	}

	compressed, err := r.ReadBytes(int(compressedSize))
	if err != nil {
		return nil, wrapf(err, "could not read %d compressed bytes", compressedSize)
	}

	chunked := allowChunked && h.version >= VerChunkedCompress
	out, err := codec.Decompress(compressed, int(uncompressedSize), h.metadata.compressionFlags, chunked)
	if err != nil {
		return nil, wrap(err, "decompression failed")
	}
	return out, nil
}
