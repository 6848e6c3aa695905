// Package lspk implements the LSPK package reader: signature and header
// parsing, file-table decompression, and per-entry streaming
// decompression for the archive format a save game is stored in.
package lspk

import (
	"fmt"

	"github.com/clemarescx/bg3d/internal/codec"
)

// PackageVersion18 is the only LSPK header version this reader supports.
const PackageVersion18 = 18

// PackagedFileInfo describes one archive entry: where its compressed bytes
// live in the archive, how large it is compressed and uncompressed, and
// the logical (POSIX-style) path it is stored under.
type PackagedFileInfo struct {
	Name             string
	Offset           uint64 // 48-bit offset within the archive part
	SizeOnDisk       uint32
	UncompressedSize uint32
	ArchivePart      uint8
	Flags            uint8
	CRC              uint32
}

// CompressionMethod returns the compression method encoded in the low
// nibble of Flags.
func (p PackagedFileInfo) CompressionMethod() codec.Method {
	return codec.MethodOf(p.Flags)
}

// EffectiveSize is the size a consumer should expect after decompression:
// the uncompressed size for compressed entries, the on-disk size
// otherwise. Mirrors the original reader's extraction progress accounting.
func (p PackagedFileInfo) EffectiveSize() uint32 {
	if p.CompressionMethod() == codec.MethodNone {
		return p.SizeOnDisk
	}
	return p.UncompressedSize
}

// String renders a human-readable, multi-line summary of the entry.
func (p PackagedFileInfo) String() string {
	return fmt.Sprintf(
		"archive part: %d\nCRC32: %d\nflags: %#b\noffset: %#x\nsize on disk: %s\nuncompressed size: %s",
		p.ArchivePart, p.CRC, p.Flags, p.Offset,
		formatSize(uint64(p.SizeOnDisk)), formatSize(uint64(p.UncompressedSize)),
	)
}

func formatSize(s uint64) string {
	if s == 0 {
		return "0 B"
	}
	switch {
	case s < 1_000:
		return fmt.Sprintf("%d B", s)
	case s < 1_000_000:
		return fmt.Sprintf("%.2f KB (%d Bytes)", float64(s)/1_000, s)
	case s < 1_000_000_000:
		return fmt.Sprintf("%.2f MB (%d Bytes)", float64(s)/1_000_000, s)
	default:
		return fmt.Sprintf("%.2f GB (%d Bytes)", float64(s)/1_000_000_000, s)
	}
}

// Package is the decoded container metadata and file list. It is built
// once per archive read and treated as immutable thereafter.
type Package struct {
	Version  uint32
	Flags    uint8
	Priority uint8
	Files    []PackagedFileInfo
}

// Entries returns a read-only view of the package's file list.
func (p *Package) Entries() []PackagedFileInfo {
	return p.Files
}

// FindEntry looks up a file by logical path, case-insensitively.
func (p *Package) FindEntry(path string) (PackagedFileInfo, bool) {
	for _, f := range p.Files {
		if pathEqualFold(f.Name, path) {
			return f, true
		}
	}
	return PackagedFileInfo{}, false
}

func pathEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
