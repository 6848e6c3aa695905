package lsf

import (
	"github.com/clemarescx/bg3d/internal/binreader"
)

// Version identifies one of the seven known on-disk LSF dialects.
type Version uint32

const (
	VerInitial           Version = 1
	VerChunkedCompress   Version = 2
	VerExtendedNodes     Version = 3
	VerBG3               Version = 4
	VerBG3ExtendedHeader Version = 5
	VerBG3AdditionalBlob Version = 6
	VerBG3Patch3         Version = 7
)

func parseVersion(n uint32) (Version, bool) {
	v := Version(n)
	switch v {
	case VerInitial, VerChunkedCompress, VerExtendedNodes, VerBG3,
		VerBG3ExtendedHeader, VerBG3AdditionalBlob, VerBG3Patch3:
		return v, true
	default:
		return 0, false
	}
}

var lsfSignature = [4]byte{0x4C, 0x53, 0x4F, 0x46} // "LSOF"

// metadata is the normalized (V6-shaped) section-size header, built from
// either the V5 or V6 on-disk metadata block depending on file version.
type metadata struct {
	stringsUncompressedSize    uint32
	stringsSizeOnDisk          uint32
	nodesUncompressedSize      uint32
	nodesSizeOnDisk            uint32
	attributesUncompressedSize uint32
	attributesSizeOnDisk       uint32
	valuesUncompressedSize     uint32
	valuesSizeOnDisk           uint32
	compressionFlags           uint8
	hasSiblingData             uint32
}

// header holds everything parsed from the LSF preamble: version, engine
// version quadruple, and section-size metadata.
type header struct {
	version  Version
	engine   EngineVersion
	metadata metadata
}

func readHeader(r *binreader.Reader) (header, error) {
	var h header

	sigBytes, err := r.ReadBytes(4)
	if err != nil {
		return h, wrapf(err, "could not read LSF signature")
	}
	var sig [4]byte
	copy(sig[:], sigBytes)
	if sig != lsfSignature {
		return h, wrap(ErrNotLSF, "signature mismatch")
	}

	rawVersion, err := r.ReadU32()
	if err != nil {
		return h, wrapf(err, "could not read LSF version")
	}
	version, ok := parseVersion(rawVersion)
	if !ok {
		return h, wrapf(ErrUnsupportedLSFVersion, "version %d", rawVersion)
	}
	h.version = version

	engine, err := readEngineVersion(r, version)
	if err != nil {
		return h, wrap(err, "failed to read engine version")
	}
	h.engine = engine

	meta, err := readMetadata(r, version)
	if err != nil {
		return h, wrap(err, "failed to read section metadata")
	}
	h.metadata = meta

	return h, nil
}

// EngineVersion is the game engine's (major, minor, revision, build)
// quadruple, unpacked from either a 64-bit or 32-bit packed header field
// depending on LSF version.
type EngineVersion struct {
	Major, Minor, Revision, Build uint32
}

func readEngineVersion(r *binreader.Reader, version Version) (EngineVersion, error) {
	if version >= VerBG3ExtendedHeader {
		packed, err := r.ReadI64()
		if err != nil {
			return EngineVersion{}, wrapf(err, "failed to read engine_version (i64)")
		}
		v := unpackEngineVersion64(packed)
		if v.Major == 0 {
			// Workaround for merged LSF files with a missing engine
			// version number.
			return EngineVersion{Major: 4, Minor: 0, Revision: 9, Build: 0}, nil
		}
		return v, nil
	}

	packed, err := r.ReadI32()
	if err != nil {
		return EngineVersion{}, wrapf(err, "failed to read engine_version (pre-V5)")
	}
	return unpackEngineVersion32(packed), nil
}

func unpackEngineVersion64(packed int64) EngineVersion {
	return EngineVersion{
		Major:    uint32((packed >> 55) & 0x7f),
		Minor:    uint32((packed >> 47) & 0xff),
		Revision: uint32((packed >> 31) & 0xffff),
		Build:    uint32(packed & 0x7fffffff),
	}
}

func unpackEngineVersion32(packed int32) EngineVersion {
	return EngineVersion{
		Major:    uint32((packed >> 28) & 0x0f),
		Minor:    uint32((packed >> 24) & 0x0f),
		Revision: uint32((packed >> 16) & 0xff),
		Build:    uint32(packed & 0xffff),
	}
}

func readMetadata(r *binreader.Reader, version Version) (metadata, error) {
	var m metadata
	var err error

	if m.stringsUncompressedSize, err = r.ReadU32(); err != nil {
		return m, err
	}
	if m.stringsSizeOnDisk, err = r.ReadU32(); err != nil {
		return m, err
	}

	if version >= VerBG3AdditionalBlob {
		// V6 layout inserts an 8-byte unknown/reserved field here.
		if _, err = r.ReadU64(); err != nil {
			return m, err
		}
	}

	if m.nodesUncompressedSize, err = r.ReadU32(); err != nil {
		return m, err
	}
	if m.nodesSizeOnDisk, err = r.ReadU32(); err != nil {
		return m, err
	}
	if m.attributesUncompressedSize, err = r.ReadU32(); err != nil {
		return m, err
	}
	if m.attributesSizeOnDisk, err = r.ReadU32(); err != nil {
		return m, err
	}
	if m.valuesUncompressedSize, err = r.ReadU32(); err != nil {
		return m, err
	}
	if m.valuesSizeOnDisk, err = r.ReadU32(); err != nil {
		return m, err
	}
	if m.compressionFlags, err = r.ReadU8(); err != nil {
		return m, err
	}
	if _, err = r.ReadU8(); err != nil { // pad
		return m, err
	}
	if _, err = r.ReadU16(); err != nil { // pad
		return m, err
	}
	if m.hasSiblingData, err = r.ReadU32(); err != nil {
		return m, err
	}

	return m, nil
}
