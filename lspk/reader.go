package lspk

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/clemarescx/bg3d/internal/binreader"
	"github.com/clemarescx/bg3d/internal/codec"
)

var lspkSignature = [4]byte{0x4C, 0x53, 0x50, 0x4B} // "LSPK"

// maxEntrySize is the largest size-on-disk this reader will decompress;
// larger entries are rejected with ErrEntryTooLarge rather than attempting
// a read that could exhaust memory.
const maxEntrySize = 0x7FFFFFFF

// lspkHeader16 is the version-18 LSPK header: packed, little-endian, no
// padding between fields.
type lspkHeader16 struct {
	version        uint32
	fileListOffset uint64
	fileListSize   uint32
	flags          uint8
	priority       uint8
	md5            [16]byte
	numParts       uint16
}

// PackageReader owns the fully buffered archive bytes and a read cursor.
// One instance is exclusive to one caller: DecompressEntry mutates the
// cursor on every call.
type PackageReader struct {
	name string
	r    *binreader.Reader
	log  *logrus.Entry
}

// Open loads path fully into memory;
// decoding never streams from disk.
func Open(path string) (*PackageReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapf(err, "failed opening %s", path)
	}
	defer f.Close()

	buf, err := io.ReadAll(f)
	if err != nil {
		return nil, wrapf(err, "could not read %s into memory", path)
	}

	return &PackageReader{
		name: path,
		r:    binreader.New(buf),
		log:  logrus.WithField("package", path),
	}, nil
}

// Read parses the LSPK header and file table, producing the package's
// decoded metadata and file list.
func (pr *PackageReader) Read() (*Package, error) {
	pr.log.Debug("reading package")

	var signature [4]byte
	sigBytes, err := pr.r.ReadBytes(4)
	if err != nil {
		return nil, wrapf(err, "could not read 4-byte signature")
	}
	copy(signature[:], sigBytes)
	if signature != lspkSignature {
		return nil, wrap(ErrNotLSPK, "signature mismatch")
	}

	version, err := pr.r.ReadU32()
	if err != nil {
		return nil, wrapf(err, "could not read 4-byte version")
	}
	if version != PackageVersion18 {
		return nil, wrapf(ErrUnsupportedPackageVersion, "version %d", version)
	}
	pr.log.Debugf("found v%d package", version)

	if _, err := pr.r.Seek(-4, io.SeekCurrent); err != nil {
		return nil, wrapf(err, "failed to rewind 4 bytes")
	}

	header, err := pr.readHeader16()
	if err != nil {
		return nil, wrap(err, "failed to read LSPKHeader16")
	}
	if header.version != version {
		return nil, wrap(ErrUnsupportedPackageVersion, "header version does not match signature-adjacent version")
	}

	if _, err := pr.r.Seek(int64(header.fileListOffset), io.SeekStart); err != nil {
		return nil, wrapf(err, "seek to file list offset failed")
	}

	files, err := pr.readFileList()
	if err != nil {
		return nil, wrap(err, "failed to read file list")
	}

	return &Package{
		Version:  header.version,
		Flags:    header.flags,
		Priority: header.priority,
		Files:    files,
	}, nil
}

func (pr *PackageReader) readHeader16() (lspkHeader16, error) {
	var h lspkHeader16
	var err error
	if h.version, err = pr.r.ReadU32(); err != nil {
		return h, err
	}
	if h.fileListOffset, err = pr.r.ReadU64(); err != nil {
		return h, err
	}
	if h.fileListSize, err = pr.r.ReadU32(); err != nil {
		return h, err
	}
	if h.flags, err = pr.r.ReadU8(); err != nil {
		return h, err
	}
	if h.priority, err = pr.r.ReadU8(); err != nil {
		return h, err
	}
	md5, err := pr.r.ReadBytes(16)
	if err != nil {
		return h, err
	}
	copy(h.md5[:], md5)
	if h.numParts, err = pr.r.ReadU16(); err != nil {
		return h, err
	}
	return h, nil
}

func (pr *PackageReader) readFileList() ([]PackagedFileInfo, error) {
	numFiles, err := pr.r.ReadU32()
	if err != nil {
		return nil, wrapf(err, "failed reading number of files")
	}
	compressedSize, err := pr.r.ReadU32()
	if err != nil {
		return nil, wrapf(err, "failed reading compressed size")
	}
	compressed, err := pr.r.ReadBytes(int(compressedSize))
	if err != nil {
		return nil, wrapf(err, "failed reading compressed file list bytes")
	}

	uncompressedSize := int(numFiles) * fileEntry18RecordSize
	decompressed, err := codec.Decompress(compressed, uncompressedSize, uint8(codec.MethodLZ4), false)
	if err != nil {
		return nil, wrap(err, "failed to decompress file list")
	}

	listReader := binreader.New(decompressed)
	files := make([]PackagedFileInfo, 0, numFiles)
	for i := uint32(0); i < numFiles; i++ {
		entry, err := parseFileEntry18(listReader)
		if err != nil {
			return nil, wrapf(err, "failed parsing file entry %d", i)
		}
		files = append(files, entry)
	}
	return files, nil
}

// DecompressEntry decompresses one archive entry's bytes. It seeks the
// reader's cursor; callers must not interleave calls across goroutines.
func (pr *PackageReader) DecompressEntry(pfi PackagedFileInfo) ([]byte, error) {
	if pfi.SizeOnDisk > maxEntrySize {
		return nil, wrapf(ErrEntryTooLarge, "%q is %d bytes", pfi.Name, pfi.SizeOnDisk)
	}

	if _, err := pr.r.Seek(int64(pfi.Offset), io.SeekStart); err != nil {
		return nil, wrapf(err, "could not seek to offset %d", pfi.Offset)
	}
	compressed, err := pr.r.ReadBytes(int(pfi.SizeOnDisk))
	if err != nil {
		return nil, wrapf(err, "failed to read %d bytes from archive", pfi.SizeOnDisk)
	}

	out, err := codec.Decompress(compressed, int(pfi.UncompressedSize), pfi.Flags, false)
	if err != nil {
		return nil, wrapf(err, "failed to decompress entry %q", pfi.Name)
	}
	return out, nil
}
