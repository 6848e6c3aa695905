// Package codec is the compression facade: given a compressed blob, the
// method tag carried in an entry's flags byte, and the declared
// uncompressed size, it returns the raw decompressed bytes. It has no
// knowledge of LSPK or LSF container framing.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Method is the compression algorithm selected by the low nibble of an
// entry's flags byte.
type Method uint8

const (
	MethodNone Method = 0
	MethodZlib Method = 1
	MethodLZ4  Method = 2
	MethodZstd Method = 3
)

// MethodMask isolates the compression method from a flags byte.
const MethodMask = 0x0F

// ErrUnsupportedCompression is returned when the method nibble names an
// algorithm this facade does not decode (any value above MethodZstd).
var ErrUnsupportedCompression = errors.New("unsupported compression method")

// ErrDecompressFailed is returned when a codec reports a corrupt payload.
var ErrDecompressFailed = errors.New("decompress failed")

// ErrSizeMismatch is returned when a codec's output length does not equal
// the declared uncompressed size.
var ErrSizeMismatch = errors.New("decompressed size mismatch")

// MethodOf extracts the compression method from a flags byte.
func MethodOf(flags byte) Method {
	return Method(flags & MethodMask)
}

// Decompress dispatches compressed to its raw bytes according to the low
// nibble of flags. chunked selects, for LZ4 only, the frame format (with
// its own magic and block framing) over the raw block format.
func Decompress(compressed []byte, uncompressedSize int, flags byte, chunked bool) ([]byte, error) {
	switch MethodOf(flags) {
	case MethodNone:
		if len(compressed) != uncompressedSize {
			return nil, errors.Wrapf(ErrSizeMismatch, "pass-through: expected %d bytes, got %d", uncompressedSize, len(compressed))
		}
		return compressed, nil

	case MethodZlib:
		zr, err := zlib.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, errors.Wrap(ErrDecompressFailed, err.Error())
		}
		defer zr.Close()
		out, err := readExactly(zr, uncompressedSize)
		if err != nil {
			return nil, decompressErr("zlib", uncompressedSize, err)
		}
		return out, nil

	case MethodLZ4:
		if chunked {
			fr := lz4.NewReader(bytes.NewReader(compressed))
			out, err := readExactly(fr, uncompressedSize)
			if err != nil {
				return nil, decompressErr("lz4 frame", uncompressedSize, err)
			}
			return out, nil
		}
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(compressed, out)
		if err != nil {
			return nil, errors.Wrap(ErrDecompressFailed, "lz4 block: "+err.Error())
		}
		if n != uncompressedSize {
			return nil, errors.Wrapf(ErrSizeMismatch, "lz4 block: expected %d bytes, got %d", uncompressedSize, n)
		}
		return out, nil

	case MethodZstd:
		zr, err := zstd.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, errors.Wrap(ErrDecompressFailed, err.Error())
		}
		defer zr.Close()
		out, err := readExactly(zr, uncompressedSize)
		if err != nil {
			return nil, decompressErr("zstd", uncompressedSize, err)
		}
		return out, nil

	default:
		return nil, errors.Wrapf(ErrUnsupportedCompression, "flags %#x", flags)
	}
}

func decompressErr(codecName string, want int, err error) error {
	if err == io.ErrUnexpectedEOF {
		return errors.Wrapf(ErrSizeMismatch, "%s: fewer than %d bytes decompressed", codecName, want)
	}
	return errors.Wrap(ErrDecompressFailed, fmt.Sprintf("%s: %v", codecName, err))
}
