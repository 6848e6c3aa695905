package lsf

import (
	"github.com/clemarescx/bg3d/internal/binreader"
	"github.com/clemarescx/bg3d/internal/strutil"
)

// DataType is the 6-bit attribute type tag.
type DataType uint8

const (
	DTNone DataType = iota
	DTByte
	DTShort
	DTUShort
	DTInt
	DTUInt
	DTFloat
	DTDouble
	DTIVec2
	DTIVec3
	DTIVec4
	DTVec2
	DTVec3
	DTVec4
	DTMat2
	DTMat3
	DTMat3x4
	DTMat4x3
	DTMat4
	DTBool
	DTString
	DTPath
	DTFixedString
	DTLSString
	DTULongLong
	DTScratchBuffer
	DTLong
	DTInt8
	DTTranslatedString
	DTWString
	DTLSWString
	DTUuid
	DTInt64
	DTTranslatedFSString
)

// maxDataType is the last supported datatype tag.
const maxDataType = DTTranslatedFSString

// NodeAttribute is a decoded (type, value) pair. Value holds the Go type that
// valueDecoder.decode, below, produces for Type.
type NodeAttribute struct {
	Type  DataType
	Value interface{}
}

// TranslatedString is the payload of DTTranslatedString. Value is only
// populated for LSF files old enough to inline it; otherwise
// only Version and Handle are meaningful and the text must be resolved
// via an external localization table, which is out of this module's scope.
type TranslatedString struct {
	Version uint16
	Value   *string
	Handle  string
}

// TranslatedFSStringArgument is one substitution argument of a
// TranslatedFSString template.
type TranslatedFSStringArgument struct {
	Key    string
	String TranslatedFSString
	Value  string
}

// TranslatedFSString is the payload of DTTranslatedFSString: a translated
// string template plus its substitution arguments, which may themselves
// recursively contain TranslatedFSStrings.
type TranslatedFSString struct {
	Base      TranslatedString
	Arguments []TranslatedFSStringArgument
}

// valueDecoder reads one attribute's value from the values-section cursor,
// already positioned at the attribute's data_offset.
type valueDecoder struct {
	version Version
	engine  EngineVersion
}

func (d valueDecoder) decode(r *binreader.Reader, typeID uint8, length uint32) (NodeAttribute, error) {
	if typeID > uint8(maxDataType) {
		return NodeAttribute{}, wrapf(ErrUnknownType, "type id %d", typeID)
	}
	dt := DataType(typeID)

	switch dt {
	case DTNone:
		return NodeAttribute{Type: dt, Value: nil}, nil

	case DTByte:
		v, err := r.ReadU8()
		return NodeAttribute{Type: dt, Value: v}, err
	case DTShort:
		v, err := r.ReadI16()
		return NodeAttribute{Type: dt, Value: v}, err
	case DTUShort:
		v, err := r.ReadU16()
		return NodeAttribute{Type: dt, Value: v}, err
	case DTInt:
		v, err := r.ReadI32()
		return NodeAttribute{Type: dt, Value: v}, err
	case DTUInt:
		v, err := r.ReadU32()
		return NodeAttribute{Type: dt, Value: v}, err
	case DTFloat:
		v, err := r.ReadF32()
		return NodeAttribute{Type: dt, Value: v}, err
	case DTDouble:
		v, err := r.ReadF64()
		return NodeAttribute{Type: dt, Value: v}, err
	case DTBool:
		v, err := r.ReadU8()
		return NodeAttribute{Type: dt, Value: v != 0}, err
	case DTULongLong:
		v, err := r.ReadU64()
		return NodeAttribute{Type: dt, Value: v}, err
	case DTLong, DTInt64:
		v, err := r.ReadI64()
		return NodeAttribute{Type: dt, Value: v}, err
	case DTInt8:
		v, err := r.ReadI8()
		return NodeAttribute{Type: dt, Value: v}, err
	case DTUuid:
		v, err := r.ReadUUID()
		return NodeAttribute{Type: dt, Value: v}, err

	case DTIVec2:
		v, err := r.ReadI32Vec(2)
		return NodeAttribute{Type: dt, Value: v}, err
	case DTIVec3:
		v, err := r.ReadI32Vec(3)
		return NodeAttribute{Type: dt, Value: v}, err
	case DTIVec4:
		v, err := r.ReadI32Vec(4)
		return NodeAttribute{Type: dt, Value: v}, err
	case DTVec2:
		v, err := r.ReadF32Vec(2)
		return NodeAttribute{Type: dt, Value: v}, err
	case DTVec3:
		v, err := r.ReadF32Vec(3)
		return NodeAttribute{Type: dt, Value: v}, err
	case DTVec4:
		v, err := r.ReadF32Vec(4)
		return NodeAttribute{Type: dt, Value: v}, err
	case DTMat2:
		v, err := r.ReadF32Mat(2, 2)
		return NodeAttribute{Type: dt, Value: v}, err
	case DTMat3:
		v, err := r.ReadF32Mat(3, 3)
		return NodeAttribute{Type: dt, Value: v}, err
	case DTMat3x4:
		v, err := r.ReadF32Mat(3, 4)
		return NodeAttribute{Type: dt, Value: v}, err
	case DTMat4x3:
		v, err := r.ReadF32Mat(4, 3)
		return NodeAttribute{Type: dt, Value: v}, err
	case DTMat4:
		v, err := r.ReadF32Mat(4, 4)
		return NodeAttribute{Type: dt, Value: v}, err

	case DTString, DTPath, DTFixedString, DTLSString, DTWString, DTLSWString:
		v, err := readFixedString(r, length)
		return NodeAttribute{Type: dt, Value: v}, err

	case DTScratchBuffer:
		v, err := r.ReadBytes(int(length))
		return NodeAttribute{Type: dt, Value: v}, err

	case DTTranslatedString:
		v, err := d.decodeTranslatedString(r)
		return NodeAttribute{Type: dt, Value: v}, err

	case DTTranslatedFSString:
		v, err := d.decodeTranslatedFSString(r)
		return NodeAttribute{Type: dt, Value: v}, err

	default:
		return NodeAttribute{}, wrapf(ErrUnknownType, "type id %d", typeID)
	}
}

// readFixedString reads exactly length bytes, requires a NUL terminator,
// strips all trailing NULs, and decodes the remainder as UTF-8, replacing
// invalid byte sequences with the replacement character.
func readFixedString(r *binreader.Reader, length uint32) (string, error) {
	if length == 0 {
		return "", nil
	}
	raw, err := r.ReadBytes(int(length))
	if err != nil {
		return "", wrapf(err, "could not read %d-byte string", length)
	}
	if raw[len(raw)-1] != 0 {
		return "", wrap(ErrMalformedString, "string is not null-terminated")
	}
	end := len(raw) - 1
	for end > 0 && raw[end-1] == 0 {
		end--
	}
	return strutil.Lossy(raw[:end]), nil
}

// usesInlineTranslatedString reports whether TranslatedString values in
// this resource carry an inline string (the pre-BG3 wire form) rather than
// just a version tag.
func (d valueDecoder) usesInlineTranslatedString() bool {
	if d.version >= VerBG3 {
		return false
	}
	if d.engine.Major > 4 {
		return false
	}
	if d.engine.Major == 4 && d.engine.Revision > 0 {
		return false
	}
	if d.engine.Major == 4 && d.engine.Revision == 0 && d.engine.Build >= 0x1A {
		return false
	}
	return true
}

func (d valueDecoder) decodeTranslatedString(r *binreader.Reader) (TranslatedString, error) {
	var ts TranslatedString
	if d.usesInlineTranslatedString() {
		valueLength, err := r.ReadI32()
		if err != nil {
			return ts, err
		}
		value, err := readFixedString(r, uint32(valueLength))
		if err != nil {
			return ts, err
		}
		ts.Version = 0
		ts.Value = &value
	} else {
		version, err := r.ReadU16()
		if err != nil {
			return ts, err
		}
		ts.Version = version
	}

	handleLength, err := r.ReadI32()
	if err != nil {
		return ts, err
	}
	handle, err := readFixedString(r, uint32(handleLength))
	if err != nil {
		return ts, err
	}
	ts.Handle = handle
	return ts, nil
}

// decodeTranslatedFSString gates on the LSF version alone (engine version
// is not consulted here) — a deliberate discrepancy with TranslatedString
// that the source format itself carries.
func (d valueDecoder) decodeTranslatedFSString(r *binreader.Reader) (TranslatedFSString, error) {
	var fs TranslatedFSString

	if d.version >= VerBG3 {
		version, err := r.ReadU16()
		if err != nil {
			return fs, err
		}
		fs.Base.Version = version
	} else {
		valueLength, err := r.ReadI32()
		if err != nil {
			return fs, err
		}
		value, err := readFixedString(r, uint32(valueLength))
		if err != nil {
			return fs, err
		}
		fs.Base.Value = &value
	}

	handleLength, err := r.ReadI32()
	if err != nil {
		return fs, err
	}
	handle, err := readFixedString(r, uint32(handleLength))
	if err != nil {
		return fs, err
	}
	fs.Base.Handle = handle

	argCount, err := r.ReadI32()
	if err != nil {
		return fs, err
	}
	if argCount < 0 {
		return fs, wrapf(ErrMalformedString, "negative TranslatedFSString argument count %d", argCount)
	}

	fs.Arguments = make([]TranslatedFSStringArgument, 0, argCount)
	for i := int32(0); i < argCount; i++ {
		keyLength, err := r.ReadI32()
		if err != nil {
			return fs, err
		}
		key, err := readFixedString(r, uint32(keyLength))
		if err != nil {
			return fs, err
		}

		nested, err := d.decodeTranslatedFSString(r)
		if err != nil {
			return fs, err
		}

		valueLength, err := r.ReadI32()
		if err != nil {
			return fs, err
		}
		value, err := readFixedString(r, uint32(valueLength))
		if err != nil {
			return fs, err
		}

		fs.Arguments = append(fs.Arguments, TranslatedFSStringArgument{
			Key:    key,
			String: nested,
			Value:  value,
		})
	}

	return fs, nil
}
