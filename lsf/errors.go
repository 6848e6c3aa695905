package lsf

import "github.com/pkg/errors"

// Sentinel errors identifying the LSF error taxonomy.
var (
	ErrNotLSF               = errors.New("not an LSF resource")
	ErrUnsupportedLSFVersion = errors.New("unsupported LSF version")
	ErrBadNameRef           = errors.New("name reference out of range")
	ErrBadAttributeRef      = errors.New("attribute reference out of range")
	ErrBadParentRef         = errors.New("parent reference out of range")
	ErrMalformedString      = errors.New("malformed string: missing NUL terminator")
	ErrUnknownType          = errors.New("unknown attribute type")
)

func wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

func wrap(err error, context string) error {
	return errors.Wrap(err, context)
}
