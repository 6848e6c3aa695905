package lspk

import (
	"github.com/pkg/errors"
)

// Sentinel errors identifying the LSPK error taxonomy. Callers
// can recover the sentinel through errors.Is even though every occurrence
// is wrapped with a context string.
var (
	ErrNotLSPK                   = errors.New("not an LSPK package")
	ErrUnsupportedPackageVersion = errors.New("unsupported package version")
	ErrUnsupportedEntryFlags     = errors.New("unsupported file entry flags")
	ErrEntryTooLarge             = errors.New("archive entry too large")
)

func errUnsupportedEntryFlags(flags uint8) error {
	return errors.Wrapf(ErrUnsupportedEntryFlags, "flags %#x", flags)
}

func wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

func wrap(err error, context string) error {
	return errors.Wrap(err, context)
}
