// Package strutil holds the handful of string helpers shared by the LSPK
// and LSF decoders.
package strutil

import "strings"

// Lossy decodes b as UTF-8, substituting the replacement character for any
// invalid byte sequence rather than rejecting the input. The source formats
// both use this "garbage in, garbage in the string" tolerance for names and
// pool strings, and real-world inputs rely on it.
func Lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
