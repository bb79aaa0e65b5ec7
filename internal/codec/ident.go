package codec

import (
	"github.com/elliotwutingfeng/asciiset"
)

const identRadix = 38

// IdentAlphabet lists every character Ident can produce.
const IdentAlphabet = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ?"

var identSet, _ = asciiset.MakeASCIISet(IdentAlphabet)

// Ident decodes a base-38 packed identifier.
//
// Airport identifiers keep 5 bits of unrelated data in the low bits, so
// callers decoding those pass shifted=true. A zero value decodes to a
// single space.
func Ident(raw uint32, shifted bool) string {
	v := raw
	if shifted {
		v >>= 5
	}
	if v == 0 {
		return " "
	}

	// 38^6 > 2^32, so six digits always suffice
	var digits [7]byte
	n := len(digits)
	for v > 0 {
		n--
		digits[n] = identChar(v % identRadix)
		v /= identRadix
	}
	return string(digits[n:])
}

func identChar(d uint32) byte {
	switch {
	case d == 0:
		return ' '
	case d >= 2 && d <= 11:
		return byte('0' + d - 2)
	case d >= 12 && d <= 37:
		return byte('A' + d - 12)
	default:
		return '?'
	}
}

// ValidIdent reports whether s is non-empty and made only of characters
// Ident can produce.
func ValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !identSet.Contains(s[i]) {
			return false
		}
	}
	return true
}
