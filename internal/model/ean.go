package model

import "strings"

// MaxEANLength covers EAN-13 and GTIN-14 codes.
const MaxEANLength = 14

// NormalizeEAN trims whitespace and reports whether the result is a plausible
// barcode: 1 to 14 ASCII digits.
func NormalizeEAN(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > MaxEANLength {
		return s, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return s, false
		}
	}
	return s, true
}

// PadEAN left-pads an EAN with zeros to 13 digits, the key used by the image CDN.
func PadEAN(ean string) string {
	if len(ean) >= 13 {
		return ean
	}
	return strings.Repeat("0", 13-len(ean)) + ean
}
