package pathtmpl

import (
	"strings"
)

// Encoding selects how parameter values are percent-encoded when
// building. Matching always applies a full percent-decode, whatever the
// mode, except under EncodingNone.
type Encoding int

const (
	// EncodingDefault percent-encodes everything except RFC 3986
	// unreserved characters, sub-delimiters and ":".
	EncodingDefault Encoding = iota

	// EncodingURI builds with the full reserved set kept intact, like
	// JavaScript's encodeURI.
	EncodingURI

	// EncodingURIComponent builds with every reserved character encoded,
	// like encodeURIComponent.
	EncodingURIComponent

	// EncodingNone disables encoding and decoding entirely.
	EncodingNone

	// EncodingLegacy builds with the URI rules, for compatibility with
	// older location formats.
	EncodingLegacy
)

const upperhex = "0123456789ABCDEF"

// isUnreserved reports whether c is an RFC 3986 unreserved character.
func isUnreserved(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// isSubDelim reports whether c is an RFC 3986 sub-delimiter.
func isSubDelim(c byte) bool {
	switch c {
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return false
}

// safeInMode reports whether c may appear unencoded under enc.
func safeInMode(c byte, enc Encoding) bool {
	switch enc {
	case EncodingNone:
		return true
	case EncodingDefault:
		return isUnreserved(c) || isSubDelim(c) || c == ':'
	case EncodingURI, EncodingLegacy:
		// encodeURI keeps gen-delims and sub-delims.
		if isUnreserved(c) || isSubDelim(c) {
			return true
		}
		switch c {
		case ':', '/', '?', '#', '[', ']', '@':
			return true
		}
		return false
	case EncodingURIComponent:
		// encodeURIComponent keeps unreserved plus !'()*.
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			return true
		}
		switch c {
		case '-', '.', '_', '~', '!', '\'', '(', ')', '*':
			return true
		}
		return false
	}
	return false
}

// encodeValue percent-encodes s for the given mode. When splat is true,
// slashes are preserved so a splat value can span path segments.
func encodeValue(s string, enc Encoding, splat bool) string {
	if enc == EncodingNone {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if safeInMode(c, enc) || (splat && c == '/') {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}

// decodeValue fully percent-decodes s for every mode except
// EncodingNone; building and decoding are deliberately asymmetric so a
// value round-trips whichever mode produced it. Malformed escapes fall
// back to the original token so matching stays total.
func decodeValue(s string, enc Encoding) string {
	if enc == EncodingNone {
		return s
	}
	decoded, ok := unescape(s)
	if !ok {
		return s
	}
	return decoded
}

// unescape percent-decodes s. It returns false on a malformed escape
// sequence instead of an error.
func unescape(s string) (string, bool) {
	if !strings.ContainsRune(s, '%') {
		return s, true
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) || !isHexDigit(s[i+1]) || !isHexDigit(s[i+2]) {
			return "", false
		}
		b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
		i += 2
	}
	return b.String(), true
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
