package pathtmpl

import "testing"

func TestEncodeValueModes(t *testing.T) {
	tests := []struct {
		enc   Encoding
		in    string
		splat bool
		want  string
	}{
		// Default keeps sub-delims and ":".
		{EncodingDefault, "a:b;c", false, "a:b;c"},
		{EncodingDefault, "a b", false, "a%20b"},
		{EncodingDefault, "a/b", false, "a%2Fb"},
		{EncodingDefault, "a/b", true, "a/b"},
		// URI keeps gen-delims too.
		{EncodingURI, "a/b?c", false, "a/b?c"},
		{EncodingURI, "a b", false, "a%20b"},
		// URIComponent encodes reserved characters.
		{EncodingURIComponent, "a/b:c", false, "a%2Fb%3Ac"},
		{EncodingURIComponent, "a!b", false, "a!b"},
		// None is the identity.
		{EncodingNone, "a b/c", false, "a b/c"},
	}

	for _, tt := range tests {
		got := encodeValue(tt.in, tt.enc, tt.splat)
		if got != tt.want {
			t.Errorf("encodeValue(%q, %d, %v) = %q, want %q", tt.in, tt.enc, tt.splat, got, tt.want)
		}
	}
}

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a%20b", "a b"},
		{"plain", "plain"},
		{"a%2Fb", "a/b"},
		// Malformed escapes fall back to the raw token.
		{"bad%zz", "bad%zz"},
		{"trunc%2", "trunc%2"},
	}

	for _, tt := range tests {
		got := decodeValue(tt.in, EncodingDefault)
		if got != tt.want {
			t.Errorf("decodeValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeValueNone(t *testing.T) {
	if got := decodeValue("a%20b", EncodingNone); got != "a%20b" {
		t.Errorf("EncodingNone decoded %q", got)
	}
}

func TestDecodeValueSameAcrossModes(t *testing.T) {
	// Decoding is a full percent-decode in every mode except none, even
	// where building would have left the character intact.
	for _, enc := range []Encoding{EncodingDefault, EncodingURI, EncodingURIComponent, EncodingLegacy} {
		if got := decodeValue("a%2Fb%3Fc", enc); got != "a/b?c" {
			t.Errorf("decodeValue(a%%2Fb%%3Fc, %d) = %q, want %q", enc, got, "a/b?c")
		}
	}
}

func TestLegacyEncoding(t *testing.T) {
	// Legacy builds with the URI rules; decoding is the shared full
	// percent-decode.
	if got := encodeValue("a/b", EncodingLegacy, false); got != "a/b" {
		t.Errorf("legacy encode = %q, want a/b", got)
	}
	if got := decodeValue("a%2Fb", EncodingLegacy); got != "a/b" {
		t.Errorf("legacy decode = %q, want a/b", got)
	}
}

func TestParseQueryString(t *testing.T) {
	params := ParseQueryString("q=go&tags=a&tags=b&debug", EncodingDefault)

	if params["q"] != "go" {
		t.Errorf("q = %v, want go", params["q"])
	}
	tags, ok := params["tags"].([]string)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tags = %v, want [a b]", params["tags"])
	}
	if params["debug"] != true {
		t.Errorf("debug = %v, want true", params["debug"])
	}
}
