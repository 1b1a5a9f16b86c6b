package pathtmpl

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseQueryString decodes a raw query string (without the leading "?")
// into params. Repeated keys accumulate into string slices and bare keys
// decode to boolean true.
func ParseQueryString(query string, enc Encoding) Params {
	params := Params{}
	if query == "" {
		return params
	}
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		rawKey, rawVal, hasVal := strings.Cut(part, "=")
		key := decodeValue(rawKey, enc)
		if !hasVal {
			params[key] = true
			continue
		}
		appendQueryValue(params, key, decodeValue(rawVal, enc))
	}
	return params
}

// appendQueryValue adds a value under key, promoting repeats to a slice.
func appendQueryValue(params Params, key, val string) {
	switch existing := params[key].(type) {
	case nil:
		params[key] = val
	case string:
		params[key] = []string{existing, val}
	case []string:
		params[key] = append(existing, val)
	default:
		params[key] = val
	}
}

// BuildQueryString encodes the values of keys found in params into a query
// string without the leading "?". Missing keys are skipped; slices emit
// repeated keys; booleans emit their string form.
func BuildQueryString(params Params, keys []string, enc Encoding) string {
	var b strings.Builder
	for _, key := range keys {
		v, ok := params[key]
		if !ok || v == nil {
			continue
		}
		ek := encodeValue(key, enc, false)
		switch val := v.(type) {
		case []string:
			for _, item := range val {
				writeQueryPair(&b, ek, encodeValue(item, enc, false))
			}
		case bool:
			writeQueryPair(&b, ek, strconv.FormatBool(val))
		default:
			s, ok := paramString(val)
			if !ok {
				continue
			}
			writeQueryPair(&b, ek, encodeValue(s, enc, false))
		}
	}
	return b.String()
}

func writeQueryPair(b *strings.Builder, key, val string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(val)
}

// paramString renders a parameter value as a string. It reports false for
// values with no sensible string form.
func paramString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case fmt.Stringer:
		return val.String(), true
	case nil:
		return "", false
	default:
		return fmt.Sprintf("%v", val), true
	}
}
