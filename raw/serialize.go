package raw

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// numberLimit bounds the magnitude of serializable numbers. Values at
// or beyond this are rejected rather than silently clamped.
const numberLimit = 1e21

// AppendNumber formats f per the numeric grammar: rounded to six
// decimal places, never in exponent notation.
func AppendNumber(dst []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || f <= -numberLimit || f >= numberLimit {
		return dst, fmt.Errorf("%w: %g", ErrNumberRange, f)
	}
	r := math.Round(f*1e6) / 1e6
	if r == 0 {
		r = 0 // avoid "-0"
	}
	return strconv.AppendFloat(dst, r, 'f', -1, 64), nil
}

// Append serializes obj onto dst and returns the extended slice.
// The switch below is exhaustive over the Object implementations in
// this package.
func Append(dst []byte, obj Object) ([]byte, error) {
	switch v := obj.(type) {
	case Name:
		return append(append(dst, '/'), v...), nil
	case Integer:
		return strconv.AppendInt(dst, int64(v), 10), nil
	case Real:
		return AppendNumber(dst, float64(v))
	case Bool:
		if v {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case Null:
		return append(dst, "null"...), nil
	case Text:
		return appendText(dst, string(v))
	case Hex:
		dst = append(dst, '<')
		const digits = "0123456789abcdef"
		for _, b := range v {
			dst = append(dst, digits[b>>4], digits[b&0xF])
		}
		return append(dst, '>'), nil
	case Date:
		t := time.Time(v).UTC()
		return t.AppendFormat(append(dst, "(D:"...), "20060102150405Z)"), nil
	case Array:
		dst = append(dst, '[')
		for i, item := range v {
			if i > 0 {
				dst = append(dst, ' ')
			}
			var err error
			dst, err = Append(dst, item)
			if err != nil {
				return dst, err
			}
		}
		return append(dst, ']'), nil
	case Dict:
		return appendDict(dst, v)
	case Verbatim:
		return append(dst, v...), nil
	case Ref:
		dst = strconv.AppendInt(dst, int64(v.Num), 10)
		dst = append(dst, ' ')
		dst = strconv.AppendInt(dst, int64(v.Gen), 10)
		return append(dst, " R"...), nil
	default:
		return dst, fmt.Errorf("raw: unknown object type %T", obj)
	}
}

func appendDict(dst []byte, d Dict) ([]byte, error) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	dst = append(dst, "<<"...)
	for _, k := range keys {
		dst = append(dst, '\n', '/')
		dst = append(dst, k...)
		dst = append(dst, ' ')
		var err error
		dst, err = Append(dst, d[Name(k)])
		if err != nil {
			return dst, err
		}
	}
	return append(dst, "\n>>"...), nil
}

var utf16Enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()

func appendText(dst []byte, s string) ([]byte, error) {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	b := []byte(s)
	if !ascii {
		enc, err := utf16Enc.Bytes(b)
		if err != nil {
			return dst, fmt.Errorf("raw: utf-16 transcode: %w", err)
		}
		b = enc
	}
	dst = append(dst, '(')
	for _, c := range b {
		switch c {
		case '\n':
			dst = append(dst, `\n`...)
		case '\r':
			dst = append(dst, `\r`...)
		case '\t':
			dst = append(dst, `\t`...)
		case '\b':
			dst = append(dst, `\b`...)
		case '\f':
			dst = append(dst, `\f`...)
		case '(':
			dst = append(dst, `\(`...)
		case ')':
			dst = append(dst, `\)`...)
		case '\\':
			dst = append(dst, `\\`...)
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, ')'), nil
}
