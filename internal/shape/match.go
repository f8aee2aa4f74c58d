package shape

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// dateLayouts are tried in order by the date kind.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Matches reports whether value satisfies c.
// It is total: unknown kinds and malformed parameters yield false.
func Matches(value string, c Category) bool {
	if c.AllowEmpty && value == "" {
		return true
	}

	switch c.Kind {
	case KindAny:
		return true
	case KindNonEmpty:
		return value != ""
	case KindInt:
		_, ok := parseInt(value)
		return ok
	case KindNonNegativeInt, KindUnixTime:
		n, ok := parseInt(value)
		return ok && n >= 0
	case KindNonNegativeOrErrorInt:
		n, ok := parseInt(value)
		return ok && n >= -1
	case KindIntRange:
		n, ok := parseInt(value)
		if !ok {
			return false
		}
		if c.Min != nil && n < *c.Min {
			return false
		}
		return c.Max == nil || n <= *c.Max
	case KindBool:
		return value == "0" || value == "1"
	case KindNumeric:
		return isNumeric(strings.TrimSpace(value))
	case KindOneOf:
		return slices.Contains(c.Values, value)
	case KindJoinOf:
		return isJoinOf(value, c.separator(), c.Values)
	case KindDate:
		return isDate(strings.TrimSpace(value))
	case KindVersion:
		return isVersion(value)
	case KindMACAddress:
		return isMAC(value)
	case KindUUID:
		return len(value) == 36 && uuid.Validate(value) == nil
	case KindMD5:
		return len(value) == 32 && isHexDigits(value)
	case KindSHA1:
		return len(value) == 40 && isHexDigits(value)
	case KindSHA256:
		return len(value) == 64 && isHexDigits(value)
	case KindHex:
		v := value
		if len(v) > 2 && v[0] == '0' && (v[1] == 'x' || v[1] == 'X') {
			v = v[2:]
		}
		return v != "" && isHexDigits(v)
	default:
		return false
	}
}

func parseInt(value string) (int64, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// isNumeric accepts [+-]digits[.digits][(e|E)[+-]digits] with at least one
// mantissa digit. "inf", "nan" and hex floats are rejected.
func isNumeric(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	whole := countDigits(s[i:])
	i += whole

	frac := 0
	if i < len(s) && s[i] == '.' {
		i++
		frac = countDigits(s[i:])
		i += frac
	}
	if whole+frac == 0 {
		return false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := countDigits(s[i:])
		if exp == 0 {
			return false
		}
		i += exp
	}
	return i == len(s)
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func isJoinOf(value, sep string, allowed []string) bool {
	for _, elem := range strings.Split(value, sep) {
		elem = strings.TrimSpace(elem)
		if elem == "" || !slices.Contains(allowed, elem) {
			return false
		}
	}
	return true
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// isVersion accepts an optional leading 'v', two or more dot-separated
// decimal segments, and an optional "-pre" or "+build" suffix.
func isVersion(s string) bool {
	s = strings.TrimPrefix(s, "v")

	core, suffix := s, ""
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		core, suffix = s[:i], s[i+1:]
		if suffix == "" {
			return false
		}
		for j := 0; j < len(suffix); j++ {
			if !isAlnum(suffix[j]) && suffix[j] != '.' && suffix[j] != '-' && suffix[j] != '+' {
				return false
			}
		}
	}

	segments := strings.Split(core, ".")
	if len(segments) < 2 {
		return false
	}
	for _, seg := range segments {
		if seg == "" || countDigits(seg) != len(seg) {
			return false
		}
	}
	return true
}

// isMAC accepts xx:xx:xx:xx:xx:xx or xx-xx-xx-xx-xx-xx, never mixed.
func isMAC(s string) bool {
	if len(s) != 17 {
		return false
	}
	sep := s[2]
	if sep != ':' && sep != '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i%3 == 2 {
			if s[i] != sep {
				return false
			}
			continue
		}
		if !isHex(s[i]) {
			return false
		}
	}
	return true
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isHex(s[i]) {
			return false
		}
	}
	return true
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
