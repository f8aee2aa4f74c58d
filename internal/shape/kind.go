package shape

import (
	"sort"
	"strings"
)

// Kind names a shape predicate.
type Kind string

// Shape kinds. The string value is the tag used in scenario files.
const (
	KindAny                   Kind = "any"
	KindNonEmpty              Kind = "non_empty"
	KindInt                   Kind = "int"
	KindNonNegativeInt        Kind = "non_negative_int"
	KindNonNegativeOrErrorInt Kind = "non_negative_or_error_int"
	KindIntRange              Kind = "int_range"
	KindBool                  Kind = "bool"
	KindNumeric               Kind = "numeric"
	KindOneOf                 Kind = "one_of"
	KindJoinOf                Kind = "join_of"
	KindDate                  Kind = "date"
	KindUnixTime              Kind = "unix_time"
	KindVersion               Kind = "version"
	KindMACAddress            Kind = "mac_address"
	KindUUID                  Kind = "uuid"
	KindMD5                   Kind = "md5"
	KindSHA1                  Kind = "sha1"
	KindSHA256                Kind = "sha256"
	KindHex                   Kind = "hex"
)

var descriptions = map[Kind]string{
	KindAny:                   "any string, including empty",
	KindNonEmpty:              "at least one character, whitespace counts",
	KindInt:                   "base-10 signed 64-bit integer, surrounding whitespace ignored",
	KindNonNegativeInt:        "integer >= 0",
	KindNonNegativeOrErrorInt: "integer >= -1 (-1 reports an unavailable value)",
	KindIntRange:              "integer within [min, max]",
	KindBool:                  "exactly \"0\" or \"1\"",
	KindNumeric:               "integer or decimal number with optional sign and exponent",
	KindOneOf:                 "exactly one of the listed values",
	KindJoinOf:                "separator-joined list whose elements are all listed values",
	KindDate:                  "date or timestamp (2006-01-02, RFC 3339, 2006-01-02 15:04:05)",
	KindUnixTime:              "non-negative integer seconds since the epoch",
	KindVersion:               "dotted numeric version with at least two segments, e.g. 10.0.19041",
	KindMACAddress:            "six hex octets separated by ':' or '-'",
	KindUUID:                  "RFC 4122 UUID in canonical 8-4-4-4-12 form",
	KindMD5:                   "32 hex digits",
	KindSHA1:                  "40 hex digits",
	KindSHA256:                "64 hex digits",
	KindHex:                   "hex digits with optional 0x prefix",
}

// aliases maps alternative spellings onto kinds. "normal" and "text" follow
// the naming of the osquery table test helpers.
var aliases = map[string]Kind{
	"normal":    KindAny,
	"text":      KindAny,
	"string":    KindAny,
	"nonempty":  KindNonEmpty,
	"integer":   KindInt,
	"bigint":    KindInt,
	"boolean":   KindBool,
	"double":    KindNumeric,
	"number":    KindNumeric,
	"enum":      KindOneOf,
	"mac":       KindMACAddress,
	"timestamp": KindUnixTime,
}

// ParseKind resolves a tag or alias (case-insensitive) to a Kind.
func ParseKind(tag string) (Kind, bool) {
	t := strings.ToLower(strings.TrimSpace(tag))
	if _, ok := descriptions[Kind(t)]; ok {
		return Kind(t), true
	}
	if k, ok := aliases[t]; ok {
		return k, true
	}
	return "", false
}

// Known reports whether k is a defined kind.
func (k Kind) Known() bool {
	_, ok := descriptions[k]
	return ok
}

// Description returns a one-line explanation of the predicate.
func (k Kind) Description() string {
	return descriptions[k]
}

// Kinds returns every defined kind in lexical order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(descriptions))
	for k := range descriptions {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
