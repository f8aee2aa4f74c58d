// Package shape decides whether a single stringified cell value has the
// structural form a column declares.
//
// Query engines hand every value to the harness as a string, so shape
// categories are coarse and string based: "parses as a base-10 integer",
// "is one of these literals", "looks like a MAC address". They catch a
// table returning obviously malformed data; they do not assert business
// rules.
//
// # Categories
//
// A Category is a Kind plus the parameters some kinds need:
//
//	shape.Int()                          // int
//	shape.NonEmpty().OrEmpty()           // non_empty, but "" is accepted
//	shape.IntRange(0, 100)               // int_range[0..100]
//	shape.OneOf("on", "off")             // one_of{on|off}
//	shape.JoinOf(",", "A2DP", "HFP")     // join_of{A2DP|HFP}
//
// Categories are validated once with Category.Validate, normally when a
// schema is constructed. Matches itself is total: it never panics and
// returns false for a kind it does not know.
//
// Pattern kinds (mac_address, version, md5, ...) are direct structural
// checks over bytes, not regular expressions.
package shape
