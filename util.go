package x690

/*
util.go holds the handful of stdlib bindings shared across the
package.
*/

import "strconv"

var (
	itoa func(int) string            = strconv.Itoa
	utoa                             = func(u uint64) string { return strconv.FormatUint(u, 10) }
	atou func(string) (uint64, error) = func(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) }
)
