package util

import (
	"strconv"
)

// MustParseUint parses s as an unsigned id and returns 0 when it is not one.
func MustParseUint(s string) uint {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
