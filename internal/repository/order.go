package repository

import (
	"strconv"
	"strings"
)

// lessID orders identifiers of the form <prefix>-<n> by prefix and then by
// the numeric sequence, so TKT-999 sorts before TKT-1000. Identifiers
// without a numeric suffix fall back to plain string order.
func lessID(a, b string) bool {
	prefixA, numA, okA := splitID(a)
	prefixB, numB, okB := splitID(b)
	if !okA || !okB || prefixA != prefixB {
		return a < b
	}
	if numA != numB {
		return numA < numB
	}
	return a < b
}

func splitID(id string) (string, uint64, bool) {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.ParseUint(id[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return id[:i], n, true
}
