package utils

import "hash/fnv"

// HashStringToUint64 is a stable FNV-1a hash, used to break ties
// deterministically per issue.
func HashStringToUint64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
