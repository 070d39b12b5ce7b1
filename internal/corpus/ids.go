package corpus

import (
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"
)

// idRange bounds hashed question IDs.
const idRange = 10000

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// NormalizeID maps a raw corpus identifier to a small non-negative integer:
// a trailing numeric suffix ("q_007" → 7), else the whole token as an
// integer, else an FNV-1a hash of the token in [0, idRange).
func NormalizeID(raw string) int {
	raw = strings.TrimSpace(raw)
	if m := trailingDigits.FindString(raw); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return n
	}
	h := fnv.New32a()
	h.Write([]byte(raw))
	return int(h.Sum32() % idRange)
}

// NormalizeIDs normalizes every raw ID in order and resolves collisions by
// linear probing, so the result is unique and depends only on the input.
func NormalizeIDs(raw []string) []int {
	out := make([]int, len(raw))
	used := make(map[int]struct{}, len(raw))
	for i, r := range raw {
		id := NormalizeID(r)
		for {
			if _, taken := used[id]; !taken {
				break
			}
			id = (id + 1) % idRange
		}
		used[id] = struct{}{}
		out[i] = id
	}
	return out
}
