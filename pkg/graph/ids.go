package graph

import (
	"fmt"
	"strconv"
)

// Canonical orders two ids lexicographically.
func Canonical(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// MergeID is the id of the node that replaces the contracted pair a, b.
// It does not depend on argument order.
func MergeID(a, b string) string {
	lo, hi := Canonical(a, b)
	return lo + "-" + hi
}

// SubdivisionID is the id of the i-th of n-1 nodes placed along edge a-b.
func SubdivisionID(a, b string, i, n int) string {
	return fmt.Sprintf("%s:%d/%d", MergeID(a, b), i, n)
}

// UniqueID returns base if no node carries it, otherwise base~2, base~3, ...
func (g *Graph) UniqueID(base string) string {
	if !g.HasNode(base) {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "~" + strconv.Itoa(n)
		if !g.HasNode(candidate) {
			return candidate
		}
	}
}
