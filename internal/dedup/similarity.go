package dedup

import "strings"

// Similarity computes a text similarity ratio in [0, 1] using the
// Ratcliff/Obershelp algorithm: twice the number of matching characters
// (summed over recursively-found longest common blocks) divided by the
// total length of both inputs. Comparison is case-insensitive.
//
// This matches the classic sequence-matcher ratio used by most backlog
// tooling, so thresholds tuned elsewhere (0.75 for titles, 0.85 for
// title+body) transfer directly.
func Similarity(text1, text2 string) float64 {
	a := []rune(strings.ToLower(text1))
	b := []rune(strings.ToLower(text2))

	total := len(a) + len(b)
	if total == 0 {
		return 1.0 // Two empty strings are identical.
	}

	matched := matchingCharacters(a, b)
	return 2.0 * float64(matched) / float64(total)
}

// span is a pending comparison window during block matching.
type span struct {
	alo, ahi, blo, bhi int
}

// matchingCharacters sums the lengths of all matching blocks between a and b.
// Longest block first, then recurse (iteratively, via an explicit stack) into
// the regions on either side of it.
func matchingCharacters(a, b []rune) int {
	// Index positions of each rune in b for the inner matcher.
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	matched := 0
	stack := []span{{0, len(a), 0, len(b)}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		besti, bestj, bestsize := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if bestsize == 0 {
			continue
		}
		matched += bestsize

		if s.alo < besti && s.blo < bestj {
			stack = append(stack, span{s.alo, besti, s.blo, bestj})
		}
		if besti+bestsize < s.ahi && bestj+bestsize < s.bhi {
			stack = append(stack, span{besti + bestsize, s.ahi, bestj + bestsize, s.bhi})
		}
	}

	return matched
}

// longestMatch finds the longest block where a[alo:ahi] matches b[blo:bhi].
// Of all maximal blocks it returns the earliest in a, then earliest in b,
// which keeps the recursion deterministic.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj, bestsize = alo, blo, 0

	// j2len[j] = length of the longest match ending at a[i-1], b[j-1].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
