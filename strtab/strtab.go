// package strtab lays out encoded translation strings in one
// deduplicated blob.
//
// The layout exploits suffix sharing: when one string's encoded bytes
// are a suffix of another's, only the longer string is stored and the
// shorter one points into its tail, sharing the terminator. The merge
// is a greedy single pass over a reverse-sorted index, so three or
// more strings with partial, non-nested overlaps may keep redundant
// bytes. Firmware size budgets were validated against this exact
// layout; the greedy behavior is intentional.
package strtab

import (
	"bytes"
	"sort"
)

// Terminator ends every stored string.
const Terminator = 0x00

// remap marks a string absorbed into a representative: its bytes begin
// offset bytes into the representative's run.
type remap struct {
	into   int
	offset int
}

// merge finds, for every string whose bytes are a proper or equal
// suffix of another's, the longest absorbing representative. Entries
// that store their own bytes stay nil.
func merge(seqs [][]byte) []*remap {
	n := len(seqs)
	rev := make([][]byte, n)
	for i, s := range seqs {
		r := make([]byte, len(s))
		for j, b := range s {
			r[len(s)-1-j] = b
		}
		rev[i] = r
	}

	// Sorting the reversed strings makes every suffix group
	// contiguous:
	//   "fe", "fedc", "fedcba"
	// so one forward scan finds the longest absorbing entry.
	// Byte-identical strings order by input index, which keeps the
	// result deterministic.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if c := bytes.Compare(rev[order[a]], rev[order[b]]); c != 0 {
			return c < 0
		}
		return order[a] < order[b]
	})

	remaps := make([]*remap, n)
	for i := 0; i < n-1; i++ {
		j := i
		for j+1 < n && bytes.HasPrefix(rev[order[j+1]], rev[order[i]]) {
			j++
		}
		if j != i {
			remaps[order[i]] = &remap{
				into:   order[j],
				offset: len(seqs[order[j]]) - len(seqs[order[i]]),
			}
		}
	}
	return remaps
}

// Compact lays out the encoded strings and returns the blob, one
// offset per input and one representative per input. Reading the blob
// from offsets[i] up to the next terminator yields exactly seqs[i];
// reps[i] is the index of the string whose stored bytes seqs[i] shares,
// itself when it stores its own. Representatives are emitted in input
// order.
func Compact(seqs [][]byte) (blob []byte, offsets, reps []int) {
	remaps := merge(seqs)
	offsets = make([]int, len(seqs))
	reps = make([]int, len(seqs))
	for i, s := range seqs {
		reps[i] = i
		if remaps[i] != nil {
			continue
		}
		offsets[i] = len(blob)
		blob = append(blob, s...)
		blob = append(blob, Terminator)
	}
	for i, r := range remaps {
		if r == nil {
			continue
		}
		offsets[i] = offsets[r.into] + r.offset
		reps[i] = r.into
	}
	return blob, offsets, reps
}
