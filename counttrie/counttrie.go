// Package counttrie implements a counting prefix trie over the A/C/G/T/N
// alphabet with mismatch-tolerant neighborhood search. It backs the
// trie-based barcode clustering strategy: barcodes are inserted with
// multiplicity, looked up by approximate match, and removed once their
// cluster has been consumed.
package counttrie

import "fmt"

const alphabetSize = 5 // A, C, G, T, N

var baseToIndex = [256]int8{}

func init() {
	for i := range baseToIndex {
		baseToIndex[i] = -1
	}
	for i, b := range []byte{'A', 'C', 'G', 'T', 'N'} {
		baseToIndex[b] = int8(i)
	}
}

var indexToBase = [alphabetSize]byte{'A', 'C', 'G', 'T', 'N'}

type node struct {
	children [alphabetSize]*node
	// count is the number of live inserts of the key terminating at this
	// node. Interior nodes of longer keys have count 0.
	count int
}

func (n *node) empty() bool {
	if n.count > 0 {
		return false
	}
	for _, c := range n.children {
		if c != nil {
			return false
		}
	}
	return true
}

// Trie is a counting prefix trie. The zero value is not usable; call New.
// Trie is not safe for concurrent use.
type Trie struct {
	root *node
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{root: &node{}}
}

// Insert adds one occurrence of key to the trie. Key must consist of
// A/C/G/T/N bases only.
func (t *Trie) Insert(key string) {
	n := t.root
	for i := 0; i < len(key); i++ {
		c := childIndex(key, i)
		if n.children[c] == nil {
			n.children[c] = &node{}
		}
		n = n.children[c]
	}
	n.count++
}

// Count returns the number of occurrences of key inserted since the last
// Remove(key), or zero if the key is not indexed.
func (t *Trie) Count(key string) int {
	n := t.root
	for i := 0; i < len(key); i++ {
		c := childIndex(key, i)
		if n.children[c] == nil {
			return 0
		}
		n = n.children[c]
	}
	return n.count
}

// Remove deletes every occurrence of key from the trie, pruning nodes that
// no longer lead to any indexed key. Removing an absent key is a no-op.
func (t *Trie) Remove(key string) {
	t.remove(t.root, key, 0)
}

func (t *Trie) remove(n *node, key string, depth int) {
	if depth == len(key) {
		n.count = 0
		return
	}
	c := childIndex(key, depth)
	child := n.children[c]
	if child == nil {
		return
	}
	t.remove(child, key, depth+1)
	if child.empty() {
		n.children[c] = nil
	}
}

// FindWithinDistance returns every indexed key within maxDistance of key,
// including key itself when it is still indexed. When allowIndels is false
// the search tolerates substitutions only, so all matches have the same
// length as key (Hamming neighborhood). When allowIndels is true the search
// tolerates insertions and deletions as well (Levenshtein neighborhood) and
// may return keys of different lengths.
func (t *Trie) FindWithinDistance(key string, maxDistance int, allowIndels bool) []string {
	if maxDistance < 0 {
		return nil
	}
	s := searcher{key: key, max: maxDistance}
	if allowIndels {
		row := make([]int, len(key)+1)
		for j := range row {
			row[j] = j
		}
		s.searchEdit(t.root, row)
	} else {
		s.searchHamming(t.root, 0, 0)
	}
	return s.found
}

// searcher carries the state of one neighborhood query: the query key, the
// distance budget, the path to the current node, and the matches collected
// so far.
type searcher struct {
	key    string
	max    int
	prefix []byte
	found  []string
}

// searchHamming walks only paths of length len(key), accumulating
// mismatches and pruning as soon as the budget is exceeded.
func (s *searcher) searchHamming(n *node, depth, mismatches int) {
	if depth == len(s.key) {
		if n.count > 0 {
			s.found = append(s.found, string(s.prefix))
		}
		return
	}
	want := childIndex(s.key, depth)
	for c, child := range n.children {
		if child == nil {
			continue
		}
		m := mismatches
		if int8(c) != want {
			m++
			if m > s.max {
				continue
			}
		}
		s.prefix = append(s.prefix, indexToBase[c])
		s.searchHamming(child, depth+1, m)
		s.prefix = s.prefix[:len(s.prefix)-1]
	}
}

// searchEdit walks the trie carrying one dynamic-programming row per node:
// row[j] is the edit distance between the current path and key[:j]. A
// subtree is pruned when every cell of its row exceeds the budget, since
// the distance can only grow from there.
func (s *searcher) searchEdit(n *node, row []int) {
	if n.count > 0 && row[len(s.key)] <= s.max {
		s.found = append(s.found, string(s.prefix))
	}
	min := row[0]
	for _, d := range row[1:] {
		if d < min {
			min = d
		}
	}
	if min > s.max {
		return
	}
	next := make([]int, len(row))
	for c, child := range n.children {
		if child == nil {
			continue
		}
		next[0] = row[0] + 1
		for j := 1; j <= len(s.key); j++ {
			cost := 1
			if childIndex(s.key, j-1) == int8(c) {
				cost = 0
			}
			d := row[j-1] + cost
			if v := row[j] + 1; v < d {
				d = v
			}
			if v := next[j-1] + 1; v < d {
				d = v
			}
			next[j] = d
		}
		s.prefix = append(s.prefix, indexToBase[c])
		s.searchEdit(child, next)
		s.prefix = s.prefix[:len(s.prefix)-1]
	}
}

func childIndex(key string, i int) int8 {
	c := baseToIndex[key[i]]
	if c < 0 {
		panic(fmt.Sprintf("invalid base %c in key %q", key[i], key))
	}
	return c
}
