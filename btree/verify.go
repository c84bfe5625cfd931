package btree

import (
	"github.com/cockroachdb/errors"
)

// Summary describes the shape of a tree that passed verification.
type Summary struct {
	Height      int // levels, 1 for a lone root
	Nodes       int
	Keys        int
	Occurrences uint64 // sum of all frequencies
}

type bound struct {
	key uint64
	set bool
}

// Verify walks every node and checks the B-tree invariants: entry counts
// within bounds, keys strictly ascending and inside the range their parent
// allows, child counts matching entry counts, all leaves at one depth.
// Violations are reported as ErrCorruptRecord.
func (t *Tree) Verify() (Summary, error) {
	if t.closed {
		return Summary{}, ErrClosed
	}
	v := verifier{t: t, leafDepth: -1}
	if err := v.check(t.root, 1, bound{}, bound{}); err != nil {
		return Summary{}, errors.Mark(err, ErrCorruptRecord)
	}
	v.sum.Height = v.leafDepth
	return v.sum, nil
}

type verifier struct {
	t         *Tree
	leafDepth int
	sum       Summary
}

func (v *verifier) check(n *Node, depth int, lo, hi bound) error {
	degree := v.t.store.Degree()
	isRoot := n.Location == v.t.root.Location
	v.sum.Nodes++

	if len(n.Entries) > maxEntries(degree) {
		return errors.Errorf("node %d has %d entries, max %d", n.Location, len(n.Entries), maxEntries(degree))
	}
	if !isRoot && len(n.Entries) < minEntries(degree) {
		return errors.Errorf("node %d has %d entries, min %d", n.Location, len(n.Entries), minEntries(degree))
	}
	for i, e := range n.Entries {
		if i > 0 && n.Entries[i-1].Key >= e.Key {
			return errors.Errorf("node %d keys out of order at %d", n.Location, i)
		}
		if (lo.set && e.Key <= lo.key) || (hi.set && e.Key >= hi.key) {
			return errors.Errorf("node %d key %d escapes its parent's range", n.Location, e.Key)
		}
		if e.Frequency == 0 {
			return errors.Errorf("node %d key %d has zero frequency", n.Location, e.Key)
		}
		v.sum.Keys++
		v.sum.Occurrences += uint64(e.Frequency)
	}

	if n.Leaf {
		if len(n.Children) != 0 {
			return errors.Errorf("leaf %d has %d children", n.Location, len(n.Children))
		}
		if v.leafDepth == -1 {
			v.leafDepth = depth
		} else if v.leafDepth != depth {
			return errors.Errorf("leaf %d at depth %d, others at %d", n.Location, depth, v.leafDepth)
		}
		return nil
	}

	if len(n.Entries) == 0 {
		return errors.Errorf("internal node %d has no entries", n.Location)
	}
	if len(n.Children) != len(n.Entries)+1 {
		return errors.Errorf("node %d has %d entries but %d children", n.Location, len(n.Entries), len(n.Children))
	}
	for i, loc := range n.Children {
		child, err := v.t.store.Load(loc)
		if err != nil {
			return err
		}
		clo, chi := lo, hi
		if i > 0 {
			clo = bound{key: n.Entries[i-1].Key, set: true}
		}
		if i < len(n.Entries) {
			chi = bound{key: n.Entries[i].Key, set: true}
		}
		if err := v.check(child, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}
