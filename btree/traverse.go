package btree

import "genebank/kmer"

// VisitFunc receives entries in ascending key order. Returning an error stops
// the walk and the error is passed through.
type VisitFunc func(seq string, freq uint32) error

// Traverse walks the whole tree in order: left child, entry, next child, ...
func (t *Tree) Traverse(fn VisitFunc) error {
	if t.closed {
		return ErrClosed
	}
	return t.walk(t.root, func(e Entry) error {
		return fn(kmer.Decode(e.Key, t.store.K()), e.Frequency)
	})
}

// Entries collects every entry in key order. Meant for small trees and tests.
func (t *Tree) Entries() ([]Entry, error) {
	if t.closed {
		return nil, ErrClosed
	}
	var out []Entry
	err := t.walk(t.root, func(e Entry) error {
		out = append(out, e)
		return nil
	})
	return out, err
}

func (t *Tree) walk(n *Node, fn func(Entry) error) error {
	for i, e := range n.Entries {
		if !n.Leaf {
			child, err := t.store.Load(n.Children[i])
			if err != nil {
				return err
			}
			if err := t.walk(child, fn); err != nil {
				return err
			}
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	if n.Leaf {
		return nil
	}
	last, err := t.store.Load(n.Children[len(n.Entries)])
	if err != nil {
		return err
	}
	return t.walk(last, fn)
}
