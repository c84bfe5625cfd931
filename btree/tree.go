package btree

import (
	"fmt"

	"genebank/cache"
	"genebank/kmer"

	"github.com/rs/zerolog"
)

/*
Tree is the B-tree engine. It keeps the root node in memory and reaches every
other node through its Store by file location.
*/
type Tree struct {
	store  *Store
	root   *Node
	cache  *cache.LRU // nil when caching is off
	log    zerolog.Logger
	closed bool

	splits      uint64
	cacheHits   uint64
	cacheMisses uint64
}

// Create starts a new tree file at path, replacing any existing file.
// A degree of 0 picks the largest degree whose node fits in a 4 KiB block.
func Create(path string, degree, k int, opts ...Option) (*Tree, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	s, err := CreateStore(path, degree, k, o.syncWrites)
	if err != nil {
		return nil, err
	}
	return newTree(s, o)
}

// Open loads an existing tree file; k and degree come from its header.
func Open(path string, opts ...Option) (*Tree, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	s, err := OpenStore(path, o.syncWrites)
	if err != nil {
		return nil, err
	}
	return newTree(s, o)
}

func newTree(s *Store, o options) (*Tree, error) {
	root, err := s.Load(s.RootLocation())
	if err != nil {
		s.Close()
		return nil, err
	}
	t := &Tree{
		store: s,
		root:  root,
		log:   o.logger.With().Str("file", s.Path()).Logger(),
	}
	if o.cacheSize > 0 {
		if t.cache, err = cache.New(o.cacheSize); err != nil {
			s.Close()
			return nil, err
		}
	}
	t.log.Debug().
		Int("k", s.K()).
		Int("degree", s.Degree()).
		Int64("root", root.Location).
		Int("cache", o.cacheSize).
		Msg("tree opened")
	return t, nil
}

func (t *Tree) K() int { return t.store.K() }

func (t *Tree) Degree() int { return t.store.Degree() }

func (t *Tree) String() string {
	return fmt.Sprintf("btree(k=%d degree=%d root=%d nodes=%d)",
		t.store.K(), t.store.Degree(), t.root.Location, t.store.NodeCount())
}

// Search returns how many times seq was inserted, 0 if never. Sequences with
// an unknown base were never inserted, so they report 0.
func (t *Tree) Search(seq string) (uint32, error) {
	if t.closed {
		return 0, ErrClosed
	}
	if kmer.HasUnknown(seq) {
		return 0, nil
	}
	key, err := kmer.Encode(seq, t.store.K())
	if err != nil {
		return 0, err
	}

	if t.cache != nil {
		n, pos, err := t.findCached(key)
		if err != nil {
			return 0, err
		}
		if n != nil {
			t.touch(n.Location)
			return n.Entries[pos].Frequency, nil
		}
	}

	n := t.root
	for {
		pos, found := n.search(key)
		if found {
			t.touch(n.Location)
			return n.Entries[pos].Frequency, nil
		}
		if n.Leaf {
			return 0, nil
		}
		if n, err = t.store.Load(n.Children[pos]); err != nil {
			return 0, err
		}
	}
}

// Insert adds one occurrence of seq. Sequences containing the unknown base are
// skipped without error.
func (t *Tree) Insert(seq string) error {
	if t.closed {
		return ErrClosed
	}
	if kmer.HasUnknown(seq) {
		t.log.Debug().Str("seq", seq).Msg("skipping sequence with unknown base")
		return nil
	}
	key, err := kmer.Encode(seq, t.store.K())
	if err != nil {
		return err
	}

	// A key lives in exactly one node, so finding it in a cached node is conclusive.
	if t.cache != nil {
		n, pos, err := t.findCached(key)
		if err != nil {
			return err
		}
		if n != nil {
			n.Entries[pos].Frequency++
			return t.commit(n)
		}
	}

	if t.root.full(t.store.Degree()) {
		if err := t.growRoot(); err != nil {
			return err
		}
	}
	return t.insertNonFull(t.root, key)
}

/*
growRoot is the only place the tree gets taller. A new internal root takes the
full old root as its single child, then the old root is split under it.
*/
func (t *Tree) growRoot() error {
	old := t.root
	root := t.store.Allocate(false)
	root.Children = append(root.Children, old.Location)
	if _, err := t.splitChild(root, 0, old); err != nil {
		return err
	}
	t.root = root
	t.store.SetRoot(root.Location)
	if err := t.store.WriteHeader(); err != nil {
		return err
	}
	t.log.Debug().Int64("root", root.Location).Int64("old_root", old.Location).Msg("tree grew a level")
	return nil
}

/*
splitChild splits the full node child, the i-th child of parent. The median
moves up into parent at i and the new sibling becomes child i+1. parent, child
and sibling are written in that order; a failure between the writes leaves the
file inconsistent and is not rolled back.
*/
func (t *Tree) splitChild(parent *Node, i int, child *Node) (*Node, error) {
	sibling := t.store.Allocate(child.Leaf)
	sibling.Parent = parent.Location
	child.Parent = parent.Location

	median := child.split(sibling, t.store.Degree())
	parent.insertEntryAt(i, median)
	parent.insertChildAt(i+1, sibling.Location)

	for _, n := range []*Node{parent, child, sibling} {
		if err := t.store.Persist(n); err != nil {
			return nil, err
		}
	}
	t.splits++
	t.log.Debug().
		Int64("parent", parent.Location).
		Int64("child", child.Location).
		Int64("sibling", sibling.Location).
		Str("median", kmer.Decode(median.Key, t.store.K())).
		Msg("split node")
	return sibling, nil
}

/*
insertNonFull descends from n, which has room for one more entry. Every child
is split before it is entered if it is full, so the leaf reached at the end can
always take the new key.
*/
func (t *Tree) insertNonFull(n *Node, key uint64) error {
	degree := t.store.Degree()
	for {
		pos, found := n.search(key)
		if found {
			n.Entries[pos].Frequency++
			return t.commit(n)
		}
		if n.Leaf {
			n.insertEntryAt(pos, Entry{Key: key, Frequency: 1})
			return t.commit(n)
		}

		child, err := t.store.Load(n.Children[pos])
		if err != nil {
			return err
		}
		child.Parent = n.Location

		if child.full(degree) {
			sibling, err := t.splitChild(n, pos, child)
			if err != nil {
				return err
			}
			// The promoted median may change the direction to take.
			switch median := n.Entries[pos].Key; {
			case key == median:
				n.Entries[pos].Frequency++
				return t.commit(n)
			case key > median:
				child = sibling
			}
		}
		n = child
	}
}

// commit persists a node that now holds the touched entry and marks it used.
func (t *Tree) commit(n *Node) error {
	if err := t.store.Persist(n); err != nil {
		return err
	}
	if n.Location == t.root.Location {
		t.root = n
	}
	t.touch(n.Location)
	return nil
}

func (t *Tree) touch(loc int64) {
	if t.cache == nil {
		return
	}
	if evicted, ok := t.cache.Add(loc); ok {
		t.log.Trace().Int64("loc", evicted).Msg("evicted node from cache")
	}
}

/*
findCached scans the cached locations, most recent first, for a node holding
key. Content always comes from the store (or the in-memory root, which is kept
identical to its record), the cache only says where to look.
*/
func (t *Tree) findCached(key uint64) (*Node, int, error) {
	for _, loc := range t.cache.Keys() {
		n := t.root
		if loc != t.root.Location {
			var err error
			if n, err = t.store.Load(loc); err != nil {
				return nil, 0, err
			}
		}
		if pos, found := n.search(key); found {
			t.cacheHits++
			return n, pos, nil
		}
	}
	t.cacheMisses++
	return nil, 0, nil
}

// Close persists the root, records its location in the header and closes the
// file. Further calls are no-ops.
func (t *Tree) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.store.Persist(t.root); err != nil {
		t.store.Close()
		return err
	}
	t.store.SetRoot(t.root.Location)
	if err := t.store.Close(); err != nil {
		return err
	}
	t.log.Debug().Uint64("splits", t.splits).Msg("tree closed")
	return nil
}
