package btree

import (
	"io"
	"os"

	"genebank/kmer"

	"github.com/cockroachdb/errors"
)

// 4 methods -- ReadAt, WriteAt, Close and Sync. *os.File satisfies it.
type blockFile interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
	Sync() error
}

// IOStats counts record traffic through a Store.
type IOStats struct {
	Reads       uint64
	Writes      uint64
	Allocations uint64
}

// Store maps nodes to fixed-size records in a random-access file. It owns the
// file for its whole lifetime.
type Store struct {
	file       blockFile
	path       string
	k          int
	degree     int
	recSize    int
	root       int64
	next       int64 // end of the allocated region; the next node goes here
	syncWrites bool
	scratch    []byte // staging area for one record
	stats      IOStats
}

func validateParams(degree, k int) (int, error) {
	if !kmer.ValidLength(k) {
		return 0, invalidf("sequence length %d outside [%d,%d]", k, kmer.MinLength, kmer.MaxLength)
	}
	switch {
	case degree < 0:
		return 0, invalidf("degree %d is negative", degree)
	case degree == 0:
		return OptimalDegree(), nil
	case degree < minDegree:
		return 0, invalidf("degree %d is below the minimum of %d", degree, minDegree)
	case degree > maxDegree:
		return 0, invalidf("degree %d is above the maximum of %d", degree, maxDegree)
	}
	return degree, nil
}

// CreateStore creates (or truncates) the file at path, writes the header and
// an empty leaf root right after it. A degree of 0 picks OptimalDegree.
func CreateStore(path string, degree, k int, syncWrites bool) (*Store, error) {
	degree, err := validateParams(degree, k)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, storageErr(err, "create %s", path)
	}
	s := newStore(f, path, degree, k, syncWrites)
	s.next = headerSize

	root := s.Allocate(true)
	s.root = root.Location
	if err := s.WriteHeader(); err != nil {
		f.Close()
		return nil, err
	}
	if err := s.Persist(root); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// OpenStore opens an existing tree file and validates its header.
func OpenStore(path string, syncWrites bool) (*Store, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, storageErr(err, "open %s", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, storageErr(err, "stat %s", path)
	}

	buf := make([]byte, headerSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		f.Close()
		if errors.Is(err, io.EOF) {
			return nil, corruptf("%s is %d bytes, too short for a header", path, info.Size())
		}
		return nil, storageErr(err, "read header of %s", path)
	}
	h := decodeHeader(buf)
	if !kmer.ValidLength(h.k) || h.degree < minDegree || h.degree > maxDegree {
		f.Close()
		return nil, corruptf("%s header has k=%d degree=%d", path, h.k, h.degree)
	}

	s := newStore(f, path, h.degree, h.k, syncWrites)
	s.root = h.root
	// a torn final record still occupies its slot
	slots := (info.Size() - headerSize + int64(s.recSize) - 1) / int64(s.recSize)
	s.next = headerSize + slots*int64(s.recSize)
	if !s.validLocation(h.root) {
		f.Close()
		return nil, corruptf("%s header root %d is not a record boundary", path, h.root)
	}
	return s, nil
}

func newStore(f blockFile, path string, degree, k int, syncWrites bool) *Store {
	rs := recordSize(degree)
	return &Store{
		file:       f,
		path:       path,
		k:          k,
		degree:     degree,
		recSize:    rs,
		syncWrites: syncWrites,
		scratch:    make([]byte, rs),
	}
}

func (s *Store) validLocation(loc int64) bool {
	return loc >= headerSize && loc < s.next && (loc-headerSize)%int64(s.recSize) == 0
}

// Allocate reserves the next record slot for a new empty node. Nothing is
// written until the node is persisted.
func (s *Store) Allocate(leaf bool) *Node {
	n := newNode(s.next, leaf, s.degree)
	s.next += int64(s.recSize)
	s.stats.Allocations++
	return n
}

// Load reads and decodes the node stored at loc.
func (s *Store) Load(loc int64) (*Node, error) {
	if s.file == nil {
		return nil, ErrClosed
	}
	if !s.validLocation(loc) {
		return nil, corruptf("location %d is not a record in %s", loc, s.path)
	}
	buf := s.scratch
	if _, err := s.file.ReadAt(buf, loc); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, storageErr(err, "read node at %d", loc)
	}
	s.stats.Reads++
	return decodeNode(buf, loc, s.degree)
}

// Persist overwrites the node's record with its current contents.
func (s *Store) Persist(n *Node) error {
	if s.file == nil {
		return ErrClosed
	}
	if len(n.Entries) > maxEntries(s.degree) {
		return errors.AssertionFailedf("node at %d holds %d entries, max %d", n.Location, len(n.Entries), maxEntries(s.degree))
	}
	encodeNode(n, s.scratch, s.degree)
	if _, err := s.file.WriteAt(s.scratch, n.Location); err != nil {
		return storageErr(err, "write node at %d", n.Location)
	}
	s.stats.Writes++
	if s.syncWrites {
		if err := s.file.Sync(); err != nil {
			return storageErr(err, "sync %s", s.path)
		}
	}
	return nil
}

func (s *Store) SetRoot(loc int64) { s.root = loc }

func (s *Store) RootLocation() int64 { return s.root }

// WriteHeader flushes k, degree and the root location to offset 0.
func (s *Store) WriteHeader() error {
	if s.file == nil {
		return ErrClosed
	}
	buf := make([]byte, headerSize)
	encodeHeader(header{k: s.k, degree: s.degree, root: s.root}, buf)
	if _, err := s.file.WriteAt(buf, 0); err != nil {
		return storageErr(err, "write header of %s", s.path)
	}
	return nil
}

func (s *Store) K() int { return s.k }

func (s *Store) Degree() int { return s.degree }

func (s *Store) RecordSize() int { return s.recSize }

func (s *Store) Path() string { return s.path }

// NodeCount is the number of record slots allocated so far.
func (s *Store) NodeCount() int64 { return (s.next - headerSize) / int64(s.recSize) }

func (s *Store) Stats() IOStats { return s.stats }

// Close writes the header, forces the file to stable storage and closes it.
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	if err := s.WriteHeader(); err != nil {
		return err
	}
	if err := s.file.Sync(); err != nil {
		return storageErr(err, "sync %s", s.path)
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return storageErr(err, "close %s", s.path)
	}
	return nil
}
