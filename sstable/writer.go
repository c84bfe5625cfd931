// Package sstable writes a B-tree's contents as an immutable sorted table and
// answers point lookups on it with a binary search over the entry index.
//
// Layout: entries (uvarint keyLen | uvarint valLen | key | val), then one
// little-endian u32 offset per entry, then the footer (entry count, k).
// Keys are the 8-byte big-endian sequence keys, values 4-byte big-endian
// frequencies, so byte order matches sequence order.
package sstable

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"genebank/btree"
	"genebank/kmer"
)

const (
	keySize = 8
	valSize = 4
)

var ErrCorrupt = errors.New("sstable: corrupt table")

// 2 methods -- `Close() error` and `Sync() error`
type syncCloser interface {
	io.Closer
	Sync() error
}

// Source is anything that can walk its entries in ascending order.
type Source interface {
	K() int
	Traverse(fn btree.VisitFunc) error
}

type Writer struct {
	file    syncCloser // nil when the target is a plain io.Writer
	bw      *bufio.Writer
	block   *blockWriter
	k       int
	lastKey uint64
	count   int
}

func NewWriter(file io.Writer, k int) *Writer {
	w := &Writer{k: k}
	w.file, _ = file.(syncCloser)
	w.bw = bufio.NewWriter(file)
	w.block = newBlockWriter()
	return w
}

// Add appends one entry. Keys must arrive in strictly ascending order.
func (w *Writer) Add(key uint64, freq uint32) error {
	if w.count > 0 && key <= w.lastKey {
		return fmt.Errorf("sstable: key %d after %d is out of order", key, w.lastKey)
	}
	var k [keySize]byte
	var v [valSize]byte
	binary.BigEndian.PutUint64(k[:], key)
	binary.BigEndian.PutUint32(v[:], freq)
	if _, err := w.block.add(k[:], v[:]); err != nil {
		return err
	}
	if _, err := w.bw.ReadFrom(w.block.buf); err != nil {
		return err
	}
	w.lastKey = key
	w.count++
	return nil
}

// WriteFrom copies every entry of src.
func (w *Writer) WriteFrom(src Source) error {
	if src.K() != w.k {
		return fmt.Errorf("sstable: source k=%d, table k=%d", src.K(), w.k)
	}
	return src.Traverse(func(seq string, freq uint32) error {
		key, err := kmer.Encode(seq, w.k)
		if err != nil {
			return err
		}
		return w.Add(key, freq)
	})
}

// Count is the number of entries added so far.
func (w *Writer) Count() int { return w.count }

// Close writes the index and footer, then flushes, syncs and closes the file.
func (w *Writer) Close() error {
	if err := w.block.finish(w.k); err != nil {
		return err
	}
	if _, err := w.bw.ReadFrom(w.block.buf); err != nil {
		return err
	}
	if err := w.bw.Flush(); err != nil {
		return err
	}
	w.bw = nil
	if w.file == nil {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		return err
	}
	err := w.file.Close()
	w.file = nil
	return err
}
