package sstable

import (
	"encoding/binary"
	"fmt"
	"os"

	"genebank/kmer"
)

// Reader holds a whole table in memory.
type Reader struct {
	block blockReader
	k     int
}

func NewReader(data []byte) (*Reader, error) {
	if len(data) < footerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the footer", ErrCorrupt, len(data))
	}
	footer := data[len(data)-footerSize:]
	num := int(binary.LittleEndian.Uint32(footer[0:4]))
	k := int(binary.LittleEndian.Uint32(footer[4:8]))
	if !kmer.ValidLength(k) {
		return nil, fmt.Errorf("%w: sequence length %d", ErrCorrupt, k)
	}
	indexStart := len(data) - footerSize - num*4
	if num < 0 || indexStart < 0 {
		return nil, fmt.Errorf("%w: index of %d entries does not fit", ErrCorrupt, num)
	}
	r := &Reader{
		block: blockReader{
			buf:        data[:indexStart],
			offsets:    data[indexStart : len(data)-footerSize],
			numOffsets: num,
		},
		k: k,
	}
	if err := r.block.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sstable: read %s: %w", path, err)
	}
	return NewReader(data)
}

func (r *Reader) K() int { return r.k }

func (r *Reader) Len() int { return r.block.numOffsets }

// Get returns the frequency stored for seq, 0 if the table does not hold it.
func (r *Reader) Get(seq string) (uint32, error) {
	key, err := kmer.Encode(seq, r.k)
	if err != nil {
		return 0, err
	}
	var searchKey [keySize]byte
	binary.BigEndian.PutUint64(searchKey[:], key)

	pos := r.block.search(searchKey[:], moveUpWhenKeyGT)
	if pos == r.block.numOffsets {
		return 0, nil
	}
	k, v := r.block.fetchDataFor(pos)
	if binary.BigEndian.Uint64(k) != key {
		return 0, nil
	}
	return binary.BigEndian.Uint32(v), nil
}

// Scan calls fn for every entry in order.
func (r *Reader) Scan(fn func(seq string, freq uint32) error) error {
	for pos := 0; pos < r.block.numOffsets; pos++ {
		k, v := r.block.fetchDataFor(pos)
		seq := kmer.Decode(binary.BigEndian.Uint64(k), r.k)
		if err := fn(seq, binary.BigEndian.Uint32(v)); err != nil {
			return err
		}
	}
	return nil
}
