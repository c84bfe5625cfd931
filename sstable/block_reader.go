package sstable

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

type searchCondition int

const (
	moveUpWhenKeyGTE searchCondition = iota
	moveUpWhenKeyGT
)

// blockReader gives positional access to the entries of a loaded table.
type blockReader struct {
	buf        []byte // data region
	offsets    []byte // index region, 4B per entry
	numOffsets int
}

func (b *blockReader) fetchDataFor(pos int) (key, val []byte) {
	offset := int(binary.LittleEndian.Uint32(b.offsets[pos*4 : pos*4+4]))
	keyLen, n := binary.Uvarint(b.buf[offset:])
	offset += n
	valLen, n := binary.Uvarint(b.buf[offset:])
	offset += n
	key = b.buf[offset : offset+int(keyLen)]
	offset += int(keyLen)
	val = b.buf[offset : offset+int(valLen)]
	return key, val
}

func (b *blockReader) readKeyAt(pos int) []byte {
	key, _ := b.fetchDataFor(pos)
	return key
}

// search returns the first position whose key is >= searchKey (moveUpWhenKeyGT)
// or > searchKey (moveUpWhenKeyGTE).
func (b *blockReader) search(searchKey []byte, condition searchCondition) int {
	low, high := 0, b.numOffsets
	var mid int
	for low < high {
		mid = (low + high) / 2
		key := b.readKeyAt(mid)
		cmp := bytes.Compare(searchKey, key)
		if cmp >= int(condition) {
			low = mid + 1
		} else {
			high = mid
		}
	}
	return low
}

// validate walks every entry once so later lookups can index without checks.
func (b *blockReader) validate() error {
	expect := 0
	var prev []byte
	for pos := 0; pos < b.numOffsets; pos++ {
		offset := int(binary.LittleEndian.Uint32(b.offsets[pos*4 : pos*4+4]))
		if offset != expect {
			return fmt.Errorf("%w: entry %d at offset %d, expected %d", ErrCorrupt, pos, offset, expect)
		}
		keyLen, n := binary.Uvarint(b.buf[offset:])
		if n <= 0 {
			return fmt.Errorf("%w: entry %d: bad key length", ErrCorrupt, pos)
		}
		offset += n
		valLen, n := binary.Uvarint(b.buf[offset:])
		if n <= 0 {
			return fmt.Errorf("%w: entry %d: bad value length", ErrCorrupt, pos)
		}
		offset += n
		if keyLen != keySize || valLen != valSize || offset+keySize+valSize > len(b.buf) {
			return fmt.Errorf("%w: entry %d: sizes %d/%d", ErrCorrupt, pos, keyLen, valLen)
		}
		key := b.buf[offset : offset+keySize]
		if prev != nil && bytes.Compare(prev, key) >= 0 {
			return fmt.Errorf("%w: entry %d out of order", ErrCorrupt, pos)
		}
		prev = key
		expect = offset + keySize + valSize
	}
	if expect != len(b.buf) {
		return fmt.Errorf("%w: %d trailing bytes in data region", ErrCorrupt, len(b.buf)-expect)
	}
	return nil
}
