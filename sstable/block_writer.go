package sstable

import (
	"bytes"
	"encoding/binary"
)

const (
	maxBlockSize = 4096
	footerSize   = 8 // numOffsets u32 | k u32
)

// blockWriter stages entries and, at the end, the offset index and footer.
// Everything is drained by the Writer into the file after each call.
type blockWriter struct {
	buf        *bytes.Buffer
	offsets    []uint32
	nextOffset uint32
}

func newBlockWriter() *blockWriter {
	bw := &blockWriter{}
	bw.buf = bytes.NewBuffer(make([]byte, 0, maxBlockSize))
	return bw
}

// use byte slice as an in-mem staging area
func (b *blockWriter) scratchBuf(needed int) []byte {
	available := b.buf.Available()
	if needed > available {
		b.buf.Grow(needed)
	}
	buf := b.buf.AvailableBuffer()
	return buf[:needed]
}

func (b *blockWriter) trackOffset(n uint32) {
	b.offsets = append(b.offsets, b.nextOffset)
	b.nextOffset += n
}

// data entry = keyLen|valLen|key|val
func (b *blockWriter) add(key, val []byte) (int, error) {
	keyLen, valLen := len(key), len(val)
	needed := 2*binary.MaxVarintLen64 + keyLen + valLen
	buf := b.scratchBuf(needed)
	n := binary.PutUvarint(buf, uint64(keyLen))
	n += binary.PutUvarint(buf[n:], uint64(valLen))
	copy(buf[n:], key)
	copy(buf[n+keyLen:], val)
	used := n + keyLen + valLen
	n, err := b.buf.Write(buf[:used])
	if err != nil {
		return n, err
	}
	b.trackOffset(uint32(n))
	return n, nil
}

// finish appends the offsets of every entry, then the footer.
func (b *blockWriter) finish(k int) error {
	numOffsets := len(b.offsets)
	needed := numOffsets*4 + footerSize
	buf := b.scratchBuf(needed)
	for i, offset := range b.offsets {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], offset)
	}
	binary.LittleEndian.PutUint32(buf[needed-8:needed-4], uint32(numOffsets))
	binary.LittleEndian.PutUint32(buf[needed-4:needed], uint32(k))
	_, err := b.buf.Write(buf)
	return err
}
