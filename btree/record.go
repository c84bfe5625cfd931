package btree

import "encoding/binary"

/*
Node record, big-endian, always written at full width for the tree's degree t:

| leaf | count | self | parent | children  | entries                      |
|  1B  |  4B   |  8B  |   8B   | 2t * 8B   | (2t-1) * (key 8B + freq 4B)  |

Unused child and entry slots are zero. On decode only the first count entries
and, for internal nodes, the first count+1 children are read.
*/

var order = binary.BigEndian

func encodeNode(n *Node, buf []byte, degree int) {
	clear(buf)
	if n.Leaf {
		buf[0] = 1
	}
	order.PutUint32(buf[1:5], uint32(int32(len(n.Entries))))
	order.PutUint64(buf[5:13], uint64(n.Location))
	order.PutUint64(buf[13:21], uint64(n.Parent))

	off := recordFixed
	for i, c := range n.Children {
		order.PutUint64(buf[off+i*childSize:], uint64(c))
	}

	off += childSize * 2 * degree
	for i, e := range n.Entries {
		p := off + i*entrySize
		order.PutUint64(buf[p:p+8], e.Key)
		order.PutUint32(buf[p+8:p+12], e.Frequency)
	}
}

func decodeNode(buf []byte, loc int64, degree int) (*Node, error) {
	count := int(int32(order.Uint32(buf[1:5])))
	if count < 0 || count > maxEntries(degree) {
		return nil, corruptf("node at %d declares %d entries, at most %d fit", loc, count, maxEntries(degree))
	}
	self := int64(order.Uint64(buf[5:13]))
	if self != loc {
		return nil, corruptf("node read at %d claims location %d", loc, self)
	}

	n := newNode(loc, buf[0] != 0, degree)
	n.Parent = int64(order.Uint64(buf[13:21]))

	off := recordFixed
	if !n.Leaf {
		for i := 0; i <= count; i++ {
			n.Children = append(n.Children, int64(order.Uint64(buf[off+i*childSize:])))
		}
	}

	off += childSize * 2 * degree
	for i := 0; i < count; i++ {
		p := off + i*entrySize
		n.Entries = append(n.Entries, Entry{
			Key:       order.Uint64(buf[p : p+8]),
			Frequency: order.Uint32(buf[p+8 : p+12]),
		})
	}
	return n, nil
}

type header struct {
	k      int
	degree int
	root   int64
}

func encodeHeader(h header, buf []byte) {
	buf[0] = byte(h.k)
	order.PutUint32(buf[1:5], uint32(int32(h.degree)))
	order.PutUint64(buf[5:13], uint64(h.root))
}

func decodeHeader(buf []byte) header {
	return header{
		k:      int(buf[0]),
		degree: int(int32(order.Uint32(buf[1:5]))),
		root:   int64(order.Uint64(buf[5:13])),
	}
}
