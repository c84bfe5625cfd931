// Package btree is a disk-resident B-tree of k-mer keys and their occurrence
// counts.
//
// Nodes live in fixed-size records of a single file and refer to each other by
// byte offset. A Tree walks and mutates them through its Store, writing every
// changed node back before an operation returns. An optional LRU of recently
// touched node locations lets repeated keys skip the walk from the root.
package btree

const (
	blockSize  = 4 << 10 // 4 KiB, the page an automatically sized node must fit in
	headerSize = 13      // k (1) | degree (4) | root location (8)

	recordFixed = 1 + 4 + 8 + 8 // leaf | entry count | self location | parent location
	childSize   = 8
	entrySize   = 8 + 4 // key | frequency

	minDegree = 2
	// keeps a bogus header from asking for a gigantic record buffer
	maxDegree = 1 << 20
)

// recordSize is the on-disk size of one node for the given degree:
// 13 + 8*(2t+1) + 12*(2t-1), which is 9 + 40t.
func recordSize(degree int) int {
	return recordFixed + childSize*2*degree + entrySize*(2*degree-1)
}

// OptimalDegree returns the largest degree whose node record still fits in one
// 4 KiB block.
func OptimalDegree() int {
	t := minDegree
	for recordSize(t+1) <= blockSize {
		t++
	}
	return t
}

// RecordSize exposes the record width for a degree.
func RecordSize(degree int) int { return recordSize(degree) }

func maxEntries(degree int) int { return 2*degree - 1 }

func minEntries(degree int) int { return degree - 1 }
