package btree

// Node is the in-memory image of one record. Children hold the file locations
// of the child nodes, never live pointers; an internal node has exactly
// len(Entries)+1 of them.
type Node struct {
	Location int64 // fixed at allocation
	Parent   int64 // informational only, the algorithms never follow it
	Leaf     bool
	Entries  []Entry
	Children []int64
}

func newNode(loc int64, leaf bool, degree int) *Node {
	return &Node{
		Location: loc,
		Leaf:     leaf,
		Entries:  make([]Entry, 0, maxEntries(degree)),
		Children: make([]int64, 0, maxEntries(degree)+1),
	}
}

func (n *Node) full(degree int) bool {
	return len(n.Entries) >= maxEntries(degree)
}

/*
If an entry with key is found in node n, return its index i.
Else, return the index j where the key would have resided if it was present in the node.
That lower bound coincides with the position of the child pointer to follow,
so the traversal can continue down the tree when the returned boolean is false.
*/
func (n *Node) search(key uint64) (int, bool) {
	low, high := 0, len(n.Entries)
	for low < high {
		mid := (low + high) / 2
		switch k := n.Entries[mid].Key; {
		case key > k:
			low = mid + 1
		case key < k:
			high = mid
		default:
			return mid, true
		}
	}
	return low, false
}

func (n *Node) insertEntryAt(pos int, e Entry) {
	n.Entries = append(n.Entries, Entry{})
	copy(n.Entries[pos+1:], n.Entries[pos:])
	n.Entries[pos] = e
}

func (n *Node) insertChildAt(pos int, loc int64) {
	n.Children = append(n.Children, 0)
	copy(n.Children[pos+1:], n.Children[pos:])
	n.Children[pos] = loc
}

/*
split moves the upper half of a full node into sibling and returns the median
entry, which the caller promotes into the parent. With mid = degree-1, entries
[mid+1:] and, for internal nodes, children [mid+1:] go to the sibling; n keeps
entries [:mid] and children [:mid+1].
Splitting the root is handled by Tree.growRoot, which gives it a parent first.
*/
func (n *Node) split(sibling *Node, degree int) Entry {
	mid := degree - 1
	median := n.Entries[mid]

	sibling.Entries = append(sibling.Entries[:0], n.Entries[mid+1:]...)
	if !n.Leaf {
		sibling.Children = append(sibling.Children[:0], n.Children[mid+1:]...)
		n.Children = n.Children[:mid+1]
	}
	n.Entries = n.Entries[:mid]
	return median
}
