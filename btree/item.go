package btree

/*
Entry is the data item stored in a node.
Key is the encoded k-mer and uniquely identifies the entry across the whole tree.
Frequency counts how many times the k-mer was inserted.
*/
type Entry struct {
	Key       uint64
	Frequency uint32
}
