package btree

// Stats is a snapshot of counters; gathering it does no I/O.
type Stats struct {
	K          int
	Degree     int
	RecordSize int
	Root       int64
	Nodes      int64
	IO         IOStats
	Splits     uint64

	CacheEnabled bool
	CacheLen     int
	CacheCap     int
	CacheHits    uint64
	CacheMisses  uint64
}

func (t *Tree) Stats() Stats {
	st := Stats{
		K:           t.store.K(),
		Degree:      t.store.Degree(),
		RecordSize:  t.store.RecordSize(),
		Root:        t.root.Location,
		Nodes:       t.store.NodeCount(),
		IO:          t.store.Stats(),
		Splits:      t.splits,
		CacheHits:   t.cacheHits,
		CacheMisses: t.cacheMisses,
	}
	if t.cache != nil {
		st.CacheEnabled = true
		st.CacheLen = t.cache.Len()
		st.CacheCap = t.cache.Cap()
	}
	return st
}
