package btree

import (
	"math/rand"
	"path/filepath"
	"sort"
	"testing"

	"genebank/kmer"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, degree, k int, opts ...Option) (*Tree, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.btree")
	tree, err := Create(path, degree, k, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { tree.Close() })
	return tree, path
}

func allSequences(k int) []string {
	total := 1 << (2 * k)
	out := make([]string, total)
	for i := range out {
		out[i] = kmer.Decode(uint64(i), k)
	}
	return out
}

func randomSequence(r *rand.Rand, k int) string {
	return kmer.Decode(r.Uint64(), k)
}

type pair struct {
	seq  string
	freq uint32
}

func collect(t *testing.T, tree *Tree) []pair {
	t.Helper()
	var out []pair
	require.NoError(t, tree.Traverse(func(seq string, freq uint32) error {
		out = append(out, pair{seq, freq})
		return nil
	}))
	return out
}

func TestSplitScenario(t *testing.T) {
	tree, _ := newTestTree(t, 2, 2)
	oldRoot := tree.Stats().Root

	for _, seq := range []string{"aa", "ac", "ag"} {
		require.NoError(t, tree.Insert(seq))
	}
	assert.Equal(t, uint64(0), tree.Stats().Splits)

	require.NoError(t, tree.Insert("at"))
	st := tree.Stats()
	assert.Equal(t, uint64(1), st.Splits)
	assert.NotEqual(t, oldRoot, st.Root)

	// median of [aa ac ag] is promoted into the new root
	require.Len(t, tree.root.Entries, 1)
	assert.Equal(t, "ac", kmer.Decode(tree.root.Entries[0].Key, 2))
	assert.Equal(t, []int64{oldRoot, tree.root.Children[1]}, tree.root.Children)

	assert.Equal(t, []pair{{"aa", 1}, {"ac", 1}, {"ag", 1}, {"at", 1}}, collect(t, tree))

	sum, err := tree.Verify()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Height)
	assert.Equal(t, 3, sum.Nodes)
	assert.Equal(t, 4, sum.Keys)
}

func TestFrequencyCounting(t *testing.T) {
	for _, cacheSize := range []int{0, 3} {
		tree, _ := newTestTree(t, 2, 4, WithCache(cacheSize))
		for i := 0; i < 25; i++ {
			require.NoError(t, tree.Insert("acgt"))
		}
		for _, seq := range []string{"aaaa", "cccc", "gggg", "tttt"} {
			require.NoError(t, tree.Insert(seq))
		}

		freq, err := tree.Search("acgt")
		require.NoError(t, err)
		assert.Equal(t, uint32(25), freq, "cache %d", cacheSize)
		for _, seq := range []string{"aaaa", "cccc", "gggg", "tttt"} {
			freq, err := tree.Search(seq)
			require.NoError(t, err)
			assert.Equal(t, uint32(1), freq, "%s cache %d", seq, cacheSize)
		}
		freq, err = tree.Search("acga")
		require.NoError(t, err)
		assert.Zero(t, freq)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	tree, _ := newTestTree(t, 2, 3)
	require.NoError(t, tree.Insert("ACG"))
	require.NoError(t, tree.Insert("acg"))
	freq, err := tree.Search("AcG")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), freq)
}

func TestCacheTransparency(t *testing.T) {
	seqs := allSequences(2)
	shuffled := append([]string(nil), seqs...)
	rand.New(rand.NewSource(3)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, order := range [][]string{seqs, shuffled} {
		var results [][]pair
		for _, cacheSize := range []int{0, 1} {
			tree, _ := newTestTree(t, 2, 2, WithCache(cacheSize))
			for _, seq := range order {
				require.NoError(t, tree.Insert(seq))
			}
			for _, seq := range seqs {
				freq, err := tree.Search(seq)
				require.NoError(t, err)
				assert.Equal(t, uint32(1), freq, "%s cache %d", seq, cacheSize)
			}
			_, err := tree.Verify()
			require.NoError(t, err)
			results = append(results, collect(t, tree))
		}
		assert.Equal(t, results[0], results[1])
		assert.Len(t, results[0], 16)
	}
}

func TestCacheFastPath(t *testing.T) {
	tree, _ := newTestTree(t, 2, 3, WithCache(2))
	for _, seq := range []string{"aaa", "ccc", "ggg", "ttt", "aca"} {
		require.NoError(t, tree.Insert(seq))
	}
	before := tree.Stats()

	require.NoError(t, tree.Insert("aca"))
	after := tree.Stats()
	assert.Equal(t, before.CacheHits+1, after.CacheHits)
	assert.Equal(t, before.Splits, after.Splits)

	freq, err := tree.Search("aca")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), freq)
	assert.Equal(t, 2, after.CacheCap)
	assert.True(t, after.CacheEnabled)
}

func TestRandomInsertsKeepInvariants(t *testing.T) {
	for _, degree := range []int{2, 3, 5, 0} {
		for _, cacheSize := range []int{0, 4} {
			r := rand.New(rand.NewSource(int64(degree*10 + cacheSize)))
			tree, _ := newTestTree(t, degree, 5, WithCache(cacheSize))

			want := map[string]uint32{}
			for i := 0; i < 1500; i++ {
				seq := randomSequence(r, 5)
				want[seq]++
				require.NoError(t, tree.Insert(seq))
			}

			sum, err := tree.Verify()
			require.NoError(t, err, "degree %d cache %d", degree, cacheSize)
			assert.Equal(t, len(want), sum.Keys)
			assert.Equal(t, uint64(1500), sum.Occurrences)

			got := collect(t, tree)
			require.Len(t, got, len(want))
			assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i].seq < got[j].seq }))
			for i := 1; i < len(got); i++ {
				require.NotEqual(t, got[i-1].seq, got[i].seq)
			}
			for _, p := range got {
				assert.Equal(t, want[p.seq], p.freq, p.seq)
			}
			for seq, n := range want {
				freq, err := tree.Search(seq)
				require.NoError(t, err)
				require.Equal(t, n, freq, seq)
			}
		}
	}
}

func TestReopenKeepsContents(t *testing.T) {
	tree, path := newTestTree(t, 3, 6)
	r := rand.New(rand.NewSource(11))
	want := map[string]uint32{}
	for i := 0; i < 400; i++ {
		seq := randomSequence(r, 6)
		want[seq]++
		require.NoError(t, tree.Insert(seq))
	}
	root := tree.Stats().Root
	require.NoError(t, tree.Close())

	reopened, err := Open(path, WithCache(5))
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 6, reopened.K())
	assert.Equal(t, 3, reopened.Degree())
	assert.Equal(t, root, reopened.Stats().Root)
	for seq, n := range want {
		freq, err := reopened.Search(seq)
		require.NoError(t, err)
		require.Equal(t, n, freq, seq)
	}

	// keep growing after reopen
	require.NoError(t, reopened.Insert("aaaaaa"))
	want["aaaaaa"]++
	freq, err := reopened.Search("aaaaaa")
	require.NoError(t, err)
	assert.Equal(t, want["aaaaaa"], freq)
	_, err = reopened.Verify()
	require.NoError(t, err)
}

func TestUnknownBaseIsSkipped(t *testing.T) {
	tree, _ := newTestTree(t, 2, 3, WithCache(2))
	writes := tree.Stats().IO.Writes

	require.NoError(t, tree.Insert("anc"))
	require.NoError(t, tree.Insert("NNN"))
	assert.Equal(t, writes, tree.Stats().IO.Writes)

	freq, err := tree.Search("anc")
	require.NoError(t, err)
	assert.Zero(t, freq)
	assert.Empty(t, collect(t, tree))
}

func TestInvalidInputLeavesTreeUntouched(t *testing.T) {
	tree, _ := newTestTree(t, 2, 3)
	require.NoError(t, tree.Insert("acg"))
	before := tree.Stats().IO

	for _, seq := range []string{"ac", "acgt", "ac-", ""} {
		err := tree.Insert(seq)
		assert.True(t, errors.Is(err, ErrInvalidInput), "%q", seq)
		_, err = tree.Search(seq)
		assert.True(t, errors.Is(err, ErrInvalidInput), "%q", seq)
	}
	assert.Equal(t, before.Writes, tree.Stats().IO.Writes)
	assert.Equal(t, []pair{{"acg", 1}}, collect(t, tree))
}

func TestCreateRejectsBadParameters(t *testing.T) {
	dir := t.TempDir()
	_, err := Create(filepath.Join(dir, "a"), -2, 4)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = Create(filepath.Join(dir, "b"), 2, 40)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = Create(filepath.Join(dir, "c"), 2, 4, WithCache(-1))
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestAutomaticDegree(t *testing.T) {
	tree, _ := newTestTree(t, 0, 8)
	st := tree.Stats()
	assert.Equal(t, 102, st.Degree)
	assert.LessOrEqual(t, st.RecordSize, 4096)
}

func TestClosedTree(t *testing.T) {
	tree, _ := newTestTree(t, 2, 2)
	require.NoError(t, tree.Close())
	require.NoError(t, tree.Close())

	assert.True(t, errors.Is(tree.Insert("ac"), ErrClosed))
	_, err := tree.Search("ac")
	assert.True(t, errors.Is(err, ErrClosed))
	assert.True(t, errors.Is(tree.Traverse(func(string, uint32) error { return nil }), ErrClosed))
}

func TestTraverseStopsOnError(t *testing.T) {
	tree, _ := newTestTree(t, 2, 2)
	for _, seq := range allSequences(2) {
		require.NoError(t, tree.Insert(seq))
	}
	stop := errors.New("stop")
	seen := 0
	err := tree.Traverse(func(string, uint32) error {
		seen++
		if seen == 5 {
			return stop
		}
		return nil
	})
	assert.True(t, errors.Is(err, stop))
	assert.Equal(t, 5, seen)
}

func TestVerifyDetectsBrokenOrder(t *testing.T) {
	tree, _ := newTestTree(t, 2, 2)
	for _, seq := range []string{"aa", "ac", "ag", "at", "ca"} {
		require.NoError(t, tree.Insert(seq))
	}
	// swap the root's only key for one that is smaller than its left subtree
	tree.root.Entries[0].Key = 0
	_, err := tree.Verify()
	assert.True(t, errors.Is(err, ErrCorruptRecord))
}
