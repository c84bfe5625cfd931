package btree

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSize(t *testing.T) {
	for _, degree := range []int{2, 3, 10, 102} {
		want := 13 + 8*(2*degree+1) + 12*(2*degree-1)
		assert.Equal(t, want, recordSize(degree), "degree %d", degree)
	}
}

func TestOptimalDegree(t *testing.T) {
	d := OptimalDegree()
	assert.Equal(t, 102, d)
	assert.LessOrEqual(t, recordSize(d), blockSize)
	assert.Greater(t, recordSize(d+1), blockSize)
}

func TestRecordRoundTrip(t *testing.T) {
	const degree = 3
	buf := make([]byte, recordSize(degree))

	t.Run("Internal", func(t *testing.T) {
		n := &Node{
			Location: 13 + int64(recordSize(degree)),
			Parent:   13,
			Entries:  []Entry{{Key: 4, Frequency: 1}, {Key: 9, Frequency: 7}},
			Children: []int64{300, 400, 500},
		}
		encodeNode(n, buf, degree)
		got, err := decodeNode(buf, n.Location, degree)
		require.NoError(t, err)
		assert.Equal(t, n.Location, got.Location)
		assert.Equal(t, n.Parent, got.Parent)
		assert.False(t, got.Leaf)
		assert.Equal(t, n.Entries, got.Entries)
		assert.Equal(t, n.Children, got.Children)
	})

	t.Run("LeafIgnoresStaleSlots", func(t *testing.T) {
		// buf still carries the internal node; re-encoding must zero it
		n := &Node{Location: 13, Leaf: true, Entries: []Entry{{Key: 1, Frequency: 2}}}
		encodeNode(n, buf, degree)
		got, err := decodeNode(buf, 13, degree)
		require.NoError(t, err)
		assert.True(t, got.Leaf)
		assert.Empty(t, got.Children)
		assert.Equal(t, n.Entries, got.Entries)
		for _, b := range buf[recordFixed : recordFixed+childSize*2*degree] {
			require.Zero(t, b)
		}
	})

	t.Run("CountTooLarge", func(t *testing.T) {
		binary.BigEndian.PutUint32(buf[1:5], uint32(maxEntries(degree)+1))
		_, err := decodeNode(buf, 13, degree)
		assert.True(t, errors.Is(err, ErrCorruptRecord))
	})

	t.Run("WrongSelfLocation", func(t *testing.T) {
		encodeNode(&Node{Location: 13, Leaf: true}, buf, degree)
		_, err := decodeNode(buf, 102, degree)
		assert.True(t, errors.Is(err, ErrCorruptRecord))
	})
}

func TestCreateStoreLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.btree")
	s, err := CreateStore(path, 2, 2, false)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, headerSize+recordSize(2))

	// header: k | degree | root
	assert.Equal(t, byte(2), data[0])
	assert.Equal(t, []byte{0, 0, 0, 2}, data[1:5])
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 13}, data[5:13])

	// empty leaf root at offset 13
	rec := data[headerSize:]
	assert.Equal(t, byte(1), rec[0])
	assert.Equal(t, uint32(0), binary.BigEndian.Uint32(rec[1:5]))
	assert.Equal(t, uint64(13), binary.BigEndian.Uint64(rec[5:13]))
	assert.Equal(t, uint64(0), binary.BigEndian.Uint64(rec[13:21]))
	for _, b := range rec[21:] {
		require.Zero(t, b)
	}
}

func TestStoreAllocateDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alloc.btree")
	s, err := CreateStore(path, 2, 4, false)
	require.NoError(t, err)
	defer s.Close()

	a := s.Allocate(true)
	b := s.Allocate(false)
	assert.Equal(t, int64(headerSize+recordSize(2)), a.Location)
	assert.Equal(t, a.Location+int64(recordSize(2)), b.Location)
	assert.Equal(t, uint64(1), s.Stats().Writes) // only the root so far

	b.Children = append(b.Children, a.Location)
	b.Entries = append(b.Entries, Entry{Key: 5, Frequency: 3})
	require.NoError(t, s.Persist(b))

	got, err := s.Load(b.Location)
	require.NoError(t, err)
	assert.Equal(t, b.Entries, got.Entries)
	assert.Equal(t, []int64{a.Location}, got.Children[:1])
}

func TestStoreLoadRejectsBadLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.btree")
	s, err := CreateStore(path, 2, 4, false)
	require.NoError(t, err)
	defer s.Close()

	for _, loc := range []int64{0, 12, 14, 13 + int64(recordSize(2))} {
		_, err := s.Load(loc)
		assert.True(t, errors.Is(err, ErrCorruptRecord), "loc %d", loc)
	}
}

func TestCreateStoreValidation(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name      string
		degree, k int
	}{
		{"NegativeDegree", -1, 4},
		{"DegreeOne", 1, 4},
		{"KZero", 2, 0},
		{"KTooLong", 2, 32},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(dir, c.name)
			_, err := CreateStore(path, c.degree, c.k, false)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr), "no file should be created")
		})
	}
}

func TestOpenStoreErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing", func(t *testing.T) {
		_, err := OpenStore(filepath.Join(dir, "nope"), false)
		assert.True(t, errors.Is(err, ErrStorage))
	})

	t.Run("ShortHeader", func(t *testing.T) {
		path := filepath.Join(dir, "short")
		require.NoError(t, os.WriteFile(path, []byte{4, 0, 0}, 0644))
		_, err := OpenStore(path, false)
		assert.True(t, errors.Is(err, ErrCorruptRecord))
	})

	t.Run("BadDegree", func(t *testing.T) {
		path := filepath.Join(dir, "degree")
		buf := make([]byte, headerSize)
		encodeHeader(header{k: 4, degree: 1, root: 13}, buf)
		require.NoError(t, os.WriteFile(path, buf, 0644))
		_, err := OpenStore(path, false)
		assert.True(t, errors.Is(err, ErrCorruptRecord))
	})

	t.Run("RootOutsideFile", func(t *testing.T) {
		path := filepath.Join(dir, "root")
		s, err := CreateStore(path, 2, 4, false)
		require.NoError(t, err)
		s.SetRoot(13 + 10*int64(recordSize(2)))
		require.NoError(t, s.Close())
		_, err = OpenStore(path, false)
		assert.True(t, errors.Is(err, ErrCorruptRecord))
	})
}

func TestStoreClosed(t *testing.T) {
	s, err := CreateStore(filepath.Join(t.TempDir(), "closed"), 2, 4, true)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Load(13)
	assert.True(t, errors.Is(err, ErrClosed))
	assert.True(t, errors.Is(s.Persist(&Node{Location: 13}), ErrClosed))
}
