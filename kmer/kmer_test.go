package kmer

import (
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeKnownValues(t *testing.T) {
	cases := []struct {
		seq string
		key uint64
	}{
		{"a", 0},
		{"t", 3},
		{"ac", 1},
		{"ga", 8},
		{"tt", 15},
		{"ACGT", 0b00011011},
		{"cat", 0b010011},
	}
	for _, c := range cases {
		key, err := Encode(c.seq, len(c.seq))
		require.NoError(t, err, c.seq)
		assert.Equal(t, c.key, key, c.seq)
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for k := MinLength; k <= MaxLength; k++ {
		for n := 0; n < 50; n++ {
			buf := make([]byte, k)
			for i := range buf {
				buf[i] = alphabet[r.Intn(4)]
			}
			seq := string(buf)
			key, err := Encode(seq, k)
			require.NoError(t, err)
			assert.Equal(t, seq, Decode(key, k))
		}
	}
}

func TestDecodePadsLeadingAs(t *testing.T) {
	assert.Equal(t, "aaac", Decode(1, 4))
	assert.Equal(t, "aaaa", Decode(0, 4))
}

func TestKeysPreserveOrder(t *testing.T) {
	a, err := Encode("acgt", 4)
	require.NoError(t, err)
	b, err := Encode("acta", 4)
	require.NoError(t, err)
	assert.Less(t, a, b)
}

func TestEncodeInvalid(t *testing.T) {
	t.Run("WrongLength", func(t *testing.T) {
		_, err := Encode("acg", 4)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
	t.Run("LengthOutOfRange", func(t *testing.T) {
		_, err := Encode("", 0)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		_, err = Encode(string(make([]byte, 32)), 32)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
	t.Run("BadSymbol", func(t *testing.T) {
		_, err := Encode("acnt", 4)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		_, err = Encode("ac-t", 4)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestHasUnknown(t *testing.T) {
	assert.True(t, HasUnknown("acnt"))
	assert.True(t, HasUnknown("N"))
	assert.False(t, HasUnknown("acgt"))
}
