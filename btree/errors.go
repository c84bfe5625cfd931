package btree

import (
	"genebank/kmer"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidInput covers malformed sequences and bad tree parameters.
	ErrInvalidInput = kmer.ErrInvalidInput
	// ErrStorage marks any failure reading or writing the backing file.
	// The tree should be considered unusable after one.
	ErrStorage = errors.New("storage i/o error")
	// ErrCorruptRecord is returned when a header or node record, or the shape of
	// the tree, violates its structural rules.
	ErrCorruptRecord = errors.New("corrupt record")
	ErrClosed        = errors.New("tree is closed")
)

func storageErr(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrStorage)
}

func corruptf(format string, args ...any) error {
	return errors.Wrapf(ErrCorruptRecord, format, args...)
}

func invalidf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}
