// Package dump writes a tree as text, one "<frequency> <sequence>" line per
// entry in ascending sequence order, optionally inside a snappy stream.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"genebank/btree"

	"github.com/golang/snappy"
)

// FileName is what the create command writes next to the tree in debug mode.
const FileName = "dump"

type Source interface {
	Traverse(fn btree.VisitFunc) error
}

// Write streams every entry of src to w and returns the number of lines.
func Write(w io.Writer, src Source, compress bool) (int, error) {
	var sw *snappy.Writer
	if compress {
		sw = snappy.NewBufferedWriter(w)
		w = sw
	}
	bw := bufio.NewWriter(w)
	lines := 0
	err := src.Traverse(func(seq string, freq uint32) error {
		lines++
		_, err := fmt.Fprintf(bw, "%d %s\n", freq, seq)
		return err
	})
	if err != nil {
		return lines, err
	}
	if err := bw.Flush(); err != nil {
		return lines, err
	}
	if sw != nil {
		if err := sw.Close(); err != nil {
			return lines, err
		}
	}
	return lines, nil
}

// WriteFile creates path (replacing it) and writes the dump there.
func WriteFile(path string, src Source, compress bool) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("dump: create %s: %w", path, err)
	}
	n, err := Write(f, src, compress)
	if err != nil {
		f.Close()
		return n, fmt.Errorf("dump: write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return n, err
	}
	return n, f.Close()
}

// Read parses a dump back, calling fn per line.
func Read(r io.Reader, compressed bool, fn btree.VisitFunc) error {
	if compressed {
		r = snappy.NewReader(r)
	}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return fmt.Errorf("dump: line %d: want \"<frequency> <sequence>\", got %q", line, text)
		}
		freq, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return fmt.Errorf("dump: line %d: %w", line, err)
		}
		if err := fn(fields[1], uint32(freq)); err != nil {
			return err
		}
	}
	return sc.Err()
}
