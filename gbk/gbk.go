// Package gbk extracts fixed-length DNA windows from GenBank flat files.
//
// Sequence data sits between a line starting with ORIGIN and a line "//".
// Inside a region, position numbers and whitespace are dropped; windows slide
// one base at a time and never reach across two regions.
package gbk

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"genebank/kmer"
)

const (
	originTag = "ORIGIN"
	endTag    = "//"

	maxLine = 1 << 20
)

// Counts summarizes a scan.
type Counts struct {
	Regions int
	Bases   int64
	Windows int64 // windows handed to the callback
	Skipped int64 // windows dropped for holding something other than a, c, g, t
}

// WindowFunc receives each window in file order, lowercased. An error stops the scan.
type WindowFunc func(seq string) error

// Scanner reads GenBank text and reports every k-length window.
type Scanner struct {
	k      int
	window []byte
	bad    int // non-acgt bases in the current window
	counts Counts
}

func NewScanner(k int) (*Scanner, error) {
	if !kmer.ValidLength(k) {
		return nil, fmt.Errorf("gbk: sequence length %d outside [%d,%d]", k, kmer.MinLength, kmer.MaxLength)
	}
	return &Scanner{k: k, window: make([]byte, 0, 2*k)}, nil
}

// Scan reads r to the end, calling fn for every window without an unknown base.
func (s *Scanner) Scan(r io.Reader, fn WindowFunc) (Counts, error) {
	s.counts = Counts{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	inRegion := false
	for sc.Scan() {
		line := sc.Text()
		switch {
		case !inRegion && strings.HasPrefix(line, originTag):
			inRegion = true
			s.counts.Regions++
			s.reset()
		case inRegion && strings.HasPrefix(strings.TrimSpace(line), endTag):
			inRegion = false
		case inRegion:
			if err := s.feed(line, fn); err != nil {
				return s.counts, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return s.counts, fmt.Errorf("gbk: read: %w", err)
	}
	return s.counts, nil
}

func (s *Scanner) reset() {
	s.window = s.window[:0]
	s.bad = 0
}

func (s *Scanner) feed(line string, fn WindowFunc) error {
	for i := 0; i < len(line); i++ {
		b := line[i]
		if b >= '0' && b <= '9' || b == ' ' || b == '\t' || b == '\r' {
			continue
		}
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		s.counts.Bases++

		if len(s.window) == s.k {
			if !isBase(s.window[0]) {
				s.bad--
			}
			// shift left; the window buffer never grows past k
			copy(s.window, s.window[1:])
			s.window = s.window[:s.k-1]
		}
		s.window = append(s.window, b)
		if !isBase(b) {
			s.bad++
		}
		if len(s.window) < s.k {
			continue
		}
		if s.bad > 0 {
			s.counts.Skipped++
			continue
		}
		s.counts.Windows++
		if err := fn(string(s.window)); err != nil {
			return err
		}
	}
	return nil
}

func isBase(b byte) bool {
	return b == 'a' || b == 'c' || b == 'g' || b == 't'
}

// ScanFile opens path and scans it with a fresh Scanner.
func ScanFile(path string, k int, fn WindowFunc) (Counts, error) {
	s, err := NewScanner(k)
	if err != nil {
		return Counts{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Counts{}, fmt.Errorf("gbk: open %s: %w", path, err)
	}
	defer f.Close()
	return s.Scan(f, fn)
}
