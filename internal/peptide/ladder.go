// Package peptide lays out and draws a peptide fragmentation diagram:
// the residue sequence with cleavage marks and the observed prefix
// (a, b, c) and suffix (x, y, z) fragment ions.
package peptide

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEmptySequence means the ladder has no residues
	ErrEmptySequence = errors.New("peptide: empty sequence")
	// ErrIonPosition means an ion refers to a cleavage outside the sequence
	ErrIonPosition = errors.New("peptide: ion position out of range")
)

// Ladder is a peptide sequence with its observed fragment ions. Prefix
// maps the number of N-terminal residues to the ion names observed for
// it, Suffix the number of C-terminal residues.
type Ladder struct {
	Sequence string
	Prefix   map[int][]string
	Suffix   map[int][]string
}

// Validate checks that the sequence is not empty and that every ion
// position lies in 1..len(Sequence)-1
func (l *Ladder) Validate() error {
	n := len(l.Sequence)
	if n == 0 {
		return ErrEmptySequence
	}
	for _, ions := range []map[int][]string{l.Prefix, l.Suffix} {
		for pos := range ions {
			if pos < 1 || pos >= n {
				return fmt.Errorf("%w: %d (sequence length %d)", ErrIonPosition, pos, n)
			}
		}
	}
	return nil
}

// ReverseIndex returns the suffix position matching the cleavage in
// front of residue i
func (l *Ladder) ReverseIndex(i int) int {
	if i == 0 {
		return 0
	}
	return len(l.Sequence) - i
}

// AddPrefix adds an ion name at a prefix position, ignoring duplicates
func (l *Ladder) AddPrefix(pos int, name string) {
	if l.Prefix == nil {
		l.Prefix = map[int][]string{}
	}
	l.Prefix[pos] = addName(l.Prefix[pos], name)
}

// AddSuffix adds an ion name at a suffix position, ignoring duplicates
func (l *Ladder) AddSuffix(pos int, name string) {
	if l.Suffix == nil {
		l.Suffix = map[int][]string{}
	}
	l.Suffix[pos] = addName(l.Suffix[pos], name)
}

func addName(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}

func maxIons(ions map[int][]string) int {
	m := 0
	for _, names := range ions {
		if len(names) > m {
			m = len(names)
		}
	}
	return m
}

func sortedIons(names []string, descending bool) []string {
	s := append([]string(nil), names...)
	if descending {
		sort.Sort(sort.Reverse(sort.StringSlice(s)))
	} else {
		sort.Strings(s)
	}
	return s
}
