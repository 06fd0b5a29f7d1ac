package match

import (
	"errors"
	"fmt"

	"github.com/jarredhawkins/cfmatch/internal/types"
)

// ErrDuplicatePair is returned when a token type is defined by more than one pair
var ErrDuplicatePair = errors.New("token type already defined by another pair")

// Pair is a symmetric delimiter pair
type Pair struct {
	Open       types.TokenType
	Close      types.TokenType
	Structural bool
}

// PairTable is a fixed registry of delimiter pairs. It is immutable after
// construction and safe for concurrent reads.
type PairTable struct {
	pairs []Pair
}

// NewPairTable builds a table, rejecting any token type defined twice
func NewPairTable(pairs ...Pair) (*PairTable, error) {
	seen := make(map[types.TokenType]struct{}, len(pairs)*2)
	for _, p := range pairs {
		if p.Open == p.Close {
			return nil, fmt.Errorf("pair %s: open and close must differ", p.Open)
		}
		for _, t := range []types.TokenType{p.Open, p.Close} {
			if _, ok := seen[t]; ok {
				return nil, fmt.Errorf("pair %s/%s: %s: %w", p.Open, p.Close, t, ErrDuplicatePair)
			}
			seen[t] = struct{}{}
		}
	}
	return &PairTable{pairs: append([]Pair(nil), pairs...)}, nil
}

// MustPairTable is like NewPairTable but panics on error. Intended for
// package-level tables.
func MustPairTable(pairs ...Pair) *PairTable {
	t, err := NewPairTable(pairs...)
	if err != nil {
		panic(err)
	}
	return t
}

// Pairs returns a copy of the table entries
func (t *PairTable) Pairs() []Pair {
	return append([]Pair(nil), t.pairs...)
}

func (t *PairTable) IsOpener(tt types.TokenType) bool {
	for _, p := range t.pairs {
		if p.Open == tt {
			return true
		}
	}
	return false
}

func (t *PairTable) IsCloser(tt types.TokenType) bool {
	for _, p := range t.pairs {
		if p.Close == tt {
			return true
		}
	}
	return false
}

// Opposite returns the other half of the pair tt belongs to
func (t *PairTable) Opposite(tt types.TokenType) (types.TokenType, bool) {
	for _, p := range t.pairs {
		switch tt {
		case p.Open:
			return p.Close, true
		case p.Close:
			return p.Open, true
		}
	}
	return types.TokenType{}, false
}

// IsPair reports whether left opens the pair that right closes
func (t *PairTable) IsPair(left, right types.TokenType) bool {
	for _, p := range t.pairs {
		if p.Open == left && p.Close == right {
			return true
		}
	}
	return false
}

// IsStructural returns the structural flag of the pair tt belongs to. The
// second result is false when tt is not in the table.
func (t *PairTable) IsStructural(tt types.TokenType) (structural, known bool) {
	for _, p := range t.pairs {
		if p.Open == tt || p.Close == tt {
			return p.Structural, true
		}
	}
	return false, false
}
