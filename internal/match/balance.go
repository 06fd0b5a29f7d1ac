package match

import (
	"go.uber.org/zap"

	"github.com/jarredhawkins/cfmatch/internal/types"
)

// Scanner finds the counterpart of a named tag by walking the token stream
// and counting nested occurrences of the same name. Every scan is a pure peek:
// the cursor is restored before returning, found or not.
type Scanner struct {
	tags     TagTokens
	maxSteps int
	logger   *zap.Logger
}

// NewScanner creates a scanner. maxSteps <= 0 means unbounded.
func NewScanner(tags TagTokens, maxSteps int, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{tags: tags, maxSteps: maxSteps, logger: logger}
}

// FindMatchingCloser reports whether the Opener under the cursor has a
// matching Closer further down the stream
func (s *Scanner) FindMatchingCloser(c types.Cursor) bool {
	_, found := s.closerOf(c)
	return found
}

// FindMatchingOpener reports whether the Closer under the cursor has a
// matching Opener earlier in the stream
func (s *Scanner) FindMatchingOpener(c types.Cursor) bool {
	_, found := s.openerOf(c)
	return found
}

func (s *Scanner) closerOf(c types.Cursor) (types.Span, bool) {
	if c.AtEnd() || s.tags.Category(c.TokenType()) != types.CategoryOpener {
		return types.Span{}, false
	}
	name, ok := s.tags.NameAt(c)
	if !ok {
		return types.Span{}, false
	}
	return s.scan(c, name, true)
}

func (s *Scanner) openerOf(c types.Cursor) (types.Span, bool) {
	if c.AtEnd() || s.tags.Category(c.TokenType()) != types.CategoryCloser {
		return types.Span{}, false
	}
	name, ok := s.tags.NameAt(c)
	if !ok {
		return types.Span{}, false
	}
	return s.scan(c, name, false)
}

// scan walks forward (or backward) from the cursor. Tags named like the start
// tag that face the same way deepen the nesting; those facing the other way
// unwind it. Empty elements (<x/>) are complete and do neither. The
// counterpart is the one that takes balance to -1.
func (s *Scanner) scan(c types.Cursor, name string, forward bool) (types.Span, bool) {
	sp := save(c)
	defer sp.restore()

	same, other := types.CategoryOpener, types.CategoryCloser
	if !forward {
		same, other = other, same
	}

	balance := 0
	for steps := 1; ; steps++ {
		if forward {
			sp.advance()
		} else {
			sp.retreat()
		}
		if c.AtEnd() {
			return types.Span{}, false
		}
		if s.maxSteps > 0 && steps > s.maxSteps {
			s.logger.Debug("balance scan step cap exceeded",
				zap.String("tag", name),
				zap.Bool("forward", forward),
				zap.Int("maxSteps", s.maxSteps))
			return types.Span{}, false
		}

		cat := s.tags.Category(c.TokenType())
		if cat != same && cat != other {
			continue
		}
		n, ok := s.tags.NameAt(c)
		if !ok || n != name {
			continue
		}
		if cat == types.CategoryOpener && s.tags.emptyElement(c) {
			continue
		}
		if cat == other {
			balance--
		} else {
			balance++
		}
		if balance == -1 {
			return types.Span{Start: c.Start(), End: c.End()}, true
		}
	}
}

// pairOf finds the counterpart of a punctuation token from table by counting
// its own type against its opposite.
func (s *Scanner) pairOf(c types.Cursor, table *PairTable) (types.Span, bool) {
	if c.AtEnd() {
		return types.Span{}, false
	}
	self := c.TokenType()
	opposite, ok := table.Opposite(self)
	if !ok {
		return types.Span{}, false
	}
	forward := table.IsOpener(self)

	sp := save(c)
	defer sp.restore()

	depth := 0
	for steps := 1; ; steps++ {
		if forward {
			sp.advance()
		} else {
			sp.retreat()
		}
		if c.AtEnd() {
			return types.Span{}, false
		}
		if s.maxSteps > 0 && steps > s.maxSteps {
			s.logger.Debug("pair scan step cap exceeded",
				zap.Stringer("type", self),
				zap.Int("maxSteps", s.maxSteps))
			return types.Span{}, false
		}
		switch c.TokenType() {
		case self:
			depth++
		case opposite:
			if depth == 0 {
				return types.Span{Start: c.Start(), End: c.End()}, true
			}
			depth--
		}
	}
}

// headEnd finds the AngleBracketClose ending the tag head opened at the cursor
func (s *Scanner) headEnd(c types.Cursor) (types.Span, bool) {
	return s.walkHead(c, true, types.CategoryAngleBracketClose)
}

// headStart finds the Opener of the tag head ended at the cursor
func (s *Scanner) headStart(c types.Cursor) (types.Span, bool) {
	return s.walkHead(c, false, types.CategoryOpener)
}

func (s *Scanner) walkHead(c types.Cursor, forward bool, want types.Category) (types.Span, bool) {
	sp := save(c)
	defer sp.restore()

	for steps := 1; ; steps++ {
		if forward {
			sp.advance()
		} else {
			sp.retreat()
		}
		if c.AtEnd() || (s.maxSteps > 0 && steps > s.maxSteps) {
			return types.Span{}, false
		}
		switch cat := s.tags.Category(c.TokenType()); cat {
		case want:
			return types.Span{Start: c.Start(), End: c.End()}, true
		case types.CategoryOpener, types.CategoryCloser, types.CategoryAngleBracketClose:
			return types.Span{}, false
		}
	}
}
