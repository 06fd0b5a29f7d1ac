package match

import "github.com/jarredhawkins/cfmatch/internal/types"

// savepoint remembers a cursor position so it can be restored after a peek.
// Seekable cursors are restored in O(1); others by replaying the net
// displacement in the opposite direction.
type savepoint struct {
	c      types.Cursor
	seeker types.Seeker
	origin int
	moved  int
}

func save(c types.Cursor) *savepoint {
	sp := &savepoint{c: c}
	if s, ok := c.(types.Seeker); ok {
		sp.seeker = s
		sp.origin = s.Index()
	}
	return sp
}

func (sp *savepoint) advance() {
	sp.c.Advance()
	sp.moved++
}

func (sp *savepoint) retreat() {
	sp.c.Retreat()
	sp.moved--
}

func (sp *savepoint) restore() {
	if sp.seeker != nil {
		sp.seeker.Seek(sp.origin)
		sp.moved = 0
		return
	}
	for ; sp.moved > 0; sp.moved-- {
		sp.c.Retreat()
	}
	for ; sp.moved < 0; sp.moved++ {
		sp.c.Advance()
	}
}
