package dents

// Entry is one live directory entry. The name is a view into the stream's
// buffer, valid only until the next refill overwrites those bytes. The
// stream stamps each entry with the fill generation it was decoded under
// and the name accessors check it, so a use-after-refill fails loudly
// instead of returning garbage.
type Entry struct {
	Ino  uint64
	Type FileType

	name []byte // includes the trailing NUL
	gen  uint64
	s    *Stream
}

func (e Entry) stale() bool { return e.s == nil || e.gen != e.s.gen }

// NameBytes returns the entry name without its trailing NUL, aliasing the
// stream's buffer. Copy it out if it must survive the next Scan that
// triggers a refill.
func (e Entry) NameBytes() []byte {
	if e.stale() {
		panic("dents: entry name read after the stream buffer was refilled")
	}
	return e.name[:len(e.name)-1]
}

// Name returns the entry name as an owned string.
func (e Entry) Name() string {
	return string(e.NameBytes())
}

// IsDot reports whether the entry is "." or "..". The kernel surfaces both;
// most callers want to skip them.
func (e Entry) IsDot() bool {
	n := e.NameBytes()
	switch len(n) {
	case 1:
		return n[0] == '.'
	case 2:
		return n[0] == '.' && n[1] == '.'
	}
	return false
}
