// Package dents decodes raw getdents64 buffers into directory entries.
// It is the zero-allocation layer underneath dirfd and walker: one open
// directory, one caller-owned buffer, and a pull iterator that hands out
// entry views borrowing from that buffer.
package dents

// ReadFunc is the bulk-read collaborator. It fills buf with as many whole
// kernel records as fit, starting at fd's current read position, advances
// that position, and returns the bytes written. A zero return means end of
// directory. Production streams use getdents64; tests substitute their own.
type ReadFunc func(fd int, buf []byte) (int, error)

// cursor tracks consumption of the current fill cycle.
// off <= initialized <= len(buf) always. off only grows within a cycle and
// resets to 0 exactly when a refill reassigns initialized.
type cursor struct {
	off         int
	initialized int
}

func (c *cursor) exhausted() bool { return c.off >= c.initialized }

func (c *cursor) reset(n int) {
	c.off = 0
	c.initialized = n
}

// Stream is a pull iterator over the raw records of one open directory,
// in the manner of bufio.Scanner:
//
//	s := dents.NewStream(fd, buf)
//	for s.Scan() {
//	    e := s.Entry()
//	    ...
//	}
//	if err := s.Err(); err != nil { ... }
//
// The stream borrows fd and buf for its lifetime but owns neither: it never
// closes the descriptor, and it never grows the buffer. When the kernel
// reports the buffer too small to hold even one record (EINVAL on Linux),
// drop the stream, grow the buffer, and create a fresh stream over the same
// descriptor — the descriptor's own read position is the resume point, so
// no entry is lost or repeated.
//
// A stream must not be shared across goroutines, and two streams must not
// run over the same descriptor concurrently: every refill moves the
// descriptor's kernel-side read position.
type Stream struct {
	fd   int
	buf  []byte
	read ReadFunc
	l    layout

	cur cursor
	gen uint64 // bumped on every refill; guards stale Entry views
	ent Entry
	err error
	eof bool
}

// NewStream creates a stream over an open directory descriptor and a
// caller-owned scratch buffer. The buffer must be large enough for at least
// one maximal record (the header plus a NAME_MAX name); 4 KiB is a safe
// floor, larger buffers just mean fewer syscalls.
func NewStream(fd int, buf []byte) *Stream {
	return &Stream{fd: fd, buf: buf, read: getdents, l: hostLayout}
}

// Scan advances to the next live entry, refilling the buffer from the
// kernel when all decoded bytes are consumed. It returns false at end of
// directory or on error; Err distinguishes the two. Both outcomes are
// terminal: further calls return false again without another syscall.
//
// Records whose inode number is 0 are tombstones for deleted slots and are
// skipped without being surfaced.
func (s *Stream) Scan() bool {
	if s.eof || s.err != nil {
		return false
	}
	for {
		if !s.cur.exhausted() {
			rec := decodeRecord(s.l, s.buf, s.cur.off)
			s.cur.off += rec.reclen
			if rec.ino == 0 {
				continue
			}
			s.ent = Entry{
				Ino:  rec.ino,
				Type: FileTypeFromTag(rec.typ),
				name: rec.name,
				gen:  s.gen,
				s:    s,
			}
			return true
		}

		n, err := s.read(s.fd, s.buf)
		if err != nil {
			s.err = err
			return false
		}
		if n == 0 {
			s.eof = true
			return false
		}
		s.gen++
		s.cur.reset(n)
	}
}

// Entry returns the entry decoded by the last successful Scan. Its name
// aliases the stream's buffer and is only valid until the next refill.
func (s *Stream) Entry() Entry { return s.ent }

// Err returns the first error encountered by a refill, or nil if the
// stream ended cleanly. Errors are verbatim OS errors: unix.EINVAL means
// the buffer could not hold even one record.
func (s *Stream) Err() error { return s.err }
