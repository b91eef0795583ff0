// Package dirfd provides thin lifecycle wrappers around directory file
// descriptors: open, rewind, seek, close. Everything here is 1:1 syscall
// forwarding plus error translation; the decoding work lives in dents.
package dirfd

import (
	"golang.org/x/sys/unix"

	"github.com/dl/rawdir/internal/dents"
)

// DefaultBufSize is the getdents scratch buffer size used when the caller
// doesn't supply one. Large enough that even NAME_MAX entries never trigger
// a resize, small enough to live happily per worker.
const DefaultBufSize = 32 * 1024

// Dir is an open directory descriptor. It owns the descriptor: Close
// releases it. The kernel keeps the read position for the descriptor, so a
// Dir can be drained, rewound and drained again, and a half-read Dir can be
// resumed by a fresh stream after the caller grows its buffer.
type Dir struct {
	fd   int
	path string
}

// Open opens path as a directory. It first tries O_NOATIME to avoid dirtying
// atime on large scans, then falls back without it: O_NOATIME fails with
// EPERM on files the caller doesn't own.
func Open(path string) (*Dir, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
		if err != nil {
			return nil, &Error{Op: "open", Path: path, Err: err}
		}
	}
	return &Dir{fd: fd, path: path}, nil
}

// OpenAt opens the directory name relative to d, like openat(2).
func OpenAt(d *Dir, name string) (*Dir, error) {
	fd, err := unix.Openat(d.fd, name, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &Error{Op: "openat", Path: name, Err: err}
	}
	return &Dir{fd: fd, path: name}, nil
}

// Fd returns the raw descriptor for use with dents.NewStream or *at calls.
func (d *Dir) Fd() int { return d.fd }

// Path returns the path the directory was opened with.
func (d *Dir) Path() string { return d.path }

// Close releases the descriptor.
func (d *Dir) Close() error {
	if err := unix.Close(d.fd); err != nil {
		return &Error{Op: "close", Path: d.path, Err: err}
	}
	return nil
}

// Rewind resets the descriptor's read position to the start of the
// directory, so the next stream sees every entry again.
func (d *Dir) Rewind() error {
	if _, err := unix.Seek(d.fd, 0, 0); err != nil {
		return &Error{Op: "rewind", Path: d.path, Err: err}
	}
	return nil
}

// Tell returns the kernel's opaque position cookie for the directory.
// It is only meaningful as an argument to Seek on the same descriptor.
func (d *Dir) Tell() (int64, error) {
	pos, err := unix.Seek(d.fd, 0, 1)
	if err != nil {
		return 0, &Error{Op: "tell", Path: d.path, Err: err}
	}
	return pos, nil
}

// Seek restores a position previously returned by Tell.
func (d *Dir) Seek(pos int64) error {
	if _, err := unix.Seek(d.fd, pos, 0); err != nil {
		return &Error{Op: "seek", Path: d.path, Err: err}
	}
	return nil
}

// Entry is an owned directory entry: the name has been copied out of the
// stream buffer and survives indefinitely.
type Entry struct {
	Ino  uint64
	Type dents.FileType
	Name string
}

// ReadAll drains d from its current position into owned entries, skipping
// "." and "..". buf is the getdents scratch buffer; pass nil for a default.
//
// When the kernel reports the buffer too small for even one record, ReadAll
// doubles the buffer and resumes with a fresh stream over the same
// descriptor. The descriptor's own read position carries the resume point,
// so nothing is dropped or repeated across the resize.
func ReadAll(d *Dir, buf []byte) ([]Entry, error) {
	if buf == nil {
		buf = make([]byte, DefaultBufSize)
	}
	var out []Entry
	for {
		s := dents.NewStream(d.fd, buf)
		for s.Scan() {
			e := s.Entry()
			if e.IsDot() {
				continue
			}
			out = append(out, Entry{Ino: e.Ino, Type: e.Type, Name: e.Name()})
		}
		err := s.Err()
		if err == nil {
			return out, nil
		}
		if err != unix.EINVAL {
			return out, &Error{Op: "getdents", Path: d.path, Err: err}
		}
		buf = make([]byte, 2*len(buf))
	}
}

// Error wraps a syscall failure with the operation and path it hit.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
