package dents

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/unix"
)

// fakeDir simulates the kernel side of getdents64: a fixed sequence of
// pre-encoded records and a read position that advances by whole records.
// A call whose buffer cannot hold even the next record fails with EINVAL,
// exactly like the real syscall.
type fakeDir struct {
	records [][]byte
	pos     int
	calls   int
	failErr error // when set, every read fails with this error
}

func (d *fakeDir) read(fd int, buf []byte) (int, error) {
	d.calls++
	if d.failErr != nil {
		return 0, d.failErr
	}
	n := 0
	for d.pos < len(d.records) {
		rec := d.records[d.pos]
		if n+len(rec) > len(buf) {
			break
		}
		n += copy(buf[n:], rec)
		d.pos++
	}
	if n == 0 && d.pos < len(d.records) {
		return 0, unix.EINVAL
	}
	return n, nil
}

func newTestStream(d *fakeDir, bufSize int) *Stream {
	s := NewStream(-1, make([]byte, bufSize))
	s.read = d.read
	return s
}

type ownedEntry struct {
	Ino  uint64
	Type FileType
	Name string
}

func drain(s *Stream) []ownedEntry {
	var out []ownedEntry
	for s.Scan() {
		e := s.Entry()
		out = append(out, ownedEntry{Ino: e.Ino, Type: e.Type, Name: e.Name()})
	}
	return out
}

func TestStreamExhaustive(t *testing.T) {
	d := &fakeDir{records: [][]byte{
		encodeRecord(1, DT_DIR, "."),
		encodeRecord(2, DT_DIR, ".."),
		encodeRecord(100, DT_REG, "hello.txt"),
		encodeRecord(101, DT_LNK, "link"),
		encodeRecord(102, DT_SOCK, "ctl.sock"),
	}}
	s := newTestStream(d, 4096)

	got := drain(s)
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	want := []ownedEntry{
		{1, Directory, "."},
		{2, Directory, ".."},
		{100, RegularFile, "hello.txt"},
		{101, Symlink, "link"},
		{102, Socket, "ctl.sock"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestStreamSkipsTombstones(t *testing.T) {
	d := &fakeDir{records: [][]byte{
		encodeRecord(0, DT_REG, "deleted-slot"),
		encodeRecord(10, DT_REG, "alive"),
		encodeRecord(0, DT_UNKNOWN, "another-hole"),
		encodeRecord(11, DT_DIR, "also-alive"),
		encodeRecord(0, DT_REG, "trailing-hole"),
	}}
	s := newTestStream(d, 4096)

	got := drain(s)
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	want := []ownedEntry{
		{10, RegularFile, "alive"},
		{11, Directory, "also-alive"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestStreamTerminalAfterEOF(t *testing.T) {
	d := &fakeDir{records: [][]byte{encodeRecord(1, DT_REG, "only")}}
	s := newTestStream(d, 4096)

	drain(s)
	calls := d.calls

	for i := 0; i < 3; i++ {
		if s.Scan() {
			t.Fatal("Scan() = true after end of directory")
		}
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v, want nil", s.Err())
	}
	if d.calls != calls {
		t.Errorf("read calls after EOF = %d, want %d (no further syscalls)", d.calls, calls)
	}
}

func TestStreamErrorIsSticky(t *testing.T) {
	d := &fakeDir{failErr: unix.EIO}
	s := newTestStream(d, 4096)

	if s.Scan() {
		t.Fatal("Scan() = true on failing read")
	}
	if s.Err() != unix.EIO {
		t.Fatalf("Err() = %v, want EIO", s.Err())
	}
	calls := d.calls

	for i := 0; i < 3; i++ {
		if s.Scan() {
			t.Fatal("Scan() = true after error")
		}
		if s.Err() != unix.EIO {
			t.Errorf("Err() = %v, want EIO", s.Err())
		}
	}
	if d.calls != calls {
		t.Errorf("read calls after error = %d, want %d (no further syscalls)", d.calls, calls)
	}
}

func TestStreamEntriesAcrossRefills(t *testing.T) {
	// Buffer fits roughly two records per fill, forcing several refill
	// cycles and exercising the offset reset protocol.
	var records [][]byte
	var want []ownedEntry
	for i := uint64(1); i <= 9; i++ {
		name := "entry-" + string(rune('0'+i))
		records = append(records, encodeRecord(i, DT_REG, name))
		want = append(want, ownedEntry{i, RegularFile, name})
	}
	d := &fakeDir{records: records}
	s := newTestStream(d, 2*len(records[0]))

	got := drain(s)
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if d.calls < 5 {
		t.Errorf("read calls = %d, want several refill cycles", d.calls)
	}
}

func TestStreamResizeRoundTrip(t *testing.T) {
	// The same record sequence decoded two ways must agree: one big fill,
	// versus a deliberately undersized buffer that is grown on EINVAL with
	// a fresh stream over the same (fake) descriptor. The fake keeps the
	// read position across streams, like the kernel does.
	records := [][]byte{
		encodeRecord(1, DT_REG, "a"),
		encodeRecord(0, DT_REG, "tombstone"),
		encodeRecord(2, DT_DIR, "some-directory-name"),
		encodeRecord(3, DT_LNK, "ln"),
		encodeRecord(4, DT_REG, "a-considerably-longer-file-name.bin"),
	}

	big := newTestStream(&fakeDir{records: records}, 8192)
	want := drain(big)
	if err := big.Err(); err != nil {
		t.Fatalf("big buffer Err() = %v", err)
	}

	d := &fakeDir{records: records}
	buf := make([]byte, 24) // too small for any record
	var got []ownedEntry
	for {
		s := NewStream(-1, buf)
		s.read = d.read
		got = append(got, drain(s)...)
		err := s.Err()
		if err == nil {
			break
		}
		if err != unix.EINVAL {
			t.Fatalf("Err() = %v, want EINVAL", err)
		}
		buf = make([]byte, 2*len(buf))
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("resize round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStreamUndersizedBuffer(t *testing.T) {
	d := &fakeDir{records: [][]byte{encodeRecord(1, DT_REG, "name-too-big-for-buffer")}}
	s := newTestStream(d, 8)

	if s.Scan() {
		t.Fatal("Scan() = true with undersized buffer")
	}
	if s.Err() != unix.EINVAL {
		t.Errorf("Err() = %v, want EINVAL", s.Err())
	}
	if d.pos != 0 {
		t.Errorf("read position advanced to %d on a failed read", d.pos)
	}
}

func TestStaleEntryPanics(t *testing.T) {
	d := &fakeDir{records: [][]byte{
		encodeRecord(1, DT_REG, "first"),
		encodeRecord(2, DT_REG, "second"),
	}}
	// One record per fill, so the second Scan refills and invalidates the
	// first entry's view.
	s := newTestStream(d, len(encodeRecord(1, DT_REG, "first")))

	if !s.Scan() {
		t.Fatalf("Scan() = false: %v", s.Err())
	}
	first := s.Entry()
	if got := first.Name(); got != "first" {
		t.Fatalf("Name() = %q, want %q", got, "first")
	}

	if !s.Scan() {
		t.Fatalf("second Scan() = false: %v", s.Err())
	}

	defer func() {
		if recover() == nil {
			t.Error("NameBytes() on a stale entry did not panic")
		}
	}()
	first.NameBytes()
}
