package output

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Writer writes formatted output to stdout using writev, serializing
// concurrent callers so lines from parallel walkers never interleave
// mid-entry.
type Writer struct {
	mu sync.Mutex
	fd int
}

// NewWriter creates a Writer that writes to stdout.
func NewWriter() *Writer {
	return &Writer{fd: int(os.Stdout.Fd())}
}

// Write writes the given bytes to stdout.
func (w *Writer) Write(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	for len(data) > 0 {
		iovs := [][]byte{data}
		n, err := unix.Writev(w.fd, iovs)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
