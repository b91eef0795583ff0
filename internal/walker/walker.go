// Package walker traverses directory trees on top of the raw getdents
// stream, emitting every live entry it decodes.
package walker

import (
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/dl/rawdir/internal/dents"
	"github.com/dl/rawdir/internal/dirfd"
)

// Entry is one directory entry discovered during traversal.
type Entry struct {
	Path string // directory path joined with the entry name
	Name string // final path element
	Ino  uint64
	Type dents.FileType
}

// Options configures directory traversal behavior.
type Options struct {
	Recursive      bool
	Hidden         bool // include hidden entries
	NoIgnore       bool // skip .gitignore processing
	FollowSymlinks bool // descend into symlinked directories
	Workers        int  // parallel walker goroutines, 0 = NumCPU
	BufSize        int  // per-worker getdents buffer, 0 = dirfd.DefaultBufSize
}

// Walk lists the given directories and sends discovered entries on the
// returned channel. Each worker drives its own getdents stream over a
// reusable buffer; nothing above the raw records is cached.
func Walk(roots []string, opts Options) (<-chan Entry, <-chan error) {
	entryCh := make(chan Entry, 256)
	errCh := make(chan error, 16)

	go func() {
		defer close(entryCh)
		defer close(errCh)

		pw := &parallelWalker{
			entryCh: entryCh,
			errCh:   errCh,
			opts:    opts,
		}
		pw.cond = sync.NewCond(&pw.mu)

		for _, root := range roots {
			var layers []ignoreLayer
			if !opts.NoIgnore {
				layers = []ignoreLayer{loadIgnoreLayer(root)}
			}
			pw.enqueue(walkItem{path: root, ignores: layers})
		}

		workers := opts.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pw.worker()
			}()
		}
		wg.Wait()
	}()

	return entryCh, errCh
}

// walkItem represents a directory to be listed by a worker.
type walkItem struct {
	path    string
	ignores []ignoreLayer // snapshot of parent's ignore layers (nil if --no-ignore)
}

// parallelWalker coordinates concurrent BFS directory traversal.
type parallelWalker struct {
	entryCh chan<- Entry
	errCh   chan<- error
	opts    Options

	mu      sync.Mutex
	queue   []walkItem
	pending int        // dirs enqueued but not yet fully processed
	cond    *sync.Cond // signaled when items are enqueued or work is done
	done    bool
}

// enqueue adds a directory to the work queue.
func (pw *parallelWalker) enqueue(item walkItem) {
	pw.mu.Lock()
	pw.queue = append(pw.queue, item)
	pw.pending++
	pw.mu.Unlock()
	pw.cond.Signal()
}

// dequeue retrieves a work item, blocking if the queue is temporarily empty.
// Returns false when all work is complete.
func (pw *parallelWalker) dequeue() (walkItem, bool) {
	pw.mu.Lock()
	for len(pw.queue) == 0 && !pw.done {
		pw.cond.Wait()
	}
	if pw.done && len(pw.queue) == 0 {
		pw.mu.Unlock()
		return walkItem{}, false
	}
	item := pw.queue[0]
	pw.queue = pw.queue[1:]
	pw.mu.Unlock()
	return item, true
}

// finish marks a directory as fully processed.
func (pw *parallelWalker) finish() {
	pw.mu.Lock()
	pw.pending--
	if pw.pending == 0 && len(pw.queue) == 0 {
		pw.done = true
		pw.cond.Broadcast()
	}
	pw.mu.Unlock()
}

// worker processes directories from the work queue until all work is done.
func (pw *parallelWalker) worker() {
	size := pw.opts.BufSize
	if size <= 0 {
		size = dirfd.DefaultBufSize
	}
	buf := make([]byte, size) // per-worker getdents buffer
	for {
		item, ok := pw.dequeue()
		if !ok {
			return
		}
		buf = pw.processDir(item, buf)
		pw.finish()
	}
}

// processDir opens a single directory, streams all entries, and dispatches
// them. The directory fd is closed before returning — not held during
// subtree traversal. Returns the buffer for reuse by the next call (it may
// have been grown for an oversized record).
func (pw *parallelWalker) processDir(item walkItem, buf []byte) []byte {
	d, err := dirfd.Open(item.path)
	if err != nil {
		pw.errCh <- &WalkError{Path: item.path, Err: err}
		return buf
	}

	// Collect subdirectories to enqueue after closing the fd.
	var subdirs []walkItem

	for {
		s := dents.NewStream(d.Fd(), buf)
		for s.Scan() {
			e := s.Entry()
			if e.IsDot() {
				continue
			}
			if sub, ok := pw.dispatch(item, e); ok {
				subdirs = append(subdirs, sub)
			}
		}
		err := s.Err()
		if err == nil {
			break
		}
		if err == unix.EINVAL {
			// Record too big for the buffer. The descriptor's read position
			// still sits before it, so grow and resume with a fresh stream.
			buf = make([]byte, 2*len(buf))
			continue
		}
		pw.errCh <- &WalkError{Path: item.path, Err: err}
		break
	}

	d.Close()

	for _, sub := range subdirs {
		pw.enqueue(sub)
	}
	return buf
}

// dispatch emits one decoded entry and reports the subdirectory to descend
// into, if any. The entry's zero-copy name view dies with this call;
// everything surfaced is copied into owned strings.
func (pw *parallelWalker) dispatch(item walkItem, e dents.Entry) (walkItem, bool) {
	name := e.Name()
	typ := e.Type

	if !pw.opts.Hidden && len(name) > 0 && name[0] == '.' {
		return walkItem{}, false
	}

	fullPath := joinPath(item.path, name)

	// Some filesystems never fill the type tag; one lstat resolves it.
	if typ == dents.Unknown {
		var stat unix.Stat_t
		if err := unix.Lstat(fullPath, &stat); err != nil {
			pw.errCh <- &WalkError{Path: fullPath, Err: err}
			return walkItem{}, false
		}
		typ = fileTypeFromMode(stat.Mode)
	}

	isDir := typ == dents.Directory
	if !isDir && typ == dents.Symlink && pw.opts.FollowSymlinks {
		var stat unix.Stat_t
		if err := unix.Stat(fullPath, &stat); err == nil {
			isDir = stat.Mode&unix.S_IFMT == unix.S_IFDIR
		}
	}

	if item.ignores != nil && isIgnoredByLayers(item.ignores, fullPath, isDir) {
		return walkItem{}, false
	}

	pw.entryCh <- Entry{Path: fullPath, Name: name, Ino: e.Ino, Type: typ}

	if !pw.opts.Recursive || !isDir || skipDir(name) {
		return walkItem{}, false
	}
	var childIgnores []ignoreLayer
	if !pw.opts.NoIgnore {
		childIgnores = make([]ignoreLayer, len(item.ignores)+1)
		copy(childIgnores, item.ignores)
		childIgnores[len(item.ignores)] = loadIgnoreLayer(fullPath)
	}
	return walkItem{path: fullPath, ignores: childIgnores}, true
}

// fileTypeFromMode maps a stat mode to the dirent file type vocabulary.
func fileTypeFromMode(mode uint32) dents.FileType {
	switch mode & unix.S_IFMT {
	case unix.S_IFIFO:
		return dents.Fifo
	case unix.S_IFCHR:
		return dents.CharacterDevice
	case unix.S_IFDIR:
		return dents.Directory
	case unix.S_IFBLK:
		return dents.BlockDevice
	case unix.S_IFREG:
		return dents.RegularFile
	case unix.S_IFLNK:
		return dents.Symlink
	case unix.S_IFSOCK:
		return dents.Socket
	}
	return dents.Unknown
}

// joinPath concatenates a directory and entry name with a single separator.
// Avoids filepath.Join overhead (no Clean, no validation) since we control
// the inputs: dirPath is always a valid directory path, name is a plain
// filename. Uses a single allocation via make+copy.
func joinPath(dirPath, name string) string {
	needsSep := len(dirPath) == 0 || dirPath[len(dirPath)-1] != '/'
	n := len(dirPath) + len(name)
	if needsSep {
		n++
	}
	buf := make([]byte, n)
	copy(buf, dirPath)
	i := len(dirPath)
	if needsSep {
		buf[i] = '/'
		i++
	}
	copy(buf[i:], name)
	return unsafe.String(&buf[0], len(buf))
}

// skipDir returns true for directories that should never be descended into.
// VCS bookkeeping dirs are skipped even when hidden entries are listed.
func skipDir(name string) bool {
	switch name {
	case ".git", ".svn", ".hg":
		return true
	}
	return false
}

// WalkError represents an error during directory traversal.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return "walk " + e.Path + ": " + e.Err.Error()
}

func (e *WalkError) Unwrap() error {
	return e.Err
}
