package dents

// layout describes where the fixed dirent header fields live for one
// (OS, architecture) pair. Records are decoded by explicit offset reads
// driven by this table instead of casting the buffer onto a host struct,
// so a mismatched or misaligned struct definition can never be
// reinterpreted over kernel memory.
type layout struct {
	inoOff    int // inode number
	inoLen    int
	reclenOff int // total record length, including header, name, NUL, padding
	reclenLen int
	typeOff   int // one-byte type tag
	nameOff   int // first byte of the NUL-terminated name
	align     int // record alignment unit; reclen is always a multiple of this
}

// readInt assembles the size-byte unsigned integer at off in the buffer's
// native byte order. Sizes other than 1, 2, 4 and 8 do not occur in any
// layout table.
func readInt(b []byte, off, size int) uint64 {
	if isBigEndian {
		return readIntBE(b[off:], size)
	}
	return readIntLE(b[off:], size)
}

func readIntLE(b []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		_ = b[1] // bounds check hint to compiler; see golang.org/issue/14808
		return uint64(b[0]) | uint64(b[1])<<8
	case 4:
		_ = b[3]
		return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24
	case 8:
		_ = b[7]
		return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
			uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	default:
		panic("dents: readInt with unsupported size")
	}
}

func readIntBE(b []byte, size int) uint64 {
	switch size {
	case 1:
		return uint64(b[0])
	case 2:
		_ = b[1] // bounds check hint to compiler; see golang.org/issue/14808
		return uint64(b[1]) | uint64(b[0])<<8
	case 4:
		_ = b[3]
		return uint64(b[3]) | uint64(b[2])<<8 | uint64(b[1])<<16 | uint64(b[0])<<24
	case 8:
		_ = b[7]
		return uint64(b[7]) | uint64(b[6])<<8 | uint64(b[5])<<16 | uint64(b[4])<<24 |
			uint64(b[3])<<32 | uint64(b[2])<<40 | uint64(b[1])<<48 | uint64(b[0])<<56
	default:
		panic("dents: readInt with unsupported size")
	}
}
