package dents

// File type tags from dirent.h. These are the raw d_type values the kernel
// writes into each record.
const (
	DT_UNKNOWN = 0
	DT_FIFO    = 1
	DT_CHR     = 2
	DT_DIR     = 4
	DT_BLK     = 6
	DT_REG     = 8
	DT_LNK     = 10
	DT_SOCK    = 12
)

// FileType is the decoded form of a record's type tag.
type FileType uint8

const (
	Unknown FileType = iota
	Fifo
	CharacterDevice
	Directory
	BlockDevice
	RegularFile
	Symlink
	Socket
)

// FileTypeFromTag maps a raw d_type byte to a FileType. Unrecognized values
// map to Unknown rather than erroring: several filesystems never populate
// the type field and callers are expected to stat when it matters.
func FileTypeFromTag(tag uint8) FileType {
	switch tag {
	case DT_FIFO:
		return Fifo
	case DT_CHR:
		return CharacterDevice
	case DT_DIR:
		return Directory
	case DT_BLK:
		return BlockDevice
	case DT_REG:
		return RegularFile
	case DT_LNK:
		return Symlink
	case DT_SOCK:
		return Socket
	}
	return Unknown
}

func (t FileType) String() string {
	switch t {
	case Fifo:
		return "fifo"
	case CharacterDevice:
		return "char"
	case Directory:
		return "dir"
	case BlockDevice:
		return "block"
	case RegularFile:
		return "file"
	case Symlink:
		return "symlink"
	case Socket:
		return "socket"
	}
	return "unknown"
}
