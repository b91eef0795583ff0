//go:build linux

package dents

import "golang.org/x/sys/unix"

// Linux uses the same linux_dirent64 layout on every architecture:
//
//	struct linux_dirent64 {
//	    ino64_t        d_ino;    /* offset 0, 8 bytes */
//	    off64_t        d_off;    /* offset 8, 8 bytes (seek cookie, unused here) */
//	    unsigned short d_reclen; /* offset 16, 2 bytes */
//	    unsigned char  d_type;   /* offset 18 */
//	    char           d_name[]; /* offset 19, NUL-terminated */
//	};
//
// The kernel rounds d_reclen up to 8 bytes, so records always start
// 8-aligned within the buffer and the NUL terminator always lands inside
// the declared record length.
var hostLayout = layout{
	inoOff:    0,
	inoLen:    8,
	reclenOff: 16,
	reclenLen: 2,
	typeOff:   18,
	nameOff:   19,
	align:     8,
}

// getdents is the production refill: one getdents64 call that fills buf
// with as many whole records as fit, starting at fd's current read
// position, and advances that position by exactly the bytes returned.
func getdents(fd int, buf []byte) (int, error) {
	return unix.Getdents(fd, buf)
}
