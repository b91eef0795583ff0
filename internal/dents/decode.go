package dents

// record is one decoded directory entry. name aliases the source buffer and
// includes the single terminating NUL.
type record struct {
	ino    uint64
	reclen int
	typ    uint8
	name   []byte
}

// decodeRecord reads the fixed header fields at off per the layout table and
// locates the NUL-terminated name trailing them.
//
// The terminator search does not start at the name's first byte. The buffer
// is reused across refills, so bytes past this record's declared length can
// hold stale fragments of longer records from earlier fill cycles. Instead
// the search starts at the last align-sized boundary inside the record —
// records start aligned and reclen is an align multiple, so that boundary is
// never past the real terminator — and walks forward to the first NUL. Only
// freshly written bytes are ever touched.
//
// The decoder trusts the kernel's layout completely: no bounds checks beyond
// what the stream's cursor invariant already guarantees. Feeding it a buffer
// that was not populated by the bulk-read call is a contract violation, not
// a recoverable error.
func decodeRecord(l layout, buf []byte, off int) record {
	ino := readInt(buf, off+l.inoOff, l.inoLen)
	reclen := int(readInt(buf, off+l.reclenOff, l.reclenLen))
	typ := buf[off+l.typeOff]

	nameStart := off + l.nameOff
	nameEnd := (off + reclen - 1) &^ (l.align - 1)
	if nameEnd < nameStart {
		nameEnd = nameStart
	}
	for buf[nameEnd] != 0 {
		nameEnd++
	}

	return record{
		ino:    ino,
		reclen: reclen,
		typ:    typ,
		name:   buf[nameStart : nameEnd+1], // keep the NUL
	}
}
