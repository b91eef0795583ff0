package output

import (
	"strconv"

	"github.com/dl/rawdir/internal/dents"
	"github.com/dl/rawdir/internal/walker"
)

// TextFormatter renders entries as one path per line, optionally prefixed
// with the inode number and the file type, colored by type.
type TextFormatter struct {
	styles    Styles
	useColor  bool
	showInode bool
	showType  bool
}

// NewTextFormatter creates a TextFormatter.
func NewTextFormatter(styles Styles, useColor, showInode, showType bool) *TextFormatter {
	return &TextFormatter{
		styles:    styles,
		useColor:  useColor,
		showInode: showInode,
		showType:  showType,
	}
}

func (f *TextFormatter) Format(buf []byte, e walker.Entry) []byte {
	if f.showInode {
		if f.useColor {
			buf = append(buf, f.styles.Inode.Render(strconv.FormatUint(e.Ino, 10))...)
		} else {
			buf = strconv.AppendUint(buf, e.Ino, 10)
		}
		buf = append(buf, ' ')
	}

	if f.showType {
		buf = appendPadded(buf, e.Type.String(), 8)
	}

	path := e.Path
	if e.Type == dents.Directory {
		path += "/"
	}
	if f.useColor {
		buf = append(buf, f.styles.forType(e.Type).Render(path)...)
	} else {
		buf = append(buf, path...)
	}

	buf = append(buf, '\n')
	return buf
}

// appendPadded appends s right-padded with spaces to width.
func appendPadded(buf []byte, s string, width int) []byte {
	buf = append(buf, s...)
	for i := len(s); i < width; i++ {
		buf = append(buf, ' ')
	}
	return buf
}
