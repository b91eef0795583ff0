package output

import (
	"encoding/json"

	"github.com/dl/rawdir/internal/walker"
)

// JSONFormatter renders entries as JSON Lines (one object per entry).
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// jsonEntry is the JSON serialization format for one directory entry.
type jsonEntry struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Ino  uint64 `json:"inode"`
	Type string `json:"type"`
}

func (f *JSONFormatter) Format(buf []byte, e walker.Entry) []byte {
	data, err := json.Marshal(jsonEntry{
		Path: e.Path,
		Name: e.Name,
		Ino:  e.Ino,
		Type: e.Type.String(),
	})
	if err != nil {
		// Marshal of a struct of strings and ints cannot fail.
		return buf
	}
	buf = append(buf, data...)
	buf = append(buf, '\n')
	return buf
}
