package cli

import (
	"fmt"

	"github.com/dl/rawdir/internal/dents"
)

// ColorMode controls when colored output is used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // color when stdout is a terminal
	ColorAlways                  // always use color
	ColorNever                   // never use color
)

// ParseColorMode parses the --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Config holds all configuration for a rawls listing.
type Config struct {
	Paths          []string
	Recursive      bool
	Hidden         bool
	NoIgnore       bool
	FollowSymlinks bool
	Pattern        string // PCRE2 pattern entry names must match; empty = all
	IgnoreCase     bool
	Types          []string // file type names to keep; empty = all
	JSONOutput     bool
	ShowInode      bool
	ShowType       bool
	Color          ColorMode
	Workers        int
	BufSize        int
}

// Validate checks that the config is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", c.Workers)
	}
	if c.BufSize < 0 {
		return fmt.Errorf("invalid buffer size: %d", c.BufSize)
	}
	if _, err := parseTypes(c.Types); err != nil {
		return err
	}
	return nil
}

// parseTypes resolves --type names to a FileType set. Nil means no filter.
func parseTypes(names []string) (map[dents.FileType]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	set := make(map[dents.FileType]bool, len(names))
	for _, name := range names {
		switch name {
		case "file", "f":
			set[dents.RegularFile] = true
		case "dir", "d":
			set[dents.Directory] = true
		case "symlink", "l":
			set[dents.Symlink] = true
		case "socket", "s":
			set[dents.Socket] = true
		case "fifo", "p":
			set[dents.Fifo] = true
		case "char", "c":
			set[dents.CharacterDevice] = true
		case "block", "b":
			set[dents.BlockDevice] = true
		case "unknown":
			set[dents.Unknown] = true
		default:
			return nil, fmt.Errorf("unknown file type %q", name)
		}
	}
	return set, nil
}
