package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"

	"github.com/dl/rawdir/internal/dents"
)

// Styles holds the lipgloss styles for entry output, keyed by file type.
type Styles struct {
	Dir     lipgloss.Style
	File    lipgloss.Style
	Symlink lipgloss.Style
	Device  lipgloss.Style
	Special lipgloss.Style // fifo, socket
	Inode   lipgloss.Style
}

// NewStyles creates the default color styles, roughly matching GNU ls.
func NewStyles() Styles {
	return Styles{
		Dir:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true), // bold blue
		File:    lipgloss.NewStyle(),
		Symlink: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true), // bold cyan
		Device:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true), // bold yellow
		Special: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),            // magenta
		Inode:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),            // green
	}
}

// NoStyles returns styles with no coloring.
func NoStyles() Styles {
	return Styles{}
}

// forType picks the style for a file type.
func (s Styles) forType(t dents.FileType) lipgloss.Style {
	switch t {
	case dents.Directory:
		return s.Dir
	case dents.Symlink:
		return s.Symlink
	case dents.BlockDevice, dents.CharacterDevice:
		return s.Device
	case dents.Fifo, dents.Socket:
		return s.Special
	}
	return s.File
}

// IsTerminal checks if the given file descriptor is a terminal using ioctl.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// StdoutIsTerminal returns true if stdout is a terminal.
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout.Fd())
}
