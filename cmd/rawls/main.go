// rawls lists directories using raw getdents64, the way fd or ls -R would,
// but with zero-copy record decoding underneath.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dl/rawdir/internal/cli"
)

func main() {
	var cfg cli.Config
	var colorMode string
	exitCode := 0

	root := &cobra.Command{
		Use:   "rawls [flags] [path...]",
		Short: "Fast directory listing built on raw getdents64",
		Long: `rawls lists directory entries by decoding raw getdents64 buffers,
skipping the libc readdir layer entirely. It understands .gitignore,
filters by file type or PCRE2 name pattern, and walks trees in parallel.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := cli.ParseColorMode(colorMode)
			if err != nil {
				return err
			}
			cfg.Color = mode
			cfg.Paths = args
			if err := cfg.Validate(); err != nil {
				return err
			}
			exitCode = cli.Run(cfg)
			return nil
		},
	}

	f := root.Flags()
	f.BoolVarP(&cfg.Recursive, "recursive", "r", false, "descend into subdirectories")
	f.BoolVarP(&cfg.Hidden, "hidden", "a", false, "include hidden entries")
	f.BoolVar(&cfg.NoIgnore, "no-ignore", false, "do not honor .gitignore files")
	f.BoolVarP(&cfg.FollowSymlinks, "follow", "L", false, "descend into symlinked directories")
	f.StringVarP(&cfg.Pattern, "pattern", "p", "", "PCRE2 pattern entry names must match")
	f.BoolVarP(&cfg.IgnoreCase, "ignore-case", "i", false, "case-insensitive pattern matching")
	f.StringSliceVarP(&cfg.Types, "type", "t", nil, "only list these file types (file, dir, symlink, socket, fifo, char, block)")
	f.BoolVar(&cfg.JSONOutput, "json", false, "output JSON Lines instead of text")
	f.BoolVar(&cfg.ShowInode, "inode", false, "prefix each entry with its inode number")
	f.BoolVarP(&cfg.ShowType, "long", "l", false, "print a file type column")
	f.StringVar(&colorMode, "color", "auto", "when to use color: auto, always, never")
	f.IntVarP(&cfg.Workers, "workers", "j", 0, "parallel walker goroutines (0 = NumCPU)")
	f.IntVar(&cfg.BufSize, "buffer-size", 0, "per-worker getdents buffer in bytes")

	// Config-file flags go first so the command line overrides them.
	root.SetArgs(append(cli.LoadConfigArgs(), os.Args[1:]...))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rawls:", err)
		os.Exit(2)
	}
	os.Exit(exitCode)
}
