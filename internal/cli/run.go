package cli

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/dl/rawdir/internal/output"
	"github.com/dl/rawdir/internal/walker"
)

// Run executes the listing with the given config.
// Returns exit code: 0 = entries listed, 1 = nothing listed, 2 = error.
func Run(cfg Config) int {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level: log.WarnLevel,
	})

	var filter *walker.NameFilter
	if cfg.Pattern != "" {
		f, err := walker.NewNameFilter(cfg.Pattern, cfg.IgnoreCase)
		if err != nil {
			logger.Error("invalid pattern", "pattern", cfg.Pattern, "err", err)
			return 2
		}
		filter = f
	}

	typeSet, err := parseTypes(cfg.Types)
	if err != nil {
		logger.Error("invalid type filter", "err", err)
		return 2
	}

	useColor := false
	switch cfg.Color {
	case ColorAlways:
		useColor = true
	case ColorNever:
		useColor = false
	case ColorAuto:
		useColor = output.StdoutIsTerminal()
	}

	w := output.NewWriter()
	var formatter output.Formatter
	if cfg.JSONOutput {
		formatter = output.NewJSONFormatter()
	} else {
		styles := output.NoStyles()
		if useColor {
			styles = output.NewStyles()
		}
		formatter = output.NewTextFormatter(styles, useColor, cfg.ShowInode, cfg.ShowType)
	}

	paths := cfg.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	entryCh, errCh := walker.Walk(paths, walker.Options{
		Recursive:      cfg.Recursive,
		Hidden:         cfg.Hidden,
		NoIgnore:       cfg.NoIgnore,
		FollowSymlinks: cfg.FollowSymlinks,
		Workers:        cfg.Workers,
		BufSize:        cfg.BufSize,
	})

	walkFailed := false
	errDone := make(chan struct{})
	go func() {
		defer close(errDone)
		for err := range errCh {
			walkFailed = true
			logger.Warn("walk", "err", err)
		}
	}()

	listed := false
	var buf []byte
	for e := range entryCh {
		if filter != nil && !filter.Match(e.Name) {
			continue
		}
		if typeSet != nil && !typeSet[e.Type] {
			continue
		}
		listed = true
		buf = formatter.Format(buf[:0], e)
		if err := w.Write(buf); err != nil {
			logger.Error("write", "err", err)
			return 2
		}
	}
	<-errDone

	if walkFailed {
		return 2
	}
	if !listed {
		return 1
	}
	return 0
}
