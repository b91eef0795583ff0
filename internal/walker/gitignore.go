package walker

import (
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreLayer is the compiled .gitignore of one directory. Workers carry a
// snapshot slice of the layers on the path from the root to the directory
// they are listing; the underlying *GitIgnore parsers are immutable and
// shared safely across goroutines.
type ignoreLayer struct {
	dir    string
	parser *ignore.GitIgnore
}

// loadIgnoreLayer loads and compiles a .gitignore from the given directory.
// Returns a layer with nil parser if no .gitignore exists or on parse error.
func loadIgnoreLayer(dir string) ignoreLayer {
	var path string
	if len(dir) > 0 && dir[len(dir)-1] == '/' {
		path = dir + ".gitignore"
	} else {
		path = dir + "/.gitignore"
	}
	parser, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return ignoreLayer{dir: dir, parser: nil}
	}
	return ignoreLayer{dir: dir, parser: parser}
}

// isIgnoredByLayers checks if a path should be ignored by any layer in the
// slice, outermost first.
func isIgnoredByLayers(layers []ignoreLayer, fullPath string, isDir bool) bool {
	for _, layer := range layers {
		if layer.parser == nil {
			continue
		}
		rel, err := filepath.Rel(layer.dir, fullPath)
		if err != nil {
			continue
		}
		checkPath := rel
		if isDir {
			checkPath = rel + "/"
		}
		if layer.parser.MatchesPath(checkPath) {
			return true
		}
	}
	return false
}
