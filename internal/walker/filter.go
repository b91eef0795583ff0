package walker

import (
	"strings"

	"go.elara.ws/pcre"
)

// NameFilter matches entry names against a PCRE2 pattern. A nil filter
// matches everything, so callers can thread it through unconditionally.
type NameFilter struct {
	re         *pcre.Regexp
	literal    string // fast path when the pattern has no metacharacters
	ignoreCase bool
}

// NewNameFilter compiles a PCRE2 pattern for matching entry names.
// Patterns that are plain literals skip the regex engine entirely and use
// substring search.
func NewNameFilter(pattern string, ignoreCase bool) (*NameFilter, error) {
	if isLiteral(pattern) {
		lit := pattern
		if ignoreCase {
			lit = strings.ToLower(lit)
		}
		return &NameFilter{literal: lit, ignoreCase: ignoreCase}, nil
	}

	var opts pcre.CompileOption
	if ignoreCase {
		opts |= pcre.Caseless
	}
	re, err := pcre.CompileOpts(pattern, opts)
	if err != nil {
		return nil, err
	}
	return &NameFilter{re: re}, nil
}

// Match reports whether the entry name matches the filter.
func (f *NameFilter) Match(name string) bool {
	if f == nil {
		return true
	}
	if f.re == nil {
		if f.literal == "" {
			return true
		}
		if f.ignoreCase {
			return strings.Contains(strings.ToLower(name), f.literal)
		}
		return strings.Contains(name, f.literal)
	}
	return f.re.MatchString(name)
}

// isLiteral returns true if the pattern contains no regex metacharacters.
func isLiteral(pattern string) bool {
	return !strings.ContainsAny(pattern, `\.+*?()|[]{}^$`)
}
