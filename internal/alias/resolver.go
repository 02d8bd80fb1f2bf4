package alias

import (
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// globChars marks a pattern as a glob rather than a literal prefix.
const globChars = "*?{["

// Entry maps an alias pattern to its ordered target patterns.
type Entry struct {
	Pattern string
	Targets []string
}

// MatchResult is the outcome of resolving one specifier.
type MatchResult struct {
	OriginalPath  string   // normalized specifier
	Matched       bool     // whether an alias rule matched
	MatchedAlias  string   // pattern of the matching alias, empty if none
	ResolvedPaths []string // candidate paths in target order
}

// compiledEntry is an Entry prepared for matching.
type compiledEntry struct {
	pattern string
	targets []string
	index   int // declaration order, used as the final tie-break
	isGlob  bool
	prefix  string    // pattern text before the first glob character
	glob    glob.Glob // nil for literals and for globs that failed to compile
}

// Resolver maps module specifiers to candidate target paths using an alias table.
type Resolver struct {
	mu      sync.Mutex
	entries []Entry
	ordered []compiledEntry // nil when the table changed since the last sort
	logger  *log.Logger
}

// NewResolver creates a resolver for the given alias table. Declaration order
// is significant: it breaks ties between aliases of equal class and length.
// A nil or empty table yields a passthrough resolver.
func NewResolver(entries []Entry, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	r := &Resolver{logger: logger}
	for _, e := range entries {
		r.addLocked(e.Pattern, e.Targets)
	}
	return r
}

// AddAlias registers or replaces an alias. A pattern that normalizes to an
// existing one keeps its original position and gets the new targets.
func (r *Resolver) AddAlias(pattern string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addLocked(pattern, targets)
}

// Replace swaps the whole table, as when tsconfig.json changes on disk.
func (r *Resolver) Replace(entries []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	r.ordered = nil
	for _, e := range entries {
		r.addLocked(e.Pattern, e.Targets)
	}
}

func (r *Resolver) addLocked(pattern string, targets []string) {
	pattern = NormalizePattern(pattern)
	if pattern == "" {
		return
	}
	normalized := make([]string, 0, len(targets))
	for _, t := range targets {
		normalized = append(normalized, NormalizePattern(t))
	}

	r.ordered = nil
	for i := range r.entries {
		if r.entries[i].Pattern == pattern {
			r.entries[i].Targets = normalized
			return
		}
	}
	r.entries = append(r.entries, Entry{Pattern: pattern, Targets: normalized})
}

// Entries returns a copy of the normalized alias table in declaration order.
func (r *Resolver) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	for i, e := range r.entries {
		out[i] = Entry{Pattern: e.Pattern, Targets: append([]string(nil), e.Targets...)}
	}
	return out
}

// Resolve maps a specifier to its candidate paths. The first alias in
// specificity order that matches wins.
func (r *Resolver) Resolve(specifier string) MatchResult {
	normalized := NormalizePath(specifier)
	result := MatchResult{
		OriginalPath:  normalized,
		ResolvedPaths: []string{normalized},
	}

	for _, ce := range r.orderedEntries() {
		var rest string
		if ce.isGlob {
			if ce.glob == nil || !ce.glob.Match(normalized) {
				continue
			}
			rest = strings.TrimPrefix(normalized, ce.prefix)
		} else {
			if !strings.HasPrefix(normalized, ce.pattern) {
				continue
			}
			rest = normalized[len(ce.pattern):]
		}

		resolved := make([]string, 0, len(ce.targets))
		for _, target := range ce.targets {
			resolved = append(resolved, fixedPrefix(target)+rest)
		}
		if len(resolved) == 0 {
			// An alias with no targets still claims the specifier.
			resolved = []string{normalized}
		}

		result.Matched = true
		result.MatchedAlias = ce.pattern
		result.ResolvedPaths = resolved
		return result
	}

	return result
}

// orderedEntries returns the compiled table sorted for matching, building it
// on first use after a change.
func (r *Resolver) orderedEntries() []compiledEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ordered != nil {
		return r.ordered
	}

	ordered := make([]compiledEntry, 0, len(r.entries))
	for i, e := range r.entries {
		ce := compiledEntry{
			pattern: e.Pattern,
			targets: e.Targets,
			index:   i,
			isGlob:  IsGlob(e.Pattern),
		}
		if ce.isGlob {
			ce.prefix = fixedPrefix(e.Pattern)
			// No separators: '*' must span '/' like '.*' would.
			g, err := glob.Compile(globSyntax(e.Pattern))
			if err != nil {
				r.logger.Printf("Warning: ignoring alias %q: %v", e.Pattern, err)
			} else {
				ce.glob = g
			}
		}
		ordered = append(ordered, ce)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.isGlob != b.isGlob {
			return !a.isGlob
		}
		if len(a.pattern) != len(b.pattern) {
			return len(a.pattern) > len(b.pattern)
		}
		return a.index < b.index
	})

	r.ordered = ordered
	return ordered
}

// IsGlob reports whether a pattern contains glob syntax.
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, globChars)
}

// NormalizePath converts path separators to '/'.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// NormalizePattern normalizes separators and collapses a trailing run of '*'
// into a single '*'.
func NormalizePattern(pattern string) string {
	pattern = NormalizePath(strings.TrimSpace(pattern))
	trimmed := strings.TrimRight(pattern, "*")
	if len(trimmed) < len(pattern) {
		return trimmed + "*"
	}
	return pattern
}

// globSyntax rewrites regex-style negated classes ("[^...]") into the "[!...]"
// form the glob compiler understands.
func globSyntax(pattern string) string {
	return strings.ReplaceAll(pattern, "[^", "[!")
}

// fixedPrefix returns the text before the first glob character.
func fixedPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, globChars); i >= 0 {
		return pattern[:i]
	}
	return pattern
}
