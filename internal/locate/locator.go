package locate

import (
	"path/filepath"
	"strings"

	"github.com/mvp-joe/codeslice/internal/alias"
)

// Probe order. These encode framework routing conventions and must not be reordered.
var (
	// Extensions are appended to every probe path, in order.
	Extensions = []string{".ts", ".tsx", ".js", ".jsx"}

	// BaseDirs are tried under the project root for non-relative specifiers.
	BaseDirs = []string{"", "src", "app"}

	// Suffixes are appended to a resolved target before the extension.
	Suffixes = []string{"", "/page", "/index"}
)

// Checker answers filesystem existence checks.
type Checker interface {
	IsFile(path string) bool
}

// Locator turns module specifiers into existing file paths.
type Locator struct {
	root     string
	resolver *alias.Resolver
	checker  Checker
}

// NewLocator creates a locator for the project rooted at root. A nil
// resolver behaves like an empty alias table.
func NewLocator(root string, resolver *alias.Resolver, checker Checker) *Locator {
	if resolver == nil {
		resolver = alias.NewResolver(nil, nil)
	}
	return &Locator{
		root:     root,
		resolver: resolver,
		checker:  checker,
	}
}

// Root returns the project root.
func (l *Locator) Root() string {
	return l.root
}

// Resolver returns the alias resolver used for non-relative specifiers.
func (l *Locator) Resolver() *alias.Resolver {
	return l.resolver
}

// Locate returns the first existing file for specifier as imported from
// importerPath. The boolean is false when no candidate exists.
func (l *Locator) Locate(specifier, importerPath string) (string, bool) {
	for _, candidate := range l.Candidates(specifier, importerPath) {
		if l.checker.IsFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Candidates returns every probe path for specifier in the exact order Locate
// tries them.
func (l *Locator) Candidates(specifier, importerPath string) []string {
	specifier = alias.NormalizePath(specifier)

	if IsRelative(specifier) {
		base := filepath.Join(filepath.Dir(importerPath), filepath.FromSlash(specifier))
		return probes(base)
	}

	// Only the first target is probed; later targets are reported by the resolver
	// but not searched.
	target := l.resolver.Resolve(specifier).ResolvedPaths[0]

	var out []string
	for _, dir := range BaseDirs {
		base := filepath.Join(l.root, dir, filepath.FromSlash(target))
		out = append(out, probes(base)...)
	}
	return out
}

// probes expands a base path into suffix and extension combinations.
func probes(base string) []string {
	out := make([]string, 0, len(Suffixes)*len(Extensions))
	for _, suffix := range Suffixes {
		p := base + filepath.FromSlash(suffix)
		for _, ext := range Extensions {
			out = append(out, p+ext)
		}
	}
	return out
}

// IsRelative reports whether a specifier is relative to the importing file.
func IsRelative(specifier string) bool {
	specifier = alias.NormalizePath(specifier)
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}
