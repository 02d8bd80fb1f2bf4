package alias

import (
	"bytes"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Alias Resolver:
// - Literal alias substitutes its prefix exactly (a + s -> t + s)
// - Glob alias matches and swaps only the pre-wildcard prefix
// - Non-matching glob falls through to later aliases or to passthrough
// - Literal aliases outrank glob aliases regardless of order or length
// - Longer patterns win within a class; ties keep declaration order
// - Multiple targets are all returned in order
// - Trailing '*' runs collapse and backslashes normalize
// - Brace and bracket classes match like their regex equivalents
// - Negated classes exclude their characters in both [^x] and [!x] form
// - Empty table and invalid glob degrade to passthrough
// - AddAlias replaces in place and invalidates cached ordering
// - Replace swaps the whole table

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestResolve_LiteralPrefixSubstitution(t *testing.T) {
	t.Parallel()

	r := NewResolver([]Entry{{Pattern: "~lib", Targets: []string{"src/lib"}}}, quietLogger())

	for _, suffix := range []string{"", "/utils", "/deep/nested/thing", "x"} {
		res := r.Resolve("~lib" + suffix)
		assert.True(t, res.Matched, suffix)
		assert.Equal(t, "~lib", res.MatchedAlias)
		assert.Equal(t, []string{"src/lib" + suffix}, res.ResolvedPaths)
	}
}

func TestResolve_GlobPrefixSwap(t *testing.T) {
	t.Parallel()

	r := NewResolver([]Entry{{Pattern: "@/*", Targets: []string{"./src/*"}}}, quietLogger())

	res := r.Resolve("@/components/Button")
	assert.True(t, res.Matched)
	assert.Equal(t, "@/*", res.MatchedAlias)
	assert.Equal(t, []string{"./src/components/Button"}, res.ResolvedPaths)
}

func TestResolve_GlobFallsThrough(t *testing.T) {
	t.Parallel()

	r := NewResolver([]Entry{
		{Pattern: "@components/*", Targets: []string{"src/components/*"}},
		{Pattern: "#*", Targets: []string{"src/internal/*"}},
	}, quietLogger())

	// Test: first glob does not match, second does
	res := r.Resolve("#db/client")
	assert.True(t, res.Matched)
	assert.Equal(t, "#*", res.MatchedAlias)
	assert.Equal(t, []string{"src/internal/db/client"}, res.ResolvedPaths)

	// Test: nothing matches, specifier returned unchanged
	res = r.Resolve("react")
	assert.False(t, res.Matched)
	assert.Empty(t, res.MatchedAlias)
	assert.Equal(t, "react", res.OriginalPath)
	assert.Equal(t, []string{"react"}, res.ResolvedPaths)
}

func TestResolve_LiteralOutranksGlob(t *testing.T) {
	t.Parallel()

	// Glob declared first and longer; literal must still win.
	r := NewResolver([]Entry{
		{Pattern: "@shared/components/*", Targets: []string{"glob-target/*"}},
		{Pattern: "@shared", Targets: []string{"literal-target"}},
	}, quietLogger())

	res := r.Resolve("@shared/components/Card")
	assert.True(t, res.Matched)
	assert.Equal(t, "@shared", res.MatchedAlias)
	assert.Equal(t, []string{"literal-target/components/Card"}, res.ResolvedPaths)
}

func TestResolve_SpecificityOrdering(t *testing.T) {
	t.Parallel()

	r := NewResolver([]Entry{
		{Pattern: "@app", Targets: []string{"app"}},
		{Pattern: "@app/ui", Targets: []string{"packages/ui/src"}},
	}, quietLogger())

	res := r.Resolve("@app/ui/Button")
	assert.Equal(t, "@app/ui", res.MatchedAlias)
	assert.Equal(t, []string{"packages/ui/src/Button"}, res.ResolvedPaths)

	res = r.Resolve("@app/pages/home")
	assert.Equal(t, "@app", res.MatchedAlias)
	assert.Equal(t, []string{"app/pages/home"}, res.ResolvedPaths)
}

func TestResolve_TieBreakByDeclarationOrder(t *testing.T) {
	t.Parallel()

	// Same class, same length, both match.
	r := NewResolver([]Entry{
		{Pattern: "a*", Targets: []string{"first/*"}},
		{Pattern: "*b", Targets: []string{"second/*"}},
	}, quietLogger())

	res := r.Resolve("ab")
	assert.Equal(t, "a*", res.MatchedAlias)

	r = NewResolver([]Entry{
		{Pattern: "*b", Targets: []string{"second/*"}},
		{Pattern: "a*", Targets: []string{"first/*"}},
	}, quietLogger())

	res = r.Resolve("ab")
	assert.Equal(t, "*b", res.MatchedAlias)
}

func TestResolve_MultipleTargets(t *testing.T) {
	t.Parallel()

	r := NewResolver([]Entry{
		{Pattern: "@/*", Targets: []string{"src/*", "generated/*", "vendor/shim/*"}},
	}, quietLogger())

	res := r.Resolve("@/api/client")
	assert.Equal(t, []string{"src/api/client", "generated/api/client", "vendor/shim/api/client"}, res.ResolvedPaths)
}

func TestResolve_Normalization(t *testing.T) {
	t.Parallel()

	r := NewResolver([]Entry{
		{Pattern: `@\utils\**`, Targets: []string{`src\utils\***`}},
	}, quietLogger())

	entries := r.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "@/utils/*", entries[0].Pattern)
	assert.Equal(t, []string{"src/utils/*"}, entries[0].Targets)

	res := r.Resolve(`@\utils\format\date`)
	assert.True(t, res.Matched)
	assert.Equal(t, "@/utils/format/date", res.OriginalPath)
	assert.Equal(t, []string{"src/utils/format/date"}, res.ResolvedPaths)
}

func TestResolve_GlobClasses(t *testing.T) {
	t.Parallel()

	r := NewResolver([]Entry{
		{Pattern: "@{ui,core}/*", Targets: []string{"packages/*"}},
		{Pattern: "v[0-9]/*", Targets: []string{"versions/*"}},
		{Pattern: "x?/*", Targets: []string{"xs/*"}},
	}, quietLogger())

	res := r.Resolve("@ui/Button")
	assert.True(t, res.Matched)
	assert.Equal(t, "@{ui,core}/*", res.MatchedAlias)
	// Only the literal prefix "@" is swapped.
	assert.Equal(t, []string{"packages/ui/Button"}, res.ResolvedPaths)

	assert.False(t, r.Resolve("@web/Button").Matched)

	res = r.Resolve("v2/api")
	assert.True(t, res.Matched)
	assert.Equal(t, []string{"versions/2/api"}, res.ResolvedPaths)
	assert.False(t, r.Resolve("vx/api").Matched)

	res = r.Resolve("xy/z")
	assert.True(t, res.Matched)
	assert.Equal(t, "x?/*", res.MatchedAlias)
	assert.False(t, r.Resolve("xyz/z").Matched)
}

func TestResolve_NegatedGlobClass(t *testing.T) {
	t.Parallel()

	r := NewResolver([]Entry{
		{Pattern: "@[^x]/*", Targets: []string{"neg/*"}},
		{Pattern: "v[!0-9]/*", Targets: []string{"named/*"}},
	}, quietLogger())

	res := r.Resolve("@a/foo")
	assert.True(t, res.Matched)
	assert.Equal(t, "@[^x]/*", res.MatchedAlias)
	assert.Equal(t, []string{"neg/a/foo"}, res.ResolvedPaths)

	// Test: the excluded character does not match
	res = r.Resolve("@x/foo")
	assert.False(t, res.Matched)
	assert.Equal(t, []string{"@x/foo"}, res.ResolvedPaths)

	// Test: glob-style negation keeps working
	assert.True(t, r.Resolve("vx/api").Matched)
	assert.False(t, r.Resolve("v2/api").Matched)
}

func TestResolve_EmptyTable(t *testing.T) {
	t.Parallel()

	for _, r := range []*Resolver{NewResolver(nil, quietLogger()), NewResolver([]Entry{}, nil)} {
		res := r.Resolve("@/anything")
		assert.False(t, res.Matched)
		assert.Equal(t, []string{"@/anything"}, res.ResolvedPaths)
	}
}

func TestResolve_InvalidGlobIsSkipped(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewResolver([]Entry{
		{Pattern: "@[broken/*", Targets: []string{"nowhere/*"}},
		{Pattern: "@*", Targets: []string{"fallback/*"}},
	}, log.New(&buf, "", 0))

	res := r.Resolve("@[broken/x")
	assert.True(t, res.Matched)
	assert.Equal(t, "@*", res.MatchedAlias)
	assert.Contains(t, buf.String(), "ignoring alias")
}

func TestAddAlias(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil, quietLogger())
	assert.False(t, r.Resolve("@/x").Matched)

	// Test: added alias is visible to subsequent calls
	r.AddAlias("@/*", []string{"src/*"})
	assert.Equal(t, []string{"src/x"}, r.Resolve("@/x").ResolvedPaths)

	// Test: re-adding the same pattern replaces targets in place
	r.AddAlias("@/**", []string{"lib/*"})
	require.Len(t, r.Entries(), 1)
	assert.Equal(t, []string{"lib/x"}, r.Resolve("@/x").ResolvedPaths)

	// Test: a new literal outranks the existing glob
	r.AddAlias("@/x", []string{"special"})
	assert.Equal(t, []string{"special"}, r.Resolve("@/x").ResolvedPaths)
}

func TestReplace(t *testing.T) {
	t.Parallel()

	r := NewResolver([]Entry{{Pattern: "@/*", Targets: []string{"src/*"}}}, quietLogger())
	assert.True(t, r.Resolve("@/a").Matched)

	r.Replace([]Entry{{Pattern: "~/*", Targets: []string{"lib/*"}}})
	assert.False(t, r.Resolve("@/a").Matched)

	res := r.Resolve("~/a")
	assert.True(t, res.Matched)
	assert.Equal(t, []string{"lib/a"}, res.ResolvedPaths)
	assert.Equal(t, []Entry{{Pattern: "~/*", Targets: []string{"lib/*"}}}, r.Entries())

	// Test: an empty table degrades to passthrough
	r.Replace(nil)
	assert.Empty(t, r.Entries())
	assert.False(t, r.Resolve("~/a").Matched)
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	r := NewResolver([]Entry{{Pattern: "@/*", Targets: []string{"src/*"}}}, quietLogger())
	first := r.Resolve("@/a/b")
	second := r.Resolve("@/a/b")
	assert.Equal(t, first, second)
}
