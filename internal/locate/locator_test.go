package locate

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/mvp-joe/codeslice/internal/alias"
	"github.com/mvp-joe/codeslice/internal/source"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for File Path Locator:
// - Relative specifiers resolve against the importer's directory without alias lookup
// - Extensions are probed in order .ts, .tsx, .js, .jsx
// - Suffixes are probed in order <bare>, /page, /index
// - Base directories are probed in order root, src, app
// - Aliased specifiers use only the first resolved target
// - Unresolvable specifiers report not found
// - Candidates lists probes in exact order
// - IsRelative classifies specifiers

var root = filepath.FromSlash("/proj")

func newTestLocator(t *testing.T, files []string, entries []alias.Entry) *Locator {
	t.Helper()

	mem := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(mem, filepath.FromSlash(f), []byte("// "+f), 0o644))
	}
	fs, err := source.NewFS(mem, 16)
	require.NoError(t, err)

	resolver := alias.NewResolver(entries, log.New(io.Discard, "", 0))
	return NewLocator(root, resolver, fs)
}

func p(s string) string {
	return filepath.FromSlash(s)
}

func TestLocate_Relative(t *testing.T) {
	t.Parallel()

	l := newTestLocator(t, []string{
		"/proj/src/components/Button.tsx",
		"/proj/src/lib/util.ts",
	}, []alias.Entry{{Pattern: "./*", Targets: []string{"nowhere/*"}}})

	got, ok := l.Locate("./Button", p("/proj/src/components/Card.tsx"))
	require.True(t, ok)
	assert.Equal(t, p("/proj/src/components/Button.tsx"), got)

	got, ok = l.Locate("../lib/util", p("/proj/src/components/Card.tsx"))
	require.True(t, ok)
	assert.Equal(t, p("/proj/src/lib/util.ts"), got)
}

func TestLocate_ExtensionOrder(t *testing.T) {
	t.Parallel()

	l := newTestLocator(t, []string{
		"/proj/src/a.js",
		"/proj/src/a.tsx",
		"/proj/src/a.jsx",
	}, nil)

	got, ok := l.Locate("./a", p("/proj/src/main.ts"))
	require.True(t, ok)
	assert.Equal(t, p("/proj/src/a.tsx"), got)
}

func TestLocate_SuffixOrder(t *testing.T) {
	t.Parallel()

	l := newTestLocator(t, []string{
		"/proj/app/dashboard/index.tsx",
		"/proj/app/dashboard/page.tsx",
	}, nil)

	got, ok := l.Locate("./dashboard", p("/proj/app/layout.tsx"))
	require.True(t, ok)
	assert.Equal(t, p("/proj/app/dashboard/page.tsx"), got)
}

func TestLocate_BaseDirOrder(t *testing.T) {
	t.Parallel()

	l := newTestLocator(t, []string{
		"/proj/app/utils/format.ts",
		"/proj/src/utils/format.ts",
	}, nil)

	got, ok := l.Locate("utils/format", p("/proj/src/main.ts"))
	require.True(t, ok)
	assert.Equal(t, p("/proj/src/utils/format.ts"), got)

	l = newTestLocator(t, []string{
		"/proj/app/utils/format.ts",
		"/proj/src/utils/format.ts",
		"/proj/utils/format.js",
	}, nil)

	got, ok = l.Locate("utils/format", p("/proj/src/main.ts"))
	require.True(t, ok)
	assert.Equal(t, p("/proj/utils/format.js"), got)
}

func TestLocate_Aliased(t *testing.T) {
	t.Parallel()

	l := newTestLocator(t, []string{
		"/proj/src/components/Button.tsx",
	}, []alias.Entry{{Pattern: "@/*", Targets: []string{"./src/*"}}})

	got, ok := l.Locate("@/components/Button", p("/proj/app/page.tsx"))
	require.True(t, ok)
	assert.Equal(t, p("/proj/src/components/Button.tsx"), got)
}

func TestLocate_OnlyFirstTargetProbed(t *testing.T) {
	t.Parallel()

	l := newTestLocator(t, []string{
		"/proj/generated/api.ts",
	}, []alias.Entry{{Pattern: "@/*", Targets: []string{"lib/*", "generated/*"}}})

	_, ok := l.Locate("@/api", p("/proj/src/main.ts"))
	assert.False(t, ok)
}

func TestLocate_NotFound(t *testing.T) {
	t.Parallel()

	l := newTestLocator(t, []string{"/proj/src/a.ts"}, nil)

	_, ok := l.Locate("react", p("/proj/src/a.ts"))
	assert.False(t, ok)

	_, ok = l.Locate("./missing", p("/proj/src/a.ts"))
	assert.False(t, ok)
}

func TestCandidates_Order(t *testing.T) {
	t.Parallel()

	l := newTestLocator(t, nil, nil)

	got := l.Candidates("./x", p("/proj/src/a.ts"))
	want := []string{
		p("/proj/src/x.ts"), p("/proj/src/x.tsx"), p("/proj/src/x.js"), p("/proj/src/x.jsx"),
		p("/proj/src/x/page.ts"), p("/proj/src/x/page.tsx"), p("/proj/src/x/page.js"), p("/proj/src/x/page.jsx"),
		p("/proj/src/x/index.ts"), p("/proj/src/x/index.tsx"), p("/proj/src/x/index.js"), p("/proj/src/x/index.jsx"),
	}
	assert.Equal(t, want, got)

	got = l.Candidates("lib", p("/proj/src/a.ts"))
	require.Len(t, got, len(BaseDirs)*len(Suffixes)*len(Extensions))
	assert.Equal(t, p("/proj/lib.ts"), got[0])
	assert.Equal(t, p("/proj/src/lib.ts"), got[12])
	assert.Equal(t, p("/proj/app/lib/index.jsx"), got[len(got)-1])
}

func TestIsRelative(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRelative("./a"))
	assert.True(t, IsRelative("../a"))
	assert.True(t, IsRelative("."))
	assert.True(t, IsRelative(".."))
	assert.True(t, IsRelative(`.\a`))
	assert.False(t, IsRelative("a"))
	assert.False(t, IsRelative("@/a"))
	assert.False(t, IsRelative(".hidden/a"))
	assert.False(t, IsRelative("/abs/a"))
}
