package slice

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/codeslice/internal/config"
)

const headerRule = "// ==== "

// render writes the bundle text. Files that contributed no declarations are
// left out. With dependency order the root file comes last.
func render(res *Result, includeRoot bool, order string) string {
	var b strings.Builder

	writeRoot := func() {
		if !includeRoot {
			return
		}
		fmt.Fprintf(&b, "%s%s ====\n", headerRule, res.RootRel)
		b.WriteString(strings.TrimRight(res.RootSource, "\n"))
		b.WriteString("\n\n")
	}

	if order != config.OrderDependencies {
		writeRoot()
	}

	for _, f := range res.Files {
		if len(f.Declarations) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s%s (via %s) ====\n", headerRule, f.RelPath, f.Specifier)
		for i, d := range f.Declarations {
			if i > 0 {
				b.WriteString("\n")
			}
			// Content is wrapped in newlines; drop the leading one
			b.WriteString(strings.TrimPrefix(d.Content, "\n"))
		}
		b.WriteString("\n")
	}

	if order == config.OrderDependencies {
		writeRoot()
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
