package extract

import (
	"log"
	"regexp"
	"strings"

	"github.com/mvp-joe/codeslice/internal/imports"
)

// Content is one extracted top-level declaration.
type Content struct {
	Name         string `json:"name"`
	Content      string `json:"content"`
	StartLine    int    `json:"start_line"` // 0-based
	EndLine      int    `json:"end_line"`   // 0-based line holding the closing token
	Unterminated bool   `json:"unterminated,omitempty"`
}

var (
	// declStart recognises the first line of a top-level declaration.
	declStart = regexp.MustCompile(`^(export\s+)?(default\s+)?(async\s+)?(?:function(?:\s*\*\s*|\s+)|(?:class|interface|type|const)\s+)([A-Za-z_$][\w$]*)`)

	// defaultExportName matches a standalone `export default Name;`.
	defaultExportName = regexp.MustCompile(`^export\s+default\s+([A-Za-z_$][\w$]*)\s*;?\s*$`)

	exportDefaultPrefix = regexp.MustCompile(`^\s*export\s+default\s+`)
	blankRuns           = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)
)

// Extractor isolates imported top-level declarations with a line-oriented
// brace counter. Braces inside strings, template literals, comments and
// regular expressions are counted too; this is a known limitation of the
// lexical approach.
//
// An Extractor is not safe for concurrent use.
type Extractor struct {
	logger *log.Logger
	seen   map[string]bool
}

// NewExtractor creates an extractor. A nil logger uses log.Default().
func NewExtractor(logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{
		logger: logger,
		seen:   make(map[string]bool),
	}
}

// declaration is a candidate found by the scanner.
type declaration struct {
	name         string
	isDefault    bool
	lines        []string
	start, end   int
	unterminated bool
}

// ExtractImportedEntities returns the declarations of sourceText that info
// binds, in source order. The first declaration of a name wins.
func (e *Extractor) ExtractImportedEntities(sourceText string, info *imports.Info) []Content {
	if info == nil {
		return nil
	}

	label := info.ResolvedPath
	if label == "" {
		label = info.Source
	}
	decls := e.scan(sourceText, label)
	defaultName := exportedDefaultName(sourceText)

	return e.keep(decls, func(d declaration) bool {
		return matches(d, defaultName, info)
	})
}

// ExtractAll returns every top-level declaration of sourceText, keeping the
// first declaration of each name.
func (e *Extractor) ExtractAll(sourceText string) []Content {
	return e.keep(e.scan(sourceText, ""), func(declaration) bool { return true })
}

// keep applies first-occurrence-wins and the selection predicate.
func (e *Extractor) keep(decls []declaration, selected func(declaration) bool) []Content {
	clear(e.seen)

	var out []Content
	for _, d := range decls {
		if e.seen[d.name] || !selected(d) {
			continue
		}
		e.seen[d.name] = true
		out = append(out, Content{
			Name:         d.name,
			Content:      format(d.lines),
			StartLine:    d.start,
			EndLine:      d.end,
			Unterminated: d.unterminated,
		})
	}
	return out
}

// scan runs the brace-depth state machine over the source lines.
func (e *Extractor) scan(sourceText, label string) []declaration {
	lines := strings.Split(sourceText, "\n")

	var (
		decls      []declaration
		collecting bool
		current    declaration
		depth      int
	)

	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")

		if !collecting {
			m := declStart.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			collecting = true
			current = declaration{
				name:      m[4],
				isDefault: m[1] != "" && m[2] != "",
				lines:     []string{line},
				start:     i,
			}
			depth = strings.Count(line, "{") - strings.Count(line, "}")
		} else {
			current.lines = append(current.lines, line)
			depth += strings.Count(line, "{") - strings.Count(line, "}")
		}

		if depth == 0 && strings.ContainsAny(line, "};") {
			current.end = i
			decls = append(decls, current)
			collecting = false
		}
	}

	if collecting {
		current.end = len(lines) - 1
		current.unterminated = true
		decls = append(decls, current)
		if label == "" {
			label = "source"
		}
		e.logger.Printf("Warning: declaration %q in %s starting at line %d is not terminated, closing at end of file",
			current.name, label, current.start+1)
	}

	return decls
}

// matches reports whether an import binds the declaration.
func matches(d declaration, defaultName string, info *imports.Info) bool {
	if info.HasNamespace() {
		return true
	}
	for _, b := range info.Declarations {
		switch {
		case b.Name == d.name, b.Alias != "" && b.Alias == d.name:
			return true
		case b.IsDefault && (d.isDefault || (defaultName != "" && d.name == defaultName)):
			return true
		}
	}
	return false
}

// exportedDefaultName finds `export default Name;` and returns Name.
func exportedDefaultName(sourceText string) string {
	for _, line := range strings.Split(sourceText, "\n") {
		if m := defaultExportName.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[1]
		}
	}
	return ""
}

// format normalises a declaration for output: blank-line runs collapse to
// one blank line, a leading `export default` is dropped, and the trimmed
// text is wrapped in single newlines.
func format(lines []string) string {
	text := strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = exportDefaultPrefix.ReplaceAllString(text, "")
	return "\n" + strings.TrimSpace(text) + "\n"
}
