package imports

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// TreeSitterParser reads ES module import statements with the tree-sitter
// TypeScript grammars. JavaScript is parsed with the same grammars.
type TreeSitterParser struct {
	typescript *sitter.Language
	tsx        *sitter.Language
}

// NewTreeSitterParser creates a parser for .ts/.js and .tsx/.jsx sources.
func NewTreeSitterParser() *TreeSitterParser {
	return &TreeSitterParser{
		typescript: sitter.NewLanguage(typescript.LanguageTypescript()),
		tsx:        sitter.NewLanguage(typescript.LanguageTSX()),
	}
}

// Parse returns the file's import statements in source order.
func (p *TreeSitterParser) Parse(ctx context.Context, filePath string, source string) ([]*Info, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.languageFor(filePath)); err != nil {
		return nil, fmt.Errorf("failed to set language for %s: %w", filePath, err)
	}

	src := []byte(source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s", filePath)
	}
	defer tree.Close()

	root := tree.RootNode()
	var result []*Info
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		if child == nil || child.Kind() != "import_statement" {
			continue
		}
		if info := p.importStatement(child, src); info != nil {
			result = append(result, info)
		}
	}

	return result, nil
}

// languageFor picks the JSX-aware grammar for .tsx and .jsx files.
func (p *TreeSitterParser) languageFor(filePath string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx", ".jsx":
		return p.tsx
	default:
		return p.typescript
	}
}

// importStatement converts one import_statement node.
func (p *TreeSitterParser) importStatement(node *sitter.Node, src []byte) *Info {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return nil
	}
	specifier := stringContent(sourceNode, src)
	if specifier == "" {
		return nil
	}

	info := &Info{
		Source:       specifier,
		Declarations: []Declaration{},
		Line:         int(node.StartPosition().Row) + 1,
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "type":
			// import type { ... }
			info.TypeOnly = true
		case "import_clause":
			p.importClause(child, src, info)
		}
	}

	return info
}

// importClause collects default, namespace and named bindings.
func (p *TreeSitterParser) importClause(node *sitter.Node, src []byte, info *Info) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			// import Foo from 'x'
			info.Declarations = append(info.Declarations, Declaration{
				Name:      nodeText(child, src),
				IsDefault: true,
			})
		case "namespace_import":
			// import * as ns from 'x'
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(uint(j))
				if gc != nil && gc.Kind() == "identifier" {
					info.Declarations = append(info.Declarations, Declaration{
						Name:        nodeText(gc, src),
						IsNamespace: true,
					})
				}
			}
		case "named_imports":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(uint(j))
				if gc == nil || gc.Kind() != "import_specifier" {
					continue
				}
				if decl, ok := importSpecifier(gc, src); ok {
					info.Declarations = append(info.Declarations, decl)
				}
			}
		}
	}
}

// importSpecifier converts `Name` or `Name as Alias`.
func importSpecifier(node *sitter.Node, src []byte) (Declaration, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Declaration{}, false
	}

	name := nodeText(nameNode, src)
	if nameNode.Kind() == "string" {
		name = stringContent(nameNode, src)
	}

	decl := Declaration{Name: name}
	if aliasNode := node.ChildByFieldName("alias"); aliasNode != nil {
		decl.Alias = nodeText(aliasNode, src)
	}
	// `{ default as Foo }` binds the default export.
	if decl.Name == "default" {
		decl.IsDefault = true
		if decl.Alias != "" {
			decl.Name, decl.Alias = decl.Alias, ""
		}
	}
	return decl, decl.Name != ""
}

// stringContent returns a string literal without its quotes.
func stringContent(node *sitter.Node, src []byte) string {
	text := nodeText(node, src)
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '\'' || first == '"' || first == '`') && last == first {
			return text[1 : len(text)-1]
		}
	}
	return text
}

func nodeText(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return string(src[node.StartByte():node.EndByte()])
}
