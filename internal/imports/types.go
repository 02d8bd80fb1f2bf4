package imports

import "context"

// Declaration is one binding introduced by an import statement.
type Declaration struct {
	Name        string `json:"name"`            // exported name, or the local name for default/namespace imports
	Alias       string `json:"alias,omitempty"` // local name for `{ Name as Alias }`
	IsDefault   bool   `json:"is_default,omitempty"`
	IsNamespace bool   `json:"is_namespace,omitempty"`
}

// Info is one import statement. ResolvedPath stays empty until the tree
// builder locates the target file.
type Info struct {
	Source       string        `json:"source"`
	Declarations []Declaration `json:"declarations"`
	ResolvedPath string        `json:"resolved_path,omitempty"`
	Line         int           `json:"line,omitempty"` // 1-based line of the statement
	TypeOnly     bool          `json:"type_only,omitempty"`
}

// HasNamespace reports whether the import binds the whole module.
func (i *Info) HasNamespace() bool {
	for _, d := range i.Declarations {
		if d.IsNamespace {
			return true
		}
	}
	return false
}

// Names returns the local names bound by the import, in declaration order.
func (i *Info) Names() []string {
	names := make([]string, 0, len(i.Declarations))
	for _, d := range i.Declarations {
		if d.Alias != "" {
			names = append(names, d.Alias)
		} else {
			names = append(names, d.Name)
		}
	}
	return names
}

// Parser extracts import statements from source text.
type Parser interface {
	Parse(ctx context.Context, filePath string, source string) ([]*Info, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(ctx context.Context, filePath string, source string) ([]*Info, error)

// Parse calls f.
func (f ParserFunc) Parse(ctx context.Context, filePath string, source string) ([]*Info, error) {
	return f(ctx, filePath, source)
}
