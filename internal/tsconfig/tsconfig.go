package tsconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/mvp-joe/codeslice/internal/alias"
	"github.com/spf13/afero"
	"github.com/tailscale/hujson"
)

// ErrInvalid indicates a tsconfig file that cannot be parsed.
var ErrInvalid = errors.New("invalid tsconfig")

// Config holds the parts of tsconfig.json the resolver needs.
type Config struct {
	BaseURL string
	// Paths preserves the declaration order of compilerOptions.paths.
	Paths []alias.Entry
}

type rawConfig struct {
	CompilerOptions struct {
		BaseURL string          `json:"baseUrl"`
		Paths   json.RawMessage `json:"paths"`
	} `json:"compilerOptions"`
}

// Load reads a tsconfig file. Comments and trailing commas are accepted.
// A file without compilerOptions.paths yields an empty table.
func Load(fs afero.Fs, filePath string) (*Config, error) {
	data, err := afero.ReadFile(fs, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return Parse(data)
}

// Parse decodes tsconfig content.
func Parse(data []byte) (*Config, error) {
	standard, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var raw rawConfig
	if err := json.Unmarshal(standard, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	cfg := &Config{BaseURL: raw.CompilerOptions.BaseURL}
	if len(raw.CompilerOptions.Paths) == 0 || string(raw.CompilerOptions.Paths) == "null" {
		return cfg, nil
	}

	entries, err := orderedPaths(raw.CompilerOptions.Paths)
	if err != nil {
		return nil, fmt.Errorf("%w: compilerOptions.paths: %v", ErrInvalid, err)
	}
	cfg.Paths = entries
	return cfg, nil
}

// Aliases returns the path table with targets made relative to the project
// root through baseUrl.
func (c *Config) Aliases() []alias.Entry {
	base := strings.TrimSpace(c.BaseURL)
	out := make([]alias.Entry, 0, len(c.Paths))
	for _, e := range c.Paths {
		targets := make([]string, 0, len(e.Targets))
		for _, t := range e.Targets {
			if base != "" && base != "." && !path.IsAbs(t) {
				t = path.Join(base, t)
			}
			targets = append(targets, t)
		}
		out = append(out, alias.Entry{Pattern: e.Pattern, Targets: targets})
	}
	return out
}

// orderedPaths decodes a JSON object of string arrays keeping key order.
func orderedPaths(data json.RawMessage) ([]alias.Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var entries []alias.Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		var targets []string
		if err := dec.Decode(&targets); err != nil {
			return nil, fmt.Errorf("targets for %q: %w", key, err)
		}
		entries = append(entries, alias.Entry{Pattern: key, Targets: targets})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return entries, nil
}
