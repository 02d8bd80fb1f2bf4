package config

// Config represents the complete codeslice configuration.
// It can be loaded from .codeslice/config.yml with environment variable overrides.
type Config struct {
	Slice    SliceConfig    `yaml:"slice" mapstructure:"slice"`
	TSConfig TSConfigConfig `yaml:"tsconfig" mapstructure:"tsconfig"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Watch    WatchConfig    `yaml:"watch" mapstructure:"watch"`
}

// SliceConfig controls import traversal and rendering.
type SliceConfig struct {
	Depth       int     `yaml:"depth" mapstructure:"depth"`               // import levels to follow
	Order       string  `yaml:"order" mapstructure:"order"`               // "tree" or "dependencies"
	MaxSizeKB   float64 `yaml:"max_size_kb" mapstructure:"max_size_kb"`   // warn above this; 0 disables
	IncludeRoot bool    `yaml:"include_root" mapstructure:"include_root"` // render the root file in full
}

// TSConfigConfig locates the compiler config holding the alias table.
type TSConfigConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // relative to the project root
}

// CacheConfig bounds the file content cache.
type CacheConfig struct {
	MaxFiles int `yaml:"max_files" mapstructure:"max_files"`
}

// WatchConfig configures slice --watch.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Order values for SliceConfig.Order.
const (
	OrderTree         = "tree"
	OrderDependencies = "dependencies"
)

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Slice: SliceConfig{
			Depth:       3,
			Order:       OrderTree,
			MaxSizeKB:   512,
			IncludeRoot: true,
		},
		TSConfig: TSConfigConfig{
			Path: "tsconfig.json",
		},
		Cache: CacheConfig{
			MaxFiles: 1024,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}
