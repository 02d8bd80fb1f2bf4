package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDepth indicates a traversal depth below 1
	ErrInvalidDepth = errors.New("invalid slice depth")

	// ErrInvalidOrder indicates an unknown output order
	ErrInvalidOrder = errors.New("invalid slice order")

	// ErrInvalidSize indicates a negative size or count limit
	ErrInvalidSize = errors.New("invalid size limit")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateSlice(&cfg.Slice); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(cfg.TSConfig.Path) == "" {
		errs = append(errs, errors.New("tsconfig.path is required"))
	}

	if cfg.Cache.MaxFiles <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache.max_files must be positive, got %d", ErrInvalidSize, cfg.Cache.MaxFiles))
	}

	if cfg.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("%w: watch.debounce_ms cannot be negative, got %d", ErrInvalidSize, cfg.Watch.DebounceMS))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateSlice(cfg *SliceConfig) error {
	var errs []error

	if cfg.Depth < 1 {
		errs = append(errs, fmt.Errorf("%w: depth must be at least 1, got %d", ErrInvalidDepth, cfg.Depth))
	}

	order := strings.ToLower(cfg.Order)
	if order != OrderTree && order != OrderDependencies {
		errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidOrder, OrderTree, OrderDependencies, cfg.Order))
	}

	// Zero disables the size warning
	if cfg.MaxSizeKB < 0 {
		errs = append(errs, fmt.Errorf("%w: max_size_kb cannot be negative, got %.2f", ErrInvalidSize, cfg.MaxSizeKB))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// Sentinels stay reachable through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{msg: fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - ")), errs: errs}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
