package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/chriserin/reqtrace/internal/report"
)

var (
	// ErrNoSearch indicates that no search filter is configured.
	ErrNoSearch = errors.New("no search filters")

	// ErrInvalidFilter indicates a search filter without a root or with a bad pattern.
	ErrInvalidFilter = errors.New("invalid search filter")

	// ErrInvalidWorkers indicates a negative worker count.
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrEmptyDatabase indicates a missing database path.
	ErrEmptyDatabase = errors.New("empty database path")

	// ErrInvalidFormat indicates an unsupported report format.
	ErrInvalidFormat = errors.New("invalid report format")
)

// Validate reports every problem in cfg at once.
func Validate(cfg *Config) error {
	var errs []error

	if len(cfg.Search) == 0 {
		errs = append(errs, ErrNoSearch)
	}
	for i, f := range cfg.Search {
		if f.Root == "" {
			errs = append(errs, fmt.Errorf("%w: search[%d] has no root", ErrInvalidFilter, i))
		}
		if f.Pattern == "" || !doublestar.ValidatePattern(f.Pattern) {
			errs = append(errs, fmt.Errorf("%w: search[%d] pattern %q", ErrInvalidFilter, i, f.Pattern))
		}
	}

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWorkers, cfg.Workers))
	}
	if cfg.Database == "" {
		errs = append(errs, ErrEmptyDatabase)
	}
	if !slices.Contains(report.Formats(), cfg.Report.Format) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidFormat, cfg.Report.Format))
	}

	return errors.Join(errs...)
}
