// Package source reads feature files and discovers them on disk.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

var (
	// ErrRead is the target for errors.Is on every ReadError.
	ErrRead = errors.New("file reading failed")

	// ErrSearch is the target for errors.Is on every SearchError.
	ErrSearch = errors.New("file search failed")
)

// ReadError reports a file that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() []error {
	return []error{ErrRead, e.Err}
}

// SearchError reports a search root that cannot be searched.
type SearchError struct {
	Root string
	Err  error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("searching %s: %v", e.Root, e.Err)
}

func (e *SearchError) Unwrap() []error {
	return []error{ErrSearch, e.Err}
}

// LineReader returns the lines of a file.
type LineReader interface {
	ReadLines(path string) ([]string, error)
}

// Searcher returns the files matching any of the filters.
type Searcher interface {
	Search(filters ...Filter) ([]string, error)
}

// Filter selects files under Root whose base name matches Pattern.
type Filter struct {
	Root      string `mapstructure:"root" yaml:"root"`
	Recursive bool   `mapstructure:"recursive" yaml:"recursive"`
	Pattern   string `mapstructure:"pattern" yaml:"pattern"`
}

// FS implements LineReader and Searcher over an afero filesystem.
type FS struct {
	fs afero.Fs
}

// NewFS wraps fs. A nil fs means the operating system's filesystem.
func NewFS(fs afero.Fs) *FS {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FS{fs: fs}
}

// ReadLines returns the lines of path without line terminators or a leading
// byte order mark.
func (s *FS) ReadLines(path string) ([]string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, nil
}

// Search walks each filter's root in lexical order. Paths matched by more
// than one filter are returned once, at their first position.
func (s *FS) Search(filters ...Filter) ([]string, error) {
	var out []string
	seen := make(map[string]bool)

	for _, f := range filters {
		if !doublestar.ValidatePattern(f.Pattern) {
			return nil, &SearchError{Root: f.Root, Err: fmt.Errorf("invalid pattern %q", f.Pattern)}
		}
		info, err := s.fs.Stat(f.Root)
		if err != nil {
			return nil, &SearchError{Root: f.Root, Err: err}
		}
		if !info.IsDir() {
			return nil, &SearchError{Root: f.Root, Err: errors.New("not a directory")}
		}

		err = afero.Walk(s.fs, f.Root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != f.Root && !f.Recursive {
					return filepath.SkipDir
				}
				return nil
			}
			ok, err := doublestar.Match(f.Pattern, info.Name())
			if err != nil {
				return err
			}
			if ok && !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, &SearchError{Root: f.Root, Err: err}
		}
	}

	return out, nil
}
