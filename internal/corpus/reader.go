// Package corpus reads pre-authored passage and question sets from a
// directory of JSON files, one set per file.
package corpus

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abhisek/drillsergeant/internal/content"
)

// Reader serves entries from a corpus directory. It holds no open files
// and is safe for concurrent use.
type Reader struct {
	dir  string
	intn func(n int) int
}

// Option configures a Reader.
type Option func(*Reader)

// WithRand overrides entry selection. intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(r *Reader) { r.intn = intn }
}

// NewReader returns a Reader over dir.
func NewReader(dir string, opts ...Option) *Reader {
	r := &Reader{dir: dir, intn: rand.IntN}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Dir returns the corpus directory.
func (r *Reader) Dir() string { return r.dir }

// Entries lists the *.json files in the corpus directory, sorted by name.
func (r *Reader) Entries() ([]string, error) {
	if r.dir == "" {
		return nil, ErrEmptyCorpus
	}
	des, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}
	var paths []string
	for _, de := range des {
		if de.IsDir() || !strings.EqualFold(filepath.Ext(de.Name()), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(r.dir, de.Name()))
	}
	if len(paths) == 0 {
		return nil, ErrEmptyCorpus
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads and parses one corpus file.
func (r *Reader) Load(path string) (*content.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &EntryError{Path: path, Err: err}
	}
	set, err := Parse(data)
	if err != nil {
		return nil, &EntryError{Path: path, Err: err}
	}
	return set, nil
}

// Pick loads one entry chosen at random.
func (r *Reader) Pick(ctx context.Context) (*content.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	paths, err := r.Entries()
	if err != nil {
		return nil, err
	}
	return r.Load(paths[r.intn(len(paths))])
}

// CheckResult is the outcome of validating one corpus file.
type CheckResult struct {
	Path      string
	Title     string
	Questions int
	Err       error
}

// Check validates every entry. The error is non-nil only when the
// directory itself cannot be listed.
func (r *Reader) Check(ctx context.Context) ([]CheckResult, error) {
	paths, err := r.Entries()
	if err != nil {
		return nil, err
	}
	results := make([]CheckResult, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := CheckResult{Path: p}
		set, err := r.Load(p)
		if err != nil {
			res.Err = err
		} else {
			res.Title = set.Passage.Title
			res.Questions = len(set.Questions)
		}
		results = append(results, res)
	}
	return results, nil
}
