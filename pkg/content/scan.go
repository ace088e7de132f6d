// Package content expands a document's content globs against the project tree.
package content

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"
)

// Match is the expansion of one content pattern.
type Match struct {
	// Pattern as written in the document.
	Pattern string

	// Exclude is set for patterns prefixed with "!".
	Exclude bool

	// Files matched by the pattern, slash-separated and relative to the root.
	// Files above the root keep their "../" prefix, unless they are on another volume.
	Files []string
}

// Result of a Scan.
type Result struct {
	// Matches has one entry per pattern, in document order.
	Matches []Match

	// Files is the sorted set of files matched by any pattern and not excluded.
	Files []string
}

// Unmatched returns the include patterns that matched no file.
func (r Result) Unmatched() []string {
	var out []string
	for _, m := range r.Matches {
		if !m.Exclude && len(m.Files) == 0 {
			out = append(out, m.Pattern)
		}
	}
	return out
}

// Scan expands patterns under root concurrently. Patterns may point above root
// or be absolute, as Tailwind allows.
func Scan(ctx context.Context, root string, patterns []string) (Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Result{}, oops.In("content").With("root", root).Wrapf(err, "failed to resolve root")
	}

	matches := make([]Match, len(patterns))

	g, ctx := errgroup.WithContext(ctx)
	for i, pattern := range patterns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err //nolint:wrapcheck
			}

			t, exclude, err := resolve(absRoot, pattern)
			if err != nil {
				return err
			}

			files, err := doublestar.Glob(os.DirFS(t.base), t.glob, doublestar.WithFilesOnly())
			if err != nil {
				return oops.In("content").With("pattern", pattern).With("root", root).Wrapf(err, "failed to expand %q", pattern)
			}
			for j, file := range files {
				files[j] = path.Join(t.prefix, file)
			}
			slices.Sort(files)

			matches[i] = Match{Pattern: pattern, Exclude: exclude, Files: files}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err //nolint:wrapcheck
	}

	excluded := make(map[string]struct{})
	for _, m := range matches {
		if m.Exclude {
			for _, file := range m.Files {
				excluded[file] = struct{}{}
			}
		}
	}

	var files []string
	for _, m := range matches {
		if m.Exclude {
			continue
		}
		for _, file := range m.Files {
			if _, ok := excluded[file]; !ok {
				files = append(files, file)
			}
		}
	}
	files = lo.Uniq(files)
	slices.Sort(files)

	return Result{Matches: matches, Files: files}, nil
}

// target is a glob over the directory base. Matches are reported as prefix/<match>.
type target struct {
	base   string
	glob   string
	prefix string
}

// resolve turns a document pattern into a glob over the deepest directory
// without meta characters.
func resolve(absRoot string, pattern string) (target, bool, error) {
	glob, exclude := strings.CutPrefix(pattern, "!")
	glob = path.Clean(strings.ReplaceAll(glob, "\\", "/"))

	if !doublestar.ValidatePattern(glob) {
		return target{}, false, oops.
			In("content").
			Code("invalid_pattern").
			With("pattern", pattern).
			Errorf("invalid pattern %q", pattern)
	}

	if !path.IsAbs(glob) && !filepath.IsAbs(glob) && glob != ".." && !strings.HasPrefix(glob, "../") {
		return target{base: absRoot, glob: glob}, exclude, nil
	}

	full := filepath.FromSlash(glob)
	if !filepath.IsAbs(full) {
		full = filepath.Join(absRoot, full)
	}

	base, rest := doublestar.SplitPattern(filepath.ToSlash(full))
	t := target{base: filepath.FromSlash(base), glob: rest, prefix: base}
	if rel, err := filepath.Rel(absRoot, t.base); err == nil {
		t.prefix = filepath.ToSlash(rel)
	}

	return t, exclude, nil
}
