package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// fileFilter decides which files a directory walk picks up.
type fileFilter struct {
	exts    map[string]struct{}
	exclude []string
}

func newFileFilter(extensions, exclude []string) fileFilter {
	f := fileFilter{exts: make(map[string]struct{}, len(extensions)), exclude: exclude}
	for _, ext := range extensions {
		f.exts[strings.ToLower(ext)] = struct{}{}
	}
	return f
}

func (f fileFilter) matchesExt(path string) bool {
	_, ok := f.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// excluded reports whether rel (slash separated, relative to the walk root)
// matches one of the exclude globs, either as a whole or by its base name.
func (f fileFilter) excluded(rel string) bool {
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, pattern := range f.exclude {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// accepts is the full check used for files found while walking or watching.
func (f fileFilter) accepts(root, path string) bool {
	if !f.matchesExt(path) {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return !f.excluded(filepath.ToSlash(rel))
}

// collectSourceFiles expands paths into a sorted, de-duplicated file list.
// Files named explicitly are always kept, whatever their extension; paths that
// cannot be stat'ed are kept too so the failure is reported per file.
func collectSourceFiles(ctx context.Context, paths []string, filter fileFilter) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			addFile(p)
			continue
		}

		root := p
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if path == root {
				return nil
			}
			if d.IsDir() {
				rel, relErr := filepath.Rel(root, path)
				if relErr == nil && filter.excluded(filepath.ToSlash(rel)) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && filter.accepts(root, path) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
