// Package scanner discovers the HTML files of a built site.
//
// Discovery is a plain recursive walk of the build output directory,
// honoring exclusion patterns. Order is the lexical walk order, so a
// given build always yields the same file sequence.
package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	siteerrors "github.com/masande/siteindex/internal/errors"
)

// List returns the relative paths of all .html files under root,
// excluding any path matched by the exclude patterns. Patterns match
// against the file base name or the root-relative slash path, with
// "**/" and trailing "/**" supported.
func List(ctx context.Context, root string, exclude []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrCodeWalkFailed, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrCodeWalkFailed, err)
	}
	if !info.IsDir() {
		return nil, siteerrors.New(siteerrors.ErrCodeWalkFailed,
			"root path is not a directory: "+absRoot, nil)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// Unreadable entries are skipped, not fatal.
			slog.Warn("skipping unreadable path",
				slog.String("path", path),
				slog.String("error", walkErr.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matchesAny(rel, exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}
		if matchesAny(rel, exclude) {
			slog.Debug("excluding file", slog.String("path", rel))
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrCodeWalkFailed, err)
	}

	return files, nil
}

// matchesAny reports whether relPath matches any exclusion pattern.
func matchesAny(relPath string, patterns []string) bool {
	baseName := filepath.Base(relPath)
	for _, pattern := range patterns {
		if matchPattern(baseName, relPath, pattern) {
			return true
		}
	}
	return false
}

// matchPattern matches one pattern against a base name and a
// root-relative slash path.
func matchPattern(baseName, relPath, pattern string) bool {
	pattern = filepath.ToSlash(pattern)

	// dir/** matches everything under dir.
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok && !strings.HasPrefix(pattern, "**/") {
		return relPath == prefix || strings.HasPrefix(relPath, prefix+"/")
	}

	// **/name matches the suffix anywhere in the tree.
	if suffix, ok := strings.CutPrefix(pattern, "**/"); ok {
		if matched, err := filepath.Match(suffix, baseName); err == nil && matched {
			return true
		}
		for _, part := range strings.Split(relPath, "/") {
			if matched, err := filepath.Match(suffix, part); err == nil && matched {
				return true
			}
		}
		return false
	}

	// Patterns with a directory component match the relative path.
	if strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, relPath)
		return err == nil && matched
	}

	// Bare patterns match the base name or any path segment.
	if matched, err := filepath.Match(pattern, baseName); err == nil && matched {
		return true
	}
	for _, part := range strings.Split(relPath, "/") {
		if matched, err := filepath.Match(pattern, part); err == nil && matched {
			return true
		}
	}
	return false
}
