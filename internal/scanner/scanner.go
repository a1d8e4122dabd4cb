// Package scanner expands command-line paths into the Java and Go files
// varscope can analyze.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/varscope/pkg/config"
	"github.com/panbanda/varscope/pkg/parser"
)

// Scanner finds source files in a directory.
type Scanner struct {
	config   *config.Config
	matchers []gitignore.Matcher
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot returns the closest ancestor of start holding a .git
// directory, or "".
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadGitignore reads every .gitignore of the repository containing root.
// Patterns are relative to the repository root, so the matcher is kept
// together with it.
func (s *Scanner) loadGitignore(root string) (gitignore.Matcher, string) {
	if !s.config.Exclude.Gitignore {
		return nil, ""
	}
	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return nil, ""
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil)
	if err != nil || len(patterns) == 0 {
		return nil, ""
	}
	return gitignore.NewMatcher(patterns), gitRoot
}

func (s *Scanner) ignored(m gitignore.Matcher, gitRoot, path string, isDir bool) bool {
	if m == nil {
		return false
	}
	rel, err := filepath.Rel(gitRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return m.Match(strings.Split(rel, string(filepath.Separator)), isDir)
}

// ScanDir recursively scans a directory for supported source files that
// are not excluded by the configuration or .gitignore. Symlinks that
// resolve outside root are skipped. Files are returned sorted.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	matcher, gitRoot := s.loadGitignore(absRoot)
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, realRoot) {
				return nil
			}
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(root, path)

		if d.IsDir() {
			if path != root && (s.excludedDir(d.Name()) || s.ignored(matcher, gitRoot, abs, true)) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.config.ShouldExclude(rel) || s.ignored(matcher, gitRoot, abs, false) {
			return nil
		}
		if parser.Supported(path) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, walkErr
}

func (s *Scanner) excludedDir(name string) bool {
	for _, dir := range s.config.Exclude.Dirs {
		if name == dir {
			return true
		}
	}
	return false
}

// isWithinRoot reports whether path lies inside root.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// Expand replaces every directory in paths with the files ScanDir finds
// in it. Files named explicitly are kept even when excluded, but must be
// in a supported language.
func (s *Scanner) Expand(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !parser.Supported(path) {
				return nil, fmt.Errorf("%s: unsupported language", path)
			}
			files = append(files, path)
			continue
		}
		found, err := s.ScanDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}
