package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/swiftcx/pkg/config"
	"github.com/panbanda/swiftcx/pkg/parser"
)

// ErrNoSwiftFiles is returned by Collect when no input produced a file.
var ErrNoSwiftFiles = errors.New("no Swift files found")

// PathError indicates an input path that does not exist or cannot be read.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan directory " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Scanner finds Swift source files under the given inputs.
type Scanner struct {
	config      *config.Config
	recursive   bool
	maxFileSize int64
	exprs       []string
	regex       []*regexp.Regexp
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithRecursive descends into subdirectories. Without it only the files
// directly inside a directory input are collected.
func WithRecursive(recursive bool) Option {
	return func(s *Scanner) {
		s.recursive = recursive
	}
}

// WithExcludeRegex adds regular expressions matched against each file path.
// Matching files are dropped.
func WithExcludeRegex(exprs ...string) Option {
	return func(s *Scanner) {
		s.exprs = append(s.exprs, exprs...)
	}
}

// WithMaxFileSize drops files larger than maxSize bytes. 0 disables the limit.
func WithMaxFileSize(maxSize int64) Option {
	return func(s *Scanner) {
		s.maxFileSize = maxSize
	}
}

// NewScanner creates a new file scanner. Recursion, size limit and regex
// exclusions start from cfg and can be overridden with options.
func NewScanner(cfg *config.Config, opts ...Option) (*Scanner, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Scanner{
		config:      cfg,
		recursive:   cfg.Analysis.Recursive,
		maxFileSize: cfg.Analysis.MaxFileSize,
		exprs:       append([]string(nil), cfg.Exclude.Regex...),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, expr := range s.exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}
		s.regex = append(s.regex, re)
	}
	return s, nil
}

// Collect resolves paths into a sorted, de-duplicated list of absolute
// Swift file paths. Explicit files are kept only when they end in .swift.
func (s *Scanner) Collect(paths []string) ([]string, error) {
	seen := make(map[string]struct{})

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, &PathError{Path: p, Err: err}
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, &PathError{Path: p, Err: err}
		}

		var found []string
		if info.IsDir() {
			found, err = s.ScanDir(abs)
			if err != nil {
				return nil, &ScanError{Path: p, Err: err}
			}
		} else if parser.IsSwiftFile(abs) {
			found = []string{abs}
		}

		for _, f := range found {
			if s.matchesRegex(f) {
				continue
			}
			seen[f] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)

	files, _ = FilterBySize(files, s.maxFileSize)
	if len(files) == 0 {
		return nil, ErrNoSwiftFiles
	}
	return files, nil
}

func (s *Scanner) matchesRegex(path string) bool {
	for _, re := range s.regex {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// gitignoreMatcher reads every .gitignore below the repository containing
// root. The returned matcher expects paths relative to gitRoot.
func (s *Scanner) gitignoreMatcher(root string) (m gitignore.Matcher, gitRoot string) {
	if !s.config.Exclude.Gitignore {
		return nil, ""
	}
	gitRoot = findGitRoot(root)
	if gitRoot == "" {
		return nil, ""
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil)
	if err != nil || len(patterns) == 0 {
		return nil, ""
	}
	return gitignore.NewMatcher(patterns), gitRoot
}

// ScanDir scans a directory for Swift files, one level deep unless the
// scanner is recursive. Paths that escape root through symlinks are skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	matcher, gitRoot := s.gitignoreMatcher(absRoot)
	ignored := func(path string, isDir bool) bool {
		if matcher == nil {
			return false
		}
		rel, err := filepath.Rel(gitRoot, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return false
		}
		return matcher.Match(strings.Split(rel, string(filepath.Separator)), isDir)
	}

	files := make([]string, 0, 64)
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			return nil
		}
		if path == absRoot {
			return nil
		}

		relPath, _ := filepath.Rel(absRoot, path)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
			info, err := os.Stat(resolved)
			if err != nil || info.IsDir() {
				// Linked directories are not followed.
				return nil
			}
		}

		if d.IsDir() {
			if !s.recursive || s.config.ShouldExclude(relPath) || ignored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !parser.IsSwiftFile(path) || s.config.ShouldExclude(relPath) || ignored(path, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, walkErr
}

// isWithinRoot checks if a path is contained within the root directory.
// Returns false if the path escapes via symlinks or relative paths.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	// Add separator to prevent "/root2" matching "/root"
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// FilterBySize filters files that exceed maxSize bytes.
// Returns the filtered list and the count of files that were skipped.
// If maxSize is 0, returns the original list unchanged.
func FilterBySize(files []string, maxSize int64) ([]string, int) {
	if maxSize <= 0 {
		return files, 0
	}

	filtered := make([]string, 0, len(files))
	skipped := 0

	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || info.Size() > maxSize {
			skipped++
			continue
		}
		filtered = append(filtered, f)
	}

	return filtered, skipped
}
