package app

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// testFileMarkers identify Python test files and package init files that are
// skipped unless test inclusion is requested
var testFileMarkers = []string{
	"test_",
	"_test.",
	"tests_",
	"_tests.",
	"conftest.py",
	"__init__.py",
}

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectPythonFiles collects Python files from paths
func (h *FileHelper) CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	include := compileMatcher(includePatterns)
	exclude := compileMatcher(excludePatterns)

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			// Explicitly named files bypass the include patterns
			if h.isPythonFile(path) && !matches(exclude, path) {
				files = append(files, path)
			}
			continue
		}

		// Directory handling
		if recursive {
			err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}

				// Skip excluded directories early
				if info.IsDir() {
					dirName := filepath.Base(filePath)
					for _, pattern := range excludePatterns {
						if pattern == dirName {
							return filepath.SkipDir
						}
						if matched, _ := filepath.Match(pattern, dirName); matched {
							return filepath.SkipDir
						}
					}
					return nil
				}

				if h.keep(filePath, include, exclude) {
					files = append(files, filePath)
				}

				return nil
			})
		} else {
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, err
			}

			for _, entry := range entries {
				if !entry.IsDir() {
					filePath := filepath.Join(path, entry.Name())
					if h.keep(filePath, include, exclude) {
						files = append(files, filePath)
					}
				}
			}
		}

		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// keep decides whether a discovered file belongs in the result set
func (h *FileHelper) keep(path string, include, exclude *gitignore.GitIgnore) bool {
	if !h.isPythonFile(path) {
		return false
	}
	if include != nil && !matches(include, path) {
		return false
	}
	return !matches(exclude, path)
}

// IsValidPythonFile checks if a file is a valid Python file
func (h *FileHelper) IsValidPythonFile(path string) bool {
	return h.isPythonFile(path)
}

// IsTestFile reports whether the file looks like a Python test module or a
// package init file
func (h *FileHelper) IsTestFile(path string) bool {
	base := filepath.Base(path)
	for _, marker := range testFileMarkers {
		if strings.Contains(base, marker) {
			return true
		}
	}
	return false
}

// FilterTestFiles removes test modules and package init files
func (h *FileHelper) FilterTestFiles(paths []string) []string {
	filtered := make([]string, 0, len(paths))
	for _, path := range paths {
		if !h.IsTestFile(path) {
			filtered = append(filtered, path)
		}
	}
	return filtered
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// isPythonFile checks if a file is Python based on extension
func (h *FileHelper) isPythonFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".py" || ext == ".pyi"
}

// compileMatcher builds a gitignore-style matcher from patterns, nil when
// there are none
func compileMatcher(patterns []string) *gitignore.GitIgnore {
	if len(patterns) == 0 {
		return nil
	}
	return gitignore.CompileIgnoreLines(patterns...)
}

func matches(matcher *gitignore.GitIgnore, path string) bool {
	return matcher != nil && matcher.MatchesPath(path)
}

// ResolveFilePaths resolves file paths, returning existing files directly
// or collecting files from directories
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	// Check if all paths are already files
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	// If all paths are already files, no need to collect again
	if allFiles {
		return paths, nil
	}

	// Collect files from directories
	return fileHelper.CollectPythonFiles(paths, recursive, includePatterns, excludePatterns)
}
