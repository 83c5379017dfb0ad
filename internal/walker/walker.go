package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"transcheck/internal/hash"
	"transcheck/internal/progress"
)

// FileInfo is a translation file found under a language folder.
// Path is relative to the root and slash-separated, for example "de/common.json".
type FileInfo struct {
	Language string
	Path     string
	AbsPath  string
	Size     int64
}

// WalkResult lists the discovered languages and files. Errors holds paths that
// could not be listed; each names its language so that language can be marked
// unavailable instead of silently losing keys.
type WalkResult struct {
	Languages []string
	Files     []FileInfo
	Errors    []*FileError
}

// Walk treats every top-level directory of rootPath as a language and collects
// the *.json files beneath it. Languages and files are returned sorted.
func Walk(rootPath string, exclusions []string) (*WalkResult, error) {
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read root directory: %w", err)
	}

	result := &WalkResult{
		Languages: make([]string, 0),
		Files:     make([]FileInfo, 0),
		Errors:    make([]*FileError, 0),
	}

	for _, entry := range entries {
		if !entry.IsDir() || shouldExclude(entry.Name(), entry, exclusions) {
			continue
		}

		code := entry.Name()
		if _, err := language.Parse(strings.ReplaceAll(code, "_", "-")); err != nil {
			log.Warn().Str("sys", "walker").Str("language", code).Msg("Folder name is not a BCP 47 language tag")
		}
		result.Languages = append(result.Languages, code)

		v := &languageVisitor{
			root:       rootPath,
			langRoot:   filepath.Join(rootPath, code),
			language:   code,
			exclusions: exclusions,
			result:     result,
		}
		if err := filepath.WalkDir(v.langRoot, v.visit); err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", code, err)
		}
	}

	sort.Strings(result.Languages)
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	return result, nil
}

// languageVisitor collects the files of one language folder.
type languageVisitor struct {
	root       string
	langRoot   string
	language   string
	exclusions []string
	result     *WalkResult
}

func (v *languageVisitor) fail(path string, err error) {
	rel := path
	if r, relErr := filepath.Rel(v.root, path); relErr == nil {
		rel = filepath.ToSlash(r)
	}
	v.result.Errors = append(v.result.Errors, &FileError{Language: v.language, Path: rel, Err: err})
}

func (v *languageVisitor) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		// Keep walking; the language is reported unavailable later
		v.fail(path, err)
		if d != nil && d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}

	relPath, err := filepath.Rel(v.root, path)
	if err != nil {
		v.fail(path, err)
		return nil
	}

	if path != v.langRoot && shouldExclude(relPath, d, v.exclusions) {
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}

	if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil
	}

	info, err := d.Info()
	if err != nil {
		v.fail(path, err)
		return nil
	}

	v.result.Files = append(v.result.Files, FileInfo{
		Language: v.language,
		Path:     filepath.ToSlash(relPath),
		AbsPath:  path,
		Size:     info.Size(),
	})
	return nil
}

func shouldExclude(relPath string, d fs.DirEntry, exclusions []string) bool {
	for _, pattern := range exclusions {
		// Handle directory exclusions (patterns ending with /)
		if strings.HasSuffix(pattern, "/") {
			dirPath := relPath
			if !d.IsDir() {
				dirPath = filepath.Dir(relPath)
			}
			dirPattern := strings.TrimSuffix(pattern, "/")
			for _, part := range strings.Split(dirPath, string(filepath.Separator)) {
				if matched, _ := filepath.Match(dirPattern, part); matched || part == dirPattern {
					return true
				}
			}
			continue
		}

		if matched, err := filepath.Match(pattern, filepath.Base(relPath)); err == nil && matched {
			return true
		}
		// Also try matching against the full relative path for patterns with /
		if strings.Contains(pattern, "/") {
			if matched, err := filepath.Match(pattern, filepath.ToSlash(relPath)); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// SourceFile is a translation file with its contents loaded.
type SourceFile struct {
	Language string
	Path     string
	Data     []byte
	Checksum string
}

// FileError is a file or directory that could not be listed or read.
type FileError struct {
	Language string
	Path     string
	Err      error
}

// Error reports the path and the cause.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *FileError) Unwrap() error {
	return e.Err
}

// ReadResult holds the loaded files and the ones that failed, in input order.
type ReadResult struct {
	Sources []SourceFile
	Errors  []*FileError
}

// ReadFiles loads files with numWorkers goroutines. Unreadable files are
// reported in Errors and do not stop the others. Output keeps the input order.
func ReadFiles(files []FileInfo, numWorkers int, progressBar *progress.Bar) *ReadResult {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	sources := make([]*SourceFile, len(files))
	errs := make([]*FileError, len(files))

	var g errgroup.Group
	g.SetLimit(numWorkers)
	for i, f := range files {
		i, f := i, f // per-iteration copies for Go 1.21 loop semantics
		g.Go(func() error {
			data, err := os.ReadFile(f.AbsPath)
			if err != nil {
				errs[i] = &FileError{Language: f.Language, Path: f.Path, Err: err}
			} else {
				sources[i] = &SourceFile{
					Language: f.Language,
					Path:     f.Path,
					Data:     data,
					Checksum: hash.Sum(data),
				}
			}

			if progressBar != nil {
				progressBar.SetLanguage(f.Language)
				progressBar.Increment()
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &ReadResult{
		Sources: make([]SourceFile, 0, len(files)),
		Errors:  make([]*FileError, 0),
	}
	for i := range files {
		if errs[i] != nil {
			result.Errors = append(result.Errors, errs[i])
			continue
		}
		result.Sources = append(result.Sources, *sources[i])
	}

	return result
}
