package index

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"transcheck/internal/flatten"
)

// File is one translation file belonging to a language.
type File struct {
	Path string
	Data []byte
}

// DuplicateKey records a key defined more than once within a language.
// The entry from File replaced the one from PreviousFile.
type DuplicateKey struct {
	Language     string `json:"language"`
	Key          string `json:"key"`
	PreviousFile string `json:"previous_file"`
	File         string `json:"file"`
}

// Index is the merged, flat view of every file of one language.
// It is read-only once Build returns.
type Index struct {
	Language   string
	Entries    map[string]flatten.Leaf
	Files      []string
	Duplicates []DuplicateKey
}

// Build flattens files concurrently and merges them in path order, so a key
// defined in several files resolves to the lexicographically last file.
// Any malformed file fails the whole language; all parse errors are joined in path order.
func Build(language string, files []File, workers int) (*Index, error) {
	if workers <= 0 {
		workers = 1
	}

	sorted := make([]File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	results := make([][]flatten.Pair, len(sorted))
	errs := make([]error, len(sorted))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, f := range sorted {
		i, f := i, f // per-iteration copies for Go 1.21 loop semantics
		g.Go(func() error {
			results[i], errs[i] = flatten.Document(f.Data, f.Path)
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("language %s: %w", language, err)
	}

	ix := &Index{
		Language: language,
		Entries:  make(map[string]flatten.Leaf),
		Files:    make([]string, 0, len(sorted)),
	}

	for i, pairs := range results {
		ix.Files = append(ix.Files, sorted[i].Path)
		for _, p := range pairs {
			if prev, exists := ix.Entries[p.Key]; exists {
				ix.Duplicates = append(ix.Duplicates, DuplicateKey{
					Language:     language,
					Key:          p.Key,
					PreviousFile: prev.SourceFile,
					File:         p.Leaf.SourceFile,
				})
			}
			ix.Entries[p.Key] = p.Leaf
		}
	}

	return ix, nil
}

// Lookup returns the leaf for key.
func (ix *Index) Lookup(key string) (flatten.Leaf, bool) {
	leaf, ok := ix.Entries[key]
	return leaf, ok
}

// Keys returns all keys in ascending order.
func (ix *Index) Keys() []string {
	keys := make([]string, 0, len(ix.Entries))
	for k := range ix.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
