// Package check wires the consistency pipeline: loaded files are indexed per
// language, available languages are compared, and everything lands in one report.
package check

import (
	"errors"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"transcheck/internal/compare"
	"transcheck/internal/index"
	"transcheck/internal/report"
	"transcheck/internal/walker"
)

// Input is everything the file layer hands to the pipeline.
type Input struct {
	// Languages lists every discovered language folder, including empty ones.
	Languages []string
	Sources   []walker.SourceFile
	Failures  []*walker.FileError
}

// Run always returns a complete report. A language with an unreadable or
// malformed file is reported unavailable and left out of the comparison.
func Run(in Input, workers int) *report.Report {
	if workers <= 0 {
		workers = 1
	}
	logger := log.With().Str("sys", "check").Logger()

	files := make(map[string][]index.File)
	for _, code := range in.Languages {
		files[code] = nil
	}
	for _, src := range in.Sources {
		files[src.Language] = append(files[src.Language], index.File{Path: src.Path, Data: src.Data})
		logger.Debug().Str("file", src.Path).Str("xxhash", src.Checksum).Msg("Loaded translation file")
	}

	failures := make(map[string][]error)
	for _, f := range in.Failures {
		failures[f.Language] = append(failures[f.Language], f)
		if _, ok := files[f.Language]; !ok {
			files[f.Language] = nil
		}
	}

	languages := make([]string, 0, len(files))
	for code := range files {
		languages = append(languages, code)
	}
	sort.Strings(languages)

	agg := report.NewAggregator()
	indexes := make([]*index.Index, len(languages))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, code := range languages {
		i, code := i, code // per-iteration copies for Go 1.21 loop semantics
		g.Go(func() error {
			if errs := failures[code]; len(errs) > 0 {
				err := errors.Join(errs...)
				logger.Error().Err(err).Str("language", code).Msg("Language unavailable: unreadable files")
				agg.AddUnavailable(code, len(files[code])+len(errs), err)
				return nil
			}

			ix, err := index.Build(code, files[code], workers)
			if err != nil {
				logger.Error().Err(err).Str("language", code).Msg("Language unavailable: malformed files")
				agg.AddUnavailable(code, len(files[code]), err)
				return nil
			}

			for _, d := range ix.Duplicates {
				logger.Warn().
					Str("language", d.Language).
					Str("key", d.Key).
					Str("previous_file", d.PreviousFile).
					Str("file", d.File).
					Msg("Duplicate key within language, later file wins")
			}

			indexes[i] = ix
			agg.AddIndex(ix)
			return nil
		})
	}
	_ = g.Wait()

	available := make([]*index.Index, 0, len(indexes))
	for _, ix := range indexes {
		if ix != nil {
			available = append(available, ix)
		}
	}

	agg.AddFindings(compare.Compare(available, workers)...)

	return agg.Report()
}
