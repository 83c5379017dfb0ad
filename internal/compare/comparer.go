package compare

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"transcheck/internal/index"
	"transcheck/internal/variables"
)

// Matrix records which languages define each key. Languages and Keys are sorted.
type Matrix struct {
	Languages []*index.Index
	Keys      []string
	present   map[string][]bool
}

// NewMatrix builds the key x language presence matrix over the union of all keys.
func NewMatrix(indexes []*index.Index) *Matrix {
	langs := make([]*index.Index, len(indexes))
	copy(langs, indexes)
	sort.Slice(langs, func(i, j int) bool {
		return langs[i].Language < langs[j].Language
	})

	m := &Matrix{
		Languages: langs,
		present:   make(map[string][]bool),
	}

	for col, ix := range langs {
		for key := range ix.Entries {
			row, ok := m.present[key]
			if !ok {
				row = make([]bool, len(langs))
				m.present[key] = row
				m.Keys = append(m.Keys, key)
			}
			row[col] = true
		}
	}
	sort.Strings(m.Keys)

	return m
}

// Has reports whether the language in column col defines key.
func (m *Matrix) Has(key string, col int) bool {
	row, ok := m.present[key]
	return ok && row[col]
}

// Holders returns the columns defining key, in language order.
func (m *Matrix) Holders(key string) []int {
	var cols []int
	for col, ok := range m.present[key] {
		if ok {
			cols = append(cols, col)
		}
	}
	return cols
}

// collector is the only state shared between comparison workers.
type collector struct {
	mu       sync.Mutex
	findings []Finding
}

func (c *collector) add(findings ...Finding) {
	if len(findings) == 0 {
		return
	}
	c.mu.Lock()
	c.findings = append(c.findings, findings...)
	c.mu.Unlock()
}

// Compare classifies every cell of the presence matrix once and returns the
// findings sorted by language, kind and key. The baseline for extra keys is the
// alphabetically first language; the reference for missing keys and variable
// sets is the alphabetically first language defining the key.
func Compare(indexes []*index.Index, workers int) []Finding {
	if workers <= 0 {
		workers = 1
	}

	m := NewMatrix(indexes)
	if len(m.Languages) < 2 || len(m.Keys) == 0 {
		return []Finding{}
	}

	c := &collector{}

	chunk := (len(m.Keys) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(m.Keys); start += chunk {
		keys := m.Keys[start:min(start+chunk, len(m.Keys))]
		g.Go(func() error {
			for _, key := range keys {
				c.add(m.classify(key)...)
			}
			return nil
		})
	}
	_ = g.Wait()

	if c.findings == nil {
		return []Finding{}
	}
	Sort(c.findings)
	return c.findings
}

func (m *Matrix) classify(key string) []Finding {
	holders := m.Holders(key)
	if len(holders) == 0 {
		return nil
	}

	var findings []Finding

	ref := m.Languages[holders[0]]
	refLeaf := ref.Entries[key]

	for col, ix := range m.Languages {
		if m.Has(key, col) {
			continue
		}
		findings = append(findings, Finding{
			Kind:              MissingKey,
			Key:               key,
			Language:          ix.Language,
			ReferenceLanguage: ref.Language,
			ReferenceFile:     refLeaf.SourceFile,
		})
	}

	if !m.Has(key, 0) {
		for _, col := range holders {
			ix := m.Languages[col]
			findings = append(findings, Finding{
				Kind:     ExtraKey,
				Key:      key,
				Language: ix.Language,
				File:     ix.Entries[key].SourceFile,
			})
		}
	}

	if len(holders) < 2 {
		return findings
	}

	// Array contents are only checked for presence.
	if refLeaf.Array {
		return findings
	}

	refVars := variables.Extract(refLeaf.Value)
	for _, col := range holders[1:] {
		ix := m.Languages[col]
		leaf := ix.Entries[key]
		if leaf.Array {
			continue
		}
		vars := variables.Extract(leaf.Value)
		if vars.Equal(refVars) {
			continue
		}
		findings = append(findings, Finding{
			Kind:               VariableMismatch,
			Key:                key,
			Language:           ix.Language,
			File:               leaf.SourceFile,
			Variables:          vars.Sorted(),
			ReferenceLanguage:  ref.Language,
			ReferenceFile:      refLeaf.SourceFile,
			ReferenceVariables: refVars.Sorted(),
		})
	}

	return findings
}
