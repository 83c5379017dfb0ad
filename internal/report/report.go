package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"transcheck/internal/compare"
	"transcheck/internal/index"
)

// LanguageUnavailable marks a language excluded from comparison because its
// index could not be built.
type LanguageUnavailable struct {
	Language string
	Cause    error
}

// Error names the language and the cause.
func (u LanguageUnavailable) Error() string {
	return fmt.Sprintf("language %s unavailable: %v", u.Language, u.Cause)
}

// Unwrap returns the cause.
func (u LanguageUnavailable) Unwrap() error {
	return u.Cause
}

// MarshalJSON encodes the cause as its message.
func (u LanguageUnavailable) MarshalJSON() ([]byte, error) {
	cause := ""
	if u.Cause != nil {
		cause = u.Cause.Error()
	}
	return json.Marshal(struct {
		Language string `json:"language"`
		Error    string `json:"error"`
	}{u.Language, cause})
}

// Counts summarises the findings reported on one language.
type Counts struct {
	Language         string `json:"language"`
	Files            int    `json:"files"`
	Keys             int    `json:"keys"`
	Missing          int    `json:"missing"`
	Extra            int    `json:"extra"`
	VariableMismatch int    `json:"variable_mismatch"`
	Unavailable      bool   `json:"unavailable,omitempty"`
}

// Issues returns the number of findings on the language.
func (c Counts) Issues() int {
	return c.Missing + c.Extra + c.VariableMismatch
}

// Report is the ordered outcome of one run.
type Report struct {
	Languages   []Counts              `json:"languages"`
	Files       int                   `json:"files"`
	Findings    []compare.Finding     `json:"findings"`
	Unavailable []LanguageUnavailable `json:"unavailable"`
	Duplicates  []index.DuplicateKey  `json:"duplicates,omitempty"`
	HasIssues   bool                  `json:"has_issues"`
	Digest      string                `json:"digest"`
}

// ForLanguage returns the findings reported on language, in report order.
func (r *Report) ForLanguage(language string) []compare.Finding {
	var out []compare.Finding
	for _, f := range r.Findings {
		if f.Language == language {
			out = append(out, f)
		}
	}
	return out
}

// ImpactedLanguages returns the languages with findings or that were unavailable.
func (r *Report) ImpactedLanguages() []string {
	var langs []string
	for _, c := range r.Languages {
		if c.Unavailable || c.Issues() > 0 {
			langs = append(langs, c.Language)
		}
	}
	return langs
}

// ImpactedFiles returns every file named by a finding, sorted.
func (r *Report) ImpactedFiles() []string {
	seen := make(map[string]struct{})
	for _, f := range r.Findings {
		for _, file := range []string{f.File, f.ReferenceFile} {
			if file != "" {
				seen[file] = struct{}{}
			}
		}
	}

	files := make([]string, 0, len(seen))
	for file := range seen {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// Aggregator collects indexes, unavailable languages and findings from
// concurrent producers and orders them once in Report.
type Aggregator struct {
	mu          sync.Mutex
	counts      map[string]*Counts
	files       int
	findings    []compare.Finding
	unavailable []LanguageUnavailable
	duplicates  []index.DuplicateKey
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{counts: make(map[string]*Counts)}
}

func (a *Aggregator) language(code string) *Counts {
	c, ok := a.counts[code]
	if !ok {
		c = &Counts{Language: code}
		a.counts[code] = c
	}
	return c
}

// AddIndex records a successfully built language.
func (a *Aggregator) AddIndex(ix *index.Index) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c := a.language(ix.Language)
	c.Files = len(ix.Files)
	c.Keys = len(ix.Entries)
	a.files += len(ix.Files)
	a.duplicates = append(a.duplicates, ix.Duplicates...)
}

// AddUnavailable records a language that could not be indexed.
// files is the number of files discovered for it.
func (a *Aggregator) AddUnavailable(language string, files int, cause error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c := a.language(language)
	c.Files = files
	c.Unavailable = true
	a.files += files
	a.unavailable = append(a.unavailable, LanguageUnavailable{Language: language, Cause: cause})
}

// AddFindings appends comparator output.
func (a *Aggregator) AddFindings(findings ...compare.Finding) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.findings = append(a.findings, findings...)
}

// Report orders everything collected so far: findings by language, kind and key;
// unavailable languages and duplicates by language then key.
func (a *Aggregator) Report() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	findings := make([]compare.Finding, len(a.findings))
	copy(findings, a.findings)
	compare.Sort(findings)

	unavailable := make([]LanguageUnavailable, len(a.unavailable))
	copy(unavailable, a.unavailable)
	sort.Slice(unavailable, func(i, j int) bool {
		return unavailable[i].Language < unavailable[j].Language
	})

	duplicates := make([]index.DuplicateKey, len(a.duplicates))
	copy(duplicates, a.duplicates)
	sort.SliceStable(duplicates, func(i, j int) bool {
		if duplicates[i].Language != duplicates[j].Language {
			return duplicates[i].Language < duplicates[j].Language
		}
		return duplicates[i].Key < duplicates[j].Key
	})

	counts := make(map[string]Counts, len(a.counts))
	for code, c := range a.counts {
		counts[code] = *c
	}
	for _, f := range findings {
		c := counts[f.Language]
		c.Language = f.Language
		switch f.Kind {
		case compare.MissingKey:
			c.Missing++
		case compare.ExtraKey:
			c.Extra++
		case compare.VariableMismatch:
			c.VariableMismatch++
		}
		counts[f.Language] = c
	}

	languages := make([]Counts, 0, len(counts))
	for _, c := range counts {
		languages = append(languages, c)
	}
	sort.Slice(languages, func(i, j int) bool {
		return languages[i].Language < languages[j].Language
	})

	r := &Report{
		Languages:   languages,
		Files:       a.files,
		Findings:    findings,
		Unavailable: unavailable,
		Duplicates:  duplicates,
		HasIssues:   len(findings) > 0 || len(unavailable) > 0,
	}
	r.Digest = Digest(r)

	return r
}
