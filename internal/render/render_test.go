package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcheck/internal/compare"
	"transcheck/internal/flatten"
	"transcheck/internal/index"
	"transcheck/internal/report"
)

func sampleReport() *report.Report {
	a := report.NewAggregator()
	for _, code := range []string{"de", "fr"} {
		a.AddIndex(&index.Index{
			Language: code,
			Entries:  map[string]flatten.Leaf{"k": {Value: "v", SourceFile: code + "/app.json"}},
			Files:    []string{code + "/app.json"},
		})
	}
	a.AddUnavailable("nl", 1, errors.New("nl/app.json: malformed document: invalid JSON"))
	a.AddFindings(
		compare.Finding{Kind: compare.MissingKey, Key: "common.greeting", Language: "fr",
			ReferenceLanguage: "de", ReferenceFile: "de/app.json"},
		compare.Finding{Kind: compare.VariableMismatch, Key: "messages.welcome", Language: "fr", File: "fr/app.json",
			Variables: []string{"name"}, ReferenceLanguage: "de", ReferenceFile: "de/app.json",
			ReferenceVariables: []string{"username"}},
	)
	return a.Report()
}

func TestText_Plain(t *testing.T) {
	var buf bytes.Buffer
	Text(&buf, sampleReport(), false)
	out := buf.String()

	assert.NotContains(t, out, "\x1b[", "plain output must not contain escape codes")
	assert.Contains(t, out, "3 language folders found.")
	assert.Contains(t, out, "🔍 Checking DE (German)")
	assert.Contains(t, out, "🔍 Checking FR (French)")
	assert.Contains(t, out, "   - Key: common.greeting | Expected from DE in de/app.json")
	assert.Contains(t, out, "   - Expected variables (DE): {username}")
	assert.Contains(t, out, "   - Found variables (FR): {name}")
	assert.Contains(t, out, "❌ Language unavailable:\n   - nl/app.json: malformed document: invalid JSON")
	assert.Contains(t, out, "2 language(s) impacted")
	assert.Contains(t, out, "Report digest: ")

	assert.Less(t, strings.Index(out, "Checking DE"), strings.Index(out, "Checking FR"))
	assert.Less(t, strings.Index(out, "Missing keys"), strings.Index(out, "Variable mismatch"))
}

func TestText_Clean(t *testing.T) {
	a := report.NewAggregator()
	a.AddIndex(&index.Index{Language: "en", Entries: map[string]flatten.Leaf{}})

	var buf bytes.Buffer
	Text(&buf, a.Report(), false)

	assert.Contains(t, buf.String(), "✅ Success: No translation issues found.")
	assert.NotContains(t, buf.String(), "Error:")
}

func TestText_Colored(t *testing.T) {
	var buf bytes.Buffer
	Text(&buf, sampleReport(), true)

	assert.Contains(t, buf.String(), "\x1b[")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "DE (German)", DisplayName("de"))
	assert.Equal(t, "XX-!!", DisplayName("xx-!!"))
}

func TestJSON(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, JSON(&first, sampleReport()))
	require.NoError(t, JSON(&second, sampleReport()))

	assert.Equal(t, first.String(), second.String())

	var decoded struct {
		HasIssues bool `json:"has_issues"`
		Findings  []struct {
			Kind string `json:"kind"`
			Key  string `json:"key"`
		} `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(first.Bytes(), &decoded))
	assert.True(t, decoded.HasIssues)
	require.Len(t, decoded.Findings, 2)
	assert.Equal(t, "MISSING_KEY", decoded.Findings[0].Kind)
	assert.Equal(t, "VARIABLE_MISMATCH", decoded.Findings[1].Kind)
}
