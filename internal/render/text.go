package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"transcheck/internal/compare"
	"transcheck/internal/report"
)

type palette struct {
	info, header, missing, extra, mismatch, file, expected, found, errText, success func(a ...interface{}) string
}

func newPalette(enabled bool) palette {
	paint := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}

	return palette{
		info:     paint(color.FgCyan, color.Bold),
		header:   paint(color.FgBlue, color.Bold),
		missing:  paint(color.FgRed),
		extra:    paint(color.FgYellow),
		mismatch: paint(color.FgMagenta),
		file:     paint(color.FgBlue),
		expected: paint(color.FgGreen),
		found:    paint(color.FgCyan),
		errText:  paint(color.FgRed, color.Bold),
		success:  paint(color.FgGreen, color.Bold),
	}
}

// DisplayName returns "XX (English name)" for a language folder, or "XX" when
// the folder name is not a known language tag.
func DisplayName(code string) string {
	upper := strings.ToUpper(code)
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return upper
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return upper
	}
	return fmt.Sprintf("%s (%s)", upper, name)
}

func formatVars(vars []string) string {
	return "{" + strings.Join(vars, ", ") + "}"
}

// Text writes the report grouped per language. Colour codes are emitted only when colored is set.
func Text(w io.Writer, r *report.Report, colored bool) {
	p := newPalette(colored)

	fmt.Fprintf(w, "%s %d language folders found.\n", p.info("ℹ️ Info:"), len(r.Languages))
	fmt.Fprintf(w, "%s %d translation files found across all folders.\n", p.info("ℹ️ Info:"), r.Files)

	for _, d := range r.Duplicates {
		fmt.Fprintf(w, "%s Key %s defined in %s and %s (using %s)\n",
			p.extra("⚠️ Note:"), d.Key, p.file(d.PreviousFile), p.file(d.File), p.file(d.File))
	}

	for _, lang := range r.Languages {
		fmt.Fprintf(w, "\n🔍 Checking %s\n", p.header(DisplayName(lang.Language)))

		if lang.Unavailable {
			for _, u := range r.Unavailable {
				if u.Language == lang.Language {
					fmt.Fprintf(w, "%s\n   - %v\n", p.errText("❌ Language unavailable:"), u.Cause)
				}
			}
			continue
		}

		findings := r.ForLanguage(lang.Language)
		if len(findings) == 0 {
			fmt.Fprintf(w, "%s\n", p.success("✅ No issues"))
			continue
		}

		var lastKind compare.Kind = -1
		for _, f := range findings {
			if f.Kind != lastKind && f.Kind != compare.VariableMismatch {
				switch f.Kind {
				case compare.MissingKey:
					fmt.Fprintf(w, "%s\n", p.errText("❌ Missing keys:"))
				case compare.ExtraKey:
					fmt.Fprintf(w, "%s\n", p.extra("⚠️ Extra keys:"))
				}
			}
			lastKind = f.Kind

			switch f.Kind {
			case compare.MissingKey:
				fmt.Fprintf(w, "   - Key: %s | Expected from %s in %s\n",
					p.missing(f.Key), strings.ToUpper(f.ReferenceLanguage), p.file(f.ReferenceFile))
			case compare.ExtraKey:
				fmt.Fprintf(w, "   - Key: %s | File: %s\n", p.extra(f.Key), p.file(f.File))
			case compare.VariableMismatch:
				fmt.Fprintf(w, "%s\n", p.mismatch("🔄 Variable mismatch detected!"))
				fmt.Fprintf(w, "   - Key: %s\n", p.mismatch(f.Key))
				fmt.Fprintf(w, "   - Expected variables (%s): %s\n",
					strings.ToUpper(f.ReferenceLanguage), p.expected(formatVars(f.ReferenceVariables)))
				fmt.Fprintf(w, "   - Found variables (%s): %s\n",
					strings.ToUpper(f.Language), p.found(formatVars(f.Variables)))
				fmt.Fprintf(w, "   - Location: Expected in %s but found in %s\n",
					p.extra(f.ReferenceFile), p.file(f.File))
			}
		}
	}

	fmt.Fprintf(w, "\n🌍 Translation Consistency Check Complete\n")

	if !r.HasIssues {
		fmt.Fprintf(w, "%s No translation issues found.\n", p.success("✅ Success:"))
		return
	}

	fmt.Fprintf(w, "%s %d language(s) impacted with inconsistent keys/variables.\n",
		p.errText("❌ Error:"), len(r.ImpactedLanguages()))
	fmt.Fprintf(w, "%s %d file(s) impacted.\n", p.errText("❌ Error:"), len(r.ImpactedFiles()))
	if len(r.Unavailable) > 0 {
		fmt.Fprintf(w, "%s %d language(s) could not be checked.\n", p.errText("❌ Error:"), len(r.Unavailable))
	}
	fmt.Fprintf(w, "Report digest: %s\n", r.Digest)
}
