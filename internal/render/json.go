package render

import (
	"encoding/json"
	"fmt"
	"io"

	"transcheck/internal/report"
)

// JSON writes the report as indented JSON followed by a newline.
func JSON(w io.Writer, r *report.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
