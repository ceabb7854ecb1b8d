// Package extract turns uploaded document bytes into plain text, one path
// per supported source format.
package extract

import (
	"fmt"
	"strings"

	"github.com/tenderdesk/rfp-analyzer/internal/store/model"
)

// Text extracts plain text from raw document bytes according to format.
// Unknown formats are an error; empty extraction output is not, the pipeline
// degrades to a warning instead.
func Text(format string, data []byte) (string, error) {
	switch format {
	case model.JobFormatTxt, model.JobFormatMarkdown:
		return normalizeText(string(data)), nil
	case model.JobFormatHTML:
		text, err := htmlText(data)
		if err != nil {
			return "", fmt.Errorf("extracting html text: %w", err)
		}
		return normalizeText(text), nil
	case model.JobFormatXlsx:
		text, err := xlsxText(data)
		if err != nil {
			return "", fmt.Errorf("extracting xlsx text: %w", err)
		}
		return normalizeText(text), nil
	default:
		return "", fmt.Errorf("unsupported source format %q", format)
	}
}

// normalizeText strips carriage returns and collapses runs of blank lines so
// the evidence locator works against a predictable text shape.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	var out []string
	blank := 0
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, trimmed)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
