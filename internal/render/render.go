// Package render writes comparison reports in the supported output formats.
package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/bomdiff/internal/bom"
)

// Writer renders a report.
type Writer interface {
	Write(w io.Writer, rep *bom.Report) error
	ContentType() string
	Ext() string
}

// Formats lists the output format names accepted by ForFormat.
var Formats = []string{"xlsx", "csv", "html", "md", "json"}

// ForFormat returns the writer for an output format name.
func ForFormat(name string) (Writer, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "xlsx":
		return &XLSXWriter{}, nil
	case "csv":
		return &CSVWriter{}, nil
	case "html", "htm":
		return &HTMLWriter{}, nil
	case "md", "markdown":
		return &MarkdownWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", name)
	}
}

// DefaultFilename names the report after both inputs:
// "<original>_<updated>_cmp.<ext>".
func DefaultFilename(original, updated, ext string) string {
	return stem(original) + "_" + stem(updated) + "_cmp." + ext
}

func stem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, " ", "_")
}

// cells formats a report row as text, absent values as empty strings.
func cells(r bom.Row) []string {
	vals := r.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = formatValue(v)
	}
	return out
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
