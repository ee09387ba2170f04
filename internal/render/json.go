package render

import (
	"encoding/json"
	"io"

	"github.com/dgallion1/bomdiff/internal/bom"
)

// JSONWriter writes the report as a JSON document.
type JSONWriter struct{}

func (JSONWriter) ContentType() string { return "application/json" }
func (JSONWriter) Ext() string         { return "json" }

func (JSONWriter) Write(w io.Writer, rep *bom.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
