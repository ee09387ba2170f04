package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/bomdiff/internal/bom"
	"github.com/dgallion1/bomdiff/internal/sheet"
)

// Parser converts raw file bytes into a Sheet.
type Parser interface {
	Parse(r io.Reader, filename string) (*sheet.Sheet, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".xlsx":     true,
	".csv":      true,
	".txt":      true,
	".tsv":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tunes individual parsers.
type Options struct {
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return &XLSXParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".txt", ".tsv":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Load parses a BOM file and extracts its lines with the given profile.
func Load(r io.Reader, filename string, profile Profile, opts Options) ([]bom.Line, error) {
	p, err := ForFile(filename, opts)
	if err != nil {
		return nil, err
	}
	s, err := p.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	lines, err := Extract(s, profile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return lines, nil
}

func titleOf(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
