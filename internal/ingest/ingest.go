package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bgraves/pagemill/internal/richtext"
)

// Importer converts raw document bytes into a rich-text content tree.
type Importer interface {
	Import(r io.Reader, filename string) (*richtext.Document, error)
}

// SupportedExtensions lists file extensions this service can import.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate importer for a filename.
func ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
