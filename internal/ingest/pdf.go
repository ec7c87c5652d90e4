package ingest

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/bgraves/pagemill/internal/richtext"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFImporter converts PDF files. Each source page becomes a run of
// paragraphs followed by a horizontal rule, so the divider pagination
// policy reproduces the original page boundaries. It tries the Go
// library first, then falls back to pdftotext if enabled.
type PDFImporter struct {
	FallbackPdftotext bool
}

func (p *PDFImporter) Import(r io.Reader, filename string) (*richtext.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "pagemill-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	var children []*richtext.Node
	for _, pageText := range strings.Split(text, "\f") {
		paras := paragraphNodes(pageText)
		if len(paras) == 0 {
			continue
		}
		if len(children) > 0 {
			children = append(children, &richtext.Node{Type: richtext.TypeHorizontalRule})
		}
		children = append(children, paras...)
	}

	return &richtext.Document{Root: richtext.Root{Children: children}}, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
