package ingest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bgraves/pagemill/internal/richtext"
	"github.com/fumiama/go-docx"
)

// DOCXImporter converts .docx files. Heading-styled paragraphs become
// heading nodes; everything else becomes plain paragraphs.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, filename string) (*richtext.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "pagemill-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var children []*richtext.Node
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		if level := docxHeadingLevel(para); level > 0 {
			children = append(children, &richtext.Node{
				Type:     richtext.TypeHeading,
				Tag:      fmt.Sprintf("h%d", level),
				Children: []*richtext.Node{{Type: richtext.TypeText, Text: text}},
			})
			continue
		}

		children = append(children, &richtext.Node{
			Type:     richtext.TypeParagraph,
			Children: []*richtext.Node{{Type: richtext.TypeText, Text: text}},
		})
	}

	return &richtext.Document{Root: richtext.Root{Children: children}}, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	for level := 1; level <= 6; level++ {
		if strings.EqualFold(style, fmt.Sprintf("Heading%d", level)) ||
			strings.EqualFold(style, fmt.Sprintf("heading %d", level)) {
			return level
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
