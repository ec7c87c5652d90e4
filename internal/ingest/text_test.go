package ingest

import (
	"strings"
	"testing"

	"github.com/bgraves/pagemill/internal/richtext"
)

func TestTextImporter_Paragraphs(t *testing.T) {
	input := "First paragraph\nstill first.\n\nSecond paragraph.\n\n\nThird.\n"
	p := &TextImporter{}
	doc, err := p.Import(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kids := doc.Root.Children
	if len(kids) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(kids))
	}
	for i, k := range kids {
		if k.Type != richtext.TypeParagraph {
			t.Errorf("node %d: expected paragraph, got %q", i, k.Type)
		}
	}
	if kids[0].Children[0].Text != "First paragraph still first." {
		t.Errorf("expected joined lines, got %q", kids[0].Children[0].Text)
	}
}

func TestTextImporter_EmptyInput(t *testing.T) {
	p := &TextImporter{}
	doc, err := p.Import(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Root.Children) != 0 {
		t.Errorf("expected no children, got %d", len(doc.Root.Children))
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		ok       bool
	}{
		{"doc.md", true},
		{"doc.markdown", true},
		{"page.html", true},
		{"page.htm", true},
		{"report.pdf", true},
		{"memo.docx", true},
		{"notes.txt", true},
		{"data.csv", false},
		{"archive.zip", false},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.filename, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error for unsupported extension", tt.filename)
		}
		if got := IsSupportedExtension(tt.filename); got != tt.ok {
			t.Errorf("IsSupportedExtension(%s) = %v, want %v", tt.filename, got, tt.ok)
		}
	}
}
