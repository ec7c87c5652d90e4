package ingest

import (
	"bufio"
	"io"
	"strings"

	"github.com/bgraves/pagemill/internal/richtext"
)

// TextImporter converts plain text files: blank-line separated blocks
// become paragraphs.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*richtext.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var children []*richtext.Node
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			children = append(children, paragraphNode(current.String()))
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(strings.TrimSpace(line))
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &richtext.Document{Root: richtext.Root{Children: children}}, nil
}

func paragraphNode(text string) *richtext.Node {
	return &richtext.Node{
		Type:     richtext.TypeParagraph,
		Children: []*richtext.Node{{Type: richtext.TypeText, Text: text}},
	}
}

// paragraphNodes splits extracted text on blank lines into paragraph
// nodes, dropping whitespace-only segments.
func paragraphNodes(text string) []*richtext.Node {
	var out []*richtext.Node
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, paragraphNode(strings.Join(strings.Fields(part), " ")))
	}
	return out
}
