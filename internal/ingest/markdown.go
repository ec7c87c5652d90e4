package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bgraves/pagemill/internal/richtext"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// MarkdownImporter converts Markdown into a rich-text tree using goldmark.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*richtext.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(gmtext.NewReader(src))

	var children []*richtext.Node
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if node := mdBlock(n, src); node != nil {
			children = append(children, node)
		}
	}

	return &richtext.Document{Root: richtext.Root{Children: children}}, nil
}

// mdBlock converts one top-level goldmark block node. Unhandled block
// kinds return nil and are dropped.
func mdBlock(n ast.Node, src []byte) *richtext.Node {
	switch node := n.(type) {
	case *ast.Heading:
		level := node.Level
		if level < 1 || level > 6 {
			level = 2
		}
		return &richtext.Node{
			Type:     richtext.TypeHeading,
			Tag:      fmt.Sprintf("h%d", level),
			Children: mdInlines(node, src, 0),
		}

	case *ast.Paragraph:
		return &richtext.Node{Type: richtext.TypeParagraph, Children: mdInlines(node, src, 0)}

	case *ast.TextBlock:
		return &richtext.Node{Type: richtext.TypeParagraph, Children: mdInlines(node, src, 0)}

	case *ast.ThematicBreak:
		return &richtext.Node{Type: richtext.TypeHorizontalRule}

	case *ast.List:
		tag := "ul"
		if node.IsOrdered() {
			tag = "ol"
		}
		var items []*richtext.Node
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			items = append(items, mdListItem(c, src))
		}
		return &richtext.Node{Type: richtext.TypeList, Tag: tag, Children: items}

	case *ast.FencedCodeBlock:
		return mdCodeBlock(node, src)
	case *ast.CodeBlock:
		return mdCodeBlock(node, src)

	case *ast.Blockquote:
		// Flatten quoted paragraphs into one paragraph of inline runs.
		var inline []*richtext.Node
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			inline = append(inline, mdInlines(c, src, 0)...)
		}
		return &richtext.Node{Type: richtext.TypeParagraph, Children: inline}
	}
	return nil
}

func mdCodeBlock(n ast.Node, src []byte) *richtext.Node {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	text := strings.TrimRight(buf.String(), "\n")
	if text == "" {
		return nil
	}
	return &richtext.Node{Type: richtext.TypeParagraph, Children: []*richtext.Node{
		{Type: richtext.TypeText, Text: text, Format: richtext.FormatCode},
	}}
}

func mdListItem(n ast.Node, src []byte) *richtext.Node {
	var children []*richtext.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if list, ok := c.(*ast.List); ok {
			children = append(children, mdBlock(list, src))
			continue
		}
		children = append(children, mdInlines(c, src, 0)...)
	}
	return &richtext.Node{Type: richtext.TypeListItem, Children: children}
}

// mdInlines converts the inline children of a goldmark node, carrying
// the accumulated format bitmask down through emphasis nesting.
func mdInlines(parent ast.Node, src []byte, format int) []*richtext.Node {
	var out []*richtext.Node
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, mdInline(c, src, format)...)
	}
	return out
}

func mdInline(n ast.Node, src []byte, format int) []*richtext.Node {
	switch node := n.(type) {
	case *ast.Text:
		v := string(node.Segment.Value(src))
		if v == "" {
			return nil
		}
		if node.SoftLineBreak() || node.HardLineBreak() {
			v += " "
		}
		return []*richtext.Node{{Type: richtext.TypeText, Text: v, Format: format}}

	case *ast.String:
		return []*richtext.Node{{Type: richtext.TypeText, Text: string(node.Value), Format: format}}

	case *ast.Emphasis:
		bit := richtext.FormatItalic
		if node.Level >= 2 {
			bit = richtext.FormatBold
		}
		return mdInlines(node, src, format|bit)

	case *ast.CodeSpan:
		var buf bytes.Buffer
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Segment.Value(src))
			}
		}
		return []*richtext.Node{{
			Type:   richtext.TypeText,
			Text:   buf.String(),
			Format: format | richtext.FormatCode,
		}}

	case *ast.Link:
		return []*richtext.Node{{
			Type:     richtext.TypeLink,
			URL:      string(node.Destination),
			Children: mdInlines(node, src, format),
		}}

	case *ast.AutoLink:
		u := string(node.URL(src))
		return []*richtext.Node{{
			Type:     richtext.TypeLink,
			URL:      u,
			Children: []*richtext.Node{{Type: richtext.TypeText, Text: u}},
		}}

	case *ast.Image:
		return []*richtext.Node{{
			Type: richtext.TypeBlock,
			Fields: map[string]any{
				"blockType": "mediaBlock",
				"media": map[string]any{
					"url": string(node.Destination),
					"alt": string(node.Text(src)),
				},
			},
		}}
	}

	// Unknown inline containers: keep their content.
	return mdInlines(n, src, format)
}
