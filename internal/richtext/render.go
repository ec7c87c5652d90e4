package richtext

import (
	"fmt"
	"html"
	"strings"
)

// DefaultMaxDepth bounds render recursion. Tree depth past this point
// renders as empty string instead of risking stack exhaustion.
const DefaultMaxDepth = 1000

// Renderer converts content nodes into HTML fragments. It is stateless
// apart from its configuration and safe for concurrent use.
type Renderer struct {
	maxDepth int
}

// NewRenderer returns a Renderer with the given recursion ceiling.
// maxDepth <= 0 selects DefaultMaxDepth.
func NewRenderer(maxDepth int) *Renderer {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Renderer{maxDepth: maxDepth}
}

// Render produces the HTML fragment for a single node and its subtree.
// It is total: malformed or unknown nodes yield the empty string, never
// an error. The input tree is never mutated.
func (r *Renderer) Render(n *Node) string {
	return r.render(n, 0)
}

// RenderChildren renders an ordered node sequence and concatenates the
// fragments in document order. A nil slice is an empty sequence.
func (r *Renderer) RenderChildren(nodes []*Node) string {
	return r.renderChildren(nodes, 0)
}

func (r *Renderer) renderChildren(nodes []*Node, depth int) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(r.render(n, depth))
	}
	return b.String()
}

func (r *Renderer) render(n *Node, depth int) string {
	if n == nil || depth > r.maxDepth {
		return ""
	}

	switch n.Type {
	case TypeText:
		return renderText(n)

	case TypeParagraph:
		inner := r.renderChildren(n.Children, depth+1)
		if strings.TrimSpace(inner) == "" {
			return ""
		}
		return "<p>" + inner + "</p>"

	case TypeHeading:
		tag := headingTag(n.Tag)
		return "<" + tag + ">" + r.renderChildren(n.Children, depth+1) + "</" + tag + ">"

	case TypeList:
		tag := "ul"
		if n.Tag == "ol" {
			tag = "ol"
		}
		return "<" + tag + ">" + r.renderChildren(n.Children, depth+1) + "</" + tag + ">"

	case TypeListItem:
		return "<li>" + r.renderChildren(n.Children, depth+1) + "</li>"

	case TypeLink:
		href := n.URL
		if href == "" {
			href = "#"
		}
		attrs := ` href="` + html.EscapeString(href) + `"`
		if n.NewTab {
			attrs += ` target="_blank" rel="noopener noreferrer"`
		}
		return "<a" + attrs + ">" + r.renderChildren(n.Children, depth+1) + "</a>"

	case TypeHorizontalRule:
		return "<hr />"

	case TypeBlock:
		return renderBlock(n)
	}

	// Unknown node types render nothing. The authoring system's schema
	// evolves independently of this service.
	return ""
}

// renderText escapes the payload and applies formatting tags in a fixed
// nesting order, innermost to outermost: code, bold, italic, underline,
// strikethrough. The bitmask cannot encode application order, so a
// deterministic order keeps output diff-stable.
func renderText(n *Node) string {
	out := html.EscapeString(n.Text)
	if n.Format&FormatCode != 0 {
		out = "<code>" + out + "</code>"
	}
	if n.Format&FormatBold != 0 {
		out = "<strong>" + out + "</strong>"
	}
	if n.Format&FormatItalic != 0 {
		out = "<em>" + out + "</em>"
	}
	if n.Format&FormatUnderline != 0 {
		out = "<u>" + out + "</u>"
	}
	if n.Format&FormatStrikethrough != 0 {
		out = "<s>" + out + "</s>"
	}
	return out
}

func headingTag(tag string) string {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return tag
	}
	return "h2"
}

// renderBlock handles embedded non-text content. Media embeds with a
// hydrated media object become <img> tags; everything else (including
// media references still carried as bare upload ids) degrades to a
// visible placeholder so the reader never silently loses content.
func renderBlock(n *Node) string {
	blockType, _ := n.Fields["blockType"].(string)
	if blockType == "" {
		blockType = "custom-block"
	}

	if blockType == "mediaBlock" {
		if ref := mediaRef(n.Fields["media"]); ref.Resolved != nil {
			return renderImage(ref.Resolved)
		}
	}

	id := fieldString(n.Fields["id"])
	escType := html.EscapeString(blockType)
	return `<div data-block-type="` + escType + `" data-block-id="` + html.EscapeString(id) + `">[` + escType + `]</div>`
}

func renderImage(m *Media) string {
	src := m.URL
	if !strings.Contains(src, "://") {
		src = "https://" + src
	}
	alt := m.Alt
	if alt == "" {
		alt = m.Filename
	}

	var b strings.Builder
	b.WriteString(`<img src="` + html.EscapeString(src) + `"`)
	b.WriteString(` alt="` + html.EscapeString(alt) + `"`)
	if m.Width > 0 {
		fmt.Fprintf(&b, ` width="%d"`, m.Width)
	}
	if m.Height > 0 {
		fmt.Fprintf(&b, ` height="%d"`, m.Height)
	}
	b.WriteString(` style="display:block;max-width:100%;height:auto;" />`)
	return b.String()
}

func fieldString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return fmt.Sprintf("%d", int64(s))
	}
	return ""
}
