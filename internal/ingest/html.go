package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/bgraves/pagemill/internal/richtext"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// HTMLImporter converts HTML into a rich-text tree. Input is sanitized
// with bluemonday before parsing: imported HTML is user-authored and
// untrusted, and the render side assumes structure, not scripts.
type HTMLImporter struct{}

var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("target").OnElements("a")
	return p
}()

func (p *HTMLImporter) Import(r io.Reader, filename string) (*richtext.Document, error) {
	sanitized := htmlPolicy.SanitizeReader(r)
	doc, err := html.Parse(sanitized)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	body := findBody(doc)
	if body == nil {
		body = doc
	}

	return &richtext.Document{
		Root: richtext.Root{Children: htmlBlocks(body)},
	}, nil
}

// htmlBlocks converts the children of a container element into
// block-level rich-text nodes. Loose inline content between blocks is
// wrapped in an implicit paragraph so nothing user-visible is dropped.
func htmlBlocks(n *html.Node) []*richtext.Node {
	var out []*richtext.Node
	var inline []*richtext.Node

	flush := func() {
		if len(inline) > 0 {
			out = append(out, &richtext.Node{Type: richtext.TypeParagraph, Children: inline})
			inline = nil
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if strings.TrimSpace(c.Data) != "" {
				inline = append(inline, &richtext.Node{
					Type: richtext.TypeText,
					Text: collapseSpace(c.Data),
				})
			}
			continue
		}
		if c.Type != html.ElementNode {
			continue
		}

		switch c.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			flush()
			out = append(out, &richtext.Node{
				Type:     richtext.TypeHeading,
				Tag:      c.Data,
				Children: htmlInlines(c, 0),
			})
		case "p", "pre":
			flush()
			if kids := htmlInlines(c, 0); len(kids) > 0 {
				out = append(out, &richtext.Node{Type: richtext.TypeParagraph, Children: kids})
			}
		case "ul", "ol":
			flush()
			out = append(out, htmlList(c))
		case "hr":
			flush()
			out = append(out, &richtext.Node{Type: richtext.TypeHorizontalRule})
		case "img":
			flush()
			out = append(out, htmlImage(c))
		case "blockquote", "div", "section", "article", "main", "table", "thead", "tbody", "tr", "td", "th":
			flush()
			out = append(out, htmlBlocks(c)...)
		case "script", "style", "nav", "header", "footer", "aside":
			// Non-content elements.
		default:
			inline = append(inline, htmlInline(c, 0)...)
		}
	}
	flush()
	return out
}

func htmlList(n *html.Node) *richtext.Node {
	tag := "ul"
	if n.Data == "ol" {
		tag = "ol"
	}
	var items []*richtext.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			items = append(items, htmlListItem(c))
		}
	}
	return &richtext.Node{Type: richtext.TypeList, Tag: tag, Children: items}
}

func htmlListItem(li *html.Node) *richtext.Node {
	var children []*richtext.Node
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
			children = append(children, htmlList(c))
			continue
		}
		children = append(children, htmlInlineOne(c, 0)...)
	}
	return &richtext.Node{Type: richtext.TypeListItem, Children: children}
}

// htmlInlines converts element children into inline rich-text nodes,
// accumulating the format bitmask through nested styling tags.
func htmlInlines(n *html.Node, format int) []*richtext.Node {
	var out []*richtext.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlInlineOne(c, format)...)
	}
	return out
}

func htmlInlineOne(c *html.Node, format int) []*richtext.Node {
	if c.Type == html.TextNode {
		if strings.TrimSpace(c.Data) == "" {
			return nil
		}
		return []*richtext.Node{{
			Type:   richtext.TypeText,
			Text:   collapseSpace(c.Data),
			Format: format,
		}}
	}
	if c.Type != html.ElementNode {
		return nil
	}
	return htmlInline(c, format)
}

func htmlInline(c *html.Node, format int) []*richtext.Node {
	switch c.Data {
	case "strong", "b":
		return htmlInlines(c, format|richtext.FormatBold)
	case "em", "i":
		return htmlInlines(c, format|richtext.FormatItalic)
	case "u", "ins":
		return htmlInlines(c, format|richtext.FormatUnderline)
	case "s", "del", "strike":
		return htmlInlines(c, format|richtext.FormatStrikethrough)
	case "code", "kbd", "samp":
		return htmlInlines(c, format|richtext.FormatCode)
	case "a":
		return []*richtext.Node{{
			Type:     richtext.TypeLink,
			URL:      attr(c, "href"),
			NewTab:   attr(c, "target") == "_blank",
			Children: htmlInlines(c, format),
		}}
	case "img":
		return []*richtext.Node{htmlImage(c)}
	case "br":
		return []*richtext.Node{{Type: richtext.TypeText, Text: " ", Format: format}}
	}
	return htmlInlines(c, format)
}

func htmlImage(n *html.Node) *richtext.Node {
	media := map[string]any{
		"url": attr(n, "src"),
		"alt": attr(n, "alt"),
	}
	if w, err := strconv.Atoi(attr(n, "width")); err == nil && w > 0 {
		media["width"] = w
	}
	if h, err := strconv.Atoi(attr(n, "height")); err == nil && h > 0 {
		media["height"] = h
	}
	return &richtext.Node{
		Type: richtext.TypeBlock,
		Fields: map[string]any{
			"blockType": "mediaBlock",
			"media":     media,
		},
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}
