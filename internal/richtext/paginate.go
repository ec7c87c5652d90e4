package richtext

import (
	"fmt"
	"strings"
)

// Policy selects how top-level nodes are grouped into pages. The two
// strategies are mutually incompatible, so the embedding application
// must choose one explicitly per document set.
type Policy string

const (
	// PolicyDividers treats horizontal rules as invisible page breaks:
	// the rule contributes no HTML, it only flushes the current page.
	PolicyDividers Policy = "dividers"

	// PolicyHeadings starts a new page at every heading, concatenating
	// the heading's HTML before the body that follows it.
	PolicyHeadings Policy = "headings"
)

// ValidPolicy reports whether p names a known segmentation policy.
func ValidPolicy(p Policy) bool {
	return p == PolicyDividers || p == PolicyHeadings
}

// Page is one render-ready unit of a paginated document. IDs are
// assigned in emission order and are only meaningful within the parse
// call that produced them.
type Page struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// Config controls pagination.
type Config struct {
	Policy   Policy
	MaxDepth int // render recursion ceiling; 0 selects DefaultMaxDepth
}

// DefaultConfig uses the divider policy, the only variant with a
// dedicated zero-content boundary marker.
func DefaultConfig() Config {
	return Config{Policy: PolicyDividers}
}

// Paginate renders a document into an ordered page list. The input tree
// is read-only; a fresh page list is produced on every call.
func Paginate(doc *Document, cfg Config) []Page {
	if doc == nil {
		return nil
	}
	return Segment(doc.Root.Children, cfg)
}

// Segment groups the top-level children of a document root into pages.
// Boundary decisions happen only at this level; structure beneath a
// top-level node is opaque to segmentation.
func Segment(nodes []*Node, cfg Config) []Page {
	r := NewRenderer(cfg.MaxDepth)
	switch cfg.Policy {
	case PolicyHeadings:
		return segmentByHeadings(r, nodes)
	default:
		return segmentByDividers(r, nodes)
	}
}

func segmentByDividers(r *Renderer, nodes []*Node) []Page {
	var pages []Page
	var buf strings.Builder

	flush := func() {
		if strings.TrimSpace(buf.String()) != "" {
			pages = append(pages, Page{
				ID:   fmt.Sprintf("block-%d", len(pages)),
				HTML: buf.String(),
			})
		}
		buf.Reset()
	}

	for _, n := range nodes {
		if n != nil && n.Type == TypeHorizontalRule {
			flush()
			continue
		}
		buf.WriteString(r.Render(n))
	}
	flush()

	return pages
}

func segmentByHeadings(r *Renderer, nodes []*Node) []Page {
	var pages []Page
	var heading, body strings.Builder

	flush := func() {
		html := heading.String() + body.String()
		if strings.TrimSpace(html) != "" {
			pages = append(pages, Page{
				ID:   fmt.Sprintf("block-%d", len(pages)),
				HTML: html,
			})
		}
		heading.Reset()
		body.Reset()
	}

	for _, n := range nodes {
		if n != nil && n.Type == TypeHeading {
			// Content before the first heading flushes as its own page
			// rather than being orphaned.
			flush()
			heading.WriteString(r.Render(n))
			continue
		}
		body.WriteString(r.Render(n))
	}
	flush()

	return pages
}
