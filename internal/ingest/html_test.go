package ingest

import (
	"strings"
	"testing"

	"github.com/bgraves/pagemill/internal/richtext"
)

func TestHTMLImporter_BasicStructure(t *testing.T) {
	input := `<html><body>
<h2>Section</h2>
<p>Plain <strong>bold</strong> and <em>italic</em>.</p>
<hr>
<ul><li>one</li><li>two</li></ul>
</body></html>`

	p := &HTMLImporter{}
	doc, err := p.Import(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kids := doc.Root.Children
	if len(kids) != 4 {
		t.Fatalf("expected 4 top-level nodes, got %d", len(kids))
	}
	if kids[0].Type != richtext.TypeHeading || kids[0].Tag != "h2" {
		t.Errorf("expected h2, got %+v", kids[0])
	}
	if kids[2].Type != richtext.TypeHorizontalRule {
		t.Errorf("expected horizontal rule, got %q", kids[2].Type)
	}
	if kids[3].Type != richtext.TypeList || kids[3].Tag != "ul" {
		t.Errorf("expected ul, got %+v", kids[3])
	}
	if len(kids[3].Children) != 2 {
		t.Errorf("expected 2 list items, got %d", len(kids[3].Children))
	}

	var sawBold, sawItalic bool
	for _, c := range kids[1].Children {
		if c.Format&richtext.FormatBold != 0 && c.Text == "bold" {
			sawBold = true
		}
		if c.Format&richtext.FormatItalic != 0 && c.Text == "italic" {
			sawItalic = true
		}
	}
	if !sawBold || !sawItalic {
		t.Errorf("expected bold and italic runs, got %+v", kids[1].Children)
	}
}

func TestHTMLImporter_ScriptStripped(t *testing.T) {
	input := `<body><p>safe</p><script>alert("x")</script></body>`
	p := &HTMLImporter{}
	doc, err := p.Import(strings.NewReader(input), "evil.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := richtext.NewRenderer(0)
	html := r.RenderChildren(doc.Root.Children)
	if strings.Contains(html, "alert") {
		t.Errorf("script content survived sanitization: %q", html)
	}
	if !strings.Contains(html, "safe") {
		t.Errorf("content lost during sanitization: %q", html)
	}
}

func TestHTMLImporter_LinkAndImage(t *testing.T) {
	input := `<body>
<p><a href="https://example.com" target="_blank">out</a></p>
<img src="https://cdn.example.com/x.png" width="100" height="50" alt="pic">
</body>`
	p := &HTMLImporter{}
	doc, err := p.Import(strings.NewReader(input), "media.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var link, img *richtext.Node
	var walk func(nodes []*richtext.Node)
	walk = func(nodes []*richtext.Node) {
		for _, n := range nodes {
			switch n.Type {
			case richtext.TypeLink:
				link = n
			case richtext.TypeBlock:
				img = n
			}
			walk(n.Children)
		}
	}
	walk(doc.Root.Children)

	if link == nil {
		t.Fatal("expected a link node")
	}
	if link.URL != "https://example.com" {
		t.Errorf("expected href, got %q", link.URL)
	}
	if !link.NewTab {
		t.Error("expected target=_blank to set NewTab")
	}

	if img == nil {
		t.Fatal("expected an image block")
	}
	media, _ := img.Fields["media"].(map[string]any)
	if media["url"] != "https://cdn.example.com/x.png" {
		t.Errorf("expected image src, got %v", media)
	}
	if w, _ := media["width"].(int); w != 100 {
		t.Errorf("expected width 100, got %v", media["width"])
	}
}

func TestHTMLImporter_LooseInlineWrapped(t *testing.T) {
	input := `<body>stray text<h1>Head</h1></body>`
	p := &HTMLImporter{}
	doc, err := p.Import(strings.NewReader(input), "loose.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kids := doc.Root.Children
	if len(kids) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(kids))
	}
	if kids[0].Type != richtext.TypeParagraph {
		t.Errorf("expected loose text wrapped in paragraph, got %+v", kids[0])
	}
	if kids[1].Type != richtext.TypeHeading {
		t.Errorf("expected heading second, got %+v", kids[1])
	}
}
