package richtext

import (
	"fmt"
	"testing"
)

func text(s string) *Node { return &Node{Type: TypeText, Text: s} }

func para(s string) *Node {
	return &Node{Type: TypeParagraph, Children: []*Node{text(s)}}
}

func heading(tag, s string) *Node {
	return &Node{Type: TypeHeading, Tag: tag, Children: []*Node{text(s)}}
}

func TestSegment_DividerPolicy(t *testing.T) {
	doc := &Document{Root: Root{Children: []*Node{
		heading("h1", "Title"),
		para("Hello"),
		{Type: TypeHorizontalRule},
		para("World"),
	}}}

	pages := Paginate(doc, Config{Policy: PolicyDividers})
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].HTML != "<h1>Title</h1><p>Hello</p>" {
		t.Errorf("page 0: got %q", pages[0].HTML)
	}
	if pages[1].HTML != "<p>World</p>" {
		t.Errorf("page 1: got %q", pages[1].HTML)
	}
	if pages[0].ID != "block-0" || pages[1].ID != "block-1" {
		t.Errorf("expected block-0/block-1 ids, got %q/%q", pages[0].ID, pages[1].ID)
	}
}

func TestSegment_NoDividersYieldsOnePage(t *testing.T) {
	doc := &Document{Root: Root{Children: []*Node{
		para("a"), para("b"), para("c"),
	}}}
	pages := Paginate(doc, DefaultConfig())
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].HTML != "<p>a</p><p>b</p><p>c</p>" {
		t.Errorf("got %q", pages[0].HTML)
	}
}

func TestSegment_NDividersYieldNPlusOnePages(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		var children []*Node
		for i := 0; i <= n; i++ {
			children = append(children, para(fmt.Sprintf("part %d", i)))
			if i < n {
				children = append(children, &Node{Type: TypeHorizontalRule})
			}
		}
		pages := Segment(children, Config{Policy: PolicyDividers})
		if len(pages) != n+1 {
			t.Errorf("%d dividers: expected %d pages, got %d", n, n+1, len(pages))
		}
	}
}

func TestSegment_BlankSectionsDropped(t *testing.T) {
	// Consecutive dividers and empty paragraphs never produce blank pages.
	children := []*Node{
		{Type: TypeHorizontalRule},
		{Type: TypeParagraph},
		{Type: TypeHorizontalRule},
		para("only content"),
		{Type: TypeHorizontalRule},
	}
	pages := Segment(children, Config{Policy: PolicyDividers})
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].ID != "block-0" {
		t.Errorf("ids restart per call, got %q", pages[0].ID)
	}
}

func TestSegment_EmptyInput(t *testing.T) {
	if pages := Segment(nil, DefaultConfig()); len(pages) != 0 {
		t.Errorf("expected no pages for nil input, got %d", len(pages))
	}
	if pages := Paginate(&Document{}, DefaultConfig()); len(pages) != 0 {
		t.Errorf("expected no pages for empty document, got %d", len(pages))
	}
	if pages := Paginate(nil, DefaultConfig()); len(pages) != 0 {
		t.Errorf("expected no pages for nil document, got %d", len(pages))
	}
}

func TestSegment_HeadingPolicy(t *testing.T) {
	children := []*Node{
		heading("h1", "One"),
		para("body one"),
		heading("h2", "Two"),
		para("body two"),
		{Type: TypeHorizontalRule}, // not a boundary under this policy
		para("more two"),
	}
	pages := Segment(children, Config{Policy: PolicyHeadings})
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].HTML != "<h1>One</h1><p>body one</p>" {
		t.Errorf("page 0: got %q", pages[0].HTML)
	}
	want := "<h2>Two</h2><p>body two</p><hr /><p>more two</p>"
	if pages[1].HTML != want {
		t.Errorf("page 1: expected %q, got %q", want, pages[1].HTML)
	}
}

func TestSegment_HeadingPolicyLeadingBody(t *testing.T) {
	children := []*Node{
		para("intro before any heading"),
		heading("h1", "First"),
		para("body"),
	}
	pages := Segment(children, Config{Policy: PolicyHeadings})
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].HTML != "<p>intro before any heading</p>" {
		t.Errorf("leading body should get its own page, got %q", pages[0].HTML)
	}
}

func TestSegment_NestedStructureIsOpaque(t *testing.T) {
	// A divider nested inside a list item is content, not a boundary.
	nested := &Node{Type: TypeList, Children: []*Node{
		{Type: TypeListItem, Children: []*Node{
			text("before"),
			{Type: TypeHorizontalRule},
			text("after"),
		}},
	}}
	pages := Segment([]*Node{nested}, Config{Policy: PolicyDividers})
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	want := "<ul><li>before<hr />after</li></ul>"
	if pages[0].HTML != want {
		t.Errorf("expected %q, got %q", want, pages[0].HTML)
	}
}

func TestValidPolicy(t *testing.T) {
	if !ValidPolicy(PolicyDividers) || !ValidPolicy(PolicyHeadings) {
		t.Error("known policies should validate")
	}
	if ValidPolicy("chapters") {
		t.Error("unknown policy should not validate")
	}
}
