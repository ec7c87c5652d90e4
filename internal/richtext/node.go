package richtext

// Node type discriminators. Unknown values render as empty string.
const (
	TypeText           = "text"
	TypeParagraph      = "paragraph"
	TypeHeading        = "heading"
	TypeList           = "list"
	TypeListItem       = "listitem"
	TypeLink           = "link"
	TypeHorizontalRule = "horizontalrule"
	TypeBlock          = "block"
)

// Text format bitmask. Bits combine; unrecognized bits are ignored.
const (
	FormatBold          = 1 << 0
	FormatItalic        = 1 << 1
	FormatUnderline     = 1 << 2
	FormatStrikethrough = 1 << 3
	FormatCode          = 1 << 4
)

// Document is the root of an editor content tree, as delivered by the CMS.
type Document struct {
	Root Root `json:"root"`
}

// Root holds the ordered top-level children of a document.
type Root struct {
	Children []*Node `json:"children"`
}

// Node is one node in the content tree, discriminated by Type.
// Fields not applicable to a given type are left at their zero value.
type Node struct {
	Type string `json:"type"`

	// text
	Text   string `json:"text,omitempty"`
	Format int    `json:"format,omitempty"`

	// heading ("h1".."h6") and list ("ul"/"ol")
	Tag string `json:"tag,omitempty"`

	// link
	URL    string `json:"url,omitempty"`
	NewTab bool   `json:"newTab,omitempty"`

	// block field bag (blockType, media reference, id, ...)
	Fields map[string]any `json:"fields,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// Media is a fully hydrated media object attached to an embed block.
type Media struct {
	URL      string `json:"url"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Alt      string `json:"alt,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// MediaRef is a block's media reference: either a bare upload id that
// has not been hydrated yet, or a resolved Media object. Exactly one
// side is meaningful; Resolved wins when set.
type MediaRef struct {
	ID       int64
	Resolved *Media
}

// mediaRef interprets the free-form "media" field of a block node.
// The CMS delivers either a numeric upload id or an embedded object,
// depending on the query depth used to fetch the document.
func mediaRef(v any) MediaRef {
	switch m := v.(type) {
	case float64:
		return MediaRef{ID: int64(m)}
	case int:
		return MediaRef{ID: int64(m)}
	case int64:
		return MediaRef{ID: m}
	case map[string]any:
		url, _ := m["url"].(string)
		if url == "" {
			return MediaRef{}
		}
		media := &Media{URL: url}
		media.Width = asInt(m["width"])
		media.Height = asInt(m["height"])
		media.Alt, _ = m["alt"].(string)
		media.Filename, _ = m["filename"].(string)
		return MediaRef{Resolved: media}
	}
	return MediaRef{}
}

// asInt reads a numeric field that arrives as float64 from JSON but may
// be a plain int when the bag was built in-process (importers, tests).
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}
