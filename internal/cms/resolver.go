package cms

import (
	"context"

	"github.com/bgraves/pagemill/internal/richtext"
)

// HydrateMedia walks a document fetched by this client and replaces
// bare numeric media references on embed blocks with full media
// objects from the uploads endpoint. The renderer only emits <img>
// tags for hydrated references; anything left unresolved degrades to
// a placeholder, so a failed lookup loses an image, never the page.
//
// The document is owned by the caller of GetDocument, so mutating it
// here is safe; the render pipeline itself never mutates its input.
func (c *Client) HydrateMedia(ctx context.Context, doc *richtext.Document) error {
	if doc == nil {
		return nil
	}
	cache := map[int64]*Upload{}
	for _, n := range doc.Root.Children {
		if err := c.hydrateNode(ctx, n, cache); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) hydrateNode(ctx context.Context, n *richtext.Node, cache map[int64]*Upload) error {
	if n == nil {
		return nil
	}

	if n.Type == richtext.TypeBlock {
		if id, ok := uploadID(n.Fields["media"]); ok {
			up, cached := cache[id]
			if !cached {
				var err error
				up, err = c.GetUpload(ctx, id)
				if err != nil {
					return err
				}
				cache[id] = up
			}
			if up != nil {
				n.Fields["media"] = map[string]any{
					"url":      up.URL,
					"width":    up.Width,
					"height":   up.Height,
					"alt":      up.Alt,
					"filename": up.Filename,
				}
			}
		}
	}

	for _, child := range n.Children {
		if err := c.hydrateNode(ctx, child, cache); err != nil {
			return err
		}
	}
	return nil
}

// uploadID reports whether the media field holds an unresolved numeric
// reference. JSON numbers decode as float64.
func uploadID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		return int64(id), true
	case int64:
		return id, true
	case int:
		return int64(id), true
	}
	return 0, false
}
