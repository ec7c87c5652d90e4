package api

import (
	"net/http"

	"github.com/bgraves/pagemill/internal/richtext"
	"github.com/go-chi/chi/v5"
)

// handleDocumentPages fetches a document from the CMS, hydrates any
// bare media references, and renders it into pages.
func (s *Server) handleDocumentPages(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")

	policy, ok := s.policyParam(r)
	if !ok {
		jsonError(w, "unknown policy: must be dividers or headings", http.StatusBadRequest)
		return
	}

	doc, err := s.cms.GetDocument(r.Context(), docID)
	if err != nil {
		jsonError(w, "fetch document: "+err.Error(), http.StatusBadGateway)
		return
	}
	if doc == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	if err := s.cms.HydrateMedia(r.Context(), &doc.Content); err != nil {
		// Unhydrated references render as placeholders, so a partial
		// failure degrades the output instead of failing the request.
		s.log.Warn("media hydration incomplete", "doc_id", docID, "error", err)
	}

	pages := richtext.Paginate(&doc.Content, richtext.Config{
		Policy:   policy,
		MaxDepth: s.cfg.MaxRenderDepth,
	})

	writePages(w, pages)
}
