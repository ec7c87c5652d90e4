package api

import (
	"encoding/json"
	"net/http"

	"github.com/bgraves/pagemill/internal/richtext"
)

// handleRender renders a rich-text document delivered in the request
// body into pages. The pagination policy comes from the "policy" query
// parameter; it is an explicit choice, an unknown value is rejected.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var doc richtext.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		jsonError(w, "invalid document json: "+err.Error(), http.StatusBadRequest)
		return
	}

	policy, ok := s.policyParam(r)
	if !ok {
		jsonError(w, "unknown policy: must be dividers or headings", http.StatusBadRequest)
		return
	}

	pages := richtext.Paginate(&doc, richtext.Config{
		Policy:   policy,
		MaxDepth: s.cfg.MaxRenderDepth,
	})

	writePages(w, pages)
}

// policyParam resolves the segmentation policy for a request, falling
// back to the configured default when the parameter is absent.
func (s *Server) policyParam(r *http.Request) (richtext.Policy, bool) {
	raw := r.URL.Query().Get("policy")
	if raw == "" {
		return s.cfg.DefaultPolicy, true
	}
	p := richtext.Policy(raw)
	return p, richtext.ValidPolicy(p)
}

func writePages(w http.ResponseWriter, pages []richtext.Page) {
	if pages == nil {
		pages = []richtext.Page{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"pages": pages,
		"count": len(pages),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
