package chi

import "net/http"

// TasteProfile handles GET /profile/taste.
func (s *Server) TasteProfile(w http.ResponseWriter, r *http.Request) {
	report, err := s.profile.Taste(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasteToAPI(&report.Summary, report.Recommendations))
}

// SuggestFlavor handles POST /flavor/suggest.
func (s *Server) SuggestFlavor(w http.ResponseWriter, r *http.Request) {
	if !s.suggest.Enabled() {
		writeError(w, http.StatusNotImplemented, ErrorResponseCodeNotImplemented, "flavor suggestions are not configured")
		return
	}
	var req SuggestRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	v, err := s.suggest.Suggest(r.Context(), req.TastingNotes)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuggestResponse{FlavorProfile: v.Map()})
}
