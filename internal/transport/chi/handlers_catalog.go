package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// ListWhiskies handles GET /whiskies.
func (s *Server) ListWhiskies(w http.ResponseWriter, r *http.Request) {
	var params ListWhiskiesParams
	if err := params.bind(r); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}
	f := domcat.WhiskyFilter{
		Search:         deref(params.Search),
		Region:         deref(params.Region),
		Flavor:         flavor.Dimension(deref(params.Flavor)),
		DistillerySlug: deref(params.Distillery),
	}
	p, err := s.catalog.ListWhiskies(r.Context(), f, pageRequest(params.Cursor, params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(p, whiskyToAPI))
}

// GetWhisky handles GET /whiskies/{slug}.
func (s *Server) GetWhisky(w http.ResponseWriter, r *http.Request) {
	wh, err := s.catalog.Whisky(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, whiskyToAPI(&wh))
}

// SimilarWhiskies handles POST /whiskies/similar.
func (s *Server) SimilarWhiskies(w http.ResponseWriter, r *http.Request) {
	var req SimilarRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	ranked, err := s.catalog.SimilarTo(r.Context(), flavor.FromMap(req.FlavorProfile), deref(req.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[SimilarWhiskyResponse]{Items: scoredToAPI(ranked)})
}

// ListDistilleries handles GET /distilleries.
func (s *Server) ListDistilleries(w http.ResponseWriter, r *http.Request) {
	var params ListDistilleriesParams
	if err := params.bind(r); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}
	f := domcat.DistilleryFilter{
		Search:  deref(params.Search),
		Region:  deref(params.Region),
		Country: deref(params.Country),
	}
	p, err := s.catalog.ListDistilleries(r.Context(), f, pageRequest(params.Cursor, params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(p, func(d *domcat.Distillery) DistillerySummary {
		return distillerySummaryToAPI(d.Summary())
	}))
}

// GetDistillery handles GET /distilleries/{slug}.
func (s *Server) GetDistillery(w http.ResponseWriter, r *http.Request) {
	d, err := s.catalog.Distillery(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, distilleryToAPI(&d))
}

// DistilleryWhiskies handles GET /distilleries/{slug}/whiskies.
func (s *Server) DistilleryWhiskies(w http.ResponseWriter, r *http.Request) {
	var params PageParams
	if err := params.bind(r); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}
	p, err := s.catalog.DistilleryWhiskies(r.Context(), chi.URLParam(r, "slug"), pageRequest(params.Cursor, params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(p, whiskyToAPI))
}
