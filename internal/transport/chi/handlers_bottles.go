package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kailas-cloud/caskbook/internal/domain"
	dombottle "github.com/kailas-cloud/caskbook/internal/domain/bottle"
)

// CreateBottle handles POST /bottles.
func (s *Server) CreateBottle(w http.ResponseWriter, r *http.Request) {
	var req BottleRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	b, err := s.bottles.Create(r.Context(), UserIDFromContext(r.Context()), bottleAttributesFromAPI(&req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/bottles/"+b.ID)
	writeJSON(w, http.StatusCreated, bottleToAPI(&b))
}

// ListBottles handles GET /bottles.
func (s *Server) ListBottles(w http.ResponseWriter, r *http.Request) {
	var params ListBottlesParams
	if err := params.bind(r); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}

	q, err := bottleQuery(&params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	p, err := s.bottles.List(r.Context(), UserIDFromContext(r.Context()), q, pageRequest(params.Cursor, params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(p, bottleToAPI))
}

// GetBottle handles GET /bottles/{id}.
func (s *Server) GetBottle(w http.ResponseWriter, r *http.Request) {
	id, ok := bottleID(w, r)
	if !ok {
		return
	}
	b, err := s.bottles.Get(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bottleToAPI(&b))
}

// UpdateBottle handles PUT /bottles/{id}.
func (s *Server) UpdateBottle(w http.ResponseWriter, r *http.Request) {
	id, ok := bottleID(w, r)
	if !ok {
		return
	}
	var req BottleUpdateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	b, err := s.bottles.Update(r.Context(), UserIDFromContext(r.Context()), id, bottlePatchFromAPI(&req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bottleToAPI(&b))
}

// DeleteBottle handles DELETE /bottles/{id}.
func (s *Server) DeleteBottle(w http.ResponseWriter, r *http.Request) {
	id, ok := bottleID(w, r)
	if !ok {
		return
	}
	if err := s.bottles.Delete(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SimilarToBottle handles GET /bottles/{id}/similar.
func (s *Server) SimilarToBottle(w http.ResponseWriter, r *http.Request) {
	id, ok := bottleID(w, r)
	if !ok {
		return
	}
	var params SimilarParams
	if err := params.bind(r); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}
	ranked, err := s.bottles.Similar(r.Context(), UserIDFromContext(r.Context()), id, deref(params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ItemsResponse[SimilarWhiskyResponse]{Items: scoredToAPI(ranked)})
}

// bottleID reads the {id} path parameter. Anything that is not a UUID cannot
// name a bottle, so it is reported as not found.
func bottleID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, ErrorResponseCodeBottleNotFound, domain.ErrBottleNotFound.Error())
		return "", false
	}
	return id, true
}

func bottleQuery(p *ListBottlesParams) (dombottle.Query, error) {
	sortKey, err := dombottle.ParseSortKey(deref(p.Sort))
	if err != nil {
		return dombottle.Query{}, err
	}
	q := dombottle.Query{
		Search: deref(p.Search),
		Region: deref(p.Region),
		Sort:   sortKey,
	}
	switch deref(p.Order) {
	case "", "desc":
		q.Descending = true
	case "asc":
	default:
		return dombottle.Query{}, domain.NewFieldError("order", "must be asc or desc")
	}
	if p.Status != nil && *p.Status != "" {
		st, err := dombottle.ParseStatus(*p.Status)
		if err != nil {
			return dombottle.Query{}, err
		}
		q.Status = st
	}
	return q, nil
}
