package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AddToWishlist handles POST /wishlist.
func (s *Server) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req WishlistItemRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	it, err := s.wishlist.Add(r.Context(), UserIDFromContext(r.Context()), req.ReferenceWhiskyID, deref(req.Notes))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wishlistItemToAPI(&it))
}

// ListWishlist handles GET /wishlist.
func (s *Server) ListWishlist(w http.ResponseWriter, r *http.Request) {
	var params PageParams
	if err := params.bind(r); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		return
	}
	p, err := s.wishlist.List(r.Context(), UserIDFromContext(r.Context()), pageRequest(params.Cursor, params.Limit))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(p, wishlistItemToAPI))
}

// RemoveFromWishlist handles DELETE /wishlist/{id}.
func (s *Server) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	if err := s.wishlist.Remove(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
