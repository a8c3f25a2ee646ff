package chi

import (
	"fmt"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/caskbook/internal/domain/page"
)

// ListBottlesParams are the query parameters of GET /bottles.
type ListBottlesParams struct {
	Search *string `form:"search"`
	Region *string `form:"region"`
	Status *string `form:"status"`
	Sort   *string `form:"sort"`
	Order  *string `form:"order"`
	Cursor *string `form:"cursor"`
	Limit  *int    `form:"limit"`
}

// ListWhiskiesParams are the query parameters of GET /whiskies.
type ListWhiskiesParams struct {
	Search     *string `form:"search"`
	Region     *string `form:"region"`
	Flavor     *string `form:"flavor"`
	Distillery *string `form:"distillery"`
	Cursor     *string `form:"cursor"`
	Limit      *int    `form:"limit"`
}

// ListDistilleriesParams are the query parameters of GET /distilleries.
type ListDistilleriesParams struct {
	Search  *string `form:"search"`
	Region  *string `form:"region"`
	Country *string `form:"country"`
	Cursor  *string `form:"cursor"`
	Limit   *int    `form:"limit"`
}

// PageParams are the cursor parameters shared by plain listings.
type PageParams struct {
	Cursor *string `form:"cursor"`
	Limit  *int    `form:"limit"`
}

// SimilarParams are the query parameters of GET /bottles/{id}/similar.
type SimilarParams struct {
	Limit *int `form:"limit"`
}

// queryBinding pairs a parameter name with its destination.
type queryBinding struct {
	name string
	dest any
}

// bindQuery binds optional form-style query parameters.
func bindQuery(r *http.Request, bindings ...queryBinding) error {
	q := r.URL.Query()
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return fmt.Errorf("invalid format for parameter %s: %w", b.name, err)
		}
	}
	return nil
}

func (p *ListBottlesParams) bind(r *http.Request) error {
	return bindQuery(r,
		queryBinding{"search", &p.Search},
		queryBinding{"region", &p.Region},
		queryBinding{"status", &p.Status},
		queryBinding{"sort", &p.Sort},
		queryBinding{"order", &p.Order},
		queryBinding{"cursor", &p.Cursor},
		queryBinding{"limit", &p.Limit},
	)
}

func (p *ListWhiskiesParams) bind(r *http.Request) error {
	return bindQuery(r,
		queryBinding{"search", &p.Search},
		queryBinding{"region", &p.Region},
		queryBinding{"flavor", &p.Flavor},
		queryBinding{"distillery", &p.Distillery},
		queryBinding{"cursor", &p.Cursor},
		queryBinding{"limit", &p.Limit},
	)
}

func (p *ListDistilleriesParams) bind(r *http.Request) error {
	return bindQuery(r,
		queryBinding{"search", &p.Search},
		queryBinding{"region", &p.Region},
		queryBinding{"country", &p.Country},
		queryBinding{"cursor", &p.Cursor},
		queryBinding{"limit", &p.Limit},
	)
}

func (p *PageParams) bind(r *http.Request) error {
	return bindQuery(r,
		queryBinding{"cursor", &p.Cursor},
		queryBinding{"limit", &p.Limit},
	)
}

func (p *SimilarParams) bind(r *http.Request) error {
	return bindQuery(r, queryBinding{"limit", &p.Limit})
}

func pageRequest(cursor *string, limit *int) page.Request {
	return page.Request{Cursor: deref(cursor), Limit: deref(limit)}
}

func listResponse[S, T any](p page.Page[S], convert func(*S) T) ListResponse[T] {
	items := make([]T, len(p.Items))
	for i := range p.Items {
		items[i] = convert(&p.Items[i])
	}
	resp := ListResponse[T]{Items: items, HasMore: p.HasMore}
	if p.HasMore {
		c := p.NextCursor
		resp.NextCursor = &c
	}
	return resp
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
