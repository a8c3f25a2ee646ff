package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/v1/bottles/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, id := range []string{"a", "b", "c"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/bottles/"+id, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/bottles/{id}", "200"))
	if val < 3 {
		t.Errorf("expected 3 requests under the route pattern, got %f", val)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/api/v1/wishlist", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	r.Get("/api/v1/profile/taste", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}")) // implicit 200
	})

	tests := []struct {
		method, path, status string
	}{
		{http.MethodPost, "/api/v1/wishlist", "409"},
		{http.MethodGet, "/api/v1/profile/taste", "200"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, http.NoBody))

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.path, tc.status))
			if val < 1 {
				t.Errorf("expected a %s sample for %s, got %f", tc.status, tc.path, val)
			}
		})
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {})

	for _, p := range []string{"/wp-admin", "/.env", "/random/123"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, http.NoBody))
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", p, rr.Code)
		}
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))
	if val < 3 {
		t.Errorf("expected unmatched paths to share one label, got %f", val)
	}
}

func TestMiddleware_InFlight(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	var during float64
	r.Get("/api/v1/whiskies", func(w http.ResponseWriter, _ *http.Request) {
		during = testutil.ToFloat64(httpRequestsInFlight)
		w.WriteHeader(http.StatusOK)
	})

	before := testutil.ToFloat64(httpRequestsInFlight)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/whiskies", http.NoBody))

	if during != before+1 {
		t.Errorf("in-flight during request = %f, want %f", during, before+1)
	}
	if after := testutil.ToFloat64(httpRequestsInFlight); after != before {
		t.Errorf("in-flight after request = %f, want %f", after, before)
	}
}

func TestRouteLabel_NoRouteContext(t *testing.T) {
	if got := routeLabel(httptest.NewRequest(http.MethodGet, "/x", http.NoBody)); got != unmatchedRoute {
		t.Errorf("routeLabel = %q", got)
	}
}

func TestRegister_Idempotent(t *testing.T) {
	RegisterSimilarityMetrics()
	RegisterSimilarityMetrics()
	RegisterSuggestMetrics()
	RegisterSuggestMetrics()
	RegisterAuthMetrics()
	RegisterAuthMetrics()
	RegisterHTTPMetrics()
	RegisterHTTPMetrics()

	CatalogCacheTotal.WithLabelValues("hit").Inc()
	if testutil.ToFloat64(CatalogCacheTotal.WithLabelValues("hit")) < 1 {
		t.Error("expected catalog cache counter to increment")
	}
}
