package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	authpkg "github.com/kailas-cloud/caskbook/internal/auth"
	"github.com/kailas-cloud/caskbook/internal/db/dbtest"
	"github.com/kailas-cloud/caskbook/internal/domain"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	bottlerepo "github.com/kailas-cloud/caskbook/internal/repository/bottle"
	catalogrepo "github.com/kailas-cloud/caskbook/internal/repository/catalog"
	"github.com/kailas-cloud/caskbook/internal/repository/catalogcache"
	userrepo "github.com/kailas-cloud/caskbook/internal/repository/user"
	wishlistrepo "github.com/kailas-cloud/caskbook/internal/repository/wishlist"
	authuc "github.com/kailas-cloud/caskbook/internal/usecase/auth"
	bottleuc "github.com/kailas-cloud/caskbook/internal/usecase/bottle"
	cataloguc "github.com/kailas-cloud/caskbook/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/caskbook/internal/usecase/health"
	profileuc "github.com/kailas-cloud/caskbook/internal/usecase/profile"
	suggestuc "github.com/kailas-cloud/caskbook/internal/usecase/suggest"
	wishlistuc "github.com/kailas-cloud/caskbook/internal/usecase/wishlist"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"

	laphroaigID  = "11111111-1111-4111-8111-111111111111"
	macallanID   = "22222222-2222-4222-8222-222222222222"
	glenlivetID  = "33333333-3333-4333-8333-333333333333"
	unknownWhisk = "99999999-9999-4999-8999-999999999999"
)

// --- Fixture ---

type testAPI struct {
	handler http.Handler
	store   *dbtest.MemStore
}

type apiOption func(*RouterOptions, *Services)

func withRateLimits(l RateLimits) apiOption {
	return func(o *RouterOptions, _ *Services) { o.RateLimits = l }
}

func withSuggester(s flavor.Suggester) apiOption {
	return func(_ *RouterOptions, svc *Services) { svc.Suggest = suggestuc.New(s) }
}

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()
	ctx := context.Background()
	store := dbtest.NewMemStore()

	catRepo := catalogrepo.New(store)
	seedCatalog(t, ctx, catRepo)

	tokens, err := authpkg.NewTokenManager(testSecret, 30*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	hasher, err := authpkg.NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	scorer := flavor.NewScorer(flavor.DefaultWeights())
	snaps := catalogcache.New(catRepo, time.Minute, nil, nil, zap.NewNop())
	catSvc := cataloguc.New(catRepo, snaps, scorer, cataloguc.Options{})
	bottles := bottlerepo.New(store)

	svc := Services{
		Auth:     authuc.New(userrepo.New(store), tokens, hasher, 30*time.Minute),
		Bottles:  bottleuc.New(bottles, catSvc),
		Catalog:  catSvc,
		Wishlist: wishlistuc.New(wishlistrepo.New(store), catSvc),
		Profile:  profileuc.New(bottles, snaps, scorer),
		Suggest:  suggestuc.New(nil),
		Health:   healthuc.New(store, nil),
	}
	ro := RouterOptions{Tokens: tokens, AllowedOrigins: []string{"http://localhost:5173"}}
	for _, o := range opts {
		o(&ro, &svc)
	}

	return &testAPI{handler: NewRouter(NewServer(svc, zap.NewNop()), ro), store: store}
}

func seedCatalog(t *testing.T, ctx context.Context, repo *catalogrepo.Repo) {
	t.Helper()
	islay := domcat.Distillery{
		ID: "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa", Slug: "laphroaig", Name: "Laphroaig",
		Region: "Islay", Country: "Scotland", History: "Founded on the shore of Loch Laphroaig.",
	}
	speyside := domcat.Distillery{
		ID: "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb", Slug: "macallan", Name: "Macallan",
		Region: "Speyside", Country: "Scotland",
	}
	if err := repo.SaveDistilleries(ctx, []domcat.Distillery{islay, speyside}); err != nil {
		t.Fatal(err)
	}
	whiskies := []domcat.Whisky{
		{
			ID: laphroaigID, Slug: "laphroaig-10", Name: "Laphroaig 10", Distillery: islay.Summary(),
			Region: "Islay", Country: "Scotland",
			Flavor: flavor.FromMap(map[string]int{"smoky_peaty": 5, "medicinal_iodine": 5, "maritime": 4}),
		},
		{
			ID: macallanID, Slug: "macallan-12-sherry", Name: "Macallan 12 Sherry Oak", Distillery: speyside.Summary(),
			Region: "Speyside", Country: "Scotland",
			Flavor: flavor.FromMap(map[string]int{"sherried": 5, "fruity": 4, "spicy": 3}),
		},
		{
			ID: glenlivetID, Slug: "glenlivet-12", Name: "Glenlivet 12",
			Region: "Speyside", Country: "Scotland",
			Flavor: flavor.FromMap(map[string]int{"fruity": 4, "floral_grassy": 4, "honey_sweet": 3}),
		},
	}
	if err := repo.SaveWhiskies(ctx, whiskies); err != nil {
		t.Fatal(err)
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}

func (a *testAPI) register(t *testing.T, email string) AuthResponse {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/v1/auth/register", "",
		RegisterRequest{Email: email, Password: "whisky123"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: got %d: %s", rr.Code, rr.Body)
	}
	return decode[AuthResponse](t, rr)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v", v, err)
	}
	return v
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorResponseCode) ErrorResponse {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status: got %d, want %d: %s", rr.Code, status, rr.Body)
	}
	e := decode[ErrorResponse](t, rr)
	if e.Code != code {
		t.Errorf("code: got %s, want %s (%s)", e.Code, code, e.Message)
	}
	return e
}

func createBottle(t *testing.T, a *testAPI, token string, req BottleRequest) BottleResponse {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/v1/bottles", token, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create bottle: got %d: %s", rr.Code, rr.Body)
	}
	return decode[BottleResponse](t, rr)
}

type stubSuggester struct {
	profile flavor.Vector
	err     error
}

func (s stubSuggester) Suggest(context.Context, string) (flavor.Suggestion, error) {
	return flavor.Suggestion{Profile: s.profile}, s.err
}

// --- Health ---

func TestHealth_Liveness(t *testing.T) {
	a := newTestAPI(t)
	rr := a.do(t, http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
	if got := decode[HealthResponse](t, rr); got.Status != "ok" {
		t.Errorf("status: got %q", got.Status)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestHealth_ReadyDegraded(t *testing.T) {
	a := newTestAPI(t)
	if rr := a.do(t, http.MethodGet, "/ready", "", nil); rr.Code != http.StatusOK {
		t.Fatalf("healthy store: got %d", rr.Code)
	}

	a.store.Err = errors.New("connection refused")
	rr := a.do(t, http.MethodGet, "/ready", "", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want 503", rr.Code)
	}
	got := decode[HealthResponse](t, rr)
	if got.Status != "degraded" || got.Checks["database"] != "error" {
		t.Errorf("unexpected report: %+v", got)
	}
}

// --- Auth ---

func TestAuth_RegisterLoginMe(t *testing.T) {
	a := newTestAPI(t)
	reg := a.register(t, "alice@example.com")
	if reg.TokenType != "bearer" || reg.ExpiresIn != 1800 || reg.RefreshToken == nil {
		t.Fatalf("unexpected register response: %+v", reg)
	}

	rr := a.do(t, http.MethodPost, "/api/v1/auth/login", "",
		LoginRequest{Email: "alice@example.com", Password: "whisky123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: got %d: %s", rr.Code, rr.Body)
	}
	login := decode[AuthResponse](t, rr)

	rr = a.do(t, http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: got %d", rr.Code)
	}
	if me := decode[UserResponse](t, rr); me.Email != "alice@example.com" || me.ID != reg.User.ID {
		t.Errorf("unexpected user: %+v", me)
	}
}

func TestAuth_Errors(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "bob@example.com")

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		code   ErrorResponseCode
	}{
		{"duplicate email", "/api/v1/auth/register",
			RegisterRequest{Email: "BOB@example.com", Password: "whisky123"}, http.StatusConflict, ErrorResponseCodeEmailTaken},
		{"short password", "/api/v1/auth/register",
			RegisterRequest{Email: "carol@example.com", Password: "short1"}, http.StatusBadRequest, ErrorResponseCodeValidationFailed},
		{"no digit", "/api/v1/auth/register",
			RegisterRequest{Email: "carol@example.com", Password: "onlyletters"}, http.StatusBadRequest, ErrorResponseCodeValidationFailed},
		{"wrong password", "/api/v1/auth/login",
			LoginRequest{Email: "bob@example.com", Password: "nope12345"}, http.StatusUnauthorized, ErrorResponseCodeInvalidCredentials},
		{"unknown email", "/api/v1/auth/login",
			LoginRequest{Email: "nobody@example.com", Password: "whisky123"}, http.StatusUnauthorized, ErrorResponseCodeInvalidCredentials},
		{"garbage refresh", "/api/v1/auth/refresh",
			RefreshRequest{RefreshToken: "not-a-token"}, http.StatusUnauthorized, ErrorResponseCodeUnauthorized},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, a.do(t, http.MethodPost, tt.path, "", tt.body), tt.status, tt.code)
		})
	}
}

func TestAuth_ValidationErrorNamesField(t *testing.T) {
	a := newTestAPI(t)
	rr := a.do(t, http.MethodPost, "/api/v1/auth/register", "",
		RegisterRequest{Email: "not-an-email", Password: "whisky123"})
	e := expectError(t, rr, http.StatusBadRequest, ErrorResponseCodeValidationFailed)
	if e.Field == nil || *e.Field != "email" {
		t.Errorf("field: got %v, want email", e.Field)
	}
}

func TestAuth_MalformedBody(t *testing.T) {
	a := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	expectError(t, rr, http.StatusBadRequest, ErrorResponseCodeBadRequest)
}

func TestAuth_Refresh(t *testing.T) {
	a := newTestAPI(t)
	reg := a.register(t, "dave@example.com")

	rr := a.do(t, http.MethodPost, "/api/v1/auth/refresh", "", RefreshRequest{RefreshToken: *reg.RefreshToken})
	if rr.Code != http.StatusOK {
		t.Fatalf("refresh: got %d: %s", rr.Code, rr.Body)
	}
	got := decode[AuthResponse](t, rr)
	if got.AccessToken == "" || got.RefreshToken != nil {
		t.Errorf("unexpected refresh response: %+v", got)
	}

	// An access token is not a refresh token.
	rr = a.do(t, http.MethodPost, "/api/v1/auth/refresh", "", RefreshRequest{RefreshToken: reg.AccessToken})
	expectError(t, rr, http.StatusUnauthorized, ErrorResponseCodeUnauthorized)
}

func TestAuth_ChangePasswordAndLogout(t *testing.T) {
	a := newTestAPI(t)
	reg := a.register(t, "erin@example.com")

	rr := a.do(t, http.MethodPut, "/api/v1/auth/password", reg.AccessToken,
		ChangePasswordRequest{CurrentPassword: "wrong1234", NewPassword: "newpass123"})
	e := expectError(t, rr, http.StatusBadRequest, ErrorResponseCodeValidationFailed)
	if e.Field == nil || *e.Field != "current_password" {
		t.Errorf("field: got %v", e.Field)
	}

	rr = a.do(t, http.MethodPut, "/api/v1/auth/password", reg.AccessToken,
		ChangePasswordRequest{CurrentPassword: "whisky123", NewPassword: "newpass123"})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("change password: got %d: %s", rr.Code, rr.Body)
	}

	rr = a.do(t, http.MethodPost, "/api/v1/auth/login", "",
		LoginRequest{Email: "erin@example.com", Password: "newpass123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login with new password: got %d", rr.Code)
	}

	if rr := a.do(t, http.MethodPost, "/api/v1/auth/logout", reg.AccessToken, nil); rr.Code != http.StatusNoContent {
		t.Errorf("logout: got %d", rr.Code)
	}
}

func TestAuth_PasswordResetAlwaysAccepted(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "frank@example.com")

	for _, email := range []string{"frank@example.com", "ghost@example.com"} {
		rr := a.do(t, http.MethodPost, "/api/v1/auth/password/reset", "", PasswordResetRequest{Email: email})
		if rr.Code != http.StatusAccepted {
			t.Errorf("%s: got %d", email, rr.Code)
		}
	}
}

func TestAuth_ProtectedRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)
	for _, path := range []string{"/api/v1/bottles", "/api/v1/wishlist", "/api/v1/profile/taste", "/api/v1/auth/me"} {
		expectError(t, a.do(t, http.MethodGet, path, "", nil), http.StatusUnauthorized, ErrorResponseCodeUnauthorized)
	}
	expectError(t, a.do(t, http.MethodGet, "/api/v1/bottles", "garbage", nil),
		http.StatusUnauthorized, ErrorResponseCodeUnauthorized)
}

func TestAuth_RegisterRateLimited(t *testing.T) {
	a := newTestAPI(t, withRateLimits(RateLimits{RegisterPerHour: 2}))
	a.register(t, "r1@example.com")
	a.register(t, "r2@example.com")

	rr := a.do(t, http.MethodPost, "/api/v1/auth/register", "",
		RegisterRequest{Email: "r3@example.com", Password: "whisky123"})
	expectError(t, rr, http.StatusTooManyRequests, ErrorResponseCodeRateLimited)
}

// --- Bottles ---

func TestBottles_CRUD(t *testing.T) {
	a := newTestAPI(t)
	tok := a.register(t, "owner@example.com").AccessToken

	age := 10
	created := createBottle(t, a, tok, BottleRequest{
		Name: "Laphroaig 10", DistilleryName: "laphroaig", AgeStatement: &age,
		Region: "Islay", Country: "Scotland",
		FlavorProfile: map[string]int{"smoky_peaty": 5, "medicinal_iodine": 4},
		PurchaseDate:  &Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	})
	if created.Status != "sealed" {
		t.Errorf("default status: got %q", created.Status)
	}
	if created.DistilleryID == nil || *created.DistilleryID != "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa" {
		t.Errorf("distillery not linked: %v", created.DistilleryID)
	}

	path := "/api/v1/bottles/" + created.ID
	rr := a.do(t, http.MethodGet, path, tok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: got %d", rr.Code)
	}
	if got := decode[BottleResponse](t, rr); got.PurchaseDate == nil || got.PurchaseDate.Format(dateLayout) != "2024-03-01" {
		t.Errorf("purchase date: got %v", got.PurchaseDate)
	}

	rating, status := 4, "opened"
	rr = a.do(t, http.MethodPut, path, tok, BottleUpdateRequest{Rating: &rating, Status: &status})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d: %s", rr.Code, rr.Body)
	}
	if got := decode[BottleResponse](t, rr); got.Status != "opened" || got.Rating == nil || *got.Rating != 4 || got.Name != "Laphroaig 10" {
		t.Errorf("unexpected update result: %+v", got)
	}

	other := a.register(t, "intruder@example.com").AccessToken
	expectError(t, a.do(t, http.MethodGet, path, other, nil), http.StatusNotFound, ErrorResponseCodeBottleNotFound)

	if rr := a.do(t, http.MethodDelete, path, tok, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d", rr.Code)
	}
	expectError(t, a.do(t, http.MethodGet, path, tok, nil), http.StatusNotFound, ErrorResponseCodeBottleNotFound)
	expectError(t, a.do(t, http.MethodGet, "/api/v1/bottles/not-a-uuid", tok, nil),
		http.StatusNotFound, ErrorResponseCodeBottleNotFound)
}

func TestBottles_Validation(t *testing.T) {
	a := newTestAPI(t)
	tok := a.register(t, "v@example.com").AccessToken

	rating := 9
	tests := []struct {
		name  string
		req   BottleRequest
		field string
	}{
		{"missing name", BottleRequest{DistilleryName: "X", Region: "Islay", Country: "Scotland"}, "name"},
		{"bad rating", BottleRequest{Name: "A", DistilleryName: "X", Region: "Islay", Country: "Scotland", Rating: &rating}, "rating"},
		{"bad status", BottleRequest{Name: "A", DistilleryName: "X", Region: "Islay", Country: "Scotland", Status: "drunk"}, "status"},
		{"unknown flavor", BottleRequest{
			Name: "A", DistilleryName: "X", Region: "Islay", Country: "Scotland",
			FlavorProfile: map[string]int{"umami": 3},
		}, "flavor_profile[umami]"},
		{"intensity out of range", BottleRequest{
			Name: "A", DistilleryName: "X", Region: "Islay", Country: "Scotland",
			FlavorProfile: map[string]int{"fruity": 6},
		}, "flavor_profile[fruity]"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			e := expectError(t, a.do(t, http.MethodPost, "/api/v1/bottles", tok, tt.req),
				http.StatusBadRequest, ErrorResponseCodeValidationFailed)
			if e.Field == nil || *e.Field != tt.field {
				t.Errorf("field: got %v, want %s", e.Field, tt.field)
			}
		})
	}

	created := createBottle(t, a, tok, BottleRequest{Name: "A", DistilleryName: "X", Region: "Islay", Country: "Scotland"})
	expectError(t, a.do(t, http.MethodPut, "/api/v1/bottles/"+created.ID, tok, BottleUpdateRequest{}),
		http.StatusBadRequest, ErrorResponseCodeValidationFailed)
}

func TestBottles_ListSortAndPaginate(t *testing.T) {
	a := newTestAPI(t)
	tok := a.register(t, "lister@example.com").AccessToken

	for _, name := range []string{"Charlie", "alpha", "Bravo"} {
		createBottle(t, a, tok, BottleRequest{Name: name, DistilleryName: "Indie", Region: "Highland", Country: "Scotland"})
	}
	createBottle(t, a, tok, BottleRequest{
		Name: "Delta", DistilleryName: "Indie", Region: "Islay", Country: "Scotland", Status: "finished",
	})

	rr := a.do(t, http.MethodGet, "/api/v1/bottles?sort=name&order=asc&limit=2", tok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: got %d: %s", rr.Code, rr.Body)
	}
	first := decode[ListResponse[BottleResponse]](t, rr)
	if len(first.Items) != 2 || first.Items[0].Name != "alpha" || first.Items[1].Name != "Bravo" {
		t.Fatalf("unexpected first page: %+v", first.Items)
	}
	if !first.HasMore || first.NextCursor == nil {
		t.Fatal("expected a next cursor")
	}

	rr = a.do(t, http.MethodGet, "/api/v1/bottles?sort=name&order=asc&limit=2&cursor="+*first.NextCursor, tok, nil)
	second := decode[ListResponse[BottleResponse]](t, rr)
	if len(second.Items) != 2 || second.Items[0].Name != "Charlie" || second.HasMore || second.NextCursor != nil {
		t.Fatalf("unexpected second page: %+v", second)
	}

	rr = a.do(t, http.MethodGet, "/api/v1/bottles?region=Islay", tok, nil)
	if got := decode[ListResponse[BottleResponse]](t, rr); len(got.Items) != 1 || got.Items[0].Name != "Delta" {
		t.Errorf("region filter: %+v", got.Items)
	}
	rr = a.do(t, http.MethodGet, "/api/v1/bottles?status=finished", tok, nil)
	if got := decode[ListResponse[BottleResponse]](t, rr); len(got.Items) != 1 {
		t.Errorf("status filter: %+v", got.Items)
	}
	rr = a.do(t, http.MethodGet, "/api/v1/bottles?search=RAV", tok, nil)
	if got := decode[ListResponse[BottleResponse]](t, rr); len(got.Items) != 1 || got.Items[0].Name != "Bravo" {
		t.Errorf("search: %+v", got.Items)
	}

	expectError(t, a.do(t, http.MethodGet, "/api/v1/bottles?sort=price", tok, nil),
		http.StatusBadRequest, ErrorResponseCodeValidationFailed)
	expectError(t, a.do(t, http.MethodGet, "/api/v1/bottles?limit=500", tok, nil),
		http.StatusBadRequest, ErrorResponseCodeValidationFailed)
	expectError(t, a.do(t, http.MethodGet, "/api/v1/bottles?limit=abc", tok, nil),
		http.StatusBadRequest, ErrorResponseCodeBadRequest)
	expectError(t, a.do(t, http.MethodGet, "/api/v1/bottles?cursor=%25%25", tok, nil),
		http.StatusBadRequest, ErrorResponseCodeValidationFailed)
}

func TestBottles_Similar(t *testing.T) {
	a := newTestAPI(t)
	tok := a.register(t, "peat@example.com").AccessToken

	bare := createBottle(t, a, tok, BottleRequest{Name: "Mystery", DistilleryName: "X", Region: "Islay", Country: "Scotland"})
	expectError(t, a.do(t, http.MethodGet, "/api/v1/bottles/"+bare.ID+"/similar", tok, nil),
		http.StatusBadRequest, ErrorResponseCodeNoFlavorProfile)

	zero := createBottle(t, a, tok, BottleRequest{
		Name: "Flat", DistilleryName: "X", Region: "Islay", Country: "Scotland",
		FlavorProfile: map[string]int{"fruity": 0},
	})
	expectError(t, a.do(t, http.MethodGet, "/api/v1/bottles/"+zero.ID+"/similar", tok, nil),
		http.StatusBadRequest, ErrorResponseCodeNoFlavorProfile)

	peated := createBottle(t, a, tok, BottleRequest{
		Name: "Peat Monster", DistilleryName: "X", Region: "Islay", Country: "Scotland",
		FlavorProfile: map[string]int{"smoky_peaty": 5, "medicinal_iodine": 4, "maritime": 4},
	})
	rr := a.do(t, http.MethodGet, "/api/v1/bottles/"+peated.ID+"/similar?limit=2", tok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("similar: got %d: %s", rr.Code, rr.Body)
	}
	got := decode[ItemsResponse[SimilarWhiskyResponse]](t, rr)
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if got.Items[0].Whisky.Slug != "laphroaig-10" {
		t.Errorf("expected laphroaig-10 first, got %s", got.Items[0].Whisky.Slug)
	}
	if got.Items[0].SimilarityScore < got.Items[1].SimilarityScore {
		t.Error("scores not descending")
	}
	for _, it := range got.Items {
		if it.SimilarityScore != round3(it.SimilarityScore) {
			t.Errorf("score %v not rounded to 3 decimals", it.SimilarityScore)
		}
	}

	expectError(t, a.do(t, http.MethodGet, "/api/v1/bottles/"+peated.ID+"/similar?limit=51", tok, nil),
		http.StatusBadRequest, ErrorResponseCodeValidationFailed)
}

// --- Catalog ---

func TestCatalog_PublicListing(t *testing.T) {
	a := newTestAPI(t)

	rr := a.do(t, http.MethodGet, "/api/v1/whiskies", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body)
	}
	got := decode[ListResponse[WhiskyResponse]](t, rr)
	want := []string{"glenlivet-12", "laphroaig-10", "macallan-12-sherry"}
	if len(got.Items) != len(want) {
		t.Fatalf("got %d whiskies", len(got.Items))
	}
	for i, slug := range want {
		if got.Items[i].Slug != slug {
			t.Errorf("item %d: got %s, want %s", i, got.Items[i].Slug, slug)
		}
	}
	if got.Items[0].Distillery != nil {
		t.Error("glenlivet-12 has no distillery in the fixture")
	}

	rr = a.do(t, http.MethodGet, "/api/v1/whiskies?flavor=fruity", "", nil)
	if got := decode[ListResponse[WhiskyResponse]](t, rr); len(got.Items) != 2 {
		t.Errorf("flavor filter: got %d", len(got.Items))
	}
	rr = a.do(t, http.MethodGet, "/api/v1/whiskies?distillery=laphroaig", "", nil)
	if got := decode[ListResponse[WhiskyResponse]](t, rr); len(got.Items) != 1 {
		t.Errorf("distillery filter: got %d", len(got.Items))
	}
	expectError(t, a.do(t, http.MethodGet, "/api/v1/whiskies?flavor=umami", "", nil),
		http.StatusBadRequest, ErrorResponseCodeValidationFailed)
}

func TestCatalog_Lookups(t *testing.T) {
	a := newTestAPI(t)

	rr := a.do(t, http.MethodGet, "/api/v1/whiskies/laphroaig-10", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get whisky: got %d", rr.Code)
	}
	if w := decode[WhiskyResponse](t, rr); w.FlavorProfile["smoky_peaty"] != 5 || len(w.FlavorProfile) != flavor.NumDimensions {
		t.Errorf("unexpected profile: %v", w.FlavorProfile)
	}
	expectError(t, a.do(t, http.MethodGet, "/api/v1/whiskies/nope", "", nil),
		http.StatusNotFound, ErrorResponseCodeWhiskyNotFound)
	expectError(t, a.do(t, http.MethodGet, "/api/v1/whiskies/Bad_Slug", "", nil),
		http.StatusNotFound, ErrorResponseCodeWhiskyNotFound)

	rr = a.do(t, http.MethodGet, "/api/v1/distilleries/laphroaig", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get distillery: got %d", rr.Code)
	}
	if d := decode[DistilleryDetail](t, rr); d.History == nil || d.Owner != nil {
		t.Errorf("unexpected detail: %+v", d)
	}
	expectError(t, a.do(t, http.MethodGet, "/api/v1/distilleries/ardbeg", "", nil),
		http.StatusNotFound, ErrorResponseCodeDistilleryNotFound)

	rr = a.do(t, http.MethodGet, "/api/v1/distilleries?region=speyside", "", nil)
	if got := decode[ListResponse[DistillerySummary]](t, rr); len(got.Items) != 1 || got.Items[0].Slug != "macallan" {
		t.Errorf("distillery filter: %+v", got.Items)
	}
	rr = a.do(t, http.MethodGet, "/api/v1/distilleries/macallan/whiskies", "", nil)
	if got := decode[ListResponse[WhiskyResponse]](t, rr); len(got.Items) != 1 || got.Items[0].ID != macallanID {
		t.Errorf("distillery whiskies: %+v", got.Items)
	}
}

func TestCatalog_SimilarToProfile(t *testing.T) {
	a := newTestAPI(t)

	limit := 1
	rr := a.do(t, http.MethodPost, "/api/v1/whiskies/similar", "",
		SimilarRequest{FlavorProfile: map[string]int{"sherried": 5, "fruity": 4}, Limit: &limit})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body)
	}
	got := decode[ItemsResponse[SimilarWhiskyResponse]](t, rr)
	if len(got.Items) != 1 || got.Items[0].Whisky.ID != macallanID {
		t.Errorf("unexpected ranking: %+v", got.Items)
	}

	rr = a.do(t, http.MethodPost, "/api/v1/whiskies/similar", "",
		SimilarRequest{FlavorProfile: map[string]int{"sherried": 0}})
	e := expectError(t, rr, http.StatusBadRequest, ErrorResponseCodeValidationFailed)
	if e.Field == nil || *e.Field != "flavor_profile" {
		t.Errorf("field: got %v", e.Field)
	}
}

// --- Wishlist ---

func TestWishlist_Flow(t *testing.T) {
	a := newTestAPI(t)
	tok := a.register(t, "wish@example.com").AccessToken

	notes := "birthday"
	rr := a.do(t, http.MethodPost, "/api/v1/wishlist", tok, WishlistItemRequest{ReferenceWhiskyID: macallanID, Notes: &notes})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add: got %d: %s", rr.Code, rr.Body)
	}
	item := decode[WishlistItemResponse](t, rr)
	if item.Whisky.Slug != "macallan-12-sherry" || item.Notes == nil || *item.Notes != notes {
		t.Errorf("unexpected item: %+v", item)
	}

	expectError(t, a.do(t, http.MethodPost, "/api/v1/wishlist", tok, WishlistItemRequest{ReferenceWhiskyID: macallanID}),
		http.StatusConflict, ErrorResponseCodeAlreadyExists)
	expectError(t, a.do(t, http.MethodPost, "/api/v1/wishlist", tok, WishlistItemRequest{ReferenceWhiskyID: unknownWhisk}),
		http.StatusNotFound, ErrorResponseCodeWhiskyNotFound)

	rr = a.do(t, http.MethodPost, "/api/v1/wishlist", tok, WishlistItemRequest{ReferenceWhiskyID: laphroaigID})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add second: got %d", rr.Code)
	}

	rr = a.do(t, http.MethodGet, "/api/v1/wishlist", tok, nil)
	list := decode[ListResponse[WishlistItemResponse]](t, rr)
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.Items))
	}

	if rr := a.do(t, http.MethodDelete, "/api/v1/wishlist/"+item.ID, tok, nil); rr.Code != http.StatusNoContent {
		t.Fatalf("remove: got %d", rr.Code)
	}
	expectError(t, a.do(t, http.MethodDelete, "/api/v1/wishlist/"+item.ID, tok, nil),
		http.StatusNotFound, ErrorResponseCodeWishlistItemNotFound)
}

// --- Profile ---

func TestProfile_Taste(t *testing.T) {
	a := newTestAPI(t)
	tok := a.register(t, "taster@example.com").AccessToken

	rr := a.do(t, http.MethodGet, "/api/v1/profile/taste", tok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("empty collection: got %d", rr.Code)
	}
	empty := decode[TasteProfileResponse](t, rr)
	if empty.TotalBottles != 0 || len(empty.Recommendations) != 0 || len(empty.DominantFlavors) != 0 {
		t.Errorf("unexpected empty report: %+v", empty)
	}

	createBottle(t, a, tok, BottleRequest{
		Name: "Peat A", DistilleryName: "X", Region: "Islay", Country: "Scotland",
		FlavorProfile: map[string]int{"smoky_peaty": 5, "maritime": 3},
	})
	createBottle(t, a, tok, BottleRequest{
		Name: "Peat B", DistilleryName: "X", Region: "Islay", Country: "Scotland",
		FlavorProfile: map[string]int{"smoky_peaty": 4, "medicinal_iodine": 4},
	})
	createBottle(t, a, tok, BottleRequest{Name: "Unknown", DistilleryName: "X", Region: "Speyside", Country: "Scotland"})

	rr = a.do(t, http.MethodGet, "/api/v1/profile/taste", tok, nil)
	got := decode[TasteProfileResponse](t, rr)
	if got.TotalBottles != 3 || got.BottlesWithProfiles != 2 {
		t.Errorf("counts: %+v", got)
	}
	if got.AverageProfile["smoky_peaty"] != 4.5 {
		t.Errorf("smoky_peaty average: got %v", got.AverageProfile["smoky_peaty"])
	}
	if len(got.DominantFlavors) == 0 || got.DominantFlavors[0].Flavor != "smoky_peaty" {
		t.Errorf("dominant flavors: %+v", got.DominantFlavors)
	}
	if got.RegionDistribution["Islay"] != 2 || got.RegionDistribution["Speyside"] != 1 {
		t.Errorf("regions: %v", got.RegionDistribution)
	}
	if len(got.Recommendations) != 3 || got.Recommendations[0].Whisky.Slug != "laphroaig-10" {
		t.Errorf("recommendations: %+v", got.Recommendations)
	}
}

// --- Suggest ---

func TestSuggest_Disabled(t *testing.T) {
	a := newTestAPI(t)
	tok := a.register(t, "s@example.com").AccessToken
	expectError(t, a.do(t, http.MethodPost, "/api/v1/flavor/suggest", tok, SuggestRequest{TastingNotes: "peat"}),
		http.StatusNotImplemented, ErrorResponseCodeNotImplemented)
}

func TestSuggest_Enabled(t *testing.T) {
	v := flavor.FromMap(map[string]int{"smoky_peaty": 5})
	a := newTestAPI(t, withSuggester(flavor.NewClampingSuggester(stubSuggester{profile: v})))
	tok := a.register(t, "s@example.com").AccessToken

	rr := a.do(t, http.MethodPost, "/api/v1/flavor/suggest", tok, SuggestRequest{TastingNotes: "bonfire and iodine"})
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rr.Code, rr.Body)
	}
	if got := decode[SuggestResponse](t, rr); got.FlavorProfile["smoky_peaty"] != 5 {
		t.Errorf("unexpected profile: %v", got.FlavorProfile)
	}

	expectError(t, a.do(t, http.MethodPost, "/api/v1/flavor/suggest", tok, SuggestRequest{TastingNotes: "   "}),
		http.StatusBadRequest, ErrorResponseCodeValidationFailed)
}

func TestSuggest_ProviderFailure(t *testing.T) {
	a := newTestAPI(t, withSuggester(stubSuggester{err: fmt.Errorf("%w: upstream 500", domain.ErrSuggestProviderError)}))
	tok := a.register(t, "s@example.com").AccessToken
	expectError(t, a.do(t, http.MethodPost, "/api/v1/flavor/suggest", tok, SuggestRequest{TastingNotes: "peat"}),
		http.StatusBadGateway, ErrorResponseCodeSuggestProviderError)
}

// --- Misc ---

func TestCORS_Preflight(t *testing.T) {
	a := newTestAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bottles", http.NoBody)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allow origin: got %q", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	a := newTestAPI(t)
	expectError(t, a.do(t, http.MethodGet, "/api/v1/whiskies/a/b/c", "", nil), http.StatusNotFound, ErrorResponseCodeNotFound)
}

func TestRound3_TiesToEven(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.0625, 0.062},
		{0.1875, 0.188},
		{0.33333, 0.333},
		{1, 1},
	}
	for _, tt := range tests {
		if got := round3(tt.in); got != tt.want {
			t.Errorf("round3(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
