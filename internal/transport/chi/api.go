package chi

import (
	"math"
	"time"

	dombottle "github.com/kailas-cloud/caskbook/internal/domain/bottle"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
	"github.com/kailas-cloud/caskbook/internal/domain/taste"
	domuser "github.com/kailas-cloud/caskbook/internal/domain/user"
	domwish "github.com/kailas-cloud/caskbook/internal/domain/wishlist"
)

// ErrorResponseCode is the machine readable error code in an ErrorResponse.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest           ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed     ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized         ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInvalidCredentials   ErrorResponseCode = "invalid_credentials"
	ErrorResponseCodeNotFound             ErrorResponseCode = "not_found"
	ErrorResponseCodeBottleNotFound       ErrorResponseCode = "bottle_not_found"
	ErrorResponseCodeWhiskyNotFound       ErrorResponseCode = "whisky_not_found"
	ErrorResponseCodeDistilleryNotFound   ErrorResponseCode = "distillery_not_found"
	ErrorResponseCodeWishlistItemNotFound ErrorResponseCode = "wishlist_item_not_found"
	ErrorResponseCodeAlreadyExists        ErrorResponseCode = "already_exists"
	ErrorResponseCodeEmailTaken           ErrorResponseCode = "email_taken"
	ErrorResponseCodeNoFlavorProfile      ErrorResponseCode = "no_flavor_profile"
	ErrorResponseCodeRateLimited          ErrorResponseCode = "rate_limited"
	ErrorResponseCodeSuggestQuotaExceeded ErrorResponseCode = "quota_exceeded"
	ErrorResponseCodeSuggestProviderError ErrorResponseCode = "provider_error"
	ErrorResponseCodeNotImplemented       ErrorResponseCode = "not_implemented"
	ErrorResponseCodeInternalError        ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
	Field   *string           `json:"field,omitempty"`
}

// ListResponse is a cursor paginated listing.
type ListResponse[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// ItemsResponse is an unpaginated listing.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// --- Auth ---

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangePasswordRequest is the body of PUT /auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// PasswordResetRequest is the body of POST /auth/password/reset.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UserResponse describes an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken *string      `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// --- Bottles ---

// BottleRequest is the body of POST /bottles.
type BottleRequest struct {
	Name             string         `json:"name" validate:"required,max=255"`
	DistilleryName   string         `json:"distillery_name" validate:"required,max=255"`
	AgeStatement     *int           `json:"age_statement" validate:"omitempty,gte=0"`
	Region           string         `json:"region" validate:"required,max=100"`
	Country          string         `json:"country" validate:"required,max=100"`
	SizeML           *int           `json:"size_ml" validate:"omitempty,gt=0"`
	ABV              *float64       `json:"abv" validate:"omitempty,gte=0,lte=100"`
	FlavorProfile    map[string]int `json:"flavor_profile" validate:"omitempty,dive,keys,flavor_dimension,endkeys,gte=0,lte=5"`
	TastingNotes     *string        `json:"tasting_notes"`
	Rating           *int           `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Status           string         `json:"status" validate:"omitempty,bottle_status"`
	PurchasePrice    *float64       `json:"purchase_price" validate:"omitempty,gte=0"`
	PurchaseDate     *Date          `json:"purchase_date"`
	PurchaseLocation *string        `json:"purchase_location" validate:"omitempty,max=255"`
}

// BottleUpdateRequest is the body of PUT /bottles/{id}. Omitted fields are unchanged.
type BottleUpdateRequest struct {
	Name             *string        `json:"name" validate:"omitempty,min=1,max=255"`
	DistilleryName   *string        `json:"distillery_name" validate:"omitempty,min=1,max=255"`
	AgeStatement     *int           `json:"age_statement" validate:"omitempty,gte=0"`
	Region           *string        `json:"region" validate:"omitempty,min=1,max=100"`
	Country          *string        `json:"country" validate:"omitempty,min=1,max=100"`
	SizeML           *int           `json:"size_ml" validate:"omitempty,gt=0"`
	ABV              *float64       `json:"abv" validate:"omitempty,gte=0,lte=100"`
	FlavorProfile    map[string]int `json:"flavor_profile" validate:"omitempty,dive,keys,flavor_dimension,endkeys,gte=0,lte=5"`
	TastingNotes     *string        `json:"tasting_notes"`
	Rating           *int           `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Status           *string        `json:"status" validate:"omitempty,bottle_status"`
	PurchasePrice    *float64       `json:"purchase_price" validate:"omitempty,gte=0"`
	PurchaseDate     *Date          `json:"purchase_date"`
	PurchaseLocation *string        `json:"purchase_location" validate:"omitempty,max=255"`
}

// BottleResponse describes a bottle.
type BottleResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	DistilleryName   string         `json:"distillery_name"`
	DistilleryID     *string        `json:"distillery_id"`
	AgeStatement     *int           `json:"age_statement"`
	Region           string         `json:"region"`
	Country          string         `json:"country"`
	SizeML           *int           `json:"size_ml"`
	ABV              *float64       `json:"abv"`
	FlavorProfile    map[string]int `json:"flavor_profile"`
	TastingNotes     *string        `json:"tasting_notes"`
	Rating           *int           `json:"rating"`
	Status           string         `json:"status"`
	PurchasePrice    *float64       `json:"purchase_price"`
	PurchaseDate     *Date          `json:"purchase_date"`
	PurchaseLocation *string        `json:"purchase_location"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// --- Catalog ---

// DistillerySummary is the short distillery form embedded in whiskies.
type DistillerySummary struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// DistilleryDetail is the full distillery form.
type DistilleryDetail struct {
	DistillerySummary
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Founded         *int     `json:"founded"`
	Owner           *string  `json:"owner"`
	History         *string  `json:"history"`
	ProductionNotes *string  `json:"production_notes"`
	Website         *string  `json:"website"`
}

// WhiskyResponse describes a reference whisky.
type WhiskyResponse struct {
	ID            string             `json:"id"`
	Slug          string             `json:"slug"`
	Name          string             `json:"name"`
	Distillery    *DistillerySummary `json:"distillery"`
	AgeStatement  *int               `json:"age_statement"`
	Region        string             `json:"region"`
	Country       string             `json:"country"`
	FlavorProfile map[string]int     `json:"flavor_profile"`
	Description   *string            `json:"description"`
}

// SimilarWhiskyResponse is one ranked whisky.
type SimilarWhiskyResponse struct {
	Whisky          WhiskyResponse `json:"whisky"`
	SimilarityScore float64        `json:"similarity_score"`
}

// SimilarRequest is the body of POST /whiskies/similar.
type SimilarRequest struct {
	FlavorProfile map[string]int `json:"flavor_profile" validate:"required,dive,keys,flavor_dimension,endkeys,gte=0,lte=5"`
	Limit         *int           `json:"limit" validate:"omitempty,gte=1"`
}

// --- Wishlist ---

// WishlistItemRequest is the body of POST /wishlist.
type WishlistItemRequest struct {
	ReferenceWhiskyID string  `json:"reference_whisky_id" validate:"required,uuid"`
	Notes             *string `json:"notes" validate:"omitempty,max=2000"`
}

// WishlistItemResponse describes a wishlist entry.
type WishlistItemResponse struct {
	ID        string         `json:"id"`
	Whisky    WhiskyResponse `json:"whisky"`
	Notes     *string        `json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
}

// --- Profile ---

// DominantFlavorResponse is a dimension with a positive average.
type DominantFlavorResponse struct {
	Flavor           string  `json:"flavor"`
	AverageIntensity float64 `json:"average_intensity"`
}

// TasteProfileResponse is the body of GET /profile/taste.
type TasteProfileResponse struct {
	TotalBottles        int                      `json:"total_bottles"`
	BottlesWithProfiles int                      `json:"bottles_with_profiles"`
	AverageProfile      map[string]float64       `json:"average_profile"`
	DominantFlavors     []DominantFlavorResponse `json:"dominant_flavors"`
	RegionDistribution  map[string]int           `json:"region_distribution"`
	Recommendations     []SimilarWhiskyResponse  `json:"recommendations"`
}

// --- Suggest ---

// SuggestRequest is the body of POST /flavor/suggest.
type SuggestRequest struct {
	TastingNotes string `json:"tasting_notes" validate:"required"`
}

// SuggestResponse carries the proposed profile.
type SuggestResponse struct {
	FlavorProfile map[string]int `json:"flavor_profile"`
}

// --- Health ---

// HealthResponse is the body of GET /ready.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// --- Converters ---

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return &time.ParseError{Layout: dateLayout, Value: s}
	}
	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func userToAPI(u *domuser.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func bottleAttributesFromAPI(req *BottleRequest) dombottle.Attributes {
	a := dombottle.Attributes{
		Name:             req.Name,
		DistilleryName:   req.DistilleryName,
		AgeStatement:     req.AgeStatement,
		Region:           req.Region,
		Country:          req.Country,
		SizeML:           req.SizeML,
		ABV:              req.ABV,
		TastingNotes:     req.TastingNotes,
		Rating:           req.Rating,
		Status:           dombottle.Status(req.Status),
		PurchasePrice:    req.PurchasePrice,
		PurchaseLocation: req.PurchaseLocation,
	}
	if req.FlavorProfile != nil {
		v := flavor.FromMap(req.FlavorProfile)
		a.Flavor = &v
	}
	if req.PurchaseDate != nil {
		t := req.PurchaseDate.Time
		a.PurchaseDate = &t
	}
	return a
}

func bottlePatchFromAPI(req *BottleUpdateRequest) dombottle.Patch {
	p := dombottle.Patch{
		Name:             req.Name,
		DistilleryName:   req.DistilleryName,
		AgeStatement:     req.AgeStatement,
		Region:           req.Region,
		Country:          req.Country,
		SizeML:           req.SizeML,
		ABV:              req.ABV,
		TastingNotes:     req.TastingNotes,
		Rating:           req.Rating,
		PurchasePrice:    req.PurchasePrice,
		PurchaseLocation: req.PurchaseLocation,
	}
	if req.FlavorProfile != nil {
		v := flavor.FromMap(req.FlavorProfile)
		p.Flavor = &v
	}
	if req.Status != nil {
		st := dombottle.Status(*req.Status)
		p.Status = &st
	}
	if req.PurchaseDate != nil {
		t := req.PurchaseDate.Time
		p.PurchaseDate = &t
	}
	return p
}

func bottleToAPI(b *dombottle.Bottle) BottleResponse {
	resp := BottleResponse{
		ID:               b.ID,
		Name:             b.Name,
		DistilleryName:   b.DistilleryName,
		DistilleryID:     optString(b.DistilleryID),
		AgeStatement:     b.AgeStatement,
		Region:           b.Region,
		Country:          b.Country,
		SizeML:           b.SizeML,
		ABV:              b.ABV,
		TastingNotes:     b.TastingNotes,
		Rating:           b.Rating,
		Status:           string(b.Status),
		PurchasePrice:    b.PurchasePrice,
		PurchaseLocation: b.PurchaseLocation,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.Flavor != nil {
		resp.FlavorProfile = b.Flavor.Map()
	}
	if b.PurchaseDate != nil {
		resp.PurchaseDate = &Date{Time: *b.PurchaseDate}
	}
	return resp
}

func distillerySummaryToAPI(d domcat.DistillerySummary) DistillerySummary {
	return DistillerySummary{ID: d.ID, Slug: d.Slug, Name: d.Name, Region: d.Region, Country: d.Country}
}

func distilleryToAPI(d *domcat.Distillery) DistilleryDetail {
	return DistilleryDetail{
		DistillerySummary: distillerySummaryToAPI(d.Summary()),
		Latitude:          d.Latitude,
		Longitude:         d.Longitude,
		Founded:           d.Founded,
		Owner:             optString(d.Owner),
		History:           optString(d.History),
		ProductionNotes:   optString(d.ProductionNotes),
		Website:           optString(d.Website),
	}
}

func whiskyToAPI(w *domcat.Whisky) WhiskyResponse {
	resp := WhiskyResponse{
		ID:            w.ID,
		Slug:          w.Slug,
		Name:          w.Name,
		AgeStatement:  w.AgeStatement,
		Region:        w.Region,
		Country:       w.Country,
		FlavorProfile: w.Flavor.Map(),
		Description:   optString(w.Description),
	}
	if w.Distillery.ID != "" {
		d := distillerySummaryToAPI(w.Distillery)
		resp.Distillery = &d
	}
	return resp
}

func scoredToAPI(ranked []flavor.Scored[domcat.Whisky]) []SimilarWhiskyResponse {
	out := make([]SimilarWhiskyResponse, len(ranked))
	for i := range ranked {
		out[i] = SimilarWhiskyResponse{
			Whisky:          whiskyToAPI(&ranked[i].Entry.Item),
			SimilarityScore: round3(ranked[i].Score),
		}
	}
	return out
}

func wishlistItemToAPI(it *domwish.Item) WishlistItemResponse {
	return WishlistItemResponse{
		ID:        it.ID,
		Whisky:    whiskyToAPI(&it.Whisky),
		Notes:     optString(it.Notes),
		CreatedAt: it.CreatedAt,
	}
}

func tasteToAPI(sum *taste.Summary, recs []flavor.Scored[domcat.Whisky]) TasteProfileResponse {
	dominant := make([]DominantFlavorResponse, len(sum.DominantFlavors))
	for i, d := range sum.DominantFlavors {
		dominant[i] = DominantFlavorResponse{Flavor: string(d.Flavor), AverageIntensity: d.AverageIntensity}
	}
	return TasteProfileResponse{
		TotalBottles:        sum.TotalBottles,
		BottlesWithProfiles: sum.BottlesWithProfiles,
		AverageProfile:      sum.AverageMap(),
		DominantFlavors:     dominant,
		RegionDistribution:  sum.CategoryDistribution,
		Recommendations:     scoredToAPI(recs),
	}
}

func round3(x float64) float64 {
	return math.RoundToEven(x*1000) / 1000
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
