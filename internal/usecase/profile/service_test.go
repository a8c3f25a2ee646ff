package profile

import (
	"context"
	"errors"
	"testing"

	dombottle "github.com/kailas-cloud/caskbook/internal/domain/bottle"
	domcat "github.com/kailas-cloud/caskbook/internal/domain/catalog"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

// --- Mocks ---

type mockBottles struct {
	bottles []dombottle.Bottle
	err     error
}

func (m *mockBottles) ListAll(_ context.Context, _ string) ([]dombottle.Bottle, error) {
	return m.bottles, m.err
}

type mockSnapshots struct {
	snap *domcat.Snapshot
	err  error
}

func (m *mockSnapshots) Snapshot(_ context.Context) (*domcat.Snapshot, error) { return m.snap, m.err }

// --- Helpers ---

func profile(m map[string]int) *flavor.Vector {
	v := flavor.FromMap(m)
	return &v
}

func catalogOf(n int) *domcat.Snapshot {
	snap := &domcat.Snapshot{}
	for i := 0; i < n; i++ {
		snap.Whiskies = append(snap.Whiskies, domcat.Whisky{
			ID:     string(rune('a' + i)),
			Flavor: flavor.FromMap(map[string]int{"smoky_peaty": i % 6, "fruity": 5 - i%6}),
		})
	}
	return snap
}

var scorer = flavor.NewScorer(flavor.DefaultWeights())

// --- Tests ---

func TestTaste_Report(t *testing.T) {
	bottles := []dombottle.Bottle{
		{Attributes: dombottle.Attributes{Region: "Islay", Flavor: profile(map[string]int{"smoky_peaty": 5, "maritime": 4})}},
		{Attributes: dombottle.Attributes{Region: "Islay", Flavor: profile(map[string]int{"smoky_peaty": 4, "maritime": 2})}},
		{Attributes: dombottle.Attributes{Region: "Speyside"}},
	}
	svc := New(&mockBottles{bottles: bottles}, &mockSnapshots{snap: catalogOf(10)}, scorer)

	r, err := svc.Taste(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Summary.TotalBottles != 3 || r.Summary.BottlesWithProfiles != 2 {
		t.Errorf("unexpected counts: %+v", r.Summary)
	}
	if r.Summary.CategoryDistribution["Islay"] != 2 || r.Summary.CategoryDistribution["Speyside"] != 1 {
		t.Errorf("unexpected distribution: %v", r.Summary.CategoryDistribution)
	}
	if len(r.Summary.DominantFlavors) != 2 || r.Summary.DominantFlavors[0].Flavor != flavor.SmokyPeaty {
		t.Errorf("unexpected dominant flavors: %+v", r.Summary.DominantFlavors)
	}
	if len(r.Recommendations) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(r.Recommendations))
	}
	for i := 1; i < len(r.Recommendations); i++ {
		if r.Recommendations[i].Score > r.Recommendations[i-1].Score {
			t.Fatal("recommendations must be ordered by descending score")
		}
	}
}

func TestTaste_NoSignal(t *testing.T) {
	zero := flavor.Vector{}
	bottles := []dombottle.Bottle{
		{Attributes: dombottle.Attributes{Region: "Highland", Flavor: &zero}},
		{Attributes: dombottle.Attributes{Region: "Highland"}},
	}
	svc := New(&mockBottles{bottles: bottles}, &mockSnapshots{snap: catalogOf(10)}, scorer)

	r, err := svc.Taste(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Summary.BottlesWithProfiles != 0 || len(r.Recommendations) != 0 || r.Recommendations == nil {
		t.Errorf("expected empty non-nil recommendations, got %+v", r)
	}
	if r.Summary.CategoryDistribution["Highland"] != 2 {
		t.Errorf("distribution must count every bottle: %v", r.Summary.CategoryDistribution)
	}
}

func TestTaste_EmptyCollection(t *testing.T) {
	svc := New(&mockBottles{}, &mockSnapshots{snap: &domcat.Snapshot{}}, scorer)

	r, err := svc.Taste(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Summary.TotalBottles != 0 || len(r.Recommendations) != 0 {
		t.Errorf("unexpected report: %+v", r)
	}
}

func TestTaste_Errors(t *testing.T) {
	boom := errors.New("boom")

	svc := New(&mockBottles{err: boom}, &mockSnapshots{snap: catalogOf(1)}, scorer)
	if _, err := svc.Taste(context.Background(), "u1"); !errors.Is(err, boom) {
		t.Errorf("expected bottle error, got %v", err)
	}

	svc = New(&mockBottles{}, &mockSnapshots{err: boom}, scorer)
	if _, err := svc.Taste(context.Background(), "u1"); !errors.Is(err, boom) {
		t.Errorf("expected catalog error, got %v", err)
	}
}

func TestSamples(t *testing.T) {
	zero := flavor.Vector{}
	got := Samples([]dombottle.Bottle{
		{Attributes: dombottle.Attributes{Region: "Islay", Flavor: &zero}},
		{Attributes: dombottle.Attributes{Region: "Islay"}},
	})
	if !got[0].HasProfile || got[1].HasProfile {
		t.Errorf("unexpected HasProfile flags: %+v", got)
	}
}
