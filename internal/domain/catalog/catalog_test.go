package catalog

import (
	"testing"

	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

func whiskies() []Whisky {
	return []Whisky{
		{ID: "1", Slug: "lagavulin-16", Name: "Lagavulin 16", Region: "Islay",
			Distillery: DistillerySummary{Slug: "lagavulin"},
			Flavor:     flavor.FromMap(map[string]int{"smoky_peaty": 5, "medicinal_iodine": 4})},
		{ID: "2", Slug: "glendronach-18", Name: "GlenDronach 18", Region: "Highland",
			Distillery: DistillerySummary{Slug: "glendronach"},
			Flavor:     flavor.FromMap(map[string]int{"sherried": 5, "smoky_peaty": 2})},
		{ID: "3", Slug: "ardbeg-10", Name: "Ardbeg 10", Region: "Islay",
			Distillery: DistillerySummary{Slug: "ardbeg"},
			Flavor:     flavor.FromMap(map[string]int{"smoky_peaty": 3})},
	}
}

func TestValidSlug(t *testing.T) {
	for s, want := range map[string]bool{
		"ardbeg-10": true, "macallan": true, "Ardbeg": false, "a--b": false, "": false, "-x": false,
	} {
		if got := ValidSlug(s); got != want {
			t.Errorf("ValidSlug(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestSortWhiskies(t *testing.T) {
	ws := whiskies()
	SortWhiskies(ws)
	want := []string{"ardbeg-10", "glendronach-18", "lagavulin-16"}
	for i, slug := range want {
		if ws[i].Slug != slug {
			t.Errorf("pos %d = %s, want %s", i, ws[i].Slug, slug)
		}
	}
}

func TestFilterWhiskies(t *testing.T) {
	tests := []struct {
		name   string
		filter WhiskyFilter
		want   []string
	}{
		{"all", WhiskyFilter{}, []string{"1", "2", "3"}},
		{"region case-insensitive", WhiskyFilter{Region: "islay"}, []string{"1", "3"}},
		{"flavor threshold", WhiskyFilter{Flavor: flavor.SmokyPeaty}, []string{"1", "3"}},
		{"distillery", WhiskyFilter{DistillerySlug: "glendronach"}, []string{"2"}},
		{"search name", WhiskyFilter{Search: "dronach"}, []string{"2"}},
		{"search region", WhiskyFilter{Search: "high"}, []string{"2"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := FilterWhiskies(whiskies(), tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("pos %d = %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}

func TestFilterDistilleries(t *testing.T) {
	ds := []Distillery{
		{Slug: "ardbeg", Name: "Ardbeg", Region: "Islay", Country: "Scotland"},
		{Slug: "yamazaki", Name: "Yamazaki", Region: "Japanese", Country: "Japan"},
	}
	if got := FilterDistilleries(ds, DistilleryFilter{Country: "japan"}); len(got) != 1 || got[0].Slug != "yamazaki" {
		t.Errorf("country filter: %+v", got)
	}
	if got := FilterDistilleries(ds, DistilleryFilter{Search: "ARD"}); len(got) != 1 || got[0].Slug != "ardbeg" {
		t.Errorf("search: %+v", got)
	}
}

func TestSnapshot_EntriesAndLookup(t *testing.T) {
	snap := Snapshot{
		Whiskies:     whiskies(),
		Distilleries: []Distillery{{ID: "d1", Name: "Lagavulin"}},
	}
	entries := snap.Entries()
	if len(entries) != 3 || entries[0].ID != "1" || entries[0].Item.Slug != "lagavulin-16" {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if d, ok := snap.DistilleryByName("LAGAVULIN"); !ok || d.ID != "d1" {
		t.Error("expected case-insensitive match")
	}
	if _, ok := snap.DistilleryByName("Nope"); ok {
		t.Error("unexpected match")
	}
}
