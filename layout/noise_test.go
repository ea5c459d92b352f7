package layout

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/tsawler/pagemd/model"
)

// Helper to build n pages where banner appears in the header on the pages
// for which has returns true
func makeBannerPages(n int, banner string, has func(i int) bool) []*model.Page {
	pages := make([]*model.Page, 0, n)
	for i := 0; i < n; i++ {
		blocks := []model.Block{
			makeTextBlock(400, 420, makeLine(fmt.Sprintf("Body text for page %d.", i+1), 12)),
			makeTextBlock(760, 780, makeLine(fmt.Sprintf("%d", i+1), 9)),
		}
		if has(i) {
			blocks = append([]model.Block{makeTextBlock(20, 40, makeLine(banner, 9))}, blocks...)
		}
		pages = append(pages, makePage(i+1, blocks...))
	}
	return pages
}

func TestNoiseDetector_NoPages(t *testing.T) {
	set := NewNoiseDetector().Detect(nil)
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %v", set.Strings())
	}
}

func TestNoiseDetector_TooFewPages(t *testing.T) {
	pages := makeBannerPages(2, "Company Confidential", func(int) bool { return true })

	set := NewNoiseDetector().Detect(pages)
	if set.Len() != 0 {
		t.Errorf("expected no noise below MinPages, got %v", set.Strings())
	}
}

func TestNoiseDetector_RepeatedHeader(t *testing.T) {
	// Present on 18 of 20 pages
	pages := makeBannerPages(20, "Company Confidential", func(i int) bool { return i%10 != 3 })

	set := NewNoiseDetector().Detect(pages)
	if !set.Contains("Company Confidential") {
		t.Fatalf("expected banner to be noise, got %v", set.Strings())
	}
	if set.Len() != 1 {
		t.Errorf("expected only the banner, got %v", set.Strings())
	}

	// The banner never reaches any page's output
	for _, content := range processPages(pages) {
		for _, e := range content.Elements {
			if e.Content == "Company Confidential" {
				t.Errorf("page %d still contains the banner", content.Number)
			}
		}
	}
}

func TestNoiseDetector_FrequencyIsStrict(t *testing.T) {
	tests := []struct {
		name    string
		present int
		want    bool
	}{
		{"exactly sixty percent", 12, false},
		{"above sixty percent", 13, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := makeBannerPages(20, "Draft", func(i int) bool { return i < tt.present })
			if got := NewNoiseDetector().Detect(pages).Contains("Draft"); got != tt.want {
				t.Errorf("Contains(Draft) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoiseDetector_Footer(t *testing.T) {
	var pages []*model.Page
	for i := 1; i <= 5; i++ {
		pages = append(pages, makePage(i,
			makeTextBlock(300, 320, makeLine(fmt.Sprintf("Unique body %d", i), 12)),
			makeTextBlock(750, 770, makeLine("ACME Corp Annual Report", 8)),
		))
	}

	set := NewNoiseDetector().Detect(pages)
	if !set.Contains("ACME Corp Annual Report") {
		t.Errorf("expected footer to be noise, got %v", set.Strings())
	}
	if set.Contains("Unique body 1") {
		t.Error("body text flagged as noise")
	}
}

func TestNoiseDetector_LineLevelCandidates(t *testing.T) {
	var pages []*model.Page
	for i := 1; i <= 4; i++ {
		var header *model.TextBlock
		if i%2 == 0 {
			header = makeTextBlock(20, 50, makeLine("ACME Corp", 9), makeLine(fmt.Sprintf("Chapter %d", i), 9))
		} else {
			header = makeTextBlock(20, 35, makeLine("ACME Corp", 9))
		}
		pages = append(pages, makePage(i, header))
	}

	set := NewNoiseDetector().Detect(pages)
	if !set.Contains("ACME Corp") {
		t.Errorf("expected line text to be noise, got %v", set.Strings())
	}
}

func TestNoiseDetector_SamplesEnds(t *testing.T) {
	// 100 pages; the middle banner only appears on pages 21-80, which are
	// never sampled
	pages := makeBannerPages(100, "Middle Only", func(i int) bool { return i >= 20 && i < 80 })

	set := NewNoiseDetector().Detect(pages)
	if set.Contains("Middle Only") {
		t.Error("text outside the sampled pages was flagged")
	}

	pages = makeBannerPages(100, "Everywhere", func(int) bool { return true })
	if !NewNoiseDetector().Detect(pages).Contains("Everywhere") {
		t.Error("expected banner on every page to be noise")
	}
}

func TestNoiseDetector_Deterministic(t *testing.T) {
	var pages []*model.Page
	for i := 1; i <= 6; i++ {
		pages = append(pages, makePage(i,
			makeTextBlock(10, 25, makeLine("Zeta Header", 9)),
			makeTextBlock(30, 45, makeLine("Alpha Header", 9)),
			makeTextBlock(60, 75, makeLine("Middle Header", 9)),
			makeTextBlock(770, 785, makeLine("Footer Text", 9)),
		))
	}

	d := NewNoiseDetector()
	first := d.Detect(pages).Strings()
	for i := 0; i < 10; i++ {
		if again := d.Detect(pages).Strings(); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d = %v, want %v", i, again, first)
		}
	}

	want := []string{"Alpha Header", "Footer Text", "Middle Header", "Zeta Header"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("Strings() = %v, want %v", first, want)
	}
}

func TestNoiseSet(t *testing.T) {
	set := NewNoiseSet(" b ", "a", "", "b")
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
	if !set.Contains("  a") {
		t.Error("Contains should trim its argument")
	}

	strs := set.Strings()
	strs[0] = "mutated"
	if set.Strings()[0] != "a" {
		t.Error("Strings() exposed internal state")
	}
}
