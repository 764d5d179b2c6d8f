package index

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/patterngallery/pattern-search/internal/catalog"
)

// stubSource is a swappable in-memory Source for tests.
type stubSource struct {
	mu       sync.Mutex
	examples []catalog.ExampleRecord
	docs     []catalog.DocRecord
}

func (s *stubSource) Examples() []catalog.ExampleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.ExampleRecord, len(s.examples))
	copy(out, s.examples)
	return out
}

func (s *stubSource) Docs() []catalog.DocRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]catalog.DocRecord, len(s.docs))
	copy(out, s.docs)
	return out
}

func (s *stubSource) swap(examples []catalog.ExampleRecord, docs []catalog.DocRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.examples = examples
	s.docs = docs
}

func galleryFixture() *stubSource {
	return &stubSource{
		examples: []catalog.ExampleRecord{
			{
				ID:          "active-search",
				Title:       "Active Search",
				Description: "search contacts",
				Content:     "datastar search example",
				URL:         "/active-search/",
				Category:    "Search",
			},
			{
				ID:          "click-to-load",
				Title:       "Click to Load",
				Description: "pagination",
				Content:     "load button",
				URL:         "/click-to-load/",
				Category:    "Interactive",
			},
		},
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := New(galleryFixture())

	results := ix.Search("", DefaultLimit)
	if len(results) != 0 {
		t.Fatalf("empty query returned %d results, want 0", len(results))
	}
}

func TestSearchEndToEndScenario(t *testing.T) {
	ix := New(galleryFixture())

	results := ix.Search("search", DefaultLimit)
	if len(results) != 1 {
		t.Fatalf("search(%q) returned %d results, want 1", "search", len(results))
	}
	if results[0].Title != "Active Search" {
		t.Errorf("first result = %q, want %q", results[0].Title, "Active Search")
	}

	results = ix.Search("load", 1)
	if len(results) != 1 {
		t.Fatalf("search(%q, limit=1) returned %d results, want 1", "load", len(results))
	}
	if results[0].Title != "Click to Load" {
		t.Errorf("result = %q, want %q", results[0].Title, "Click to Load")
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	ix := New(galleryFixture())

	lower := ix.Search("search", DefaultLimit)
	upper := ix.Search("Search", DefaultLimit)
	if !reflect.DeepEqual(lower, upper) {
		t.Errorf("case-folded queries disagree:\n lower: %+v\n upper: %+v", lower, upper)
	}
}

func TestSearchTierRanking(t *testing.T) {
	// One entry per tier: the query hits exactly one field in each.
	src := &stubSource{
		examples: []catalog.ExampleRecord{
			{ID: "a", Title: "other", Description: "other", Content: "widget internals"},
			{ID: "b", Title: "other", Description: "widget overview", Content: "other"},
			{ID: "c", Title: "The Widget", Description: "other", Content: "other"},
		},
	}
	ix := New(src)

	results := ix.Search("widget", DefaultLimit)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	if results[0].Title != "The Widget" {
		t.Errorf("title match should rank first, got %q", results[0].Title)
	}
	// Description (50) outranks content (25).
	if results[1].Description != "widget overview" {
		t.Errorf("description match should rank second, got %+v", results[1])
	}
	if results[2].Description != "other" {
		t.Errorf("content match should rank last, got %+v", results[2])
	}
}

func TestSearchScoreBeatsTier(t *testing.T) {
	src := &stubSource{
		examples: []catalog.ExampleRecord{
			// Title hit mid-word: 100, tier 3.
			{ID: "t", Title: "Super Gadget", Description: "x", Content: "y"},
			// Description + content hits: 75, tier 2.
			{ID: "d", Title: "Alpha", Description: "gadget list", Content: "gadget demo"},
		},
	}
	ix := New(src)

	results := ix.Search("gadget", DefaultLimit)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Title != "Super Gadget" {
		t.Errorf("higher score should win regardless of tier, got %q first", results[0].Title)
	}
}

func TestSearchTitleTieBreakAlphabetical(t *testing.T) {
	src := &stubSource{
		examples: []catalog.ExampleRecord{
			{ID: "z", Title: "Zeta Panel", Description: "x", Content: "y"},
			{ID: "b", Title: "Beta Panel", Description: "x", Content: "y"},
			{ID: "m", Title: "Mid Panel", Description: "x", Content: "y"},
		},
	}
	ix := New(src)

	results := ix.Search("panel", DefaultLimit)
	want := []string{"Beta Panel", "Mid Panel", "Zeta Panel"}
	for i, title := range want {
		if results[i].Title != title {
			t.Errorf("results[%d] = %q, want %q", i, results[i].Title, title)
		}
	}
}

func TestSearchLimit(t *testing.T) {
	examples := make([]catalog.ExampleRecord, 20)
	for i := range examples {
		examples[i] = catalog.ExampleRecord{
			ID:      fmt.Sprintf("pattern-%02d", i),
			Title:   fmt.Sprintf("Pattern %02d", i),
			Content: "pattern demo",
		}
	}
	ix := New(&stubSource{examples: examples})

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 5, want: 5},
		{limit: 20, want: 20},
		{limit: 100, want: 20},
		{limit: 0, want: 0},
		{limit: -1, want: 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit_%d", tt.limit), func(t *testing.T) {
			got := ix.Search("pattern", tt.limit)
			if len(got) != tt.want {
				t.Errorf("search with limit %d returned %d results, want %d", tt.limit, len(got), tt.want)
			}
		})
	}
}

func TestResultsNeverExposeContent(t *testing.T) {
	// Result deliberately has no Content field; guard against it sneaking
	// back in via the projection.
	if _, found := reflect.TypeOf(Result{}).FieldByName("Content"); found {
		t.Fatal("Result must not expose entry content")
	}
}

func TestEntriesBuildOrderAndKinds(t *testing.T) {
	src := galleryFixture()
	src.docs = []catalog.DocRecord{
		{Title: "Core Concepts", URL: "/docs/core-concepts/", Category: "Documentation"},
	}
	ix := New(src)

	entries := ix.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Kind != KindExample || entries[2].Kind != KindDoc {
		t.Errorf("entries out of build order: %+v", entries)
	}
	if entries[0].LearnMoreURL != "/docs/active-search/" {
		t.Errorf("example learn-more URL = %q", entries[0].LearnMoreURL)
	}
	if entries[2].LearnMoreURL != "" {
		t.Errorf("doc entries should have no learn-more URL, got %q", entries[2].LearnMoreURL)
	}

	stats := ix.Stats()
	if stats.TotalEntries != 3 || stats.ExamplesCount != 2 || stats.DocsCount != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRebuildIdempotent(t *testing.T) {
	ix := New(galleryFixture())

	first := ix.Entries()
	ix.Rebuild()
	second := ix.Entries()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("rebuild with identical source changed the snapshot:\n first: %+v\n second: %+v", first, second)
	}
}

func TestRebuildAtomicSnapshot(t *testing.T) {
	old := make([]catalog.ExampleRecord, 3)
	for i := range old {
		old[i] = catalog.ExampleRecord{ID: fmt.Sprintf("old-%d", i), Title: "old", Content: "old"}
	}
	next := make([]catalog.ExampleRecord, 5)
	for i := range next {
		next[i] = catalog.ExampleRecord{ID: fmt.Sprintf("new-%d", i), Title: "new", Content: "new"}
	}

	src := &stubSource{examples: old}
	ix := New(src)

	done := make(chan struct{})
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				entries := ix.Entries()
				// A snapshot must be entirely old or entirely new.
				if len(entries) != 3 && len(entries) != 5 {
					t.Errorf("torn snapshot: %d entries", len(entries))
					return
				}
				for _, e := range entries {
					if e.Title != entries[0].Title {
						t.Errorf("mixed snapshot: %q and %q", entries[0].Title, e.Title)
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			src.swap(next, nil)
		} else {
			src.swap(old, nil)
		}
		ix.Rebuild()
	}
	close(done)
	wg.Wait()
}
