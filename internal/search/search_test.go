package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hyperjump/pagewise/internal/models"
)

func englishRecord() *models.DocumentRecord {
	return &models.DocumentRecord{
		Language: models.LanguageEnglish,
		Pages: []models.Page{
			{Title: "Welcome", Text: "An introduction to renewable energy"},
			{Title: "Solar", Text: "Solar panels convert sunlight into electricity"},
			{Title: "Wind", Text: "Wind turbines are tall"},
		},
		Analyses: []models.PageAnalysis{
			{Title: "Welcome", Explanation: "Opening page", KeyPoints: []string{"overview"}},
			{Title: "Solar power", Explanation: "How photovoltaic cells work"},
			{Title: "Wind power", Explanation: "Turbines and energy", KeyPoints: []string{"offshore farms"}},
		},
		TotalPages: 3,
	}
}

func TestPageIndex_Search(t *testing.T) {
	idx, err := NewPageIndex(englishRecord())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	if n, _ := idx.DocCount(); n != 3 {
		t.Errorf("DocCount = %d, want 3", n)
	}

	hits, total, err := idx.Search(ctx, "sunlight", 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(hits) != 1 || hits[0].PageNumber != 2 {
		t.Fatalf("hits = %+v, total %d", hits, total)
	}
	if hits[0].Title != "Solar power" {
		t.Errorf("title = %q, want analysis title", hits[0].Title)
	}
	if len(hits[0].Fragments) == 0 {
		t.Error("expected fragments")
	}

	// key points and explanations are searchable
	hits, _, err = idx.Search(ctx, "offshore", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].PageNumber != 3 {
		t.Errorf("offshore hits = %+v", hits)
	}

	// a title match outranks a body-only match
	hits, _, err = idx.Search(ctx, "wind energy", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) < 2 || hits[0].PageNumber != 3 {
		t.Errorf("wind energy hits = %+v", hits)
	}

	hits, _, err = idx.Search(ctx, "energy", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Errorf("limit not applied: %d hits", len(hits))
	}
}

func TestPageIndex_FuzzyFallback(t *testing.T) {
	idx, err := NewPageIndex(englishRecord())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	hits, _, err := idx.Search(context.Background(), "turbnes", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 || hits[0].PageNumber != 3 {
		t.Errorf("fuzzy hits = %+v", hits)
	}

	hits, total, err := idx.Search(context.Background(), "zzz", 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 || len(hits) != 0 {
		t.Errorf("expected no hits, got %+v", hits)
	}
}

func TestPageIndex_Arabic(t *testing.T) {
	record := &models.DocumentRecord{
		Language: models.LanguageArabic,
		Pages: []models.Page{
			{Text: "مقدمة عن الطاقة"},
			{Text: "الألواح الشمسية"},
		},
		TotalPages: 2,
	}
	idx, err := NewPageIndex(record)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	hits, _, err := idx.Search(context.Background(), "الشمسية", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].PageNumber != 2 {
		t.Errorf("hits = %+v", hits)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	record := englishRecord()

	// search builds the index on demand
	resp, err := r.Search(ctx, "doc_1", record, "solar", 5)
	if err != nil {
		t.Fatal(err)
	}
	if resp.SessionID != "doc_1" || resp.Query != "solar" || resp.Total == 0 {
		t.Errorf("resp = %+v", resp)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}

	idx, err := NewPageIndex(record)
	if err != nil {
		t.Fatal(err)
	}
	r.Add("doc_2", idx)
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}

	r.Remove("doc_1")
	r.Remove("doc_2")
	r.Remove("missing")
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRegistry_RemoveDuringSearch(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	record := englishRecord()

	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				if _, err := r.Search(ctx, "doc_1", record, "sunlight", 5); err != nil {
					errs <- err
				}
			}
		}()
		go func() {
			defer wg.Done()
			r.Remove("doc_1")
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("search racing remove: %v", err)
		}
	}
	r.Remove("doc_1")
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRegistry_ConcurrentBuildsKeepOneIndex(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	record := englishRecord()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Search(ctx, "doc_1", record, "wind", 5); err != nil {
				t.Errorf("search: %v", err)
			}
		}()
	}
	wg.Wait()
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
	r.Remove("doc_1")
}

func TestFragments(t *testing.T) {
	got := Fragments(map[string][]string{
		"title":   {"<mark>Solar</mark> power"},
		"content": {"  <mark>Solar</mark> panels  ", ""},
	}, "ignored", 20)
	want := []string{"<mark>Solar</mark> panels", "<mark>Solar</mark> power"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Fragments = %q, want %q", got, want)
	}

	got = Fragments(nil, "a   long\n\ncontent body", 6)
	if len(got) != 1 || got[0] != "a long..." {
		t.Errorf("snippet = %q", got)
	}
	if got := Fragments(nil, "  ", 6); got != nil {
		t.Errorf("empty content = %q", got)
	}
}

func TestHighlight(t *testing.T) {
	if Highlight("short", 10) != "short" {
		t.Error("short string should be unchanged")
	}
	if got := Highlight("long   text here", 4); got != "long..." {
		t.Errorf("got %s", got)
	}
	if Highlight("x", 0) != "x" {
		t.Error("maxRunes 0 should return as-is")
	}
}
