package search

import (
	"context"
	"testing"
)

func TestDamerauLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "solar", "solar", 0},
		{"empty a", "", "wind", 4},
		{"empty b", "wind", "", 4},
		{"one substitution", "cat", "bat", 1},
		{"one insertion", "cat", "cart", 1},
		{"one deletion", "cart", "cat", 1},
		{"transposition", "sunlihgt", "sunlight", 1},
		{"kitten to sitting", "kitten", "sitting", 3},
		{"arabic taa marbuta", "الطاقه", "الطاقة", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DamerauLevenshteinDistance(tt.a, tt.b)
			if got != tt.expected {
				t.Errorf("DamerauLevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
			if rev := DamerauLevenshteinDistance(tt.b, tt.a); rev != got {
				t.Errorf("not symmetric: %d vs %d", got, rev)
			}
		})
	}
}

func TestPageIndex_Suggest(t *testing.T) {
	idx, err := NewPageIndex(englishRecord())
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	tests := []struct {
		query    string
		expected string
	}{
		{"sunlihgt", "sunlight"},
		{"Wind turbnes", "wind turbines"},
		{"solar panels", ""},
		{"xylophone", ""},
		{"zz", ""},
	}
	for _, tt := range tests {
		if got := idx.Suggest(tt.query); got != tt.expected {
			t.Errorf("Suggest(%q) = %q, want %q", tt.query, got, tt.expected)
		}
	}
}

func TestVocabulary_prefersFrequentWords(t *testing.T) {
	v := make(vocabulary)
	v.addPage("power plant")
	v.addPage("tower", "power grid")
	v.addPage("power lines power")

	if v["power"] != 3 {
		t.Errorf("power counted on %d pages, want 3", v["power"])
	}
	// "pover" is one edit from both; power is on more pages
	if got := v.Suggest("pover"); got != "power" {
		t.Errorf("Suggest(pover) = %q, want power", got)
	}
}

func TestRegistry_SearchSuggestion(t *testing.T) {
	r := NewRegistry()
	record := englishRecord()
	res, err := r.Search(context.Background(), "doc_1", record, "photovoltaik", 5)
	if err != nil {
		t.Fatal(err)
	}
	if res.Suggestion != "photovoltaic" {
		t.Errorf("suggestion = %q, want photovoltaic", res.Suggestion)
	}

	res, err = r.Search(context.Background(), "doc_1", record, "sunlight", 5)
	if err != nil {
		t.Fatal(err)
	}
	if res.Suggestion != "" || len(res.Hits) != 1 {
		t.Errorf("exact search: suggestion %q, hits %+v", res.Suggestion, res.Hits)
	}
	r.Remove("doc_1")
}
