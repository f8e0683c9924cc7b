package models

import (
	"errors"
	"testing"
)

func TestPageSearchQuery_Validate(t *testing.T) {
	tests := []struct {
		name      string
		query     *PageSearchQuery
		wantErr   bool
		wantLimit int
	}{
		{"empty query", &PageSearchQuery{Query: ""}, true, 0},
		{"blank query", &PageSearchQuery{Query: "   "}, true, 0},
		{"sets default limit", &PageSearchQuery{Query: "x"}, false, 10},
		{"keeps limit", &PageSearchQuery{Query: "x", Limit: 3}, false, 3},
		{"caps limit", &PageSearchQuery{Query: "x", Limit: 500}, false, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate(10, 50)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Errorf("expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if tt.query.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", tt.query.Limit, tt.wantLimit)
			}
		})
	}
}

func TestNavigationRequest_Validate(t *testing.T) {
	r := &NavigationRequest{Command: "  next page  ", CurrentPage: 1}
	if err := r.Validate(); err != nil {
		t.Fatal(err)
	}
	if r.Command != "next page" {
		t.Errorf("command not trimmed: %q", r.Command)
	}
	if err := (&NavigationRequest{Command: " "}).Validate(); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestPageQuestionRequest_Validate(t *testing.T) {
	if err := (&PageQuestionRequest{Question: ""}).Validate(); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
	if err := (&PageQuestionRequest{Question: "what is this?"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"", LanguageArabic, false},
		{"arabic", LanguageArabic, false},
		{"AR", LanguageArabic, false},
		{"English", LanguageEnglish, false},
		{"en", LanguageEnglish, false},
		{"french", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLanguage(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLanguage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDocumentRecord_HasPage(t *testing.T) {
	r := &DocumentRecord{TotalPages: 3}
	for _, n := range []int{1, 2, 3} {
		if !r.HasPage(n) {
			t.Errorf("HasPage(%d) = false", n)
		}
	}
	for _, n := range []int{-1, 0, 4} {
		if r.HasPage(n) {
			t.Errorf("HasPage(%d) = true", n)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	for _, ext := range []string{".pptx", ".ppt", ".pdf"} {
		if !IsSupportedExtension(ext) {
			t.Errorf("%s should be supported", ext)
		}
	}
	for _, ext := range []string{".docx", "", ".PDF", ".txt"} {
		if IsSupportedExtension(ext) {
			t.Errorf("%s should not be supported", ext)
		}
	}
}
