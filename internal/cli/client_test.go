package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/pagewise/internal/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/documents", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "file is required"})
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.UploadResult{
			SessionID:           "doc_1_abc",
			Filename:            header.Filename,
			TotalPages:          len(content),
			Language:            models.Language(r.FormValue("language")),
			PresentationSummary: "summary",
			Status:              "success",
		})
	})
	mux.HandleFunc("/api/v1/documents/doc_1_abc/pages/2", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.PageView{PageNumber: 2, Title: "Second"})
	})
	mux.HandleFunc("/api/v1/documents/doc_1_abc/pages/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid page number: 9"})
	})
	mux.HandleFunc("/api/v1/documents/doc_1_abc/navigate", func(w http.ResponseWriter, r *http.Request) {
		var req models.NavigationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(models.NavigationResult{Success: true, NewPage: req.CurrentPage + 1, Message: req.Command})
	})
	mux.HandleFunc("/api/v1/documents/doc_1_abc/search", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.PageSearchResponse{Query: r.URL.Query().Get("q") + "|" + r.URL.Query().Get("limit")})
	})
	mux.HandleFunc("/api/v1/documents/doc_1_abc", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode(models.DeleteResult{SessionID: "doc_1_abc", Message: "deleted"})
	})
	mux.HandleFunc("/api/v1/status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(StatusResponse{ActiveSessions: 1, Config: &StatusConfig{SpeechProvider: "google"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/", nil)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, []byte("12345"), 0600); err != nil {
		t.Fatal(err)
	}
	up, err := c.Upload(ctx, path, "english")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if up.SessionID != "doc_1_abc" || up.Filename != "deck.pptx" || up.TotalPages != 5 || up.Language != models.LanguageEnglish {
		t.Errorf("upload: got %+v", up)
	}

	page, err := c.Page(ctx, "doc_1_abc", 2)
	if err != nil || page.Title != "Second" {
		t.Errorf("Page: got %+v, %v", page, err)
	}

	_, err = c.Page(ctx, "doc_1_abc", 9)
	if err == nil || !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "invalid page number: 9") {
		t.Errorf("Page(9) error: got %v", err)
	}

	nav, err := c.Navigate(ctx, "doc_1_abc", models.NavigationRequest{Command: "next", CurrentPage: 1})
	if err != nil || nav.NewPage != 2 || nav.Message != "next" {
		t.Errorf("Navigate: got %+v, %v", nav, err)
	}

	found, err := c.Search(ctx, "doc_1_abc", "wind power", 3)
	if err != nil || found.Query != "wind power|3" {
		t.Errorf("Search: got %+v, %v", found, err)
	}

	del, err := c.Delete(ctx, "doc_1_abc")
	if err != nil || del.Message != "deleted" {
		t.Errorf("Delete: got %+v, %v", del, err)
	}

	status, err := c.Status(ctx)
	if err != nil || status.ActiveSessions != 1 || status.Config.SpeechProvider != "google" {
		t.Errorf("Status: got %+v, %v", status, err)
	}
}

func TestClient_UploadMissingFile(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", nil)
	if _, err := c.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestClient_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil)
	if _, err := c.Status(context.Background()); err == nil || !strings.Contains(err.Error(), "request failed") {
		t.Errorf("expected request failure, got %v", err)
	}
}
