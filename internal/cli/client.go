package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hyperjump/pagewise/internal/models"
	"github.com/hyperjump/pagewise/internal/storage"
)

// StatusConfig is the configuration section of GET /api/v1/status.
type StatusConfig struct {
	AIEnabled      bool   `json:"ai_enabled"`
	AIModel        string `json:"ai_model,omitempty"`
	SpeechProvider string `json:"speech_provider"`
	RenderPages    bool   `json:"render_pages"`
	MaxUploadMB    int    `json:"max_upload_mb"`
}

// StatusResponse is the shape of the GET /api/v1/status response.
type StatusResponse struct {
	ActiveSessions int                `json:"active_sessions"`
	SearchIndexes  int                `json:"search_indexes"`
	CachedAudio    int                `json:"cached_audio"`
	AnalysisCache  storage.CacheStats `json:"analysis_cache"`
	Config         *StatusConfig      `json:"config,omitempty"`
}

// Client talks to a running pagewise server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Upload sends the file at path for analysis.
func (c *Client) Upload(ctx context.Context, path, language string) (*models.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var res models.UploadResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/documents", mw.FormDataContentType(), &body, http.StatusCreated, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Page returns one page of a session.
func (c *Client) Page(ctx context.Context, sessionID string, page int) (*models.PageView, error) {
	var res models.PageView
	if err := c.get(ctx, fmt.Sprintf("%s/pages/%d", documentPath(sessionID), page), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Summary returns the summary of a session.
func (c *Client) Summary(ctx context.Context, sessionID string) (*models.DocumentSummary, error) {
	var res models.DocumentSummary
	if err := c.get(ctx, documentPath(sessionID)+"/summary", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Navigate sends a navigation command.
func (c *Client) Navigate(ctx context.Context, sessionID string, req models.NavigationRequest) (*models.NavigationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var res models.NavigationResult
	if err := c.do(ctx, http.MethodPost, documentPath(sessionID)+"/navigate", "application/json", bytes.NewReader(body), http.StatusOK, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Search searches the pages of a session. A limit of zero uses the server default.
func (c *Client) Search(ctx context.Context, sessionID, query string, limit int) (*models.PageSearchResponse, error) {
	params := url.Values{"q": {query}}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var res models.PageSearchResponse
	if err := c.get(ctx, documentPath(sessionID)+"/search?"+params.Encode(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Delete ends a session.
func (c *Client) Delete(ctx context.Context, sessionID string) (*models.DeleteResult, error) {
	var res models.DeleteResult
	if err := c.do(ctx, http.MethodDelete, documentPath(sessionID), "", nil, http.StatusOK, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Status returns server status.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var res StatusResponse
	if err := c.get(ctx, "/api/v1/status", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func documentPath(sessionID string) string {
	return "/api/v1/documents/" + url.PathEscape(sessionID)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", nil, http.StatusOK, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, want int, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
