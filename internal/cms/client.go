package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bgraves/pagemill/internal/richtext"
)

// Client communicates with the content management HTTP API that owns
// the documents this service renders.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// DocumentResponse is a document record from GET /api/documents/{id}.
type DocumentResponse struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Content richtext.Document `json:"content"`
}

// Upload is a media record from GET /api/uploads/{id}.
type Upload struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Alt      string `json:"alt,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// GetDocument fetches a document and its rich-text body by id.
// Returns nil without error when the document does not exist.
func (c *Client) GetDocument(ctx context.Context, id string) (*DocumentResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/documents/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get document %s: status %d: %s", id, resp.StatusCode, string(body))
	}

	var doc DocumentResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// GetUpload fetches a media record by numeric id.
// Returns nil without error when the upload does not exist.
func (c *Client) GetUpload(ctx context.Context, id int64) (*Upload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/uploads/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get upload %d: status %d: %s", id, resp.StatusCode, string(body))
	}

	var up Upload
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}
	return &up, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
