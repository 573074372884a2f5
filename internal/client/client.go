// Package client is a typed consumer of the gallery API: the CLI and any
// other Go caller go through it instead of hand-rolling requests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"prompt-gallery-go/internal/gallery"
	"prompt-gallery-go/internal/models"
)

// ErrNotFound reports a 404 for the requested prompt, kept distinct from
// other failures so callers can render it differently.
var ErrNotFound = errors.New("prompt not found")

type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.Mutex
	token string
	cache map[string]*models.Prompt
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		cache:   make(map[string]*models.Prompt),
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

type ListResponse struct {
	Data       []models.Prompt    `json:"data"`
	Pagination gallery.Pagination `json:"pagination"`
}

func (c *Client) List(ctx context.Context, page, limit int) (*ListResponse, error) {
	url := c.baseURL + "/api/prompts"
	if page > 0 && limit > 0 {
		url += "?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var out ListResponse
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a single prompt, caching the last successful fetch per id.
func (c *Client) Get(ctx context.Context, id string) (*models.Prompt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/prompts/"+id, nil)
	if err != nil {
		return nil, err
	}

	var out models.Prompt
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[id] = &out
	c.mu.Unlock()
	return &out, nil
}

// Cached returns the last successfully fetched prompt for the id, if any.
func (c *Client) Cached(id string) (*models.Prompt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.cache[id]
	return p, ok
}

func (c *Client) Create(ctx context.Context, title, description string, image io.Reader, filename string) (*models.Prompt, error) {
	body, contentType, err := multipartForm(map[string]string{
		"title":       title,
		"description": description,
	}, image, filename)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/prompts", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var out models.Prompt
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id, title, description string, image io.Reader, filename, currentImageURL string) (*models.Prompt, error) {
	fields := map[string]string{
		"title":       title,
		"description": description,
	}
	if currentImageURL != "" {
		fields["currentImageUrl"] = currentImageURL
	}
	body, contentType, err := multipartForm(fields, image, filename)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/prompts/"+id, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	var out models.Prompt
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[id] = &out
	c.mu.Unlock()
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/prompts/"+id, nil)
	if err != nil {
		return err
	}
	if err := c.do(req, http.StatusNoContent, nil); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.cache, id)
	c.mu.Unlock()
	return nil
}

func (c *Client) Import(ctx context.Context, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/prompts/import", bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Imported int `json:"imported"`
	}
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return 0, err
	}
	return out.Imported, nil
}

// Login authenticates against the admin gate and remembers the session
// token for subsequent mutations.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(req, http.StatusOK, &out); err != nil {
		return "", err
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/logout", nil)
	if err != nil {
		return err
	}
	if err := c.do(req, http.StatusNoContent, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != wantStatus {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			if apiErr.Details != "" {
				return fmt.Errorf("%s: %s", apiErr.Error, apiErr.Details)
			}
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func multipartForm(fields map[string]string, image io.Reader, filename string) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if image != nil {
		part, err := w.CreateFormFile("image", filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, image); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
