// Package remote is the HTTP client for the backend's owner-scoped
// document collections. Every error it returns is treated by callers as
// "remote unavailable" and is never fatal to the user-facing operation.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Document is one record of a remote collection.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Client talks to the backend's document endpoints.
type Client struct {
	client  *http.Client
	baseURL string
	token   func() string
}

// NewClient builds a Client. token is called per request so the bearer
// token tracks the current provider session.
func NewClient(client *http.Client, baseURL string, token func() string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{client: client, baseURL: baseURL, token: token}
}

// Write upserts a document via PUT /api/{collection}/{docID}.
func (c *Client) Write(ctx context.Context, collection, docID string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return c.do(ctx, http.MethodPut, collection+"/"+docID, bytes.NewReader(b), nil)
}

// ReadAll fetches every document of a collection via GET /api/{collection}.
func (c *Client) ReadAll(ctx context.Context, collection string) ([]Document, error) {
	var out struct {
		Documents []Document `json:"documents"`
	}
	if err := c.do(ctx, http.MethodGet, collection, nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// Delete removes a document via DELETE /api/{collection}/{docID}.
// Deleting a missing document is not an error.
func (c *Client) Delete(ctx context.Context, collection, docID string) error {
	return c.do(ctx, http.MethodDelete, collection+"/"+docID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/"+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.token(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}
