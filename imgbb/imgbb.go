// Package imgbb is a thin client for the imgbb image-hosting API.
package imgbb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const endpoint = "https://api.imgbb.com/1/upload"

type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
}

func New(key string) *Client {
	return &Client{
		key:        key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    endpoint,
	}
}

// NewWithBaseURL is used by tests to point the client at a fake host.
func NewWithBaseURL(key, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{key: key, httpClient: httpClient, baseURL: baseURL}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends a base64-encoded image to imgbb and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, imageBase64 string) (string, error) {
	form := url.Values{"image": {imageBase64}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"?key="+url.QueryEscape(c.key), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("imgbb request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("imgbb upload: %w", err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("imgbb response: %w", err)
	}
	if !out.Success {
		msg := out.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("upload failed with status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("imgbb: %s", msg)
	}
	return out.Data.URL, nil
}
