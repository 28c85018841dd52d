// Package supabase is the HTTP client for the Supabase Storage REST API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CommerceAdapters/internal/domain/file"
	"CommerceAdapters/pkg/correlation"
	"CommerceAdapters/pkg/metrics"

	"github.com/google/go-querystring/query"
)

const (
	DefaultBucketName = "medusa-media"
	storagePath       = "/storage/v1"
	vendorName        = "supabase"
)

type Config struct {
	APIKey string
	// ProjectURL is the project root, e.g. https://abc.supabase.co. When empty it is
	// derived from ReferenceID.
	ProjectURL  string
	ReferenceID string
	BucketName  string
}

type Client struct {
	cfg         Config
	storageRoot string
	HTTP        *http.Client
}

var _ file.ObjectStore = (*Client)(nil)

func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.ProjectURL == "" {
		if cfg.ReferenceID == "" {
			return nil, ErrMissingProjectURL
		}
		cfg.ProjectURL = fmt.Sprintf("https://%s.supabase.co", cfg.ReferenceID)
	}
	cfg.ProjectURL = strings.TrimRight(cfg.ProjectURL, "/")
	if cfg.BucketName == "" {
		cfg.BucketName = DefaultBucketName
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	return &Client{
		cfg:         cfg,
		storageRoot: cfg.ProjectURL + storagePath,
		HTTP:        httpClient,
	}, nil
}

type signRequest struct {
	ExpiresIn int64 `json:"expiresIn"`
}

type signResponse struct {
	SignedURL string `json:"signedURL"`
}

type uploadSignResponse struct {
	URL string `json:"url"`
}

type removeRequest struct {
	Prefixes []string `json:"prefixes"`
}

type downloadParams struct {
	Download string `url:"download,omitempty"`
}

func (c *Client) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	req, err := c.newRequest(ctx, http.MethodPost, c.objectPath("object", key), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	return c.send(req, "upload", nil)
}

func (c *Client) Remove(ctx context.Context, keys []string) error {
	j, err := json.Marshal(removeRequest{Prefixes: keys})
	if err != nil {
		return fmt.Errorf("marshal remove request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodDelete, "/object/"+url.PathEscape(c.cfg.BucketName), bytes.NewReader(j))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, "remove", nil)
}

// Open streams an object through the authenticated endpoint. The caller closes the body.
func (c *Client) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.objectPath("object/authenticated", key), nil)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.ObserveVendorCall(vendorName, "download", 0, started)
		return nil, fmt.Errorf("http download: %w", err)
	}
	metrics.ObserveVendorCall(vendorName, "download", resp.StatusCode, started)

	if resp.StatusCode/100 != 2 {
		defer func() { _ = resp.Body.Close() }()
		raw, _ := io.ReadAll(resp.Body)
		return nil, newHTTPError(resp, raw)
	}
	return resp.Body, nil
}

func (c *Client) SignDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	j, err := json.Marshal(signRequest{ExpiresIn: int64(ttl / time.Second)})
	if err != nil {
		return "", fmt.Errorf("marshal sign request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.objectPath("object/sign", key), bytes.NewReader(j))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out signResponse
	if err := c.send(req, "sign_download", &out); err != nil {
		return "", err
	}
	if out.SignedURL == "" {
		return "", fmt.Errorf("%w: empty signedURL", ErrUnexpectedResponse)
	}

	signed, err := url.Parse(c.storageRoot + out.SignedURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return withQuery(signed, downloadParams{Download: baseName(key)})
}

func (c *Client) SignUploadURL(ctx context.Context, key string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.objectPath("object/upload/sign", key), nil)
	if err != nil {
		return "", err
	}

	var out uploadSignResponse
	if err := c.send(req, "sign_upload", &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("%w: empty upload url", ErrUnexpectedResponse)
	}
	return c.storageRoot + out.URL, nil
}

func (c *Client) PublicURL(key string) string {
	return c.storageRoot + c.objectPath("object/public", key)
}

func (c *Client) ObjectURL(key string) string {
	return c.storageRoot + c.objectPath("object", key)
}

// Ping checks that the configured bucket is reachable with the current key.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/bucket/"+url.PathEscape(c.cfg.BucketName), nil)
	if err != nil {
		return err
	}
	return c.send(req, "ping", nil)
}

func (c *Client) objectPath(prefix, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/" + prefix + "/" + url.PathEscape(c.cfg.BucketName) + "/" + strings.Join(segments, "/")
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.storageRoot+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("apikey", c.cfg.APIKey)
	if id := correlation.FromContext(ctx); id != "" {
		req.Header.Set(correlation.HeaderName, id)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, operation string, out any) error {
	started := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.ObserveVendorCall(vendorName, operation, 0, started)
		return fmt.Errorf("http %s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.ObserveVendorCall(vendorName, operation, resp.StatusCode, started)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", operation, err)
	}
	if resp.StatusCode/100 != 2 {
		return newHTTPError(resp, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnexpectedResponse, operation, err)
	}
	return nil
}

type errorBody struct {
	StatusCode string `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func newHTTPError(resp *http.Response, raw []byte) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		httpErr.Code = body.Error
		httpErr.Message = body.Message
		httpErr.bodyStatus = body.StatusCode
	}
	return httpErr
}

func withQuery(u *url.URL, params any) (string, error) {
	extra, err := query.Values(params)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	q := u.Query()
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func baseName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
