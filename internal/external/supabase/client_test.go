//go:build !integration

package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CommerceAdapters/internal/domain/file"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, string) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{APIKey: "service-key", ProjectURL: server.URL, BucketName: "media"}, nil)
	require.NoError(t, err)

	return client, server.URL
}

func assertAuth(t *testing.T, r *http.Request) {
	t.Helper()
	assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
	assert.Equal(t, "service-key", r.Header.Get("apikey"))
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name        string
		cfg         Config
		expectedURL string
		expectedErr error
	}{
		{name: "missing key", cfg: Config{ReferenceID: "abc"}, expectedErr: ErrMissingAPIKey},
		{name: "missing project", cfg: Config{APIKey: "k"}, expectedErr: ErrMissingProjectURL},
		{name: "derived from reference id", cfg: Config{APIKey: "k", ReferenceID: "abc"}, expectedURL: "https://abc.supabase.co/storage/v1"},
		{name: "explicit project url", cfg: Config{APIKey: "k", ProjectURL: "http://localhost:54321/"}, expectedURL: "http://localhost:54321/storage/v1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.cfg, nil)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedURL, c.storageRoot)
			assert.Equal(t, DefaultBucketName, c.cfg.BucketName)
		})
	}
}

func TestClient_Put(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assertAuth(t, r)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/storage/v1/object/media/abc-cat.png", r.URL.Path)
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		assert.Equal(t, "true", r.Header.Get("x-upsert"))

		b, _ := io.ReadAll(r.Body)
		assert.Equal(t, "png-bytes", string(b))
		_, _ = w.Write([]byte(`{"Key":"media/abc-cat.png"}`))
	})

	err := client.Put(context.Background(), "abc-cat.png", "image/png", strings.NewReader("png-bytes"))

	assert.NoError(t, err)
}

func TestClient_Remove(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/storage/v1/object/media", r.URL.Path)

		var body removeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"a.png", "b.png"}, body.Prefixes)
		_, _ = w.Write([]byte(`[]`))
	})

	assert.NoError(t, client.Remove(context.Background(), []string{"a.png", "b.png"}))
}

func TestClient_SignDownloadURL(t *testing.T) {
	client, serverURL := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/v1/object/sign/media/docs/report.pdf", r.URL.Path)

		var body signRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(3600), body.ExpiresIn)

		_, _ = w.Write([]byte(`{"signedURL":"/object/sign/media/docs/report.pdf?token=tok"}`))
	})

	signed, err := client.SignDownloadURL(context.Background(), "docs/report.pdf", time.Hour)

	require.NoError(t, err)
	assert.Equal(t, serverURL+"/storage/v1/object/sign/media/docs/report.pdf?download=report.pdf&token=tok", signed)
}

func TestClient_SignUploadURL(t *testing.T) {
	client, serverURL := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/v1/object/upload/sign/media/new.png", r.URL.Path)
		_, _ = w.Write([]byte(`{"url":"/object/upload/sign/media/new.png?token=up"}`))
	})

	signed, err := client.SignUploadURL(context.Background(), "new.png")

	require.NoError(t, err)
	assert.Equal(t, serverURL+"/storage/v1/object/upload/sign/media/new.png?token=up", signed)
}

func TestClient_Open(t *testing.T) {
	t.Run("streams body", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assertAuth(t, r)
			assert.Equal(t, "/storage/v1/object/authenticated/media/k.txt", r.URL.Path)
			_, _ = w.Write([]byte("hello"))
		})

		rc, err := client.Open(context.Background(), "k.txt")
		require.NoError(t, err)
		defer rc.Close()

		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(b))
	})

	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "404", status: http.StatusNotFound, body: `{"statusCode":"404","error":"not_found","message":"Object not found"}`},
		{name: "400 with not found body", status: http.StatusBadRequest, body: `{"statusCode":"404","error":"not_found","message":"Object not found"}`},
	}
	for _, tc := range testCases {
		t.Run("not found "+tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Open(context.Background(), "missing.txt")

			assert.ErrorIs(t, err, file.ErrObjectNotFound)
			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, "Object not found", httpErr.Message)
		})
	}

	t.Run("other errors are not not-found", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"statusCode":"403","error":"Unauthorized","message":"invalid signature"}`))
		})

		_, err := client.Open(context.Background(), "k.txt")

		assert.NotErrorIs(t, err, file.ErrObjectNotFound)
	})
}

func TestClient_URLs(t *testing.T) {
	client, err := New(Config{APIKey: "k", ReferenceID: "abc"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/medusa-media/a%20b.png", client.PublicURL("a b.png"))
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/medusa-media/dir/x.png", client.ObjectURL("dir/x.png"))
}

func TestClient_Ping(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/storage/v1/bucket/media", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"media","name":"media","public":true}`))
	})

	assert.NoError(t, client.Ping(context.Background()))
}
