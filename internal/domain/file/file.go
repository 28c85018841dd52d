// Package file implements the platform's file-provider contract on top of an object store.
package file

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"
)

type Access string

const (
	AccessPublic  Access = "public"
	AccessPrivate Access = "private"
)

type UploadInput struct {
	Filename string
	MimeType string
	Content  io.Reader
	Access   Access
}

type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Provider is the capability contract the platform calls for a file provider.
type Provider interface {
	Upload(ctx context.Context, in UploadInput) (UploadResult, error)
	Delete(ctx context.Context, keys ...string) error
	GetPresignedDownloadURL(ctx context.Context, key string) (string, error)
	GetPresignedUploadURL(ctx context.Context, key string) (string, error)
	GetDownloadStream(ctx context.Context, key string) (io.ReadCloser, error)
	GetAsBuffer(ctx context.Context, key string) ([]byte, error)
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename keeps the base name and replaces anything outside [A-Za-z0-9._-] with '-'.
func sanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" {
		return "file"
	}
	clean := strings.Trim(unsafeKeyChars.ReplaceAllString(base, "-"), "-")
	if clean == "" {
		return "file"
	}
	return clean
}
