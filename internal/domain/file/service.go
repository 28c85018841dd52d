package file

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const DefaultSignedURLTTL = time.Hour

type Service struct {
	store        ObjectStore
	logger       *slog.Logger
	signedURLTTL time.Duration
	newID        func() string
}

var _ Provider = (*Service)(nil)

func NewService(store ObjectStore, signedURLTTL time.Duration, l *slog.Logger) *Service {
	if signedURLTTL <= 0 {
		signedURLTTL = DefaultSignedURLTTL
	}
	return &Service{
		store:        store,
		logger:       l.With("component", "file_service"),
		signedURLTTL: signedURLTTL,
		newID:        uuid.NewString,
	}
}

// Upload stores the content under "<uuid>-<sanitised filename>". Public files get the
// public URL, private ones the authenticated object URL.
func (s *Service) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	if in.Filename == "" {
		return UploadResult{}, ErrEmptyFilename
	}
	contentType := in.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := s.newID() + "-" + sanitizeFilename(in.Filename)
	if err := s.store.Put(ctx, key, contentType, in.Content); err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", key, err)
	}

	url := s.store.ObjectURL(key)
	if in.Access != AccessPrivate {
		url = s.store.PublicURL(key)
	}

	s.logger.InfoContext(ctx, "file uploaded", "key", key, "content_type", contentType, "access", in.Access)
	return UploadResult{URL: url, Key: key}, nil
}

func (s *Service) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return ErrEmptyKey
	}
	for _, k := range keys {
		if k == "" {
			return ErrEmptyKey
		}
	}

	if err := s.store.Remove(ctx, keys); err != nil {
		return fmt.Errorf("delete %v: %w", keys, err)
	}
	s.logger.InfoContext(ctx, "files deleted", "keys", keys)
	return nil
}

func (s *Service) GetPresignedDownloadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	url, err := s.store.SignDownloadURL(ctx, key, s.signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("sign download url %s: %w", key, err)
	}
	return url, nil
}

func (s *Service) GetPresignedUploadURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	url, err := s.store.SignUploadURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("sign upload url %s: %w", key, err)
	}
	return url, nil
}

// GetDownloadStream returns the object body; the caller must close it.
func (s *Service) GetDownloadStream(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	return rc, nil
}

func (s *Service) GetAsBuffer(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.GetDownloadStream(ctx, key)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}
