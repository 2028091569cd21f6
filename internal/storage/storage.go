// Package storage persists uploaded item images and returns the public URL
// they are served from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

var ErrUnsupportedType = errors.New("unsupported image type")

type ImageStore interface {
	Save(ctx context.Context, objectPath, contentType string, data []byte) (string, error)
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Sniff returns the content type of data when it is an accepted image format.
func Sniff(data []byte) (string, error) {
	ct := http.DetectContentType(data)
	if _, ok := imageExtensions[ct]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}
	return ct, nil
}

// ObjectPath builds a collision free path for an image of the given item.
func ObjectPath(itemID uint64, contentType string) string {
	ext, ok := imageExtensions[contentType]
	if !ok {
		ext = ".bin"
	}
	return fmt.Sprintf("items/%d/%s%s", itemID, uuid.NewString(), ext)
}

type Options struct {
	Bucket          string
	CredentialsFile string
	UploadDir       string
	PublicBaseURL   string
}

// New picks the Cloud Storage backend when a bucket is configured and the
// local directory otherwise. Callers close the result when it is an io.Closer.
func New(ctx context.Context, opts Options) (ImageStore, error) {
	if opts.Bucket != "" {
		return NewGCSStore(ctx, opts.Bucket, opts.CredentialsFile)
	}
	return NewLocalStore(opts.UploadDir, opts.PublicBaseURL)
}
