package media

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
	"github.com/angelvillar/pawmart-backend/pkg/storage/gcs"
)

const defaultMaxUploadBytes = 5 * 1024 * 1024

var allowedImageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Service stores product images in object storage.
type Service interface {
	UploadImage(ctx context.Context, input UploadInput) (*UploadOutput, error)
}

type service struct {
	uploader gcs.Uploader
	maxBytes int64
	now      func() time.Time
}

// NewService constructs a media service backed by the provided object uploader.
func NewService(uploader gcs.Uploader, maxBytes int64) (Service, error) {
	if uploader == nil {
		return nil, fmt.Errorf("object uploader required")
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &service{uploader: uploader, maxBytes: maxBytes, now: time.Now}, nil
}

// UploadInput models an incoming image upload.
type UploadInput struct {
	SizeBytes int64
	Body      io.Reader
}

// UploadOutput is returned to the client after the object is stored.
type UploadOutput struct {
	ObjectKey string `json:"object_key"`
	PublicURL string `json:"url"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

func (s *service) UploadImage(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file must be at most %d bytes", s.maxBytes))
	}

	// Read one past the cap so oversized streams with an unknown
	// declared size are still rejected.
	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload body")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file must be at most %d bytes", s.maxBytes))
	}

	detected := mimetype.Detect(data)
	ext, ok := allowedImageExtensions[normalizeMime(detected.String())]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file must be a PNG, JPEG, WebP, or GIF image")
	}

	object, err := s.buildObjectKey(ext)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build object key")
	}

	url, err := s.uploader.Upload(ctx, object, normalizeMime(detected.String()), bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image object")
	}

	return &UploadOutput{
		ObjectKey: object,
		PublicURL: url,
		MimeType:  normalizeMime(detected.String()),
		SizeBytes: int64(len(data)),
	}, nil
}

func (s *service) buildObjectKey(ext string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate object suffix: %w", err)
	}
	return fmt.Sprintf("product-images/%d-%s.%s", s.now().Unix(), hex.EncodeToString(suffix), ext), nil
}

func normalizeMime(value string) string {
	if base, _, ok := strings.Cut(value, ";"); ok {
		value = base
	}
	return strings.ToLower(strings.TrimSpace(value))
}
