package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/angelvillar/pawmart-backend/pkg/errors"
)

// Minimal but valid PNG header + IHDR chunk, enough for content sniffing.
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00,
}

type stubUploader struct {
	object      string
	contentType string
	body        []byte
	err         error
}

func (s *stubUploader) Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.object = object
	s.contentType = contentType
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.body = data
	return "https://storage.googleapis.com/test-bucket/" + object, nil
}

func TestUploadImageStoresPNG(t *testing.T) {
	uploader := &stubUploader{}
	svc, err := NewService(uploader, 1024)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	svc.(*service).now = func() time.Time { return time.Unix(1756684800, 0) }

	out, err := svc.UploadImage(context.Background(), UploadInput{
		SizeBytes: int64(len(pngBytes)),
		Body:      bytes.NewReader(pngBytes),
	})
	if err != nil {
		t.Fatalf("upload image: %v", err)
	}
	if out.MimeType != "image/png" {
		t.Fatalf("expected image/png, got %s", out.MimeType)
	}
	if !strings.HasPrefix(out.ObjectKey, "product-images/1756684800-") || !strings.HasSuffix(out.ObjectKey, ".png") {
		t.Fatalf("unexpected object key %s", out.ObjectKey)
	}
	if out.PublicURL != "https://storage.googleapis.com/test-bucket/"+out.ObjectKey {
		t.Fatalf("unexpected public url %s", out.PublicURL)
	}
	if uploader.contentType != "image/png" {
		t.Fatalf("uploader saw content type %s", uploader.contentType)
	}
	if !bytes.Equal(uploader.body, pngBytes) {
		t.Fatal("uploader body does not match input")
	}
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	svc, _ := NewService(&stubUploader{}, 1024)

	_, err := svc.UploadImage(context.Background(), UploadInput{
		SizeBytes: 11,
		Body:      strings.NewReader("hello world"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadImageRejectsOversized(t *testing.T) {
	svc, _ := NewService(&stubUploader{}, 16)

	big := append(append([]byte{}, pngBytes...), make([]byte, 64)...)
	_, err := svc.UploadImage(context.Background(), UploadInput{
		SizeBytes: 0, // declared size unknown
		Body:      bytes.NewReader(big),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadImageRejectsEmptyBody(t *testing.T) {
	svc, _ := NewService(&stubUploader{}, 1024)

	_, err := svc.UploadImage(context.Background(), UploadInput{Body: bytes.NewReader(nil)})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadImageWrapsUploaderFailure(t *testing.T) {
	svc, _ := NewService(&stubUploader{err: fmt.Errorf("bucket unavailable")}, 1024)

	_, err := svc.UploadImage(context.Background(), UploadInput{
		SizeBytes: int64(len(pngBytes)),
		Body:      bytes.NewReader(pngBytes),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
