package gcs

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func staticTokenSource(token string) *tokenSource {
	return &tokenSource{fetch: func(context.Context) (string, time.Time, error) {
		return token, time.Now().Add(time.Hour), nil
	}}
}

func TestUploadSuccess(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "product-images",
		tokenSource:   staticTokenSource("token"),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			if req.Method != http.MethodPost {
				t.Fatalf("expected POST, got %s", req.Method)
			}
			if req.Header.Get("Authorization") != "Bearer token" {
				t.Fatalf("unexpected auth %s", req.Header.Get("Authorization"))
			}
			if req.Header.Get("Content-Type") != "image/png" {
				t.Fatalf("unexpected content type %s", req.Header.Get("Content-Type"))
			}
			if !strings.Contains(req.URL.RawQuery, "name=1700000000-abc.png") {
				t.Fatalf("object name missing from query %s", req.URL.RawQuery)
			}
			body, _ := io.ReadAll(req.Body)
			if string(body) != "png-bytes" {
				t.Fatalf("unexpected body %q", body)
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"name":"1700000000-abc.png"}`)),
				Header:     http.Header{},
			}
		})},
	}

	url, err := client.Upload(context.Background(), "1700000000-abc.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://storage.googleapis.com/product-images/1700000000-abc.png" {
		t.Fatalf("unexpected public url %s", url)
	}
}

func TestUploadFailureStatus(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "product-images",
		tokenSource:   staticTokenSource("token"),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			return &http.Response{
				StatusCode: http.StatusForbidden,
				Status:     "403 Forbidden",
				Body:       io.NopCloser(strings.NewReader("denied")),
				Header:     http.Header{},
			}
		})},
	}

	if _, err := client.Upload(context.Background(), "obj", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestUploadMissingObject(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "product-images",
		tokenSource:   staticTokenSource("token"),
	}
	if _, err := client.Upload(context.Background(), "", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for empty object name")
	}
}

func TestPingSuccess(t *testing.T) {
	t.Parallel()

	client := &Client{
		defaultBucket: "product-images",
		tokenSource:   staticTokenSource("token"),
		httpClient: &http.Client{Transport: roundTripFunc(func(req *http.Request) *http.Response {
			if req.Method != http.MethodGet {
				t.Fatalf("expected GET, got %s", req.Method)
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"items":[]}`)),
				Header:     http.Header{},
			}
		})},
	}

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestPingUninitialized(t *testing.T) {
	t.Parallel()

	var client *Client
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected error for nil client")
	}
}
