package gcs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 5 * time.Second},
		baseURL:       baseURL,
		defaultBucket: "feastly-test",
		objectPrefix:  "restaurants",
		tokenSource: &tokenSource{
			token:  "static-test-token",
			expiry: time.Now().Add(time.Hour),
		},
	}
}

func TestObjectKeyPrefixing(t *testing.T) {
	client := testClient("http://unused")

	if got := client.ObjectKey("abc/photo.jpg"); got != "restaurants/abc/photo.jpg" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := client.ObjectKey("/leading-slash.png"); got != "restaurants/leading-slash.png" {
		t.Fatalf("unexpected key %q", got)
	}

	client.objectPrefix = ""
	if got := client.ObjectKey("bare.png"); got != "bare.png" {
		t.Fatalf("unexpected key without prefix %q", got)
	}
}

func TestUploadSendsMediaRequest(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"name":"restaurants/abc/photo.jpg"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	key, err := client.Upload(context.Background(), "abc/photo.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if key != "restaurants/abc/photo.jpg" {
		t.Fatalf("unexpected returned key %q", key)
	}
	if gotPath != "/upload/storage/v1/b/feastly-test/o" {
		t.Fatalf("unexpected upload path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "uploadType=media") {
		t.Fatalf("expected media upload, query %q", gotQuery)
	}
	if !strings.Contains(gotQuery, "name=restaurants%2Fabc%2Fphoto.jpg") {
		t.Fatalf("expected prefixed object name in query %q", gotQuery)
	}
	if gotAuth != "Bearer static-test-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotContentType != "image/jpeg" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotBody != "jpeg-bytes" {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestUploadSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := testClient(server.URL)

	if _, err := client.Upload(context.Background(), "x.png", "image/png", strings.NewReader("x")); err == nil {
		t.Fatalf("expected upload failure to surface")
	}
}

func TestDeleteTreatsNotFoundAsDeleted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(server.URL)

	if err := client.Delete(context.Background(), "restaurants/gone.png"); err != nil {
		t.Fatalf("expected 404 delete to succeed, got %v", err)
	}
}

func TestDeleteObjectsCollectsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			http.Error(w, "backend error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := testClient(server.URL)

	err := client.DeleteObjects(context.Background(), []string{"ok-1.png", "bad-2.png", "", "ok-3.png"})
	if err == nil {
		t.Fatalf("expected aggregated error for the failed key")
	}
	if !strings.Contains(err.Error(), "bad-2.png") {
		t.Fatalf("expected failing key in error, got %v", err)
	}

	if err := client.DeleteObjects(context.Background(), []string{"ok-1.png", "ok-3.png"}); err != nil {
		t.Fatalf("expected clean purge, got %v", err)
	}
}

func TestPingChecksBucketAccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/storage/v1/b/feastly-test/o" {
			t.Fatalf("unexpected ping path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestPingFailsOnForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client := testClient(server.URL)
	if err := client.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestTokenSourceRefreshesWhenExpiring(t *testing.T) {
	fetches := 0
	ts := &tokenSource{
		token:  "stale",
		expiry: time.Now().Add(10 * time.Second),
		fetch: func(ctx context.Context) (string, time.Time, error) {
			fetches++
			return "fresh", time.Now().Add(time.Hour), nil
		},
	}

	token, err := ts.Token(context.Background())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "fresh" {
		t.Fatalf("expected refreshed token, got %q", token)
	}

	// second call serves the cached token
	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("token: %v", err)
	}
	if fetches != 1 {
		t.Fatalf("expected a single fetch, got %d", fetches)
	}
}
