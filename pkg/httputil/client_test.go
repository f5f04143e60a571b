package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/shaderdoc/pkg/cache"
	"github.com/matzehuels/shaderdoc/pkg/errors"
)

func TestIsRemote(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://example.com/lib.json", true},
		{"http://localhost:8080/lib.yaml", true},
		{"lib.json", false},
		{"/abs/lib.json", false},
		{`C:\scenes\lib.json`, false},
		{"file:///tmp/lib.json", false},
		{"https://", false},
	}
	for _, tt := range tests {
		if got := IsRemote(tt.ref); got != tt.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestPathOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/scenes/lib.yaml?rev=3", "/scenes/lib.yaml"},
		{"https://example.com/lib.json#top", "/lib.json"},
		{"https://example.com/", ""},
	}
	for _, tt := range tests {
		if got := PathOf(tt.url); got != tt.want {
			t.Errorf("PathOf(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestFetchCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"materials": []}`))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(fc, 0, map[string]string{"Authorization": "Bearer token"})
	c.http = srv.Client()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		data, err := c.Fetch(ctx, srv.URL+"/lib.json", false)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if string(data) != `{"materials": []}` {
			t.Errorf("Fetch() = %q", data)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server called %d times, want 1", n)
	}

	if _, err := c.Fetch(ctx, srv.URL+"/lib.json", true); err != nil {
		t.Fatalf("Fetch(refresh) error: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("refresh did not bypass cache: %d calls", n)
	}
}

func TestFetchStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCode  errors.Code
		wantCalls int32
	}{
		{"not found", http.StatusNotFound, errors.ErrCodeFileNotFound, 1},
		{"forbidden", http.StatusForbidden, errors.ErrCodeNotFound, 1},
		{"server error retried", http.StatusBadGateway, "", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewClient(nil, 0, nil)
			c.http = srv.Client()

			_, err := c.Fetch(context.Background(), srv.URL+"/lib.json", false)
			if err == nil {
				t.Fatal("Fetch() succeeded, want error")
			}
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q", got, tt.wantCode)
			}
			if tt.wantCode == "" && !cache.IsRetryable(err) {
				t.Errorf("error %v not retryable", err)
			}
			if n := calls.Load(); n != tt.wantCalls {
				t.Errorf("calls = %d, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestFetchRejectsLocalPath(t *testing.T) {
	c := NewClient(nil, 0, nil)
	_, err := c.Fetch(context.Background(), "lib.json", false)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
