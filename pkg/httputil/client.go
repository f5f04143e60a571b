package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/shaderdoc/pkg/cache"
	"github.com/matzehuels/shaderdoc/pkg/errors"
	"github.com/matzehuels/shaderdoc/pkg/observability"
)

const (
	httpTimeout = 30 * time.Second

	// DefaultTTL is how long fetched documents stay cached.
	DefaultTTL = 24 * time.Hour

	// MaxBodyBytes bounds a fetched document.
	MaxBodyBytes = 32 << 20

	keyPrefix = "remote:"
	keyType   = "remote"
)

// Client fetches remote documents with caching and retries.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
}

// NewClient creates a Client backed by c. A nil cache disables caching and
// a ttl of 0 uses DefaultTTL. Headers are sent with every request.
func NewClient(c cache.Cache, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   c,
		ttl:     ttl,
		headers: headers,
	}
}

// IsRemote reports whether ref is an http or https URL rather than a path.
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch returns the body of rawURL. Unless refresh is set, a cached copy is
// returned when present. Network failures and 5xx responses are retried.
//
// Errors: FILE_NOT_FOUND for a 404, INVALID_INPUT for a malformed URL,
// NOT_FOUND wrapping the status for other client errors.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if !IsRemote(rawURL) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "not an http(s) URL: %q", rawURL)
	}

	key := keyPrefix + rawURL
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, keyType)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
	}

	var data []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = c.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("fetch %s: %w", rawURL, err))
	}
	defer resp.Body.Close()

	if err := checkStatus(rawURL, resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("read %s: %w", rawURL, err))
	}
	if len(data) > MaxBodyBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", rawURL, MaxBodyBytes)
	}
	return data, nil
}

func checkStatus(rawURL string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeFileNotFound, "library not found: %s", rawURL)
	case code >= 500 || code == http.StatusTooManyRequests:
		return cache.Retryable(fmt.Errorf("fetch %s: status %d", rawURL, code))
	default:
		return errors.New(errors.ErrCodeNotFound, "fetch %s: status %d", rawURL, code)
	}
}

// PathOf returns the path component of a URL, for deriving a file format
// from its extension. Query strings and fragments are ignored.
func PathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return strings.TrimSuffix(u.Path, "/")
}
