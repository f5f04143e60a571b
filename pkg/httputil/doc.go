// Package httputil fetches shader libraries published over HTTP.
//
// # Overview
//
// A library argument may be an http or https URL instead of a file path.
// [Client.Fetch] downloads it and stores the body in a [cache.Cache] under
// the key "remote:<url>", so repeated runs against the same URL work
// offline until the entry expires:
//
//	c := httputil.NewClient(fileCache, 0, nil)
//	data, err := c.Fetch(ctx, "https://example.com/scene.yaml", false)
//
// The format of the document is derived from the extension of the URL path
// (see [PathOf]).
//
// # Retry
//
// Connection failures, 5xx responses and 429 rate limits are retried with
// exponential backoff through [cache.RetryWithBackoff]. A 404 is reported
// as FILE_NOT_FOUND and is never retried.
//
// [cache.Cache]: github.com/matzehuels/shaderdoc/pkg/cache.Cache
// [cache.RetryWithBackoff]: github.com/matzehuels/shaderdoc/pkg/cache.RetryWithBackoff
package httputil
