// Package httputil provides the HTTP plumbing shared by remote repositories.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff. Only errors wrapped in
// [RetryableError] are retried; [CheckStatus] produces them for 5xx
// responses and [Transport] for connection failures:
//
//	err := httputil.Retry(ctx, httputil.DefaultPolicy, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Transport(err)
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp.StatusCode)
//	})
//
// # Missing-artifact cache
//
// [Cache] remembers lookups that failed with [ErrNotFound] for a TTL, so
// repeated builds do not ask a remote for the same missing file. Entries are
// JSON files under ~/.cache/mvnkit by default.
package httputil
