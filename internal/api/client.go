// Package api implements the REST client for the ResolveIT backend. All
// authoritative state lives server-side; every method here is a single
// round trip, and callers converge by re-fetching after mutations.
package api

import (
	"net/http"
	"time"
)

// sharedClient is the singleton HTTP client used for all backend calls.
//
// http.Client is safe for concurrent use, and sharing one instance means a
// single connection pool across the CLI, the monitor workers and the health
// endpoint.
var sharedClient *http.Client

func init() {
	sharedClient = NewHTTPClient(30 * time.Second)
}

// GetHTTPClient returns the shared HTTP client instance.
func GetHTTPClient() *http.Client {
	return sharedClient
}

// NewHTTPClient creates an HTTP client with connection pooling tuned for
// repeated calls against a single backend host.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
			DisableCompression:  false,
			ForceAttemptHTTP2:   true,
		},
	}
}

// SetHTTPClient overrides the shared client. Tests use this to inject a
// client pointed at a local server.
func SetHTTPClient(client *http.Client) {
	sharedClient = client
}
