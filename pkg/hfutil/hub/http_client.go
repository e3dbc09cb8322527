package hub

import (
	"net"
	"net/http"
	"sync"
	"time"
)

var (
	defaultHTTPClient *http.Client
	clientOnce        sync.Once
)

// GetHTTPClient returns the pooled client shared by all Hub requests. It has
// no overall timeout; callers bound each request with a context.
func GetHTTPClient() *http.Client {
	clientOnce.Do(func() {
		transport := &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     20,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			Proxy:                 http.ProxyFromEnvironment,
		}

		defaultHTTPClient = &http.Client{Transport: transport}
	})

	return defaultHTTPClient
}
