package util

import (
	"net/http"
	"net/url"
	"time"
)

// NewProxyFunc creates a proxy function based on configuration.
// If no proxy URLs are provided, falls back to environment variables.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// ClientOptions configures NewHTTPClient
type ClientOptions struct {
	Timeout      time.Duration
	HTTPProxy    string
	HTTPSProxy   string
	MaxRedirects int // 0 keeps the net/http default of 10
}

// NewHTTPClient builds the client shared by outbound capability calls
func NewHTTPClient(opts ClientOptions) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy)

	client := &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}
	if opts.MaxRedirects > 0 {
		limit := opts.MaxRedirects
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= limit {
				return http.ErrUseLastResponse
			}
			return nil
		}
	}
	return client
}
