package gbooks

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultConnectTimeout bounds establishing the TCP connection
	DefaultConnectTimeout = 15 * time.Second
	// DefaultReadTimeout bounds each wait for response bytes
	DefaultReadTimeout = 10 * time.Second
)

// HTTPClient fetches URLs over HTTP with fixed connect and read timeouts
type HTTPClient struct {
	userAgent string
	http      *http.Client
}

// ClientOptions configures an HTTPClient
type ClientOptions struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	UserAgent      string
}

// NewHTTPClient creates a new HTTP client. Zero timeouts fall back to the defaults.
func NewHTTPClient(opts ClientOptions) *HTTPClient {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}

	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}
	readTimeout := opts.ReadTimeout

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &deadlineConn{Conn: conn, timeout: readTimeout}, nil
		},
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: readTimeout,
		// one connection per call, released when the body is closed
		DisableKeepAlives: true,
	}

	return &HTTPClient{
		userAgent: opts.UserAgent,
		http:      &http.Client{Transport: transport},
	}
}

// Get performs a GET request and returns the body as text.
// Any failure, including a non-2xx status, is returned as a *NetworkError.
func (c *HTTPClient) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// drain so the connection is released cleanly
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &NetworkError{URL: url, Err: &StatusError{Code: resp.StatusCode, Status: resp.Status}}
	}

	var body strings.Builder
	if _, err := io.Copy(&body, resp.Body); err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	return strings.ToValidUTF8(body.String(), "�"), nil
}

// deadlineConn re-arms the read deadline before every Read
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}
