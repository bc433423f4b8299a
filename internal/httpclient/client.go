package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Doer performs HTTP requests. It's implemented by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client dispatches exchanges against a base URL
type Client struct {
	client  Doer
	baseURL url.URL
	logger  *slog.Logger
}

// NewClient creates a client bound to baseURL. A nil Doer uses
// http.DefaultClient and a nil logger discards everything.
func NewClient(client Doer, baseURL url.URL, logger *slog.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if baseURL.Path == "" {
		baseURL.Path = "/"
	}
	return &Client{client: client, baseURL: baseURL, logger: logger}
}

// Logger returns the logger the client was created with
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// resolveURL resolves a URL string against the base URL
func (c *Client) resolveURL(urlStr string) (*url.URL, error) {
	ref, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %q: %w", urlStr, err)
	}
	return c.baseURL.ResolveReference(ref), nil
}

// StatusError is returned when the server answers with a non-2xx status
type StatusError struct {
	Code    int
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP request failed: %s", e.Status)
	}
	return fmt.Sprintf("HTTP request failed: %s: %s", e.Status, e.Message)
}

// maxErrorBody bounds how much of an error response is kept
const maxErrorBody = 1024

// do sends the request and turns non-2xx answers into a *StatusError. The
// response body is closed in that case.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 == 2 {
		return resp, nil
	}
	defer resp.Body.Close()

	statusErr := &StatusError{Code: resp.StatusCode, Status: resp.Status}
	t, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if t == "" || strings.HasPrefix(t, "text/") || t == "application/xml" {
		lr := io.LimitedReader{R: resp.Body, N: maxErrorBody}
		var buf bytes.Buffer
		io.Copy(&buf, &lr)
		if s := strings.TrimSpace(buf.String()); s != "" {
			if lr.N == 0 {
				s += " […]"
			}
			statusErr.Message = s
		}
	}
	return nil, statusErr
}
