package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// UserAgent is sent when the caller did not set one
const UserAgent = "caldavreport/1.0"

var (
	// ErrAlreadyExecuted is returned when an exchange is executed twice
	ErrAlreadyExecuted = errors.New("exchange already executed")
	// ErrNotExecuted is returned when the response is read before execution
	ErrNotExecuted = errors.New("exchange not executed")
)

// Exchange is a single HTTP request/response round trip. The request is
// configured first, Execute sends it, and the response is read afterwards.
// An Exchange is not safe for concurrent use.
type Exchange struct {
	id     string
	method string
	path   string
	header http.Header
	body   mo.Option[string]
	resp   *http.Response
}

// NewExchange creates an exchange for method against path
func NewExchange(method, path string) *Exchange {
	return &Exchange{
		id:     uuid.NewString(),
		method: method,
		path:   path,
		header: make(http.Header),
		body:   mo.None[string](),
	}
}

// ID identifies the exchange in log records
func (e *Exchange) ID() string { return e.id }

// Method returns the request method
func (e *Exchange) Method() string { return e.method }

// Path returns the request path
func (e *Exchange) Path() string { return e.path }

// SetPath replaces the request path
func (e *Exchange) SetPath(path string) { e.path = path }

// SetRequestHeader sets a request header, replacing existing values
func (e *Exchange) SetRequestHeader(name, value string) {
	e.header.Set(name, value)
}

// AddRequestHeader appends a value to a request header
func (e *Exchange) AddRequestHeader(name, value string) {
	e.header.Add(name, value)
}

// RequestHeader returns the first value of a request header
func (e *Exchange) RequestHeader(name string) string {
	return e.header.Get(name)
}

// HasRequestHeader reports whether a request header has been set
func (e *Exchange) HasRequestHeader(name string) bool {
	_, ok := e.header[http.CanonicalHeaderKey(name)]
	return ok
}

// RequestHeaders returns a copy of the request headers
func (e *Exchange) RequestHeaders() http.Header {
	return e.header.Clone()
}

// AddRequestHeaders sets the headers every exchange carries
func (e *Exchange) AddRequestHeaders() {
	if !e.HasRequestHeader("User-Agent") {
		e.header.Set("User-Agent", UserAgent)
	}
}

// SetRequestBody stores the request body
func (e *Exchange) SetRequestBody(body string) {
	e.body = mo.Some(body)
}

// AppendRequestBody appends to the request body, setting it if absent
func (e *Exchange) AppendRequestBody(s string) {
	e.body = mo.Some(e.body.OrEmpty() + s)
}

// IsRequestBodySet reports whether a body has been stored
func (e *Exchange) IsRequestBodySet() bool {
	return e.body.IsPresent()
}

// RequestBody returns the stored body, or "" if none was set
func (e *Exchange) RequestBody() string {
	return e.body.OrEmpty()
}

// RequestContentLength returns the length in bytes of the stored body
func (e *Exchange) RequestContentLength() int64 {
	return int64(len(e.body.OrEmpty()))
}

// Execute sends the request through c. Non-2xx responses are returned as
// *StatusError. The caller must Close the exchange once the response has been
// consumed.
func (e *Exchange) Execute(ctx context.Context, c *Client) error {
	if e.resp != nil {
		return ErrAlreadyExecuted
	}

	c.logger.Debug("starting request",
		"exchange_id", e.id,
		"method", e.method,
		"path", e.path)

	resolvedURL, err := c.resolveURL(e.path)
	if err != nil {
		c.logger.Debug("failed to resolve URL", "exchange_id", e.id, "url", e.path, "error", err)
		return err
	}
	c.logger.Debug("resolved URL", "exchange_id", e.id, "url", resolvedURL.String())

	var body io.Reader
	if e.body.IsPresent() {
		body = strings.NewReader(e.RequestBody())
	}

	req, err := http.NewRequestWithContext(ctx, e.method, resolvedURL.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", e.method, err)
	}
	req.Header = e.header.Clone()
	req.ContentLength = e.RequestContentLength()

	resp, err := c.do(req)
	if err != nil {
		c.logger.Debug("request failed", "exchange_id", e.id, "error", err)
		return err
	}

	c.logger.Debug("received response",
		"exchange_id", e.id,
		"status", resp.Status,
		"content_type", resp.Header.Get("Content-Type"))
	e.resp = resp
	return nil
}

// Executed reports whether a response has been received
func (e *Exchange) Executed() bool {
	return e.resp != nil
}

// StatusCode returns the response status code, or 0 before execution
func (e *Exchange) StatusCode() int {
	if e.resp == nil {
		return 0
	}
	return e.resp.StatusCode
}

// ResponseHeader returns the first value of a response header
func (e *Exchange) ResponseHeader(name string) string {
	if e.resp == nil {
		return ""
	}
	return e.resp.Header.Get(name)
}

// ResponseBody returns the response body stream
func (e *Exchange) ResponseBody() (io.Reader, error) {
	if e.resp == nil {
		return nil, ErrNotExecuted
	}
	return e.resp.Body, nil
}

// Close releases the response body
func (e *Exchange) Close() error {
	if e.resp == nil || e.resp.Body == nil {
		return nil
	}
	return e.resp.Body.Close()
}
