package httpclient

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// maxLoggedBody bounds the bytes of a body copied into a log record
const maxLoggedBody = 4096

// BasicAuthTransport implements http.RoundTripper, adding Basic Auth
// credentials to outgoing requests and logging traffic at debug level.
type BasicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewBasicAuthTransport creates a new BasicAuthTransport with the given
// credentials and optional underlying transport. If transport is nil,
// http.DefaultTransport will be used.
func NewBasicAuthTransport(username, password string, transport http.RoundTripper, logger *slog.Logger) *BasicAuthTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BasicAuthTransport{
		Username:  username,
		Password:  password,
		Transport: transport,
		Logger:    logger,
	}
}

// RoundTrip implements the http.RoundTripper interface
func (t *BasicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Username == "" {
		return nil, errors.New("basic auth username cannot be empty")
	}
	if t.Password == "" {
		return nil, errors.New("basic auth password cannot be empty")
	}
	if t.Transport == nil {
		return nil, errors.New("transport cannot be nil")
	}

	t.Logger.Debug("outgoing request",
		"method", req.Method,
		"url", req.URL.String(),
		"headers", req.Header,
		"body", peekRequestBody(req))

	// RoundTrippers must not modify the caller's request
	authReq := req.Clone(req.Context())
	authReq.SetBasicAuth(t.Username, t.Password)

	resp, err := t.Transport.RoundTrip(authReq)
	if err != nil {
		return nil, err
	}

	respBody := ""
	if resp.Body != nil {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		// Hand back whatever was read, followed by the read error if any
		resp.Body = io.NopCloser(io.MultiReader(bytes.NewReader(bodyBytes), errReader{readErr}))
		respBody = truncate(bodyBytes)
	}

	t.Logger.Debug("incoming response",
		"status", resp.Status,
		"headers", resp.Header,
		"body", respBody)

	return resp, nil
}

// peekRequestBody returns a copy of the body without consuming it
func peekRequestBody(req *http.Request) string {
	if req.Body == nil || req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer body.Close()
	b, err := io.ReadAll(io.LimitReader(body, maxLoggedBody+1))
	if err != nil {
		return ""
	}
	return truncate(b)
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + " […]"
	}
	return string(b)
}

// errReader yields err once the preceding readers are drained. A nil err
// behaves as an empty reader.
type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) {
	if r.err == nil {
		return 0, io.EOF
	}
	return 0, r.err
}
