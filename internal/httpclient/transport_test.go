package httpclient

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestBasicAuthTransport(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mock := &mockTransport{response: &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Header:     http.Header{"Content-Type": []string{"text/calendar"}},
		Body:       io.NopCloser(strings.NewReader("BEGIN:VCALENDAR")),
	}}
	transport := NewBasicAuthTransport("alice", "secret", mock, logger)

	req, err := http.NewRequest("REPORT", "http://example.com/cal/", strings.NewReader("<query/>"))
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)

	require.Len(t, mock.requests, 1)
	user, pass, ok := mock.requests[0].BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "secret", pass)

	_, _, ok = req.BasicAuth()
	assert.False(t, ok, "the caller's request must not be modified")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR", string(body))

	assert.Contains(t, logs.String(), "outgoing request")
	assert.Contains(t, logs.String(), "<query/>")
	assert.Contains(t, logs.String(), "incoming response")
}

func TestBasicAuthTransportKeepsReadError(t *testing.T) {
	mock := &mockTransport{response: &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(&failingReader{data: []byte("BEGIN:"), err: io.ErrUnexpectedEOF}),
	}}
	transport := NewBasicAuthTransport("alice", "secret", mock, nil)

	req, err := http.NewRequest(http.MethodGet, "http://example.com/cal/", nil)
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "BEGIN:", string(body))
}

func TestBasicAuthTransportValidation(t *testing.T) {
	tests := []struct {
		name      string
		transport *BasicAuthTransport
	}{
		{name: "missing username", transport: NewBasicAuthTransport("", "secret", &mockTransport{}, nil)},
		{name: "missing password", transport: NewBasicAuthTransport("alice", "", &mockTransport{}, nil)},
		{name: "missing transport", transport: &BasicAuthTransport{Username: "alice", Password: "secret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
			require.NoError(t, err)

			_, err = tt.transport.RoundTrip(req)
			assert.Error(t, err)
		})
	}
}
