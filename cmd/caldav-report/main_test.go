package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//caldavreport//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:event-1\r\n" +
	"DTSTAMP:20250320T090000Z\r\n" +
	"DTSTART:20250321T100000Z\r\n" +
	"SUMMARY:Team meeting\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

type seenRequest struct {
	method, path, depth, auth, body string
}

func newCalDAVServer(t *testing.T) (*httptest.Server, *[]seenRequest) {
	t.Helper()
	var seen []seenRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		user, _, _ := r.BasicAuth()
		seen = append(seen, seenRequest{
			method: r.Method,
			path:   r.URL.Path,
			depth:  r.Header.Get("Depth"),
			auth:   user,
			body:   string(b),
		})
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		io.WriteString(w, testCalendar)
	}))
	t.Cleanup(server.Close)
	return server, &seen
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd("1.2.3")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestQueryCommand(t *testing.T) {
	server, seen := newCalDAVServer(t)
	t.Setenv("CALDAV_REPORT_SERVER_URL", server.URL)
	t.Setenv("CALDAV_REPORT_SERVER_USERNAME", "alice")
	t.Setenv("CALDAV_REPORT_SERVER_PASSWORD", "secret")

	out, _, err := run(t, "query", "/calendars//alice/",
		"--start", "2025-03-21T00:00:00Z",
		"--end", "2025-03-22T00:00:00Z",
		"--summary", "meeting",
		"--depth", "infinity")
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Team meeting")

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "REPORT", req.method)
	assert.Equal(t, "/calendars/alice/", req.path)
	assert.Equal(t, "infinity", req.depth)
	assert.Equal(t, "alice", req.auth)
	assert.Contains(t, req.body, `start="20250321T000000Z"`)
	assert.Contains(t, req.body, "meeting</C:text-match>")
}

func TestMultigetCommand(t *testing.T) {
	server, seen := newCalDAVServer(t)
	t.Setenv("CALDAV_REPORT_SERVER_URL", server.URL)

	out, stderr, err := run(t, "multiget", "/cal/", "/cal/1.ics", "/cal/2.ics", "--debug")
	require.NoError(t, err)

	assert.Contains(t, out, "UID:event-1")
	assert.Contains(t, stderr, "REPORT /cal/ HTTP/1.1")

	require.Len(t, *seen, 1)
	assert.Equal(t, "1", (*seen)[0].depth)
	assert.Equal(t, 2, strings.Count((*seen)[0].body, "<D:href>"))
	assert.Empty(t, (*seen)[0].auth)
}

func TestCommandErrors(t *testing.T) {
	server, seen := newCalDAVServer(t)

	tests := []struct {
		name string
		url  string
		args []string
	}{
		{name: "missing url", args: []string{"query", "/cal/"}},
		{name: "bad depth", url: server.URL, args: []string{"query", "/cal/", "--depth", "2"}},
		{name: "expand without range", url: server.URL, args: []string{"query", "/cal/", "--expand"}},
		{name: "bad start", url: server.URL, args: []string{"query", "/cal/", "--start", "yesterday"}},
		{name: "inverted range", url: server.URL, args: []string{"query", "/cal/", "--start", "2025-03-22T00:00:00Z", "--end", "2025-03-21T00:00:00Z"}},
		{name: "multiget without hrefs", url: server.URL, args: []string{"multiget", "/cal/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CALDAV_REPORT_SERVER_URL", tt.url)

			_, _, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, *seen)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "caldav-report version 1.2.3\n", out)
}
