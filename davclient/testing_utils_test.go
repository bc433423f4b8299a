package davclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/beevik/etree"
	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/require"

	caldavxml "github.com/cyp0633/caldavreport/internal/xml"
)

const testCalendar = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//caldavreport//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:event-1\r\n" +
	"DTSTAMP:20250320T090000Z\r\n" +
	"DTSTART:20250321T100000Z\r\n" +
	"DTEND:20250321T110000Z\r\n" +
	"SUMMARY:Team meeting\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:event-2\r\n" +
	"DTSTAMP:20250320T090000Z\r\n" +
	"DTSTART:20250322T100000Z\r\n" +
	"SUMMARY:Review\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VTODO\r\n" +
	"UID:todo-1\r\n" +
	"DTSTAMP:20250320T090000Z\r\n" +
	"SUMMARY:Write report\r\n" +
	"END:VTODO\r\n" +
	"END:VCALENDAR\r\n"

func decodeTestCalendar(t *testing.T) *ical.Calendar {
	t.Helper()
	cal, err := ical.NewDecoder(strings.NewReader(testCalendar)).Decode()
	require.NoError(t, err)
	return cal
}

func multigetQuery(hrefs ...string) *ReportQuery {
	return &ReportQuery{
		MultiGet: &CalendarMultiget{
			Props: []string{PropGetETag, PropCalendarData},
			Hrefs: hrefs,
		},
	}
}

// countingCompiler wraps the default compiler and counts invocations
type countingCompiler struct {
	calls atomic.Int32
}

func (c *countingCompiler) compile(q *ReportQuery) (*etree.Document, error) {
	c.calls.Add(1)
	return caldavxml.Compile(q)
}

// recordedRequest is what a test server saw
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

// calendarServer answers every request with contentType and body, recording
// the requests it receives
func calendarServer(t *testing.T, contentType, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   string(b),
		})
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func newTestClient(t *testing.T, c HTTPClient, endpoint string, opts ...Option) *Client {
	t.Helper()
	client, err := NewClient(c, endpoint, opts...)
	require.NoError(t, err)
	return client
}

type mockTransport struct {
	response *http.Response
	err      error
	calls    int
}

func (m *mockTransport) RoundTrip(*http.Request) (*http.Response, error) {
	m.calls++
	return m.response, m.err
}

// failingReader returns data, then err
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
