package davclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/emersion/go-ical"

	"github.com/cyp0633/caldavreport/internal/httpclient"
)

// HTTPClient performs HTTP requests. It's implemented by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues calendar REPORTs against a CalDAV endpoint. It holds no
// per-request state and can be shared; each report gets its own method.
type Client struct {
	http *httpclient.Client
	settings
}

// NewClient creates a client for endpoint. A nil HTTPClient uses
// http.DefaultClient.
func NewClient(c HTTPClient, endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("endpoint %q must be an absolute URL", endpoint)
	}

	s := newSettings(opts)
	return &Client{
		http:     httpclient.NewClient(c, *u, s.logger),
		settings: s,
	}, nil
}

// NewReport creates a REPORT method sharing the client's logger, decoder and
// debug output
func (c *Client) NewReport(path string, query *ReportQuery) *CalendarReportMethod {
	m := NewCalendarReportMethod(path, query)
	m.settings = c.settings
	return m
}

// Report runs one REPORT and returns the calendar in the response
func (c *Client) Report(ctx context.Context, path string, depth Depth, query *ReportQuery) (*ical.Calendar, error) {
	m := c.NewReport(path, query)
	m.SetDepth(depth)

	if err := m.Execute(ctx, c); err != nil {
		return nil, err
	}
	defer m.Close()

	return m.ResponseBodyAsCalendar()
}

// Multiget fetches the calendar objects at hrefs with a calendar-multiget REPORT
func (c *Client) Multiget(ctx context.Context, path string, hrefs ...string) (*ical.Calendar, error) {
	query := &ReportQuery{
		MultiGet: &CalendarMultiget{
			Props: []string{PropGetETag, PropCalendarData},
			Hrefs: hrefs,
		},
	}
	return c.Report(ctx, path, DepthOne, query)
}

// Events returns a filter over the events of the calendar collection at path
func (c *Client) Events(path string) ObjectFilter {
	return &objectFilter{
		client:     c,
		path:       path,
		objectType: ical.CompEvent,
	}
}
