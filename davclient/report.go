package davclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-ical"

	"github.com/cyp0633/caldavreport/internal/httpclient"
)

const (
	// MethodReport is the HTTP verb sent on the wire
	MethodReport = "REPORT"

	calendarMediaType  = ical.MIMEType
	defaultContentType = "text/xml"

	// snapshotLimit bounds the partial response kept for diagnostics
	snapshotLimit = 1024
)

// CalendarReportMethod performs a CalDAV REPORT (RFC 4791) whose response is a
// calendar rather than a multistatus document. The request body is generated
// from a ReportQuery the first time its length is needed.
//
// A method models one round trip: construct it, configure it, Execute it once
// and read the response. It is not safe for concurrent use; concurrent reports
// need one method each. Changing the depth, query or path after Execute is a
// usage error.
type CalendarReportMethod struct {
	*httpclient.Exchange
	settings

	query *ReportQuery
	depth Depth
}

// NewCalendarReportMethod creates a REPORT against path. The path is
// normalized and the depth defaults to DepthOne.
func NewCalendarReportMethod(path string, query *ReportQuery, opts ...Option) *CalendarReportMethod {
	m := &CalendarReportMethod{
		Exchange: httpclient.NewExchange(MethodReport, ""),
		settings: newSettings(opts),
		query:    query,
		depth:    DepthOne,
	}
	m.SetPath(path)
	return m
}

// Name returns the protocol verb
func (m *CalendarReportMethod) Name() string {
	return MethodReport
}

// SetPath sets the target path with repeated separators collapsed
func (m *CalendarReportMethod) SetPath(path string) {
	m.Exchange.SetPath(removeDoubleSlashes(path))
}

// Depth returns the depth sent with the request
func (m *CalendarReportMethod) Depth() Depth {
	return m.depth
}

// SetDepth changes the depth. It must be called before Execute.
func (m *CalendarReportMethod) SetDepth(depth Depth) {
	m.depth = depth
}

// Query returns the report query
func (m *CalendarReportMethod) Query() *ReportQuery {
	return m.query
}

// SetQuery replaces the report query. It has no effect once the request body
// has been generated.
func (m *CalendarReportMethod) SetQuery(query *ReportQuery) {
	m.query = query
}

// Decoder returns the calendar decoder used on the response
func (m *CalendarReportMethod) Decoder() CalendarDecoder {
	return m.decoder
}

// SetDecoder replaces the calendar decoder. nil restores the go-ical decoder.
func (m *CalendarReportMethod) SetDecoder(decoder CalendarDecoder) {
	if decoder == nil {
		decoder = ICalDecoder{}
	}
	m.decoder = decoder
}

// AddRequestHeaders sets the Depth header and defaults Content-Type to
// text/xml, after the headers every exchange carries.
func (m *CalendarReportMethod) AddRequestHeaders() error {
	m.Exchange.AddRequestHeaders()

	var depth string
	switch m.depth {
	case DepthZero:
		depth = "0"
	case DepthOne:
		depth = "1"
	case DepthInfinity:
		depth = "infinity"
	default:
		return fmt.Errorf("invalid depth %d for REPORT %s", int(m.depth), m.Path())
	}
	m.SetRequestHeader("Depth", depth)

	if !m.HasRequestHeader("Content-Type") {
		m.SetRequestHeader("Content-Type", defaultContentType)
	}
	return nil
}

// RequestContentLength returns the length of the request body, generating the
// body from the query unless one was set explicitly. Generation happens at
// most once. A query that cannot be compiled yields a *QueryError.
func (m *CalendarReportMethod) RequestContentLength() (int64, error) {
	if !m.IsRequestBodySet() {
		body, err := m.generateRequestBody()
		if err != nil {
			return 0, err
		}
		m.SetRequestBody(body)
	}
	return m.Exchange.RequestContentLength(), nil
}

// generateRequestBody compiles the query into a document and serializes it.
// An empty serialization is a valid empty body.
func (m *CalendarReportMethod) generateRequestBody() (string, error) {
	doc, err := m.compile(m.query)
	if err != nil {
		m.logger.Error("failed to build request document from report query",
			"path", m.Path(),
			"error", err)
		return "", &QueryError{Path: m.Path(), Err: err}
	}
	return m.serialize(doc), nil
}

// Execute prepares the headers and body and sends the request through c.
// Query errors are returned before anything is sent. Non-2xx answers yield
// *HTTPError, network failures *TransportError. Close releases the response.
func (m *CalendarReportMethod) Execute(ctx context.Context, c *Client) error {
	if m.Executed() {
		return ErrAlreadyExecuted
	}

	if err := m.AddRequestHeaders(); err != nil {
		return err
	}
	m.logger.Debug("starting REPORT request",
		"exchange_id", m.ID(),
		"path", m.Path(),
		"depth", m.RequestHeader("Depth"))

	length, err := m.RequestContentLength()
	if err != nil {
		return err
	}
	if m.debug != nil {
		m.dumpRequest(m.debug, length)
	}

	if err := m.Exchange.Execute(ctx, c.http); err != nil {
		var statusErr *HTTPError
		if errors.As(err, &statusErr) {
			return err
		}
		return &TransportError{Path: m.Path(), Err: err}
	}

	m.logger.Debug("REPORT request complete",
		"exchange_id", m.ID(),
		"status", m.StatusCode())
	return nil
}

// ResponseBodyAsCalendar decodes the response body. The response must be
// text/calendar (parameters allowed), otherwise a *ProtocolError is returned
// without reading the body. Read failures yield a *TransportError carrying the
// part of the body received so far, and malformed data a *ParseError.
func (m *CalendarReportMethod) ResponseBodyAsCalendar() (*ical.Calendar, error) {
	body, err := m.ResponseBody()
	if err != nil {
		return nil, err
	}

	contentType := m.ResponseHeader("Content-Type")
	if !isCalendarContentType(contentType) {
		m.logger.Error("unexpected response content type",
			"path", m.Path(),
			"expected", calendarMediaType,
			"content_type", contentType)
		return nil, &ProtocolError{Path: m.Path(), ContentType: contentType}
	}

	snapshot := &limitedBuffer{limit: snapshotLimit}
	rec := &recordingReader{r: io.TeeReader(body, snapshot)}
	cal, err := m.decoder.Decode(rec)
	if rec.err != nil {
		// best effort: keep whatever else the server managed to send
		io.Copy(snapshot, io.LimitReader(body, snapshotLimit))
		m.logger.Warn("failed reading server response",
			"path", m.Path(),
			"error", rec.err,
			"body", snapshot.String())
		return nil, &TransportError{Path: m.Path(), Snapshot: snapshot.String(), Err: rec.err}
	}
	if err != nil {
		return nil, &ParseError{Path: m.Path(), Err: err}
	}
	if cal == nil {
		return nil, &ParseError{Path: m.Path(), Err: errors.New("decoder returned no calendar")}
	}

	m.logger.Debug("decoded calendar response",
		"exchange_id", m.ID(),
		"components", len(cal.Children))
	return cal, nil
}

func isCalendarContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), calendarMediaType)
}

// recordingReader remembers the first read error other than io.EOF, telling
// transport failures apart from decoder failures
type recordingReader struct {
	r   io.Reader
	err error
}

func (r *recordingReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if err != nil && err != io.EOF && r.err == nil {
		r.err = err
	}
	return n, err
}

// limitedBuffer keeps the first limit bytes written to it and drops the rest
type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	if b.truncated {
		return b.buf.String() + " […]"
	}
	return b.buf.String()
}
