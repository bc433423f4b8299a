package davclient

import (
	"io"
	"log/slog"

	"github.com/beevik/etree"

	caldavxml "github.com/cyp0633/caldavreport/internal/xml"
)

// DocumentCompiler turns a report query into a request document. It fails
// with a validation error when the query cannot be expressed.
type DocumentCompiler func(query *ReportQuery) (*etree.Document, error)

// DocumentSerializer renders a request document as XML text
type DocumentSerializer func(doc *etree.Document) string

// settings are shared by Client and CalendarReportMethod
type settings struct {
	logger    *slog.Logger
	decoder   CalendarDecoder
	debug     io.Writer
	compile   DocumentCompiler
	serialize DocumentSerializer
}

// Option configures a Client or a CalendarReportMethod
type Option func(*settings)

// WithLogger sets the logger. The default discards all records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDecoder sets the decoder applied to calendar responses
func WithDecoder(decoder CalendarDecoder) Option {
	return func(s *settings) {
		if decoder != nil {
			s.decoder = decoder
		}
	}
}

// WithDebugOutput writes a dump of every outgoing request to w. It never
// changes what is sent.
func WithDebugOutput(w io.Writer) Option {
	return func(s *settings) {
		s.debug = w
	}
}

// WithCompiler replaces the query-to-document compiler
func WithCompiler(compile DocumentCompiler) Option {
	return func(s *settings) {
		if compile != nil {
			s.compile = compile
		}
	}
}

// WithSerializer replaces the document serializer
func WithSerializer(serialize DocumentSerializer) Option {
	return func(s *settings) {
		if serialize != nil {
			s.serialize = serialize
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		decoder:   ICalDecoder{},
		compile:   caldavxml.Compile,
		serialize: caldavxml.Serialize,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
