package davclient

import (
	"io"

	"github.com/emersion/go-ical"
)

// CalendarDecoder turns a byte stream into a calendar, failing on malformed input
type CalendarDecoder interface {
	Decode(r io.Reader) (*ical.Calendar, error)
}

// CalendarDecoderFunc adapts a function to CalendarDecoder
type CalendarDecoderFunc func(r io.Reader) (*ical.Calendar, error)

// Decode calls f(r)
func (f CalendarDecoderFunc) Decode(r io.Reader) (*ical.Calendar, error) {
	return f(r)
}

// ICalDecoder decodes iCalendar streams with go-ical. It keeps no state and
// can be shared between methods.
type ICalDecoder struct{}

// Decode reads a single VCALENDAR from r
func (ICalDecoder) Decode(r io.Reader) (*ical.Calendar, error) {
	return ical.NewDecoder(r).Decode()
}
