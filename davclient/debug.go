package davclient

import (
	"fmt"
	"io"
	"sort"
	"strings"

	caldavxml "github.com/cyp0633/caldavreport/internal/xml"
)

// dumpRequest writes the request line, headers and indented body to w.
// Write errors are ignored: the dump is purely diagnostic.
func (m *CalendarReportMethod) dumpRequest(w io.Writer, contentLength int64) {
	var b strings.Builder

	b.WriteString("\n>>>>>>>  to  server  ---------------------------------------------------\n")
	fmt.Fprintf(&b, "%s %s HTTP/1.1\n", m.Name(), m.Path())

	headers := m.RequestHeaders()
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range headers[name] {
			fmt.Fprintf(&b, "%s: %s\n", name, value)
		}
	}
	fmt.Fprintf(&b, "Content-Length: %d\n", contentLength)

	b.WriteString("\n")
	if body := m.RequestBody(); body != "" {
		b.WriteString(strings.TrimRight(caldavxml.Indent(body), "\n"))
		b.WriteString("\n")
	}
	b.WriteString("------------------------------------------------------------------------\n")

	io.WriteString(w, b.String())
}
