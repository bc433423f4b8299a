package xml

import (
	"strings"

	"github.com/beevik/etree"
)

// Namespace definitions for CalDAV and WebDAV
const (
	// DAV is the WebDAV namespace
	DAV = "DAV:"
	// CalDAV is the CalDAV namespace
	CalDAV = "urn:ietf:params:xml:ns:caldav"
)

// Prefixes used when emitting request documents
const (
	PrefixDAV    = "D"
	PrefixCalDAV = "C"
)

// caldavElements lists the local names that live in the CalDAV namespace.
// Anything else is emitted in the DAV: namespace.
var caldavElements = map[string]bool{
	TagCalendarQuery:      true,
	TagCalendarMultiget:   true,
	TagCalendarData:       true,
	TagFilter:             true,
	TagCompFilter:         true,
	TagPropFilter:         true,
	TagTextMatch:          true,
	TagIsNotDefined:       true,
	TagTimeRange:          true,
	TagExpand:             true,
	TagLimitRecurrenceSet: true,
	TagCalendarTimezone:   true,
	TagCalendarHomeSet:    true,
}

// prefixFor returns the namespace prefix for a local element name
func prefixFor(local string) string {
	if caldavElements[strings.ToLower(local)] {
		return PrefixCalDAV
	}
	return PrefixDAV
}

// CreateRootElement creates the document root with the prefix matching its namespace
func CreateRootElement(doc *etree.Document, local string) *etree.Element {
	return doc.CreateElement(prefixFor(local) + ":" + local)
}

// CreateElementWithNS creates a child element with the prefix matching its namespace
func CreateElementWithNS(parent *etree.Element, local string) *etree.Element {
	return parent.CreateElement(prefixFor(local) + ":" + local)
}

// AddNamespaces declares the DAV and CalDAV namespaces on the document root
func AddNamespaces(doc *etree.Document) {
	root := doc.Root()
	if root == nil {
		return
	}
	root.CreateAttr("xmlns:"+PrefixDAV, DAV)
	root.CreateAttr("xmlns:"+PrefixCalDAV, CalDAV)
}
