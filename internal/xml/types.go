package xml

// Common XML tag names used in CalDAV REPORT requests
const (
	TagProp               = "prop"
	TagHref               = "href"
	TagGetETag            = "getetag"
	TagCalendarQuery      = "calendar-query"
	TagCalendarMultiget   = "calendar-multiget"
	TagCalendarData       = "calendar-data"
	TagCalendarTimezone   = "calendar-timezone"
	TagCalendarHomeSet    = "calendar-home-set"
	TagFilter             = "filter"
	TagCompFilter         = "comp-filter"
	TagPropFilter         = "prop-filter"
	TagTextMatch          = "text-match"
	TagIsNotDefined       = "is-not-defined"
	TagTimeRange          = "time-range"
	TagExpand             = "expand"
	TagLimitRecurrenceSet = "limit-recurrence-set"
)

// Attribute values
const (
	// TimeFormat is the UTC date-time form used by time-range and expand
	TimeFormat = "20060102T150405Z"

	TestAnyOf = "anyof"
	TestAllOf = "allof"

	// CollationASCIICaseMap is the default text-match collation
	CollationASCIICaseMap = "i;ascii-casemap"
	CollationOctet        = "i;octet"
)
