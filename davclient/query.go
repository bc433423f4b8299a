package davclient

import caldavxml "github.com/cyp0633/caldavreport/internal/xml"

// Report query model. See RFC 4791 sections 7.8 and 7.9.
type (
	// ReportQuery holds exactly one of a calendar-query and a calendar-multiget
	ReportQuery = caldavxml.ReportQuery
	// CalendarQuery selects calendar objects by filter
	CalendarQuery = caldavxml.CalendarQuery
	// CalendarMultiget selects calendar objects by href
	CalendarMultiget = caldavxml.CalendarMultiget
	// CalendarData shapes the returned calendar data (expand, limit-recurrence-set)
	CalendarData = caldavxml.CalendarData
	// Filter is a nested comp-filter
	Filter = caldavxml.Filter
	// PropFilter restricts a component by property
	PropFilter = caldavxml.PropFilter
	// TextMatch matches property text
	TextMatch = caldavxml.TextMatch
	// TimeRange bounds a filter, expand or limit-recurrence-set
	TimeRange = caldavxml.TimeRange
	// ValidationError is returned by the default compiler for invalid queries
	ValidationError = caldavxml.ValidationError
)

// Property names commonly requested in a REPORT
const (
	PropGetETag      = caldavxml.TagGetETag
	PropCalendarData = caldavxml.TagCalendarData
)
