package davclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/emersion/go-ical"

	caldavxml "github.com/cyp0633/caldavreport/internal/xml"
)

// ObjectFilter builds a calendar-query REPORT step by step
type ObjectFilter interface {
	TimeRange(start, end time.Time) ObjectFilter
	Expand(start, end time.Time) ObjectFilter
	HasAlarm() ObjectFilter
	ObjectType(objType string) ObjectFilter
	Priority(priority int) ObjectFilter
	Categories(categories ...string) ObjectFilter
	Status(status string) ObjectFilter
	NotStatus(status string) ObjectFilter
	Summary(summary string) ObjectFilter
	Description(desc string) ObjectFilter
	Location(location string) ObjectFilter
	Organizer(organizer string) ObjectFilter
	Depth(depth Depth) ObjectFilter
	Limit(limit int) ObjectFilter
	Query() (*ReportQuery, error)
	Do(ctx context.Context) ([]ical.Event, error)
}

// reporter is the part of Client used by objectFilter
type reporter interface {
	Report(ctx context.Context, path string, depth Depth, query *ReportQuery) (*ical.Calendar, error)
}

type objectFilter struct {
	client      reporter
	path        string
	depth       *Depth
	timeRange   *TimeRange
	expand      *TimeRange
	hasAlarm    bool
	objectType  string
	priority    *int
	categories  []string
	status      string
	notStatus   string
	summary     string
	description string
	location    string
	organizer   string
	limit       int
}

func (f *objectFilter) TimeRange(start, end time.Time) ObjectFilter {
	f.timeRange = &TimeRange{Start: &start, End: &end}
	return f
}

// Expand asks the server to expand recurring components within the range
func (f *objectFilter) Expand(start, end time.Time) ObjectFilter {
	f.expand = &TimeRange{Start: &start, End: &end}
	return f
}

func (f *objectFilter) HasAlarm() ObjectFilter {
	f.hasAlarm = true
	return f
}

func (f *objectFilter) ObjectType(objType string) ObjectFilter {
	f.objectType = objType
	return f
}

func (f *objectFilter) Priority(priority int) ObjectFilter {
	f.priority = &priority
	return f
}

func (f *objectFilter) Categories(categories ...string) ObjectFilter {
	f.categories = categories
	return f
}

func (f *objectFilter) Status(status string) ObjectFilter {
	f.status = status
	return f
}

func (f *objectFilter) NotStatus(status string) ObjectFilter {
	f.notStatus = status
	return f
}

func (f *objectFilter) Summary(summary string) ObjectFilter {
	f.summary = summary
	return f
}

func (f *objectFilter) Description(desc string) ObjectFilter {
	f.description = desc
	return f
}

func (f *objectFilter) Location(location string) ObjectFilter {
	f.location = location
	return f
}

func (f *objectFilter) Organizer(organizer string) ObjectFilter {
	f.organizer = organizer
	return f
}

func (f *objectFilter) Depth(depth Depth) ObjectFilter {
	f.depth = &depth
	return f
}

func (f *objectFilter) Limit(limit int) ObjectFilter {
	f.limit = limit
	return f
}

func textMatchFilter(name, text string, negate bool) caldavxml.PropFilter {
	return caldavxml.PropFilter{
		Name: name,
		TextMatch: &caldavxml.TextMatch{
			Text:            text,
			NegateCondition: negate,
		},
	}
}

// Query converts the filter to a calendar-query
func (f *objectFilter) Query() (*ReportQuery, error) {
	inner := &Filter{ComponentName: f.objectType}

	if f.timeRange != nil {
		inner.TimeRange = f.timeRange
	}

	// prop-filters combine with allof, the RFC 4791 default
	var propFilters []PropFilter
	if f.summary != "" {
		propFilters = append(propFilters, textMatchFilter(ical.PropSummary, f.summary, false))
	}
	if f.description != "" {
		propFilters = append(propFilters, textMatchFilter(ical.PropDescription, f.description, false))
	}
	if f.location != "" {
		propFilters = append(propFilters, textMatchFilter(ical.PropLocation, f.location, false))
	}
	if f.status != "" {
		propFilters = append(propFilters, textMatchFilter(ical.PropStatus, f.status, false))
	}
	if f.notStatus != "" {
		propFilters = append(propFilters, textMatchFilter(ical.PropStatus, f.notStatus, true))
	}
	if f.priority != nil {
		propFilters = append(propFilters, textMatchFilter(ical.PropPriority, strconv.Itoa(*f.priority), false))
	}
	for _, category := range f.categories {
		propFilters = append(propFilters, textMatchFilter(ical.PropCategories, category, false))
	}
	if f.organizer != "" {
		propFilters = append(propFilters, textMatchFilter(ical.PropOrganizer, f.organizer, false))
	}
	inner.PropFilters = propFilters

	if f.hasAlarm {
		inner.SubFilter = &Filter{ComponentName: ical.CompAlarm}
	}

	query := &ReportQuery{
		Query: &CalendarQuery{
			Props: []string{PropGetETag, PropCalendarData},
			Filter: Filter{
				ComponentName: ical.CompCalendar,
				SubFilter:     inner,
			},
		},
	}
	if f.expand != nil {
		query.Query.CalendarData = &CalendarData{Expand: f.expand}
	}

	if err := query.Validate(); err != nil {
		return nil, err
	}
	return query, nil
}

// Do executes the filter and returns the matching components of the
// requested type
func (f *objectFilter) Do(ctx context.Context) ([]ical.Event, error) {
	query, err := f.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar query: %w", err)
	}

	depth := DepthOne
	if f.depth != nil {
		depth = *f.depth
	}

	cal, err := f.client.Report(ctx, f.path, depth, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute calendar query: %w", err)
	}

	var events []ical.Event
	for _, child := range cal.Children {
		if child.Name != f.objectType {
			continue
		}
		events = append(events, ical.Event{Component: child})
	}

	if f.limit > 0 && len(events) > f.limit {
		events = events[:f.limit]
	}
	return events, nil
}
