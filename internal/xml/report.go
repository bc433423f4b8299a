package xml

import (
	"time"

	"github.com/beevik/etree"
)

// TimeRange represents a time range filter. At least one bound must be set.
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

func (tr *TimeRange) toElement(elem *etree.Element) {
	if tr.Start != nil {
		elem.CreateAttr("start", tr.Start.UTC().Format(TimeFormat))
	}
	if tr.End != nil {
		elem.CreateAttr("end", tr.End.UTC().Format(TimeFormat))
	}
}

// TextMatch matches a property value against a substring
type TextMatch struct {
	Text            string
	Collation       string
	NegateCondition bool
}

func (tm *TextMatch) toElement(parent *etree.Element) {
	elem := CreateElementWithNS(parent, TagTextMatch)
	if tm.Collation != "" {
		elem.CreateAttr("collation", tm.Collation)
	}
	if tm.NegateCondition {
		elem.CreateAttr("negate-condition", "yes")
	}
	elem.SetText(tm.Text)
}

// PropFilter restricts a component by one of its properties
type PropFilter struct {
	Name         string
	IsNotDefined bool
	TextMatch    *TextMatch
}

func (pf *PropFilter) toElement(parent *etree.Element) {
	elem := CreateElementWithNS(parent, TagPropFilter)
	elem.CreateAttr("name", pf.Name)
	if pf.IsNotDefined {
		CreateElementWithNS(elem, TagIsNotDefined)
		return
	}
	if pf.TextMatch != nil {
		pf.TextMatch.toElement(elem)
	}
}

// Filter represents a (possibly nested) comp-filter
type Filter struct {
	ComponentName string
	Test          string
	TimeRange     *TimeRange
	PropFilters   []PropFilter
	SubFilter     *Filter
}

func (f *Filter) toElement(parent *etree.Element) {
	compFilter := CreateElementWithNS(parent, TagCompFilter)
	compFilter.CreateAttr("name", f.ComponentName)
	if f.Test != "" {
		compFilter.CreateAttr("test", f.Test)
	}

	if f.TimeRange != nil {
		f.TimeRange.toElement(CreateElementWithNS(compFilter, TagTimeRange))
	}

	for i := range f.PropFilters {
		f.PropFilters[i].toElement(compFilter)
	}

	if f.SubFilter != nil {
		f.SubFilter.toElement(compFilter)
	}
}

// CalendarData shapes the calendar-data returned by the server
type CalendarData struct {
	Expand             *TimeRange
	LimitRecurrenceSet *TimeRange
}

func (cd *CalendarData) toElement(elem *etree.Element) {
	if cd.Expand != nil {
		cd.Expand.toElement(CreateElementWithNS(elem, TagExpand))
	}
	if cd.LimitRecurrenceSet != nil {
		cd.LimitRecurrenceSet.toElement(CreateElementWithNS(elem, TagLimitRecurrenceSet))
	}
}

// CalendarQuery represents a calendar-query REPORT request
type CalendarQuery struct {
	Props        []string
	CalendarData *CalendarData
	Filter       Filter
}

// CalendarMultiget represents a calendar-multiget REPORT request
type CalendarMultiget struct {
	Props        []string
	CalendarData *CalendarData
	Hrefs        []string
}

// ReportQuery describes the body of a REPORT request. Exactly one of Query and
// MultiGet must be set.
type ReportQuery struct {
	Query    *CalendarQuery
	MultiGet *CalendarMultiget
}

// addProps writes the prop element. calendar-data is always requested when
// CalendarData is set, even if it is missing from props.
func addProps(root *etree.Element, props []string, cd *CalendarData) {
	if len(props) == 0 && cd == nil {
		return
	}

	prop := CreateElementWithNS(root, TagProp)
	wroteCalendarData := false
	for _, name := range props {
		elem := CreateElementWithNS(prop, name)
		if name == TagCalendarData {
			wroteCalendarData = true
			if cd != nil {
				cd.toElement(elem)
			}
		}
	}
	if cd != nil && !wroteCalendarData {
		cd.toElement(CreateElementWithNS(prop, TagCalendarData))
	}
}

// toXML converts a ReportQuery to an XML document. It expects a validated query.
func (r *ReportQuery) toXML() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	switch {
	case r.Query != nil:
		root := CreateRootElement(doc, TagCalendarQuery)
		AddNamespaces(doc)
		addProps(root, r.Query.Props, r.Query.CalendarData)
		filter := CreateElementWithNS(root, TagFilter)
		r.Query.Filter.toElement(filter)

	case r.MultiGet != nil:
		root := CreateRootElement(doc, TagCalendarMultiget)
		AddNamespaces(doc)
		addProps(root, r.MultiGet.Props, r.MultiGet.CalendarData)
		for _, href := range r.MultiGet.Hrefs {
			CreateElementWithNS(root, TagHref).SetText(href)
		}
	}

	return doc
}
