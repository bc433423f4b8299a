package xml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ValidationError reports why a ReportQuery cannot be expressed as a request document
type ValidationError struct {
	Element string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.Element == "" {
		return fmt.Sprintf("invalid report query: %s", e.Reason)
	}
	return fmt.Sprintf("invalid report query: %s: %s", e.Element, e.Reason)
}

func invalid(element, format string, args ...interface{}) error {
	return &ValidationError{Element: element, Reason: fmt.Sprintf(format, args...)}
}

// Compile validates a ReportQuery and builds its request document
func Compile(r *ReportQuery) (*etree.Document, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r.toXML(), nil
}

// Serialize renders a document as indented XML text. A nil document yields "".
func Serialize(doc *etree.Document) string {
	if doc == nil || doc.Root() == nil {
		return ""
	}
	out := doc.Copy()
	out.Indent(2)
	s, err := out.WriteToString()
	if err != nil {
		return ""
	}
	return s
}

// Indent re-indents serialized XML for display. Text that does not parse is
// returned unchanged.
func Indent(s string) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil || doc.Root() == nil {
		return s
	}
	return Serialize(doc)
}

// Validate checks the query against the structure RFC 4791 requires
func (r *ReportQuery) Validate() error {
	if r == nil {
		return invalid("", "query is nil")
	}

	switch {
	case r.Query != nil && r.MultiGet != nil:
		return invalid("", "both calendar-query and calendar-multiget are set")
	case r.Query != nil:
		return r.Query.validate()
	case r.MultiGet != nil:
		return r.MultiGet.validate()
	default:
		return invalid("", "no report type set")
	}
}

func validateProps(props []string) error {
	for _, p := range props {
		if strings.TrimSpace(p) == "" {
			return invalid(TagProp, "empty property name")
		}
		if strings.Contains(p, ":") {
			return invalid(TagProp, "property %q must be a local name", p)
		}
	}
	return nil
}

func (cd *CalendarData) validate() error {
	if cd == nil {
		return nil
	}
	if cd.Expand != nil {
		if err := cd.Expand.validate(TagExpand); err != nil {
			return err
		}
		// expand needs both bounds
		if cd.Expand.Start == nil || cd.Expand.End == nil {
			return invalid(TagExpand, "start and end are required")
		}
	}
	if cd.LimitRecurrenceSet != nil {
		if err := cd.LimitRecurrenceSet.validate(TagLimitRecurrenceSet); err != nil {
			return err
		}
	}
	return nil
}

func (tr *TimeRange) validate(element string) error {
	if tr.Start == nil && tr.End == nil {
		return invalid(element, "at least one of start and end is required")
	}
	if tr.Start != nil && tr.End != nil && !tr.Start.Before(*tr.End) {
		return invalid(element, "start %s is not before end %s",
			tr.Start.UTC().Format(TimeFormat), tr.End.UTC().Format(TimeFormat))
	}
	return nil
}

func (f *Filter) validate() error {
	if strings.TrimSpace(f.ComponentName) == "" {
		return invalid(TagCompFilter, "missing component name")
	}
	if f.Test != "" && f.Test != TestAnyOf && f.Test != TestAllOf {
		return invalid(TagCompFilter, "unknown test %q", f.Test)
	}
	if f.TimeRange != nil {
		if err := f.TimeRange.validate(TagTimeRange); err != nil {
			return err
		}
	}
	for _, pf := range f.PropFilters {
		if strings.TrimSpace(pf.Name) == "" {
			return invalid(TagPropFilter, "missing property name")
		}
		if pf.IsNotDefined && pf.TextMatch != nil {
			return invalid(TagPropFilter, "%s: is-not-defined excludes text-match", pf.Name)
		}
	}
	if f.SubFilter != nil {
		return f.SubFilter.validate()
	}
	return nil
}

func (q *CalendarQuery) validate() error {
	if err := validateProps(q.Props); err != nil {
		return err
	}
	if err := q.CalendarData.validate(); err != nil {
		return err
	}
	if !strings.EqualFold(q.Filter.ComponentName, "VCALENDAR") {
		return invalid(TagCompFilter, "top-level component must be VCALENDAR, got %q", q.Filter.ComponentName)
	}
	return q.Filter.validate()
}

func (m *CalendarMultiget) validate() error {
	if err := validateProps(m.Props); err != nil {
		return err
	}
	if err := m.CalendarData.validate(); err != nil {
		return err
	}
	if len(m.Hrefs) == 0 {
		return invalid(TagHref, "at least one href is required")
	}
	for _, href := range m.Hrefs {
		if strings.TrimSpace(href) == "" {
			return invalid(TagHref, "empty href")
		}
	}
	return nil
}

// IsValidationError reports whether err came from query validation
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
