package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/spf13/cobra"

	"github.com/cyp0633/caldavreport/davclient"
)

type queryOptions struct {
	component string
	start     string
	end       string
	expand    bool
	summary   string
}

func newQueryCmd(root *rootOptions) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query <path>",
		Short: "Run a calendar-query REPORT against a calendar collection",
		Long: `Run a calendar-query REPORT against the calendar collection at path.

Components can be restricted to a time range (RFC 3339 timestamps) and to a
summary substring. With --expand the server expands recurring components
within the time range.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := opts.build()
			if err != nil {
				return err
			}

			s, err := root.newSession(cmd)
			if err != nil {
				return err
			}

			cal, err := s.client.Report(cmd.Context(), args[0], s.depth, query)
			if err != nil {
				return fmt.Errorf("calendar-query on %s failed: %w", args[0], err)
			}
			s.logger.Info("calendar-query complete", "path", args[0], "components", len(cal.Children))
			return writeCalendar(cmd.OutOrStdout(), cal)
		},
	}

	cmd.Flags().StringVar(&opts.component, "component", ical.CompEvent, "component type to return (VEVENT, VTODO, VJOURNAL)")
	cmd.Flags().StringVar(&opts.start, "start", "", "start of the time range (RFC 3339)")
	cmd.Flags().StringVar(&opts.end, "end", "", "end of the time range (RFC 3339)")
	cmd.Flags().BoolVar(&opts.expand, "expand", false, "expand recurring components within the time range")
	cmd.Flags().StringVar(&opts.summary, "summary", "", "only components whose SUMMARY contains this text")
	return cmd
}

// build turns the flags into a calendar-query
func (o *queryOptions) build() (*davclient.ReportQuery, error) {
	inner := &davclient.Filter{ComponentName: strings.ToUpper(o.component)}

	var tr *davclient.TimeRange
	if o.start != "" || o.end != "" {
		tr = &davclient.TimeRange{}
		if o.start != "" {
			start, err := time.Parse(time.RFC3339, o.start)
			if err != nil {
				return nil, fmt.Errorf("invalid --start: %w", err)
			}
			tr.Start = &start
		}
		if o.end != "" {
			end, err := time.Parse(time.RFC3339, o.end)
			if err != nil {
				return nil, fmt.Errorf("invalid --end: %w", err)
			}
			tr.End = &end
		}
		inner.TimeRange = tr
	}

	if o.summary != "" {
		inner.PropFilters = []davclient.PropFilter{{
			Name:      ical.PropSummary,
			TextMatch: &davclient.TextMatch{Text: o.summary},
		}}
	}

	query := &davclient.ReportQuery{
		Query: &davclient.CalendarQuery{
			Props: []string{davclient.PropGetETag, davclient.PropCalendarData},
			Filter: davclient.Filter{
				ComponentName: ical.CompCalendar,
				SubFilter:     inner,
			},
		},
	}
	if o.expand {
		if tr == nil || tr.Start == nil || tr.End == nil {
			return nil, errors.New("--expand requires both --start and --end")
		}
		query.Query.CalendarData = &davclient.CalendarData{Expand: tr}
	}

	if err := query.Validate(); err != nil {
		return nil, err
	}
	return query, nil
}
