package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyp0633/caldavreport/davclient"
)

func newMultigetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "multiget <path> <href>...",
		Short: "Fetch calendar objects by href with a calendar-multiget REPORT",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.newSession(cmd)
			if err != nil {
				return err
			}

			path, hrefs := args[0], args[1:]
			query := &davclient.ReportQuery{
				MultiGet: &davclient.CalendarMultiget{
					Props: []string{davclient.PropGetETag, davclient.PropCalendarData},
					Hrefs: hrefs,
				},
			}

			cal, err := s.client.Report(cmd.Context(), path, s.depth, query)
			if err != nil {
				return fmt.Errorf("calendar-multiget on %s failed: %w", path, err)
			}
			s.logger.Info("calendar-multiget complete", "path", path, "hrefs", len(hrefs), "components", len(cal.Children))
			return writeCalendar(cmd.OutOrStdout(), cal)
		},
	}
}
