package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/emersion/go-ical"
	"github.com/spf13/cobra"

	"github.com/cyp0633/caldavreport/davclient"
	"github.com/cyp0633/caldavreport/internal/config"
	"github.com/cyp0633/caldavreport/internal/httpclient"
)

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	debug      bool
	depth      string
	logLevel   string
}

func newRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "caldav-report",
		Short: "Runs CalDAV REPORT requests and prints the returned calendar",
		Long: `caldav-report sends a CalDAV REPORT (RFC 4791) to a calendar collection and
writes the iCalendar data of the response to standard output.

The server is configured through caldav-report.yaml, a file given with --config,
or CALDAV_REPORT_* environment variables (e.g. CALDAV_REPORT_SERVER_URL).`,
		Version:      version,
		SilenceUsage: true,
	}
	cmd.SetVersionTemplate(`{{printf "caldav-report version %s\n" .Version}}`)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "configuration file (default ./caldav-report.yaml)")
	flags.BoolVar(&opts.debug, "debug", false, "dump outgoing requests to stderr")
	flags.StringVar(&opts.depth, "depth", "", `Depth header: "0", "1" or "infinity"`)
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(newQueryCmd(opts))
	cmd.AddCommand(newMultigetCmd(opts))
	cmd.AddCommand(newVersionCmd(version))
	return cmd
}

// session is what a subcommand needs to run one report
type session struct {
	client *davclient.Client
	depth  davclient.Depth
	logger *slog.Logger
}

// newSession loads the configuration, applies flag overrides and builds the
// CalDAV client
func (o *rootOptions) newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("depth") {
		cfg.Report.Depth = o.depth
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("debug") {
		cfg.Report.Debug = o.debug
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := cfg.LogLevel()
	depth, _ := cfg.Depth()
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.Server.Username != "" {
		transport = httpclient.NewBasicAuthTransport(cfg.Server.Username, cfg.Server.Password, transport, logger)
	}
	httpClient := &http.Client{Transport: transport, Timeout: cfg.Server.Timeout}

	clientOpts := []davclient.Option{davclient.WithLogger(logger)}
	if cfg.Report.Debug {
		clientOpts = append(clientOpts, davclient.WithDebugOutput(cmd.ErrOrStderr()))
	}
	client, err := davclient.NewClient(httpClient, cfg.Server.URL, clientOpts...)
	if err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		"url", cfg.Server.URL,
		"depth", depth.String(),
		"auth", cfg.Server.Username != "")
	return &session{client: client, depth: depth, logger: logger}, nil
}

// writeCalendar encodes cal as iCalendar text
func writeCalendar(w io.Writer, cal *ical.Calendar) error {
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}
