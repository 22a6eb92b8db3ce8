package cli

import (
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/magnetdb/magnetcli/internal/app"
	"github.com/magnetdb/magnetcli/internal/logging"
	"github.com/magnetdb/magnetcli/internal/logtail"
)

const defaultLogLines = 200

func logsCmd(opts *rootOptions) *cobra.Command {
	var (
		lines int
		level string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the magnetcli log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			threshold := log.DebugLevel
			if level != "" {
				parsed, err := logging.ParseLevel(level)
				if err != nil {
					return err
				}
				threshold = parsed
			}

			// Setup would append a startup entry to the file being read.
			cfg, err := app.LoadConfig(opts.appOptions())
			if err != nil {
				return err
			}
			entries, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			entries = logtail.Filter(entries, threshold)

			out := newPrinter(cmd.OutOrStdout(), opts.json)
			if out.json {
				if entries == nil {
					entries = []string{}
				}
				return out.writeJSON(entries)
			}
			if len(entries) == 0 {
				_, err := fmt.Fprintln(out.w, faintStyle.Render("(no log entries in "+cfg.LogFile+")"))
				return err
			}
			for _, line := range entries {
				if _, err := fmt.Fprintln(out.w, logtail.Highlight(line)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", defaultLogLines, "number of lines to read, 0 for all")
	cmd.Flags().StringVar(&level, "level", "", "minimum level: debug, info, warn or error")
	return cmd
}
