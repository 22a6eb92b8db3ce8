package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/magnetdb/magnetcli/internal/app"
	"github.com/magnetdb/magnetcli/internal/prefs"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	dotenvPath string
	prefsPath  string
	apiURL     string
	poll       int
	debug      bool
	json       bool
}

func (o *rootOptions) appOptions() app.Options {
	return app.Options{
		ConfigPath: o.configPath,
		DotenvPath: o.dotenvPath,
		PrefsPath:  o.prefsPath,
		APIURL:     o.apiURL,
		PollEvery:  o.poll,
		Debug:      o.debug,
	}
}

// Execute runs the command line with ctx as the root context.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the magnetcli command tree. Without a subcommand it
// opens the resource browser.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "magnetcli",
		Short:         "Browse and manage MagnetDB magnets, parts and sites",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), opts.appOptions())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/magnetcli/config.toml)")
	flags.StringVar(&opts.dotenvPath, "env", "", "dotenv file with MAGNETDB_* variables (default ./.env)")
	flags.StringVar(&opts.apiURL, "api-url", "", "MagnetDB API base URL, overrides config")
	flags.BoolVar(&opts.debug, "debug", false, "log requests at debug level")
	flags.BoolVar(&opts.json, "json", false, "print raw JSON instead of tables")

	cmd.Flags().StringVar(&opts.prefsPath, "prefs", "", "preferences file (default "+prefs.DefaultPath()+")")
	cmd.Flags().IntVar(&opts.poll, "poll", 0, "refresh interval in seconds (default 10)")

	cmd.AddCommand(
		magnetsCmd(opts),
		partsCmd(opts),
		sitesCmd(opts),
		meshCmd(opts),
		logsCmd(opts),
	)
	return cmd
}

// session is what a subcommand runs with.
type session struct {
	env *app.Env
	out *printer
}

// withSession wires config, logging and the client for the duration of fn.
func withSession(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, s *session) error) error {
	env, err := app.Setup(opts.appOptions())
	if err != nil {
		return err
	}
	defer env.Close()

	s := &session{
		env: env,
		out: newPrinter(cmd.OutOrStdout(), opts.json),
	}
	if err := fn(cmd.Context(), s); err != nil {
		env.Logger.WithError(err).WithField("command", cmd.CommandPath()).Error("command failed")
		return err
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: want a positive integer", arg)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
