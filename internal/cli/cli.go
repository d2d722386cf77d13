package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/akhdanfadh/notekeep/internal/logger"
	"github.com/akhdanfadh/notekeep/internal/notes"
)

// Version and Commit are set by main from build info.
var (
	Version = "dev"
	Commit  = "unknown"
)

// app carries what the commands share once flags are resolved.
type app struct {
	cfg       Config
	out       io.Writer
	errOut    io.Writer
	lookupEnv func(string) (string, bool)

	log    logger.Logger
	client *notes.Client
}

// Run executes the CLI with the process arguments.
func Run(ctx context.Context) error {
	root := newRootCmd(os.Stdout, os.Stderr, os.LookupEnv)
	root.SetArgs(os.Args[1:])
	return root.ExecuteContext(ctx)
}

// newRootCmd builds the command tree writing to out and errOut.
func newRootCmd(out, errOut io.Writer, lookupEnv func(string) (string, bool)) *cobra.Command {
	a := &app{out: out, errOut: errOut, lookupEnv: lookupEnv, log: logger.Noop()}

	root := &cobra.Command{
		Use:   "notekeep <command> [flags]",
		Short: "Manage notes stored in a mockapi.io project",
		Long: `notekeep lists, creates, updates and deletes notes through the
mockapi.io REST API. Settings can also come from NOTEKEEP_* environment
variables or a .env file.`,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		SilenceUsage:      true,
		SilenceErrors:     true, // main prints the error
	}
	root.SetOut(out)
	root.SetErr(errOut)

	a.cfg.bindFlags(root.PersistentFlags())
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.setup(cmd)
	}

	root.AddCommand(
		a.newListCmd(),
		a.newCreateCmd(),
		a.newUpdateCmd(),
		a.newDeleteCmd(),
		newVersionCmd(),
	)
	return root
}

// setup resolves configuration and builds the logger and API client.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.cfg.resolve(cmd.Flags(), a.lookupEnv); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := logger.LevelWarn
	if a.cfg.Verbose {
		level = logger.LevelDebug
	}
	a.log = logger.NewStdLogger(a.errOut, level)
	a.client = newClient(a.cfg, a.log)

	a.log.Info("using %s (timeout %s, %d attempt(s))", a.client.BaseURL(), a.cfg.Timeout, a.cfg.Retries)
	return nil
}

// newClient creates the notes client, wrapping the transport with retries
// only when more than one attempt is configured.
func newClient(cfg Config, log logger.Logger) *notes.Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var doer notes.Doer = httpClient
	if cfg.Retries > 1 {
		doer = notes.NewRetryDoer(httpClient,
			notes.WithMaxAttempts(cfg.Retries),
			notes.WithRetryWait(cfg.RetryWait),
			notes.WithRetryLogger(log),
		)
	}

	return notes.NewClient(cfg.BaseURL,
		notes.WithDoer(doer),
		notes.WithLogger(log),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// config is not needed to print the version
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "notekeep %s (commit %s)\n", Version, Commit)
			return err
		},
	}
}
