// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vpdesign/internal/config"
	"vpdesign/internal/enzyme"
	"vpdesign/internal/fasta"
	"vpdesign/internal/logging"
	"vpdesign/internal/pipeline"
	"vpdesign/internal/version"
	"vpdesign/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 2 // bad flags, configuration or inputs
	ExitRuntime   = 3
	ExitCancelled = 130
)

// usageError marks errors that should exit with ExitUsage.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error { return usageError{fmt.Errorf(format, a...)} }

// exitCode maps an error returned by a command to the process exit status.
func exitCode(ctx context.Context, err error) int {
	var ue usageError
	switch {
	case err == nil:
		if ctx.Err() != nil {
			return ExitCancelled
		}
		return ExitOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitCancelled
	case errors.As(err, &ue),
		strings.HasPrefix(err.Error(), "unknown command"),
		errors.Is(err, pipeline.ErrConfig),
		errors.Is(err, fasta.ErrNoIndex),
		errors.Is(err, enzyme.ErrUnknownEnzyme):
		return ExitUsage
	case writers.IsBrokenPipe(err):
		return ExitOK
	}
	return ExitRuntime
}

// env is the per-invocation state shared by subcommands.
type env struct {
	stdout, stderr io.Writer
	v              *viper.Viper
	cfg            config.Config
	log            *logrus.Logger
}

// load merges configuration for cmd and builds the logger.
func (e *env) load(cmd *cobra.Command) error {
	cfg, err := config.Load(e.v, cmd.Flags())
	if err != nil {
		return usageError{err}
	}
	log, err := logging.New(e.stderr, cfg.LogLevel, cfg.Quiet)
	if err != nil {
		return usageError{err}
	}
	e.cfg, e.log = cfg, log
	return nil
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "vpdesign",
		Short: "Design Capture Hi-C viewpoints and baits around genomic anchors",
		Long: `vpdesign designs Capture Hi-C viewpoints.

For every anchor (usually a transcription start site) it digests the
surrounding genome in silico, places capture baits on the margins of each
restriction fragment, selects the fragments to enrich and scores how well
they cover the anchor's neighbourhood.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("vpdesign version {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })
	config.RegisterRuntimeFlags(root.PersistentFlags())

	root.AddCommand(
		newDesignCmd(e),
		newIndexCmd(e),
		newEnzymesCmd(e),
		newDigestCmd(e),
	)
	return root
}

// RunContext executes the command line argv and returns the exit status.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	e := &env{stdout: stdout, stderr: stderr, v: viper.New()}
	root := newRootCmd(e)
	root.SetArgs(argv)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	code := exitCode(ctx, err)
	if err != nil && code != ExitOK {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		if code == ExitUsage {
			_, _ = fmt.Fprintln(stderr, "Run 'vpdesign --help' for usage.")
		}
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
