package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/quantmind-br/modclean/internal/app"
	"github.com/quantmind-br/modclean/internal/config"
	"github.com/quantmind-br/modclean/internal/domain"
	"github.com/quantmind-br/modclean/internal/git"
	"github.com/quantmind-br/modclean/internal/utils"
	"github.com/quantmind-br/modclean/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Dependencies for testing
	osStat       = os.Stat
	execLookPath = exec.LookPath
	newInspector = func() domain.RepoInspector { return git.NewClient() }
)

// rootFlags holds flag values that are not bound to config keys
type rootFlags struct {
	configFile       string
	auto             bool
	verbose          bool
	noCache          bool
	skipObsolete     bool
	skipUnreferenced bool
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and maps the result to a process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		printError(stderr, err)
		return ExitFailure
	}
	if exitErr.Err != nil {
		printError(stderr, exitErr.Err)
	}
	if domain.IsUsage(exitErr) {
		fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", cmd.Name())
	}
	return exitErr.Code
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", ErrorStyle.Render("Error:"), err)
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "modclean",
		Short: "Drop stale replace statements from go.mod",
		Long: `modclean checks a go.mod file for replace statements that are no longer
needed and optionally rewrites the file without them.

A replace statement is obsolete when it pins a module to a lower version
than the one required, and unreferenced when the module no longer appears
in the dependency graph reported by 'go mod graph'.

Without --auto the file is left untouched and modclean exits with status 3
when stale statements are found.`,
		Version:       version.Short(),
		Args:          noArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, flags)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: domain.NewUsageError("%v", err)}
	})

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default is ./.modclean.yaml or ~/.modclean/config.yaml)")
	cmd.PersistentFlags().StringP("file", "f", config.DefaultManifestPath, "Path to the go.mod file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose output")

	// Run flags
	cmd.Flags().BoolVarP(&flags.auto, "auto", "a", false, "Rewrite the go.mod file without stale replace statements")
	cmd.Flags().StringP("output", "o", "", "Write the rewritten file here instead of in place")
	cmd.Flags().String("report", "", "Write a JSON or YAML report of removed statements to this path")
	cmd.Flags().Duration("timeout", config.DefaultGraphTimeout, "Timeout for the dependency graph query (0=none)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Query the dependency graph without the cache")
	cmd.Flags().BoolVar(&flags.skipObsolete, "skip-obsolete", false, "Skip the obsolete replace check")
	cmd.Flags().BoolVar(&flags.skipUnreferenced, "skip-unreferenced", false, "Skip the unreferenced replace check")

	// Bind flags to viper
	_ = v.BindPFlag("manifest.path", cmd.PersistentFlags().Lookup("file"))
	_ = v.BindPFlag("manifest.output", cmd.Flags().Lookup("output"))
	_ = v.BindPFlag("report.path", cmd.Flags().Lookup("report"))
	_ = v.BindPFlag("graph.timeout", cmd.Flags().Lookup("timeout"))

	cmd.AddCommand(newCacheCmd(v, flags))
	cmd.AddCommand(newDoctorCmd(v, flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &ExitError{
			Code: ExitUsage,
			Err:  domain.NewUsageError("%s takes no arguments, got %q", cmd.CommandPath(), args),
		}
	}
	return nil
}

func run(cmd *cobra.Command, v *viper.Viper, flags *rootFlags) error {
	cfg, err := config.LoadFrom(v, flags.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cmd.ErrOrStderr(),
		Verbose: flags.verbose,
	})

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	orchestrator, err := app.NewOrchestrator(app.OrchestratorOptions{
		CommonOptions: domain.CommonOptions{
			Verbose:          flags.verbose,
			AutoRewrite:      flags.auto,
			SkipObsolete:     flags.skipObsolete,
			SkipUnreferenced: flags.skipUnreferenced,
		},
		Config:    cfg,
		NoCache:   flags.noCache,
		Inspector: newInspector(),
		Logger:    log,
		Stderr:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	summary, err := orchestrator.Run(ctx)
	if summary != nil {
		printSummary(cmd.OutOrStdout(), summary)
	}
	if err != nil {
		return err
	}

	if summary.Found() && !flags.auto {
		return &ExitError{Code: ExitStale}
	}
	return nil
}

func printSummary(w io.Writer, s *app.Summary) {
	printCheck(w, domain.CheckObsolete, s.Obsolete)
	printCheck(w, domain.CheckUnreferenced, s.Unreferenced)
	if s.Rewritten {
		fmt.Fprintf(w, "Successfully wrote data to %s\n", s.WrittenTo)
	}
}

// printCheck writes one check's result line followed by its removed entries.
// Skipped checks print nothing.
func printCheck(w io.Writer, check string, r *domain.CheckResult) {
	if r == nil {
		return
	}
	count := "No"
	if r.Found() {
		count = strconv.Itoa(r.Count)
	}
	fmt.Fprintf(w, "Successfully checked for %s replace statements: %s statement/s found\n", check, count)
	for _, d := range r.Removed {
		fmt.Fprintf(w, "\t- %s\n", d)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  noArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}
