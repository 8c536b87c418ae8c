package main

import (
	"fmt"
	"io"

	"github.com/quantmind-br/modclean/internal/config"
	"github.com/quantmind-br/modclean/internal/gomod"
	"github.com/quantmind-br/modclean/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newDoctorCmd(v *viper.Viper, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment modclean runs in",
		Long: `Verifies that the config loads, the go.mod and go.sum files are present,
the dependency graph command is installed, and reports the cache directory
and the git status of the go.mod file.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.OutOrStdout(), v, flags)
		},
	}
}

func runDoctor(out io.Writer, v *viper.Viper, flags *rootFlags) error {
	fmt.Fprintln(out, TitleStyle.Render("Checking modclean environment..."))
	allPassed := true

	// Check 1: Config file
	fmt.Fprint(out, "  Config file: ")
	cfg, err := config.LoadFrom(v, flags.configFile)
	if err != nil {
		fmt.Fprintf(out, "%s (%v)\n", markFailed, err)
		allPassed = false
		cfg = config.Default()
		_ = cfg.Validate()
	} else if used := v.ConfigFileUsed(); used != "" && utils.FileExists(used) {
		fmt.Fprintf(out, "%s (%s)\n", markOK, used)
	} else {
		fmt.Fprintf(out, "%s %s\n", markOK, MutedStyle.Render("(defaults)"))
	}

	// Check 2: go.mod
	fmt.Fprint(out, "  go.mod: ")
	m, err := gomod.NewLoader().Load(cfg.Manifest.Path)
	if err != nil {
		fmt.Fprintf(out, "%s (%v)\n", markFailed, err)
		allPassed = false
	} else {
		replaces := 0
		for _, blk := range m.Replaces() {
			replaces += blk.Len()
		}
		fmt.Fprintf(out, "%s (module %s, %d replace statement/s)\n", markOK, m.Module, replaces)
	}

	// Check 3: go.sum
	fmt.Fprint(out, "  go.sum: ")
	switch {
	case utils.FileExists(cfg.Manifest.SumPath):
		fmt.Fprintf(out, "%s (%s)\n", markOK, cfg.Manifest.SumPath)
	case cfg.Manifest.RequireSum:
		fmt.Fprintf(out, "%s (can't find %s)\n", markFailed, cfg.Manifest.SumPath)
		allPassed = false
	default:
		fmt.Fprintf(out, "%s (not found, not required)\n", markWarn)
	}

	// Check 4: Dependency graph command
	fmt.Fprint(out, "  Graph command: ")
	if path, err := execLookPath(cfg.Graph.Command[0]); err == nil {
		fmt.Fprintf(out, "%s (%s)\n", markOK, path)
	} else if cfg.Checks.Unreferenced {
		fmt.Fprintf(out, "%s (%v)\n", markFailed, err)
		allPassed = false
	} else {
		fmt.Fprintf(out, "%s (%v, unreferenced check disabled)\n", markWarn, err)
	}

	// Check 5: Cache directory
	fmt.Fprint(out, "  Cache directory: ")
	switch {
	case !cfg.Cache.Enabled:
		fmt.Fprintln(out, MutedStyle.Render("disabled"))
	case checkCacheDir(cfg.Cache.Directory):
		fmt.Fprintf(out, "%s (%s)\n", markOK, cfg.Cache.Directory)
	default:
		fmt.Fprintf(out, "%s (will be created on first use)\n", markWarn)
	}

	// Check 6: Git status of go.mod
	fmt.Fprint(out, "  Git status: ")
	st, err := newInspector().FileStatus(cfg.Manifest.Path)
	switch {
	case err != nil:
		fmt.Fprintf(out, "%s (%v)\n", markWarn, err)
	case !st.InRepo:
		fmt.Fprintln(out, MutedStyle.Render("not in a git repository"))
	case !st.Tracked:
		fmt.Fprintf(out, "%s (untracked)\n", markWarn)
	case st.Dirty():
		fmt.Fprintf(out, "%s (uncommitted changes, --auto will overwrite them)\n", markWarn)
	default:
		fmt.Fprintf(out, "%s (clean)\n", markOK)
	}

	fmt.Fprintln(out)
	if !allPassed {
		fmt.Fprintln(out, ErrorStyle.Render("Some checks failed. Please resolve the issues above."))
		return &ExitError{Code: ExitFailure}
	}
	fmt.Fprintln(out, SuccessStyle.Render("All critical checks passed!"))
	return nil
}

// checkCacheDir checks if the cache directory exists
func checkCacheDir(path string) bool {
	info, err := osStat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
