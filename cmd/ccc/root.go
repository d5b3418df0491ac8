package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kk-code-lab/ccc/internal/app"
	"github.com/kk-code-lab/ccc/internal/config"
	"github.com/kk-code-lab/ccc/internal/logging"
	"github.com/kk-code-lab/ccc/internal/shellsetup"
	"github.com/spf13/cobra"
)

// detectShell is what --setup uses when no shell is named.
const detectShell = "auto"

type rootOptions struct {
	configPath string
	logPath    string
	debug      bool
	hidden     bool
	setup      string
}

var parentShellDetector = shellsetup.DetectParentShellName

func newRootCmd() *cobra.Command {
	var opts rootOptions
	cmd := &cobra.Command{
		Use:           "ccc [dir]",
		Short:         "Terminal file browser",
		Long:          "ccc browses directories in the terminal, previews files and runs your editor and shell on them.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.hidden {
				cfg.ShowHidden = true
			}

			if cmd.Flags().Changed("setup") {
				return printSetup(cmd, opts.setup, cfg)
			}

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runBrowser(cmd.Context(), dir, cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ccc/config.yaml)")
	flags.StringVar(&opts.logPath, "log", "", "append logs to this file (default $"+logging.EnvLogFile+")")
	flags.BoolVar(&opts.debug, "debug", false, "log at debug level")
	flags.BoolVarP(&opts.hidden, "hidden", "a", false, "show hidden files")
	flags.StringVar(&opts.setup, "setup", "", "print the shell integration for SHELL and exit")
	flags.Lookup("setup").NoOptDefVal = detectShell
	return cmd
}

func printSetup(cmd *cobra.Command, shell string, cfg *config.Config) error {
	if shell == detectShell {
		shell = ""
	}
	return shellsetup.PrintSetup(cmd.OutOrStdout(), shell, shellsetup.Config{
		DetectParent: parentShellDetector,
		LastDirFile:  cfg.LastDirFile,
	})
}

func runBrowser(ctx context.Context, dir string, cfg *config.Config, opts rootOptions) error {
	logger, closeLog, err := logging.Setup(logging.Options{Path: opts.logPath, Debug: opts.debug})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	logger.WithField("version", version).Info("starting")

	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("cannot open %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
	}

	a, err := app.NewApplication(app.Options{Dir: dir, Config: cfg, Logger: logger})
	if err != nil {
		return err
	}
	runErr := a.Run(ctx)
	if err := a.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("restore terminal: %w", err)
	}
	return runErr
}
