// Package cli handles command-line parsing and dispatch for bioscout-setup.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bioscout/bioscout-setup/internal/commands"
	"github.com/bioscout/bioscout-setup/internal/config"
	"github.com/bioscout/bioscout-setup/internal/errors"
	"github.com/bioscout/bioscout-setup/internal/exec"
	"github.com/bioscout/bioscout-setup/internal/fs"
	"github.com/bioscout/bioscout-setup/internal/logger"
	"github.com/bioscout/bioscout-setup/internal/version"
)

const usageText = `bioscout-setup - scaffold a local BioScout development environment

usage: bioscout-setup <command> [options]

commands:
  init        write .env and README.md, create data dirs, fetch sample images
  doctor      report keys, directories, and download tool status

options:
  -h, --help      show this help
  -v, --version   show version

environment:
  BIOSCOUT_LOG_LEVEL    debug, info, warn, error (default info)
  BIOSCOUT_LOG_FORMAT   console or json (default console)
  BIOSCOUT_DOWNLOADER   download tool, curl or wget (default curl)

run 'bioscout-setup <command> --help' for command-specific help.
`

const initUsageText = `usage: bioscout-setup init [options]

write .env with placeholder keys, create the upload and data directories,
download sample images (when curl is available), and write README.md.
existing .env and README.md are overwritten.

options:
  --root <dir>              project root (default: current directory)
  --manifest <file>         yaml manifest overriding env keys, dirs, and assets
  --skip-samples            do not download sample images
  --fetch-timeout <dur>     per-image download timeout, e.g. 30s (default: none)
  --gitignore               add .env to .gitignore
  -h, --help                show this help
`

const doctorUsageText = `usage: bioscout-setup doctor [options]

report whether .env keys are set, directories exist, and the download tool
is available. read-only.

options:
  --root <dir>          project root (default: current directory)
  --manifest <file>     yaml manifest overriding env keys, dirs, and assets
  --json                write the report as json
  -h, --help            show this help
`

// Run parses arguments and dispatches to the appropriate subcommand.
// Returns an error if the command fails; the caller should print the error and exit.
func Run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usageText)
		return errors.New(errors.EUsage, "no command specified")
	}

	cmd := args[0]
	cmdArgs := args[1:]

	if cmd == "-h" || cmd == "--help" {
		fmt.Fprint(stdout, usageText)
		return nil
	}
	if cmd == "-v" || cmd == "--version" {
		fmt.Fprintf(stdout, "bioscout-setup %s\n", version.Version)
		return nil
	}

	switch cmd {
	case "init":
		return runInit(cmdArgs, stdout, stderr)
	case "doctor":
		return runDoctor(cmdArgs, stdout, stderr)
	default:
		fmt.Fprint(stdout, usageText)
		return errors.New(errors.EUsage, fmt.Sprintf("unknown command: %s", cmd))
	}
}

func runInit(args []string, stdout, stderr io.Writer) error {
	flagSet := flag.NewFlagSet("init", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	root := flagSet.String("root", "", "project root")
	manifestPath := flagSet.String("manifest", "", "yaml manifest")
	skipSamples := flagSet.Bool("skip-samples", false, "do not download sample images")
	fetchTimeout := flagSet.Duration("fetch-timeout", 0, "per-image download timeout")
	gitignore := flagSet.Bool("gitignore", false, "add .env to .gitignore")

	if hasHelpFlag(args) {
		fmt.Fprint(stdout, initUsageText)
		return nil
	}

	if err := flagSet.Parse(args); err != nil {
		return errors.Wrap(errors.EUsage, "invalid flags", err)
	}
	if flagSet.NArg() > 0 {
		return errors.New(errors.EUsage, "unexpected argument: "+flagSet.Arg(0))
	}
	if *fetchTimeout < 0 {
		return errors.New(errors.EUsage, "--fetch-timeout must not be negative")
	}

	env, err := setup(*root, *manifestPath, stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := commands.InitOpts{
		Manifest:     env.manifest,
		SkipSamples:  *skipSamples,
		FetchTimeout: *fetchTimeout,
		Downloader:   env.settings.Downloader,
		Gitignore:    *gitignore,
	}

	return commands.Init(ctx, exec.NewRealRunner(), env.fsys, env.root, opts, stdout, stderr)
}

func runDoctor(args []string, stdout, stderr io.Writer) error {
	flagSet := flag.NewFlagSet("doctor", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	root := flagSet.String("root", "", "project root")
	manifestPath := flagSet.String("manifest", "", "yaml manifest")
	jsonOut := flagSet.Bool("json", false, "write the report as json")

	if hasHelpFlag(args) {
		fmt.Fprint(stdout, doctorUsageText)
		return nil
	}

	if err := flagSet.Parse(args); err != nil {
		return errors.Wrap(errors.EUsage, "invalid flags", err)
	}
	if flagSet.NArg() > 0 {
		return errors.New(errors.EUsage, "unexpected argument: "+flagSet.Arg(0))
	}

	env, err := setup(*root, *manifestPath, stderr)
	if err != nil {
		return err
	}

	opts := commands.DoctorOpts{
		Manifest:   env.manifest,
		Downloader: env.settings.Downloader,
		JSON:       *jsonOut,
	}

	return commands.Doctor(context.Background(), exec.NewRealRunner(), env.fsys, env.root, opts, stdout, stderr)
}

// commandEnv is what every subcommand needs before it runs.
type commandEnv struct {
	root     string
	fsys     fs.FS
	settings config.Settings
	manifest *config.Manifest
}

// setup loads settings, initializes logging, resolves the root, and loads the manifest.
func setup(root, manifestPath string, stderr io.Writer) (commandEnv, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return commandEnv{}, err
	}
	if err := logger.Init(settings, stderr); err != nil {
		return commandEnv{}, errors.Wrap(errors.EInvalidConfig, "invalid "+config.EnvPrefix+"_LOG_LEVEL", err)
	}

	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return commandEnv{}, errors.Wrap(errors.EInternal, "failed to get working directory", err)
		}
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return commandEnv{}, errors.Wrap(errors.EInternal, "failed to resolve root", err)
	}

	env := commandEnv{root: root, fsys: fs.NewRealFS(), settings: settings}

	if manifestPath != "" {
		m, err := config.LoadManifest(env.fsys, manifestPath)
		if err != nil {
			return commandEnv{}, err
		}
		env.manifest = &m
	}

	return env, nil
}

// hasHelpFlag handles help before parsing so it returns nil (exit 0).
func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}
