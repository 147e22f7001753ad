// Package commands implements bioscout-setup CLI commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bioscout/bioscout-setup/internal/config"
	"github.com/bioscout/bioscout-setup/internal/errors"
	"github.com/bioscout/bioscout-setup/internal/exec"
	"github.com/bioscout/bioscout-setup/internal/fetch"
	"github.com/bioscout/bioscout-setup/internal/fs"
	"github.com/bioscout/bioscout-setup/internal/logger"
	"github.com/bioscout/bioscout-setup/internal/scaffold"
)

// InitOpts holds options for the init command.
type InitOpts struct {
	// Manifest overrides the built-in layout; nil means config.DefaultManifest.
	Manifest     *config.Manifest
	SkipSamples  bool
	FetchTimeout time.Duration
	Downloader   string // download tool; empty means curl
	Gitignore    bool   // add .env to .gitignore
}

// Sample fetch outcomes reported by init.
const (
	SamplesFetched     = "fetched"
	SamplesSkipped     = "skipped"
	SamplesToolMissing = "tool_missing"
)

// InitResult holds the result of the init command for output formatting.
type InitResult struct {
	Root           string
	DirsCreated    []string
	DirsPresent    []string
	SamplesState   string
	SamplesCount   int
	SamplesDir     string
	Tool           string
	GitignoreState scaffold.GitignoreResult
}

// Init implements the `bioscout-setup init` command.
// Steps run strictly in order: .env, directories, sample images, README.md.
// Any step failing aborts the rest; completed steps are not rolled back.
// A missing download tool only skips the samples step.
func Init(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, root string, opts InitOpts, stdout, stderr io.Writer) error {
	log := logger.Get()

	manifest := config.DefaultManifest()
	if opts.Manifest != nil {
		manifest = *opts.Manifest
	}

	if err := checkRoot(fsys, root); err != nil {
		return err
	}

	// 1. Environment template
	if err := scaffold.WriteEnvFile(fsys, root, manifest.EnvContent()); err != nil {
		return errors.WrapWithDetails(errors.EWriteFailed, "failed to write "+scaffold.EnvFileName, err,
			map[string]string{"root": root})
	}
	log.Info().Str("file", scaffold.EnvFileName).Msg("wrote environment template")

	// 2. Directories
	dirs, err := scaffold.EnsureDirs(fsys, root, manifest.Dirs)
	if err != nil {
		var nd *scaffold.NotADirError
		if errors.As(err, &nd) {
			return errors.New(errors.ENotADirectory, nd.Error())
		}
		return errors.Wrap(errors.EMkdirFailed, "failed to create directories", err)
	}
	log.Info().Strs("created", dirs.Created).Strs("present", dirs.Present).Msg("provisioned directories")

	// 3. Sample images
	result := InitResult{
		Root:           root,
		DirsCreated:    dirs.Created,
		DirsPresent:    dirs.Present,
		SamplesDir:     manifest.SamplesDir,
		SamplesState:   SamplesSkipped,
		GitignoreState: scaffold.GitignoreSkipped,
	}
	if !opts.SkipSamples {
		f := fetch.New(cr, opts.Downloader)
		f.Timeout = opts.FetchTimeout
		f.Log = *log
		result.Tool = f.Tool

		samplesDir := filepath.Join(root, filepath.FromSlash(manifest.SamplesDir))
		fetched, err := f.FetchAll(ctx, samplesDir, manifest.Assets)
		if err != nil {
			return errors.Wrap(errors.EInternal, "sample download interrupted", err)
		}
		if fetched.ToolAvailable {
			result.SamplesState = SamplesFetched
			result.SamplesCount = len(fetched.Attempted)
			log.Info().Int("attempted", len(fetched.Attempted)).Str("tool", fetched.ToolVersion).Msg("fetched sample images")
		} else {
			result.SamplesState = SamplesToolMissing
			log.Warn().Str("tool", f.Tool).Msg("download tool not found; skipping sample images")
		}
	}

	// 4. Usage document
	if err := scaffold.WriteReadme(fsys, root, scaffold.ReadmeTemplate); err != nil {
		return errors.WrapWithDetails(errors.EWriteFailed, "failed to write "+scaffold.ReadmeFileName, err,
			map[string]string{"root": root})
	}
	log.Info().Str("file", scaffold.ReadmeFileName).Msg("wrote readme")

	if opts.Gitignore {
		state, err := scaffold.EnsureGitignore(fsys, filepath.Join(root, ".gitignore"), scaffold.EnvFileName)
		if err != nil {
			return errors.Wrap(errors.EWriteFailed, "failed to update .gitignore", err)
		}
		result.GitignoreState = state
	}

	writeInitOutput(stdout, result)
	return nil
}

// checkRoot verifies root exists and is a directory.
func checkRoot(fsys fs.FS, root string) error {
	exists, isFile, err := fs.DirExists(fsys, root)
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to check project root", err)
	}
	if !exists || isFile {
		return errors.NewWithDetails(errors.ENotADirectory, "project root is not a directory: "+root,
			map[string]string{"hint": "create it first or pass --root"})
	}
	return nil
}

// writeInitOutput writes the stable key: value output for init.
func writeInitOutput(w io.Writer, r InitResult) {
	fmt.Fprintf(w, "root: %s\n", r.Root)
	fmt.Fprintf(w, "env_file: written\n")
	fmt.Fprintf(w, "dirs_created: %s\n", joinOrNone(r.DirsCreated))
	fmt.Fprintf(w, "dirs_present: %s\n", joinOrNone(r.DirsPresent))

	switch r.SamplesState {
	case SamplesFetched:
		fmt.Fprintf(w, "samples: %s %d\n", SamplesFetched, r.SamplesCount)
	case SamplesToolMissing:
		fmt.Fprintf(w, "samples: %s\n", SamplesToolMissing)
		fmt.Fprintf(w, "notice: %s not found; download sample images manually into %s\n", r.Tool, r.SamplesDir)
	default:
		fmt.Fprintf(w, "samples: %s\n", r.SamplesState)
	}

	fmt.Fprintf(w, "readme: written\n")
	fmt.Fprintf(w, "gitignore: %s\n", r.GitignoreState)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
