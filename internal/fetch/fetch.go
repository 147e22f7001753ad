// Package fetch downloads sample assets with an external download tool.
//
// Fetching is best-effort: one attempt per asset, no retry, no status or
// checksum verification. A failed download may leave an empty or partial file
// behind and is only visible in debug logs.
package fetch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bioscout/bioscout-setup/internal/exec"
	"github.com/bioscout/bioscout-setup/internal/scaffold"
)

// DefaultTool is the download tool used when none is configured.
const DefaultTool = "curl"

// Fetcher runs the download tool once per asset.
type Fetcher struct {
	Runner exec.CommandRunner
	// Tool is an executable name or path; curl and wget argument styles are supported.
	Tool string
	// Timeout bounds each download. Zero means no timeout.
	Timeout time.Duration
	Log     zerolog.Logger
}

// New creates a Fetcher using tool (DefaultTool if empty).
func New(cr exec.CommandRunner, tool string) *Fetcher {
	if tool == "" {
		tool = DefaultTool
	}
	return &Fetcher{Runner: cr, Tool: tool, Log: zerolog.Nop()}
}

// Attempt records one download invocation.
type Attempt struct {
	URL      string
	Dest     string
	ExitCode int
	Err      error
}

// Result holds the outcome of FetchAll.
type Result struct {
	ToolAvailable bool
	ToolVersion   string
	Attempted     []Attempt
}

// ToolStatus is the outcome of probing the download tool.
type ToolStatus struct {
	Available bool
	// Missing is set when the tool is not installed, as opposed to installed
	// but failing its version check.
	Missing bool
	Version string
}

// Probe runs the download tool's version check.
func (f *Fetcher) Probe(ctx context.Context) ToolStatus {
	result, err := f.Runner.Run(ctx, f.Tool, []string{"--version"})
	if err != nil || result.ExitCode != 0 {
		f.Log.Debug().Str("tool", f.Tool).Err(err).Int("exit_code", result.ExitCode).Msg("download tool unavailable")
		return ToolStatus{Missing: exec.IsNotFound(err)}
	}
	line, _, _ := strings.Cut(result.Stdout, "\n")
	return ToolStatus{Available: true, Version: strings.TrimSpace(line)}
}

// FetchAll downloads each asset into dir, in order.
// If the tool is unavailable nothing is attempted and Result.ToolAvailable is false.
// Individual download failures are recorded in Result.Attempted and never
// returned; the only error is ctx being done, which stops the remaining downloads.
func (f *Fetcher) FetchAll(ctx context.Context, dir string, assets []scaffold.Asset) (Result, error) {
	status := f.Probe(ctx)
	if !status.Available {
		return Result{}, ctx.Err()
	}

	res := Result{ToolAvailable: true, ToolVersion: status.Version}
	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Attempted = append(res.Attempted, f.fetchOne(ctx, dir, asset))
	}
	return res, ctx.Err()
}

func (f *Fetcher) fetchOne(ctx context.Context, dir string, asset scaffold.Asset) Attempt {
	dest := filepath.Join(dir, asset.Filename)
	attempt := Attempt{URL: asset.URL, Dest: dest}

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := f.Runner.Run(ctx, f.Tool, f.args(dest, asset.URL))
	attempt.ExitCode = result.ExitCode
	attempt.Err = err

	f.Log.Debug().
		Str("url", asset.URL).
		Str("dest", dest).
		Int("exit_code", result.ExitCode).
		Err(err).
		Dur("elapsed", time.Since(start)).
		Msg("fetch attempted")

	return attempt
}

// args builds a silent download-to-file invocation.
func (f *Fetcher) args(dest, url string) []string {
	base := strings.TrimSuffix(filepath.Base(f.Tool), ".exe")
	if base == "wget" {
		return []string{"-q", "-O", dest, url}
	}
	return []string{"-s", "-L", "-o", dest, url}
}
