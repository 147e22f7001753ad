package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/bioscout/bioscout-setup/internal/config"
	"github.com/bioscout/bioscout-setup/internal/errors"
	"github.com/bioscout/bioscout-setup/internal/exec"
	"github.com/bioscout/bioscout-setup/internal/fetch"
	"github.com/bioscout/bioscout-setup/internal/fs"
	"github.com/bioscout/bioscout-setup/internal/logger"
	"github.com/bioscout/bioscout-setup/internal/render"
	"github.com/bioscout/bioscout-setup/internal/scaffold"
)

// DoctorOpts holds options for the doctor command.
type DoctorOpts struct {
	Manifest   *config.Manifest
	Downloader string
	JSON       bool
}

// Doctor implements the `bioscout-setup doctor` command.
// It only reads: placeholders and missing directories are reported, never fixed,
// and never turn into an error.
func Doctor(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, root string, opts DoctorOpts, stdout, stderr io.Writer) error {
	manifest := config.DefaultManifest()
	if opts.Manifest != nil {
		manifest = *opts.Manifest
	}

	if err := checkRoot(fsys, root); err != nil {
		return err
	}

	report := render.DoctorReport{Root: root}

	envFile, err := inspectEnvFile(fsys, root, manifest.Env)
	if err != nil {
		return err
	}
	if envFile.Invalid {
		logger.Get().Warn().Str("path", envFile.Path).Str("error", envFile.ParseError).Msg("env file could not be parsed")
	}
	report.EnvFile = envFile

	for _, rel := range manifest.Dirs {
		present, _, err := fs.DirExists(fsys, filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return errors.Wrap(errors.EInternal, "failed to check "+rel, err)
		}
		report.Dirs = append(report.Dirs, render.DirJSON{Path: rel, Present: present})
	}

	f := fetch.New(cr, opts.Downloader)
	f.Log = *logger.Get()
	report.Downloader = downloaderReport(f.Tool, f.Probe(ctx))

	samples, err := countSamples(fsys, filepath.Join(root, filepath.FromSlash(manifest.SamplesDir)))
	if err != nil {
		return err
	}
	samples.Dir = manifest.SamplesDir
	report.Samples = samples

	readmePath := filepath.Join(root, scaffold.ReadmeFileName)
	_, err = fsys.Stat(readmePath)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.EInternal, "failed to check "+scaffold.ReadmeFileName, err)
	}
	report.Readme = render.FileJSON{Path: readmePath, Present: err == nil}

	report.Status = doctorStatus(report)

	if opts.JSON {
		if err := render.WriteDoctorJSON(stdout, &report); err != nil {
			return errors.Wrap(errors.EInternal, "failed to write json output", err)
		}
		return nil
	}
	writeDoctorOutput(stdout, report)
	return nil
}

// inspectEnvFile parses root/.env and classifies every expected key.
func inspectEnvFile(fsys fs.FS, root string, expected []scaffold.EnvVar) (render.EnvFileJSON, error) {
	path := filepath.Join(root, scaffold.EnvFileName)
	out := render.EnvFileJSON{Path: path}

	data, err := fsys.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return out, errors.Wrap(errors.EInternal, "failed to read "+scaffold.EnvFileName, err)
	}

	values := map[string]string{}
	if err == nil {
		out.Present = true
		parsed, err := godotenv.UnmarshalBytes(data)
		if err != nil {
			out.Invalid = true
			out.ParseError = err.Error()
		} else {
			values = parsed
		}
	}

	for _, v := range expected {
		out.Keys = append(out.Keys, render.KeyJSON{Name: v.Name, Status: keyStatus(values, v)})
	}
	return out, nil
}

func downloaderReport(tool string, st fetch.ToolStatus) render.DownloaderJSON {
	out := render.DownloaderJSON{Tool: tool, Available: st.Available, Version: st.Version}
	switch {
	case st.Available:
		out.Status = render.ToolAvailable
	case st.Missing:
		out.Status = render.ToolMissing
	default:
		out.Status = render.ToolBroken
	}
	return out
}

func keyStatus(values map[string]string, v scaffold.EnvVar) string {
	got, ok := values[v.Name]
	switch {
	case !ok || got == "":
		return render.KeyMissing
	case got == v.Value:
		return render.KeyPlaceholder
	default:
		return render.KeySet
	}
}

// countSamples counts regular files in dir. A missing dir counts as zero.
func countSamples(fsys fs.FS, dir string) (render.SamplesJSON, error) {
	var out render.SamplesJSON

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, errors.Wrap(errors.EInternal, "failed to list samples", err)
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		out.Files++
		info, err := e.Info()
		if err == nil && info.Size() == 0 {
			out.Empty++
		}
	}
	return out, nil
}

func doctorStatus(r render.DoctorReport) string {
	if !r.EnvFile.Present || r.EnvFile.Invalid {
		return "incomplete"
	}
	for _, k := range r.EnvFile.Keys {
		if k.Status != render.KeySet {
			return "incomplete"
		}
	}
	for _, d := range r.Dirs {
		if !d.Present {
			return "incomplete"
		}
	}
	return "ok"
}

// writeDoctorOutput writes the stable key: value output.
func writeDoctorOutput(w io.Writer, r render.DoctorReport) {
	fmt.Fprintf(w, "root: %s\n", r.Root)

	envState := presence(r.EnvFile.Present)
	if r.EnvFile.Invalid {
		envState = "invalid"
	}
	fmt.Fprintf(w, "env_file: %s\n", envState)
	for _, k := range r.EnvFile.Keys {
		fmt.Fprintf(w, "env.%s: %s\n", k.Name, k.Status)
	}

	for _, d := range r.Dirs {
		fmt.Fprintf(w, "dir.%s: %s\n", d.Path, presence(d.Present))
	}

	if r.Downloader.Available {
		fmt.Fprintf(w, "downloader: %s\n", r.Downloader.Version)
	} else {
		fmt.Fprintf(w, "downloader: %s %s\n", r.Downloader.Tool, r.Downloader.Status)
	}
	fmt.Fprintf(w, "samples: %d files (%d empty) in %s\n", r.Samples.Files, r.Samples.Empty, r.Samples.Dir)
	fmt.Fprintf(w, "readme: %s\n", presence(r.Readme.Present))

	fmt.Fprintf(w, "status: %s\n", r.Status)
}

func presence(b bool) string {
	if b {
		return "present"
	}
	return "missing"
}
