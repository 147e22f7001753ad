package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioscout/bioscout-setup/internal/config"
	setuperrors "github.com/bioscout/bioscout-setup/internal/errors"
	"github.com/bioscout/bioscout-setup/internal/exec"
	"github.com/bioscout/bioscout-setup/internal/fs"
	"github.com/bioscout/bioscout-setup/internal/scaffold"
)

// stubRunner pretends to be curl. When installed, each download writes a
// small file to the -o destination so tests can observe the attempt.
type stubRunner struct {
	installed bool
	fail      bool // downloads exit non-zero and write nothing
	hang      bool // downloads block until their ctx is done
	downloads [][]string
	deadlines []bool // whether each download ran under a deadline
}

func (s *stubRunner) Run(ctx context.Context, name string, args []string) (exec.CmdResult, error) {
	if !s.installed {
		return exec.CmdResult{}, fmt.Errorf("exec: %q: %w", name, osexec.ErrNotFound)
	}
	if len(args) == 1 && args[0] == "--version" {
		return exec.CmdResult{Stdout: "curl 8.5.0\n"}, nil
	}
	s.downloads = append(s.downloads, args)
	_, hasDeadline := ctx.Deadline()
	s.deadlines = append(s.deadlines, hasDeadline)
	if s.hang {
		<-ctx.Done()
		return exec.CmdResult{ExitCode: -1}, ctx.Err()
	}
	if s.fail {
		return exec.CmdResult{ExitCode: 6}, nil
	}
	dest := args[len(args)-2]
	if err := os.WriteFile(dest, []byte("jpeg bytes for "+args[len(args)-1]), 0644); err != nil {
		return exec.CmdResult{}, err
	}
	return exec.CmdResult{}, nil
}

func runInit(t *testing.T, cr exec.CommandRunner, root string, opts InitOpts) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Init(context.Background(), cr, fs.NewRealFS(), root, opts, &stdout, &stderr)
	return stdout.String(), err
}

func TestInit_CreatesEnvironment(t *testing.T) {
	root := t.TempDir()
	cr := &stubRunner{installed: true}

	out, err := runInit(t, cr, root, InitOpts{})
	require.NoError(t, err)

	env, err := godotenv.Read(filepath.Join(root, ".env"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"OPENAI_API_KEY":        "your_openai_api_key_here",
		"INATURALIST_API_TOKEN": "your_inaturalist_api_token_here",
	}, env)

	for _, d := range scaffold.DefaultDirs() {
		info, err := os.Stat(filepath.Join(root, d))
		require.NoError(t, err, d)
		assert.True(t, info.IsDir(), d)
	}

	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, scaffold.ReadmeTemplate, string(readme))

	require.Len(t, cr.downloads, 5)
	for i, asset := range scaffold.DefaultAssets() {
		dest := filepath.Join(root, "static", "samples", asset.Filename)
		assert.Equal(t, []string{"-s", "-L", "-o", dest, asset.URL}, cr.downloads[i])
		assert.FileExists(t, dest)
	}

	assert.Contains(t, out, "root: "+root+"\n")
	assert.Contains(t, out, "env_file: written\n")
	assert.Contains(t, out, "dirs_created: static/uploads, static/samples, data/observations, data/knowledge\n")
	assert.Contains(t, out, "dirs_present: none\n")
	assert.Contains(t, out, "samples: fetched 5\n")
	assert.Contains(t, out, "readme: written\n")
	assert.Contains(t, out, "gitignore: skipped\n")
	assert.NotContains(t, out, "notice:")

	_, err = os.Stat(filepath.Join(root, ".gitignore"))
	assert.True(t, os.IsNotExist(err), ".gitignore must not be created by default")
}

func TestInit_ToolMissing(t *testing.T) {
	root := t.TempDir()

	out, err := runInit(t, &stubRunner{installed: false}, root, InitOpts{})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "static", "samples"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Contains(t, out, "samples: tool_missing\n")
	assert.Contains(t, out, "notice: curl not found; download sample images manually into static/samples\n")
	assert.FileExists(t, filepath.Join(root, "README.md"))
}

func TestInit_FailedDownloadsAreSilent(t *testing.T) {
	root := t.TempDir()
	cr := &stubRunner{installed: true, fail: true}

	out, err := runInit(t, cr, root, InitOpts{})
	require.NoError(t, err)

	assert.Len(t, cr.downloads, 5)
	assert.Contains(t, out, "samples: fetched 5\n")
}

func TestInit_FetchTimeout(t *testing.T) {
	root := t.TempDir()
	cr := &stubRunner{installed: true, hang: true}

	done := make(chan struct{})
	var out string
	var err error
	go func() {
		defer close(done)
		out, err = runInit(t, cr, root, InitOpts{FetchTimeout: 20 * time.Millisecond})
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("init hung on a stalled download despite --fetch-timeout")
	}

	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, true, true}, cr.deadlines)
	assert.Contains(t, out, "samples: fetched 5\n")
	assert.Contains(t, out, "readme: written\n")
	assert.FileExists(t, filepath.Join(root, "README.md"))
}

func TestInit_NoFetchTimeoutByDefault(t *testing.T) {
	cr := &stubRunner{installed: true}
	_, err := runInit(t, cr, t.TempDir(), InitOpts{})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, false, false}, cr.deadlines)
}

func TestInit_SkipSamples(t *testing.T) {
	root := t.TempDir()
	cr := &stubRunner{installed: true}

	out, err := runInit(t, cr, root, InitOpts{SkipSamples: true})
	require.NoError(t, err)

	assert.Empty(t, cr.downloads)
	assert.Contains(t, out, "samples: skipped\n")
	assert.DirExists(t, filepath.Join(root, "static", "samples"))
}

func TestInit_OverwritesExistingFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("OPENAI_API_KEY=sk-real-key-123456789012\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# mine\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data", "observations"), 0755))

	out, err := runInit(t, &stubRunner{}, root, InitOpts{})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	assert.Equal(t, scaffold.EnvTemplate, string(got))

	got, err = os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, scaffold.ReadmeTemplate, string(got))

	assert.Contains(t, out, "dirs_present: data/observations\n")
}

func TestInit_RerunIsDeterministic(t *testing.T) {
	root := t.TempDir()
	cr := &stubRunner{installed: true}

	_, err := runInit(t, cr, root, InitOpts{})
	require.NoError(t, err)
	first := snapshotTree(t, root)

	_, err = runInit(t, cr, root, InitOpts{})
	require.NoError(t, err)
	second := snapshotTree(t, root)

	assert.Equal(t, first, second)
}

func TestInit_Gitignore(t *testing.T) {
	root := t.TempDir()

	out, err := runInit(t, &stubRunner{}, root, InitOpts{Gitignore: true})
	require.NoError(t, err)
	assert.Contains(t, out, "gitignore: updated\n")

	out, err = runInit(t, &stubRunner{}, root, InitOpts{Gitignore: true})
	require.NoError(t, err)
	assert.Contains(t, out, "gitignore: unchanged\n")

	got, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, ".env\n", string(got))
}

func TestInit_Manifest(t *testing.T) {
	root := t.TempDir()
	cr := &stubRunner{installed: true}
	m := config.DefaultManifest()
	m.Env = []scaffold.EnvVar{{Name: "OPENAI_API_KEY", Value: "changeme"}}
	m.Assets = m.Assets[:2]

	_, err := runInit(t, cr, root, InitOpts{Manifest: &m})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "OPENAI_API_KEY=changeme\n", string(got))
	assert.Len(t, cr.downloads, 2)
}

func TestInit_RootMissing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nope")

	_, err := runInit(t, &stubRunner{}, root, InitOpts{})
	require.Error(t, err)
	assert.Equal(t, setuperrors.ENotADirectory, setuperrors.GetCode(err))
}

func TestInit_DirIsFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "knowledge"), []byte("x"), 0644))

	_, err := runInit(t, &stubRunner{installed: true}, root, InitOpts{})
	require.Error(t, err)
	assert.Equal(t, setuperrors.ENotADirectory, setuperrors.GetCode(err))

	// .env was written before the failure, README was not
	assert.FileExists(t, filepath.Join(root, ".env"))
	assert.NoFileExists(t, filepath.Join(root, "README.md"))
}

func TestInit_WriteFailureAbortsRemainingSteps(t *testing.T) {
	root := t.TempDir()
	cr := &stubRunner{installed: true}
	fsys := &readOnlyFS{FS: fs.NewRealFS()}

	var stdout, stderr bytes.Buffer
	err := Init(context.Background(), cr, fsys, root, InitOpts{}, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, setuperrors.EWriteFailed, setuperrors.GetCode(err))
	assert.Contains(t, err.Error(), ".env")

	assert.NoDirExists(t, filepath.Join(root, "static"))
	assert.Empty(t, cr.downloads)
	assert.Empty(t, stdout.String())
}

func TestInit_MkdirFailure(t *testing.T) {
	root := t.TempDir()
	fsys := &noMkdirFS{FS: fs.NewRealFS()}

	var stdout, stderr bytes.Buffer
	err := Init(context.Background(), &stubRunner{}, fsys, root, InitOpts{}, &stdout, &stderr)
	require.Error(t, err)
	assert.Equal(t, setuperrors.EMkdirFailed, setuperrors.GetCode(err))
	assert.NoFileExists(t, filepath.Join(root, "README.md"))
}

// readOnlyFS fails every file creation like a read-only mount.
type readOnlyFS struct {
	fs.FS
}

func (r *readOnlyFS) CreateTemp(dir, pattern string) (string, io.WriteCloser, error) {
	return "", nil, os.ErrPermission
}

// noMkdirFS fails directory creation.
type noMkdirFS struct {
	fs.FS
}

func (n *noMkdirFS) MkdirAll(path string, perm os.FileMode) error {
	return &os.PathError{Op: "mkdir", Path: path, Err: os.ErrPermission}
}

// snapshotTree maps every path under root to its content ("<dir>" for directories).
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	snap := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			snap[rel] = "<dir>"
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	for k := range snap {
		assert.False(t, strings.HasPrefix(filepath.Base(k), ".bioscout-tmp-"), "temp file left: %s", k)
	}
	return snap
}
