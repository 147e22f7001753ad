package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bioscout/bioscout-setup/internal/errors"
	"github.com/bioscout/bioscout-setup/internal/fs"
	"github.com/bioscout/bioscout-setup/internal/scaffold"
)

// Manifest describes what init lays down. Every field is optional in the
// YAML file; omitted fields keep their defaults.
//
//	env:
//	  - name: OPENAI_API_KEY
//	    value: your_openai_api_key_here
//	dirs: [static/uploads, static/samples, data/observations, data/knowledge]
//	samples_dir: static/samples
//	assets:
//	  - url: https://example.org/bird.jpg
//	    filename: bird.jpg
type Manifest struct {
	Env        []scaffold.EnvVar `yaml:"env"`
	Dirs       []string          `yaml:"dirs"`
	SamplesDir string            `yaml:"samples_dir"`
	Assets     []scaffold.Asset  `yaml:"assets"`
}

// DefaultManifest returns the built-in BioScout layout.
func DefaultManifest() Manifest {
	return Manifest{
		Env:        scaffold.DefaultEnvVars(),
		Dirs:       scaffold.DefaultDirs(),
		SamplesDir: scaffold.SamplesDir,
		Assets:     scaffold.DefaultAssets(),
	}
}

// LoadManifest reads a YAML manifest from path and fills omitted fields
// from DefaultManifest.
// Returns E_NO_MANIFEST if the file cannot be read.
// Returns E_INVALID_MANIFEST if it is not valid YAML.
func LoadManifest(fsys fs.FS, path string) (Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, errors.New(errors.ENoManifest, "manifest not found: "+path)
		}
		return Manifest{}, errors.Wrap(errors.ENoManifest, "failed to read manifest "+path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, errors.Wrap(errors.EInvalidManifest, "invalid yaml in "+path, err)
	}

	return m.withDefaults(), nil
}

func (m Manifest) withDefaults() Manifest {
	def := DefaultManifest()
	if m.Env == nil {
		m.Env = def.Env
	}
	if m.Dirs == nil {
		m.Dirs = def.Dirs
	}
	if m.SamplesDir == "" {
		m.SamplesDir = def.SamplesDir
	}
	if m.Assets == nil {
		m.Assets = def.Assets
	}

	// curl -o does not create parent dirs
	samples := filepath.ToSlash(filepath.Clean(m.SamplesDir))
	for _, d := range m.Dirs {
		if filepath.ToSlash(filepath.Clean(d)) == samples {
			return m
		}
	}
	m.Dirs = append(append([]string(nil), m.Dirs...), m.SamplesDir)
	return m
}

// EnvContent renders the manifest's environment entries as file content.
func (m Manifest) EnvContent() string {
	return scaffold.RenderEnv(m.Env)
}
