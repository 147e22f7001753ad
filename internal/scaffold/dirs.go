package scaffold

import (
	"fmt"
	"path/filepath"

	"github.com/bioscout/bioscout-setup/internal/fs"
)

// Relative directories created under the project root.
const (
	UploadsDir      = "static/uploads"
	SamplesDir      = "static/samples"
	ObservationsDir = "data/observations"
	KnowledgeDir    = "data/knowledge"
)

// DefaultDirs returns the directories to provision, in creation order.
func DefaultDirs() []string {
	return []string{UploadsDir, SamplesDir, ObservationsDir, KnowledgeDir}
}

// EnsureDirsResult holds the result of directory provisioning.
type EnsureDirsResult struct {
	Created []string // relative paths that did not exist before
	Present []string // relative paths that already existed
}

// NotADirError is returned when a path to provision exists as a non-directory.
type NotADirError struct {
	RelPath string
}

func (e *NotADirError) Error() string {
	return fmt.Sprintf("%s exists and is not a directory", e.RelPath)
}

// EnsureDirs creates each directory under root, parents included.
// Directories that already exist are left alone. The first failure stops
// provisioning; directories created before it are not rolled back.
func EnsureDirs(fsys fs.FS, root string, dirs []string) (EnsureDirsResult, error) {
	result := EnsureDirsResult{}

	for _, rel := range dirs {
		absPath := filepath.Join(root, filepath.FromSlash(rel))

		exists, isFile, err := fs.DirExists(fsys, absPath)
		if err != nil {
			return result, err
		}
		if isFile {
			return result, &NotADirError{RelPath: rel}
		}
		if exists {
			result.Present = append(result.Present, rel)
			continue
		}

		if err := fsys.MkdirAll(absPath, 0755); err != nil {
			return result, err
		}
		result.Created = append(result.Created, rel)
	}

	return result, nil
}
