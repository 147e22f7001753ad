package scaffold

import (
	"path/filepath"

	"github.com/bioscout/bioscout-setup/internal/fs"
)

// WriteEnvFile writes content to root/.env, replacing any existing file.
// There is no confirmation and no backup of the previous content.
func WriteEnvFile(fsys fs.FS, root, content string) error {
	return fs.WriteFileAtomic(fsys, filepath.Join(root, EnvFileName), []byte(content), 0644)
}

// WriteReadme writes content to root/README.md, replacing any existing file.
func WriteReadme(fsys fs.FS, root, content string) error {
	return fs.WriteFileAtomic(fsys, filepath.Join(root, ReadmeFileName), []byte(content), 0644)
}
