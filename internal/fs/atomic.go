package fs

import (
	"os"
	"path/filepath"
)

// TempPattern is the name pattern for temp files created by WriteFileAtomic.
const TempPattern = ".bioscout-tmp-*"

// WriteFileAtomic writes data to path atomically using a temp file + rename.
// The temp file is created in the same directory as path to ensure atomic rename on POSIX.
// An existing file at path is replaced unconditionally.
// If the operation fails, the original file (if any) is left unchanged.
// The caller must ensure the parent directory exists.
func WriteFileAtomic(fs FS, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpPath, w, err := fs.CreateTemp(dir, TempPattern)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if !success {
			fs.Remove(tmpPath)
		}
	}()

	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}

	// CreateTemp uses 0600; apply the requested mode before the file becomes visible
	if err := fs.Chmod(tmpPath, perm); err != nil {
		return err
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
