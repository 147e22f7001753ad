package scaffold

import (
	"os"
	"strings"

	"github.com/bioscout/bioscout-setup/internal/fs"
)

// GitignoreResult indicates what happened to .gitignore.
type GitignoreResult string

const (
	GitignoreUpdated   GitignoreResult = "updated"
	GitignoreUnchanged GitignoreResult = "unchanged"
	GitignoreSkipped   GitignoreResult = "skipped"
)

// EnsureGitignore ensures entry is listed in the .gitignore at gitignorePath.
// Creates the file if missing. Does not add duplicate entries.
// Ensures file ends with newline.
func EnsureGitignore(fsys fs.FS, gitignorePath, entry string) (GitignoreResult, error) {
	content, err := fsys.ReadFile(gitignorePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		if err := fsys.WriteFile(gitignorePath, []byte(entry+"\n"), 0644); err != nil {
			return "", err
		}
		return GitignoreUpdated, nil
	}

	if hasEntry(string(content), entry) {
		if len(content) > 0 && content[len(content)-1] != '\n' {
			if err := fsys.WriteFile(gitignorePath, append(content, '\n'), 0644); err != nil {
				return "", err
			}
			return GitignoreUpdated, nil
		}
		return GitignoreUnchanged, nil
	}

	newContent := string(content)
	if len(newContent) > 0 && !strings.HasSuffix(newContent, "\n") {
		newContent += "\n"
	}
	newContent += entry + "\n"

	if err := fsys.WriteFile(gitignorePath, []byte(newContent), 0644); err != nil {
		return "", err
	}
	return GitignoreUpdated, nil
}

// hasEntry treats "name" and "/name" as the same entry.
func hasEntry(content, entry string) bool {
	want := strings.TrimPrefix(entry, "/")
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimPrefix(strings.TrimSpace(line), "/") == want {
			return true
		}
	}
	return false
}
