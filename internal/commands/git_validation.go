package commands

import (
	"fmt"
	"os/exec"
	"strings"
)

// ValidateGitRepository ensures we're inside a git repository. A dirty
// working tree is fine: reconciliation autostashes local changes.
func ValidateGitRepository() error {
	if !IsGitRepository() {
		return fmt.Errorf("not in a git repository")
	}
	return nil
}

// IsGitRepository checks if the current directory is a git repository
func IsGitRepository() bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// CurrentBranch returns the checked-out branch name.
func CurrentBranch() (string, error) {
	cmd := exec.Command("git", "branch", "--show-current")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to determine current branch: %w", err)
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", fmt.Errorf("not on a branch (detached HEAD)")
	}
	return branch, nil
}
