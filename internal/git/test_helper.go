//go:build !prod

package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/autoflowhq/autoflow/internal/gitcmd"
)

// newTempRepo creates an isolated git repository in a temp directory and
// returns a client bound to it. All test git operations stay inside that
// directory; nothing runs against the real working tree.
func newTempRepo(t *testing.T) (*Client, string) {
	t.Helper()

	dir := t.TempDir()
	mustRunGit(t, dir, "init", "--initial-branch=main")
	mustRunGit(t, dir, "config", "user.email", "autoflow@test.invalid")
	mustRunGit(t, dir, "config", "user.name", "autoflow test")
	mustRunGit(t, dir, "config", "commit.gpgsign", "false")

	return NewClient(Options{Dir: dir}), dir
}

func mustRunGit(t *testing.T, dir string, args ...string) {
	t.Helper()

	runner := gitcmd.Runner{Dir: dir}
	if result, err := runner.Run(args...); err != nil {
		t.Fatalf("git %v failed: %v\nstderr: %s", args, err, result.StderrString(true))
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

// commitAll stages and commits everything, giving tests a baseline commit.
func commitAll(t *testing.T, dir, message string) {
	t.Helper()

	mustRunGit(t, dir, "add", ".")
	mustRunGit(t, dir, "commit", "-m", message)
}

// gitOutput runs a git command and returns trimmed stdout.
func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()

	runner := gitcmd.Runner{Dir: dir}
	result, err := runner.Run(args...)
	if err != nil {
		t.Fatalf("git %v failed: %v\nstderr: %s", args, err, result.StderrString(true))
	}
	return result.StdoutString(true)
}
