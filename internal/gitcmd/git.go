// Package gitcmd wraps the git command-line tool for a single working
// directory. Only the subcommands the scaffolder needs are exposed.
package gitcmd

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Git runs git commands inside a fixed working directory.
type Git struct {
	dir string
}

// New returns a Git bound to the given working directory. The directory does
// not need to exist yet; Init creates it as a repository.
func New(dir string) *Git {
	return &Git{dir: dir}
}

// Dir returns the working directory this Git operates on.
func (g *Git) Dir() string {
	return g.dir
}

// CommandError describes a git invocation that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// run executes git with the given arguments and returns trimmed stdout.
func (g *Git) run(args ...string) (string, error) {
	logrus.WithFields(logrus.Fields{"dir": g.dir, "args": args}).Debug("running git")

	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return "", fmt.Errorf("failed to run git %s: %w", strings.Join(args, " "), err)
		}
		return "", &CommandError{Args: args, ExitCode: exitCode, Stderr: stderr.String()}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Init initializes a repository in the working directory.
func (g *Git) Init() error {
	_, err := g.run("init")
	return err
}

// Add stages the given paths.
func (g *Git) Add(paths ...string) error {
	_, err := g.run(append([]string{"add"}, paths...)...)
	return err
}

// Commit records a commit with the given message.
func (g *Git) Commit(message string) error {
	_, err := g.run("commit", "-m", message)
	return err
}

// RevParse resolves a ref to a commit SHA. It returns an error when the ref
// does not resolve, which callers use to detect an empty history.
func (g *Git) RevParse(ref string) (string, error) {
	return g.run("rev-parse", ref)
}

// Remotes returns the configured remote names.
func (g *Git) Remotes() ([]string, error) {
	out, err := g.run("remote")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// HasRemote reports whether a remote with the given name is configured.
func (g *Git) HasRemote(name string) (bool, error) {
	remotes, err := g.Remotes()
	if err != nil {
		return false, err
	}
	for _, r := range remotes {
		if r == name {
			return true, nil
		}
	}
	return false, nil
}

// RemoteAdd configures a new remote.
func (g *Git) RemoteAdd(name, url string) error {
	_, err := g.run("remote", "add", name, url)
	return err
}

// Fetch downloads refs from the default remote.
func (g *Git) Fetch() error {
	_, err := g.run("fetch")
	return err
}

// Pull fetches and merges the given branch from the given remote.
func (g *Git) Pull(remote, branch string) error {
	_, err := g.run("pull", remote, branch)
	return err
}

// PushOptions modify Push behavior.
type PushOptions struct {
	Force       bool
	SetUpstream bool
}

// Push uploads the given branch to the given remote.
func (g *Git) Push(remote, branch string, opts PushOptions) error {
	_, err := g.run(pushArgs(remote, branch, opts)...)
	return err
}

// pushArgs builds the argument list for a push. Split out for testing.
func pushArgs(remote, branch string, opts PushOptions) []string {
	args := []string{"push"}
	if opts.Force {
		args = append(args, "--force")
	}
	if opts.SetUpstream {
		args = append(args, "--set-upstream")
	}
	return append(args, remote, branch)
}
