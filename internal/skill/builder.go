package skill

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/andywolf/skillforge/internal/cleanup"
	"github.com/andywolf/skillforge/internal/gitcmd"
	"github.com/andywolf/skillforge/internal/licenses"
)

// Entry is one step of the scaffold pipeline: a path relative to the project
// root and a producer. A producer may perform its own filesystem work and
// return no text, or return template text to be written to the path.
type Entry struct {
	Path    string
	Produce func() (string, error)
}

// Builder runs the ordered scaffold pipeline against a project root.
type Builder struct {
	root    string
	entries []Entry
}

// NewBuilder creates a Builder. Entry order is significant: the project root
// must come first and version-control initialization last, so the tree is
// fully populated before it becomes tracked.
func NewBuilder(root string, entries []Entry) *Builder {
	return &Builder{root: root, entries: entries}
}

// Run executes the pipeline. Entries whose path already exists are skipped,
// so re-running against an existing project writes nothing. When names are
// given, only the matching entries run (used for partial regeneration).
//
// If the root did not exist beforehand, a rollback deleting the whole root is
// armed for the duration of the run: an interrupted first-time scaffold
// leaves nothing behind, whether the interruption arrives as a signal or as
// a prompt cancellation (ErrAborted) from a producer. Any other return,
// normal or with a handled error, keeps what it built.
func (b *Builder) Run(only ...string) (err error) {
	if _, statErr := os.Stat(b.root); os.IsNotExist(statErr) {
		rollback := func() {
			logrus.WithField("path", b.root).Debug("rolling back partial scaffold")
			_ = os.RemoveAll(b.root)
		}
		guard := cleanup.Register(rollback)
		defer func() {
			guard.Cancel()
			if errors.Is(err, ErrAborted) {
				rollback()
			}
		}()
	}

	var restrict map[string]bool
	if len(only) > 0 {
		restrict = map[string]bool{}
		for _, name := range only {
			restrict[name] = true
		}
	}

	for _, entry := range b.entries {
		if restrict != nil && !restrict[entry.Path] {
			continue
		}
		target := filepath.Join(b.root, entry.Path)
		if pathExists(target) {
			continue
		}

		content, err := entry.Produce()
		if err != nil {
			return fmt.Errorf("failed to scaffold %s: %w", displayPath(entry.Path), err)
		}

		// A producer may have created the path itself (e.g. the license
		// picker); only write when there is text and the path is still
		// missing.
		if content != "" && !pathExists(target) {
			if err := os.WriteFile(target, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", displayPath(entry.Path), err)
			}
		}
	}

	return nil
}

// ScaffoldEntries assembles the pipeline for a new skill. All answers are
// pulled lazily, so the user is only asked for what the selected entries
// need.
func (a *Answers) ScaffoldEntries(git GitClient) ([]Entry, error) {
	path, err := a.Path()
	if err != nil {
		return nil, err
	}

	return []Entry{
		{Path: "", Produce: func() (string, error) {
			return "", os.MkdirAll(path, 0755)
		}},
		{Path: "vocab", Produce: func() (string, error) {
			return "", a.writeVocab(path)
		}},
		{Path: "dialog", Produce: func() (string, error) {
			return "", a.writeDialog(path)
		}},
		{Path: "__init__.py", Produce: a.HandlerStub},
		{Path: "README.md", Produce: a.Readme},
		{Path: "LICENSE.md", Produce: func() (string, error) {
			return "", a.chooseLicense(path)
		}},
		{Path: ".gitignore", Produce: func() (string, error) {
			return gitignoreBody, nil
		}},
		{Path: "settingsmeta.yaml", Produce: renderSettingsMeta},
		{Path: ".git", Produce: func() (string, error) {
			return "", git.Init()
		}},
	}, nil
}

// writeVocab writes the intent file with the example phrases.
func (a *Answers) writeVocab(root string) error {
	name, err := a.Name()
	if err != nil {
		return err
	}
	lines, err := a.IntentLines()
	if err != nil {
		return err
	}

	dir := filepath.Join(root, "vocab", a.cfg.Lang)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	file := filepath.Join(dir, IntentName(name)+".intent")
	return os.WriteFile(file, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// writeDialog writes the dialog file with the response lines.
func (a *Answers) writeDialog(root string) error {
	name, err := a.Name()
	if err != nil {
		return err
	}
	lines, err := a.DialogLines()
	if err != nil {
		return err
	}

	dir := filepath.Join(root, "dialog", a.cfg.Lang)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	file := filepath.Join(dir, IntentName(name)+".dialog")
	return os.WriteFile(file, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

// chooseLicense lists the bundled licenses and copies the chosen one into the
// project. Pressing Enter skips the step.
func (a *Answers) chooseLicense(root string) error {
	available, err := licenses.All()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "For uploading a skill a license is required.")
	fmt.Fprintln(a.out, "Choose one of the licenses listed below or add one later.")
	fmt.Fprintln(a.out)
	for i, lic := range available {
		fmt.Fprintf(a.out, "%d: %s\n", i+1, lic.Name)
	}

	choice, err := a.prompter.Input(
		"Choose a license above or press Enter to skip",
		"",
		func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil
			}
			n, convErr := strconv.Atoi(s)
			if convErr != nil || n < 1 || n > len(available) {
				return fmt.Errorf("enter a number between 1 and %d, or leave blank", len(available))
			}
			return nil
		},
	)
	if err != nil {
		return err
	}

	choice = strings.TrimSpace(choice)
	if choice == "" {
		return nil
	}
	index, err := strconv.Atoi(choice)
	if err != nil {
		return err
	}

	target := filepath.Join(root, "LICENSE.md")
	if err := os.WriteFile(target, []byte(available[index-1].Body), 0644); err != nil {
		return fmt.Errorf("failed to write license: %w", err)
	}

	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Some licenses require that you insert the project name and/or author's name.")
	fmt.Fprintln(a.out, "Please check the license file and add the appropriate information.")
	fmt.Fprintln(a.out)
	return nil
}

// CommitInitial stages everything and records the initial commit if the
// repository has no history yet. A repository with commits is left untouched.
func CommitInitial(git GitClient) error {
	_, err := git.RevParse("HEAD")
	if err == nil {
		return nil
	}
	var cmdErr *gitcmd.CommandError
	if !errors.As(err, &cmdErr) {
		return err
	}

	if err := git.Add("."); err != nil {
		return err
	}
	return git.Commit("Initial commit")
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func displayPath(rel string) string {
	if rel == "" {
		return "project root"
	}
	return rel
}
