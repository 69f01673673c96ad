package skill

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andywolf/skillforge/internal/gitcmd"
	"github.com/andywolf/skillforge/internal/github"
)

func TestBuilderWritesProducedText(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo-skill")

	b := NewBuilder(root, []Entry{
		{Path: "", Produce: func() (string, error) { return "", os.MkdirAll(root, 0755) }},
		{Path: "README.md", Produce: func() (string, error) { return "hello\n", nil }},
	})
	if err := b.Run(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\n" {
		t.Errorf("README.md = %q", data)
	}
}

func TestBuilderSkipsExistingPaths(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "README.md")
	if err := os.WriteFile(target, []byte("original\n"), 0644); err != nil {
		t.Fatal(err)
	}

	produced := 0
	b := NewBuilder(root, []Entry{
		{Path: "README.md", Produce: func() (string, error) {
			produced++
			return "replacement\n", nil
		}},
	})
	if err := b.Run(); err != nil {
		t.Fatal(err)
	}

	if produced != 0 {
		t.Errorf("producer ran %d times for existing path, want 0", produced)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "original\n" {
		t.Errorf("existing file overwritten: %q", data)
	}
}

func TestBuilderIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo-skill")

	produced := 0
	entries := []Entry{
		{Path: "", Produce: func() (string, error) { return "", os.MkdirAll(root, 0755) }},
		{Path: ".gitignore", Produce: func() (string, error) {
			produced++
			return gitignoreBody, nil
		}},
	}

	if err := NewBuilder(root, entries).Run(); err != nil {
		t.Fatal(err)
	}
	if produced != 1 {
		t.Fatalf("first run produced %d times, want 1", produced)
	}

	if err := NewBuilder(root, entries).Run(); err != nil {
		t.Fatal(err)
	}
	if produced != 1 {
		t.Errorf("second run re-produced content (%d calls), want no additional writes", produced)
	}
}

func TestBuilderSubset(t *testing.T) {
	root := t.TempDir()

	b := NewBuilder(root, []Entry{
		{Path: ".gitignore", Produce: func() (string, error) { return gitignoreBody, nil }},
		{Path: "README.md", Produce: func() (string, error) { return "readme\n", nil }},
	})
	if err := b.Run(".gitignore"); err != nil {
		t.Fatal(err)
	}

	if !pathExists(filepath.Join(root, ".gitignore")) {
		t.Error(".gitignore not written")
	}
	if pathExists(filepath.Join(root, "README.md")) {
		t.Error("README.md written despite subset restriction")
	}
}

func TestBuilderKeepsTreeOnHandledError(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo-skill")

	b := NewBuilder(root, []Entry{
		{Path: "", Produce: func() (string, error) { return "", os.MkdirAll(root, 0755) }},
		{Path: "broken", Produce: func() (string, error) { return "", errors.New("boom") }},
	})

	err := b.Run()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Run() = %v, want wrapped producer error", err)
	}
	if !pathExists(root) {
		t.Error("root deleted after handled pipeline failure")
	}
}

func TestBuilderRollsBackFreshRootOnAbort(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo-skill")

	b := NewBuilder(root, []Entry{
		{Path: "", Produce: func() (string, error) { return "", os.MkdirAll(root, 0755) }},
		{Path: "vocab", Produce: func() (string, error) {
			return "", os.MkdirAll(filepath.Join(root, "vocab"), 0755)
		}},
		{Path: "__init__.py", Produce: func() (string, error) {
			return "", fmt.Errorf("asking for the icon: %w", ErrAborted)
		}},
	})

	err := b.Run()
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("Run() = %v, want wrapped ErrAborted", err)
	}
	if pathExists(root) {
		t.Error("partial tree survives a user abort")
	}
}

func TestBuilderKeepsExistingRootOnAbort(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("kept\n"), 0644); err != nil {
		t.Fatal(err)
	}

	b := NewBuilder(root, []Entry{
		{Path: ".gitignore", Produce: func() (string, error) { return "", ErrAborted }},
	})

	if err := b.Run(); !errors.Is(err, ErrAborted) {
		t.Fatalf("Run() = %v, want ErrAborted", err)
	}
	if !pathExists(filepath.Join(root, "README.md")) {
		t.Error("pre-existing project deleted on abort")
	}
}

// fakeGit satisfies GitClient without a git binary. Init materializes the
// .git path so pipeline existence checks behave like the real tool.
type fakeGit struct {
	root      string
	initCalls int
	addCalls  int
	commits   []string
	remotes   map[string]string
	pullErr   error
	pushes    []string
	fetched   bool
}

func newFakeGit(root string) *fakeGit {
	return &fakeGit{root: root, remotes: map[string]string{}}
}

func (g *fakeGit) Init() error {
	g.initCalls++
	return os.MkdirAll(filepath.Join(g.root, ".git"), 0755)
}

func (g *fakeGit) Add(paths ...string) error {
	g.addCalls++
	return nil
}

func (g *fakeGit) Commit(message string) error {
	g.commits = append(g.commits, message)
	return nil
}

func (g *fakeGit) RevParse(ref string) (string, error) {
	if len(g.commits) == 0 {
		return "", &gitcmd.CommandError{Args: []string{"rev-parse", ref}, ExitCode: 128}
	}
	return "deadbeef", nil
}

func (g *fakeGit) HasRemote(name string) (bool, error) {
	_, ok := g.remotes[name]
	return ok, nil
}

func (g *fakeGit) RemoteAdd(name, url string) error {
	g.remotes[name] = url
	return nil
}

func (g *fakeGit) Fetch() error {
	g.fetched = true
	return nil
}

func (g *fakeGit) Pull(remote, branch string) error {
	return g.pullErr
}

func (g *fakeGit) Push(remote, branch string, opts gitcmd.PushOptions) error {
	g.pushes = append(g.pushes, strings.Join(pushDescription(remote, branch, opts), " "))
	return nil
}

func pushDescription(remote, branch string, opts gitcmd.PushOptions) []string {
	desc := []string{remote, branch}
	if opts.Force {
		desc = append(desc, "force")
	}
	if opts.SetUpstream {
		desc = append(desc, "upstream")
	}
	return desc
}

func TestCommitInitialOnlyOnce(t *testing.T) {
	git := newFakeGit(t.TempDir())

	if err := CommitInitial(git); err != nil {
		t.Fatal(err)
	}
	if len(git.commits) != 1 || git.commits[0] != "Initial commit" {
		t.Fatalf("commits = %v, want one initial commit", git.commits)
	}

	if err := CommitInitial(git); err != nil {
		t.Fatal(err)
	}
	if len(git.commits) != 1 {
		t.Errorf("commits = %v, want no additional commits", git.commits)
	}
}

func TestScaffoldSirenAlarmScenario(t *testing.T) {
	skillsDir := t.TempDir()

	p := newScriptPrompter(t)
	p.inputs["one line description"] = "wakes you up with a loud siren"
	p.inputs["author"] = "Jane"
	p.inputs["name of the icon"] = "bell"
	p.inputs["color hex code"] = "#FF0000"
	p.inputs["Choose a license"] = ""
	p.lines["example phrases"] = []string{"set an alarm"}
	p.lines["say to respond"] = []string{"your alarm is set"}
	p.lines["long description"] = []string{"Wakes you up with a loud siren noise."}
	p.lines["additional categories"] = nil
	p.lines["tags"] = nil
	p.selects["primary category"] = "Daily"

	a := newTestAnswers(t, p, skillsDir, "siren alarm")
	root := filepath.Join(skillsDir, "siren-alarm-skill")
	git := newFakeGit(root)

	entries, err := a.ScaffoldEntries(git)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewBuilder(root, entries).Run(); err != nil {
		t.Fatal(err)
	}

	vocab, err := os.ReadFile(filepath.Join(root, "vocab", "en-us", "alarm.siren.intent"))
	if err != nil {
		t.Fatal(err)
	}
	if string(vocab) != "Set an alarm\n" {
		t.Errorf("vocab = %q, want capitalized phrase", vocab)
	}

	dialog, err := os.ReadFile(filepath.Join(root, "dialog", "en-us", "alarm.siren.dialog"))
	if err != nil {
		t.Fatal(err)
	}
	if string(dialog) != "Your alarm is set\n" {
		t.Errorf("dialog = %q, want capitalized response", dialog)
	}

	readme, err := os.ReadFile(filepath.Join(root, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Siren Alarm",
		"Wakes you up with a loud siren",
		"**Daily**",
		`card_color="#FF0000"`,
		"bell.svg",
		"Jane",
		`* "Set an alarm"`,
	} {
		if !strings.Contains(string(readme), want) {
			t.Errorf("README missing %q", want)
		}
	}

	stub, err := os.ReadFile(filepath.Join(root, "__init__.py"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stub), "class SirenAlarmSkill(MycroftSkill):") {
		t.Error("handler stub missing class definition")
	}

	for _, rel := range []string{".gitignore", "settingsmeta.yaml", ".git"} {
		if !pathExists(filepath.Join(root, rel)) {
			t.Errorf("missing %s", rel)
		}
	}
	if pathExists(filepath.Join(root, "LICENSE.md")) {
		t.Error("LICENSE.md written despite skipping the license prompt")
	}
	if git.initCalls != 1 {
		t.Errorf("git init called %d times, want 1", git.initCalls)
	}
}

func TestScaffoldRerunWritesNothing(t *testing.T) {
	skillsDir := t.TempDir()

	p := newScriptPrompter(t)
	p.inputs["one line description"] = "wakes you up"
	p.inputs["author"] = "Jane"
	p.inputs["name of the icon"] = "bell"
	p.inputs["color hex code"] = "#FF0000"
	p.inputs["Choose a license"] = "3"
	p.lines["example phrases"] = []string{"set an alarm"}
	p.lines["say to respond"] = []string{"your alarm is set"}
	p.lines["long description"] = []string{"Long description."}
	p.lines["additional categories"] = nil
	p.lines["tags"] = nil
	p.selects["primary category"] = "Daily"

	a := newTestAnswers(t, p, skillsDir, "siren alarm")
	root := filepath.Join(skillsDir, "siren-alarm-skill")
	git := newFakeGit(root)

	entries, err := a.ScaffoldEntries(git)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewBuilder(root, entries).Run(); err != nil {
		t.Fatal(err)
	}
	if err := CommitInitial(git); err != nil {
		t.Fatal(err)
	}

	if data, err := os.ReadFile(filepath.Join(root, "LICENSE.md")); err != nil {
		t.Fatal(err)
	} else if !strings.Contains(string(data), "MIT License") {
		t.Errorf("LICENSE.md = %q, want MIT text", data)
	}

	// Second pass over the same tree with a fresh interview: every path
	// already exists, so nothing is asked, produced, or committed.
	second := newTestAnswers(t, newScriptPrompter(t), skillsDir, "siren alarm")
	entries, err = second.ScaffoldEntries(git)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewBuilder(root, entries).Run(); err != nil {
		t.Fatal(err)
	}
	if err := CommitInitial(git); err != nil {
		t.Fatal(err)
	}

	if git.initCalls != 1 {
		t.Errorf("git init called %d times, want 1", git.initCalls)
	}
	if len(git.commits) != 1 {
		t.Errorf("commits = %v, want exactly one", git.commits)
	}
}

// Compile-time checks that the real clients satisfy the capabilities.
var (
	_ GitClient  = (*gitcmd.Git)(nil)
	_ HostClient = (*github.Client)(nil)
)
