package skill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andywolf/skillforge/internal/gitcmd"
	"github.com/andywolf/skillforge/internal/github"
)

// GitClient is the version-control capability the scaffolder consumes,
// satisfied by *gitcmd.Git.
type GitClient interface {
	Init() error
	Add(paths ...string) error
	Commit(message string) error
	RevParse(ref string) (string, error)
	HasRemote(name string) (bool, error)
	RemoteAdd(name, url string) error
	Fetch() error
	Pull(remote, branch string) error
	Push(remote, branch string, opts gitcmd.PushOptions) error
}

// HostClient is the repository-hosting capability, satisfied by
// *github.Client.
type HostClient interface {
	AuthenticatedUser(ctx context.Context) (*github.User, error)
	Repository(ctx context.Context, owner, name string) (*github.Repo, error)
	CreateRepository(ctx context.Context, name, description string) (*github.Repo, error)
}

// git pull exits with this status when the remote shares no common ancestor
// with the local history.
const unrelatedHistoriesStatus = 128

// UnrelatedHistoriesError indicates the remote repository's history shares no
// common ancestor with the local commits.
type UnrelatedHistoriesError struct {
	Repo string
	Err  error
}

func (e *UnrelatedHistoriesError) Error() string {
	return fmt.Sprintf("the history of %s is unrelated to the local commits; resolve the merge manually or force-push", e.Repo)
}

func (e *UnrelatedHistoriesError) Unwrap() error {
	return e.Err
}

// Publisher attaches a scaffolded skill to a hosted remote repository.
type Publisher struct {
	git      GitClient
	host     HostClient
	prompter Prompter
	branch   string
	out      io.Writer
}

// NewPublisher creates a Publisher pushing to the given branch.
func NewPublisher(git GitClient, host HostClient, prompter Prompter, branch string) *Publisher {
	return &Publisher{
		git:      git,
		host:     host,
		prompter: prompter,
		branch:   branch,
		out:      os.Stdout,
	}
}

// CreateRemote offers to create a hosted repository named <name>-skill and
// push to it. It is a no-op when an origin remote is already configured or
// the user declines. A name collision surfaces as *github.RepoExistsError.
func (p *Publisher) CreateRemote(ctx context.Context, name, description string) (*github.Repo, error) {
	has, err := p.git.HasRemote("origin")
	if err != nil || has {
		return nil, err
	}

	ok, err := p.prompter.Confirm("Would you like to create a GitHub repo for it?", true)
	if err != nil || !ok {
		return nil, err
	}

	repo, err := p.host.CreateRepository(ctx, RepoName(name), description)
	if err != nil {
		return nil, err
	}

	if err := p.git.RemoteAdd("origin", repo.HTMLURL); err != nil {
		return nil, err
	}
	if err := p.git.Push("origin", p.branch, gitcmd.PushOptions{SetUpstream: true}); err != nil {
		return nil, err
	}

	fmt.Fprintln(p.out, "Created GitHub repo:", repo.HTMLURL)
	return repo, nil
}

// LinkRemote offers to attach the project to an already-existing hosted
// repository named <name>-skill, merging its history into the local commit.
// Divergent histories surface as *UnrelatedHistoriesError.
func (p *Publisher) LinkRemote(ctx context.Context, name string) (*github.Repo, error) {
	has, err := p.git.HasRemote("origin")
	if err != nil || has {
		return nil, err
	}

	ok, err := p.prompter.Confirm("Would you like to link an existing GitHub repo to it?", true)
	if err != nil || !ok {
		return nil, err
	}

	repoName := RepoName(name)
	user, err := p.host.AuthenticatedUser(ctx)
	if err != nil {
		return nil, err
	}
	repo, err := p.host.Repository(ctx, user.Login, repoName)
	if err != nil {
		return nil, err
	}

	if err := p.git.RemoteAdd("origin", repo.HTMLURL); err != nil {
		return nil, err
	}
	if err := p.git.Fetch(); err != nil {
		return nil, err
	}
	if err := p.git.Pull("origin", p.branch); err != nil {
		var cmdErr *gitcmd.CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode == unrelatedHistoriesStatus {
			return nil, &UnrelatedHistoriesError{Repo: repoName, Err: err}
		}
		return nil, err
	}
	if err := p.git.Push("origin", p.branch, gitcmd.PushOptions{SetUpstream: true}); err != nil {
		return nil, err
	}

	fmt.Fprintln(p.out, "Linked and pushed to GitHub repo:", repo.HTMLURL)
	return repo, nil
}

// ForcePush overwrites the remote's history with the local branch. It asks
// for explicit confirmation first; the operation is irreversible.
func (p *Publisher) ForcePush(ctx context.Context, name string) (*github.Repo, error) {
	ok, err := p.prompter.Confirm(
		"Are you sure you want to overwrite the remote GitHub repo? This cannot be undone and you will lose your commit history!",
		false,
	)
	if err != nil || !ok {
		return nil, err
	}

	repoName := RepoName(name)
	user, err := p.host.AuthenticatedUser(ctx)
	if err != nil {
		return nil, err
	}
	repo, err := p.host.Repository(ctx, user.Login, repoName)
	if err != nil {
		return nil, err
	}

	if err := p.git.Push("origin", p.branch, gitcmd.PushOptions{Force: true}); err != nil {
		return nil, err
	}

	fmt.Fprintln(p.out, "Force pushed to GitHub repo:", repo.HTMLURL)
	return repo, nil
}
