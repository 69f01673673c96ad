package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andywolf/skillforge/internal/cli/wizard"
	"github.com/andywolf/skillforge/internal/config"
	"github.com/andywolf/skillforge/internal/gitcmd"
	"github.com/andywolf/skillforge/internal/github"
	"github.com/andywolf/skillforge/internal/icons"
	"github.com/andywolf/skillforge/internal/skill"
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Scaffold a new skill project",
	Long: `Scaffold a new skill project in the skills directory.

All details are gathered interactively; a name given on the command line
pre-supplies the first answer.

Example:
  skillforge create
  skillforge create "siren alarm" --lang en-us`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().String("lang", "", "language for vocab and dialog files")
	createCmd.Flags().String("dir", "", "skills directory to scaffold into")
	createCmd.Flags().Bool("force-push", false, "offer to overwrite the remote repository instead of creating or linking one")
	_ = viper.BindPFlag("lang", createCmd.Flags().Lookup("lang"))
	_ = viper.BindPFlag("skills_dir", createCmd.Flags().Lookup("dir"))
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	preset := ""
	if len(args) > 0 {
		preset = args[0]
	}

	ctx := context.Background()
	prompter := wizard.Prompter{}
	checker := icons.NewChecker()

	answers := skill.NewAnswers(ctx, cfg, prompter, checker, preset)

	path, err := answers.Path()
	if err != nil {
		return err
	}
	git := gitcmd.New(path)

	entries, err := answers.ScaffoldEntries(git)
	if err != nil {
		return err
	}
	if err := skill.NewBuilder(path, entries).Run(); err != nil {
		return err
	}
	if err := skill.CommitInitial(git); err != nil {
		return err
	}

	if err := publish(ctx, cmd, cfg, answers, git); err != nil {
		return err
	}

	wizard.Success.Println("Created skill at:", path)
	return nil
}

// publish runs the optional remote-repository step. Exactly one operation is
// attempted per run: force-push when requested, otherwise creating a new
// repository, or linking an existing one when creation is declined.
// Anticipated failures are reported and leave the local project intact.
func publish(ctx context.Context, cmd *cobra.Command, cfg *config.Config, answers *skill.Answers, git *gitcmd.Git) error {
	if err := cfg.ValidateForRemote(); err != nil {
		wizard.Note.Println("Skipping the GitHub repository step:", err)
		return nil
	}

	name, err := answers.Name()
	if err != nil {
		return err
	}
	description, err := answers.ShortDescription()
	if err != nil {
		return err
	}

	host := github.NewClient(cfg.GitHub.Token)
	publisher := skill.NewPublisher(git, host, wizard.Prompter{}, cfg.Git.DefaultBranch)

	if forcePush, _ := cmd.Flags().GetBool("force-push"); forcePush {
		_, err := publisher.ForcePush(ctx, name)
		return err
	}

	repo, err := publisher.CreateRemote(ctx, name, description)
	var exists *github.RepoExistsError
	if errors.As(err, &exists) {
		wizard.Warn.Println(exists.Error())
		wizard.Note.Println("Decline creation on the next run to link the existing repository instead.")
		return nil
	}
	if err != nil {
		return err
	}
	if repo != nil {
		return nil
	}

	// Creation was declined (or origin already exists); offer linking.
	_, err = publisher.LinkRemote(ctx, name)
	var unrelated *skill.UnrelatedHistoriesError
	if errors.As(err, &unrelated) {
		wizard.Fail.Println(unrelated.Error())
		return nil
	}
	return err
}
