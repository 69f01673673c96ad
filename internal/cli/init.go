package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize skillforge configuration",
	Long: `Initialize skillforge configuration in your home directory.

This creates a .skillforge.yaml file with sensible defaults that you can
customize.

Example:
  skillforge init
  skillforge init --dir ~/mycroft/skills --lang de-de`,
	RunE: initProject,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("lang", "en-us", "language for vocab and dialog files")
	initCmd.Flags().String("dir", "/opt/mycroft/skills", "skills directory")
	initCmd.Flags().String("token", "", "GitHub personal access token")
	initCmd.Flags().Bool("force", false, "Overwrite existing config")
}

type fileConfig struct {
	Lang      string `yaml:"lang"`
	SkillsDir string `yaml:"skills_dir"`
	GitHub    struct {
		Token string `yaml:"token,omitempty"`
	} `yaml:"github"`
	Git struct {
		DefaultBranch string `yaml:"default_branch"`
	} `yaml:"git"`
}

func initProject(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to locate home directory: %w", err)
	}
	configPath := filepath.Join(home, ".skillforge.yaml")

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	cfg := fileConfig{}
	cfg.Lang, _ = cmd.Flags().GetString("lang")
	cfg.SkillsDir, _ = cmd.Flags().GetString("dir")
	cfg.GitHub.Token, _ = cmd.Flags().GetString("token")
	cfg.Git.DefaultBranch = "master"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# Skillforge Configuration
# The GitHub token can also be supplied via SKILLFORGE_GITHUB_TOKEN.

`

	if err := os.WriteFile(configPath, append([]byte(header), data...), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created %s\n\n", configPath)
	fmt.Println("Next steps:")
	fmt.Println("  1. Point skills_dir at your skills directory")
	fmt.Println("  2. Add a GitHub token if you want skillforge to create repositories")
	fmt.Println("  3. Run 'skillforge create' to scaffold your first skill")

	return nil
}
