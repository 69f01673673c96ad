package skill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andywolf/skillforge/internal/config"
)

// ErrAborted reports that the user cancelled an interactive prompt.
// Implementations of Prompter return it (possibly wrapped) on cancellation,
// and the scaffold pipeline rolls back a fresh project root when a producer
// fails with it.
var ErrAborted = errors.New("cancelled by user")

// Prompter asks the user for input. Implementations must keep re-prompting on
// invalid input and only return an error when the user cancels.
type Prompter interface {
	Input(title, placeholder string, validate func(string) error) (string, error)
	Lines(title string) ([]string, error)
	Confirm(title string, defaultYes bool) (bool, error)
	Select(title string, options []string) (string, error)
}

// IconChecker validates icon names against an external icon set.
type IconChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
	URL(name string) string
}

// Categories a skill can be filed under in the marketplace.
var Categories = []string{
	"Daily", "Configuration", "Entertainment", "Information", "IoT",
	"Music & Audio", "Media", "Productivity", "Transport",
}

// Answers is the interview state: a set of named values, each computed at
// most once on first access. A producer may read other answers, so the first
// question asked is determined by what the caller accesses, not by
// declaration order.
type Answers struct {
	ctx      context.Context
	cfg      *config.Config
	prompter Prompter
	icons    IconChecker
	preset   string
	out      io.Writer

	values  map[string]any
	pending map[string]bool
}

// NewAnswers creates the interview state. preset, when non-empty, pre-supplies
// the skill name so the name prompt is skipped.
func NewAnswers(ctx context.Context, cfg *config.Config, prompter Prompter, icons IconChecker, preset string) *Answers {
	return &Answers{
		ctx:      ctx,
		cfg:      cfg,
		prompter: prompter,
		icons:    icons,
		preset:   preset,
		out:      os.Stdout,
		values:   map[string]any{},
		pending:  map[string]bool{},
	}
}

// get memoizes produce under name. A producer re-entering its own name is a
// wiring mistake, reported as an error rather than recursing forever.
func (a *Answers) get(name string, produce func() (any, error)) (any, error) {
	if v, ok := a.values[name]; ok {
		return v, nil
	}
	if a.pending[name] {
		return nil, fmt.Errorf("answer %q depends on itself", name)
	}
	a.pending[name] = true
	defer delete(a.pending, name)

	v, err := produce()
	if err != nil {
		return nil, err
	}
	a.values[name] = v
	return v, nil
}

func (a *Answers) str(name string, produce func() (string, error)) (string, error) {
	v, err := a.get(name, func() (any, error) { return produce() })
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (a *Answers) list(name string, produce func() ([]string, error)) ([]string, error) {
	v, err := a.get(name, func() (any, error) { return produce() })
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (a *Answers) set(name string, produce func() (map[string]bool, error)) (map[string]bool, error) {
	v, err := a.get(name, func() (any, error) { return produce() })
	if err != nil {
		return nil, err
	}
	return v.(map[string]bool), nil
}

// Name asks for and normalizes the skill name. The loop is unbounded: an
// existing skill of the same name offers delete-or-reenter, and a declined
// confirmation starts over.
func (a *Answers) Name() (string, error) {
	return a.str("name", func() (string, error) {
		if a.preset != "" {
			return NormalizeName(a.preset), nil
		}
		for {
			raw, err := a.prompter.Input(
				"Enter a short unique skill name",
				`ie. "siren alarm" or "pizza orderer"`,
				ValidateNameInput,
			)
			if err != nil {
				return "", err
			}
			name := NormalizeName(raw)

			if existing := a.findExisting(name); existing != "" {
				fmt.Fprintf(a.out, "The skill %s already exists\n", filepath.Base(existing))
				remove, err := a.prompter.Confirm("Remove it?", false)
				if err != nil {
					return "", err
				}
				if !remove {
					continue
				}
				if err := os.RemoveAll(existing); err != nil {
					return "", fmt.Errorf("failed to remove existing skill: %w", err)
				}
			}

			fmt.Fprintf(a.out, "\nClass name: %s\nRepo name: %s\n\n", ClassName(name), RepoName(name))
			ok, err := a.prompter.Confirm("Looks good?", true)
			if err != nil {
				return "", err
			}
			if ok {
				return name, nil
			}
		}
	})
}

// findExisting returns the path of a skill directory already using this name.
func (a *Answers) findExisting(name string) string {
	for _, candidate := range []string{name, RepoName(name)} {
		path := filepath.Join(a.cfg.SkillsDir, candidate)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// Path returns the target directory for the skill project.
func (a *Answers) Path() (string, error) {
	return a.str("path", func() (string, error) {
		name, err := a.Name()
		if err != nil {
			return "", err
		}
		return filepath.Join(a.cfg.SkillsDir, RepoName(name)), nil
	})
}

// ShortDescription asks for the one-line summary.
func (a *Answers) ShortDescription() (string, error) {
	return a.str("short_description", func() (string, error) {
		desc, err := a.prompter.Input(
			"Enter a one line description for your skill",
			"ie. Orders fresh pizzas from the store",
			nonEmpty("description"),
		)
		if err != nil {
			return "", err
		}
		return Capitalize(desc), nil
	})
}

// LongDescription asks for the long description, paragraphs joined by blank
// lines.
func (a *Answers) LongDescription() (string, error) {
	return a.str("long_description", func() (string, error) {
		paragraphs, err := a.prompter.Lines("Enter a long description")
		if err != nil {
			return "", err
		}
		return Capitalize(strings.TrimSpace(strings.Join(paragraphs, "\n\n"))), nil
	})
}

// Author asks for the author name.
func (a *Answers) Author() (string, error) {
	return a.str("author", func() (string, error) {
		return a.prompter.Input("Enter author", "", nonEmpty("author"))
	})
}

// IntentLines asks for the example phrases that trigger the skill.
func (a *Answers) IntentLines() ([]string, error) {
	return a.list("intent_lines", func() ([]string, error) {
		lines, err := a.prompter.Lines("Enter some example phrases to trigger your skill")
		if err != nil {
			return nil, err
		}
		return capitalizeAll(lines), nil
	})
}

// DialogLines asks for the response lines the skill speaks.
func (a *Answers) DialogLines() ([]string, error) {
	return a.list("dialog_lines", func() ([]string, error) {
		lines, err := a.prompter.Lines("Enter what your skill should say to respond")
		if err != nil {
			return nil, err
		}
		return capitalizeAll(lines), nil
	})
}

// IntentEntities returns the entity names found in the example phrases.
func (a *Answers) IntentEntities() (map[string]bool, error) {
	return a.set("intent_entities", func() (map[string]bool, error) {
		lines, err := a.IntentLines()
		if err != nil {
			return nil, err
		}
		return ExtractEntities(lines), nil
	})
}

// DialogEntities returns the entity names found in the dialog lines.
func (a *Answers) DialogEntities() (map[string]bool, error) {
	return a.set("dialog_entities", func() (map[string]bool, error) {
		lines, err := a.DialogLines()
		if err != nil {
			return nil, err
		}
		return ExtractEntities(lines), nil
	})
}

// Icon asks for a Font Awesome icon name, validating it against the icon set.
// A lookup failure reprompts like any other invalid input.
func (a *Answers) Icon() (string, error) {
	return a.str("icon", func() (string, error) {
		return a.prompter.Input(
			"Go to Font Awesome (fontawesome.com/cheatsheet) and choose an icon.\nEnter the name of the icon",
			"bell",
			func(s string) error {
				ok, err := a.icons.Exists(a.ctx, strings.TrimSpace(s))
				if err != nil || !ok {
					return errors.New("the icon name was not found; check the spelling and try again")
				}
				return nil
			},
		)
	})
}

// Color asks for the icon's hex color code.
func (a *Answers) Color() (string, error) {
	return a.str("color", func() (string, error) {
		color, err := a.prompter.Input(
			"Pick a color for your icon (see mycroft.ai/colors or color-hex.com).\nEnter the color hex code (including the #)",
			"#22A7F0",
			func(s string) error {
				if !strings.HasPrefix(s, "#") {
					return errors.New("check that you entered the #, and try again")
				}
				return nil
			},
		)
		if err != nil {
			return "", err
		}
		return strings.ToUpper(color), nil
	})
}

// CategoryPrimary asks for the marketplace category the skill displays under.
func (a *Answers) CategoryPrimary() (string, error) {
	return a.str("category_primary", func() (string, error) {
		return a.prompter.Select("Enter the primary category for your skill", Categories)
	})
}

// CategoriesOther asks for additional categories.
func (a *Answers) CategoriesOther() ([]string, error) {
	return a.list("categories_other", func() ([]string, error) {
		lines, err := a.prompter.Lines("Enter additional categories (optional)")
		if err != nil {
			return nil, err
		}
		return capitalizeAll(lines), nil
	})
}

// Tags asks for search tags.
func (a *Answers) Tags() ([]string, error) {
	return a.list("tags", func() ([]string, error) {
		lines, err := a.prompter.Lines("Enter tags to make it easier to search for your skill (optional)")
		if err != nil {
			return nil, err
		}
		return capitalizeAll(lines), nil
	})
}

// Readme renders the README body from the other answers.
func (a *Answers) Readme() (string, error) {
	return a.str("readme", func() (string, error) {
		var data readmeData
		var err error

		name, err := a.Name()
		if err != nil {
			return "", err
		}
		data.Title = TitleName(name)

		if data.ShortDescription, err = a.ShortDescription(); err != nil {
			return "", err
		}
		if data.LongDescription, err = a.LongDescription(); err != nil {
			return "", err
		}
		if data.Examples, err = a.IntentLines(); err != nil {
			return "", err
		}
		if data.Author, err = a.Author(); err != nil {
			return "", err
		}
		icon, err := a.Icon()
		if err != nil {
			return "", err
		}
		data.IconURL = a.icons.URL(icon)
		if data.Color, err = a.Color(); err != nil {
			return "", err
		}
		if data.CategoryPrimary, err = a.CategoryPrimary(); err != nil {
			return "", err
		}
		if data.CategoriesOther, err = a.CategoriesOther(); err != nil {
			return "", err
		}
		if data.Tags, err = a.Tags(); err != nil {
			return "", err
		}

		return renderReadme(data)
	})
}

// HandlerStub renders the skill's handler source file from the other answers.
func (a *Answers) HandlerStub() (string, error) {
	return a.str("handler_stub", func() (string, error) {
		name, err := a.Name()
		if err != nil {
			return "", err
		}
		intentEntities, err := a.IntentEntities()
		if err != nil {
			return "", err
		}
		dialogEntities, err := a.DialogEntities()
		if err != nil {
			return "", err
		}

		intentName := IntentName(name)
		return renderHandler(handlerData{
			ClassName:   ClassName(name),
			IntentName:  intentName,
			HandlerName: strings.ReplaceAll(intentName, ".", "_"),
			HandlerBody: renderHandlerBody(intentName, intentEntities, dialogEntities),
		})
	})
}

// nonEmpty validates that a trimmed input is not blank.
func nonEmpty(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func capitalizeAll(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, Capitalize(line))
	}
	return out
}
