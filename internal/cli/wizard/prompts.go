// Package wizard provides interactive prompts for CLI commands. It satisfies
// skill.Prompter with huh forms; validation errors re-render the field
// inline, so invalid input re-prompts rather than failing.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"

	"github.com/andywolf/skillforge/internal/skill"
)

// Styled console helpers shared by the commands.
var (
	Success = color.New(color.FgGreen)
	Warn    = color.New(color.FgYellow)
	Fail    = color.New(color.FgRed, color.Bold)
	Note    = color.New(color.FgCyan)
)

// Prompter implements interactive prompts on the terminal.
type Prompter struct{}

// Input asks for a single line of input, re-prompting until validate passes.
func (Prompter) Input(title, placeholder string, validate func(string) error) (string, error) {
	var value string

	input := huh.NewInput().
		Title(title).
		Value(&value)
	if placeholder != "" {
		input = input.Placeholder(placeholder)
	}
	if validate != nil {
		input = input.Validate(validate)
	}

	form := huh.NewForm(huh.NewGroup(input))
	if err := form.Run(); err != nil {
		return "", formErr(err)
	}

	return strings.TrimSpace(value), nil
}

// Lines asks for multi-line input and returns the non-blank lines.
func (Prompter) Lines(title string) ([]string, error) {
	var raw string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title(title).
				Description("One entry per line. Leave empty to finish.").
				Value(&raw),
		),
	)
	if err := form.Run(); err != nil {
		return nil, formErr(err)
	}

	return splitLines(raw), nil
}

// Confirm asks a yes/no question.
func (Prompter) Confirm(title string, defaultYes bool) (bool, error) {
	confirmed := defaultYes

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, formErr(err)
	}

	return confirmed, nil
}

// Select asks the user to pick one of the given options.
func (Prompter) Select(title string, options []string) (string, error) {
	var value string

	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o, o))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", formErr(err)
	}

	return value, nil
}

// formErr maps huh's Ctrl-C abort onto skill.ErrAborted so callers can tell a
// user cancellation apart from a terminal failure.
func formErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return skill.ErrAborted
	}
	return fmt.Errorf("prompt failed: %w", err)
}

// splitLines breaks raw multi-line input into trimmed, non-blank lines.
func splitLines(raw string) []string {
	var result []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
