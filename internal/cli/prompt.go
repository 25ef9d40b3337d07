package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/huh"

	"github.com/ariel-frischer/pyinit/internal/options"
)

// Answers are the free-text fields gathered interactively.
type Answers struct {
	Author      options.Author
	Description string
	ProjectURL  string
}

// Prompter asks for the fields in missing, starting from defaults.
type Prompter interface {
	Ask(ctx context.Context, missing []options.Field, defaults Answers) (Answers, error)
}

// huhPrompter asks with a huh form on the given streams.
type huhPrompter struct {
	in  io.Reader
	out io.Writer
}

// Ask implements Prompter.
func (p huhPrompter) Ask(ctx context.Context, missing []options.Field, defaults Answers) (Answers, error) {
	if len(missing) == 0 {
		return defaults, nil
	}

	answers := defaults
	fields := make([]huh.Field, 0, len(missing))
	for _, f := range missing {
		switch f {
		case options.FieldAuthorName:
			fields = append(fields, huh.NewInput().
				Title("Author name").
				Value(&answers.Author.Name))
		case options.FieldAuthorEmail:
			fields = append(fields, huh.NewInput().
				Title("Author email").
				Value(&answers.Author.Email).
				Validate(func(s string) error {
					return options.ValidateFields(options.Config{Author: options.Author{Email: s}})
				}))
		case options.FieldDescription:
			fields = append(fields, huh.NewInput().
				Title("Description").
				Value(&answers.Description))
		case options.FieldProjectURL:
			fields = append(fields, huh.NewInput().
				Title("Project URL").
				Description("Leave as is to use "+defaults.ProjectURL).
				Value(&answers.ProjectURL).
				Validate(func(s string) error {
					return options.ValidateFields(options.Config{ProjectURL: s})
				}))
		}
	}

	form := huh.NewForm(huh.NewGroup(fields...)).
		WithInput(p.in).
		WithOutput(p.out)
	if err := form.RunWithContext(ctx); err != nil {
		return Answers{}, err
	}
	return answers, nil
}

// noPrompt returns the defaults unchanged.
type noPrompt struct{}

// Ask implements Prompter.
func (noPrompt) Ask(_ context.Context, _ []options.Field, defaults Answers) (Answers, error) {
	return defaults, nil
}
