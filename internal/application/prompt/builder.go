// Package prompt composes the system and user messages sent to the completion backend.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/doeshing/aish/internal/domain"
	"github.com/doeshing/aish/internal/ports"
)

// Builder renders prompts for one locale. It performs no I/O.
type Builder struct {
	locale       domain.Locale
	instructions string
	environment  *template.Template
	firstAttempt *template.Template
	retry        *template.Template
}

// NewBuilder parses the templates for locale, falling back to English for unknown values.
func NewBuilder(locale domain.Locale) (*Builder, error) {
	set, ok := templatesByLocale[locale]
	if !ok {
		locale = domain.LocaleEnglish
		set = templatesByLocale[locale]
	}

	b := &Builder{locale: locale, instructions: set.instructions}
	var err error
	if b.environment, err = template.New("environment").Parse(set.environment); err != nil {
		return nil, fmt.Errorf("parse environment template: %w", err)
	}
	if b.firstAttempt, err = template.New("first").Parse(set.firstAttempt); err != nil {
		return nil, fmt.Errorf("parse first attempt template: %w", err)
	}
	if b.retry, err = template.New("retry").Parse(set.retry); err != nil {
		return nil, fmt.Errorf("parse retry template: %w", err)
	}
	return b, nil
}

// Locale reports the language the builder renders.
func (b *Builder) Locale() domain.Locale {
	return b.locale
}

type retryData struct {
	Task      string
	Command   string
	Output    string
	Succeeded bool
	Number    int
}

// Build composes the prompt for one synthesis. previous is nil on the first attempt.
func (b *Builder) Build(task string, previous *domain.ExecutionAttempt, snapshot domain.EnvironmentSnapshot) (domain.Prompt, error) {
	env, err := execute(b.environment, snapshot)
	if err != nil {
		return domain.Prompt{}, err
	}

	var user string
	if previous == nil {
		user, err = execute(b.firstAttempt, struct{ Task string }{Task: task})
	} else {
		user, err = execute(b.retry, retryData{
			Task:      task,
			Command:   previous.Command,
			Output:    previous.Output,
			Succeeded: previous.Succeeded,
			Number:    previous.Number,
		})
	}
	if err != nil {
		return domain.Prompt{}, err
	}

	return domain.Prompt{
		System: b.instructions + "\n" + env,
		User:   user,
	}, nil
}

func execute(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

var _ ports.PromptBuilder = (*Builder)(nil)
