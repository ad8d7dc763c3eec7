// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("selection cancelled")

type (
	// Option represents a selectable option with a display title and value.
	Option[T comparable] struct {
		// Title is the display text for the option.
		Title string
		// Value is the underlying value.
		Value T
	}

	// ChooseOptions configures the Choose component.
	ChooseOptions[T comparable] struct {
		// Title is the prompt displayed above the options.
		Title string
		// Description is shown under the title.
		Description string
		// Options is the list of choices.
		Options []Option[T]
		// Height limits the number of visible options (0 for auto).
		Height int
		// Config holds common TUI configuration.
		Config Config
	}
)

// Choose prompts for a single option and returns its value.
func Choose[T comparable](opts ChooseOptions[T]) (T, error) {
	var result T
	if len(opts.Options) == 0 {
		return result, errors.New("nothing to choose from")
	}

	sel := huh.NewSelect[T]().
		Title(opts.Title).
		Description(opts.Description).
		Options(huhOptions(opts.Options)...).
		Value(&result)

	if opts.Height > 0 {
		sel = sel.Height(opts.Height)
	}

	form := huh.NewForm(huh.NewGroup(sel)).
		WithTheme(getHuhTheme(opts.Config.Theme)).
		WithAccessible(opts.Config.Accessible)
	if opts.Config.Input != nil {
		form = form.WithInput(opts.Config.Input)
	}
	if opts.Config.Output != nil {
		form = form.WithOutput(opts.Config.Output)
	}
	if opts.Config.Width > 0 {
		form = form.WithWidth(opts.Config.Width)
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return result, ErrCancelled
		}
		return result, fmt.Errorf("prompt failed: %w", err)
	}

	return result, nil
}

func huhOptions[T comparable](opts []Option[T]) []huh.Option[T] {
	out := make([]huh.Option[T], len(opts))
	for i, opt := range opts {
		out[i] = huh.NewOption(opt.Title, opt.Value)
	}
	return out
}
