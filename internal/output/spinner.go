package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title string
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// RunWithSpinner runs action while a spinner is drawn on the terminal.
// Without a terminal on both stdout and stderr the action runs directly, so
// piped output and logs stay clean. The action itself is not cancellable;
// ctx is only checked before it starts.
func RunWithSpinner(ctx context.Context, action func() error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{title: "Working..."}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if !IsTTY() || !IsStderrTTY() {
		return action()
	}

	var actionErr error
	if err := spinner.New().Title(cfg.title).Action(func() {
		actionErr = action()
	}).Run(); err != nil {
		return fmt.Errorf("spinner error: %w", err)
	}
	return actionErr
}
