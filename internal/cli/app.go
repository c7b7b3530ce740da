package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"Mansoor88-6/nagster-console/internal/auth"
	"Mansoor88-6/nagster-console/internal/cli/formatter"
	"Mansoor88-6/nagster-console/internal/client"
	"Mansoor88-6/nagster-console/internal/config"
	"Mansoor88-6/nagster-console/internal/dashboard"
	"Mansoor88-6/nagster-console/internal/employees"
	"Mansoor88-6/nagster-console/internal/models"
	"Mansoor88-6/nagster-console/internal/platform"
)

// Backend is every backend operation the console uses.
type Backend interface {
	auth.API
	dashboard.API
	employees.API
	ListEmployees(ctx context.Context, status string) ([]models.EmployeeRecord, error)
	HealthCheck(ctx context.Context) error
	BaseURL() string
}

// App holds what commands and the TUI share.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	API      Backend
	Session  *auth.Store
	Platform platform.Platform

	// Now is the clock used for "today" and token expiry.
	Now func() time.Time

	// IsInteractive reports whether prompts and the TUI may be used.
	IsInteractive func() bool
}

var errNotLoggedIn = errors.New("not logged in, run `nagster login` first")

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) docsURL() string {
	if a.Config != nil && a.Config.DocsURL != "" {
		return a.Config.DocsURL
	}
	return a.API.BaseURL() + "/docs"
}

// requireSession restores the stored session, validating it with the
// backend. Data commands call it first.
func (a *App) requireSession(ctx context.Context) (auth.Snapshot, error) {
	if a.Session.State() != auth.Authenticated {
		if !a.Session.Boot() {
			return auth.Snapshot{}, errNotLoggedIn
		}
		if err := a.Session.Restore(ctx); err != nil {
			return auth.Snapshot{}, fmt.Errorf("%w (%s)", errNotLoggedIn, userMessage(err))
		}
	}
	snap := a.Session.Snapshot()
	if snap.State != auth.Authenticated {
		return auth.Snapshot{}, errNotLoggedIn
	}
	return snap, nil
}

// resolveDate returns date, or today when empty, as YYYY-MM-DD.
func (a *App) resolveDate(date string) (string, error) {
	if date == "" {
		return a.now().Format(dashboard.DateLayout), nil
	}
	d, err := dashboard.ParseDate(date)
	if err != nil {
		return "", err
	}
	return d.Format(dashboard.DateLayout), nil
}

// withSpinner shows a spinner on w while fn runs, when interactive.
func (a *App) withSpinner(w io.Writer, msg string, fn func() error) error {
	if !a.interactive() {
		return fn()
	}
	stop := formatter.StartSpinner(w, msg)
	err := fn()
	stop()
	return err
}

// userMessage is the text shown to the user for err.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	return client.AsError(err).Message
}

// nagsterHuhTheme styles huh prompts with the formatter palette.
func nagsterHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func runForm(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(nagsterHuhTheme()).
		WithShowHelp(false).
		Run()
}
