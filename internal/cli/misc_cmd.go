package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Mansoor88-6/nagster-console/internal/cli/formatter"
	"Mansoor88-6/nagster-console/internal/router"
)

var errNoBrowser = errors.New("no browser available on this platform")

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("the dashboard needs an interactive terminal")
			}
			return runTUI(cmd.Context(), app, router.PathDashboard)
		},
	}
}

func newDocsCmd(app *App) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Open the backend API documentation",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := app.docsURL()
			fmt.Fprintln(cmd.OutOrStdout(), url)
			if printOnly {
				return nil
			}
			return openBrowser(app, url)
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Only print the URL")
	return cmd
}

func openBrowser(app *App, url string) error {
	if app.Platform == nil {
		return errNoBrowser
	}
	if err := app.Platform.OpenBrowser(url); err != nil {
		app.Logger.Warn("Failed to open browser", zap.String("url", url), zap.Error(err))
		return err
	}
	return nil
}

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.withSpinner(cmd.ErrOrStderr(), "Checking backend...", func() error {
				return app.API.HealthCheck(cmd.Context())
			})
			if err != nil {
				return fmt.Errorf("%s is unhealthy: %w", app.API.BaseURL(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(app.API.BaseURL()+" is healthy"))
			return nil
		},
	}
}
