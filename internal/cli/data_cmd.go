package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Mansoor88-6/nagster-console/internal/cli/formatter"
	"Mansoor88-6/nagster-console/internal/export"
	"Mansoor88-6/nagster-console/internal/models"
)

func newOverviewCmd(app *App) *cobra.Command {
	var date, xlsxPath string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show every employee's activity for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := app.resolveDate(date)
			if err != nil {
				return err
			}
			if _, err := app.requireSession(ctx); err != nil {
				return err
			}

			var rows []models.Employee
			err = app.withSpinner(cmd.ErrOrStderr(), "Loading overview...", func() error {
				rows, err = app.API.Overview(ctx, day)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOverview(day, rows))

			if xlsxPath != "" {
				if err := writeOverviewFile(xlsxPath, day, rows); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine("Exported to "+xlsxPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to show (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the overview to this .xlsx file")

	return cmd
}

func writeOverviewFile(path, day string, rows []models.Employee) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.WriteOverviewXLSX(f, day, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newSummaryCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summary ID",
		Short: "Show one employee's day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := app.resolveDate(date)
			if err != nil {
				return err
			}
			if _, err := app.requireSession(ctx); err != nil {
				return err
			}

			var s *models.EmployeeSummary
			err = app.withSpinner(cmd.ErrOrStderr(), "Loading summary...", func() error {
				s, err = app.API.Summary(ctx, args[0], day)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Summary "+day, formatter.FormatSummary(s)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to show (YYYY-MM-DD, default today)")
	return cmd
}

func newActivityCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "activity ID",
		Short: "Show one employee's activity log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := app.resolveDate(date)
			if err != nil {
				return err
			}
			if _, err := app.requireSession(ctx); err != nil {
				return err
			}

			var entries []models.ActivityEntry
			err = app.withSpinner(cmd.ErrOrStderr(), "Loading activity...", func() error {
				entries, err = app.API.Activity(ctx, args[0], day)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header(fmt.Sprintf("Activity %s %s", args[0], day)))
			fmt.Fprintln(out, formatter.FormatActivity(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to show (YYYY-MM-DD, default today)")
	return cmd
}

func newSuspiciousCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "suspicious",
		Short: "List employees with suspicious flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := app.resolveDate(date)
			if err != nil {
				return err
			}
			if _, err := app.requireSession(ctx); err != nil {
				return err
			}

			var rows []models.Employee
			err = app.withSpinner(cmd.ErrOrStderr(), "Loading overview...", func() error {
				rows, err = app.API.Overview(ctx, day)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSuspicious(day, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Day to show (YYYY-MM-DD, default today)")
	return cmd
}
