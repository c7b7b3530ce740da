package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Mansoor88-6/nagster-console/internal/cli/formatter"
	"Mansoor88-6/nagster-console/internal/employees"
	"Mansoor88-6/nagster-console/internal/models"
)

func newEmployeesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"emp"},
		Short:   "Manage the employee directory",
	}

	cmd.AddCommand(
		newEmployeesListCmd(app),
		newEmployeesAddCmd(app),
		newEmployeesRemoveCmd(app),
	)

	return cmd
}

func newEmployeesListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.requireSession(ctx); err != nil {
				return err
			}

			var records []models.EmployeeRecord
			err := app.withSpinner(cmd.ErrOrStderr(), "Loading employees...", func() error {
				var err error
				records, err = app.API.ListEmployees(ctx, status)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEmployees(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (Active, Inactive)")
	return cmd
}

// flagName maps a form field key to its flag.
func flagName(key string) string {
	if key == "employee_id" {
		return "id"
	}
	return strings.ReplaceAll(key, "_", "-")
}

func newEmployeesAddCmd(app *App) *cobra.Command {
	values := make(map[string]*string, len(employees.Fields))

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.requireSession(ctx); err != nil {
				return err
			}

			form := employees.NewAddForm(app.API, app.Logger)
			for _, f := range employees.Fields {
				if cmd.Flags().Changed(flagName(f.Key)) {
					if err := form.Set(f.Key, *values[f.Key]); err != nil {
						return err
					}
				}
			}

			if app.interactive() && (strings.TrimSpace(form.Get("employee_id")) == "" || strings.TrimSpace(form.Get("name")) == "") {
				if err := promptEmployee(form); err != nil {
					return err
				}
			}

			err := app.withSpinner(cmd.ErrOrStderr(), "Adding employee...", func() error {
				return form.Submit(ctx)
			})
			if err != nil {
				return err
			}
			_, _, success := form.Status()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(success))
			return nil
		},
	}

	for _, f := range employees.Fields {
		v := new(string)
		values[f.Key] = v
		usage := f.Label
		if f.Placeholder != "" {
			usage += " (e.g. " + f.Placeholder + ")"
		}
		cmd.Flags().StringVar(v, flagName(f.Key), "", usage)
	}

	return cmd
}

// promptEmployee asks for every field, prefilled with the form's values.
func promptEmployee(form *employees.AddForm) error {
	inputs := make([]huh.Field, 0, len(employees.Fields))
	buf := make(map[string]*string, len(employees.Fields))
	for _, f := range employees.Fields {
		v := form.Get(f.Key)
		buf[f.Key] = &v
		title := f.Label
		if f.Required {
			title += " *"
		}
		if f.Key == "work_mode" {
			inputs = append(inputs, huh.NewSelect[string]().
				Title(title).
				Options(huh.NewOptions(models.WorkModes...)...).
				Value(buf[f.Key]))
			continue
		}
		inputs = append(inputs, huh.NewInput().Title(title).Placeholder(f.Placeholder).Value(buf[f.Key]))
	}
	if err := runForm(inputs...); err != nil {
		return err
	}
	for key, v := range buf {
		if err := form.Set(key, *v); err != nil {
			return err
		}
	}
	return nil
}

var errRemoveNeedsConfirm = errors.New("refusing to remove without confirmation, pass --yes")

func newEmployeesRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := app.requireSession(ctx); err != nil {
				return err
			}

			id := strings.TrimSpace(args[0])
			form := employees.NewRemoveForm(app.API, app.Logger)
			form.Select(id)

			var confirm func(id string) bool
			var promptErr error
			if id != "" && !yes {
				if !app.interactive() {
					return errRemoveNeedsConfirm
				}
				confirm = func(id string) bool {
					ok := false
					prompt := employees.ConfirmPrompt(lookupName(ctx, app, id), id)
					promptErr = runForm(huh.NewConfirm().Title(prompt).Affirmative("Remove").Negative("Cancel").Value(&ok))
					return promptErr == nil && ok
				}
			}

			var removed bool
			submit := func() error {
				var err error
				removed, err = form.Submit(ctx, confirm)
				return err
			}
			var err error
			if confirm != nil {
				// The prompt owns the terminal, so no spinner.
				err = submit()
			} else {
				err = app.withSpinner(cmd.ErrOrStderr(), "Removing employee...", submit)
			}
			if err != nil {
				return err
			}
			if promptErr != nil {
				return promptErr
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
				return nil
			}
			_, _, success := form.Status()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(success))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// lookupName finds id's display name in the directory, or "".
func lookupName(ctx context.Context, app *App, id string) string {
	records, err := app.API.ListEmployees(ctx, "")
	if err != nil {
		app.Logger.Debug("Employee lookup failed", zap.String("employee_id", id), zap.Error(err))
		return ""
	}
	for _, r := range records {
		if r.EmployeeID == id {
			return r.Name
		}
	}
	return ""
}
