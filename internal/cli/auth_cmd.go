package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"Mansoor88-6/nagster-console/internal/auth"
	"Mansoor88-6/nagster-console/internal/cli/formatter"
	"Mansoor88-6/nagster-console/internal/models"
)

// MsgAccountCreated is shown when signup succeeds without signing in.
const MsgAccountCreated = "Account created. Please sign in."

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() && (strings.TrimSpace(username) == "" || password == "") {
				if err := runForm(
					huh.NewInput().Title("Username").Value(&username),
					huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
				); err != nil {
					return err
				}
			}

			err := app.withSpinner(cmd.ErrOrStderr(), "Signing in...", func() error {
				return app.Session.Login(cmd.Context(), username, password)
			})
			if err != nil {
				return err
			}

			snap := app.Session.Snapshot()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.SuccessLine(
				fmt.Sprintf("Signed in as %s (%s)", snap.Username(), snap.Session.Role)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")

	return cmd
}

func newSignupCmd(app *App) *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an admin or manager account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() && (strings.TrimSpace(username) == "" || password == "") {
				if err := runForm(
					huh.NewInput().Title("Username").Value(&username),
					huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
					huh.NewSelect[string]().
						Title("Role").
						Options(huh.NewOptions(models.RoleAdmin, models.RoleManager)...).
						Value(&role),
				); err != nil {
					return err
				}
			}

			var loggedIn bool
			err := app.withSpinner(cmd.ErrOrStderr(), "Creating account...", func() error {
				var err error
				loggedIn, err = app.Session.Signup(cmd.Context(), username, password, role)
				return err
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !loggedIn {
				fmt.Fprintln(out, formatter.SuccessLine(MsgAccountCreated))
				return nil
			}
			snap := app.Session.Snapshot()
			fmt.Fprintln(out, formatter.SuccessLine(
				fmt.Sprintf("Account created. Signed in as %s (%s)", snap.Username(), snap.Session.Role)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.Flags().StringVar(&role, "role", models.RoleAdmin, "Account role: admin or manager")

	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWhoami(
				snap.Username(), snap.Session.Role, tokenExpiry(snap.Session.Token), app.now()))
			return nil
		},
	}
}

// tokenExpiry returns the token's exp claim, or zero if it has none.
func tokenExpiry(token string) time.Time {
	claims, err := auth.ParseClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
