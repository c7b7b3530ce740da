package cli

import (
	"github.com/spf13/cobra"

	"Mansoor88-6/nagster-console/internal/router"
)

// NewRootCmd builds the "nagster" command tree against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "nagster",
		Short:         "Admin console for the Nagster employee activity backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(cmd.Context(), app, router.PathHome)
			}
			return cmd.Help()
		},
	}

	// Read by main before the tree is built; declared here so it parses.
	root.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")

	root.AddCommand(
		newLoginCmd(app),
		newSignupCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newOverviewCmd(app),
		newSummaryCmd(app),
		newActivityCmd(app),
		newSuspiciousCmd(app),
		newEmployeesCmd(app),
		newDashboardCmd(app),
		newDocsCmd(app),
		newHealthCmd(app),
	)

	return root
}
