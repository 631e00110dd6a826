package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the nutriscan command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "nutriscan",
		Short:         "Track nutrition by scanning meals and barcodes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newProfileCmd(app),
		newJournalCmd(app),
		newMealsCmd(app),
		newStatsCmd(app),
		newProductCmd(app),
		newScanCmd(app),
	)
	return root
}
