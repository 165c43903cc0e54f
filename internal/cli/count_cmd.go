package cli

import "github.com/spf13/cobra"

func (app *App) newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of completed work intervals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := app.storage()
			if err != nil {
				return err
			}
			app.printf("%d\n", adapter.LoadCompletedCycles())
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Set the completed work interval count to zero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := app.storage()
			if err != nil {
				return err
			}
			adapter.SaveCompletedCycles(0)
			app.printf("completed count reset\n")
			return nil
		},
	})
	return cmd
}
