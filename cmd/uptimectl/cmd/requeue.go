package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Krosebrook/oneuptime/internal/store/postgres"
)

var requeueKind string

var requeueCmd = &cobra.Command{
	Use:   "requeue <note-id>",
	Short: "Reset a Failed note back to Pending",
	Long: `Re-admits a note whose subscriber notification failed. The engine never
retries Failed notes on its own; this is the external reset.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		kind, err := parseKind(requeueKind)
		if err != nil {
			return err
		}

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.NewPublicNoteStore(db).Requeue(ctx, kind, args[0]); err != nil {
			return err
		}

		fmt.Printf("note %s re-queued\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(requeueCmd)

	requeueCmd.Flags().StringVar(&requeueKind, "kind", "incident", "note kind: incident or maintenance")
}
