package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/store/postgres"
)

var (
	notesKind   string
	notesStatus string
	notesLimit  int
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List public notes and their notification status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		kind, err := parseKind(notesKind)
		if err != nil {
			return err
		}

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		notes, err := postgres.NewPublicNoteStore(db).List(ctx, kind, domain.NotificationStatus(notesStatus), notesLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEVENT\tSTATUS\tCREATED\tMESSAGE")
		for _, n := range notes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				n.ID, n.EventID, n.NotificationStatus, n.CreatedAt.Format("2006-01-02 15:04:05"), n.StatusMessage)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)

	notesCmd.Flags().StringVar(&notesKind, "kind", "incident", "note kind: incident or maintenance")
	notesCmd.Flags().StringVar(&notesStatus, "status", "", "filter by notification status (PENDING, IN_PROGRESS, SUCCESS, SKIPPED, FAILED)")
	notesCmd.Flags().IntVar(&notesLimit, "limit", 50, "maximum notes to list")
}
