package root

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/questabletractor/internal/database"
	"github.com/lawnchairsociety/questabletractor/internal/gametime"
	"github.com/lawnchairsociety/questabletractor/internal/moddata"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
	"github.com/lawnchairsociety/questabletractor/internal/quests"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status [player]",
		Short: "List saves, or show one player's quests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cleanup, err := openDB(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 0 {
				return listPlayers(cmd.OutOrStdout(), db)
			}
			return showPlayer(cmd.OutOrStdout(), db, args[0])
		},
	}
}

func listPlayers(out io.Writer, db *database.Database) error {
	players, err := db.ListPlayers()
	if err != nil {
		return err
	}
	if len(players) == 0 {
		fmt.Fprintln(out, "No saves yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tDATE\tKEYS\tLAST SAVED")
	for _, p := range players {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			p.PlayerID,
			gametime.DateFromTotalDays(p.TotalDays),
			p.Keys,
			p.LastSaved.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func showPlayer(out io.Writer, db *database.Database, playerID string) error {
	rec, err := db.GetPlayer(playerID)
	if err != nil {
		return fmt.Errorf("%s: %w", playerID, err)
	}
	values, err := db.LoadModData(playerID)
	if err != nil {
		return err
	}
	store := moddata.New(playerID)
	store.Load(playerID, values)

	fmt.Fprintf(out, "%s, saved on %s\n\n", playerID, gametime.DateFromTotalDays(rec.TotalDays))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "QUEST\tSTATE\tVALUE")
	known := make(map[string]bool)
	for _, e := range quests.Entries() {
		known[e.Key] = true
		value, _ := store.Get(e.Key)
		state := quest.StateOf(store, e.Key)
		if state == quest.InProgress {
			if err := e.Validate(value); err != nil {
				value += "  (unreadable)"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Kind, state, value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	var extra []string
	for _, k := range store.Keys() {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		fmt.Fprintln(out, "\nOther keys:")
		for _, k := range extra {
			v, _ := store.Get(k)
			fmt.Fprintf(out, "  %s = %s\n", k, v)
		}
	}
	return nil
}
