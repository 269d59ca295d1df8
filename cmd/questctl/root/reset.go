package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/questabletractor/internal/quests"
)

func newResetCmd(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset <player> [quest]",
		Short: "Forget a quest, or with --all the whole save",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID := args[0]
			if len(args) == 1 && !all {
				return fmt.Errorf("name a quest to reset, or pass --all to delete the save")
			}
			if len(args) == 2 && all {
				return fmt.Errorf("--all cannot be combined with a quest")
			}

			db, cleanup, err := openDB(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if all {
				if err := db.DeletePlayer(playerID); err != nil {
					return fmt.Errorf("%s: %w", playerID, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: save deleted\n", playerID)
				return nil
			}

			e, ok := quests.Lookup(args[1])
			if !ok {
				return fmt.Errorf("unknown quest %q", args[1])
			}
			if err := db.DeleteModValue(playerID, e.Key); err != nil {
				return err
			}
			// George's letter is tied to the seeder quest.
			if e.Kind == quests.KindSeeder {
				if err := db.DeleteModValue(playerID, quests.KeySeederGeorgeSentMail); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s reset to not started\n", playerID, e.Kind)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Delete every quest value for the player")
	return cmd
}
