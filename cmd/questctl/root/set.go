package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/questabletractor/internal/quests"
)

func newSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <player> <quest> <value>",
		Short: "Move a quest to a stage, or mark it Complete",
		Long: "Set writes a quest's stored value directly. The quest may be named by kind\n" +
			"(restore, loader, harvester, seeder, waterer, harpoon) or by mod data key.\n" +
			"The game must be closed: the running engine overwrites the save at day end.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, name, value := args[0], args[1], args[2]

			e, ok := quests.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown quest %q", name)
			}
			if err := e.Validate(value); err != nil {
				return err
			}

			db, cleanup, err := openDB(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := db.SetModValue(playerID, e.Key, value); err != nil {
				return fmt.Errorf("%s: %w", playerID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s = %s\n", playerID, e.Kind, value)
			return nil
		},
	}
}
