package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/questabletractor/internal/database"
)

func newMigrateCmd(opts *options) *cobra.Command {
	var (
		sqlitePath string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every save from SQLite into the configured PostgreSQL store",
		Long: "Migrate reads every player from a SQLite database and writes them to the\n" +
			"postgres settings in the config file. Saves already in PostgreSQL are\n" +
			"replaced. Last-saved times are reset to the time of the copy.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := loadConfig(&options{configPath: opts.configPath})
			if err != nil {
				return err
			}
			if sqlitePath == "" {
				sqlitePath = opts.dbPath
			}
			if sqlitePath == "" {
				sqlitePath = cfg.Store.SQLitePath
			}

			fmt.Fprintf(out, "Opening SQLite database: %s\n", sqlitePath)
			src, err := database.Open(sqlitePath)
			if err != nil {
				return fmt.Errorf("failed to open SQLite database: %w", err)
			}
			defer src.Close()

			players, err := src.ListPlayers()
			if err != nil {
				return err
			}

			var dst *database.Database
			if !dryRun {
				pg := cfg.Store
				pg.Driver = "postgres"
				fmt.Fprintf(out, "Opening PostgreSQL database: %s@%s:%d/%s\n",
					pg.Postgres.User, pg.Postgres.Host, pg.Postgres.Port, pg.Postgres.Database)
				dst, err = database.OpenWithConfig(pg.Database())
				if err != nil {
					return fmt.Errorf("failed to open PostgreSQL database: %w", err)
				}
				defer dst.Close()
			} else {
				fmt.Fprintln(out, "DRY RUN MODE - No changes will be made")
			}

			n, err := copySaves(src, dst, players)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Migration complete! Players: %d, values: %d\n", len(players), n)
			return nil
		},
	}
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database to read (default: --db or the configured sqlite_path)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be migrated without making changes")
	return cmd
}

// copySaves copies each player's values from src to dst and returns how many
// values were read. A nil dst only reads.
func copySaves(src, dst *database.Database, players []database.PlayerRecord) (int, error) {
	total := 0
	for _, p := range players {
		values, err := src.LoadModData(p.PlayerID)
		if err != nil {
			return total, fmt.Errorf("reading %s: %w", p.PlayerID, err)
		}
		total += len(values)
		if dst == nil {
			continue
		}
		if err := dst.SaveModData(p.PlayerID, p.TotalDays, values); err != nil {
			return total, fmt.Errorf("writing %s: %w", p.PlayerID, err)
		}
	}
	return total, nil
}
