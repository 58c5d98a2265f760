package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/catalog"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/log"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/report"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/storage"
)

var (
	seasonID  string
	seasonAll bool
)

var seasonCmd = &cobra.Command{
	Use:   "season <puuid>",
	Short: "Aggregate a player's stored matches",
	Long: `Aggregate every stored match of one player, optionally restricted to one season.
With --all one block is printed per season found in the history.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeason,
}

func init() {
	seasonCmd.Flags().StringVar(&seasonID, "season", "", "restrict to one season id")
	seasonCmd.Flags().BoolVar(&seasonAll, "all", false, "print each stored season separately")
}

func runSeason(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	puuid := args[0]
	if !seasonAll {
		return showSeason(os.Stdout, db, cat, puuid, seasonID)
	}

	ids, err := db.SeasonIDs(puuid)
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}
	for _, id := range ids {
		if err := showSeason(os.Stdout, db, cat, puuid, id); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

func showSeason(w io.Writer, db *storage.DB, cat *catalog.Catalog, puuid, season string) error {
	agg, err := db.PlayerSeason(puuid, season)
	if err != nil {
		return fmt.Errorf("aggregate player: %w", err)
	}
	if agg.Matches == 0 {
		fmt.Fprintf(os.Stderr, "No stored matches for %s\n", puuid)
		return nil
	}
	maps, err := db.MapRecords(puuid, season)
	if err != nil {
		return fmt.Errorf("map records: %w", err)
	}
	report.PrintSeason(w, agg, maps, cat)
	return nil
}
