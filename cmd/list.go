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

var listPlayer string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listPlayer, "player", "", "only matches this puuid played, with their result")
}

func runList(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	return listMatches(os.Stdout, db, cat, listPlayer)
}

func listMatches(w io.Writer, db *storage.DB, cat *catalog.Catalog, puuid string) error {
	matches, err := db.ListMatches(puuid)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches stored yet. Run 'valmatch build <matchId> --player <puuid> --save' to add one.")
		return nil
	}
	report.PrintMatchList(w, matches, cat)
	return nil
}
