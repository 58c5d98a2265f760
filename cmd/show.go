package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/catalog"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/log"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/report"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/storage"
)

var (
	showPlayer string
	showRounds bool
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show stored match stats by match id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showPlayer, "player", "", "highlight player puuid (default: the player who saved the match)")
	showCmd.Flags().BoolVar(&showRounds, "rounds", false, "also print the round table")
}

func runShow(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	return showMatch(os.Stdout, db, cat, args[0], showPlayer, showRounds)
}

func showMatch(w io.Writer, db *storage.DB, cat *catalog.Catalog, prefix, focus string, rounds bool) error {
	summary, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No match found with id prefix %q\n", prefix)
		return nil
	}

	players, err := db.GetMatchPlayers(summary.MatchID)
	if err != nil {
		return fmt.Errorf("get players: %w", err)
	}
	if focus == "" {
		focus = summary.RequesterID
	}

	ms := &model.MatchStats{
		MatchID:         summary.MatchID,
		RequesterID:     summary.RequesterID,
		MapID:           summary.MapID,
		QueueID:         summary.QueueID,
		Deathmatch:      summary.Deathmatch,
		StartTime:       summary.StartTime,
		DurationSeconds: summary.DurationSeconds,
		Result:          summary.Result,
	}
	for _, p := range players {
		if p.PUUID == summary.RequesterID {
			ms.IsPlayed = true
		}
	}
	report.PrintMatchHeader(w, ms, cat, summary.Score)

	if summary.Deathmatch {
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].DeathmatchRank < players[j].DeathmatchRank
		})
		report.PrintPlayerTable(w, players, cat, focus, true)
	} else {
		// Rows arrive grouped by team.
		for start := 0; start < len(players); {
			end := start
			for end < len(players) && players[end].TeamID == players[start].TeamID {
				end++
			}
			cHeader.Fprintf(w, "Team %s\n", players[start].TeamID)
			report.PrintPlayerTable(w, players[start:end], cat, focus, false)
			fmt.Fprintln(w)
			start = end
		}
	}

	if !rounds {
		return nil
	}
	rs, err := db.GetMatchRounds(summary.MatchID)
	if err != nil {
		return fmt.Errorf("get rounds: %w", err)
	}
	report.PrintStoredRounds(w, rs, players, cat)
	return nil
}
