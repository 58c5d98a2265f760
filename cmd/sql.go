package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/log"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the match history",
	Long: `Run an arbitrary SQL query against the match history and print results as a table.

Schema overview:
  matches(match_id, requester_id, map_id, queue_id, game_mode, season_id, is_ranked,
    deathmatch, start_time, duration_seconds, is_played, result, score)
  match_players(match_id, puuid, name, team_id, party_id, agent_id, rank_tier,
    kills, deaths, assists, rounds_played, score, acs, kd, kda, total_damage,
    damage_received, adr, total_spent, eco_rating, headshots, bodyshots, legshots,
    firstbloods, firstdeaths, multikills, deathmatch_rank, result, scoreline)
  match_rounds(match_id, round_number, winning_team, result_code, ceremony,
    planter, defuser, plant_time, defuse_time, plant_site)
  player_ranks(puuid, tier, updated_at)

Example: valmatch sql "SELECT name, SUM(kills) FROM match_players GROUP BY puuid"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	return printQuery(os.Stdout, db, strings.Join(args, " "))
}

func printQuery(w io.Writer, db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return nil
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
	return nil
}
