package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/catalog"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

var (
	cWin  = color.New(color.FgGreen, color.Bold)
	cLose = color.New(color.FgRed, color.Bold)
	cDraw = color.New(color.FgYellow)
	cHead = color.New(color.FgCyan, color.Bold)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// ResultLabel renders a result in upper case, coloured by outcome.
func ResultLabel(r model.Result) string {
	switch r {
	case model.ResultWin:
		return cWin.Sprint("WIN")
	case model.ResultLose:
		return cLose.Sprint("LOSE")
	case model.ResultDraw:
		return cDraw.Sprint("DRAW")
	default:
		return "?"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatLength(seconds int) string {
	d := time.Duration(seconds) * time.Second
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), seconds%60)
}

func queueName(cat *catalog.Catalog, queueID string) string {
	if g, ok := cat.GameMode(queueID); ok {
		return g.Name
	}
	if queueID == "" {
		return "Custom"
	}
	return queueID
}

// PrintMatchHeader prints a one-line summary header for the match.
func PrintMatchHeader(w io.Writer, ms *model.MatchStats, cat *catalog.Catalog, score string) {
	fmt.Fprintf(w, "\nMap: %s  |  Mode: %s  |  Started: %s (%s)  |  Length: %s  |  Result: %s %s  |  Match: %s\n\n",
		cat.MapName(ms.MapID), queueName(cat, ms.QueueID),
		humanize.Time(ms.StartTime), ms.StartTime.Format("2006-01-02 15:04"),
		formatLength(ms.DurationSeconds), ResultLabel(ms.Result), score, shortID(ms.MatchID))
	if !ms.IsPlayed {
		fmt.Fprintln(w, "(requesting player is not on the roster)")
		fmt.Fprintln(w)
	}
}

// PrintScoreboard prints one table per team in TeamStat.Players order, the
// requester's team first. Deathmatch prints a single table ordered by placing.
func PrintScoreboard(w io.Writer, ms *model.MatchStats, cat *catalog.Catalog) {
	if ms.Deathmatch {
		ids := make([]string, 0, len(ms.Players))
		for id := range ms.Players {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := ms.Players[ids[i]], ms.Players[ids[j]]
			if a.DeathmatchRank != b.DeathmatchRank {
				return a.DeathmatchRank < b.DeathmatchRank
			}
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return a.PUUID < b.PUUID
		})
		lines := make([]model.PlayerStat, len(ids))
		for i, id := range ids {
			lines[i] = ms.Players[id]
		}
		PrintPlayerTable(w, lines, cat, ms.RequesterID, true)
		return
	}

	for _, tid := range ms.TeamIDs() {
		t := ms.Teams[tid]
		status := "LOST"
		switch {
		case t.Won:
			status = "WON"
		case ms.Result == model.ResultDraw:
			status = "DRAW"
		}
		cHead.Fprintf(w, "Team %s  %d  (%s)\n", tid, t.Points, status)

		lines := make([]model.PlayerStat, 0, len(t.Players))
		for _, id := range t.Players {
			lines = append(lines, ms.Players[id])
		}
		PrintPlayerTable(w, lines, cat, ms.RequesterID, false)
		fmt.Fprintln(w)
	}
}

// PrintPlayerTable prints player lines in the given order. The focus player's
// row is marked with ">".
func PrintPlayerTable(w io.Writer, players []model.PlayerStat, cat *catalog.Catalog, focus string, deathmatch bool) {
	table := newTable(w)

	header := []any{" ", "NAME", "AGENT", "RANK", "ACS", "K", "D", "A", "K/D", "KDA",
		"ADR", "HS%", "ECO", "FB", "FD", "MK"}
	if deathmatch {
		header = append([]any{"#"}, header...)
	}
	table.Header(header...)

	for _, p := range players {
		marker := " "
		if focus != "" && p.PUUID == focus {
			marker = ">"
		}
		row := []any{
			marker,
			p.Name,
			cat.AgentName(p.AgentID),
			cat.TierName(p.RankTier),
			strconv.Itoa(p.ACS),
			strconv.Itoa(p.Kills),
			strconv.Itoa(p.Deaths),
			strconv.Itoa(p.Assists),
			fmt.Sprintf("%.1f", p.KD),
			fmt.Sprintf("%.1f", p.KDA),
			fmt.Sprintf("%.1f", p.ADR),
			fmt.Sprintf("%.1f%%", p.HSRate),
			humanize.Comma(int64(p.EcoRating)),
			strconv.Itoa(p.Firstblood),
			strconv.Itoa(p.Firstdeath),
			strconv.Itoa(p.Multikills),
		}
		if deathmatch {
			row = append([]any{strconv.Itoa(p.DeathmatchRank)}, row...)
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintRounds prints the per-round table. Team economy columns follow the
// scoreboard team order and are left out when no round carries economy.
func PrintRounds(w io.Writer, ms *model.MatchStats, cat *catalog.Catalog) {
	table := newTable(w)

	var teams []string
	if !ms.Deathmatch && hasEconomy(ms.Rounds) {
		teams = ms.TeamIDs()
	}
	header := []any{"ROUND", "WINNER", "RESULT", "CEREMONY", "PLANT", "DEFUSE"}
	for _, tid := range teams {
		header = append(header, tid+" LOADOUT", tid+" SPENT")
	}
	table.Header(header...)

	for _, r := range ms.Rounds {
		ceremony := "-"
		if r.Ceremony != "" {
			ceremony = r.Ceremony
			if c, ok := cat.Ceremony(r.Ceremony); ok {
				ceremony = c.Name
			}
		}
		row := []any{
			strconv.Itoa(r.Number),
			r.WinningTeamID,
			r.ResultCode,
			ceremony,
			bombEvent(ms, r.Planter, r.PlantTimeSeconds, r.PlantSite),
			bombEvent(ms, r.Defuser, r.DefuseTimeSeconds, ""),
		}
		for _, tid := range teams {
			e, ok := r.Economy[tid]
			if !ok {
				row = append(row, "-", "-")
				continue
			}
			row = append(row, humanize.Comma(int64(e.LoadoutValue)), humanize.Comma(int64(e.Spent)))
		}
		table.Append(row...)
	}
	table.Render()
}

func hasEconomy(rounds []model.RoundStat) bool {
	for _, r := range rounds {
		if len(r.Economy) > 0 {
			return true
		}
	}
	return false
}

func bombEvent(ms *model.MatchStats, who string, at *float64, site string) string {
	if who == "" {
		return "-"
	}
	name := who
	if p, ok := ms.Players[who]; ok {
		name = p.Name
	}
	s := name
	if at != nil {
		s = fmt.Sprintf("%s @%.1fs", name, *at)
	}
	if site != "" {
		s += " (" + site + ")"
	}
	return s
}

// PrintKillMatrix prints puuid's duel record against every other player:
// kills on them, deaths to them, assists on kills of them.
func PrintKillMatrix(w io.Writer, ms *model.MatchStats, cat *catalog.Catalog, puuid string) {
	me, ok := ms.Players[puuid]
	if !ok {
		fmt.Fprintln(w, "(player not in match)")
		return
	}

	others := make([]string, 0, len(ms.Players)-1)
	for id := range ms.Players {
		if id != puuid {
			others = append(others, id)
		}
	}
	sort.Slice(others, func(i, j int) bool {
		a, b := ms.Players[others[i]], ms.Players[others[j]]
		if (a.TeamID == me.TeamID) != (b.TeamID == me.TeamID) {
			return a.TeamID != me.TeamID
		}
		ka, kb := me.KillList[a.PUUID], me.KillList[b.PUUID]
		if ka != kb {
			return ka > kb
		}
		return a.Name < b.Name
	})

	table := newTable(w)
	table.Header("PLAYER", "AGENT", "TEAM", "KILLS ON", "DEATHS TO", "ASSISTS ON")
	for _, id := range others {
		p := ms.Players[id]
		table.Append(
			p.Name,
			cat.AgentName(p.AgentID),
			p.TeamID,
			strconv.Itoa(me.KillList[id]),
			strconv.Itoa(me.KilledList[id]),
			strconv.Itoa(me.AssistList[id]),
		)
	}
	table.Render()
}

// PrintMatchList prints stored match summaries.
func PrintMatchList(w io.Writer, matches []model.MatchSummary, cat *catalog.Catalog) {
	table := newTable(w)
	table.Header("MATCH", "STARTED", "MAP", "MODE", "RESULT", "SCORE", "LENGTH")
	for _, s := range matches {
		table.Append(
			shortID(s.MatchID),
			humanize.Time(s.StartTime),
			cat.MapName(s.MapID),
			queueName(cat, s.QueueID),
			ResultLabel(s.Result),
			s.Score,
			formatLength(s.DurationSeconds),
		)
	}
	table.Render()
}

// PrintStoredRounds prints rounds read back from storage, which carry no economy.
func PrintStoredRounds(w io.Writer, rounds []model.RoundStat, players []model.PlayerStat, cat *catalog.Catalog) {
	ms := &model.MatchStats{Rounds: rounds, Players: make(map[string]model.PlayerStat, len(players))}
	for _, p := range players {
		ms.Players[p.PUUID] = p
	}
	PrintRounds(w, ms, cat)
}

// PrintSeason prints a player's aggregate line and per-map record.
func PrintSeason(w io.Writer, s *model.PlayerSeason, maps []model.MapRecord, cat *catalog.Catalog) {
	season := s.SeasonID
	if season == "" {
		season = "all seasons"
	}
	cHead.Fprintf(w, "%s  (%s)\n", s.Name, season)

	table := newTable(w)
	table.Header("MATCHES", "W", "L", "D", "WIN%", "K", "D", "A", "K/D", "ACS", "ADR", "HS%", "FB", "FD", "MK")
	table.Append(
		strconv.Itoa(s.Matches),
		strconv.Itoa(s.Wins),
		strconv.Itoa(s.Losses),
		strconv.Itoa(s.Draws),
		fmt.Sprintf("%.0f%%", s.WinRate()),
		strconv.Itoa(s.Kills),
		strconv.Itoa(s.Deaths),
		strconv.Itoa(s.Assists),
		fmt.Sprintf("%.2f", s.KDRatio()),
		fmt.Sprintf("%.0f", s.ACS()),
		fmt.Sprintf("%.1f", s.ADR()),
		fmt.Sprintf("%.1f%%", s.HSPercent()),
		strconv.Itoa(s.Firstbloods),
		strconv.Itoa(s.Firstdeaths),
		strconv.Itoa(s.Multikills),
	)
	table.Render()

	if len(maps) == 0 {
		return
	}
	fmt.Fprintln(w)
	mt := newTable(w)
	mt.Header("MAP", "MATCHES", "W", "L", "D", "WIN%")
	for _, m := range maps {
		pct := 0.0
		if m.Matches > 0 {
			pct = float64(m.Wins) / float64(m.Matches) * 100
		}
		mt.Append(
			cat.MapName(m.MapID),
			strconv.Itoa(m.Matches),
			strconv.Itoa(m.Wins),
			strconv.Itoa(m.Losses),
			strconv.Itoa(m.Draws),
			fmt.Sprintf("%.0f%%", pct),
		)
	}
	mt.Render()
}
