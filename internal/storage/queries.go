package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

// MatchExists returns true if a match with the given id is already stored.
func (db *DB) MatchExists(matchID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ?", matchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveMatch stores a built match with its players and rounds in one transaction.
// Saving the same match again replaces the previous rows. Known player tiers
// refresh the tier cache when the match is newer than the cached value.
func (db *DB) SaveMatch(ms *model.MatchStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM match_rounds WHERE match_id = ?",
		"DELETE FROM match_players WHERE match_id = ?",
		"DELETE FROM matches WHERE match_id = ?",
	} {
		if _, err := tx.Exec(q, ms.MatchID); err != nil {
			return fmt.Errorf("clear match %s: %w", ms.MatchID, err)
		}
	}

	started := ms.StartTime.UTC().Format(time.RFC3339)
	_, err = tx.Exec(`
		INSERT INTO matches(match_id, requester_id, map_id, queue_id, game_mode, season_id,
			is_ranked, deathmatch, start_time, duration_seconds, is_played, result, score)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ms.MatchID, ms.RequesterID, ms.MapID, ms.QueueID, ms.GameMode, ms.SeasonID,
		boolInt(ms.IsRanked), boolInt(ms.Deathmatch), started, ms.DurationSeconds,
		boolInt(ms.IsPlayed), ms.Result.String(), Scoreline(ms, ms.RequesterID),
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", ms.MatchID, err)
	}

	pstmt, err := tx.Prepare(`
		INSERT INTO match_players(
			match_id, puuid, name, team_id, party_id, agent_id, rank_tier, account_level,
			kills, deaths, assists, rounds_played, score, acs, kd, kda,
			total_damage, damage_received, adr, total_spent, eco_rating,
			headshots, bodyshots, legshots,
			firstbloods, firstdeaths, multikills, deathmatch_rank, result, scoreline
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer pstmt.Close()

	rstmt, err := tx.Prepare(`
		INSERT INTO player_ranks(puuid, tier, updated_at) VALUES (?,?,?)
		ON CONFLICT(puuid) DO UPDATE SET tier = excluded.tier, updated_at = excluded.updated_at
		WHERE excluded.updated_at >= player_ranks.updated_at`)
	if err != nil {
		return err
	}
	defer rstmt.Close()

	for _, p := range ms.Players {
		_, err = pstmt.Exec(
			ms.MatchID, p.PUUID, p.Name, p.TeamID, p.PartyID, p.AgentID, p.RankTier, p.AccountLevel,
			p.Kills, p.Deaths, p.Assists, p.RoundsPlayed, p.Score, p.ACS, p.KD, p.KDA,
			p.TotalDamage, p.DamageReceived, p.ADR, p.TotalSpent, p.EcoRating,
			p.Headshots, p.Bodyshots, p.Legshots,
			p.Firstblood, p.Firstdeath, p.Multikills, p.DeathmatchRank,
			PlayerResult(ms, p.PUUID).String(), Scoreline(ms, p.PUUID),
		)
		if err != nil {
			return fmt.Errorf("insert match_players for %s: %w", p.PUUID, err)
		}
		if p.RankTier > 0 {
			if _, err := rstmt.Exec(p.PUUID, p.RankTier, started); err != nil {
				return fmt.Errorf("cache tier for %s: %w", p.PUUID, err)
			}
		}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO match_rounds(
			match_id, round_number, winning_team, result_code, ceremony,
			planter, defuser, plant_time, defuse_time, plant_site
		) VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range ms.Rounds {
		_, err = stmt.Exec(
			ms.MatchID, r.Number, r.WinningTeamID, r.ResultCode, r.Ceremony,
			r.Planter, r.Defuser, nullFloat(r.PlantTimeSeconds), nullFloat(r.DefuseTimeSeconds), r.PlantSite,
		)
		if err != nil {
			return fmt.Errorf("insert match_rounds %d: %w", r.Number, err)
		}
	}
	return tx.Commit()
}

// PlayerResult is the match result seen from puuid's side. A player on a team
// that won has a Win; otherwise a match some team won is a Lose and one nobody
// won is a Draw.
func PlayerResult(ms *model.MatchStats, puuid string) model.Result {
	p, ok := ms.Players[puuid]
	if !ok {
		return ms.Result
	}
	if ms.Teams[p.TeamID].Won {
		return model.ResultWin
	}
	for _, t := range ms.Teams {
		if t.Won {
			return model.ResultLose
		}
	}
	return model.ResultDraw
}

// Scoreline renders the score from puuid's side: "13-9" with the player's team
// first, or the player's kill count in deathmatch.
func Scoreline(ms *model.MatchStats, puuid string) string {
	if ms.Deathmatch {
		if p, ok := ms.Players[puuid]; ok {
			return strconv.Itoa(p.Kills)
		}
		return ""
	}
	ids := ms.TeamIDs()
	if len(ids) != 2 {
		return ""
	}
	if p, ok := ms.Players[puuid]; ok && ids[1] == p.TeamID {
		ids[0], ids[1] = ids[1], ids[0]
	}
	return fmt.Sprintf("%d-%d", ms.Teams[ids[0]].Points, ms.Teams[ids[1]].Points)
}

const summaryColumns = `m.match_id, m.map_id, m.queue_id, m.season_id, m.start_time,
	m.duration_seconds, m.requester_id, m.deathmatch`

// ListMatches returns stored match summaries ordered by start time desc.
// With an empty puuid every match is listed with the saving player's result and
// score; otherwise only matches puuid played, seen from their side.
func (db *DB) ListMatches(puuid string) ([]model.MatchSummary, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if puuid == "" {
		rows, err = db.conn.Query(`
			SELECT ` + summaryColumns + `, m.result, m.score
			FROM matches m ORDER BY m.start_time DESC`)
	} else {
		rows, err = db.conn.Query(`
			SELECT `+summaryColumns+`, p.result, p.scoreline
			FROM matches m
			JOIN match_players p ON p.match_id = m.match_id
			WHERE p.puuid = ?
			ORDER BY m.start_time DESC`, puuid)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, score, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		s.Score = score
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (model.MatchSummary, string, error) {
	var (
		s          model.MatchSummary
		started    string
		deathmatch int
		result     string
		score      string
	)
	if err := row.Scan(&s.MatchID, &s.MapID, &s.QueueID, &s.SeasonID, &started,
		&s.DurationSeconds, &s.RequesterID, &deathmatch, &result, &score); err != nil {
		return s, "", err
	}
	t, err := time.Parse(time.RFC3339, started)
	if err != nil {
		return s, "", fmt.Errorf("match %s start time: %w", s.MatchID, err)
	}
	s.StartTime = t
	s.Deathmatch = deathmatch != 0
	s.Result = model.ParseResult(result)
	return s, score, nil
}

// GetMatchByPrefix finds the first match whose id starts with the given prefix.
// Returns nil when none matches.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	row := db.conn.QueryRow(`
		SELECT `+summaryColumns+`, m.result, m.score
		FROM matches m WHERE m.match_id LIKE ? ORDER BY m.start_time DESC LIMIT 1`, prefix+"%")
	s, score, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Score = score
	return &s, nil
}

// GetMatchPlayers returns the stored player lines of a match, grouped by team
// and ordered by score within each team. Kill adjacency is not stored.
func (db *DB) GetMatchPlayers(matchID string) ([]model.PlayerStat, error) {
	rows, err := db.conn.Query(`
		SELECT puuid, name, team_id, party_id, agent_id, rank_tier, account_level,
		       kills, deaths, assists, rounds_played, score, acs, kd, kda,
		       total_damage, damage_received, adr, total_spent, eco_rating,
		       headshots, bodyshots, legshots,
		       firstbloods, firstdeaths, multikills, deathmatch_rank
		FROM match_players WHERE match_id = ?
		ORDER BY team_id, score DESC, puuid`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerStat
	for rows.Next() {
		var p model.PlayerStat
		if err := rows.Scan(
			&p.PUUID, &p.Name, &p.TeamID, &p.PartyID, &p.AgentID, &p.RankTier, &p.AccountLevel,
			&p.Kills, &p.Deaths, &p.Assists, &p.RoundsPlayed, &p.Score, &p.ACS, &p.KD, &p.KDA,
			&p.TotalDamage, &p.DamageReceived, &p.ADR, &p.TotalSpent, &p.EcoRating,
			&p.Headshots, &p.Bodyshots, &p.Legshots,
			&p.Firstblood, &p.Firstdeath, &p.Multikills, &p.DeathmatchRank,
		); err != nil {
			return nil, err
		}
		p.HSRate, p.BSRate, p.LSRate = shotRates(p.Headshots, p.Bodyshots, p.Legshots)
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetMatchRounds returns the stored rounds of a match in order. Economy and
// per-player deltas are not stored.
func (db *DB) GetMatchRounds(matchID string) ([]model.RoundStat, error) {
	rows, err := db.conn.Query(`
		SELECT round_number, winning_team, result_code, ceremony,
		       planter, defuser, plant_time, defuse_time, plant_site
		FROM match_rounds WHERE match_id = ? ORDER BY round_number`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RoundStat
	for rows.Next() {
		var (
			r             model.RoundStat
			plant, defuse sql.NullFloat64
		)
		if err := rows.Scan(&r.Number, &r.WinningTeamID, &r.ResultCode, &r.Ceremony,
			&r.Planter, &r.Defuser, &plant, &defuse, &r.PlantSite); err != nil {
			return nil, err
		}
		if plant.Valid {
			r.PlantTimeSeconds = &plant.Float64
		}
		if defuse.Valid {
			r.DefuseTimeSeconds = &defuse.Float64
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func shotRates(hs, bs, ls int) (float64, float64, float64) {
	total := hs + bs + ls
	if total == 0 {
		return 0, 0, 0
	}
	pct := func(n int) float64 {
		return math.Round(float64(n)/float64(total)*100*10) / 10
	}
	return pct(hs), pct(bs), pct(ls)
}
