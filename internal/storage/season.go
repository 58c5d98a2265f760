package storage

import (
	"fmt"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

// seasonFilter narrows a query to one season; an empty seasonID means all seasons.
func seasonFilter(seasonID string) (string, []any) {
	if seasonID == "" {
		return "", nil
	}
	return " AND m.season_id = ?", []any{seasonID}
}

// PlayerSeason sums one player's stored matches, optionally within a season.
// A player with no stored matches yields a zero record with Matches == 0.
func (db *DB) PlayerSeason(puuid, seasonID string) (*model.PlayerSeason, error) {
	filter, extra := seasonFilter(seasonID)
	args := append([]any{puuid}, extra...)

	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(p.name), ''),
		       COUNT(1),
		       COALESCE(SUM(p.result = 'Win'), 0),
		       COALESCE(SUM(p.result = 'Lose'), 0),
		       COALESCE(SUM(p.result = 'Draw'), 0),
		       COALESCE(SUM(p.kills), 0), COALESCE(SUM(p.deaths), 0), COALESCE(SUM(p.assists), 0),
		       COALESCE(SUM(p.score), 0), COALESCE(SUM(p.rounds_played), 0),
		       COALESCE(SUM(p.total_damage), 0),
		       COALESCE(SUM(p.headshots), 0), COALESCE(SUM(p.bodyshots), 0), COALESCE(SUM(p.legshots), 0),
		       COALESCE(SUM(p.firstbloods), 0), COALESCE(SUM(p.firstdeaths), 0),
		       COALESCE(SUM(p.multikills), 0)
		FROM match_players p
		JOIN matches m ON m.match_id = p.match_id
		WHERE p.puuid = ?%s`, filter)

	s := model.PlayerSeason{PUUID: puuid, SeasonID: seasonID}
	err := db.conn.QueryRow(query, args...).Scan(
		&s.Name, &s.Matches, &s.Wins, &s.Losses, &s.Draws,
		&s.Kills, &s.Deaths, &s.Assists, &s.Score, &s.RoundsPlayed,
		&s.TotalDamage, &s.Headshots, &s.Bodyshots, &s.Legshots,
		&s.Firstbloods, &s.Firstdeaths, &s.Multikills,
	)
	if err != nil {
		return nil, fmt.Errorf("season totals for %s: %w", puuid, err)
	}
	return &s, nil
}

// MapRecords returns one player's win/loss/draw tally per map, most played first.
func (db *DB) MapRecords(puuid, seasonID string) ([]model.MapRecord, error) {
	filter, extra := seasonFilter(seasonID)
	args := append([]any{puuid}, extra...)

	query := fmt.Sprintf(`
		SELECT m.map_id, COUNT(1),
		       SUM(p.result = 'Win'), SUM(p.result = 'Lose'), SUM(p.result = 'Draw')
		FROM match_players p
		JOIN matches m ON m.match_id = p.match_id
		WHERE p.puuid = ?%s
		GROUP BY m.map_id
		ORDER BY COUNT(1) DESC, m.map_id ASC`, filter)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MapRecord
	for rows.Next() {
		var r model.MapRecord
		if err := rows.Scan(&r.MapID, &r.Matches, &r.Wins, &r.Losses, &r.Draws); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SeasonIDs lists the distinct seasons a player has stored matches in.
func (db *DB) SeasonIDs(puuid string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT m.season_id
		FROM match_players p
		JOIN matches m ON m.match_id = p.match_id
		WHERE p.puuid = ? AND m.season_id != ''
		ORDER BY m.season_id`, puuid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
