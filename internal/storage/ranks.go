package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SetPlayerTier records a player's competitive tier, replacing any cached value.
func (db *DB) SetPlayerTier(puuid string, tier int, at time.Time) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO player_ranks(puuid, tier, updated_at) VALUES (?, ?, ?)`,
		puuid, tier, at.UTC().Format(time.RFC3339))
	return err
}

// PlayerTier returns the cached tier for a player. ok is false when none is cached.
func (db *DB) PlayerTier(puuid string) (tier int, ok bool, err error) {
	err = db.conn.QueryRow("SELECT tier FROM player_ranks WHERE puuid = ?", puuid).Scan(&tier)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return tier, true, nil
}

// PlayerTiers returns the cached tiers for the given players. Players without a
// cached tier are absent from the map.
func (db *DB) PlayerTiers(puuids []string) (map[string]int, error) {
	out := make(map[string]int, len(puuids))
	if len(puuids) == 0 {
		return out, nil
	}
	args := make([]any, len(puuids))
	for i, id := range puuids {
		args[i] = id
	}
	query := fmt.Sprintf("SELECT puuid, tier FROM player_ranks WHERE puuid IN (%s)", placeholders(len(puuids)))

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   string
			tier int
		)
		if err := rows.Scan(&id, &tier); err != nil {
			return nil, err
		}
		out[id] = tier
	}
	return out, rows.Err()
}

// placeholders returns a comma-separated string of n "?" for SQL IN clauses,
// e.g. placeholders(3) → "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
