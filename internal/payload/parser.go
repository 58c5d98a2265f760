// Package payload turns provider match-details JSON into typed raw records.
// Nothing downstream of this package sees the provider's JSON layout.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/errs"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

type matchDetails struct {
	MatchInfo struct {
		MatchID          string `json:"matchId"`
		MapID            string `json:"mapId"`
		GameLengthMillis int64  `json:"gameLengthMillis"`
		GameStartMillis  int64  `json:"gameStartMillis"`
		IsCompleted      bool   `json:"isCompleted"`
		QueueID          string `json:"queueID"`
		GameMode         string `json:"gameMode"`
		IsRanked         bool   `json:"isRanked"`
		SeasonID         string `json:"seasonId"`
	} `json:"matchInfo"`
	Players      []playerJSON `json:"players"`
	Teams        []teamJSON   `json:"teams"`
	RoundResults []roundJSON  `json:"roundResults"`
	Kills        []killJSON   `json:"kills"`
}

type playerJSON struct {
	Subject     string `json:"subject"`
	GameName    string `json:"gameName"`
	TagLine     string `json:"tagLine"`
	TeamID      string `json:"teamId"`
	PartyID     string `json:"partyId"`
	CharacterID string `json:"characterId"`
	Stats       *struct {
		Score          int   `json:"score"`
		RoundsPlayed   int   `json:"roundsPlayed"`
		Kills          int   `json:"kills"`
		Deaths         int   `json:"deaths"`
		Assists        int   `json:"assists"`
		PlaytimeMillis int64 `json:"playtimeMillis"`
	} `json:"stats"`
	CompetitiveTier int `json:"competitiveTier"`
	AccountLevel    int `json:"accountLevel"`
}

type teamJSON struct {
	TeamID       string `json:"teamId"`
	Won          bool   `json:"won"`
	RoundsPlayed int    `json:"roundsPlayed"`
	RoundsWon    int    `json:"roundsWon"`
	NumPoints    int    `json:"numPoints"`
}

type roundJSON struct {
	RoundNum        int    `json:"roundNum"`
	RoundResult     string `json:"roundResult"`
	RoundCeremony   string `json:"roundCeremony"`
	WinningTeam     string `json:"winningTeam"`
	BombPlanter     string `json:"bombPlanter"`
	BombDefuser     string `json:"bombDefuser"`
	PlantRoundTime  int    `json:"plantRoundTime"`
	DefuseRoundTime int    `json:"defuseRoundTime"`
	PlantSite       string `json:"plantSite"`
	RoundResultCode string `json:"roundResultCode"`
	PlayerStats     []struct {
		Subject string            `json:"subject"`
		Kills   []json.RawMessage `json:"kills"`
		Damage  []struct {
			Receiver  string `json:"receiver"`
			Damage    int    `json:"damage"`
			Legshots  int    `json:"legshots"`
			Bodyshots int    `json:"bodyshots"`
			Headshots int    `json:"headshots"`
		} `json:"damage"`
		Score   int `json:"score"`
		Economy struct {
			LoadoutValue int    `json:"loadoutValue"`
			Weapon       string `json:"weapon"`
			Armor        string `json:"armor"`
			Remaining    int    `json:"remaining"`
			Spent        int    `json:"spent"`
		} `json:"economy"`
	} `json:"playerStats"`
}

type killJSON struct {
	GameTime   int64    `json:"gameTime"`
	RoundTime  int64    `json:"roundTime"`
	Round      int      `json:"round"`
	Killer     string   `json:"killer"`
	Victim     string   `json:"victim"`
	Assistants []string `json:"assistants"`
}

// Parse decodes one match-details document. Provider round numbers are 0-based
// and are shifted to 1-based here.
func Parse(r io.Reader) (*model.RawMatch, error) {
	var doc matchDetails
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Data("decode match payload: %v", err)
	}

	info := doc.MatchInfo
	if _, err := uuid.Parse(info.MatchID); err != nil {
		return nil, errs.Data("invalid match id %q", info.MatchID)
	}

	raw := &model.RawMatch{
		MatchID:      info.MatchID,
		MapID:        info.MapID,
		QueueID:      info.QueueID,
		GameMode:     info.GameMode,
		SeasonID:     info.SeasonID,
		IsRanked:     info.IsRanked,
		IsCompleted:  info.IsCompleted,
		StartMillis:  info.GameStartMillis,
		LengthMillis: info.GameLengthMillis,
	}

	for _, p := range doc.Players {
		if _, err := uuid.Parse(p.Subject); err != nil {
			return nil, errs.Data("invalid player subject %q", p.Subject)
		}
		rp := model.RawPlayer{
			Subject:         p.Subject,
			GameName:        p.GameName,
			TagLine:         p.TagLine,
			TeamID:          p.TeamID,
			PartyID:         p.PartyID,
			CharacterID:     p.CharacterID,
			CompetitiveTier: p.CompetitiveTier,
			AccountLevel:    p.AccountLevel,
		}
		if p.Stats != nil {
			rp.Score = p.Stats.Score
			rp.RoundsPlayed = p.Stats.RoundsPlayed
			rp.Kills = p.Stats.Kills
			rp.Deaths = p.Stats.Deaths
			rp.Assists = p.Stats.Assists
			rp.PlaytimeMillis = p.Stats.PlaytimeMillis
		}
		raw.Players = append(raw.Players, rp)
	}

	for _, t := range doc.Teams {
		raw.Teams = append(raw.Teams, model.RawTeam{
			TeamID:       t.TeamID,
			Won:          t.Won,
			RoundsPlayed: t.RoundsPlayed,
			RoundsWon:    t.RoundsWon,
			NumPoints:    t.NumPoints,
		})
	}

	for _, rr := range doc.RoundResults {
		round := model.RawRound{
			Number:                rr.RoundNum + 1,
			Result:                rr.RoundResult,
			ResultCode:            rr.RoundResultCode,
			Ceremony:              rr.RoundCeremony,
			WinningTeam:           rr.WinningTeam,
			BombPlanter:           rr.BombPlanter,
			BombDefuser:           rr.BombDefuser,
			PlantRoundTimeMillis:  rr.PlantRoundTime,
			DefuseRoundTimeMillis: rr.DefuseRoundTime,
			PlantSite:             rr.PlantSite,
		}
		for _, ps := range rr.PlayerStats {
			prs := model.RawPlayerRound{
				Subject: ps.Subject,
				Kills:   len(ps.Kills),
				Score:   ps.Score,
				Economy: model.RawEconomy{
					LoadoutValue: ps.Economy.LoadoutValue,
					Remaining:    ps.Economy.Remaining,
					Spent:        ps.Economy.Spent,
					Weapon:       ps.Economy.Weapon,
					Armor:        ps.Economy.Armor,
				},
			}
			for _, d := range ps.Damage {
				prs.Damage = append(prs.Damage, model.RawDamage{
					Receiver:  d.Receiver,
					Damage:    d.Damage,
					Headshots: d.Headshots,
					Bodyshots: d.Bodyshots,
					Legshots:  d.Legshots,
				})
			}
			round.PlayerStats = append(round.PlayerStats, prs)
		}
		raw.Rounds = append(raw.Rounds, round)
	}

	for _, k := range doc.Kills {
		raw.Kills = append(raw.Kills, model.RawKill{
			Round:           k.Round + 1,
			GameTimeMillis:  k.GameTime,
			RoundTimeMillis: k.RoundTime,
			Killer:          k.Killer,
			Victim:          k.Victim,
			Assistants:      k.Assistants,
		})
	}

	return raw, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(b []byte) (*model.RawMatch, error) {
	raw, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return raw, nil
}
