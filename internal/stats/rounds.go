package stats

import (
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/catalog"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/errs"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

// multikillThreshold is the per-round kill count that counts as a multikill.
const multikillThreshold = 3

// roundsResult is the round processor's private output, merged at the final join.
type roundsResult struct {
	rounds     []model.RoundStat
	multikills map[string]int
	received   map[string]int // damage taken per player across all rounds
}

// processRounds builds one RoundStat per raw round: ceremony id, economy at player
// and team granularity, and per-player deltas.
func processRounds(raw []model.RawRound, r *roster) (*roundsResult, error) {
	out := &roundsResult{
		rounds:     make([]model.RoundStat, 0, len(raw)),
		multikills: make(map[string]int),
		received:   make(map[string]int),
	}

	for _, rr := range raw {
		ceremony, err := catalog.CeremonyID(rr.Ceremony)
		if err != nil {
			return nil, err
		}

		rs := model.RoundStat{
			Number:        rr.Number,
			WinningTeamID: rr.WinningTeam,
			Result:        rr.Result,
			ResultCode:    rr.ResultCode,
			Ceremony:      ceremony,
			PlantSite:     rr.PlantSite,
			Economy:       make(map[string]model.EconomySnapshot),
			Players:       make(map[string]model.RoundPlayerDelta, len(rr.PlayerStats)),
		}

		if rr.BombPlanter != "" {
			if !r.has(rr.BombPlanter) {
				return nil, errs.Data("round %d: planter %s not on roster", rr.Number, rr.BombPlanter)
			}
			rs.Planter = rr.BombPlanter
			rs.PlantTimeSeconds = seconds(rr.PlantRoundTimeMillis)
		}
		if rr.BombDefuser != "" {
			if !r.has(rr.BombDefuser) {
				return nil, errs.Data("round %d: defuser %s not on roster", rr.Number, rr.BombDefuser)
			}
			rs.Defuser = rr.BombDefuser
			rs.DefuseTimeSeconds = seconds(rr.DefuseRoundTimeMillis)
		}

		for _, ps := range rr.PlayerStats {
			if !r.has(ps.Subject) {
				return nil, errs.Data("round %d: player %s not on roster", rr.Number, ps.Subject)
			}
			if _, dup := rs.Players[ps.Subject]; dup {
				return nil, errs.Data("round %d: player %s listed twice", rr.Number, ps.Subject)
			}

			snap := model.EconomySnapshot{
				LoadoutValue: ps.Economy.LoadoutValue,
				Remaining:    ps.Economy.Remaining,
				Spent:        ps.Economy.Spent,
			}
			rs.Economy[ps.Subject] = snap
			// Deathmatch teams are keyed by the player's own puuid.
			if team := r.team(ps.Subject); team != ps.Subject {
				rs.Economy[team] = rs.Economy[team].Add(snap)
			}

			delta := model.RoundPlayerDelta{Kills: ps.Kills, Score: ps.Score}
			for _, d := range ps.Damage {
				delta.Damage += d.Damage
				delta.Headshots += d.Headshots
				delta.Bodyshots += d.Bodyshots
				delta.Legshots += d.Legshots
				if d.Receiver != "" {
					if !r.has(d.Receiver) {
						return nil, errs.Data("round %d: damage receiver %s not on roster", rr.Number, d.Receiver)
					}
					out.received[d.Receiver] += d.Damage
				}
			}
			rs.Players[ps.Subject] = delta

			if delta.Kills >= multikillThreshold {
				out.multikills[ps.Subject]++
			}
		}

		out.rounds = append(out.rounds, rs)
	}
	return out, nil
}

func seconds(millis int) *float64 {
	s := float64(millis) / 1000
	return &s
}
