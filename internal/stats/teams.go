package stats

import (
	"slices"
	"sort"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/errs"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

// DeathmatchTarget is the kill count that ends a deathmatch.
const DeathmatchTarget = 40

// partitionTeams groups the roster by team. Each team's players are ordered by
// score, highest first, keeping roster order on ties.
//
// A deathmatch payload may omit team entries; each missing one becomes a
// single-player team scored by that player's kills.
func partitionTeams(raw []model.RawTeam, r *roster, deathmatch bool) (map[string]model.TeamStat, error) {
	teams := make(map[string]model.TeamStat, len(raw))
	for _, t := range raw {
		if _, dup := teams[t.TeamID]; dup {
			return nil, errs.Data("team %q listed twice", t.TeamID)
		}
		teams[t.TeamID] = model.TeamStat{
			TeamID:       t.TeamID,
			Points:       t.NumPoints,
			RoundsPlayed: t.RoundsPlayed,
			RoundsWon:    t.RoundsWon,
			Players:      []string{},
		}
	}

	for _, id := range r.order {
		p := r.byID[id]
		t, ok := teams[p.TeamID]
		if !ok {
			if !deathmatch {
				return nil, errs.Data("player %s is on unknown team %q", id, p.TeamID)
			}
			t = model.TeamStat{
				TeamID:       p.TeamID,
				Points:       p.Kills,
				RoundsPlayed: p.RoundsPlayed,
				Players:      []string{},
			}
		}
		t.Players = append(t.Players, id)
		teams[p.TeamID] = t
	}

	for tid, t := range teams {
		sort.SliceStable(t.Players, func(i, j int) bool {
			return r.byID[t.Players[i]].Score > r.byID[t.Players[j]].Score
		})
		teams[tid] = t
	}
	return teams, nil
}

// resolveResult sets TeamStat.Won on every team and returns the requester's result.
//
// Standard matches compare the two teams' points; equal points draw. When the
// requester is not on the roster a decided match reads as a win for display.
//
// Deathmatch: a team that reached DeathmatchTarget won. The requester wins by
// reaching it, loses when someone else did, and draws when nobody did.
func resolveResult(teams map[string]model.TeamStat, deathmatch bool, requesterTeam string, isPlayed bool) (model.Result, error) {
	if deathmatch {
		return resolveDeathmatch(teams, requesterTeam, isPlayed), nil
	}

	if len(teams) != 2 {
		return model.ResultUnknown, errs.Data("standard match has %d teams, want 2", len(teams))
	}
	ids := make([]string, 0, 2)
	for id := range teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	a, b := teams[ids[0]], teams[ids[1]]

	if a.Points == b.Points {
		a.Won, b.Won = false, false
		teams[a.TeamID], teams[b.TeamID] = a, b
		return model.ResultDraw, nil
	}

	winner, loser := a, b
	if b.Points > a.Points {
		winner, loser = b, a
	}
	winner.Won, loser.Won = true, false
	teams[winner.TeamID], teams[loser.TeamID] = winner, loser

	switch {
	case !isPlayed:
		return model.ResultWin, nil
	case requesterTeam == winner.TeamID:
		return model.ResultWin, nil
	default:
		return model.ResultLose, nil
	}
}

func resolveDeathmatch(teams map[string]model.TeamStat, requesterTeam string, isPlayed bool) model.Result {
	anyReached := false
	for id, t := range teams {
		t.Won = t.Points >= DeathmatchTarget
		anyReached = anyReached || t.Won
		teams[id] = t
	}

	if !isPlayed {
		if anyReached {
			return model.ResultWin
		}
		return model.ResultDraw
	}

	switch {
	case teams[requesterTeam].Won:
		return model.ResultWin
	case anyReached:
		return model.ResultLose
	default:
		return model.ResultDraw
	}
}

// deathmatchRanks ranks every player by kills. Players tied with the one before
// them share that rank and the next distinct count skips ahead (1,2,2,4).
func deathmatchRanks(r *roster) map[string]int {
	ids := slices.Clone(r.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return r.byID[ids[i]].Kills > r.byID[ids[j]].Kills
	})

	ranks := make(map[string]int, len(ids))
	for i, id := range ids {
		if i > 0 && r.byID[id].Kills == r.byID[ids[i-1]].Kills {
			ranks[id] = ranks[ids[i-1]]
			continue
		}
		ranks[id] = i + 1
	}
	return ranks
}
