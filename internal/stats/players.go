package stats

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/errs"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

// roster is the normalized player set. order keeps the raw roster order, which
// is the tie-break for every stable sort downstream.
type roster struct {
	order []string
	byID  map[string]model.PlayerStat
}

func (r *roster) has(puuid string) bool {
	_, ok := r.byID[puuid]
	return ok
}

func (r *roster) team(puuid string) string {
	return r.byID[puuid].TeamID
}

// resolveTiers returns the competitive tier for every roster entry, asking the
// lookup only for entries whose raw tier is zero.
func (e *Engine) resolveTiers(ctx context.Context, players []model.RawPlayer) (map[string]int, error) {
	tiers := make(map[string]int, len(players))
	var missing []string
	for _, p := range players {
		tiers[p.Subject] = p.CompetitiveTier
		if p.CompetitiveTier == 0 && e.ranks != nil {
			missing = append(missing, p.Subject)
		}
	}
	if len(missing) == 0 {
		return tiers, nil
	}

	looked := make([]int, len(missing))
	lookup := func(ctx context.Context, i int) error {
		tier, err := e.ranks.Tier(ctx, missing[i])
		if err != nil {
			return errs.Lookup(missing[i], err)
		}
		looked[i] = tier
		return nil
	}

	if e.opts.Sequential {
		for i := range missing {
			if err := lookup(ctx, i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.opts.Workers)
		for i := range missing {
			g.Go(func() error { return lookup(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	for i, id := range missing {
		tiers[id] = looked[i]
	}
	return tiers, nil
}

// normalizePlayers builds one PlayerStat per roster entry. Duplicate subjects
// are a data error.
func normalizePlayers(players []model.RawPlayer, tiers map[string]int) (*roster, error) {
	r := &roster{
		order: make([]string, 0, len(players)),
		byID:  make(map[string]model.PlayerStat, len(players)),
	}
	for _, p := range players {
		if p.Subject == "" {
			return nil, errs.Data("roster entry without subject")
		}
		if r.has(p.Subject) {
			return nil, errs.Data("duplicate roster entry %s", p.Subject)
		}
		r.order = append(r.order, p.Subject)
		r.byID[p.Subject] = newPlayerStat(p, tiers[p.Subject])
	}
	return r, nil
}

func newPlayerStat(p model.RawPlayer, tier int) model.PlayerStat {
	deaths := max(p.Deaths, 1)
	return model.PlayerStat{
		PUUID:           p.Subject,
		Name:            displayName(p.GameName, p.TagLine),
		TeamID:          p.TeamID,
		PartyID:         p.PartyID,
		AgentID:         p.CharacterID,
		RankTier:        tier,
		AccountLevel:    p.AccountLevel,
		Kills:           p.Kills,
		Deaths:          p.Deaths,
		Assists:         p.Assists,
		RoundsPlayed:    p.RoundsPlayed,
		Score:           p.Score,
		PlaytimeSeconds: int(p.PlaytimeMillis / 1000),
		KD:              round1(float64(p.Kills) / float64(deaths)),
		KDA:             round1(float64(p.Kills+p.Assists) / float64(deaths)),
		ACS:             int(math.Round(float64(p.Score) / 20)),
		KillList:        map[string]int{},
		KilledList:      map[string]int{},
		AssistList:      map[string]int{},
	}
}

func displayName(name, tag string) string {
	if tag == "" {
		return name
	}
	return fmt.Sprintf("%s#%s", name, tag)
}

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
