// Package stats builds the derived statistics model of a single match from its
// raw telemetry record.
//
// Stages run in three steps with a join barrier after each one:
//
//	1. player normalization (with rank lookups) | match header
//	2. round processing                         | team partitioning
//	3. kill graph                               | eco rating
//
// then the final join resolves the result and assembles MatchStats. Every stage
// writes to its own structure; nothing is shared until a join.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/catalog"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/errs"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

// Fetcher returns the raw payload for a match id, or an error wrapping
// errs.ErrNotFound when none exists.
type Fetcher interface {
	Fetch(ctx context.Context, matchID string) (*model.RawMatch, error)
}

// RankLookup resolves a player's current competitive tier.
type RankLookup interface {
	Tier(ctx context.Context, puuid string) (int, error)
}

const (
	minWorkers     = 2
	maxWorkers     = 5
	defaultWorkers = 3
)

// Options tune scheduling only. Results are identical for every setting.
type Options struct {
	Workers    int  // concurrent stage tasks, clamped to [2,5]
	Sequential bool // run every stage on the calling goroutine
}

// Engine is safe for concurrent use; each build works on private data.
type Engine struct {
	fetcher Fetcher
	ranks   RankLookup
	catalog *catalog.Catalog
	opts    Options
}

// New returns an engine. ranks may be nil, in which case zero tiers stay zero.
// A nil catalog falls back to catalog.Default().
func New(fetcher Fetcher, ranks RankLookup, cat *catalog.Catalog, opts Options) *Engine {
	if cat == nil {
		cat = catalog.Default()
	}
	switch {
	case opts.Workers == 0:
		opts.Workers = defaultWorkers
	case opts.Workers < minWorkers:
		opts.Workers = minWorkers
	case opts.Workers > maxWorkers:
		opts.Workers = maxWorkers
	}
	return &Engine{fetcher: fetcher, ranks: ranks, catalog: cat, opts: opts}
}

// header is the raw-detail parse output.
type header struct {
	matchID    string
	mapID      string
	queueID    string
	gameMode   string
	seasonID   string
	ranked     bool
	deathmatch bool
	start      time.Time
	duration   int
}

func parseHeader(raw *model.RawMatch, cat *catalog.Catalog) header {
	return header{
		matchID:    raw.MatchID,
		mapID:      raw.MapID,
		queueID:    raw.QueueID,
		gameMode:   raw.GameMode,
		seasonID:   raw.SeasonID,
		ranked:     raw.IsRanked,
		deathmatch: cat.IsDeathmatch(raw.QueueID, raw.GameMode),
		start:      time.UnixMilli(raw.StartMillis).UTC(),
		duration:   int(raw.LengthMillis / 1000),
	}
}

// BuildMatchStats fetches a match and derives its statistics for requesterID.
// Errors wrap errs.ErrNotFound, errs.ErrData or errs.ErrLookup; no partial
// result is ever returned.
func (e *Engine) BuildMatchStats(ctx context.Context, requesterID, matchID string) (*model.MatchStats, error) {
	raw, err := e.fetcher.Fetch(ctx, matchID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch match %s: %w", matchID, err)
	}
	if raw == nil {
		return nil, errs.NotFound(matchID)
	}

	started := time.Now()
	ms, err := e.build(ctx, requesterID, raw)
	if err != nil {
		slog.Warn("Failed to build match stats", slog.String("match_id", matchID),
			slog.String("error", err.Error()))
		return nil, err
	}
	slog.Debug("Built match stats", slog.String("match_id", matchID),
		slog.String("requester", requesterID), slog.String("result", ms.Result.String()),
		slog.Int("players", len(ms.Players)), slog.Int("rounds", len(ms.Rounds)),
		slog.Duration("elapsed", time.Since(started)))
	return ms, nil
}

func (e *Engine) build(ctx context.Context, requesterID string, raw *model.RawMatch) (*model.MatchStats, error) {
	var (
		hdr   header
		r     *roster
		rr    *roundsResult
		teams map[string]model.TeamStat
		graph map[string]*killNode
		eco   map[string]ecoLine
	)

	// Step 1: players | header.
	err := e.run(ctx,
		func(ctx context.Context) error {
			tiers, err := e.resolveTiers(ctx, raw.Players)
			if err != nil {
				return err
			}
			r, err = normalizePlayers(raw.Players, tiers)
			return err
		},
		func(context.Context) error {
			hdr = parseHeader(raw, e.catalog)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	// Step 2: rounds | teams.
	err = e.run(ctx,
		func(context.Context) error {
			var err error
			rr, err = processRounds(raw.Rounds, r)
			return err
		},
		func(context.Context) error {
			var err error
			teams, err = partitionTeams(raw.Teams, r, hdr.deathmatch)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	// Step 3: kill graph | eco.
	err = e.run(ctx,
		func(context.Context) error {
			var err error
			graph, err = buildKillGraph(raw.Kills, r)
			return err
		},
		func(context.Context) error {
			eco = computeEco(rr.rounds, r)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	// Final join.
	_, isPlayed := r.byID[requesterID]
	result, err := resolveResult(teams, hdr.deathmatch, r.team(requesterID), isPlayed)
	if err != nil {
		return nil, err
	}

	var dmRanks map[string]int
	if hdr.deathmatch {
		dmRanks = deathmatchRanks(r)
	}

	players := make(map[string]model.PlayerStat, len(r.order))
	for _, id := range r.order {
		p := r.byID[id]

		node := graph[id]
		p.KillList = node.kills
		p.KilledList = node.killed
		p.AssistList = node.assists
		p.Firstblood = node.firstblood
		p.Firstdeath = node.firstdeath

		l := eco[id]
		p.TotalDamage = l.damage
		p.TotalSpent = l.spent
		p.EcoRating = l.ecoRating
		p.ADR = l.adr
		p.Headshots, p.Bodyshots, p.Legshots = l.headshots, l.bodyshots, l.legshots
		p.HSRate, p.BSRate, p.LSRate = l.hsRate, l.bsRate, l.lsRate

		p.Multikills = rr.multikills[id]
		p.DamageReceived = rr.received[id]
		p.DeathmatchRank = dmRanks[id]

		players[id] = p
	}

	return &model.MatchStats{
		MatchID:         hdr.matchID,
		RequesterID:     requesterID,
		MapID:           hdr.mapID,
		QueueID:         hdr.queueID,
		GameMode:        hdr.gameMode,
		SeasonID:        hdr.seasonID,
		IsRanked:        hdr.ranked,
		Deathmatch:      hdr.deathmatch,
		StartTime:       hdr.start,
		DurationSeconds: hdr.duration,
		IsPlayed:        isPlayed,
		Result:          result,
		Players:         players,
		Rounds:          rr.rounds,
		Teams:           teams,
	}, nil
}

// run executes independent tasks and returns once all of them have finished,
// which makes it the join barrier between steps.
func (e *Engine) run(ctx context.Context, tasks ...func(context.Context) error) error {
	if e.opts.Sequential {
		for _, task := range tasks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := task(ctx); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for _, task := range tasks {
		g.Go(func() error { return task(gctx) })
	}
	return g.Wait()
}
