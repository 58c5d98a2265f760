package stats

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/errs"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

const (
	testMatchID = "0b4c7f5e-9c1d-4a39-8f7e-2d6a1c3b5e90"
	startMillis = int64(1717171717000)
)

// memFetcher serves raw matches from memory.
type memFetcher map[string]*model.RawMatch

func (m memFetcher) Fetch(_ context.Context, matchID string) (*model.RawMatch, error) {
	raw, ok := m[matchID]
	if !ok {
		return nil, errs.NotFound(matchID)
	}
	return raw, nil
}

type fetchFunc func(ctx context.Context, matchID string) (*model.RawMatch, error)

func (f fetchFunc) Fetch(ctx context.Context, matchID string) (*model.RawMatch, error) {
	return f(ctx, matchID)
}

// stubRanks records which players were looked up.
type stubRanks struct {
	mu    sync.Mutex
	tiers map[string]int
	err   error
	asked []string
}

func (s *stubRanks) Tier(_ context.Context, puuid string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, puuid)
	if s.err != nil {
		return 0, s.err
	}
	return s.tiers[puuid], nil
}

func makePlayer(id, team string, kills, deaths, assists, score int) model.RawPlayer {
	return model.RawPlayer{
		Subject:         id,
		GameName:        id,
		TagLine:         "tst",
		TeamID:          team,
		PartyID:         "party-" + team,
		CharacterID:     "add6443a-41bd-e414-f6ad-e58d267f4e95",
		CompetitiveTier: 12,
		AccountLevel:    100,
		Score:           score,
		RoundsPlayed:    2,
		Kills:           kills,
		Deaths:          deaths,
		Assists:         assists,
		PlaytimeMillis:  1800000,
	}
}

// hit is one damage entry dealt to receiver.
func hit(receiver string, damage, hs, bs, ls int) model.RawDamage {
	return model.RawDamage{Receiver: receiver, Damage: damage, Headshots: hs, Bodyshots: bs, Legshots: ls}
}

// pr builds one player's round slice.
func pr(id string, kills, spent int, dmg ...model.RawDamage) model.RawPlayerRound {
	return model.RawPlayerRound{
		Subject: id,
		Kills:   kills,
		Score:   kills * 200,
		Damage:  dmg,
		Economy: model.RawEconomy{LoadoutValue: spent + 800, Remaining: 1000, Spent: spent},
	}
}

func makeRound(number int, winner string, stats ...model.RawPlayerRound) model.RawRound {
	return model.RawRound{
		Number:      number,
		Result:      "Eliminated",
		ResultCode:  "Elimination",
		Ceremony:    "CeremonyDefault",
		WinningTeam: winner,
		PlayerStats: stats,
	}
}

func makeKill(round int, killer, victim string, assists ...string) model.RawKill {
	return model.RawKill{Round: round, Killer: killer, Victim: victim, Assistants: assists}
}

// standardMatch is a two-round Red vs Blue match, three players a side.
//
//	round 1: r1 kills b1 (first), b2 (assist r2), b3
//	round 2: b2 kills r3 (first), r2 kills b2, b1 kills r1 (assist b3), b1 kills r2
func standardMatch(redPoints, bluePoints int) *model.RawMatch {
	return &model.RawMatch{
		MatchID:      testMatchID,
		MapID:        "/Game/Maps/Ascent/Ascent",
		QueueID:      "competitive",
		GameMode:     "/Game/GameModes/Bomb/BombGameMode.BombGameMode_C",
		SeasonID:     "season-1",
		IsRanked:     true,
		IsCompleted:  true,
		StartMillis:  startMillis,
		LengthMillis: 2400500,
		// Roster order deliberately differs from score order.
		Players: []model.RawPlayer{
			makePlayer("r3", "Red", 0, 1, 0, 100),
			makePlayer("r1", "Red", 3, 1, 0, 600),
			makePlayer("r2", "Red", 1, 1, 1, 300),
			makePlayer("b1", "Blue", 2, 1, 0, 400),
			makePlayer("b3", "Blue", 0, 1, 1, 250),
			makePlayer("b2", "Blue", 1, 2, 0, 250),
		},
		Teams: []model.RawTeam{
			{TeamID: "Red", Won: redPoints > bluePoints, RoundsPlayed: 2, RoundsWon: 1, NumPoints: redPoints},
			{TeamID: "Blue", Won: bluePoints > redPoints, RoundsPlayed: 2, RoundsWon: 1, NumPoints: bluePoints},
		},
		Rounds: []model.RawRound{
			makeRound(1, "Red",
				pr("r1", 3, 3900, hit("b1", 150, 1, 0, 0), hit("b2", 150, 1, 1, 0), hit("b3", 150, 1, 1, 0)),
				pr("r2", 0, 2900, hit("b2", 50, 0, 1, 0)),
				pr("r3", 0, 0),
				pr("b1", 0, 4000, hit("r1", 80, 0, 1, 1)),
				pr("b2", 0, 1000),
				pr("b3", 0, 0),
			),
			makeRound(2, "Blue",
				pr("r1", 0, 1000, hit("b1", 40, 0, 0, 1)),
				pr("r2", 1, 3000, hit("b2", 150, 1, 0, 0)),
				pr("r3", 0, 500),
				pr("b1", 2, 4000, hit("r1", 150, 1, 0, 0), hit("r2", 150, 0, 2, 0)),
				pr("b2", 1, 2000, hit("r3", 150, 0, 1, 0)),
				pr("b3", 0, 0),
			),
		},
		Kills: []model.RawKill{
			makeKill(1, "r1", "b1"),
			makeKill(1, "r1", "b2", "r2"),
			makeKill(1, "r1", "b3"),
			makeKill(2, "b2", "r3"),
			makeKill(2, "r2", "b2"),
			makeKill(2, "b1", "r1", "b3"),
			makeKill(2, "b1", "r2"),
		},
	}
}

// deathmatchMatch gives each player a solo team scored by kills.
func deathmatchMatch(kills map[string]int, order ...string) *model.RawMatch {
	raw := &model.RawMatch{
		MatchID:      testMatchID,
		MapID:        "/Game/Maps/Ascent/Ascent",
		QueueID:      "deathmatch",
		GameMode:     "/Game/GameModes/Deathmatch/DeathmatchGameMode.DeathmatchGameMode_C",
		StartMillis:  startMillis,
		LengthMillis: 540000,
	}
	for i, id := range order {
		p := makePlayer(id, id, kills[id], 10, 0, kills[id]*100+i)
		p.RoundsPlayed = 1
		raw.Players = append(raw.Players, p)
		raw.Teams = append(raw.Teams, model.RawTeam{TeamID: id, RoundsPlayed: 1, NumPoints: kills[id]})
	}
	return raw
}

func newTestEngine(raw *model.RawMatch, opts Options) *Engine {
	return New(memFetcher{raw.MatchID: raw}, nil, nil, opts)
}

func build(t *testing.T, raw *model.RawMatch, requester string) *model.MatchStats {
	t.Helper()
	ms, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), requester, raw.MatchID)
	require.NoError(t, err)
	require.NotNil(t, ms)
	return ms
}

// ---- Result resolution ----

func TestStandardWin(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")

	require.True(t, ms.IsPlayed)
	require.Equal(t, model.ResultWin, ms.Result)
	require.True(t, ms.Teams["Red"].Won)
	require.False(t, ms.Teams["Blue"].Won)
	require.Equal(t, 13, ms.Teams["Red"].Points)
	require.Equal(t, 9, ms.Teams["Blue"].Points)
}

func TestStandardLose(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "b2")

	require.Equal(t, model.ResultLose, ms.Result)
	require.True(t, ms.Teams["Red"].Won)
}

func TestStandardDraw(t *testing.T) {
	for _, requester := range []string{"r1", "b1", "spectator"} {
		ms := build(t, standardMatch(13, 13), requester)

		require.Equal(t, model.ResultDraw, ms.Result, requester)
		require.False(t, ms.Teams["Red"].Won)
		require.False(t, ms.Teams["Blue"].Won)
	}
}

func TestNotPlayedDecidedMatchReadsAsWin(t *testing.T) {
	// The requester is absent from the roster; the losing side is irrelevant.
	ms := build(t, standardMatch(5, 13), "spectator")

	require.False(t, ms.IsPlayed)
	require.Equal(t, model.ResultWin, ms.Result)
	require.True(t, ms.Teams["Blue"].Won)
	_, ok := ms.Requester()
	require.False(t, ok)
}

func TestStandardRequiresTwoTeams(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Teams = append(raw.Teams, model.RawTeam{TeamID: "Green", NumPoints: 1})

	_, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.ErrorIs(t, err, errs.ErrData)
}

func TestPlayerOnUnknownTeam(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Players[0].TeamID = "Neutral"

	_, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.ErrorIs(t, err, errs.ErrData)
}

// ---- Deathmatch ----

func TestDeathmatchWinAndRanks(t *testing.T) {
	raw := deathmatchMatch(map[string]int{"d1": 40, "d2": 38, "d3": 38, "d4": 10}, "d4", "d2", "d1", "d3")
	ms := build(t, raw, "d1")

	require.True(t, ms.Deathmatch)
	require.Equal(t, model.ResultWin, ms.Result)
	require.True(t, ms.Teams["d1"].Won)
	require.False(t, ms.Teams["d2"].Won)

	require.Equal(t, 1, ms.Players["d1"].DeathmatchRank)
	require.Equal(t, 2, ms.Players["d2"].DeathmatchRank)
	require.Equal(t, 2, ms.Players["d3"].DeathmatchRank)
	require.Equal(t, 4, ms.Players["d4"].DeathmatchRank)
}

func TestDeathmatchLose(t *testing.T) {
	raw := deathmatchMatch(map[string]int{"d1": 40, "d2": 38}, "d1", "d2")
	ms := build(t, raw, "d2")

	require.Equal(t, model.ResultLose, ms.Result)
}

func TestDeathmatchThresholdBoundary(t *testing.T) {
	tests := []struct {
		name     string
		kills    int
		expected model.Result
	}{
		{"one short", DeathmatchTarget - 1, model.ResultDraw},
		{"exactly target", DeathmatchTarget, model.ResultWin},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := deathmatchMatch(map[string]int{"d1": tc.kills, "d2": 20}, "d1", "d2")
			ms := build(t, raw, "d1")
			require.Equal(t, tc.expected, ms.Result)
			require.Equal(t, tc.kills >= DeathmatchTarget, ms.Teams["d1"].Won)
		})
	}
}

func TestDeathmatchNotPlayed(t *testing.T) {
	reached := deathmatchMatch(map[string]int{"d1": 40, "d2": 12}, "d1", "d2")
	require.Equal(t, model.ResultWin, build(t, reached, "spectator").Result)

	short := deathmatchMatch(map[string]int{"d1": 33, "d2": 12}, "d1", "d2")
	require.Equal(t, model.ResultDraw, build(t, short, "spectator").Result)
}

func TestDeathmatchSynthesizesMissingTeams(t *testing.T) {
	raw := deathmatchMatch(map[string]int{"d1": 40, "d2": 25}, "d1", "d2")
	raw.Teams = nil
	ms := build(t, raw, "d2")

	require.Len(t, ms.Teams, 2)
	require.Equal(t, 40, ms.Teams["d1"].Points)
	require.Equal(t, []string{"d2"}, ms.Teams["d2"].Players)
	require.Equal(t, model.ResultLose, ms.Result)
}

func TestDeathmatchRanksZeroOutsideDeathmatch(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")
	for id, p := range ms.Players {
		require.Zero(t, p.DeathmatchRank, id)
	}
}

func TestDeathmatchEconomyNotDoubled(t *testing.T) {
	raw := deathmatchMatch(map[string]int{"d1": 40, "d2": 25}, "d1", "d2")
	raw.Rounds = []model.RawRound{makeRound(1, "d1", pr("d1", 0, 900), pr("d2", 0, 400))}
	ms := build(t, raw, "d1")

	require.Equal(t, 900, ms.Rounds[0].Economy["d1"].Spent)
	require.Equal(t, 400, ms.Rounds[0].Economy["d2"].Spent)
}

// ---- Player normalization ----

func TestPlayerRatios(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")

	r1 := ms.Players["r1"]
	require.Equal(t, "r1#tst", r1.Name)
	require.Equal(t, 3.0, r1.KD)
	require.Equal(t, 3.0, r1.KDA)
	require.Equal(t, 30, r1.ACS)
	require.Equal(t, 1800, r1.PlaytimeSeconds)

	b2 := ms.Players["b2"]
	require.Equal(t, 0.5, b2.KD)
	require.Equal(t, 0.5, b2.KDA)

	r2 := ms.Players["r2"]
	require.Equal(t, 2.0, r2.KDA)
	require.Equal(t, 15, r2.ACS)
}

func TestZeroDeathsClampsDenominator(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Players[1].Deaths = 0
	raw.Players[1].RoundsPlayed = 0
	ms := build(t, raw, "r1")

	require.Equal(t, 3.0, ms.Players["r1"].KD)
}

func TestDuplicateRosterEntry(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Players = append(raw.Players, makePlayer("r1", "Red", 0, 0, 0, 0))

	_, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.ErrorIs(t, err, errs.ErrData)
}

func TestRankLookupOnlyForUnrankedEntries(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Players[0].CompetitiveTier = 0 // r3
	raw.Players[4].CompetitiveTier = 0 // b3
	ranks := &stubRanks{tiers: map[string]int{"r3": 21, "b3": 7}}

	eng := New(memFetcher{raw.MatchID: raw}, ranks, nil, Options{})
	ms, err := eng.BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"r3", "b3"}, ranks.asked)
	require.Equal(t, 21, ms.Players["r3"].RankTier)
	require.Equal(t, 7, ms.Players["b3"].RankTier)
	require.Equal(t, 12, ms.Players["r1"].RankTier)
}

func TestRankLookupFailure(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Players[2].CompetitiveTier = 0
	cause := errors.New("rate limited")
	ranks := &stubRanks{err: cause}

	for _, sequential := range []bool{true, false} {
		eng := New(memFetcher{raw.MatchID: raw}, ranks, nil, Options{Sequential: sequential})
		ms, err := eng.BuildMatchStats(context.Background(), "r1", raw.MatchID)
		require.Nil(t, ms)
		require.ErrorIs(t, err, errs.ErrLookup)
		require.ErrorIs(t, err, cause)
	}
}

// ---- Rounds ----

func TestRoundEconomyAndDeltas(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")
	require.Len(t, ms.Rounds, 2)

	r1 := ms.Rounds[0]
	require.Equal(t, 1, r1.Number)
	require.Equal(t, "Red", r1.WinningTeamID)
	require.Empty(t, r1.Ceremony)
	require.Equal(t, 3900, r1.Economy["r1"].Spent)
	require.Equal(t, model.EconomySnapshot{LoadoutValue: 6800 + 2400, Remaining: 3000, Spent: 6800}, r1.Economy["Red"])
	require.Equal(t, 5000, r1.Economy["Blue"].Spent)

	require.Equal(t, model.RoundPlayerDelta{Kills: 3, Headshots: 3, Bodyshots: 2, Damage: 450, Score: 600}, r1.Players["r1"])
	require.Nil(t, r1.PlantTimeSeconds)
	require.Nil(t, r1.DefuseTimeSeconds)
}

func TestRoundPlantAndDefuse(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Rounds[1].BombPlanter = "b1"
	raw.Rounds[1].PlantRoundTimeMillis = 45500
	raw.Rounds[1].PlantSite = "A"
	raw.Rounds[0].BombDefuser = "r2"
	raw.Rounds[0].DefuseRoundTimeMillis = 90250
	ms := build(t, raw, "r1")

	require.Equal(t, "b1", ms.Rounds[1].Planter)
	require.NotNil(t, ms.Rounds[1].PlantTimeSeconds)
	require.InDelta(t, 45.5, *ms.Rounds[1].PlantTimeSeconds, 1e-9)
	require.Equal(t, "A", ms.Rounds[1].PlantSite)
	require.Equal(t, "r2", ms.Rounds[0].Defuser)
	require.InDelta(t, 90.25, *ms.Rounds[0].DefuseTimeSeconds, 1e-9)
}

func TestUnknownPlanter(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Rounds[0].BombPlanter = "ghost"

	_, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.ErrorIs(t, err, errs.ErrData)
}

func TestCeremonyTranslation(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Rounds[0].Ceremony = "CeremonyAce"
	raw.Rounds[1].Ceremony = "CeremonyCloser"
	ms := build(t, raw, "r1")

	require.Equal(t, "Ace", ms.Rounds[0].Ceremony)
	require.Equal(t, "Closer", ms.Rounds[1].Ceremony)
}

func TestUnknownCeremony(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Rounds[1].Ceremony = "CeremonyBogus"

	ms, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.ErrorIs(t, err, errs.ErrData)
	require.Nil(t, ms)
}

func TestRoundReferencesUnknownPlayer(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Rounds[0].PlayerStats = append(raw.Rounds[0].PlayerStats, pr("ghost", 1, 0))

	ms, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.ErrorIs(t, err, errs.ErrData)
	require.Nil(t, ms)
}

func TestDamageToUnknownPlayer(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Rounds[0].PlayerStats[0].Damage = append(raw.Rounds[0].PlayerStats[0].Damage, hit("ghost", 150, 1, 0, 0))

	ms, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.ErrorIs(t, err, errs.ErrData)
	require.ErrorContains(t, err, "ghost")
	require.Nil(t, ms)
}

// ---- Kill graph ----

func TestKillGraph(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")

	require.Equal(t, map[string]int{"b1": 1, "b2": 1, "b3": 1}, ms.Players["r1"].KillList)
	require.Equal(t, map[string]int{"b1": 1}, ms.Players["r1"].KilledList)
	require.Equal(t, map[string]int{"b2": 1}, ms.Players["r2"].AssistList)
	require.Equal(t, map[string]int{"r1": 1}, ms.Players["b3"].AssistList)
	require.Equal(t, map[string]int{"r1": 1, "r2": 1}, ms.Players["b1"].KillList)
	require.Empty(t, ms.Players["r3"].KillList)

	require.Equal(t, 1, ms.Players["r1"].Firstblood)
	require.Equal(t, 1, ms.Players["b1"].Firstdeath)
	require.Equal(t, 1, ms.Players["b2"].Firstblood)
	require.Equal(t, 1, ms.Players["r3"].Firstdeath)
	require.Zero(t, ms.Players["b1"].Firstblood)
}

func TestFirstbloodFollowsArrivalOrder(t *testing.T) {
	raw := standardMatch(13, 9)
	// Swap round-2 events; the engine does not re-sort by time.
	raw.Kills[3], raw.Kills[4] = raw.Kills[4], raw.Kills[3]
	ms := build(t, raw, "r1")

	require.Equal(t, 1, ms.Players["r2"].Firstblood)
	require.Equal(t, 1, ms.Players["b2"].Firstdeath)
	require.Zero(t, ms.Players["b2"].Firstblood)
}

func TestKillByUnknownPlayer(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Kills = append(raw.Kills, makeKill(2, "", "r3"))

	_, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.ErrorIs(t, err, errs.ErrData)
}

func TestKillRoundMustBeOneBased(t *testing.T) {
	raw := standardMatch(13, 9)
	for i := range raw.Kills {
		raw.Kills[i].Round = 0
	}

	ms, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.ErrorIs(t, err, errs.ErrData)
	require.Nil(t, ms)
}

func TestUnknownAssistant(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Kills[0].Assistants = []string{"ghost"}

	_, err := newTestEngine(raw, Options{}).BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.ErrorIs(t, err, errs.ErrData)
}

// ---- Eco ----

func TestEcoAggregates(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")

	r1 := ms.Players["r1"]
	require.Equal(t, 490, r1.TotalDamage)
	require.Equal(t, 4900, r1.TotalSpent)
	require.Equal(t, 100, r1.EcoRating)
	require.Equal(t, 245.0, r1.ADR)
	require.Equal(t, 3, r1.Headshots)
	require.Equal(t, 2, r1.Bodyshots)
	require.Equal(t, 1, r1.Legshots)
	require.Equal(t, 50.0, r1.HSRate)
	require.Equal(t, 33.3, r1.BSRate)
	require.Equal(t, 16.7, r1.LSRate)
	require.Equal(t, 230, r1.DamageReceived)

	r3 := ms.Players["r3"]
	require.Zero(t, r3.TotalDamage)
	require.Zero(t, r3.EcoRating)
	require.Zero(t, r3.HSRate)
	require.Zero(t, r3.BSRate)
	require.Zero(t, r3.LSRate)
}

func TestZeroSpendEcoRating(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Rounds = []model.RawRound{makeRound(1, "Blue", pr("b3", 0, 0, hit("r3", 150, 0, 1, 0)))}
	raw.Kills = nil
	ms := build(t, raw, "r1")

	b3 := ms.Players["b3"]
	require.Equal(t, 150000, b3.EcoRating)
	require.Equal(t, 150.0, b3.ADR)
	require.Equal(t, 150, ms.Players["r3"].DamageReceived)
}

func TestNoRounds(t *testing.T) {
	raw := standardMatch(13, 9)
	raw.Rounds = nil
	raw.Kills = nil
	ms := build(t, raw, "r1")

	require.Empty(t, ms.Rounds)
	require.Zero(t, ms.Players["r1"].ADR)
	require.Zero(t, ms.Players["r1"].EcoRating)
}

// ---- Invariants ----

func TestTeamsPartitionPlayers(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")

	seen := map[string]int{}
	for _, team := range ms.Teams {
		for _, id := range team.Players {
			seen[id]++
			require.Equal(t, team.TeamID, ms.Players[id].TeamID)
		}
	}
	require.Len(t, seen, len(ms.Players))
	for id, n := range seen {
		require.Equal(t, 1, n, id)
		require.Contains(t, ms.Players, id)
	}
}

func TestTeamPlayersSortedByScore(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")

	require.Equal(t, []string{"r1", "r2", "r3"}, ms.Teams["Red"].Players)
	// b3 and b2 tie on score; roster order keeps b3 first.
	require.Equal(t, []string{"b1", "b3", "b2"}, ms.Teams["Blue"].Players)
	require.Equal(t, []string{"Red", "Blue"}, ms.TeamIDs())
}

func TestRoundKillsSumToPlayerKills(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")

	for id, p := range ms.Players {
		sum, multi := 0, 0
		for _, rs := range ms.Rounds {
			sum += rs.Players[id].Kills
			if rs.Players[id].Kills >= 3 {
				multi++
			}
		}
		require.Equal(t, p.Kills, sum, id)
		require.Equal(t, p.Multikills, multi, id)
	}
	require.Equal(t, 1, ms.Players["r1"].Multikills)
}

func TestOneFirstbloodPerRound(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")

	fb, fd := 0, 0
	for _, p := range ms.Players {
		fb += p.Firstblood
		fd += p.Firstdeath
	}
	require.Equal(t, 2, fb)
	require.Equal(t, 2, fd)
}

func TestRoundPlayersSubsetOfRoster(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")
	for _, rs := range ms.Rounds {
		for id := range rs.Players {
			require.Contains(t, ms.Players, id)
		}
	}
}

// ---- Orchestration ----

func TestHeader(t *testing.T) {
	ms := build(t, standardMatch(13, 9), "r1")

	require.Equal(t, testMatchID, ms.MatchID)
	require.Equal(t, "r1", ms.RequesterID)
	require.Equal(t, "/Game/Maps/Ascent/Ascent", ms.MapID)
	require.Equal(t, "competitive", ms.QueueID)
	require.Equal(t, "season-1", ms.SeasonID)
	require.True(t, ms.IsRanked)
	require.False(t, ms.Deathmatch)
	require.Equal(t, time.UnixMilli(startMillis).UTC(), ms.StartTime)
	require.Equal(t, 2400, ms.DurationSeconds)
}

func TestNotFound(t *testing.T) {
	eng := New(memFetcher{}, nil, nil, Options{})
	ms, err := eng.BuildMatchStats(context.Background(), "r1", testMatchID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Nil(t, ms)
}

func TestFetcherReturnsNothing(t *testing.T) {
	eng := New(fetchFunc(func(context.Context, string) (*model.RawMatch, error) {
		return nil, nil
	}), nil, nil, Options{})

	ms, err := eng.BuildMatchStats(context.Background(), "r1", testMatchID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Nil(t, ms)
}

func TestFetchErrorPropagates(t *testing.T) {
	cause := errors.New("connection reset")
	eng := New(fetchFunc(func(context.Context, string) (*model.RawMatch, error) {
		return nil, cause
	}), nil, nil, Options{})

	_, err := eng.BuildMatchStats(context.Background(), "r1", testMatchID)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, errs.ErrNotFound)
}

func TestCancelledContext(t *testing.T) {
	raw := standardMatch(13, 9)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ms, err := New(memFetcher{raw.MatchID: raw}, nil, nil, Options{Sequential: true}).
		BuildMatchStats(ctx, "r1", raw.MatchID)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, ms)
}

func TestDeterministic(t *testing.T) {
	raw := standardMatch(13, 9)
	eng := newTestEngine(raw, Options{})

	first, err := eng.BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.NoError(t, err)
	second, err := eng.BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSequentialMatchesParallel(t *testing.T) {
	fixtures := map[string]*model.RawMatch{
		"standard":   standardMatch(13, 9),
		"deathmatch": deathmatchMatch(map[string]int{"d1": 40, "d2": 38, "d3": 38}, "d3", "d1", "d2"),
	}
	for name, raw := range fixtures {
		t.Run(name, func(t *testing.T) {
			requester := raw.Players[0].Subject
			want, err := newTestEngine(raw, Options{Sequential: true}).
				BuildMatchStats(context.Background(), requester, raw.MatchID)
			require.NoError(t, err)

			for workers := minWorkers; workers <= maxWorkers; workers++ {
				got, err := newTestEngine(raw, Options{Workers: workers}).
					BuildMatchStats(context.Background(), requester, raw.MatchID)
				require.NoError(t, err)
				require.Equal(t, want, got, "workers=%d", workers)
			}
		})
	}
}

func TestConcurrentBuildsShareNothing(t *testing.T) {
	raw := standardMatch(13, 9)
	eng := newTestEngine(raw, Options{Workers: 4})
	want, err := eng.BuildMatchStats(context.Background(), "r1", raw.MatchID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*model.MatchStats, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = eng.BuildMatchStats(context.Background(), "r1", raw.MatchID)
		}()
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestWorkersClamped(t *testing.T) {
	require.Equal(t, defaultWorkers, New(nil, nil, nil, Options{}).opts.Workers)
	require.Equal(t, minWorkers, New(nil, nil, nil, Options{Workers: 1}).opts.Workers)
	require.Equal(t, maxWorkers, New(nil, nil, nil, Options{Workers: 64}).opts.Workers)
}
