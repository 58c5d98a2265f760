package model

import (
	"sort"
	"time"
)

// Result is the outcome of a match from the requesting player's point of view.
type Result int

const (
	ResultUnknown Result = 0
	ResultWin     Result = 1
	ResultLose    Result = 2
	ResultDraw    Result = 3
)

func (r Result) String() string {
	switch r {
	case ResultWin:
		return "Win"
	case ResultLose:
		return "Lose"
	case ResultDraw:
		return "Draw"
	default:
		return "?"
	}
}

// ParseResult is the inverse of Result.String.
func ParseResult(s string) Result {
	switch s {
	case "Win":
		return ResultWin
	case "Lose":
		return ResultLose
	case "Draw":
		return ResultDraw
	default:
		return ResultUnknown
	}
}

// ---- Raw telemetry records produced by the payload parser ----

type RawPlayer struct {
	Subject         string
	GameName        string
	TagLine         string
	TeamID          string
	PartyID         string
	CharacterID     string
	CompetitiveTier int
	AccountLevel    int

	Score, RoundsPlayed    int
	Kills, Deaths, Assists int
	PlaytimeMillis         int64
}

type RawTeam struct {
	TeamID       string
	Won          bool
	RoundsPlayed int
	RoundsWon    int
	NumPoints    int
}

type RawDamage struct {
	Receiver  string
	Damage    int
	Headshots int
	Bodyshots int
	Legshots  int
}

type RawEconomy struct {
	LoadoutValue int
	Remaining    int
	Spent        int
	Weapon       string
	Armor        string
}

// RawPlayerRound is one participant's slice of a round.
type RawPlayerRound struct {
	Subject string
	Kills   int // kill events credited to this player in the round
	Score   int
	Damage  []RawDamage
	Economy RawEconomy
}

type RawRound struct {
	Number      int // 1-based
	Result      string
	ResultCode  string
	Ceremony    string // provider enumeration value, e.g. "CeremonyAce"
	WinningTeam string

	BombPlanter           string // empty when the spike was not planted
	BombDefuser           string
	PlantRoundTimeMillis  int
	DefuseRoundTimeMillis int
	PlantSite             string

	PlayerStats []RawPlayerRound
}

type RawKill struct {
	Round           int // 1-based
	GameTimeMillis  int64
	RoundTimeMillis int64
	Killer, Victim  string
	Assistants      []string
}

// RawMatch is the typed form of one provider match-details payload.
type RawMatch struct {
	MatchID      string
	MapID        string
	QueueID      string
	GameMode     string
	SeasonID     string
	IsRanked     bool
	IsCompleted  bool
	StartMillis  int64
	LengthMillis int64

	Players []RawPlayer
	Teams   []RawTeam
	Rounds  []RawRound
	Kills   []RawKill
}

// ---- Derived statistics ----

// EconomySnapshot is a credit summary for one player or one team in one round.
type EconomySnapshot struct {
	LoadoutValue int
	Remaining    int
	Spent        int
}

// Add returns the element-wise sum of two snapshots.
func (e EconomySnapshot) Add(o EconomySnapshot) EconomySnapshot {
	return EconomySnapshot{
		LoadoutValue: e.LoadoutValue + o.LoadoutValue,
		Remaining:    e.Remaining + o.Remaining,
		Spent:        e.Spent + o.Spent,
	}
}

// RoundPlayerDelta is what one player contributed in one round.
type RoundPlayerDelta struct {
	Kills     int
	Headshots int
	Bodyshots int
	Legshots  int
	Damage    int
	Score     int
}

type RoundStat struct {
	Number        int
	WinningTeamID string
	Result        string
	ResultCode    string
	Ceremony      string // catalog ceremony id, empty for a default ending

	Planter           string
	Defuser           string
	PlantTimeSeconds  *float64
	DefuseTimeSeconds *float64
	PlantSite         string

	// Economy is keyed by both team id and player puuid.
	Economy map[string]EconomySnapshot
	Players map[string]RoundPlayerDelta
}

type PlayerStat struct {
	PUUID        string
	Name         string
	TeamID       string
	PartyID      string
	AgentID      string
	RankTier     int
	AccountLevel int

	Kills, Deaths, Assists int
	RoundsPlayed           int
	Score                  int
	PlaytimeSeconds        int

	KD  float64
	KDA float64
	ACS int

	TotalDamage    int
	DamageReceived int
	ADR            float64
	TotalSpent     int
	EcoRating      int

	Headshots, Bodyshots, Legshots int
	HSRate, BSRate, LSRate         float64

	Firstblood     int
	Firstdeath     int
	Multikills     int // rounds with 3 or more kills
	DeathmatchRank int // 0 outside deathmatch

	KillList   map[string]int // victim -> times killed
	KilledList map[string]int // killer -> times killed by
	AssistList map[string]int // victim -> assists on
}

// ShotCount is the total number of registered hits.
func (p *PlayerStat) ShotCount() int {
	return p.Headshots + p.Bodyshots + p.Legshots
}

type TeamStat struct {
	TeamID       string
	Won          bool
	Points       int
	RoundsPlayed int
	RoundsWon    int
	Players      []string // sorted by score desc, roster order on ties
}

// MatchStats is the fully derived model of one match for one requesting player.
// It is not mutated after the engine returns it.
type MatchStats struct {
	MatchID     string
	RequesterID string
	MapID       string
	QueueID     string
	GameMode    string
	SeasonID    string
	IsRanked    bool
	Deathmatch  bool

	StartTime       time.Time
	DurationSeconds int
	IsPlayed        bool
	Result          Result

	Players map[string]PlayerStat
	Rounds  []RoundStat
	Teams   map[string]TeamStat
}

// Requester returns the requesting player's stats, if they were on the roster.
func (m *MatchStats) Requester() (PlayerStat, bool) {
	p, ok := m.Players[m.RequesterID]
	return p, ok
}

// TeamIDs returns team ids in a stable order: the requester's team first, then by id.
func (m *MatchStats) TeamIDs() []string {
	first := ""
	if p, ok := m.Requester(); ok {
		first = p.TeamID
	}
	ids := make([]string, 0, len(m.Teams))
	for id := range m.Teams {
		if id != first {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if _, ok := m.Teams[first]; ok {
		ids = append([]string{first}, ids...)
	}
	return ids
}

// ---- Stored history ----

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	MatchID         string
	MapID           string
	QueueID         string
	SeasonID        string
	StartTime       time.Time
	DurationSeconds int
	RequesterID     string
	Result          Result
	Deathmatch      bool
	Score           string // e.g. "13-9"
}

// MapRecord is one player's result tally on one map.
type MapRecord struct {
	MapID   string
	Matches int
	Wins    int
	Losses  int
	Draws   int
}

// PlayerSeason holds one player's stats aggregated across stored matches.
type PlayerSeason struct {
	PUUID    string
	Name     string
	SeasonID string
	Matches  int

	Wins, Losses, Draws    int
	Kills, Deaths, Assists int
	Score, RoundsPlayed    int
	TotalDamage            int
	Headshots, Bodyshots   int
	Legshots               int
	Firstbloods            int
	Firstdeaths            int
	Multikills             int
}

func (a *PlayerSeason) KDRatio() float64 {
	if a.Deaths == 0 {
		return float64(a.Kills)
	}
	return float64(a.Kills) / float64(a.Deaths)
}

func (a *PlayerSeason) HSPercent() float64 {
	shots := a.Headshots + a.Bodyshots + a.Legshots
	if shots == 0 {
		return 0
	}
	return float64(a.Headshots) / float64(shots) * 100
}

func (a *PlayerSeason) ADR() float64 {
	if a.RoundsPlayed == 0 {
		return 0
	}
	return float64(a.TotalDamage) / float64(a.RoundsPlayed)
}

func (a *PlayerSeason) ACS() float64 {
	if a.RoundsPlayed == 0 {
		return 0
	}
	return float64(a.Score) / float64(a.RoundsPlayed)
}

func (a *PlayerSeason) WinRate() float64 {
	if a.Matches == 0 {
		return 0
	}
	return float64(a.Wins) / float64(a.Matches) * 100
}
