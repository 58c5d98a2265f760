// Package catalog holds the read-only reference data (maps, agents, competitive
// tiers, ceremonies, game modes) that match statistics are resolved against.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Map is a playable map keyed by its asset path.
type Map struct {
	ID   string `json:"id"` // asset path as reported in match payloads
	Name string `json:"name"`
}

// Agent is a playable character.
type Agent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Tier is a competitive rank tier; 0 is unranked.
type Tier struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Division string `json:"division"`
}

// Ceremony is a round-end ceremony keyed by the id CeremonyID returns.
type Ceremony struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameMode is a queue and whether it is played without teams.
type GameMode struct {
	ID         string `json:"id"` // queue id
	Name       string `json:"name"`
	Deathmatch bool   `json:"deathmatch"`
}

// Document is the on-disk JSON layout of a catalog.
type Document struct {
	Maps       []Map      `json:"maps"`
	Agents     []Agent    `json:"agents"`
	Tiers      []Tier     `json:"tiers"`
	Ceremonies []Ceremony `json:"ceremonies"`
	GameModes  []GameMode `json:"gamemodes"`
}

// Catalog is immutable after construction and safe for concurrent readers.
type Catalog struct {
	maps       map[string]Map
	agents     map[string]Agent
	tiers      map[string]Tier
	ceremonies map[string]Ceremony
	gameModes  map[string]GameMode
}

// New indexes a document by stable identifier.
func New(doc Document) *Catalog {
	c := &Catalog{
		maps:       make(map[string]Map, len(doc.Maps)),
		agents:     make(map[string]Agent, len(doc.Agents)),
		tiers:      make(map[string]Tier, len(doc.Tiers)),
		ceremonies: make(map[string]Ceremony, len(doc.Ceremonies)),
		gameModes:  make(map[string]GameMode, len(doc.GameModes)),
	}
	for _, m := range doc.Maps {
		c.maps[m.ID] = m
	}
	for _, a := range doc.Agents {
		c.agents[strings.ToLower(a.ID)] = a
	}
	for _, t := range doc.Tiers {
		c.tiers[strconv.Itoa(t.ID)] = t
	}
	for _, cr := range doc.Ceremonies {
		c.ceremonies[cr.ID] = cr
	}
	for _, g := range doc.GameModes {
		c.gameModes[g.ID] = g
	}
	return c
}

// Load reads a catalog document from a JSON file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	var doc Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return New(doc), nil
}

// Map looks a map up by asset path.
func (c *Catalog) Map(id string) (Map, bool) {
	m, ok := c.maps[id]
	return m, ok
}

// MapName returns the display name for a map id, or the last path element of the id.
func (c *Catalog) MapName(id string) string {
	if m, ok := c.maps[id]; ok {
		return m.Name
	}
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// Agent looks an agent up by id, ignoring case.
func (c *Catalog) Agent(id string) (Agent, bool) {
	a, ok := c.agents[strings.ToLower(id)]
	return a, ok
}

// AgentName returns the agent display name or "?" for unknown ids.
func (c *Catalog) AgentName(id string) string {
	if a, ok := c.Agent(id); ok {
		return a.Name
	}
	return "?"
}

// Tier looks a competitive tier up by number.
func (c *Catalog) Tier(id int) (Tier, bool) {
	t, ok := c.tiers[strconv.Itoa(id)]
	return t, ok
}

// TierName returns the tier display name; unknown tiers render as "Unranked".
func (c *Catalog) TierName(id int) string {
	if t, ok := c.Tier(id); ok {
		return t.Name
	}
	return "Unranked"
}

// Ceremony looks a ceremony up by its short id ("Ace", "Clutch", ...).
func (c *Catalog) Ceremony(id string) (Ceremony, bool) {
	cr, ok := c.ceremonies[id]
	return cr, ok
}

// GameMode looks a game mode up by queue id.
func (c *Catalog) GameMode(queueID string) (GameMode, bool) {
	g, ok := c.gameModes[queueID]
	return g, ok
}

// IsDeathmatch reports whether a match runs without a two-team structure.
// The queue id decides when the catalog knows it; otherwise the game mode asset path does.
func (c *Catalog) IsDeathmatch(queueID, gameModePath string) bool {
	if g, ok := c.GameMode(queueID); ok {
		return g.Deathmatch
	}
	return strings.Contains(gameModePath, "/Deathmatch/")
}
