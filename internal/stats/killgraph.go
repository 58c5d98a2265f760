package stats

import (
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/errs"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

// killNode is one player's slice of the kill graph.
type killNode struct {
	kills      map[string]int // victim -> count
	killed     map[string]int // killer -> count
	assists    map[string]int // victim -> count
	firstblood int
	firstdeath int
}

func newKillNode() *killNode {
	return &killNode{
		kills:   map[string]int{},
		killed:  map[string]int{},
		assists: map[string]int{},
	}
}

// buildKillGraph builds kill/killed/assist adjacency from the raw kill list.
// The first event seen for a new round number credits firstblood to its killer
// and firstdeath to its victim. Events are taken in arrival order. Round
// numbers are 1-based.
func buildKillGraph(kills []model.RawKill, r *roster) (map[string]*killNode, error) {
	graph := make(map[string]*killNode, len(r.order))
	for _, id := range r.order {
		graph[id] = newKillNode()
	}

	lastRound := 0
	for i, k := range kills {
		if k.Round < 1 {
			return nil, errs.Data("kill %d: round number %d, want 1 or more", i, k.Round)
		}
		killer, ok := graph[k.Killer]
		if !ok {
			return nil, errs.Data("kill %d (round %d): killer %q not on roster", i, k.Round, k.Killer)
		}
		victim, ok := graph[k.Victim]
		if !ok {
			return nil, errs.Data("kill %d (round %d): victim %q not on roster", i, k.Round, k.Victim)
		}

		killer.kills[k.Victim]++
		victim.killed[k.Killer]++
		for _, a := range k.Assistants {
			assister, ok := graph[a]
			if !ok {
				return nil, errs.Data("kill %d (round %d): assistant %q not on roster", i, k.Round, a)
			}
			assister.assists[k.Victim]++
		}

		if k.Round != lastRound {
			killer.firstblood++
			victim.firstdeath++
			lastRound = k.Round
		}
	}
	return graph, nil
}
