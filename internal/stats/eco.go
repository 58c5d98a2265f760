package stats

import (
	"math"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/model"
)

// ecoLine is the eco-rating calculator's private per-player output.
type ecoLine struct {
	damage    int
	spent     int
	headshots int
	bodyshots int
	legshots  int

	ecoRating int
	adr       float64
	hsRate    float64
	bsRate    float64
	lsRate    float64
}

// computeEco sums damage, spend and shot placement across rounds.
//
// ecoRating is damage*1000/spent, with a zero total spend treated as a spend of 1.
// A player who never bought gets an inflated rating.
func computeEco(rounds []model.RoundStat, r *roster) map[string]ecoLine {
	lines := make(map[string]ecoLine, len(r.order))
	for _, rs := range rounds {
		for id, d := range rs.Players {
			l := lines[id]
			l.damage += d.Damage
			l.headshots += d.Headshots
			l.bodyshots += d.Bodyshots
			l.legshots += d.Legshots
			l.spent += rs.Economy[id].Spent
			lines[id] = l
		}
	}

	roundCount := max(len(rounds), 1)
	for _, id := range r.order {
		l := lines[id]
		spent := max(l.spent, 1)
		l.ecoRating = int(math.Round(float64(l.damage) * 1000 / float64(spent)))
		l.adr = round1(float64(l.damage) / float64(roundCount))

		if shots := l.headshots + l.bodyshots + l.legshots; shots > 0 {
			l.hsRate = round1(float64(l.headshots) / float64(shots) * 100)
			l.bsRate = round1(float64(l.bodyshots) / float64(shots) * 100)
			l.lsRate = round1(float64(l.legshots) / float64(shots) * 100)
		}
		lines[id] = l
	}
	return lines
}
