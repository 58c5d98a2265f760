// Package rank provides competitive tier lookups for players whose match
// payload entry carries no tier.
package rank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.uber.org/ratelimit"
)

// ErrUnknownPlayer is returned when a lookup has no tier for the player.
var ErrUnknownPlayer = errors.New("no tier known for player")

// Lookup resolves a player's current competitive tier.
type Lookup interface {
	Tier(ctx context.Context, puuid string) (int, error)
}

// TierStore is the slice of storage a StoreLookup reads from.
type TierStore interface {
	PlayerTier(puuid string) (int, bool, error)
}

// StoreLookup serves tiers cached in the match store.
type StoreLookup struct {
	store TierStore
}

func NewStoreLookup(store TierStore) *StoreLookup {
	return &StoreLookup{store: store}
}

func (s *StoreLookup) Tier(ctx context.Context, puuid string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	tier, ok, err := s.store.PlayerTier(puuid)
	if err != nil {
		return 0, fmt.Errorf("read cached tier: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, puuid)
	}
	return tier, nil
}

// Static is a fixed puuid -> tier table.
type Static map[string]int

func (s Static) Tier(_ context.Context, puuid string) (int, error) {
	tier, ok := s[puuid]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, puuid)
	}
	return tier, nil
}

// Chain asks each lookup in turn and returns the first tier found. A lookup
// that does not know the player passes to the next one; any other error stops
// the chain.
type Chain []Lookup

func (c Chain) Tier(ctx context.Context, puuid string) (int, error) {
	for _, l := range c {
		tier, err := l.Tier(ctx, puuid)
		if errors.Is(err, ErrUnknownPlayer) {
			continue
		}
		return tier, err
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, puuid)
}

// Fallback returns 0 (unranked) when the wrapped lookup does not know a player,
// and passes every other error through.
type Fallback struct {
	Next Lookup
}

func (f Fallback) Tier(ctx context.Context, puuid string) (int, error) {
	tier, err := f.Next.Tier(ctx, puuid)
	if errors.Is(err, ErrUnknownPlayer) {
		slog.Debug("No tier for player, treating as unranked", slog.String("puuid", puuid))
		return 0, nil
	}
	return tier, err
}

// Limited paces calls to a lookup, typically one backed by a remote service.
type Limited struct {
	next Lookup
	rl   ratelimit.Limiter
}

// NewLimited allows at most perSecond lookups per second. perSecond <= 0
// disables pacing.
func NewLimited(next Lookup, perSecond int) *Limited {
	rl := ratelimit.NewUnlimited()
	if perSecond > 0 {
		rl = ratelimit.New(perSecond)
	}
	return &Limited{next: next, rl: rl}
}

func (l *Limited) Tier(ctx context.Context, puuid string) (int, error) {
	l.rl.Take()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return l.next.Tier(ctx, puuid)
}
