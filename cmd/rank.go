package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/log"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Manage the cached competitive tiers used for unranked roster entries",
}

var rankSetCmd = &cobra.Command{
	Use:   "set <puuid> <tier>",
	Short: "Cache a player's current tier",
	Args:  cobra.ExactArgs(2),
	RunE:  runRankSet,
}

var rankGetCmd = &cobra.Command{
	Use:   "get <puuid> [<puuid>...]",
	Short: "Print cached tiers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRankGet,
}

func init() {
	rankCmd.AddCommand(rankSetCmd)
	rankCmd.AddCommand(rankGetCmd)
}

func runRankSet(cmd *cobra.Command, args []string) error {
	puuid := args[0]
	if _, err := uuid.Parse(puuid); err != nil {
		return fmt.Errorf("invalid puuid %q: %w", puuid, err)
	}
	tier, err := strconv.Atoi(args[1])
	if err != nil || tier < 0 {
		return fmt.Errorf("invalid tier %q", args[1])
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	if _, ok := cat.Tier(tier); !ok {
		return fmt.Errorf("tier %d is not in the catalog", tier)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	if err := db.SetPlayerTier(puuid, tier, time.Now()); err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	fmt.Fprintf(os.Stdout, "%s -> %s\n", puuid, cat.TierName(tier))
	return nil
}

func runRankGet(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	tiers, err := db.PlayerTiers(args)
	if err != nil {
		return fmt.Errorf("get tiers: %w", err)
	}
	for _, id := range args {
		tier, ok := tiers[id]
		if !ok {
			fmt.Fprintf(os.Stdout, "%s  (not cached)\n", id)
			continue
		}
		fmt.Fprintf(os.Stdout, "%s  %s\n", id, cat.TierName(tier))
	}
	return nil
}
