package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dropForce    bool
	dropPayloads bool
)

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the local match history",
	Long: `Delete the SQLite match history (database.path): built matches, per-player
lines, rounds and the cached player tiers.

Imported match payloads in payload.dir are kept unless --payloads is given, so
matches can be rebuilt with 'valmatch build <matchId> --player <puuid> --save'.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "delete without asking for confirmation")
	dropCmd.Flags().BoolVar(&dropPayloads, "payloads", false, "also delete the imported payloads in payload.dir")
}

// dropTargets lists what drop deletes: the database with its WAL side files
// and, optionally, the payload directory.
func dropTargets(dbFile, payloadDir string, payloads bool) []string {
	targets := []string{dbFile, dbFile + "-wal", dbFile + "-shm"}
	if payloads && payloadDir != "" {
		targets = append(targets, payloadDir)
	}
	return targets
}

// removeTargets deletes every target and returns the ones that existed.
func removeTargets(targets []string) ([]string, error) {
	var removed []string
	for _, t := range targets {
		if _, err := os.Stat(t); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(t); err != nil {
			return removed, fmt.Errorf("remove %s: %w", t, err)
		}
		removed = append(removed, t)
	}
	return removed, nil
}

func runDrop(cmd *cobra.Command, args []string) error {
	targets := dropTargets(cfg.Database.Path, cfg.Payload.Dir, dropPayloads)
	if !dropForce {
		fmt.Fprintln(os.Stderr, "This will permanently delete:")
		for _, t := range targets {
			fmt.Fprintf(os.Stderr, "  %s\n", t)
		}
		fmt.Fprintln(os.Stderr, "Re-run with --force to confirm.")
		return nil
	}

	removed, err := removeTargets(targets)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Fprintln(os.Stdout, "Nothing to delete.")
		return nil
	}
	for _, t := range removed {
		fmt.Fprintf(os.Stdout, "Deleted: %s\n", t)
	}
	return nil
}
