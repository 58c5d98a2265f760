package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/errs"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/log"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/payload"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/rank"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/report"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/stats"
	"github.com/shumm7/Valorant-DiscordBot-sub000/internal/storage"
)

var (
	buildPlayer     string
	buildFile       string
	buildSave       bool
	buildSequential bool
	buildRounds     bool
)

var buildCmd = &cobra.Command{
	Use:   "build [matchId]",
	Short: "Build match statistics from a stored payload",
	Long: `Build the statistics of one match as seen by --player and print the scoreboard,
the kill matrix and optionally the round table.

Payloads are read from payload.dir as <matchId>.json, .json.gz or .json.zst.
With --file the given payload is first imported into payload.dir and the match id
is taken from it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildPlayer, "player", "", "requesting player puuid (required)")
	buildCmd.Flags().StringVar(&buildFile, "file", "", "import a match-details JSON file before building")
	buildCmd.Flags().BoolVar(&buildSave, "save", false, "store the result in the match history")
	buildCmd.Flags().BoolVar(&buildSequential, "sequential", false, "run every stage on one goroutine")
	buildCmd.Flags().BoolVar(&buildRounds, "rounds", false, "also print the round table")
	_ = buildCmd.MarkFlagRequired("player")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if _, err := uuid.Parse(buildPlayer); err != nil {
		return fmt.Errorf("invalid player puuid %q: %w", buildPlayer, err)
	}

	fetcher := payload.NewFileFetcher(cfg.Payload.Dir)

	var matchID string
	switch {
	case buildFile != "":
		body, err := os.ReadFile(buildFile)
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		if matchID, err = fetcher.Store(body); err != nil {
			return fmt.Errorf("import payload: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Imported match %s into %s\n", matchID, cfg.Payload.Dir)
	case len(args) == 1:
		matchID = args[0]
		if _, err := uuid.Parse(matchID); err != nil {
			return fmt.Errorf("invalid match id %q: %w", matchID, err)
		}
	default:
		return errors.New("a match id or --file is required")
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	lookups := rank.Chain{rank.NewStoreLookup(db)}
	if cfg.Rank.URL != "" {
		lookups = append(lookups, rank.NewLimited(rank.NewClient(cfg.Rank.URL, cfg.Rank.APIKey), cfg.Rank.RateLimit))
	}
	ranks := rank.Fallback{Next: lookups}
	engine := stats.New(fetcher, ranks, cat, stats.Options{
		Workers:    cfg.Engine.Workers,
		Sequential: cfg.Engine.Sequential || buildSequential,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ms, err := engine.BuildMatchStats(ctx, buildPlayer, matchID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("no payload for match %s in %s", matchID, cfg.Payload.Dir)
		}
		return fmt.Errorf("build match: %w", err)
	}

	report.PrintMatchHeader(os.Stdout, ms, cat, storage.Scoreline(ms, ms.RequesterID))
	report.PrintScoreboard(os.Stdout, ms, cat)
	if buildRounds {
		report.PrintRounds(os.Stdout, ms, cat)
		fmt.Fprintln(os.Stdout)
	}
	if ms.IsPlayed {
		report.PrintKillMatrix(os.Stdout, ms, cat, ms.RequesterID)
	}

	if !buildSave {
		return nil
	}
	exists, err := db.MatchExists(ms.MatchID)
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if err := db.SaveMatch(ms); err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "\nReplaced stored match %s.\n", ms.MatchID)
	} else {
		fmt.Fprintf(os.Stdout, "\nSaved match %s.\n", ms.MatchID)
	}
	return nil
}
