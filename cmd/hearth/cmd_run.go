package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/hearth/internal/agents"
	"github.com/talgya/hearth/internal/chronicle"
	"github.com/talgya/hearth/internal/config"
	"github.com/talgya/hearth/internal/engine"
	"github.com/talgya/hearth/internal/phi"
	"github.com/talgya/hearth/internal/relations"
	"github.com/talgya/hearth/internal/world"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Settle the town and run it for a number of days",
		Long: `Spawn households, record their kinships, then advance the town one
simulated day at a time. People drift between their homes and the town's
gathering places; whoever shares a hex on a given day meets or moves their
relationship forward.

Examples:
  hearth run                          # Defaults: 40 households, 365 days
  hearth run --days 30 --households 10
  HEARTH_SEED=7 hearth run --config tuning.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("days") {
				cfg.Run.Days, _ = cmd.Flags().GetInt("days")
			}
			if cmd.Flags().Changed("households") {
				cfg.Run.Households, _ = cmd.Flags().GetInt("households")
			}
			if cmd.Flags().Changed("seed") {
				cfg.Run.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Run.LogLevel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runTown(ctx, cfg, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Int("days", 0, "Number of simulated days (overrides config)")
	cmd.Flags().Int("households", 0, "Number of households to spawn (overrides config)")
	cmd.Flags().Int64("seed", 0, "World seed (overrides config)")
	return cmd
}

// runTown settles and runs one town, then writes a summary to out. An
// interrupted run still flushes its events and prints what it has.
func runTown(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	logger.Info("hearth starting",
		"seed", cfg.Run.Seed,
		"households", cfg.Run.Households,
		"days", cfg.Run.Days,
		"phi", phi.Phi,
	)

	db, err := chronicle.Open(cfg.Run.Chronicle)
	if err != nil {
		return fmt.Errorf("open chronicle: %w", err)
	}
	defer db.Close()

	town := world.NewTown(cfg.Run.TownRadius)
	drift := world.NewDrift(town, cfg.Run.Seed)
	logger.Info("town laid out", "town", town.String())

	sim := engine.NewSimulation(town, drift, &cfg.Simulation, logger, db.Hook(logger))

	spawner := agents.NewSpawner(cfg.Run.Seed)
	for i := 0; i < cfg.Run.Households; i++ {
		if err := sim.Settle(spawner.SpawnHousehold(town.Lot(i), 1, 0)); err != nil {
			return fmt.Errorf("household %d: %w", i, err)
		}
	}
	logger.Info("households settled",
		"population", sim.Stats.Population,
		"kinships", sim.Stats.Current[relations.KindKinship],
	)

	eng := engine.NewEngine()
	eng.Interval = 0
	sim.Wire(eng)

	runErr := eng.RunFor(ctx, uint64(cfg.Run.Days)*engine.TicksPerSimDay)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run interrupted", "tick", eng.Tick, "time", engine.SimTime(eng.Tick))
	}

	if err := db.SaveEvents(sim.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("seed", strconv.FormatInt(cfg.Run.Seed, 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("last_tick", strconv.FormatUint(eng.Tick, 10)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	return writeSummary(out, sim, db, eng.Tick)
}

func writeSummary(out io.Writer, sim *engine.Simulation, db *chronicle.DB, tick uint64) error {
	ever, err := db.CountByKind()
	if err != nil {
		return err
	}
	longest, err := db.LongestChains(3)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "hearth: %s days simulated (%s)\n",
		humanize.Comma(int64(tick/engine.TicksPerSimDay)), engine.SimTime(tick))
	fmt.Fprintf(out, "  population:  %s\n", humanize.Comma(int64(sim.Stats.Population)))
	fmt.Fprintf(out, "  meetings:    %s\n", humanize.Comma(int64(sim.Stats.Meetings)))
	fmt.Fprintf(out, "  transitions: %s to friendship, %s to enmity\n",
		humanize.Comma(int64(sim.Stats.Friendships)), humanize.Comma(int64(sim.Stats.Enmities)))
	fmt.Fprintln(out, "  records (current / ever constructed):")
	for _, k := range []relations.Kind{
		relations.KindKinship, relations.KindAcquaintance, relations.KindFriendship, relations.KindEnmity,
	} {
		fmt.Fprintf(out, "    %-13s %8s / %s\n", k.String(),
			humanize.Comma(int64(sim.Stats.Current[k])), humanize.Comma(int64(ever[k.String()])))
	}
	for _, c := range longest {
		owner, subject := sim.AgentIndex[agents.AgentID(c.OwnerID)], sim.AgentIndex[agents.AgentID(c.SubjectID)]
		if owner == nil || subject == nil {
			continue
		}
		fmt.Fprintf(out, "  longest chain: %s → %s, %s records\n",
			owner.Name, subject.Name, humanize.Comma(int64(c.Length)))
	}
	if sim.Stats.Errors > 0 {
		fmt.Fprintf(out, "  errors:      %s\n", humanize.Comma(int64(sim.Stats.Errors)))
	}
	return nil
}
