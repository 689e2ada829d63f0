package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sternrassler/starship-pilots/pkg/combo"
	"github.com/Sternrassler/starship-pilots/pkg/resolver"
	"github.com/Sternrassler/starship-pilots/pkg/swapi"
)

type ListFlags struct {
	ClientFlags   *ClientFlags
	StrategyFlags *StrategyFlags

	Passengers int
	Runs       int
}

func NewListFlags() *ListFlags {
	return &ListFlags{
		ClientFlags:   NewClientFlags(),
		StrategyFlags: NewStrategyFlags(),
		Passengers:    1,
		Runs:          1,
	}
}

func (f *ListFlags) BindFlags(flagSet *pflag.FlagSet) {
	f.ClientFlags.BindFlags(flagSet)
	f.StrategyFlags.BindFlags(flagSet)

	flagSet.IntVar(&f.Passengers, "passengers", f.Passengers, "Number of passengers the starship must carry")
	flagSet.IntVar(&f.Runs, "runs", f.Runs, "Repeat the report this many times on the same client (later runs hit the cache)")
}

func (f *ListFlags) Validate() error {
	if f.Passengers < 0 {
		return fmt.Errorf("--passengers must not be negative (got %d)", f.Passengers)
	}
	if f.Runs < 1 {
		return fmt.Errorf("--runs must be at least 1 (got %d)", f.Runs)
	}
	return nil
}

func NewListCommand() *cobra.Command {
	f := NewListFlags()

	cmd := &cobra.Command{
		Use:   "list",
		Short: `Print "{Starship} - {Pilot}" for every ship that fits the passengers`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Validate(); err != nil {
				return fmt.Errorf("error validating options: %w", err)
			}

			strategy, err := f.StrategyFlags.GetStrategy()
			if err != nil {
				return err
			}

			c, err := f.ClientFlags.GetClient()
			if err != nil {
				return err
			}

			for run := 1; run <= f.Runs; run++ {
				if err := listCombos(cmd.Context(), cmd.OutOrStdout(), c, f.Passengers, strategy, run); err != nil {
					return err
				}
			}
			return nil
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}

func listCombos(ctx context.Context, out io.Writer, c *swapi.Client, passengers int, strategy resolver.Strategy, run int) error {
	start := time.Now()
	count := 0

	for line, err := range combo.ByPassengers(ctx, c, passengers, combo.Options{Strategy: strategy}) {
		if err != nil {
			return fmt.Errorf("run %d: %w", run, err)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
		count++
	}

	stats := c.Fetcher().Stats()
	log.Info().
		Int("run", run).
		Int("passengers", passengers).
		Str("strategy", strategy.Name()).
		Int("items", count).
		Int("cache_entries", stats.Entries).
		Int64("cache_hits", stats.Hits).
		Int64("cache_misses", stats.Misses).
		Dur("duration", time.Since(start)).
		Msg("Report complete")
	return nil
}
