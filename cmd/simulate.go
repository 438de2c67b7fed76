package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/golive-cli/internal/montecarlo"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a Monte Carlo simulation over a scenario",
	Long: `Perturbs phase durations under a PERT distribution scaled by each
phase's risk, rebuilds the timeline per draw, and reports confidence bands
for quality, project duration, and cost.

Examples:
  simulate --file plan.yaml --draws 5000
  simulate --name q4-golive --risk Migration=60 --seed 7`,
	RunE: runSimulate,
}

func init() {
	addScenarioFlags(simulateCmd)
	f := simulateCmd.Flags()
	f.Int("draws", 0, "number of draws (default from config)")
	f.Int64("seed", 0, "random seed (default from config)")
	f.Int("workers", 0, "parallel workers (default from config)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sc, err := loadScenario(ctx, cmd)
	if err != nil {
		return err
	}

	params := montecarlo.Params{
		Scenario:    sc.Windows,
		Baseline:    sc.Baseline,
		Risks:       sc.Risks,
		Draws:       cfg.Simulation.Draws,
		Seed:        cfg.Simulation.Seed,
		Workers:     cfg.Simulation.Workers,
		MonthlyCost: sc.MonthlyCost,
	}
	if params.MonthlyCost == 0 {
		params.MonthlyCost = cfg.Cost.MonthlyCost()
	}
	if v, _ := cmd.Flags().GetInt("draws"); v > 0 {
		params.Draws = v
	}
	if v, _ := cmd.Flags().GetInt64("seed"); v != 0 {
		params.Seed = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		params.Workers = v
	}

	zap.L().Info("starting simulation",
		zap.String("scenario", sc.Name),
		zap.Int("draws", params.Draws),
		zap.Int64("seed", params.Seed),
	)

	summary, err := montecarlo.Run(ctx, params)
	if err != nil {
		return err
	}

	tr := translator(cmd)
	fmt.Printf("%s: %s  (%s: %d)\n\n", tr.T("scenario"), sc.Name, tr.T("draws"), summary.Draws)
	fmt.Printf("%-18s %10s %10s %10s %10s %10s\n",
		"", tr.T("mean"), tr.T("std"), "p10", "p50", "p90")
	printStats(tr.T("quality"), summary.Quality)
	printStats(tr.T("duration_days"), summary.Duration)
	printStats(tr.T("cost"), summary.Cost)

	return nil
}

func printStats(label string, s montecarlo.Stats) {
	fmt.Printf("%-18s %10.2f %10.2f %10.2f %10.2f %10.2f\n",
		label, s.Mean, s.Std, s.P10, s.P50, s.P90)
}
