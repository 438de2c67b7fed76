package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/golive-cli/internal/engine"
	"github.com/sells-group/golive-cli/internal/healthscore"
	"github.com/sells-group/golive-cli/internal/phase"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Compute the 0-100 project health score",
	Long: `Combines quality at the evaluation date, schedule delay, budget usage,
and summed risks into a single indicator with a critical/warning/healthy
classification.`,
	RunE: runHealth,
}

func init() {
	addScenarioFlags(healthCmd)
	f := healthCmd.Flags()
	f.String("as-of", "", "evaluation date (default: planned go-live)")
	f.Float64("budget", 0, "budget used, percent of plan (overrides scenario)")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	sc, err := loadScenario(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	asOf := phase.GoLiveDate()
	if s, _ := cmd.Flags().GetString("as-of"); s != "" {
		if asOf, err = phase.ParseDate(s); err != nil {
			return err
		}
	}
	if budget, _ := cmd.Flags().GetFloat64("budget"); budget > 0 {
		sc.BudgetPctUsed = budget
	}

	result, err := engine.BuildTimeline(sc.Windows, sc.Baseline, sc.Risks)
	if err != nil {
		return err
	}

	quality := result.QualityAt(asOf)
	delay := result.MaxDelay()
	score := healthscore.Score(quality, delay, sc.BudgetPctUsed, sc.Risks.Sum())
	status := healthscore.StatusFor(score)

	tr := translator(cmd)
	fmt.Printf("%-18s %s\n", tr.T("scenario"), sc.Name)
	fmt.Printf("%-18s %s\n", tr.T("as_of"), asOf.Format("2006-01-02"))
	fmt.Printf("%-18s %.2f%%\n", tr.T("quality"), quality)
	fmt.Printf("%-18s %d\n", tr.T("delay_days"), delay)
	fmt.Printf("%-18s %.1f / 100\n", tr.T("health_score"), score)
	fmt.Printf("%-18s %s\n", tr.T("status"), tr.T("status."+string(status)))

	return nil
}
