package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/golive-cli/internal/engine"
	"github.com/sells-group/golive-cli/internal/phase"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Build the cascade timeline for a scenario",
	Long: `Shifts each phase behind its predecessors, measures delays against the
baseline plan, and evaluates completion, health, and quality day by day.

Examples:
  # Timeline for the default baseline plan
  timeline

  # Timeline for a scenario file with a risk override
  timeline --file plan.yaml --risk Migration=40

  # Quality on a specific date, series dumped as JSON
  timeline --name q4-golive --as-of 2025-11-03 --out series.json`,
	RunE: runTimeline,
}

func init() {
	addScenarioFlags(timelineCmd)
	f := timelineCmd.Flags()
	f.String("as-of", "", "evaluation date (default: planned go-live)")
	f.Float64("target", 0, "report the first date quality reaches this value")
	f.String("out", "", "write the daily series as JSON to this file")
	rootCmd.AddCommand(timelineCmd)
}

func runTimeline(cmd *cobra.Command, _ []string) error {
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

	result, err := engine.BuildTimeline(sc.Windows, sc.Baseline, sc.Risks)
	if err != nil {
		return err
	}

	tr := translator(cmd)
	printPhaseTable(tr, result, asOf)

	fmt.Printf("\n%s (%s): %.2f%%\n", tr.T("quality"), asOf.Format("2006-01-02"), result.QualityAt(asOf))
	riskPhase, riskHealth := result.MainRisk()
	fmt.Printf("%s: %s (%.1f%%)\n", tr.T("main_risk"), tr.T("phase."+riskPhase.String()), riskHealth)

	if target, _ := cmd.Flags().GetFloat64("target"); target > 0 {
		if date, ok := result.FirstDateReaching(target); ok {
			fmt.Printf("%s %.1f%%: %s\n", tr.T("quality"), target, date.Format("2006-01-02"))
		} else {
			fmt.Printf("%s %.1f%%: -\n", tr.T("quality"), target)
		}
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := writeSeries(out, result); err != nil {
			return err
		}
		zap.L().Info("timeline series written", zap.String("path", out))
	}

	return nil
}

func printPhaseTable(tr translatorT, result *engine.Result, asOf time.Time) {
	// Pick the daily point closest to asOf for the completion columns.
	point := result.Points[0]
	for _, pt := range result.Points {
		point = pt
		if !pt.Date.Before(asOf) {
			break
		}
	}

	fmt.Printf("%-14s %-12s %-12s %10s %10s %8s\n",
		tr.T("phase"), tr.T("start"), tr.T("end"),
		tr.T("completion"), tr.T("health"), tr.T("delay_days"))
	for _, p := range phase.All() {
		w := result.Effective[p]
		m := point.Phases[p]
		fmt.Printf("%-14s %-12s %-12s %9.1f%% %9.1f%% %8d\n",
			tr.T("phase."+p.String()),
			w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"),
			m.Completion, m.Health, result.Delays[p])
	}
}

// translatorT is the label lookup the table printers need.
type translatorT interface {
	T(key string) string
}

func writeSeries(path string, result *engine.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return eris.Wrap(err, "timeline: marshal series")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "timeline: write %s", path)
	}
	return nil
}
