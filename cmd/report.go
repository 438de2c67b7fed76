package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/golive-cli/internal/engine"
	"github.com/sells-group/golive-cli/internal/phase"
	"github.com/sells-group/golive-cli/internal/report"
	"github.com/sells-group/golive-cli/pkg/notion"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a project snapshot report",
	Long: `Builds a snapshot (quality, health score, per-phase diagnostics, cost
and ROI estimates), writes it as an XLSX workbook, and optionally publishes
it to the PMO FTP share and the Notion status database.

Examples:
  report --name q4-golive
  report --file plan.yaml --ftp --notion --lang en`,
	RunE: runReport,
}

func init() {
	addScenarioFlags(reportCmd)
	f := reportCmd.Flags()
	f.String("as-of", "", "evaluation date (default: planned go-live)")
	f.String("out", "", "XLSX output path (default: <scenario>.xlsx in report.out_dir)")
	f.Bool("ftp", false, "upload the workbook to the configured FTP share")
	f.Bool("notion", false, "publish the snapshot to the configured Notion database")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("report"); err != nil {
		return err
	}

	sc, err := loadScenario(ctx, cmd)
	if err != nil {
		return err
	}

	asOf := phase.GoLiveDate()
	if s, _ := cmd.Flags().GetString("as-of"); s != "" {
		if asOf, err = phase.ParseDate(s); err != nil {
			return err
		}
	}

	snap, err := report.Build(sc, cfg.Cost, asOf)
	if err != nil {
		return err
	}
	timeline, err := engine.BuildTimeline(sc.Windows, sc.Baseline, sc.Risks)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(cfg.Report.OutDir, sc.Name+".xlsx")
	}
	if err := report.WriteXLSX(out, snap, timeline); err != nil {
		return err
	}

	tr := translator(cmd)
	printSnapshot(tr, snap)
	fmt.Printf("\nWorkbook: %s\n", out)

	if push, _ := cmd.Flags().GetBool("ftp"); push {
		uploader := report.NewFTPUploader(cfg.Report.FTP)
		if err := uploader.Upload(ctx, out); err != nil {
			return err
		}
		fmt.Println("Uploaded to FTP share.")
	}

	if publish, _ := cmd.Flags().GetBool("notion"); publish {
		client := notion.NewClient(cfg.Report.Notion.Token)
		publisher := report.NewNotionPublisher(client, cfg.Report.Notion.StatusDB)
		pageID, err := publisher.Publish(ctx, snap)
		if err != nil {
			return err
		}
		zap.L().Info("notion page published", zap.String("page_id", pageID))
		fmt.Println("Published to Notion.")
	}

	return nil
}

func printSnapshot(tr translatorT, snap *report.Snapshot) {
	fmt.Printf("%-18s %s\n", tr.T("scenario"), snap.Scenario)
	fmt.Printf("%-18s %s\n", tr.T("as_of"), snap.AsOf.Format("2006-01-02"))
	fmt.Printf("%-18s %.2f%% (%s %.2f%%)\n",
		tr.T("quality"), snap.Quality, tr.T("baseline_quality"), snap.BaselineQuality)
	fmt.Printf("%-18s %.1f (%s)\n",
		tr.T("health_score"), snap.HealthScore, tr.T("status."+string(snap.HealthStatus)))
	fmt.Printf("%-18s %d\n", tr.T("delay_days"), snap.DelayDays)
	fmt.Printf("%-18s %s (%.1f%%)\n", tr.T("main_risk"), snap.MainRiskPhase, snap.MainRiskHealth)
	fmt.Printf("%-18s %s\n", tr.T("estimated_cost"), formatMoney(snap.EstimatedCost))
	fmt.Printf("%-18s %.1f%%\n", tr.T("roi"), snap.ROIPct)
	fmt.Printf("%-18s %.1f\n", tr.T("payback_months"), snap.PaybackMonths)
}

// formatMoney renders an amount with thousands separators.
func formatMoney(v float64) string {
	whole := int64(v)
	s := fmt.Sprintf("%d", whole)
	if whole < 0 {
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if whole < 0 {
		return "-" + string(out)
	}
	return string(out)
}
