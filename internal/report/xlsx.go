package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/golive-cli/internal/engine"
	"github.com/sells-group/golive-cli/internal/phase"
)

const dateFormat = "2006-01-02"

// WriteXLSX writes the snapshot to a two-sheet workbook: a summary sheet
// with the headline figures and a phases sheet with per-phase diagnostics.
// When timeline is non-nil a third sheet carries the daily quality series.
func WriteXLSX(path string, snap *Snapshot, timeline *engine.Result) error {
	f := xlsx.NewFile()

	if err := writeSummarySheet(f, snap); err != nil {
		return err
	}
	if err := writePhasesSheet(f, snap); err != nil {
		return err
	}
	if timeline != nil {
		if err := writeTimelineSheet(f, timeline); err != nil {
			return err
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func writeSummarySheet(f *xlsx.File, snap *Snapshot) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	addKV := func(key string, set func(*xlsx.Cell)) {
		row := sheet.AddRow()
		row.AddCell().SetString(key)
		set(row.AddCell())
	}

	addKV("Scenario", func(c *xlsx.Cell) { c.SetString(snap.Scenario) })
	addKV("Generated", func(c *xlsx.Cell) { c.SetString(snap.GeneratedAt.Format(dateFormat)) })
	addKV("As of", func(c *xlsx.Cell) { c.SetString(snap.AsOf.Format(dateFormat)) })
	addKV("Quality %", func(c *xlsx.Cell) { c.SetFloatWithFormat(snap.Quality, "0.00") })
	addKV("Baseline quality %", func(c *xlsx.Cell) { c.SetFloatWithFormat(snap.BaselineQuality, "0.00") })
	addKV("Health score", func(c *xlsx.Cell) { c.SetFloatWithFormat(snap.HealthScore, "0.00") })
	addKV("Status", func(c *xlsx.Cell) { c.SetString(string(snap.HealthStatus)) })
	addKV("Delay (days)", func(c *xlsx.Cell) { c.SetInt(snap.DelayDays) })
	addKV("Main risk", func(c *xlsx.Cell) { c.SetString(snap.MainRiskPhase) })
	addKV("Estimated cost", func(c *xlsx.Cell) { c.SetFloatWithFormat(snap.EstimatedCost, "#,##0.00") })
	addKV("ROI %", func(c *xlsx.Cell) { c.SetFloatWithFormat(snap.ROIPct, "0.00") })
	addKV("Payback (months)", func(c *xlsx.Cell) { c.SetFloatWithFormat(snap.PaybackMonths, "0.0") })
	return nil
}

func writePhasesSheet(f *xlsx.File, snap *Snapshot) error {
	sheet, err := f.AddSheet("Phases")
	if err != nil {
		return eris.Wrap(err, "report: add phases sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Phase", "Start", "End", "Completion %", "Health %", "Delay (days)", "Quality loss"} {
		header.AddCell().SetString(h)
	}

	for _, d := range snap.Phases {
		row := sheet.AddRow()
		row.AddCell().SetString(d.Phase.String())
		row.AddCell().SetString(d.Start.Format(dateFormat))
		row.AddCell().SetString(d.End.Format(dateFormat))
		row.AddCell().SetFloatWithFormat(d.Completion, "0.00")
		row.AddCell().SetFloatWithFormat(d.Health, "0.00")
		row.AddCell().SetInt(d.DelayDays)
		row.AddCell().SetFloatWithFormat(d.QualityLoss, "0.00")
	}
	return nil
}

func writeTimelineSheet(f *xlsx.File, timeline *engine.Result) error {
	sheet, err := f.AddSheet("Timeline")
	if err != nil {
		return eris.Wrap(err, "report: add timeline sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Date")
	for _, p := range phase.All() {
		header.AddCell().SetString(p.String() + " %")
	}
	header.AddCell().SetString("Quality %")

	for _, pt := range timeline.Points {
		row := sheet.AddRow()
		row.AddCell().SetString(pt.Date.Format(dateFormat))
		for _, p := range phase.All() {
			row.AddCell().SetFloatWithFormat(pt.Phases[p].Effective, "0.00")
		}
		row.AddCell().SetFloatWithFormat(pt.TotalQuality, "0.00")
	}
	return nil
}
