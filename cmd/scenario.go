package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/golive-cli/internal/phase"
	"github.com/sells-group/golive-cli/internal/scenario"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage saved scenarios",
}

var scenarioSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save a scenario from a YAML file (or the default plan) under NAME",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var sc *scenario.Scenario
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			loaded, err := scenario.LoadFile(file)
			if err != nil {
				return err
			}
			sc = loaded
		} else {
			sc = scenario.New(args[0], phase.DefaultBaseline(), nil)
		}
		sc.Name = args[0]

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		// Saving under an existing name replaces that scenario.
		if existing, err := store.GetByName(ctx, sc.Name); err == nil {
			sc.ID = existing.ID
			sc.CreatedAt = existing.CreatedAt
		}

		if err := store.Save(ctx, sc); err != nil {
			return err
		}
		fmt.Printf("Saved scenario %q (%s)\n", sc.Name, sc.ID)
		return nil
	},
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		filter := scenario.ListFilter{}
		filter.Name, _ = cmd.Flags().GetString("match")
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		scenarios, err := store.List(ctx, filter)
		if err != nil {
			return err
		}
		if len(scenarios) == 0 {
			fmt.Println("No scenarios saved.")
			return nil
		}

		fmt.Printf("%-20s %-36s %-12s %s\n", "NAME", "ID", "UPDATED", "RISKS")
		for _, s := range scenarios {
			fmt.Printf("%-20s %-36s %-12s %.0f\n",
				s.Name, s.ID, s.UpdatedAt.Format("2006-01-02"), s.Risks.Sum())
		}
		return nil
	},
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		sc, err := store.GetByName(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:   %s\n", sc.Name)
		fmt.Printf("ID:     %s\n", sc.ID)
		fmt.Printf("Budget: %.1f%%\n", sc.BudgetPctUsed)
		fmt.Printf("\n%-14s %-12s %-12s %8s\n", "PHASE", "START", "END", "RISK")
		for _, p := range phase.All() {
			w := sc.Windows[p]
			fmt.Printf("%-14s %-12s %-12s %7.0f%%\n",
				p, w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"), sc.Risks[p])
		}
		return nil
	},
}

var scenarioDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		sc, err := store.GetByName(ctx, args[0])
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, sc.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted scenario %q\n", args[0])
		return nil
	},
}

var scenarioExportCmd = &cobra.Command{
	Use:   "export NAME FILE",
	Short: "Export a saved scenario to a YAML file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		sc, err := store.GetByName(ctx, args[0])
		if err != nil {
			return err
		}
		if err := sc.WriteFile(args[1]); err != nil {
			return err
		}
		fmt.Printf("Exported %q to %s\n", args[0], args[1])
		return nil
	},
}

var scenarioImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a scenario from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sc, err := scenario.LoadFile(args[0])
		if err != nil {
			return err
		}
		if sc.ID == "" {
			fresh := scenario.New(sc.Name, sc.Windows, sc.Risks)
			fresh.Baseline = sc.Baseline
			fresh.BudgetPctUsed = sc.BudgetPctUsed
			fresh.MonthlyCost = sc.MonthlyCost
			sc = fresh
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Save(ctx, sc); err != nil {
			return err
		}
		fmt.Printf("Imported scenario %q (%s)\n", sc.Name, sc.ID)
		return nil
	},
}

func init() {
	scenarioSaveCmd.Flags().String("file", "", "scenario YAML file")
	scenarioListCmd.Flags().String("match", "", "filter by name substring")
	scenarioListCmd.Flags().Int("limit", 0, "maximum results")

	scenarioCmd.AddCommand(scenarioSaveCmd, scenarioListCmd, scenarioShowCmd,
		scenarioDeleteCmd, scenarioExportCmd, scenarioImportCmd)
	rootCmd.AddCommand(scenarioCmd)
}
