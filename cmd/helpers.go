package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/golive-cli/internal/i18n"
	"github.com/sells-group/golive-cli/internal/phase"
	"github.com/sells-group/golive-cli/internal/scenario"
)

// openStore opens the scenario store for the configured driver.
func openStore(ctx context.Context) (scenario.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		store, err := scenario.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	case "postgres":
		store, err := scenario.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// loadScenario resolves the scenario the command should operate on: a YAML
// file via --file, a saved scenario via --name, or the default baseline plan
// when neither is given. Risk overrides from --risk apply on top.
func loadScenario(ctx context.Context, cmd *cobra.Command) (*scenario.Scenario, error) {
	file, _ := cmd.Flags().GetString("file")
	name, _ := cmd.Flags().GetString("name")

	var sc *scenario.Scenario
	switch {
	case file != "":
		loaded, err := scenario.LoadFile(file)
		if err != nil {
			return nil, err
		}
		sc = loaded
	case name != "":
		store, err := openStore(ctx)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		loaded, err := store.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		sc = loaded
	default:
		sc = scenario.New("baseline", phase.DefaultBaseline(), nil)
	}

	overrides, _ := cmd.Flags().GetStringSlice("risk")
	if len(overrides) > 0 {
		if sc.Risks == nil {
			sc.Risks = phase.RiskValues{}
		}
		for _, o := range overrides {
			p, v, err := parseRiskOverride(o)
			if err != nil {
				return nil, err
			}
			sc.Risks[p] = v
		}
	}

	return sc, nil
}

// parseRiskOverride parses "Phase=value" pairs, e.g. "Migration=40".
func parseRiskOverride(s string) (phase.Phase, float64, error) {
	key, value, found := strings.Cut(s, "=")
	if !found {
		return 0, 0, eris.Errorf("invalid --risk %q (expected Phase=value)", s)
	}
	p, err := phase.Parse(strings.TrimSpace(key))
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "invalid --risk value %q", value)
	}
	if v < 0 || v > 100 {
		return 0, 0, eris.Errorf("--risk value for %s out of range [0,100]: %g", p, v)
	}
	return p, v, nil
}

// translator builds the output translator from --lang or config.
func translator(cmd *cobra.Command) *i18n.Translator {
	lang, _ := cmd.Flags().GetString("lang")
	if lang == "" {
		lang = cfg.Report.Language
	}
	return i18n.New(lang)
}

func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("file", "", "scenario YAML file")
	f.String("name", "", "saved scenario name")
	f.StringSlice("risk", nil, "risk overrides, Phase=value (e.g. Migration=40)")
	f.String("lang", "", "output language: es or en (default from config)")
}
