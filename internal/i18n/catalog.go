package i18n

var spanish = map[string]string{
	"scenario":         "Escenario",
	"phase":            "Fase",
	"start":            "Inicio",
	"end":              "Fin",
	"completion":       "Avance %",
	"health":           "Salud %",
	"effective":        "Avance efectivo %",
	"delay_days":       "Retraso (días)",
	"quality":          "Calidad %",
	"baseline_quality": "Calidad plan %",
	"health_score":     "Índice de salud",
	"status":           "Estado",
	"main_risk":        "Riesgo principal",
	"estimated_cost":   "Coste estimado",
	"roi":              "ROI %",
	"payback_months":   "Retorno (meses)",
	"go_live":          "Go-live",
	"as_of":            "A fecha de",
	"draws":            "Iteraciones",
	"mean":             "Media",
	"std":              "Desv. típica",
	"duration_days":    "Duración (días)",
	"cost":             "Coste",

	"status.critical": "crítico",
	"status.warning":  "en riesgo",
	"status.healthy":  "saludable",

	"phase.UAT":       "UAT",
	"phase.Migration": "Migración",
	"phase.E2E":       "E2E",
	"phase.Training":  "Formación",
	"phase.PRO":       "Entorno PRO",
	"phase.Hypercare": "Hypercare",
}

var english = map[string]string{
	"scenario":         "Scenario",
	"phase":            "Phase",
	"start":            "Start",
	"end":              "End",
	"completion":       "Completion %",
	"health":           "Health %",
	"effective":        "Effective progress %",
	"delay_days":       "Delay (days)",
	"quality":          "Quality %",
	"baseline_quality": "Plan quality %",
	"health_score":     "Health score",
	"status":           "Status",
	"main_risk":        "Main risk",
	"estimated_cost":   "Estimated cost",
	"roi":              "ROI %",
	"payback_months":   "Payback (months)",
	"go_live":          "Go-live",
	"as_of":            "As of",
	"draws":            "Draws",
	"mean":             "Mean",
	"std":              "Std dev",
	"duration_days":    "Duration (days)",
	"cost":             "Cost",

	"status.critical": "critical",
	"status.warning":  "at risk",
	"status.healthy":  "healthy",

	"phase.UAT":       "UAT",
	"phase.Migration": "Migration",
	"phase.E2E":       "E2E",
	"phase.Training":  "Training",
	"phase.PRO":       "PRO environment",
	"phase.Hypercare": "Hypercare",
}
