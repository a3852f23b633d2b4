package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/mealplan/internal/cli/config"
	"github.com/leapstack-labs/mealplan/internal/cli/output"
	"github.com/leapstack-labs/mealplan/pkg/core"
	"github.com/spf13/cobra"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the database and the stored plan",
		Long: `Connect to the configured database and report its health:
- connection and schema version
- number of meals, ingredients and plan rows
- whether every category has meals and the plan covers the whole week

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Run health check
  mealplan doctor

  # Output as JSON
  mealplan doctor -o json`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

// DoctorOutput is the structured output for the doctor command.
type DoctorOutput struct {
	Driver     string         `json:"driver" yaml:"driver"`
	ConfigFile string         `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	Stats      DoctorStats    `json:"stats" yaml:"stats"`
	Checks     []HealthCheck  `json:"checks" yaml:"checks"`
	Categories map[string]int `json:"categories" yaml:"categories"`
	Healthy    bool           `json:"healthy" yaml:"healthy"`
}

// DoctorStats are the row counts of the store.
type DoctorStats struct {
	SchemaVersion int64 `json:"schema_version" yaml:"schema_version"`
	Meals         int64 `json:"meals" yaml:"meals"`
	Ingredients   int64 `json:"ingredients" yaml:"ingredients"`
	PlanEntries   int64 `json:"plan_entries" yaml:"plan_entries"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"` // "pass", "warn"
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	stats, err := cmdCtx.Store.Stats(ctx)
	if err != nil {
		return err
	}

	counts := make(map[string]int, 3)
	for _, c := range core.Categories() {
		meals, err := cmdCtx.Store.ListByCategory(ctx, c, core.OrderInsertion)
		if err != nil {
			return err
		}
		counts[c.String()] = len(meals)
	}

	out := buildDoctorOutput(stats, counts)
	out.ConfigFile = config.GetConfigFileUsed()

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeYAML:
		return r.YAML(out)
	case output.ModeMarkdown:
		renderDoctorMarkdown(r, out)
		return nil
	case output.ModeTable:
		rows := make([][]string, len(out.Checks))
		for i, c := range out.Checks {
			rows[i] = []string{c.Name, c.Status, c.Detail}
		}
		r.Table([]string{"Check", "Status", "Detail"}, rows)
		return nil
	default:
		renderDoctorText(r, out)
		return nil
	}
}

func buildDoctorOutput(stats *core.StoreStats, counts map[string]int) *DoctorOutput {
	out := &DoctorOutput{
		Driver: stats.Driver,
		Stats: DoctorStats{
			SchemaVersion: stats.SchemaVersion,
			Meals:         stats.Meals,
			Ingredients:   stats.Ingredients,
			PlanEntries:   stats.PlanEntries,
		},
		Categories: counts,
		Healthy:    true,
	}

	add := func(name string, ok bool, detail string) {
		status := "pass"
		if !ok {
			status = "warn"
			out.Healthy = false
		}
		out.Checks = append(out.Checks, HealthCheck{Name: name, Status: status, Detail: detail})
	}

	add("connection", true, stats.Driver)
	add("schema", stats.SchemaVersion > 0, fmt.Sprintf("version %d", stats.SchemaVersion))

	var empty []string
	for _, c := range core.Categories() {
		if counts[c.String()] == 0 {
			empty = append(empty, c.String())
		}
	}
	if len(empty) == 0 {
		add("categories", true, "every category has meals")
	} else {
		add("categories", false, "no meals in "+strings.Join(empty, ", "))
	}

	switch {
	case stats.PlanEntries == 0:
		add("plan", false, "no plan saved")
	case stats.PlanComplete():
		add("plan", true, "full week planned")
	default:
		add("plan", false, fmt.Sprintf("%d of %d slots planned", stats.PlanEntries, core.SlotsPerWeek))
	}
	return out
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) {
	styles := r.Styles()

	r.Println(styles.Header1.Render("mealplan health report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 40)))
	r.Printf("   Driver: %s | Schema: v%d\n", out.Driver, out.Stats.SchemaVersion)
	r.Printf("   Meals: %d | Ingredients: %d | Plan rows: %d\n", out.Stats.Meals, out.Stats.Ingredients, out.Stats.PlanEntries)
	r.Println("")

	r.Println(styles.Header2.Render("Checks"))
	for _, c := range out.Checks {
		icon := styles.StatusSuccess.String()
		if c.Status != "pass" {
			icon = styles.Warning.Render("!")
		}
		r.Printf("   %s %s: %s\n", icon, c.Name, styles.Muted.Render(c.Detail))
	}
	r.Println("")

	r.Println(styles.Header2.Render("Meals per category"))
	for _, c := range core.Categories() {
		r.Printf("   %s: %d\n", output.Title(c.String()), out.Categories[c.String()])
	}
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) {
	r.Println(output.FormatHeader(1, "mealplan health report"))
	r.Println("")
	r.Println(output.FormatKeyValue("Driver", out.Driver))
	r.Println(output.FormatKeyValue("Schema version", fmt.Sprintf("%d", out.Stats.SchemaVersion)))
	r.Println(output.FormatKeyValue("Meals", fmt.Sprintf("%d", out.Stats.Meals)))
	r.Println(output.FormatKeyValue("Ingredients", fmt.Sprintf("%d", out.Stats.Ingredients)))
	r.Println(output.FormatKeyValue("Plan rows", fmt.Sprintf("%d", out.Stats.PlanEntries)))
	r.Println("")
	r.Println(output.FormatHeader(2, "Checks"))
	r.Println("")
	for _, c := range out.Checks {
		mark := "x"
		if c.Status != "pass" {
			mark = " "
		}
		r.Printf("- [%s] %s: %s\n", mark, c.Name, c.Detail)
	}
}
