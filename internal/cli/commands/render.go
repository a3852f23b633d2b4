package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/mealplan/internal/cli/output"
	"github.com/leapstack-labs/mealplan/pkg/core"
)

// DayPlan is one day of the weekly plan in structured output.
type DayPlan struct {
	Day       string `json:"day" yaml:"day"`
	Breakfast string `json:"breakfast" yaml:"breakfast"`
	Lunch     string `json:"lunch" yaml:"lunch"`
	Dinner    string `json:"dinner" yaml:"dinner"`
}

// PlanOutput is the structured output of list-plan.
type PlanOutput struct {
	Days     []DayPlan `json:"days" yaml:"days"`
	Complete bool      `json:"complete" yaml:"complete"`
}

// MealsOutput is the structured output of show.
type MealsOutput struct {
	Category string      `json:"category" yaml:"category"`
	Meals    []core.Meal `json:"meals" yaml:"meals"`
}

func buildPlanOutput(plan core.WeeklyPlan) PlanOutput {
	out := PlanOutput{Days: []DayPlan{}, Complete: plan.Complete()}
	for _, day := range core.Days() {
		meals, ok := plan[day]
		if !ok {
			continue
		}
		out.Days = append(out.Days, DayPlan{
			Day:       day.String(),
			Breakfast: meals[core.CategoryBreakfast],
			Lunch:     meals[core.CategoryLunch],
			Dinner:    meals[core.CategoryDinner],
		})
	}
	return out
}

// writeMealsText prints meals the way the interactive show command does:
// a category line, then name and ingredients per meal separated by blank lines.
func writeMealsText(w io.Writer, label string, meals []core.Meal) {
	_, _ = fmt.Fprintf(w, "Category: %s\n", label)
	for i, m := range meals {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "Name: %s\n", m.Name)
		_, _ = fmt.Fprintln(w, "Ingredients:")
		for _, ing := range m.Ingredients {
			_, _ = fmt.Fprintln(w, ing.Name)
		}
	}
}

// writePlanText prints every planned day followed by its three meals and
// a blank line.
func writePlanText(w io.Writer, plan core.WeeklyPlan) {
	for _, d := range buildPlanOutput(plan).Days {
		_, _ = fmt.Fprintln(w, d.Day)
		_, _ = fmt.Fprintf(w, "Breakfast: %s\n", d.Breakfast)
		_, _ = fmt.Fprintf(w, "Lunch: %s\n", d.Lunch)
		_, _ = fmt.Fprintf(w, "Dinner: %s\n", d.Dinner)
		_, _ = fmt.Fprintln(w)
	}
}

func renderMeals(r *output.Renderer, category core.Category, meals []core.Meal) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(MealsOutput{Category: category.String(), Meals: meals})
	case output.ModeYAML:
		return r.YAML(MealsOutput{Category: category.String(), Meals: meals})
	case output.ModeTable:
		rows := make([][]string, len(meals))
		for i, m := range meals {
			rows[i] = []string{fmt.Sprintf("%d", m.ID), m.Name, strings.Join(m.IngredientNames(), ", ")}
		}
		r.Table([]string{"ID", "Name", "Ingredients"}, rows)
		return nil
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, output.Title(category.String())))
		if len(meals) == 0 {
			r.Println("")
			r.Println("No meals found.")
		}
		for _, m := range meals {
			r.Println("")
			r.Println(output.FormatHeader(2, m.Name))
			for _, ing := range m.IngredientNames() {
				r.Printf("- %s\n", ing)
			}
		}
		return nil
	default:
		if len(meals) == 0 {
			r.Println("No meals found.")
			return nil
		}
		writeMealsText(r.Writer(), category.String(), meals)
		return nil
	}
}

func renderPlan(r *output.Renderer, plan core.WeeklyPlan) error {
	out := buildPlanOutput(plan)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeYAML:
		return r.YAML(out)
	case output.ModeTable:
		rows := make([][]string, len(out.Days))
		for i, d := range out.Days {
			rows[i] = []string{d.Day, d.Breakfast, d.Lunch, d.Dinner}
		}
		r.Table([]string{"Day", "Breakfast", "Lunch", "Dinner"}, rows)
		return nil
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Weekly Plan"))
		if len(out.Days) == 0 {
			r.Println("")
			r.Println(msgNoPlan)
		}
		for _, d := range out.Days {
			r.Println("")
			r.Println(output.FormatHeader(2, d.Day))
			r.Println(output.FormatKeyValue("Breakfast", d.Breakfast))
			r.Println(output.FormatKeyValue("Lunch", d.Lunch))
			r.Println(output.FormatKeyValue("Dinner", d.Dinner))
		}
		return nil
	default:
		if len(out.Days) == 0 {
			r.Println(msgNoPlan)
			return nil
		}
		writePlanText(r.Writer(), plan)
		return nil
	}
}
