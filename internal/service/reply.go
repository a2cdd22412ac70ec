package service

import (
	"fmt"
	"strings"

	"github.com/macrolog-ai/macrolog/internal/domain"
)

// ComposeMealReply renders the human-readable confirmation for a logged meal:
// the meal's totals, the day's running totals, and the remaining budget when
// a target is set.
func ComposeMealReply(result *LogMealResult) string {
	if result.NoFood {
		return "I didn't detect any food in your message. Please describe your meal!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This meal: %.0f kcal, Protein: %.1f g, Carbs: %.1f g, Fat: %.1f g\n",
		result.Meal.TotalKcal, result.Meal.TotalProtein, result.Meal.TotalCarbs, result.Meal.TotalFat)
	fmt.Fprintf(&b, "Day total: %.0f kcal, Protein: %.1f g, Carbs: %.1f g, Fat: %.1f g",
		result.Day.TotalKcal, result.Day.TotalProtein, result.Day.TotalCarbs, result.Day.TotalFat)

	if result.HasTarget {
		remaining := result.TargetKcal - result.Day.TotalKcal
		if remaining >= 0 {
			fmt.Fprintf(&b, "\nRemaining: %.0f kcal (%.0f/%.0f)",
				remaining, result.Day.TotalKcal, result.TargetKcal)
		} else {
			fmt.Fprintf(&b, "\nOver by: %.0f kcal (%.0f/%.0f)",
				-remaining, result.Day.TotalKcal, result.TargetKcal)
		}
	}
	return b.String()
}

// ComposeDaySummary renders a day's totals followed by its entries, one
// numbered line per entry at its ledger position.
func ComposeDaySummary(agg *domain.DayAggregate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Totals:\nCalories: %.0f kcal\nProtein: %.1f g\nCarbs: %.1f g\nFat: %.1f g\n\nMeals:\n",
		agg.TotalKcal, agg.TotalProtein, agg.TotalCarbs, agg.TotalFat)

	if len(agg.Lines) == 0 {
		b.WriteString("None yet!")
		return b.String()
	}

	for i, line := range agg.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(composeEntryLine(line))
	}
	return b.String()
}

func composeEntryLine(line domain.LedgerLine) string {
	item := line.Item
	name := item.Item
	if name == "" {
		name = "?"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s, %s %s (%s kcal", line.Position, name,
		formatAmount(float64(item.Quantity)), unitOrDefault(item.Unit),
		formatAmount(float64(item.TotalKcal)))
	fmt.Fprintf(&b, ", protein: %s, carbs: %s, fat: %s)",
		formatAmount(float64(item.Protein)),
		formatAmount(float64(item.Carbs)),
		formatAmount(float64(item.Fat)))
	return b.String()
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return "?"
	}
	return unit
}

// formatAmount trims trailing zeros so whole numbers print without a
// decimal point.
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
