package fitness

import (
	"maps"
	"slices"
	"time"
)

type WeightPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type CaloriePoint struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
}

// DailyNutrition sums all nutrition entries of one day.
type DailyNutrition struct {
	Date     string          `json:"date"`
	Calories float64         `json:"calories"`
	Protein  float64         `json:"protein"`
	Entries  int             `json:"entries"`
	Report   NutritionReport `json:"report"`
}

type ProgressReport struct {
	Weight        []WeightPoint    `json:"weight"`
	Calories      []CaloriePoint   `json:"calories"`
	CurrentWeight *float64         `json:"currentWeight,omitempty"`
	DailyTotals   []DailyNutrition `json:"dailyTotals"`
	PRs           PRs              `json:"prs"`
	Streak        int              `json:"streak"`
	Workouts      int              `json:"workouts"`
}

// Progress builds the chart series and summary numbers of the progress dashboard.
func Progress(doc *Document, today time.Time) ProgressReport {
	report := ProgressReport{
		Weight:      make([]WeightPoint, 0, len(doc.BodyWeight)),
		Calories:    make([]CaloriePoint, 0, len(doc.Calories)),
		DailyTotals: []DailyNutrition{},
		PRs:         maps.Clone(doc.PRs),
		Streak:      StreakFor(doc, today),
		Workouts:    len(doc.History),
	}
	if report.PRs == nil {
		report.PRs = PRs{}
	}

	for _, w := range doc.BodyWeight {
		report.Weight = append(report.Weight, WeightPoint{Date: w.Date, Weight: w.Weight})
	}
	if n := len(doc.BodyWeight); n > 0 {
		current := doc.BodyWeight[n-1].Weight
		report.CurrentWeight = &current
	}

	day2totals := make(map[string]*DailyNutrition)
	for _, c := range doc.Calories {
		report.Calories = append(report.Calories, CaloriePoint{Date: c.Date, Calories: c.Calories})

		totals, ok := day2totals[c.Date]
		if !ok {
			totals = &DailyNutrition{Date: c.Date}
			day2totals[c.Date] = totals
		}
		totals.Calories += c.Calories
		totals.Protein += c.Protein
		totals.Entries++
	}

	for _, date := range slices.Sorted(maps.Keys(day2totals)) {
		totals := day2totals[date]
		totals.Report = EvaluateNutrition(totals.Calories, totals.Protein)
		report.DailyTotals = append(report.DailyTotals, *totals)
	}

	return report
}
