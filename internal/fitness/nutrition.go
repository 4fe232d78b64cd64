package fitness

import (
	"fmt"
	"strconv"
)

const (
	DailyCalorieGoal = 2300.0
	DailyProteinGoal = 180.0
)

type CaloriesStatus struct {
	Over      bool    `json:"over"`
	OverBy    float64 `json:"overBy"`
	Remaining float64 `json:"remaining"`
}

type ProteinStatus struct {
	GoalMet bool    `json:"goalMet"`
	Surplus float64 `json:"surplus"`
	Deficit float64 `json:"deficit"`
}

// NutritionReport holds both classifications of one logged entry.
type NutritionReport struct {
	Calories CaloriesStatus `json:"calories"`
	Protein  ProteinStatus  `json:"protein"`
}

func EvaluateNutrition(calories, protein float64) NutritionReport {
	var report NutritionReport

	if calories > DailyCalorieGoal {
		report.Calories.Over = true
		report.Calories.OverBy = calories - DailyCalorieGoal
	} else {
		report.Calories.Remaining = DailyCalorieGoal - calories
	}

	if protein >= DailyProteinGoal {
		report.Protein.GoalMet = true
		report.Protein.Surplus = protein - DailyProteinGoal
	} else {
		report.Protein.Deficit = DailyProteinGoal - protein
	}

	return report
}

// Messages renders the calorie line and then the protein line.
func (r NutritionReport) Messages() []string {
	msgs := make([]string, 0, 2)
	if r.Calories.Over {
		msgs = append(msgs, fmt.Sprintf("%s calories over limit.", formatAmount(r.Calories.OverBy)))
	} else {
		msgs = append(msgs, fmt.Sprintf("%s calories remaining!", formatAmount(r.Calories.Remaining)))
	}
	if r.Protein.GoalMet {
		msgs = append(msgs, fmt.Sprintf("Protein goal hit! (+%sg)", formatAmount(r.Protein.Surplus)))
	} else {
		msgs = append(msgs, fmt.Sprintf("Missing %sg of protein.", formatAmount(r.Protein.Deficit)))
	}
	return msgs
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
